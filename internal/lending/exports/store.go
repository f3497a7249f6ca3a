package exports

import (
	"context"
	"database/sql"
	"time"
)

// 貸出台帳の1行（books / libraries / registered_users をJOINして名前解決済み）
type LedgerRow struct {
	BorrowID         int64
	BookTitle        string
	LibraryName      string
	UserName         string
	ReturnDate       time.Time
	ExtendedDuration bool
	BorrowedAt       time.Time
}

type LedgerStore interface {
	ListLedger(ctx context.Context) ([]LedgerRow, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) LedgerStore { return &Store{db: db} }

func (s *Store) ListLedger(ctx context.Context) ([]LedgerRow, error) {
	const q = `
	SELECT
		br.borrow_id, b.title, l.name, u.name,
		br.return_date, br.extended_duration, br.borrowed_at
	FROM borrows br
	JOIN books b ON b.book_id = br.book_id
	JOIN libraries l ON l.library_id = br.library_id
	JOIN registered_users u ON u.user_id = br.registered_user_id
	ORDER BY br.borrowed_at DESC`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LedgerRow
	for rows.Next() {
		var r LedgerRow
		if err := rows.Scan(
			&r.BorrowID, &r.BookTitle, &r.LibraryName, &r.UserName,
			&r.ReturnDate, &r.ExtendedDuration, &r.BorrowedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
