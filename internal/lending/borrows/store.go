package borrows

import (
	"context"
	"database/sql"

	"biblio-backend/internal/platform/db"
)

// BorrowStore は borrows テーブルへのアクセス。
// SaveTx だけは貸出ワークフローのTxに参加するため DBTX を受け取る。
type BorrowStore interface {
	ListAll(ctx context.Context) ([]Borrow, error)
	GetByID(ctx context.Context, id int64) (*Borrow, error)
	SaveTx(ctx context.Context, tx db.DBTX, b *Borrow) error
	DeleteByID(ctx context.Context, id int64) (int64, error)
	ListByRegisteredUserID(ctx context.Context, userID int64) ([]Borrow, error)
	ListByBookAndLibrary(ctx context.Context, bookID, libraryID int64) ([]Borrow, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) BorrowStore { return &Store{db: db} }

const borrowColumns = `borrow_id, borrow_ulid, book_id, library_id, registered_user_id, return_date, extended_duration, borrowed_at`

func scanBorrow(row interface{ Scan(dest ...any) error }) (*Borrow, error) {
	var b Borrow
	err := row.Scan(
		&b.BorrowID, &b.BorrowULID, &b.BookID, &b.LibraryID, &b.RegisteredUserID,
		&b.ReturnDate, &b.ExtendedDuration, &b.BorrowedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) ListAll(ctx context.Context) ([]Borrow, error) {
	const q = `SELECT ` + borrowColumns + ` FROM borrows ORDER BY borrow_id`
	return s.queryBorrows(ctx, q)
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Borrow, error) {
	const q = `SELECT ` + borrowColumns + ` FROM borrows WHERE borrow_id = ?`
	b, err := scanBorrow(s.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound("borrow not found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// SaveTx: borrow_id 未設定ならINSERT、設定済みならUPDATE。
// INSERT後は採番されたPKを書き戻す。
func (s *Store) SaveTx(ctx context.Context, tx db.DBTX, b *Borrow) error {
	if b.BorrowID == 0 {
		const q = `
	INSERT INTO borrows
	(borrow_ulid, book_id, library_id, registered_user_id, return_date, extended_duration, borrowed_at)
	VALUES
	(?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`
		res, err := tx.ExecContext(ctx, q,
			b.BorrowULID, b.BookID, b.LibraryID, b.RegisteredUserID,
			b.ReturnDate.Format(dateLayout), b.ExtendedDuration,
		)
		if err != nil {
			return err
		}
		id, _ := res.LastInsertId()
		b.BorrowID = id
		return nil
	}

	const q = `
	UPDATE borrows
	SET book_id = ?, library_id = ?, registered_user_id = ?, return_date = ?, extended_duration = ?
	WHERE borrow_id = ?`
	res, err := tx.ExecContext(ctx, q,
		b.BookID, b.LibraryID, b.RegisteredUserID,
		b.ReturnDate.Format(dateLayout), b.ExtendedDuration, b.BorrowID,
	)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		// 更新対象なし＝存在しないID（同値更新もここに落ちるがDATE/flagが動く運用上ほぼ無い）
		return ErrNotFound("borrow not found")
	}
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM borrows WHERE borrow_id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) ListByRegisteredUserID(ctx context.Context, userID int64) ([]Borrow, error) {
	const q = `SELECT ` + borrowColumns + ` FROM borrows WHERE registered_user_id = ? ORDER BY borrow_id`
	return s.queryBorrows(ctx, q, userID)
}

func (s *Store) ListByBookAndLibrary(ctx context.Context, bookID, libraryID int64) ([]Borrow, error) {
	const q = `SELECT ` + borrowColumns + ` FROM borrows WHERE book_id = ? AND library_id = ? ORDER BY borrow_id`
	return s.queryBorrows(ctx, q, bookID, libraryID)
}

func (s *Store) queryBorrows(ctx context.Context, q string, args ...any) ([]Borrow, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Borrow
	for rows.Next() {
		b, err := scanBorrow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
