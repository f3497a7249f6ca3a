package copies

import (
	"context"
	"database/sql"
	"errors"

	"biblio-backend/internal/platform/db"
)

type CopyStore interface {
	GetByBookAndLibrary(ctx context.Context, bookID, libraryID int64) (*AvailableCopy, error)
	// 在庫行をロックして取得（貸出ワークフローのTx内で使う）
	LockRowTx(ctx context.Context, tx db.DBTX, bookID, libraryID int64) (copyID int64, available int, err error)
	AddAvailableTx(ctx context.Context, tx db.DBTX, copyID int64, delta int) error
	Upsert(ctx context.Context, c *AvailableCopy) error
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) CopyStore { return &Store{db: db} }

func (s *Store) GetByBookAndLibrary(ctx context.Context, bookID, libraryID int64) (*AvailableCopy, error) {
	const q = `
	SELECT copy_id, book_id, library_id, total, available
	FROM available_copies
	WHERE book_id = ? AND library_id = ?`
	var c AvailableCopy
	err := s.db.QueryRowContext(ctx, q, bookID, libraryID).Scan(
		&c.CopyID, &c.BookID, &c.LibraryID, &c.Total, &c.Available,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound("no copy record for this book and library")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// 在庫行ロック。同じ borrow への並行操作はここで直列化される。
func (s *Store) LockRowTx(ctx context.Context, tx db.DBTX, bookID, libraryID int64) (int64, int, error) {
	const q = `SELECT copy_id, available FROM available_copies WHERE book_id = ? AND library_id = ? LIMIT 1 FOR UPDATE`
	var (
		copyID    int64
		available int
	)
	if err := tx.QueryRowContext(ctx, q, bookID, libraryID).Scan(&copyID, &available); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, ErrNotFound("no copy record for this book and library")
		}
		return 0, 0, err
	}
	return copyID, available, nil
}

func (s *Store) AddAvailableTx(ctx context.Context, tx db.DBTX, copyID int64, delta int) error {
	const q = `UPDATE available_copies SET available = available + ? WHERE copy_id = ?`
	res, err := tx.ExecContext(ctx, q, delta, copyID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff != 1 {
		return ErrInternal("failed to update available_copies.available")
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, c *AvailableCopy) error {
	const q = `
	INSERT INTO available_copies (book_id, library_id, total, available)
	VALUES (?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE total = VALUES(total), available = VALUES(available)`
	res, err := s.db.ExecContext(ctx, q, c.BookID, c.LibraryID, c.Total, c.Available)
	if err != nil {
		return err
	}
	if id, _ := res.LastInsertId(); id > 0 {
		c.CopyID = id
	}
	return nil
}
