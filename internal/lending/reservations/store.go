package reservations

import (
	"context"
	"database/sql"
	"errors"

	"biblio-backend/internal/platform/db"
)

type ReservationStore interface {
	ListByBookAndLibrary(ctx context.Context, bookID, libraryID int64) ([]Reservation, error)
	// 三つ組で一意に引く。該当なしは (nil, nil)。
	GetByBookLibraryAndUser(ctx context.Context, bookID, libraryID, userID int64) (*Reservation, error)
	GetByID(ctx context.Context, id int64) (*Reservation, error)
	Insert(ctx context.Context, r *Reservation) error
	DeleteByID(ctx context.Context, id int64) (int64, error)
	// 貸出ワークフローのTxから呼ばれる削除
	DeleteByIDTx(ctx context.Context, tx db.DBTX, id int64) (int64, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) ReservationStore { return &Store{db: db} }

const reservationColumns = `reservation_id, reservation_ulid, book_id, library_id, registered_user_id, reserved_at`

func scanReservation(row interface{ Scan(dest ...any) error }) (*Reservation, error) {
	var r Reservation
	err := row.Scan(
		&r.ReservationID, &r.ReservationULID, &r.BookID, &r.LibraryID,
		&r.RegisteredUserID, &r.ReservedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListByBookAndLibrary(ctx context.Context, bookID, libraryID int64) ([]Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE book_id = ? AND library_id = ?`
	rows, err := s.db.QueryContext(ctx, q, bookID, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetByBookLibraryAndUser(ctx context.Context, bookID, libraryID, userID int64) (*Reservation, error) {
	const q = `
	SELECT ` + reservationColumns + `
	FROM reservations
	WHERE book_id = ? AND library_id = ? AND registered_user_id = ?
	LIMIT 1`
	r, err := scanReservation(s.db.QueryRowContext(ctx, q, bookID, libraryID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE reservation_id = ?`
	r, err := scanReservation(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound("reservation not found")
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) Insert(ctx context.Context, r *Reservation) error {
	const q = `
	INSERT INTO reservations
	(reservation_ulid, book_id, library_id, registered_user_id, reserved_at)
	VALUES
	(?, ?, ?, ?, CURRENT_TIMESTAMP)`
	res, err := s.db.ExecContext(ctx, q, r.ReservationULID, r.BookID, r.LibraryID, r.RegisteredUserID)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	r.ReservationID = id
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, id int64) (int64, error) {
	return deleteByID(ctx, s.db, id)
}

func (s *Store) DeleteByIDTx(ctx context.Context, tx db.DBTX, id int64) (int64, error) {
	return deleteByID(ctx, tx, id)
}

func deleteByID(ctx context.Context, q db.DBTX, id int64) (int64, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM reservations WHERE reservation_id = ?`, id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}
