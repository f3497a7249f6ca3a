package libraries

import (
	"context"
	"database/sql"
	"errors"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Insert(ctx context.Context, in CreateLibraryRequest) (int64, error) {
	const q = `INSERT INTO libraries (name, address) VALUES (?, ?)`
	res, err := s.db.ExecContext(ctx, q, in.Name, in.Address)
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*LibraryResponse, error) {
	const q = `SELECT library_id, name, address FROM libraries WHERE library_id = ?`
	var l LibraryResponse
	err := s.db.QueryRowContext(ctx, q, id).Scan(&l.LibraryID, &l.Name, &l.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound("library not found")
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Store) List(ctx context.Context) ([]LibraryResponse, error) {
	const q = `SELECT library_id, name, address FROM libraries ORDER BY library_id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LibraryResponse
	for rows.Next() {
		var l LibraryResponse
		if err := rows.Scan(&l.LibraryID, &l.Name, &l.Address); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, id int64, in UpdateLibraryRequest) (int64, error) {
	q := `UPDATE libraries SET `
	args := []any{}
	sep := ""
	if in.Name != nil {
		q += sep + `name = ?`
		args = append(args, *in.Name)
		sep = ", "
	}
	if in.Address != nil {
		q += sep + `address = ?`
		args = append(args, *in.Address)
		sep = ", "
	}
	if len(args) == 0 {
		return 0, ErrInvalid("no fields to update")
	}
	q += ` WHERE library_id = ?`
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM libraries WHERE library_id = ?`, id)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
