package users

import (
	"context"
	"database/sql"
	"errors"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const userColumns = `user_id, user_ulid, name, email, is_disabled`

func (s *Store) Insert(ctx context.Context, ulid string, in CreateUserRequest) (int64, error) {
	const q = `INSERT INTO registered_users (user_ulid, name, email, is_disabled) VALUES (?, ?, ?, 0)`
	res, err := s.db.ExecContext(ctx, q, ulid, in.Name, in.Email)
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*UserResponse, error) {
	const q = `SELECT ` + userColumns + ` FROM registered_users WHERE user_id = ?`
	var (
		u          UserResponse
		isDisabled int
	)
	err := s.db.QueryRowContext(ctx, q, id).Scan(&u.UserID, &u.UserULID, &u.Name, &u.Email, &isDisabled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	u.IsDisabled = isDisabled != 0
	return &u, nil
}

func (s *Store) List(ctx context.Context, includeDisabled bool) ([]UserResponse, error) {
	q := `SELECT ` + userColumns + ` FROM registered_users`
	if !includeDisabled {
		q += ` WHERE is_disabled = 0`
	}
	q += ` ORDER BY user_id`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserResponse
	for rows.Next() {
		var (
			u          UserResponse
			isDisabled int
		)
		if err := rows.Scan(&u.UserID, &u.UserULID, &u.Name, &u.Email, &isDisabled); err != nil {
			return nil, err
		}
		u.IsDisabled = isDisabled != 0
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, id int64, in UpdateUserRequest) (int64, error) {
	q := `UPDATE registered_users SET `
	args := []any{}
	sep := ""
	if in.Name != nil {
		q += sep + `name = ?`
		args = append(args, *in.Name)
		sep = ", "
	}
	if in.Email != nil {
		q += sep + `email = ?`
		args = append(args, *in.Email)
		sep = ", "
	}
	if in.IsDisabled != nil {
		q += sep + `is_disabled = ?`
		args = append(args, *in.IsDisabled)
		sep = ", "
	}
	if len(args) == 0 {
		return 0, ErrInvalid("no fields to update")
	}
	q += ` WHERE user_id = ?`
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
