package books

import (
	"context"
	"database/sql"
	"errors"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const bookColumns = `book_id, book_ulid, isbn, title, author`

func (s *Store) Insert(ctx context.Context, ulid string, in CreateBookRequest) (int64, error) {
	const q = `INSERT INTO books (book_ulid, isbn, title, author) VALUES (?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, ulid, nullIfEmpty(in.ISBN), in.Title, in.Author)
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*BookResponse, error) {
	const q = `SELECT ` + bookColumns + ` FROM books WHERE book_id = ?`
	var (
		b    BookResponse
		isbn sql.NullString
	)
	err := s.db.QueryRowContext(ctx, q, id).Scan(&b.BookID, &b.BookULID, &isbn, &b.Title, &b.Author)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound("book not found")
	}
	if err != nil {
		return nil, err
	}
	b.ISBN = isbn.String
	return &b, nil
}

// List: タイトル・著者の部分一致検索つき
func (s *Store) List(ctx context.Context, keyword string, limit, offset int) ([]BookResponse, error) {
	q := `SELECT ` + bookColumns + ` FROM books`
	args := []any{}
	if keyword != "" {
		q += ` WHERE title LIKE ? OR author LIKE ?`
		like := "%" + keyword + "%"
		args = append(args, like, like)
	}
	q += ` ORDER BY book_id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookResponse
	for rows.Next() {
		var (
			b    BookResponse
			isbn sql.NullString
		)
		if err := rows.Scan(&b.BookID, &b.BookULID, &isbn, &b.Title, &b.Author); err != nil {
			return nil, err
		}
		b.ISBN = isbn.String
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, id int64, in UpdateBookRequest) (int64, error) {
	q := `UPDATE books SET `
	args := []any{}
	sep := ""
	if in.ISBN != nil {
		q += sep + `isbn = ?`
		args = append(args, nullIfEmpty(*in.ISBN))
		sep = ", "
	}
	if in.Title != nil {
		q += sep + `title = ?`
		args = append(args, *in.Title)
		sep = ", "
	}
	if in.Author != nil {
		q += sep + `author = ?`
		args = append(args, *in.Author)
		sep = ", "
	}
	if len(args) == 0 {
		return 0, ErrInvalid("no fields to update")
	}
	q += ` WHERE book_id = ?`
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE book_id = ?`, id)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
