package libraries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
)

// ===== Error model =====
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}

// ===== Service =====

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(db *sql.DB) *Service { return &Service{db: db, store: NewStore(db)} }

func (s *Service) CreateLibrary(ctx context.Context, in CreateLibraryRequest) (*LibraryResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrInvalid("name is required")
	}
	id, err := s.store.Insert(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}

func (s *Service) GetLibrary(ctx context.Context, id int64) (*LibraryResponse, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) ListLibraries(ctx context.Context) ([]LibraryResponse, error) {
	return s.store.List(ctx)
}

func (s *Service) UpdateLibrary(ctx context.Context, id int64, in UpdateLibraryRequest) (*LibraryResponse, error) {
	if _, err := s.store.Update(ctx, id, in); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}

func (s *Service) DeleteLibrary(ctx context.Context, id int64) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1451 {
			return ErrConflict("library is referenced by borrows or reservations")
		}
		return err
	}
	if n == 0 {
		return ErrNotFound("library not found")
	}
	return nil
}
