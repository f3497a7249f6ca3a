package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
	ulid "github.com/oklog/ulid/v2"
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

func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*UserResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, ErrInvalid("name and email are required")
	}

	id, err := s.store.Insert(ctx, ulid.Make().String(), in)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return nil, ErrConflict("email already registered")
		}
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*UserResponse, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, includeDisabled bool) ([]UserResponse, error) {
	return s.store.List(ctx, includeDisabled)
}

// 物理削除はしない。貸出履歴が残るので is_disabled で無効化する。
func (s *Service) UpdateUser(ctx context.Context, id int64, in UpdateUserRequest) (*UserResponse, error) {
	n, err := s.store.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound("user not found")
	}
	return s.store.GetByID(ctx, id)
}
