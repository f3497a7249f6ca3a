package copies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"biblio-backend/internal/lending"
	"biblio-backend/internal/platform/db"
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
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func ToHTTPStatus(err error) int {
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
	store CopyStore
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, store: NewStore(db)}
}

// RelatedAvailableCopyUpdate は貸出レコードの保存のたびに呼ばれる。
// カウンタの増減方向はこちらのポリシー:
//   - out    : -1（在庫ゼロならCONFLICT）
//   - return : +1
//   - extend : 増減なし
func (s *Service) RelatedAvailableCopyUpdate(ctx context.Context, tx db.DBTX, bookID, libraryID int64, op lending.Operation) error {
	var delta int
	switch op {
	case lending.OpOut:
		delta = -1
	case lending.OpReturn:
		delta = +1
	case lending.OpExtend:
		// 延長は冊数に影響しない
		return nil
	default:
		return ErrInvalid("unknown operation type")
	}

	copyID, available, err := s.store.LockRowTx(ctx, tx, bookID, libraryID)
	if err != nil {
		return err
	}

	if op == lending.OpOut && available <= 0 {
		return ErrConflict("no available copy")
	}

	return s.store.AddAvailableTx(ctx, tx, copyID, delta)
}

func (s *Service) GetAvailability(ctx context.Context, bookID, libraryID int64) (*AvailableCopy, error) {
	if bookID <= 0 || libraryID <= 0 {
		return nil, ErrInvalid("book_id and library_id are required")
	}
	return s.store.GetByBookAndLibrary(ctx, bookID, libraryID)
}

// RegisterCopies: 蔵書登録・棚卸しでの数直し
func (s *Service) RegisterCopies(ctx context.Context, c *AvailableCopy) error {
	if c.BookID <= 0 || c.LibraryID <= 0 {
		return ErrInvalid("book_id and library_id are required")
	}
	if c.Total < 0 || c.Available < 0 || c.Available > c.Total {
		return ErrInvalid("available must be between 0 and total")
	}
	return s.store.Upsert(ctx, c)
}
