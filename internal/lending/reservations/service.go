package reservations

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	ulid "github.com/oklog/ulid/v2"

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
	store ReservationStore
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, store: NewStore(db)}
}

// RelatedReservationUpdate は新規貸出（out）で呼ばれ、
// そのユーザーが同じ本×館に持つ予約を消化（削除）する。
// 予約が無ければ何もしない。
func (s *Service) RelatedReservationUpdate(ctx context.Context, tx db.DBTX, bookID, libraryID, userID int64) error {
	r, err := s.store.GetByBookLibraryAndUser(ctx, bookID, libraryID, userID)
	if err != nil {
		return err
	}
	if r == nil {
		return nil
	}

	n, err := s.store.DeleteByIDTx(ctx, tx, r.ReservationID)
	if err != nil {
		return err
	}
	if n == 0 {
		// 並行して消化済み。貸出自体は成立させる。
		log.Printf("[WARN] reservation %d already resolved", r.ReservationID)
		return nil
	}
	return nil
}

func (s *Service) CreateReservation(ctx context.Context, req CreateReservationRequest) (*ReservationResponse, error) {
	if req.BookID <= 0 || req.LibraryID <= 0 || req.RegisteredUserID <= 0 {
		return nil, ErrInvalid("book_id, library_id, registered_user_id are required")
	}

	r := &Reservation{
		ReservationULID:  newULID(),
		BookID:           req.BookID,
		LibraryID:        req.LibraryID,
		RegisteredUserID: req.RegisteredUserID,
		ReservedAt:       time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, r); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) {
			switch me.Number {
			case 1062: // duplicate key
				return nil, ErrConflict("reservation already exists for this user")
			case 1452: // foreign key constraint fails
				return nil, ErrInvalid("invalid book_id, library_id or registered_user_id")
			}
		}
		return nil, err
	}

	resp := buildReservationResponse(r)
	return &resp, nil
}

// ListReservations: book_id+library_id 必須、registered_user_id は任意。
// 三つ組が揃えば高々1件。
func (s *Service) ListReservations(ctx context.Context, bookID, libraryID int64, userID *int64) ([]ReservationResponse, error) {
	if bookID <= 0 || libraryID <= 0 {
		return nil, ErrInvalid("book_id and library_id are required")
	}

	if userID != nil {
		r, err := s.store.GetByBookLibraryAndUser(ctx, bookID, libraryID, *userID)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return []ReservationResponse{}, nil
		}
		return []ReservationResponse{buildReservationResponse(r)}, nil
	}

	items, err := s.store.ListByBookAndLibrary(ctx, bookID, libraryID)
	if err != nil {
		return nil, err
	}
	result := make([]ReservationResponse, 0, len(items))
	for i := range items {
		result = append(result, buildReservationResponse(&items[i]))
	}
	return result, nil
}

func (s *Service) GetReservation(ctx context.Context, id int64) (*ReservationResponse, error) {
	r, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := buildReservationResponse(r)
	return &resp, nil
}

func (s *Service) DeleteReservation(ctx context.Context, id int64) error {
	n, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound("reservation not found")
	}
	return nil
}

func newULID() string {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
