package borrows

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	ulid "github.com/oklog/ulid/v2"

	"biblio-backend/internal/lending"
	"biblio-backend/internal/platform/db"
)

const dateLayout = "2006-01-02"

// 延長1回ぶんの期間（4週間）
const extensionDays = 28

// -------------- Clock & ID --------------

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type IDGen interface{ NewULID(t time.Time) string }
type ulidGen struct{}

func (ulidGen) NewULID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// -------------- Collaborators --------------

// AvailableCopyManager は蔵書の貸出可能数を管理する協調サービス。
// 貸出レコードの保存と同一Txで呼ばれる。
type AvailableCopyManager interface {
	RelatedAvailableCopyUpdate(ctx context.Context, tx db.DBTX, bookID, libraryID int64, op lending.Operation) error
}

// ReservationManager は新規貸出で消化される予約を解決する協調サービス。
type ReservationManager interface {
	RelatedReservationUpdate(ctx context.Context, tx db.DBTX, bookID, libraryID, userID int64) error
}

// -------------- Service --------------

type txFunc func(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error

type Service struct {
	db           *sql.DB
	store        BorrowStore
	copies       AvailableCopyManager
	reservations ReservationManager
	clock        Clock
	id           IDGen
	tx           txFunc
}

func NewService(conn *sql.DB, copies AvailableCopyManager, reservations ReservationManager) *Service {
	return &Service{
		db:           conn,
		store:        NewStore(conn),
		copies:       copies,
		reservations: reservations,
		clock:        realClock{},
		id:           ulidGen{},
		tx: func(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
			return db.RunInTx(ctx, conn, nil, fn)
		},
	}
}

// ProcessBorrow は貸出レコードの保存と、その副作用の起点。
//  1. extend の場合は前提条件チェックの上で返却期限を+4週間、延長済みフラグを立てる
//  2. borrows へ保存（INSERT or UPDATE）
//  3. 操作種別によらず貸出可能数を更新
//  4. out の場合のみ該当ユーザーの予約を解決
//
// 2〜4は同一Txで実行され、どこかで失敗すれば全てROLLBACKされる。
func (s *Service) ProcessBorrow(ctx context.Context, b *Borrow, op lending.Operation) (*Borrow, error) {
	if !op.Valid() {
		return nil, ErrInvalid("unknown operation type")
	}
	if b.BookID <= 0 || b.LibraryID <= 0 || b.RegisteredUserID <= 0 {
		return nil, ErrInvalid("book_id, library_id, registered_user_id are required")
	}

	if op == lending.OpExtend {
		if b.ExtendedDuration {
			return nil, ErrAlreadyExtended()
		}
		today := dateOnly(s.clock.Now())
		if dateOnly(b.ReturnDate).Before(today) {
			return nil, ErrReturnDateOutdated()
		}

		// 現在の返却期限を起点に4週間延長（当日起点ではない）
		b.ReturnDate = b.ReturnDate.AddDate(0, 0, extensionDays)
		b.ExtendedDuration = true
	}

	err := s.tx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := s.store.SaveTx(ctx, tx, b); err != nil {
			return err
		}

		if err := s.copies.RelatedAvailableCopyUpdate(ctx, tx, b.BookID, b.LibraryID, op); err != nil {
			return err
		}

		if op == lending.OpOut {
			return s.reservations.RelatedReservationUpdate(ctx, tx, b.BookID, b.LibraryID, b.RegisteredUserID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CheckOut: POST /borrows
func (s *Service) CheckOut(ctx context.Context, req CreateBorrowRequest) (*BorrowResponse, error) {
	returnDate, err := time.ParseInLocation(dateLayout, req.ReturnDate, time.UTC)
	if err != nil {
		return nil, ErrInvalid("invalid return_date format, expected YYYY-MM-DD")
	}

	now := s.clock.Now()
	b := &Borrow{
		BorrowULID:       s.id.NewULID(now),
		BookID:           req.BookID,
		LibraryID:        req.LibraryID,
		RegisteredUserID: req.RegisteredUserID,
		ReturnDate:       returnDate,
		ExtendedDuration: false,
		BorrowedAt:       now,
	}

	if _, err := s.ProcessBorrow(ctx, b, lending.OpOut); err != nil {
		return nil, err
	}
	resp := buildBorrowResponse(b)
	return &resp, nil
}

// Extend: POST /borrows/:borrow_id/extend
func (s *Service) Extend(ctx context.Context, borrowID int64) (*BorrowResponse, error) {
	b, err := s.store.GetByID(ctx, borrowID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ProcessBorrow(ctx, b, lending.OpExtend); err != nil {
		return nil, err
	}
	resp := buildBorrowResponse(b)
	return &resp, nil
}

// Return: POST /borrows/:borrow_id/return
// 単純保存の経路。貸出可能数の増加は copies 側のポリシー。
func (s *Service) Return(ctx context.Context, borrowID int64) (*BorrowResponse, error) {
	b, err := s.store.GetByID(ctx, borrowID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ProcessBorrow(ctx, b, lending.OpReturn); err != nil {
		return nil, err
	}
	resp := buildBorrowResponse(b)
	return &resp, nil
}

func (s *Service) GetBorrow(ctx context.Context, borrowID int64) (*BorrowResponse, error) {
	b, err := s.store.GetByID(ctx, borrowID)
	if err != nil {
		return nil, err
	}
	resp := buildBorrowResponse(b)
	return &resp, nil
}

// ListBorrows: user_id または book_id+library_id での絞り込みに対応
func (s *Service) ListBorrows(ctx context.Context, f ListFilter) ([]BorrowResponse, error) {
	var (
		items []Borrow
		err   error
	)
	switch {
	case f.RegisteredUserID != nil:
		items, err = s.store.ListByRegisteredUserID(ctx, *f.RegisteredUserID)
	case f.BookID != nil && f.LibraryID != nil:
		items, err = s.store.ListByBookAndLibrary(ctx, *f.BookID, *f.LibraryID)
	case f.BookID != nil || f.LibraryID != nil:
		return nil, ErrInvalid("book_id and library_id must be given together")
	default:
		items, err = s.store.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	result := make([]BorrowResponse, 0, len(items))
	for i := range items {
		result = append(result, buildBorrowResponse(&items[i]))
	}
	return result, nil
}

func (s *Service) DeleteBorrow(ctx context.Context, borrowID int64) error {
	n, err := s.store.DeleteByID(ctx, borrowID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound("borrow not found")
	}
	return nil
}

type ListFilter struct {
	RegisteredUserID *int64
	BookID           *int64
	LibraryID        *int64
}

// DATE比較用（時刻成分を落とす）
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
