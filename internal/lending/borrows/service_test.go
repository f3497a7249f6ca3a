package borrows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biblio-backend/internal/lending"
	"biblio-backend/internal/platform/db"
)

// ---------- fakes ----------

type fakeStore struct {
	byID      map[int64]*Borrow
	saved     []Borrow
	saveCalls int
	nextID    int64
}

func newFakeStore(seed ...*Borrow) *fakeStore {
	fs := &fakeStore{byID: map[int64]*Borrow{}, nextID: 101}
	for _, b := range seed {
		fs.byID[b.BorrowID] = b
	}
	return fs
}

func (f *fakeStore) ListAll(ctx context.Context) ([]Borrow, error) { return nil, nil }

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*Borrow, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound("borrow not found")
	}
	clone := *b
	return &clone, nil
}

func (f *fakeStore) SaveTx(ctx context.Context, tx db.DBTX, b *Borrow) error {
	f.saveCalls++
	if b.BorrowID == 0 {
		b.BorrowID = f.nextID
		f.nextID++
	}
	clone := *b
	f.byID[b.BorrowID] = &clone
	f.saved = append(f.saved, clone)
	return nil
}

func (f *fakeStore) DeleteByID(ctx context.Context, id int64) (int64, error) {
	if _, ok := f.byID[id]; !ok {
		return 0, nil
	}
	delete(f.byID, id)
	return 1, nil
}

func (f *fakeStore) ListByRegisteredUserID(ctx context.Context, userID int64) ([]Borrow, error) {
	return nil, nil
}

func (f *fakeStore) ListByBookAndLibrary(ctx context.Context, bookID, libraryID int64) ([]Borrow, error) {
	return nil, nil
}

type fakeCopies struct {
	callLog *[]string
	calls   int
	bookID  int64
	libID   int64
	op      lending.Operation
	err     error
}

func (f *fakeCopies) RelatedAvailableCopyUpdate(ctx context.Context, tx db.DBTX, bookID, libraryID int64, op lending.Operation) error {
	f.calls++
	f.bookID, f.libID, f.op = bookID, libraryID, op
	*f.callLog = append(*f.callLog, "copies")
	return f.err
}

type fakeReservations struct {
	callLog *[]string
	calls   int
	bookID  int64
	libID   int64
	userID  int64
}

func (f *fakeReservations) RelatedReservationUpdate(ctx context.Context, tx db.DBTX, bookID, libraryID, userID int64) error {
	f.calls++
	f.bookID, f.libID, f.userID = bookID, libraryID, userID
	*f.callLog = append(*f.callLog, "reservations")
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestService(fs *fakeStore, fc *fakeCopies, fr *fakeReservations, now time.Time) *Service {
	return &Service{
		store:        fs,
		copies:       fc,
		reservations: fr,
		clock:        fixedClock{t: now},
		id:           ulidGen{},
		// テストではTxなしで直接 fn を実行する
		tx: func(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
			return fn(ctx, nil)
		},
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ---------- tests ----------

func TestCheckOut_PersistsAndNotifiesCollaborators(t *testing.T) {
	callLog := []string{}
	fs := newFakeStore()
	fc := &fakeCopies{callLog: &callLog}
	fr := &fakeReservations{callLog: &callLog}
	svc := newTestService(fs, fc, fr, date(2024, 1, 5))

	res, err := svc.CheckOut(context.Background(), CreateBorrowRequest{
		BookID:           7,
		LibraryID:        3,
		RegisteredUserID: 9,
		ReturnDate:       "2024-02-01",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(101), res.BorrowID, "insert assigns an id")
	assert.NotEmpty(t, res.BorrowULID)
	assert.False(t, res.ExtendedDuration)
	assert.Equal(t, "2024-02-01", res.ReturnDate)

	assert.Equal(t, 1, fc.calls)
	assert.Equal(t, int64(7), fc.bookID)
	assert.Equal(t, int64(3), fc.libID)
	assert.Equal(t, lending.OpOut, fc.op)

	assert.Equal(t, 1, fr.calls)
	assert.Equal(t, int64(7), fr.bookID)
	assert.Equal(t, int64(3), fr.libID)
	assert.Equal(t, int64(9), fr.userID)

	// 保存 → 在庫更新 → 予約解決 の順
	assert.Equal(t, []string{"copies", "reservations"}, callLog)
}

func TestExtend_AddsFourWeeksAndSetsFlag(t *testing.T) {
	callLog := []string{}
	fs := newFakeStore(&Borrow{
		BorrowID: 1, BorrowULID: "01TESTULID", BookID: 7, LibraryID: 3, RegisteredUserID: 9,
		ReturnDate: date(2024, 1, 10),
	})
	fc := &fakeCopies{callLog: &callLog}
	fr := &fakeReservations{callLog: &callLog}
	svc := newTestService(fs, fc, fr, date(2024, 1, 5))

	res, err := svc.Extend(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "2024-02-07", res.ReturnDate, "exactly 28 days from the prior due date")
	assert.True(t, res.ExtendedDuration)
	assert.Equal(t, 1, fs.saveCalls)
	assert.Equal(t, 1, fc.calls)
	assert.Equal(t, lending.OpExtend, fc.op)
	assert.Equal(t, 0, fr.calls, "extend must not touch reservations")
}

func TestExtend_DueTodayIsStillExtendable(t *testing.T) {
	callLog := []string{}
	fs := newFakeStore(&Borrow{
		BorrowID: 1, BookID: 7, LibraryID: 3, RegisteredUserID: 9,
		ReturnDate: date(2024, 1, 5),
	})
	svc := newTestService(fs, &fakeCopies{callLog: &callLog}, &fakeReservations{callLog: &callLog}, date(2024, 1, 5))

	res, err := svc.Extend(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-02", res.ReturnDate)
}

func TestExtend_AlreadyExtended(t *testing.T) {
	callLog := []string{}
	fs := newFakeStore(&Borrow{
		BorrowID: 2, BookID: 7, LibraryID: 3, RegisteredUserID: 9,
		ReturnDate: date(2024, 6, 1), ExtendedDuration: true,
	})
	fc := &fakeCopies{callLog: &callLog}
	svc := newTestService(fs, fc, &fakeReservations{callLog: &callLog}, date(2024, 1, 5))

	_, err := svc.Extend(context.Background(), 2)

	var api *APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeAlreadyExtended, api.Code)
	assert.Equal(t, 0, fs.saveCalls, "nothing may be written")
	assert.Equal(t, 0, fc.calls)
	assert.Equal(t, date(2024, 6, 1), fs.byID[2].ReturnDate, "stored due date unchanged")
}

func TestExtend_ReturnDateOutdated(t *testing.T) {
	callLog := []string{}
	fs := newFakeStore(&Borrow{
		BorrowID: 1, BookID: 7, LibraryID: 3, RegisteredUserID: 9,
		ReturnDate: date(2024, 1, 10),
	})
	fc := &fakeCopies{callLog: &callLog}
	svc := newTestService(fs, fc, &fakeReservations{callLog: &callLog}, date(2024, 1, 15))

	_, err := svc.Extend(context.Background(), 1)

	var api *APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeReturnDateOutdated, api.Code)
	assert.Equal(t, 0, fs.saveCalls)
	assert.Equal(t, date(2024, 1, 10), fs.byID[1].ReturnDate, "stored record unchanged")
}

func TestReturn_UpdatesCopiesButNotReservations(t *testing.T) {
	callLog := []string{}
	fs := newFakeStore(&Borrow{
		BorrowID: 1, BookID: 7, LibraryID: 3, RegisteredUserID: 9,
		ReturnDate: date(2024, 1, 10),
	})
	fc := &fakeCopies{callLog: &callLog}
	fr := &fakeReservations{callLog: &callLog}
	svc := newTestService(fs, fc, fr, date(2024, 1, 8))

	_, err := svc.Return(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, fs.saveCalls)
	assert.Equal(t, 1, fc.calls)
	assert.Equal(t, lending.OpReturn, fc.op)
	assert.Equal(t, 0, fr.calls)
}

func TestProcessBorrow_UnknownOperationRejected(t *testing.T) {
	callLog := []string{}
	fs := newFakeStore()
	svc := newTestService(fs, &fakeCopies{callLog: &callLog}, &fakeReservations{callLog: &callLog}, date(2024, 1, 5))

	b := &Borrow{BookID: 7, LibraryID: 3, RegisteredUserID: 9, ReturnDate: date(2024, 2, 1)}
	_, err := svc.ProcessBorrow(context.Background(), b, lending.Operation("renew"))

	var api *APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeInvalidArgument, api.Code)
	assert.Equal(t, 0, fs.saveCalls)
}

func TestProcessBorrow_CollaboratorFailurePropagates(t *testing.T) {
	callLog := []string{}
	fs := newFakeStore()
	fc := &fakeCopies{callLog: &callLog, err: errors.New("no available copy")}
	fr := &fakeReservations{callLog: &callLog}
	svc := newTestService(fs, fc, fr, date(2024, 1, 5))

	_, err := svc.CheckOut(context.Background(), CreateBorrowRequest{
		BookID: 7, LibraryID: 3, RegisteredUserID: 9, ReturnDate: "2024-02-01",
	})

	require.Error(t, err)
	assert.Equal(t, 0, fr.calls, "reservation update must not run after a failed copies update")
}
