package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biblio-backend/internal/platform/db"
)

type fakeReservationStore struct {
	byTriple map[[3]int64]*Reservation
	deleted  []int64
}

func newFakeReservationStore(seed ...*Reservation) *fakeReservationStore {
	fs := &fakeReservationStore{byTriple: map[[3]int64]*Reservation{}}
	for _, r := range seed {
		fs.byTriple[[3]int64{r.BookID, r.LibraryID, r.RegisteredUserID}] = r
	}
	return fs
}

func (f *fakeReservationStore) ListByBookAndLibrary(ctx context.Context, bookID, libraryID int64) ([]Reservation, error) {
	var out []Reservation
	for k, r := range f.byTriple {
		if k[0] == bookID && k[1] == libraryID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReservationStore) GetByBookLibraryAndUser(ctx context.Context, bookID, libraryID, userID int64) (*Reservation, error) {
	r, ok := f.byTriple[[3]int64{bookID, libraryID, userID}]
	if !ok {
		return nil, nil
	}
	clone := *r
	return &clone, nil
}

func (f *fakeReservationStore) GetByID(ctx context.Context, id int64) (*Reservation, error) {
	for _, r := range f.byTriple {
		if r.ReservationID == id {
			clone := *r
			return &clone, nil
		}
	}
	return nil, ErrNotFound("reservation not found")
}

func (f *fakeReservationStore) Insert(ctx context.Context, r *Reservation) error {
	r.ReservationID = int64(len(f.byTriple) + 1)
	f.byTriple[[3]int64{r.BookID, r.LibraryID, r.RegisteredUserID}] = r
	return nil
}

func (f *fakeReservationStore) DeleteByID(ctx context.Context, id int64) (int64, error) {
	return f.DeleteByIDTx(ctx, nil, id)
}

func (f *fakeReservationStore) DeleteByIDTx(ctx context.Context, tx db.DBTX, id int64) (int64, error) {
	for k, r := range f.byTriple {
		if r.ReservationID == id {
			delete(f.byTriple, k)
			f.deleted = append(f.deleted, id)
			return 1, nil
		}
	}
	return 0, nil
}

func TestRelatedReservationUpdate_ConsumesMatchingReservation(t *testing.T) {
	fs := newFakeReservationStore(&Reservation{
		ReservationID: 42, BookID: 7, LibraryID: 3, RegisteredUserID: 9,
		ReservedAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
	})
	svc := &Service{store: fs}

	err := svc.RelatedReservationUpdate(context.Background(), nil, 7, 3, 9)
	require.NoError(t, err)

	assert.Equal(t, []int64{42}, fs.deleted)
	assert.Empty(t, fs.byTriple)
}

func TestRelatedReservationUpdate_NoReservationIsNoop(t *testing.T) {
	fs := newFakeReservationStore(&Reservation{
		ReservationID: 42, BookID: 7, LibraryID: 3, RegisteredUserID: 9,
	})
	svc := &Service{store: fs}

	// 別ユーザーの貸出では他人の予約に触れない
	err := svc.RelatedReservationUpdate(context.Background(), nil, 7, 3, 12)
	require.NoError(t, err)

	assert.Empty(t, fs.deleted)
	assert.Len(t, fs.byTriple, 1)
}

func TestListReservations_TripleReturnsAtMostOne(t *testing.T) {
	fs := newFakeReservationStore(
		&Reservation{ReservationID: 1, BookID: 7, LibraryID: 3, RegisteredUserID: 9},
		&Reservation{ReservationID: 2, BookID: 7, LibraryID: 3, RegisteredUserID: 10},
	)
	svc := &Service{store: fs}

	all, err := svc.ListReservations(context.Background(), 7, 3, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	userID := int64(9)
	one, err := svc.ListReservations(context.Background(), 7, 3, &userID)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, int64(1), one[0].ReservationID)

	missing := int64(99)
	none, err := svc.ListReservations(context.Background(), 7, 3, &missing)
	require.NoError(t, err)
	assert.Empty(t, none)
}
