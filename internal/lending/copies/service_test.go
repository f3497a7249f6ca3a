package copies

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biblio-backend/internal/lending"
	"biblio-backend/internal/platform/db"
)

type fakeCopyStore struct {
	copyID    int64
	available int
	lockCalls int
	deltas    []int
}

func (f *fakeCopyStore) GetByBookAndLibrary(ctx context.Context, bookID, libraryID int64) (*AvailableCopy, error) {
	return &AvailableCopy{CopyID: f.copyID, BookID: bookID, LibraryID: libraryID, Available: f.available}, nil
}

func (f *fakeCopyStore) LockRowTx(ctx context.Context, tx db.DBTX, bookID, libraryID int64) (int64, int, error) {
	f.lockCalls++
	return f.copyID, f.available, nil
}

func (f *fakeCopyStore) AddAvailableTx(ctx context.Context, tx db.DBTX, copyID int64, delta int) error {
	f.available += delta
	f.deltas = append(f.deltas, delta)
	return nil
}

func (f *fakeCopyStore) Upsert(ctx context.Context, c *AvailableCopy) error { return nil }

func TestRelatedAvailableCopyUpdate_OutDecrements(t *testing.T) {
	fs := &fakeCopyStore{copyID: 5, available: 2}
	svc := &Service{store: fs}

	err := svc.RelatedAvailableCopyUpdate(context.Background(), nil, 7, 3, lending.OpOut)
	require.NoError(t, err)

	assert.Equal(t, []int{-1}, fs.deltas)
	assert.Equal(t, 1, fs.available)
}

func TestRelatedAvailableCopyUpdate_OutWithNoStockConflicts(t *testing.T) {
	fs := &fakeCopyStore{copyID: 5, available: 0}
	svc := &Service{store: fs}

	err := svc.RelatedAvailableCopyUpdate(context.Background(), nil, 7, 3, lending.OpOut)

	var api *APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeConflict, api.Code)
	assert.Empty(t, fs.deltas, "counter must not move")
}

func TestRelatedAvailableCopyUpdate_ReturnIncrements(t *testing.T) {
	fs := &fakeCopyStore{copyID: 5, available: 1}
	svc := &Service{store: fs}

	err := svc.RelatedAvailableCopyUpdate(context.Background(), nil, 7, 3, lending.OpReturn)
	require.NoError(t, err)

	assert.Equal(t, []int{+1}, fs.deltas)
	assert.Equal(t, 2, fs.available)
}

func TestRelatedAvailableCopyUpdate_ExtendIsNoop(t *testing.T) {
	fs := &fakeCopyStore{copyID: 5, available: 1}
	svc := &Service{store: fs}

	err := svc.RelatedAvailableCopyUpdate(context.Background(), nil, 7, 3, lending.OpExtend)
	require.NoError(t, err)

	assert.Equal(t, 0, fs.lockCalls, "extend must not even lock the row")
	assert.Empty(t, fs.deltas)
}

func TestRegisterCopies_Validation(t *testing.T) {
	svc := &Service{store: &fakeCopyStore{}}

	err := svc.RegisterCopies(context.Background(), &AvailableCopy{BookID: 1, LibraryID: 1, Total: 2, Available: 3})
	var api *APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeInvalidArgument, api.Code)

	err = svc.RegisterCopies(context.Background(), &AvailableCopy{BookID: 1, LibraryID: 1, Total: 3, Available: 3})
	assert.NoError(t, err)
}
