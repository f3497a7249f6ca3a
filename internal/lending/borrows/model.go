package borrows

import "time"

// Borrow は borrows テーブルの1行を表す。
// ReturnDate は DATE（時刻成分なし、UTCの0時で保持）。
type Borrow struct {
	BorrowID         int64
	BorrowULID       string
	BookID           int64
	LibraryID        int64
	RegisteredUserID int64
	ReturnDate       time.Time
	ExtendedDuration bool
	BorrowedAt       time.Time
}
