package reservations

import "time"

// Reservation は reservations テーブルの1行を表す。
// (book_id, library_id, registered_user_id) の組はUNIQUE。
type Reservation struct {
	ReservationID    int64
	ReservationULID  string
	BookID           int64
	LibraryID        int64
	RegisteredUserID int64
	ReservedAt       time.Time
}
