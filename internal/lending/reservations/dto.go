package reservations

import "time"

// 予約登録リクエスト
type CreateReservationRequest struct {
	BookID           int64 `json:"book_id" binding:"required"`
	LibraryID        int64 `json:"library_id" binding:"required"`
	RegisteredUserID int64 `json:"registered_user_id" binding:"required"`
}

// 予約レスポンス
type ReservationResponse struct {
	ReservationID    int64     `json:"reservation_id"`
	ReservationULID  string    `json:"reservation_ulid"`
	BookID           int64     `json:"book_id"`
	LibraryID        int64     `json:"library_id"`
	RegisteredUserID int64     `json:"registered_user_id"`
	ReservedAt       time.Time `json:"reserved_at"`
}

func buildReservationResponse(r *Reservation) ReservationResponse {
	return ReservationResponse{
		ReservationID:    r.ReservationID,
		ReservationULID:  r.ReservationULID,
		BookID:           r.BookID,
		LibraryID:        r.LibraryID,
		RegisteredUserID: r.RegisteredUserID,
		ReservedAt:       r.ReservedAt,
	}
}
