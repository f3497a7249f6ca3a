package borrows

import "time"

// 貸出登録リクエスト（operation=out）
type CreateBorrowRequest struct {
	BookID           int64 `json:"book_id" binding:"required"`
	LibraryID        int64 `json:"library_id" binding:"required"`
	RegisteredUserID int64 `json:"registered_user_id" binding:"required"`
	// "2006-01-02" 形式の文字列を想定（DATE）
	ReturnDate string `json:"return_date" binding:"required"`
}

// 貸出レスポンス
type BorrowResponse struct {
	BorrowID         int64     `json:"borrow_id"`
	BorrowULID       string    `json:"borrow_ulid"`
	BookID           int64     `json:"book_id"`
	LibraryID        int64     `json:"library_id"`
	RegisteredUserID int64     `json:"registered_user_id"`
	ReturnDate       string    `json:"return_date"`
	ExtendedDuration bool      `json:"extended_duration"`
	BorrowedAt       time.Time `json:"borrowed_at"`
}

func buildBorrowResponse(b *Borrow) BorrowResponse {
	return BorrowResponse{
		BorrowID:         b.BorrowID,
		BorrowULID:       b.BorrowULID,
		BookID:           b.BookID,
		LibraryID:        b.LibraryID,
		RegisteredUserID: b.RegisteredUserID,
		ReturnDate:       b.ReturnDate.Format(dateLayout),
		ExtendedDuration: b.ExtendedDuration,
		BorrowedAt:       b.BorrowedAt,
	}
}
