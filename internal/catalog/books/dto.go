package books

// 書誌登録リクエスト
type CreateBookRequest struct {
	ISBN   string `json:"isbn"`
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
}

type UpdateBookRequest struct {
	ISBN   *string `json:"isbn,omitempty"`
	Title  *string `json:"title,omitempty"`
	Author *string `json:"author,omitempty"`
}

type BookResponse struct {
	BookID   int64  `json:"book_id"`
	BookULID string `json:"book_ulid"`
	ISBN     string `json:"isbn,omitempty"`
	Title    string `json:"title"`
	Author   string `json:"author"`
}
