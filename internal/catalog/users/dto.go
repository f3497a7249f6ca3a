package users

// 利用者（貸出・予約の主体となる登録ユーザー）
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

type UpdateUserRequest struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	IsDisabled *bool   `json:"is_disabled,omitempty"`
}

type UserResponse struct {
	UserID     int64  `json:"user_id"`
	UserULID   string `json:"user_ulid"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsDisabled bool   `json:"is_disabled"`
}
