package libraries

type CreateLibraryRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

type UpdateLibraryRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
}

type LibraryResponse struct {
	LibraryID int64  `json:"library_id"`
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
}
