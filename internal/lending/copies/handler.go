package copies

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/copies", h.GetAvailability)
	r.PUT("/copies", h.RegisterCopies)
}

type copyResponse struct {
	BookID    int64 `json:"book_id"`
	LibraryID int64 `json:"library_id"`
	Total     int   `json:"total"`
	Available int   `json:"available"`
}

type registerCopiesRequest struct {
	BookID    int64 `json:"book_id" binding:"required"`
	LibraryID int64 `json:"library_id" binding:"required"`
	Total     int   `json:"total"`
	Available int   `json:"available"`
}

func (h *Handler) GetAvailability(c *gin.Context) {
	bookID, _ := strconv.ParseInt(c.Query("book_id"), 10, 64)
	libraryID, _ := strconv.ParseInt(c.Query("library_id"), 10, 64)

	res, err := h.svc.GetAvailability(c.Request.Context(), bookID, libraryID)
	if err != nil {
		c.JSON(ToHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, copyResponse{
		BookID:    res.BookID,
		LibraryID: res.LibraryID,
		Total:     res.Total,
		Available: res.Available,
	})
}

func (h *Handler) RegisterCopies(c *gin.Context) {
	var req registerCopiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiErr(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	cp := &AvailableCopy{
		BookID:    req.BookID,
		LibraryID: req.LibraryID,
		Total:     req.Total,
		Available: req.Available,
	}
	if err := h.svc.RegisterCopies(c.Request.Context(), cp); err != nil {
		c.JSON(ToHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, copyResponse{
		BookID:    cp.BookID,
		LibraryID: cp.LibraryID,
		Total:     cp.Total,
		Available: cp.Available,
	})
}

func apiErr(code Code, msg string) gin.H {
	return gin.H{"error": gin.H{"code": code, "message": msg}}
}

func apiErrFrom(err error) gin.H {
	if api, ok := err.(*APIError); ok {
		return apiErr(api.Code, api.Message)
	}
	return apiErr(CodeInternal, err.Error())
}
