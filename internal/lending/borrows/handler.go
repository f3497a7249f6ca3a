package borrows

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// POST /borrows （新規貸出 = operation:out）
	r.POST("/borrows", h.CheckOut)
	// 状態遷移はサブリソースで明示する
	r.POST("/borrows/:borrow_id/extend", h.Extend)
	r.POST("/borrows/:borrow_id/return", h.Return)

	r.GET("/borrows", h.ListBorrows)
	r.GET("/borrows/:borrow_id", h.GetBorrow)
	r.DELETE("/borrows/:borrow_id", h.DeleteBorrow)
}

// ---------- handlers ----------

func (h *Handler) CheckOut(c *gin.Context) {
	var req CreateBorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	res, err := h.svc.CheckOut(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}

	c.Header("Location", "/borrows/"+strconv.FormatInt(res.BorrowID, 10))
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Extend(c *gin.Context) {
	id, ok := parseBorrowID(c)
	if !ok {
		return
	}
	res, err := h.svc.Extend(c.Request.Context(), id)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Return(c *gin.Context) {
	id, ok := parseBorrowID(c)
	if !ok {
		return
	}
	res, err := h.svc.Return(c.Request.Context(), id)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListBorrows(c *gin.Context) {
	f := ListFilter{}
	if v := c.Query("registered_user_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.RegisteredUserID = &id
		}
	}
	if v := c.Query("book_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.BookID = &id
		}
	}
	if v := c.Query("library_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.LibraryID = &id
		}
	}

	res, err := h.svc.ListBorrows(c.Request.Context(), f)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetBorrow(c *gin.Context) {
	id, ok := parseBorrowID(c)
	if !ok {
		return
	}
	res, err := h.svc.GetBorrow(c.Request.Context(), id)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteBorrow(c *gin.Context) {
	id, ok := parseBorrowID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteBorrow(c.Request.Context(), id); err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// ---------- helpers ----------

func parseBorrowID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("borrow_id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid borrow_id"))
		return 0, false
	}
	return id, true
}

type errorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorBody(code Code, msg string) errorDTO {
	var e errorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func errorFromErr(err error) errorDTO {
	var msg string
	var code Code = CodeInternal
	if api, ok := err.(*APIError); ok {
		code, msg = api.Code, api.Message
	} else {
		msg = err.Error()
	}
	return errorBody(code, msg)
}
