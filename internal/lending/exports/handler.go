package exports

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/exports/borrows.csv", h.ExportBorrows)
}

func (h *Handler) ExportBorrows(c *gin.Context) {
	data, err := h.svc.BorrowLedgerCSV(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="borrows.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=Shift_JIS", data)
}
