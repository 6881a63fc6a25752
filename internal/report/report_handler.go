package report

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go-appraise/internal/fiscal"
	"go-appraise/internal/shared/apperror"
	"go-appraise/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("report.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.handler")
	}
	return &Handler{service: service, logger: l}
}

// fiscalYearParam reads the year query param, defaulting to the fiscal
// year containing today.
func fiscalYearParam(c *gin.Context) (int, error) {
	raw := c.Query("year")
	if raw == "" {
		return fiscal.Year(time.Now().UTC()), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 2200 {
		return 0, apperror.InvalidField("year")
	}
	return year, nil
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("report request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) EmployeeReport(c *gin.Context) {
	year, err := fiscalYearParam(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.EmployeeReport(c.Request.Context(), c.Param("employeeId"), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) OrgSummary(c *gin.Context) {
	year, err := fiscalYearParam(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.OrgSummary(c.Request.Context(), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Export(c *gin.Context) {
	year, err := fiscalYearParam(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	f, err := h.service.ExportWorkbook(c.Request.Context(), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("evaluation-scores-%d.xlsx", year)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("workbook write failed", zap.Error(err))
	}
}
