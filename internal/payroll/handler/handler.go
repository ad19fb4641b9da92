package handler

import (
	"net/http"
	"strconv"
	"time"

	"crmhr_backend/internal/payroll/service"
	"crmhr_backend/internal/payroll/transport"
	"crmhr_backend/platform/httpkit"
	"crmhr_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const msgInvalidRequest = "invalid request"

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts payroll routes. Month close and period listing are
// admin-only; users can fetch their own payslips.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup, admin *gin.RouterGroup) {
	protected.GET("/payroll/payslip", h.MyPayslip)

	payroll := admin.Group("/payroll")
	payroll.POST("/close", h.CloseMonth)
	payroll.GET("/period", h.Period)
}

func (h *Handler) CloseMonth(c *gin.Context) {
	var req transport.CloseMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.CloseMonth(c.Request.Context(), req.Year, time.Month(req.Month))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, "payroll generated", result)
}

func (h *Handler) Period(c *gin.Context) {
	year, month, ok := parsePeriod(c)
	if !ok {
		return
	}

	entries, err := h.svc.Period(c.Request.Context(), year, month)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "payroll entries", entries)
}

func (h *Handler) MyPayslip(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	year, month, ok := parsePeriod(c)
	if !ok {
		return
	}

	entry, err := h.svc.Payslip(c.Request.Context(), identity.UserID(), year, month)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "payslip", entry)
}

func parsePeriod(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "year is required")
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httpkit.Error(c, http.StatusBadRequest, "month must be 1-12")
		return 0, 0, false
	}
	return year, month, true
}
