package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"crmhr_backend/internal/leave/service"
	"crmhr_backend/internal/leave/transport"
	"crmhr_backend/platform/httpkit"
	"crmhr_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts leave routes. Filing and viewing one's own requests
// is open to any authenticated user; decisions and the holiday calendar are
// admin-only (holiday listing is open to all users).
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup, admin *gin.RouterGroup) {
	leave := protected.Group("/leave")
	leave.POST("", h.Request)
	leave.GET("", h.ListMine)
	leave.GET("/holidays", h.Holidays)

	adminLeave := admin.Group("/leave")
	adminLeave.GET("", h.List)
	adminLeave.POST("/:id/approve", h.Approve)
	adminLeave.POST("/:id/reject", h.Reject)
	adminLeave.POST("/holidays", h.AddHoliday)
	adminLeave.DELETE("/holidays/:id", h.RemoveHoliday)
}

func (h *Handler) Request(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	resp, err := h.svc.Request(c.Request.Context(), identity.UserID(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, "leave requested", resp)
}

func (h *Handler) ListMine(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	items, err := h.svc.ListMine(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "leave requests", items)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	items, total, err := h.svc.List(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Paginated(c, "leave requests", items, httpkit.NewPagination(page, limit, total))
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.svc.Approve, "leave approved")
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.svc.Reject, "leave rejected")
}

func (h *Handler) decide(c *gin.Context, decideFn func(ctx context.Context, decidedBy, requestID uuid.UUID) (transport.LeaveResponse, error), message string) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request id")
		return
	}

	resp, err := decideFn(c.Request.Context(), identity.UserID(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, message, resp)
}

func (h *Handler) AddHoliday(c *gin.Context) {
	var req transport.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	holiday, err := h.svc.AddHoliday(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, "holiday added", holiday)
}

func (h *Handler) RemoveHoliday(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid holiday id")
		return
	}

	if err := h.svc.RemoveHoliday(c.Request.Context(), id); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "holiday removed", nil)
}

func (h *Handler) Holidays(c *gin.Context) {
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid year")
		return
	}

	holidays, err := h.svc.Holidays(c.Request.Context(), year)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "holidays", holidays)
}
