package handler

import (
	"net/http"
	"strconv"
	"time"

	"crmhr_backend/internal/attendance/service"
	"crmhr_backend/internal/attendance/transport"
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

// RegisterRoutes mounts attendance routes. Clock-in/out and own-session
// listing are for any authenticated user; office management is admin-only.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup, admin *gin.RouterGroup) {
	attendance := protected.Group("/attendance")
	attendance.POST("/clock-in", h.ClockIn)
	attendance.POST("/clock-out", h.ClockOut)
	attendance.GET("/sessions", h.MySessions)
	attendance.GET("/offices", h.ListOffices)

	offices := admin.Group("/offices")
	offices.POST("", h.CreateOffice)
	offices.GET("", h.ListAllOffices)
	offices.PATCH("/:id", h.UpdateOffice)
	offices.DELETE("/:id", h.DeactivateOffice)
	offices.GET("/:id/poster", h.OfficePoster)

	admin.GET("/attendance/sessions/:userId", h.UserSessions)
}

func (h *Handler) ClockIn(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	session, err := h.svc.ClockIn(c.Request.Context(), identity.UserID(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, "clocked in", session)
}

func (h *Handler) ClockOut(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.ClockOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	session, err := h.svc.ClockOut(c.Request.Context(), identity.UserID(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "clocked out", session)
}

func (h *Handler) MySessions(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	year, month := parseMonth(c)
	sessions, err := h.svc.Sessions(c.Request.Context(), identity.UserID(), year, month)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "attendance sessions", sessions)
}

func (h *Handler) UserSessions(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid user id")
		return
	}

	year, month := parseMonth(c)
	sessions, err := h.svc.Sessions(c.Request.Context(), userID, year, month)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "attendance sessions", sessions)
}

func (h *Handler) CreateOffice(c *gin.Context) {
	var req transport.CreateOfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	office, err := h.svc.CreateOffice(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, "office created", office)
}

func (h *Handler) ListOffices(c *gin.Context) {
	offices, err := h.svc.ListOffices(c.Request.Context(), true)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "offices", offices)
}

func (h *Handler) ListAllOffices(c *gin.Context) {
	offices, err := h.svc.ListOffices(c.Request.Context(), false)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "offices", offices)
}

func (h *Handler) UpdateOffice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid office id")
		return
	}

	var req transport.UpdateOfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	office, err := h.svc.UpdateOffice(c.Request.Context(), id, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "office updated", office)
}

func (h *Handler) DeactivateOffice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid office id")
		return
	}

	if err := h.svc.DeactivateOffice(c.Request.Context(), id); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "office deactivated", nil)
}

// OfficePoster streams a printable clock-in QR code as PNG.
func (h *Handler) OfficePoster(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid office id")
		return
	}

	png, err := h.svc.OfficePosterPNG(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func parseMonth(c *gin.Context) (int, time.Month) {
	now := time.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		year = now.Year()
	}
	monthNum, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || monthNum < 1 || monthNum > 12 {
		monthNum = int(now.Month())
	}
	return year, time.Month(monthNum)
}
