package handler

import (
	"net/http"
	"strconv"
	"time"

	"crmhr_backend/internal/leads/management"
	"crmhr_backend/internal/leads/repository"
	"crmhr_backend/internal/leads/transport"
	"crmhr_backend/platform/httpkit"
	"crmhr_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

type Handler struct {
	svc *management.Service
	val *validator.Validator
}

func New(svc *management.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts lead routes. List/read/write live on the protected
// group with per-lead access enforced in the service; destructive and bulk
// assignment operations are admin-only.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup, admin *gin.RouterGroup) {
	leads := protected.Group("/leads")
	leads.GET("", h.List)
	leads.POST("", h.Create)
	leads.GET("/dashboard", h.Dashboard)
	leads.POST("/bulk-status", h.BulkStatus)
	leads.GET("/:id", h.Get)
	leads.PATCH("/:id", h.Update)
	leads.PATCH("/:id/status", h.UpdateStatus)
	leads.GET("/:id/history", h.History)

	adminLeads := admin.Group("/leads")
	adminLeads.DELETE("/:id", h.Delete)
	adminLeads.POST("/:id/assign", h.Assign)
	adminLeads.POST("/bulk-assign", h.BulkAssign)
	adminLeads.POST("/bulk-unassign", h.BulkUnassign)
	adminLeads.GET("/duplicates", h.Duplicates)
	adminLeads.DELETE("/duplicates/:id", h.DeleteDuplicate)
}

func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), identity, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, "lead created", lead)
}

func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id")
		return
	}

	lead, err := h.svc.Get(c.Request.Context(), identity, id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "lead", lead)
}

func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	filter := parseListFilter(c)
	leads, total, err := h.svc.List(c.Request.Context(), identity, filter)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	filter.Normalize()
	httpkit.Paginated(c, "leads", leads, httpkit.NewPagination(filter.Page, filter.Limit, total))
}

func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id")
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	lead, err := h.svc.Update(c.Request.Context(), identity, id, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "lead updated", lead)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id")
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	lead, err := h.svc.UpdateStatus(c.Request.Context(), identity, id, req.Status)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "status updated", lead)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "lead deleted", nil)
}

func (h *Handler) Assign(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id")
		return
	}

	var req transport.AssignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	lead, err := h.svc.Assign(c.Request.Context(), identity, id, req.UserID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "lead assigned", lead)
}

func (h *Handler) BulkAssign(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	result, err := h.svc.BulkAssign(c.Request.Context(), identity, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "leads assigned", result)
}

func (h *Handler) BulkUnassign(c *gin.Context) {
	var req transport.BulkUnassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	result, err := h.svc.BulkUnassign(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "leads unassigned", result)
}

func (h *Handler) BulkStatus(c *gin.Context) {
	var req transport.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	result, err := h.svc.BulkStatus(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "statuses updated", result)
}

func (h *Handler) History(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id")
		return
	}

	entries, err := h.svc.History(c.Request.Context(), identity, id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "assignment history", entries)
}

func (h *Handler) Duplicates(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	items, total, err := h.svc.Duplicates(c.Request.Context(), page, limit)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Paginated(c, "duplicate leads", items, httpkit.NewPagination(page, limit, total))
}

func (h *Handler) DeleteDuplicate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid duplicate id")
		return
	}

	if err := h.svc.DeleteDuplicate(c.Request.Context(), id); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "duplicate record removed", nil)
}

func (h *Handler) Dashboard(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	data, err := h.svc.Dashboard(c.Request.Context(), identity)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "dashboard", data)
}

// parseListFilter reads the multi-valued query parameters of the list
// endpoint. Scalars and repeated values are both accepted.
func parseListFilter(c *gin.Context) repository.ListFilter {
	filter := repository.ListFilter{
		Statuses:   c.QueryArray("status"),
		Sources:    c.QueryArray("source"),
		Priorities: c.QueryArray("priority"),
		Search:     c.Query("search"),
	}

	filter.AssigneeIDs, filter.Unassigned = repository.ParseAssigneeFilter(c.QueryArray("assignedTo"))
	filter.Folders, filter.Uncategorized = repository.ParseFolderFilter(c.QueryArray("folder"))

	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filter.CreatedFrom = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filter.CreatedTo = &to
	}

	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	return filter
}
