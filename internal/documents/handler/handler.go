// Package handler exposes the employee documents HTTP API.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"crmhr_backend/internal/documents/service"
	"crmhr_backend/internal/documents/transport"
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

// RegisterRoutes mounts document routes. Users manage their own documents;
// the review queue and decisions are admin-only.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup, admin *gin.RouterGroup) {
	documents := protected.Group("/documents")
	documents.POST("", h.Upload)
	documents.GET("", h.Mine)
	documents.GET("/:id/download", h.Download)

	adminDocuments := admin.Group("/documents")
	adminDocuments.GET("", h.Queue)
	adminDocuments.GET("/users/:userId", h.ForUser)
	adminDocuments.POST("/:id/verify", h.Verify)
	adminDocuments.POST("/:id/reject", h.Reject)
	adminDocuments.DELETE("/:id", h.Delete)
}

func (h *Handler) Upload(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var form transport.UploadForm
	if err := c.ShouldBind(&form); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "document kind is required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "could not read uploaded file")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	document, err := h.svc.Upload(c.Request.Context(), identity.UserID(), form.Kind,
		fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, "document uploaded", document)
}

func (h *Handler) Mine(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	documents, err := h.svc.Mine(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "documents", documents)
}

func (h *Handler) Download(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	download, err := h.svc.DownloadURL(c.Request.Context(), identity, id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "download link", download)
}

func (h *Handler) Queue(c *gin.Context) {
	page, limit := parsePagination(c)

	documents, total, err := h.svc.Queue(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Paginated(c, "documents", documents, httpkit.NewPagination(page, limit, total))
}

func (h *Handler) ForUser(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	documents, err := h.svc.ForUser(c.Request.Context(), userID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "documents", documents)
}

func (h *Handler) Verify(c *gin.Context) {
	h.decide(c, h.svc.Verify, "document verified")
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.svc.Reject, "document rejected")
}

func (h *Handler) decide(c *gin.Context, decideFn func(ctx context.Context, reviewedBy, id uuid.UUID, note string) (transport.DocumentResponse, error), message string) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req transport.ReviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
			return
		}
	}

	document, err := decideFn(c.Request.Context(), identity.UserID(), id, req.Note)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, message, document)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "document deleted", nil)
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
