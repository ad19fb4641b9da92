package handler

import (
	"net/http"

	"crmhr_backend/internal/leads/notes"
	"crmhr_backend/internal/leads/transport"
	"crmhr_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotesHandler struct {
	svc *notes.Service
}

func NewNotesHandler(svc *notes.Service) *NotesHandler {
	return &NotesHandler{svc: svc}
}

// RegisterRoutes mounts note routes under the lead resource. The note ledger
// is append-only, so only add and list are exposed. Access rules (admin or
// assignee) are enforced by the service.
func (h *NotesHandler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/leads/:id/notes", h.List)
	protected.POST("/leads/:id/notes", h.Create)
}

func (h *NotesHandler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id")
		return
	}

	var req transport.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	note, err := h.svc.Add(c.Request.Context(), identity, leadID, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, "note added", note)
}

func (h *NotesHandler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id")
		return
	}

	items, err := h.svc.List(c.Request.Context(), identity, leadID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "notes", items)
}
