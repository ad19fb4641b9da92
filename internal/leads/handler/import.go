package handler

import (
	"net/http"

	"crmhr_backend/internal/leads/management"
	"crmhr_backend/internal/leads/transport"
	"crmhr_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// 10 MiB cap on uploaded sheets.
const maxUploadBytes = 10 << 20

type ImportHandler struct {
	svc *management.ImportService
}

func NewImportHandler(svc *management.ImportService) *ImportHandler {
	return &ImportHandler{svc: svc}
}

// RegisterRoutes mounts the import endpoints. Both are admin-only.
func (h *ImportHandler) RegisterRoutes(admin *gin.RouterGroup) {
	imports := admin.Group("/leads/import")
	imports.POST("/upload", h.Upload)
	imports.POST("/sheet", h.Sheet)
}

// Upload reconciles an uploaded CSV file against the lead store.
func (h *ImportHandler) Upload(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "missing file upload")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		httpkit.Error(c, http.StatusBadRequest, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unreadable file upload")
		return
	}
	defer file.Close()

	summary, err := h.svc.FromUpload(c.Request.Context(), identity.UserID(), file)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "import completed", summary)
}

// Sheet reconciles a shared Google Sheet against the lead store.
func (h *ImportHandler) Sheet(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.ImportSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	summary, err := h.svc.FromSheet(c.Request.Context(), identity.UserID(), req.SheetURL)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "import completed", summary)
}
