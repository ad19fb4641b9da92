// Package transport defines the request and response shapes of the documents API.
package transport

import (
	"time"

	"crmhr_backend/internal/documents/domain"
	"crmhr_backend/internal/documents/repository"

	"github.com/google/uuid"
)

// UploadForm carries the multipart form fields accompanying a file upload.
type UploadForm struct {
	Kind string `form:"kind" binding:"required"`
}

// ReviewRequest is the optional body of a verify or reject decision.
type ReviewRequest struct {
	Note string `json:"note" binding:"omitempty,max=1000"`
}

type DocumentResponse struct {
	ID          uuid.UUID     `json:"id"`
	UserID      uuid.UUID     `json:"userId"`
	Kind        domain.Kind   `json:"kind"`
	FileName    string        `json:"fileName"`
	ContentType string        `json:"contentType"`
	SizeBytes   int64         `json:"sizeBytes"`
	Status      domain.Status `json:"status"`
	ReviewNote  *string       `json:"reviewNote,omitempty"`
	ReviewedBy  *uuid.UUID    `json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time    `json:"reviewedAt,omitempty"`
	CapturedAt  *time.Time    `json:"capturedAt,omitempty"`
	CaptureLat  *float64      `json:"captureLat,omitempty"`
	CaptureLng  *float64      `json:"captureLng,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

func NewDocumentResponse(d repository.Document) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID,
		UserID:      d.UserID,
		Kind:        d.Kind,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		Status:      d.Status,
		ReviewNote:  d.ReviewNote,
		ReviewedBy:  d.ReviewedBy,
		ReviewedAt:  d.ReviewedAt,
		CapturedAt:  d.CapturedAt,
		CaptureLat:  d.CaptureLat,
		CaptureLng:  d.CaptureLng,
		CreatedAt:   d.CreatedAt,
	}
}

// DownloadResponse wraps a presigned URL for fetching the document file.
type DownloadResponse struct {
	URL       string    `json:"url"`
	FileName  string    `json:"fileName"`
	ExpiresAt time.Time `json:"expiresAt"`
}
