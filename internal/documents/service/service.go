// Package service implements employee document upload, review and retrieval.
package service

import (
	"bytes"
	"context"
	"errors"
	"io"

	"crmhr_backend/internal/adapters/storage"
	"crmhr_backend/internal/documents/domain"
	"crmhr_backend/internal/documents/repository"
	"crmhr_backend/internal/documents/transport"
	"crmhr_backend/internal/events"
	"crmhr_backend/platform/apperr"
	"crmhr_backend/platform/httpkit"
	"crmhr_backend/platform/logger"

	"github.com/google/uuid"
)

// Store is the repository surface the documents service uses.
type Store interface {
	Create(ctx context.Context, params repository.CreateParams) (repository.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Document, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]repository.Document, error)
	ListByStatus(ctx context.Context, status domain.Status, page, limit int) ([]repository.Document, int, error)
	Review(ctx context.Context, id uuid.UUID, status domain.Status, reviewedBy uuid.UUID, note *string) (repository.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ObjectStore is the object storage surface the documents service uses.
type ObjectStore interface {
	Put(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
	PresignDownload(ctx context.Context, bucket, fileKey string) (*storage.PresignedURL, error)
	Remove(ctx context.Context, bucket, fileKey string) error
	ValidateFileSize(sizeBytes int64) error
}

type Service struct {
	store   Store
	objects ObjectStore
	bucket  string
	bus     events.Bus
	log     *logger.Logger
}

func New(store Store, objects ObjectStore, bucket string, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, objects: objects, bucket: bucket, bus: bus, log: log}
}

// Upload stores the file and records a pending document. Photo uploads get
// their EXIF capture time and GPS position extracted so reviewers can check
// when and where an identity document was photographed.
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, kind, fileName, contentType string, size int64, file io.Reader) (transport.DocumentResponse, error) {
	documentKind := domain.Kind(kind)
	if !domain.ValidKinds[documentKind] {
		return transport.DocumentResponse{}, apperr.Validationf("invalid document kind %q", kind)
	}
	if err := storage.ValidateContentType(contentType); err != nil {
		return transport.DocumentResponse{}, apperr.Validation(err.Error())
	}
	if err := s.objects.ValidateFileSize(size); err != nil {
		return transport.DocumentResponse{}, apperr.Validation(err.Error())
	}

	// Size is capped by config, so buffering the whole file is fine and
	// lets us scan EXIF before handing the bytes to storage.
	data, err := io.ReadAll(io.LimitReader(file, size))
	if err != nil {
		return transport.DocumentResponse{}, apperr.Wrap(apperr.KindInternal, "read upload", err)
	}

	var meta capture
	if storage.IsImageContentType(contentType) {
		meta = extractCapture(data)
	}

	fileKey, err := s.objects.Put(ctx, s.bucket, userID.String(), fileName, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return transport.DocumentResponse{}, apperr.Wrap(apperr.KindUpstream, "store document file", err)
	}

	document, err := s.store.Create(ctx, repository.CreateParams{
		UserID:      userID,
		Kind:        documentKind,
		FileName:    fileName,
		FileKey:     fileKey,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		CapturedAt:  meta.takenAt,
		CaptureLat:  meta.lat,
		CaptureLng:  meta.lng,
	})
	if err != nil {
		return transport.DocumentResponse{}, err
	}

	s.log.WithContext(ctx).Info("document uploaded",
		"documentId", document.ID, "userId", userID, "kind", documentKind, "sizeBytes", document.SizeBytes)
	return transport.NewDocumentResponse(document), nil
}

// Mine lists the caller's own documents.
func (s *Service) Mine(ctx context.Context, userID uuid.UUID) ([]transport.DocumentResponse, error) {
	documents, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponses(documents), nil
}

// ForUser lists another user's documents, for the admin review screens.
func (s *Service) ForUser(ctx context.Context, userID uuid.UUID) ([]transport.DocumentResponse, error) {
	return s.Mine(ctx, userID)
}

// Queue lists documents in one verification state, defaulting to pending.
func (s *Service) Queue(ctx context.Context, status string, page, limit int) ([]transport.DocumentResponse, int, error) {
	documentStatus := domain.StatusPending
	if status != "" {
		documentStatus = domain.Status(status)
		if !domain.ValidStatuses[documentStatus] {
			return nil, 0, apperr.Validationf("invalid status %q", status)
		}
	}

	documents, total, err := s.store.ListByStatus(ctx, documentStatus, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toResponses(documents), total, nil
}

// DownloadURL presigns a download link. Users can only fetch their own
// documents; admins can fetch any.
func (s *Service) DownloadURL(ctx context.Context, caller httpkit.Identity, id uuid.UUID) (transport.DownloadResponse, error) {
	document, err := s.getDocument(ctx, id)
	if err != nil {
		return transport.DownloadResponse{}, err
	}
	if !caller.IsAdmin() && document.UserID != caller.UserID() {
		return transport.DownloadResponse{}, apperr.Forbidden("you can only download your own documents")
	}

	presigned, err := s.objects.PresignDownload(ctx, s.bucket, document.FileKey)
	if err != nil {
		return transport.DownloadResponse{}, apperr.Wrap(apperr.KindUpstream, "presign download", err)
	}
	return transport.DownloadResponse{
		URL:       presigned.URL,
		FileName:  document.FileName,
		ExpiresAt: presigned.ExpiresAt,
	}, nil
}

// Verify marks a pending document as verified.
func (s *Service) Verify(ctx context.Context, reviewedBy, id uuid.UUID, note string) (transport.DocumentResponse, error) {
	return s.review(ctx, reviewedBy, id, domain.StatusVerified, note)
}

// Reject marks a pending document as rejected.
func (s *Service) Reject(ctx context.Context, reviewedBy, id uuid.UUID, note string) (transport.DocumentResponse, error) {
	return s.review(ctx, reviewedBy, id, domain.StatusRejected, note)
}

func (s *Service) review(ctx context.Context, reviewedBy, id uuid.UUID, status domain.Status, note string) (transport.DocumentResponse, error) {
	var notePtr *string
	if note != "" {
		notePtr = &note
	}

	document, err := s.store.Review(ctx, id, status, reviewedBy, notePtr)
	if errors.Is(err, repository.ErrAlreadyReviewed) {
		return transport.DocumentResponse{}, apperr.Conflict("document has already been reviewed")
	}
	if errors.Is(err, repository.ErrNotFound) {
		return transport.DocumentResponse{}, apperr.NotFound("document not found")
	}
	if err != nil {
		return transport.DocumentResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.DocumentReviewed{
			BaseEvent:  events.NewBaseEvent(),
			DocumentID: document.ID,
			UserID:     document.UserID,
			ReviewedBy: reviewedBy,
			Kind:       string(document.Kind),
			Status:     string(status),
		})
	}
	return transport.NewDocumentResponse(document), nil
}

// Delete removes the record and its stored file.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	document, err := s.getDocument(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	// The record is gone; a stranded object is only worth a warning.
	if err := s.objects.Remove(ctx, s.bucket, document.FileKey); err != nil {
		s.log.WithContext(ctx).Warn("failed to delete document file",
			"documentId", id, "fileKey", document.FileKey, "error", err)
	}
	return nil
}

func (s *Service) getDocument(ctx context.Context, id uuid.UUID) (repository.Document, error) {
	document, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Document{}, apperr.NotFound("document not found")
	}
	return document, err
}

func toResponses(documents []repository.Document) []transport.DocumentResponse {
	out := make([]transport.DocumentResponse, len(documents))
	for i, d := range documents {
		out[i] = transport.NewDocumentResponse(d)
	}
	return out
}
