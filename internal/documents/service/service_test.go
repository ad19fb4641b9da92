package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"crmhr_backend/internal/adapters/storage"
	"crmhr_backend/internal/documents/domain"
	"crmhr_backend/internal/documents/repository"
	"crmhr_backend/platform/apperr"
	"crmhr_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	documents map[uuid.UUID]repository.Document
}

func newFakeStore() *fakeStore {
	return &fakeStore{documents: make(map[uuid.UUID]repository.Document)}
}

func (f *fakeStore) Create(_ context.Context, params repository.CreateParams) (repository.Document, error) {
	d := repository.Document{
		ID: uuid.New(), UserID: params.UserID, Kind: params.Kind,
		FileName: params.FileName, FileKey: params.FileKey,
		ContentType: params.ContentType, SizeBytes: params.SizeBytes,
		Status:     domain.StatusPending,
		CapturedAt: params.CapturedAt, CaptureLat: params.CaptureLat, CaptureLng: params.CaptureLng,
		CreatedAt: time.Now(),
	}
	f.documents[d.ID] = d
	return d, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.Document, error) {
	d, ok := f.documents[id]
	if !ok {
		return repository.Document{}, repository.ErrNotFound
	}
	return d, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID uuid.UUID) ([]repository.Document, error) {
	var out []repository.Document
	for _, d := range f.documents {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByStatus(_ context.Context, status domain.Status, _, _ int) ([]repository.Document, int, error) {
	var out []repository.Document
	for _, d := range f.documents {
		if d.Status == status {
			out = append(out, d)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) Review(_ context.Context, id uuid.UUID, status domain.Status, reviewedBy uuid.UUID, note *string) (repository.Document, error) {
	d, ok := f.documents[id]
	if !ok {
		return repository.Document{}, repository.ErrNotFound
	}
	if d.Status != domain.StatusPending {
		return repository.Document{}, repository.ErrAlreadyReviewed
	}
	now := time.Now()
	d.Status = status
	d.ReviewedBy = &reviewedBy
	d.ReviewedAt = &now
	d.ReviewNote = note
	f.documents[id] = d
	return d, nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.documents[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.documents, id)
	return nil
}

type fakeObjects struct {
	maxSize int64
	objects map[string][]byte
	removed []string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{maxSize: 10 << 20, objects: make(map[string][]byte)}
}

func (f *fakeObjects) Put(_ context.Context, _, folder, fileName, _ string, reader io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	key := folder + "/" + fileName
	f.objects[key] = data
	return key, nil
}

func (f *fakeObjects) PresignDownload(_ context.Context, bucket, fileKey string) (*storage.PresignedURL, error) {
	if _, ok := f.objects[fileKey]; !ok {
		return nil, fmt.Errorf("object %s not found", fileKey)
	}
	return &storage.PresignedURL{
		URL:       "https://minio.test/" + bucket + "/" + fileKey,
		FileKey:   fileKey,
		ExpiresAt: time.Now().Add(storage.PresignedURLTTL),
	}, nil
}

func (f *fakeObjects) Remove(_ context.Context, _, fileKey string) error {
	delete(f.objects, fileKey)
	f.removed = append(f.removed, fileKey)
	return nil
}

func (f *fakeObjects) ValidateFileSize(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("file size must be greater than 0")
	}
	if sizeBytes > f.maxSize {
		return fmt.Errorf("file too large")
	}
	return nil
}

type testIdentity struct {
	id    uuid.UUID
	admin bool
}

func (t testIdentity) UserID() uuid.UUID     { return t.id }
func (t testIdentity) Role() string          { return "user" }
func (t testIdentity) IsAdmin() bool         { return t.admin }
func (t testIdentity) IsAuthenticated() bool { return true }

func newService(store *fakeStore, objects *fakeObjects) *Service {
	return New(store, objects, "employee-documents", nil, logger.New("test"))
}

func TestUploadCreatesPendingDocument(t *testing.T) {
	store := newFakeStore()
	objects := newFakeObjects()
	svc := newService(store, objects)
	user := uuid.New()

	doc, err := svc.Upload(context.Background(), user, "Contract", "contract.pdf", "application/pdf", 11, strings.NewReader("hello world"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if doc.Status != domain.StatusPending {
		t.Fatalf("expected pending status, got %s", doc.Status)
	}
	if doc.SizeBytes != 11 {
		t.Fatalf("expected size 11, got %d", doc.SizeBytes)
	}
	if _, ok := objects.objects[user.String()+"/contract.pdf"]; !ok {
		t.Fatalf("file was not stored: %v", objects.objects)
	}
	if doc.CapturedAt != nil {
		t.Fatalf("pdf upload must not carry capture metadata")
	}
}

func TestUploadRejectsUnknownKind(t *testing.T) {
	svc := newService(newFakeStore(), newFakeObjects())
	_, err := svc.Upload(context.Background(), uuid.New(), "Selfie", "x.pdf", "application/pdf", 4, strings.NewReader("data"))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadRejectsDisallowedContentType(t *testing.T) {
	svc := newService(newFakeStore(), newFakeObjects())
	_, err := svc.Upload(context.Background(), uuid.New(), "Contract", "x.exe", "application/x-msdownload", 4, strings.NewReader("data"))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	objects := newFakeObjects()
	objects.maxSize = 8
	svc := newService(newFakeStore(), objects)

	_, err := svc.Upload(context.Background(), uuid.New(), "Contract", "big.pdf", "application/pdf", 64, strings.NewReader(strings.Repeat("a", 64)))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestImageUploadWithoutExifStillAccepted(t *testing.T) {
	svc := newService(newFakeStore(), newFakeObjects())

	doc, err := svc.Upload(context.Background(), uuid.New(), "IdProof", "scan.jpg", "image/jpeg", 9, strings.NewReader("not a jpg"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if doc.CapturedAt != nil || doc.CaptureLat != nil {
		t.Fatalf("garbage image bytes must yield empty capture metadata")
	}
}

func TestDownloadURLOwnerAndAdminOnly(t *testing.T) {
	store := newFakeStore()
	objects := newFakeObjects()
	svc := newService(store, objects)
	owner := uuid.New()

	doc, err := svc.Upload(context.Background(), owner, "IdProof", "id.pdf", "application/pdf", 4, strings.NewReader("data"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if _, err := svc.DownloadURL(context.Background(), testIdentity{id: owner}, doc.ID); err != nil {
		t.Fatalf("owner download failed: %v", err)
	}
	if _, err := svc.DownloadURL(context.Background(), testIdentity{id: uuid.New(), admin: true}, doc.ID); err != nil {
		t.Fatalf("admin download failed: %v", err)
	}
	if _, err := svc.DownloadURL(context.Background(), testIdentity{id: uuid.New()}, doc.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}
}

func TestVerifyThenSecondDecisionConflicts(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, newFakeObjects())
	admin := uuid.New()

	doc, err := svc.Upload(context.Background(), uuid.New(), "Certificate", "cert.pdf", "application/pdf", 4, strings.NewReader("data"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	verified, err := svc.Verify(context.Background(), admin, doc.ID, "looks good")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if verified.Status != domain.StatusVerified || verified.ReviewedBy == nil || *verified.ReviewedBy != admin {
		t.Fatalf("unexpected review state: %+v", verified)
	}

	if _, err := svc.Reject(context.Background(), admin, doc.ID, "changed my mind"); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on second decision, got %v", err)
	}
}

func TestReviewUnknownDocumentNotFound(t *testing.T) {
	svc := newService(newFakeStore(), newFakeObjects())
	if _, err := svc.Verify(context.Background(), uuid.New(), uuid.New(), ""); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteRemovesRecordAndFile(t *testing.T) {
	store := newFakeStore()
	objects := newFakeObjects()
	svc := newService(store, objects)

	doc, err := svc.Upload(context.Background(), uuid.New(), "Other", "misc.pdf", "application/pdf", 4, strings.NewReader("data"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if err := svc.Delete(context.Background(), doc.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(store.documents) != 0 {
		t.Fatalf("record not deleted")
	}
	if len(objects.removed) != 1 {
		t.Fatalf("stored file not removed: %v", objects.removed)
	}
}

func TestQueueRejectsUnknownStatus(t *testing.T) {
	svc := newService(newFakeStore(), newFakeObjects())
	if _, _, err := svc.Queue(context.Background(), "Lost", 1, 20); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
