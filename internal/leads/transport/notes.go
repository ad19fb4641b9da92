package transport

import (
	"time"

	"crmhr_backend/internal/leads/repository"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Content string `json:"content" binding:"required,max=4000"`
}

type NoteResponse struct {
	ID        uuid.UUID `json:"id"`
	LeadID    uuid.UUID `json:"leadId"`
	CreatedBy uuid.UUID `json:"createdBy"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewNoteResponse(n repository.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		LeadID:    n.LeadID,
		CreatedBy: n.AuthorID,
		Content:   n.Body,
		CreatedAt: n.CreatedAt,
	}
}
