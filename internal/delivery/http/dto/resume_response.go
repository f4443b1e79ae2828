package dto

import (
	"time"

	"resume-coach/internal/domain/resume"

	"github.com/google/uuid"
)

type ResumeResponse struct {
	ID               uuid.UUID        `json:"id"`
	CreationMethod   string           `json:"creation_method"`
	RawText          string           `json:"raw_text"`
	StructuredData   *resume.Document `json:"structured_data,omitempty"`
	Conversation     []resume.Turn    `json:"conversation"`
	CoachingComplete bool             `json:"coaching_complete"`
	CreatedAt        time.Time        `json:"created_at"`
}

func NewResumeResponse(rec resume.Record) ResumeResponse {
	conv := rec.Conversation
	if conv == nil {
		conv = []resume.Turn{}
	}
	return ResumeResponse{
		ID:               rec.ID,
		CreationMethod:   string(rec.CreationMethod),
		RawText:          rec.RawText,
		StructuredData:   rec.Structured,
		Conversation:     conv,
		CoachingComplete: rec.CoachingComplete,
		CreatedAt:        rec.CreatedAt,
	}
}
