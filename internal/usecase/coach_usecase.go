package usecase

import (
	"context"
	"errors"
	"strings"

	"resume-coach/internal/coaching"
	"resume-coach/internal/domain/resume"
	"resume-coach/internal/extraction"

	"github.com/google/uuid"
)

var (
	// ErrCollaborator means the language-model call failed outright.
	ErrCollaborator = errors.New("coaching model unavailable")
	// ErrMalformedExtraction means the model reply could not be parsed into
	// a valid structured document.
	ErrMalformedExtraction = errors.New("extraction produced malformed data")
	// ErrCoachingIncomplete means finalization was requested before the
	// dialogue reached its completion signal.
	ErrCoachingIncomplete = errors.New("coaching is not complete")
)

// CoachEngine produces the next assistant turn for a resume and dialogue.
type CoachEngine interface {
	Next(ctx context.Context, rawText string, conversation []resume.Turn) (resume.Turn, error)
}

// AchievementExtractor turns the finished conversation into a structured
// document.
type AchievementExtractor interface {
	Extract(ctx context.Context, rawText string, conversation []resume.Turn) (resume.Document, error)
}

type CoachUsecase interface {
	Turn(ctx context.Context, userID uuid.UUID, message string) (resume.Turn, error)
	Finalize(ctx context.Context, userID uuid.UUID) (resume.Document, error)
}

type Coach struct {
	repo      resume.Repository
	engine    CoachEngine
	extractor AchievementExtractor
	cache     ResumeCache
}

func NewCoachUsecase(repo resume.Repository, engine CoachEngine, extractor AchievementExtractor, cache ResumeCache) *Coach {
	return &Coach{repo: repo, engine: engine, extractor: extractor, cache: cache}
}

// Turn appends the user's message and the generated assistant reply to the
// stored conversation. When the collaborator fails, nothing is persisted:
// the conversation is left exactly as it was.
func (u *Coach) Turn(ctx context.Context, userID uuid.UUID, message string) (resume.Turn, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return resume.Turn{}, ErrInvalidInput
	}

	rec, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return resume.Turn{}, ErrResumeNotFound
		}
		return resume.Turn{}, err
	}

	userTurn := resume.Turn{Role: resume.RoleUser, Content: message}
	assistantTurn, err := u.engine.Next(ctx, rec.RawText, append(rec.Conversation, userTurn))
	if err != nil {
		return resume.Turn{}, errors.Join(ErrCollaborator, err)
	}

	if err := u.repo.AppendTurns(ctx, userID, []resume.Turn{userTurn, assistantTurn}); err != nil {
		return resume.Turn{}, err
	}
	_ = u.cache.Delete(ctx, activeResumeCacheKey(userID))

	return assistantTurn, nil
}

// Finalize runs achievement extraction once and performs the terminal
// update. Coaching must have reached its completion signal first, and the
// completion flag is never written unless extraction validates.
func (u *Coach) Finalize(ctx context.Context, userID uuid.UUID) (resume.Document, error) {
	rec, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return resume.Document{}, ErrResumeNotFound
		}
		return resume.Document{}, err
	}

	if !coaching.IsComplete(rec.Conversation) {
		return resume.Document{}, ErrCoachingIncomplete
	}

	doc, err := u.extractor.Extract(ctx, rec.RawText, rec.Conversation)
	if err != nil {
		if errors.Is(err, extraction.ErrMalformed) {
			return resume.Document{}, errors.Join(ErrMalformedExtraction, err)
		}
		return resume.Document{}, errors.Join(ErrCollaborator, err)
	}

	if err := u.repo.Finalize(ctx, userID, doc); err != nil {
		return resume.Document{}, err
	}
	_ = u.cache.Delete(ctx, activeResumeCacheKey(userID))

	return doc, nil
}
