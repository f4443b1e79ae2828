package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-coach/internal/builder"
	"resume-coach/internal/domain/resume"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrResumeNotFound  = errors.New("resume not found")
	ErrEmptyDocument   = errors.New("no text could be extracted from the document")
	ErrUnsupportedFile = errors.New("unsupported file type")
)

const resumeCacheTTL = 10 * time.Minute

// TextExtractor is the text extraction collaborator for the upload path.
type TextExtractor interface {
	FromUpload(filename string, data []byte) (string, error)
}

// ResumeCache caches the active resume read path. Implementations may be
// no-ops when the cache backend is down.
type ResumeCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type ResumeUsecase interface {
	CreateFromUpload(ctx context.Context, userID uuid.UUID, filename string, data []byte) (resume.Record, error)
	CreateFromBuilder(ctx context.Context, userID uuid.UUID, form builder.Form) (resume.Record, error)
	GetActive(ctx context.Context, userID uuid.UUID) (resume.Record, error)
	SaveConversation(ctx context.Context, userID uuid.UUID, conversation []resume.Turn) error
}

type Resume struct {
	repo      resume.Repository
	extractor TextExtractor
	cache     ResumeCache
}

func NewResumeUsecase(repo resume.Repository, extractor TextExtractor, cache ResumeCache) *Resume {
	return &Resume{repo: repo, extractor: extractor, cache: cache}
}

func activeResumeCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("resume:active:%s", userID)
}

func (u *Resume) CreateFromUpload(ctx context.Context, userID uuid.UUID, filename string, data []byte) (resume.Record, error) {
	if len(data) == 0 {
		return resume.Record{}, ErrInvalidInput
	}

	text, err := u.extractor.FromUpload(filename, data)
	if err != nil {
		return resume.Record{}, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}
	if !hasVisibleText(text) {
		return resume.Record{}, ErrEmptyDocument
	}

	return u.create(ctx, resume.Record{
		ID:             uuid.New(),
		UserID:         userID,
		RawText:        text,
		CreationMethod: resume.MethodUpload,
	})
}

func (u *Resume) CreateFromBuilder(ctx context.Context, userID uuid.UUID, form builder.Form) (resume.Record, error) {
	if _, err := form.Complete(); err != nil {
		return resume.Record{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	doc := form.Document()
	return u.create(ctx, resume.Record{
		ID:             uuid.New(),
		UserID:         userID,
		RawText:        form.Synthesize(),
		Structured:     &doc,
		CreationMethod: resume.MethodBuilder,
	})
}

func (u *Resume) create(ctx context.Context, rec resume.Record) (resume.Record, error) {
	created, err := u.repo.Upsert(ctx, rec)
	if err != nil {
		return resume.Record{}, err
	}
	_ = u.cache.Delete(ctx, activeResumeCacheKey(rec.UserID))
	return created, nil
}

func (u *Resume) GetActive(ctx context.Context, userID uuid.UUID) (resume.Record, error) {
	key := activeResumeCacheKey(userID)

	var cached resume.Record
	if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	rec, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return resume.Record{}, ErrResumeNotFound
		}
		return resume.Record{}, err
	}

	_ = u.cache.SetJSON(ctx, key, rec, resumeCacheTTL)
	return rec, nil
}

func (u *Resume) SaveConversation(ctx context.Context, userID uuid.UUID, conversation []resume.Turn) error {
	for _, t := range conversation {
		if !t.Valid() {
			return ErrInvalidInput
		}
	}

	if err := u.repo.SaveConversation(ctx, userID, conversation); err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return ErrResumeNotFound
		}
		return err
	}
	_ = u.cache.Delete(ctx, activeResumeCacheKey(userID))
	return nil
}

func hasVisibleText(s string) bool {
	for _, r := range s {
		if r > ' ' {
			return true
		}
	}
	return false
}
