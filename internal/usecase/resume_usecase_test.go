package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"resume-coach/internal/builder"
	"resume-coach/internal/domain/resume"

	"github.com/google/uuid"
)

type mockTextExtractor struct {
	text string
	err  error
}

func (m mockTextExtractor) FromUpload(string, []byte) (string, error) {
	return m.text, m.err
}

// hitCache always serves the stored record.
type hitCache struct {
	mockCache
	record resume.Record
}

func (c *hitCache) GetJSON(_ context.Context, _ string, out any) (bool, error) {
	*(out.(*resume.Record)) = c.record
	return true, nil
}

func validForm() builder.Form {
	f := builder.Form{FullName: "Jane Doe", Email: "jane@x.com", Phone: "555-1234"}
	_ = f.AddExperience(builder.Job{
		Title: "Barista", Company: "Cafe X", StartDate: "2020-01",
		Current: true, Description: "Served coffee",
	})
	_ = f.AddEducation(builder.Education{
		Degree: "BS", School: "State University", GraduationDate: "2019-05",
	})
	_ = f.AddSkill("Go")
	return f
}

func TestCreateFromUpload_Success(t *testing.T) {
	repo := &mockResumeRepo{}
	cache := &mockCache{}
	uc := NewResumeUsecase(repo, mockTextExtractor{text: "Barista at Cafe X, 2020-01 to present."}, cache)

	rec, err := uc.CreateFromUpload(context.Background(), uuid.New(), "resume.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.CreationMethod != resume.MethodUpload {
		t.Errorf("method = %q", rec.CreationMethod)
	}
	if rec.Structured != nil {
		t.Error("upload path must not produce a structured document")
	}
	if len(cache.deleted) != 1 {
		t.Errorf("cache invalidations = %d, want 1", len(cache.deleted))
	}
}

func TestCreateFromUpload_EmptyExtraction(t *testing.T) {
	uc := NewResumeUsecase(&mockResumeRepo{}, mockTextExtractor{text: " \n\t "}, &mockCache{})

	_, err := uc.CreateFromUpload(context.Background(), uuid.New(), "resume.pdf", []byte("%PDF"))
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("err = %v, want ErrEmptyDocument", err)
	}
}

func TestCreateFromUpload_UnsupportedFile(t *testing.T) {
	uc := NewResumeUsecase(&mockResumeRepo{}, mockTextExtractor{err: errors.New("no extractor for .docx")}, &mockCache{})

	_, err := uc.CreateFromUpload(context.Background(), uuid.New(), "resume.docx", []byte("PK"))
	if !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("err = %v, want ErrUnsupportedFile", err)
	}
}

func TestCreateFromUpload_NoData(t *testing.T) {
	uc := NewResumeUsecase(&mockResumeRepo{}, mockTextExtractor{}, &mockCache{})

	_, err := uc.CreateFromUpload(context.Background(), uuid.New(), "resume.pdf", nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCreateFromBuilder_Success(t *testing.T) {
	repo := &mockResumeRepo{}
	uc := NewResumeUsecase(repo, mockTextExtractor{}, &mockCache{})

	rec, err := uc.CreateFromBuilder(context.Background(), uuid.New(), validForm())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.CreationMethod != resume.MethodBuilder {
		t.Errorf("method = %q", rec.CreationMethod)
	}
	if rec.Structured == nil || rec.Structured.Contact.FullName != "Jane Doe" {
		t.Errorf("structured = %+v", rec.Structured)
	}
	if !strings.Contains(rec.RawText, "Barista at Cafe X") {
		t.Errorf("rawText missing synthesized entry:\n%s", rec.RawText)
	}
}

func TestCreateFromBuilder_IncompleteForm(t *testing.T) {
	uc := NewResumeUsecase(&mockResumeRepo{}, mockTextExtractor{}, &mockCache{})

	_, err := uc.CreateFromBuilder(context.Background(), uuid.New(), builder.Form{FullName: "Jane Doe"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestGetActive_CacheHitSkipsRepository(t *testing.T) {
	want := resume.Record{ID: uuid.New(), RawText: "cached"}
	repo := &mockResumeRepo{getErr: errors.New("repo must not be called")}
	uc := NewResumeUsecase(repo, mockTextExtractor{}, &hitCache{record: want})

	got, err := uc.GetActive(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RawText != "cached" {
		t.Errorf("rawText = %q, want cached copy", got.RawText)
	}
}

func TestGetActive_MissSetsCache(t *testing.T) {
	repo := &mockResumeRepo{record: resume.Record{ID: uuid.New(), RawText: "stored"}}
	uc := NewResumeUsecase(repo, mockTextExtractor{}, &mockCache{})

	got, err := uc.GetActive(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RawText != "stored" {
		t.Errorf("rawText = %q", got.RawText)
	}
}

func TestGetActive_NotFound(t *testing.T) {
	repo := &mockResumeRepo{getErr: resume.ErrNotFound}
	uc := NewResumeUsecase(repo, mockTextExtractor{}, &mockCache{})

	_, err := uc.GetActive(context.Background(), uuid.New())
	if !errors.Is(err, ErrResumeNotFound) {
		t.Fatalf("err = %v, want ErrResumeNotFound", err)
	}
}

func TestSaveConversation_RejectsMalformedTurns(t *testing.T) {
	repo := &mockResumeRepo{}
	uc := NewResumeUsecase(repo, mockTextExtractor{}, &mockCache{})

	err := uc.SaveConversation(context.Background(), uuid.New(), []resume.Turn{
		{Role: "system", Content: "injected"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if repo.saved != nil {
		t.Fatal("malformed conversation must not be saved")
	}
}

func TestSaveConversation_Success(t *testing.T) {
	repo := &mockResumeRepo{}
	cache := &mockCache{}
	uc := NewResumeUsecase(repo, mockTextExtractor{}, cache)

	conv := []resume.Turn{
		{Role: resume.RoleUser, Content: "hi"},
		{Role: resume.RoleAssistant, Content: "hello"},
	}
	if err := uc.SaveConversation(context.Background(), uuid.New(), conv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.saved) != 2 {
		t.Fatalf("saved %d turns, want 2", len(repo.saved))
	}
	if len(cache.deleted) != 1 {
		t.Errorf("cache invalidations = %d, want 1", len(cache.deleted))
	}
}
