package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"resume-coach/internal/domain/resume"
	"resume-coach/internal/extraction"

	"github.com/google/uuid"
)

type mockResumeRepo struct {
	record resume.Record
	getErr error

	appended  []resume.Turn
	appendErr error

	saved []resume.Turn

	finalized    *resume.Document
	finalizeErr  error
	upsertResult resume.Record
	upsertErr    error
}

func (m *mockResumeRepo) Upsert(_ context.Context, rec resume.Record) (resume.Record, error) {
	if m.upsertErr != nil {
		return resume.Record{}, m.upsertErr
	}
	if m.upsertResult.ID == uuid.Nil {
		return rec, nil
	}
	return m.upsertResult, nil
}

func (m *mockResumeRepo) GetByUserID(context.Context, uuid.UUID) (resume.Record, error) {
	if m.getErr != nil {
		return resume.Record{}, m.getErr
	}
	return m.record, nil
}

func (m *mockResumeRepo) AppendTurns(_ context.Context, _ uuid.UUID, turns []resume.Turn) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, turns...)
	return nil
}

func (m *mockResumeRepo) SaveConversation(_ context.Context, _ uuid.UUID, conversation []resume.Turn) error {
	m.saved = conversation
	return nil
}

func (m *mockResumeRepo) Finalize(_ context.Context, _ uuid.UUID, doc resume.Document) error {
	if m.finalizeErr != nil {
		return m.finalizeErr
	}
	m.finalized = &doc
	return nil
}

type mockEngine struct {
	turn     resume.Turn
	err      error
	lastConv []resume.Turn
}

func (m *mockEngine) Next(_ context.Context, _ string, conversation []resume.Turn) (resume.Turn, error) {
	m.lastConv = conversation
	return m.turn, m.err
}

type mockExtractor struct {
	doc resume.Document
	err error
}

func (m *mockExtractor) Extract(context.Context, string, []resume.Turn) (resume.Document, error) {
	return m.doc, m.err
}

type mockCache struct {
	deleted []string
}

func (m *mockCache) GetJSON(context.Context, string, any) (bool, error) { return false, nil }
func (m *mockCache) SetJSON(context.Context, string, any, time.Duration) error {
	return nil
}
func (m *mockCache) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	return nil
}

func completedConversation() []resume.Turn {
	return []resume.Turn{
		{Role: resume.RoleUser, Content: "hi"},
		{Role: resume.RoleAssistant, Content: "Are you ready to finalize your improved resume?"},
	}
}

func TestCoachTurn_AppendsBothTurns(t *testing.T) {
	repo := &mockResumeRepo{record: resume.Record{
		UserID:  uuid.New(),
		RawText: "Barista at Cafe X, 2020-01 to present.",
	}}
	engine := &mockEngine{turn: resume.Turn{Role: resume.RoleAssistant, Content: "Tell me more."}}
	cache := &mockCache{}
	uc := NewCoachUsecase(repo, engine, &mockExtractor{}, cache)

	got, err := uc.Turn(context.Background(), uuid.New(), "I served 50 customers an hour")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Content != "Tell me more." {
		t.Errorf("reply = %q", got.Content)
	}

	if len(repo.appended) != 2 {
		t.Fatalf("appended %d turns, want 2", len(repo.appended))
	}
	if repo.appended[0].Role != resume.RoleUser || repo.appended[1].Role != resume.RoleAssistant {
		t.Errorf("appended roles = %q, %q", repo.appended[0].Role, repo.appended[1].Role)
	}
	if len(cache.deleted) != 1 {
		t.Errorf("cache invalidations = %d, want 1", len(cache.deleted))
	}
	// The engine must see the user's new message at the end of the history.
	if last := engine.lastConv[len(engine.lastConv)-1]; last.Content != "I served 50 customers an hour" {
		t.Errorf("engine saw %q as last turn", last.Content)
	}
}

func TestCoachTurn_NoPersistenceOnEngineFailure(t *testing.T) {
	repo := &mockResumeRepo{record: resume.Record{UserID: uuid.New()}}
	engine := &mockEngine{err: errors.New("model down")}
	uc := NewCoachUsecase(repo, engine, &mockExtractor{}, &mockCache{})

	_, err := uc.Turn(context.Background(), uuid.New(), "hello")
	if !errors.Is(err, ErrCollaborator) {
		t.Fatalf("err = %v, want ErrCollaborator", err)
	}
	if len(repo.appended) != 0 {
		t.Fatalf("conversation mutated on failure: %v", repo.appended)
	}
}

func TestCoachTurn_EmptyMessageRejected(t *testing.T) {
	uc := NewCoachUsecase(&mockResumeRepo{}, &mockEngine{}, &mockExtractor{}, &mockCache{})

	_, err := uc.Turn(context.Background(), uuid.New(), "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCoachTurn_NoResume(t *testing.T) {
	repo := &mockResumeRepo{getErr: resume.ErrNotFound}
	uc := NewCoachUsecase(repo, &mockEngine{}, &mockExtractor{}, &mockCache{})

	_, err := uc.Turn(context.Background(), uuid.New(), "hello")
	if !errors.Is(err, ErrResumeNotFound) {
		t.Fatalf("err = %v, want ErrResumeNotFound", err)
	}
}

func TestFinalize_RequiresCompletionSignal(t *testing.T) {
	repo := &mockResumeRepo{record: resume.Record{
		Conversation: []resume.Turn{
			{Role: resume.RoleUser, Content: "hi"},
			{Role: resume.RoleAssistant, Content: "Tell me about your role."},
		},
	}}
	uc := NewCoachUsecase(repo, &mockEngine{}, &mockExtractor{}, &mockCache{})

	_, err := uc.Finalize(context.Background(), uuid.New())
	if !errors.Is(err, ErrCoachingIncomplete) {
		t.Fatalf("err = %v, want ErrCoachingIncomplete", err)
	}
	if repo.finalized != nil {
		t.Fatal("record must not be finalized")
	}
}

func TestFinalize_Success(t *testing.T) {
	repo := &mockResumeRepo{record: resume.Record{Conversation: completedConversation()}}
	doc := resume.Document{Contact: resume.Contact{FullName: "Jane Doe", Email: "jane@x.com"}}
	cache := &mockCache{}
	uc := NewCoachUsecase(repo, &mockEngine{}, &mockExtractor{doc: doc}, cache)

	got, err := uc.Finalize(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Contact.FullName != "Jane Doe" {
		t.Errorf("document = %+v", got)
	}
	if repo.finalized == nil {
		t.Fatal("finalize not persisted")
	}
	if len(cache.deleted) != 1 {
		t.Errorf("cache invalidations = %d, want 1", len(cache.deleted))
	}
}

func TestFinalize_MalformedExtractionDoesNotComplete(t *testing.T) {
	repo := &mockResumeRepo{record: resume.Record{Conversation: completedConversation()}}
	extractor := &mockExtractor{err: extraction.ErrMalformed}
	uc := NewCoachUsecase(repo, &mockEngine{}, extractor, &mockCache{})

	_, err := uc.Finalize(context.Background(), uuid.New())
	if !errors.Is(err, ErrMalformedExtraction) {
		t.Fatalf("err = %v, want ErrMalformedExtraction", err)
	}
	if repo.finalized != nil {
		t.Fatal("completion flag must not be written on malformed extraction")
	}
}

func TestFinalize_TransportFailure(t *testing.T) {
	repo := &mockResumeRepo{record: resume.Record{Conversation: completedConversation()}}
	extractor := &mockExtractor{err: errors.New("timeout")}
	uc := NewCoachUsecase(repo, &mockEngine{}, extractor, &mockCache{})

	_, err := uc.Finalize(context.Background(), uuid.New())
	if !errors.Is(err, ErrCollaborator) {
		t.Fatalf("err = %v, want ErrCollaborator", err)
	}
}
