package resume

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("resume not found")

type Repository interface {
	// Upsert creates the user's active resume, replacing any existing one.
	// Conversation, structured data and the completion flag are reset.
	Upsert(ctx context.Context, rec Record) (Record, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (Record, error)
	// AppendTurns appends turns to the stored conversation in order.
	AppendTurns(ctx context.Context, userID uuid.UUID, turns []Turn) error
	// SaveConversation replaces the stored conversation wholesale.
	SaveConversation(ctx context.Context, userID uuid.UUID, conversation []Turn) error
	// Finalize writes the structured document and marks coaching complete.
	Finalize(ctx context.Context, userID uuid.UUID, doc Document) error
}
