package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"resume-coach/internal/database"
	"resume-coach/internal/domain/resume"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresResumeRepository struct {
	db database.DB
}

func NewPostgresResumeRepository(db database.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db}
}

func (r *PostgresResumeRepository) Upsert(ctx context.Context, rec resume.Record) (resume.Record, error) {
	conv := rec.Conversation
	if conv == nil {
		conv = []resume.Turn{}
	}
	convJSON, err := json.Marshal(conv)
	if err != nil {
		return resume.Record{}, err
	}

	var structuredJSON []byte
	if rec.Structured != nil {
		structuredJSON, err = json.Marshal(rec.Structured)
		if err != nil {
			return resume.Record{}, err
		}
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO resumes (id, user_id, raw_text, structured_data, creation_method, conversation, coaching_complete)
		 VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		 ON CONFLICT (user_id) DO UPDATE SET
		   id = EXCLUDED.id,
		   raw_text = EXCLUDED.raw_text,
		   structured_data = EXCLUDED.structured_data,
		   creation_method = EXCLUDED.creation_method,
		   conversation = EXCLUDED.conversation,
		   coaching_complete = FALSE,
		   created_at = now(),
		   updated_at = now()
		 RETURNING id, user_id, raw_text, structured_data, creation_method, conversation, coaching_complete, created_at`,
		rec.ID, rec.UserID, rec.RawText, structuredJSON, string(rec.CreationMethod), convJSON,
	)
	return scanResume(row)
}

func (r *PostgresResumeRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (resume.Record, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, raw_text, structured_data, creation_method, conversation, coaching_complete, created_at
		 FROM resumes WHERE user_id = $1`,
		userID,
	)
	return scanResume(row)
}

func (r *PostgresResumeRepository) AppendTurns(ctx context.Context, userID uuid.UUID, turns []resume.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	turnsJSON, err := json.Marshal(turns)
	if err != nil {
		return err
	}

	n, err := r.db.Exec(ctx,
		`UPDATE resumes SET conversation = conversation || $2::jsonb, updated_at = now() WHERE user_id = $1`,
		userID, turnsJSON,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return resume.ErrNotFound
	}
	return nil
}

func (r *PostgresResumeRepository) SaveConversation(ctx context.Context, userID uuid.UUID, conversation []resume.Turn) error {
	if conversation == nil {
		conversation = []resume.Turn{}
	}
	convJSON, err := json.Marshal(conversation)
	if err != nil {
		return err
	}

	n, err := r.db.Exec(ctx,
		`UPDATE resumes SET conversation = $2::jsonb, updated_at = now() WHERE user_id = $1`,
		userID, convJSON,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return resume.ErrNotFound
	}
	return nil
}

func (r *PostgresResumeRepository) Finalize(ctx context.Context, userID uuid.UUID, doc resume.Document) error {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	n, err := r.db.Exec(ctx,
		`UPDATE resumes SET structured_data = $2::jsonb, coaching_complete = TRUE, updated_at = now() WHERE user_id = $1`,
		userID, docJSON,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return resume.ErrNotFound
	}
	return nil
}

func scanResume(row database.Row) (resume.Record, error) {
	var rec resume.Record
	var method string
	var structuredJSON, convJSON []byte

	err := row.Scan(&rec.ID, &rec.UserID, &rec.RawText, &structuredJSON, &method, &convJSON, &rec.CoachingComplete, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return resume.Record{}, resume.ErrNotFound
		}
		return resume.Record{}, err
	}

	rec.CreationMethod = resume.CreationMethod(method)

	if len(structuredJSON) > 0 {
		var doc resume.Document
		if err := json.Unmarshal(structuredJSON, &doc); err != nil {
			return resume.Record{}, fmt.Errorf("decode structured_data: %w", err)
		}
		rec.Structured = &doc
	}
	if len(convJSON) > 0 {
		if err := json.Unmarshal(convJSON, &rec.Conversation); err != nil {
			return resume.Record{}, fmt.Errorf("decode conversation: %w", err)
		}
	}

	return rec, nil
}
