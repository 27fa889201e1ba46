package sessionstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/aptwatch/listing-pipeline/pkg/session"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the import session store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) Create(ctx context.Context, sess *session.Session) error {
	dao := toSessionDao(sess)

	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create import session: %w", err)
	}
	return nil
}

// close writes a terminal state. The status='processing' guard makes the
// transition happen at most once; a second attempt reports ErrSessionClosed.
func (s *pgStore) close(ctx context.Context, id uuid.UUID, status session.Status, outcome *session.Outcome) error {
	now := time.Now().UTC()

	query := s.db.NewUpdate().
		Model((*SessionDao)(nil)).
		Set("status = ?", string(status)).
		Set("finished_at = ?", now).
		Where("id = ?", id).
		Where("status = ?", string(session.StatusProcessing))

	if outcome != nil {
		errs := outcome.Errors
		if errs == nil {
			errs = []string{}
		}
		query = query.
			Set("summary = ?", outcome.Summary).
			Set("errors = ?", pgdialect.Array(errs)).
			Set("detail = ?", outcome.Detail)
	}

	res, err := query.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to close import session: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		exists, err := s.db.NewSelect().
			Model((*SessionDao)(nil)).
			Where("id = ?", id).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("failed to check import session: %w", err)
		}
		if !exists {
			return ErrSessionNotFound
		}
		return ErrSessionClosed
	}
	return nil
}

func (s *pgStore) Complete(ctx context.Context, id uuid.UUID, outcome *session.Outcome) error {
	return s.close(ctx, id, session.StatusCompleted, outcome)
}

func (s *pgStore) Fail(ctx context.Context, id uuid.UUID, outcome *session.Outcome) error {
	return s.close(ctx, id, session.StatusFailed, outcome)
}

func (s *pgStore) Get(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	dao := new(SessionDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get import session: %w", err)
	}
	return toSession(dao), nil
}
