package sessionstore

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/aptwatch/listing-pipeline/pkg/session"
)

// SessionDao is a data access object that maps directly to the 'import_sessions' table in PostgreSQL.
type SessionDao struct {
	bun.BaseModel `bun:"table:import_sessions,alias:s"`

	ID       uuid.UUID `bun:"id,pk,type:uuid"`
	Kind     string    `bun:"kind,notnull,type:varchar(16)"`
	Source   string    `bun:"source,type:varchar(32)"`
	Filename string    `bun:"filename,type:varchar(255)"`

	Status  string          `bun:"status,notnull,type:varchar(16)"`
	Summary string          `bun:"summary,type:text"`
	Errors  []string        `bun:"errors,array"`
	Detail  json.RawMessage `bun:"detail,type:jsonb,nullzero"`

	StartedAt  time.Time  `bun:"started_at,nullzero,default:current_timestamp"`
	FinishedAt *time.Time `bun:"finished_at"`
}

func toSessionDao(sess *session.Session) *SessionDao {
	return &SessionDao{
		ID:         sess.ID,
		Kind:       string(sess.Kind),
		Source:     sess.Source,
		Filename:   sess.Filename,
		Status:     string(sess.Status),
		Summary:    sess.Summary,
		Errors:     sess.Errors,
		Detail:     sess.Detail,
		StartedAt:  sess.StartedAt,
		FinishedAt: sess.FinishedAt,
	}
}

func toSession(dao *SessionDao) *session.Session {
	return &session.Session{
		ID:         dao.ID,
		Kind:       session.Kind(dao.Kind),
		Source:     dao.Source,
		Filename:   dao.Filename,
		Status:     session.Status(dao.Status),
		Summary:    dao.Summary,
		Errors:     dao.Errors,
		Detail:     dao.Detail,
		StartedAt:  dao.StartedAt,
		FinishedAt: dao.FinishedAt,
	}
}
