package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"groupstay_crm/internal/domain"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 500

	logWriteTimeout = 5 * time.Second
)

// SyncEntry is what callers hand to the logger; payloads are serialized here.
type SyncEntry struct {
	EntityType domain.EntityType
	EntityID   string
	CRMID      string
	Action     domain.SyncAction
	Status     domain.SyncStatus
	Request    any
	Response   any
	Error      string
}

// SyncLogger records every CRM attempt. It never returns an error: the
// audit trail must not break the operation it describes.
type SyncLogger struct {
	repo domain.SyncLogRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewSyncLogger(r domain.SyncLogRepository, l zerolog.Logger) *SyncLogger {
	return &SyncLogger{repo: r, log: l, now: time.Now}
}

func (s *SyncLogger) Log(ctx context.Context, e SyncEntry) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Str("entity", string(e.EntityType)).Msg("sync log write panicked")
		}
	}()

	row := domain.SyncLog{
		ID:           uuid.NewString(),
		EntityType:   e.EntityType,
		EntityID:     e.EntityID,
		CRMID:        optional(e.CRMID),
		Action:       e.Action,
		Status:       e.Status,
		RequestData:  s.serialize("request", e.Request),
		ResponseData: s.serialize("response", e.Response),
		ErrorMessage: optional(e.Error),
		CreatedAt:    s.now(),
	}
	// the row outlives the request: a client hanging up after the CRM call
	// must not drop it
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logWriteTimeout)
	defer cancel()
	if err := s.repo.Insert(wctx, row); err != nil {
		s.log.Error().Err(err).
			Str("entity", string(e.EntityType)).
			Str("entity_id", e.EntityID).
			Str("status", string(e.Status)).
			Msg("sync log write failed")
	}
}

func (s *SyncLogger) LogSuccess(ctx context.Context, e SyncEntry) {
	e.Status = domain.SyncSuccess
	s.Log(ctx, e)
}

func (s *SyncLogger) LogFailure(ctx context.Context, e SyncEntry) {
	e.Status = domain.SyncFailed
	s.Log(ctx, e)
}

func (s *SyncLogger) LogPending(ctx context.Context, e SyncEntry) {
	e.Status = domain.SyncPending
	s.Log(ctx, e)
}

// RecentLogs returns the newest rows first; failures read as an empty list.
func (s *SyncLogger) RecentLogs(ctx context.Context, limit int) []domain.SyncLog {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}
	out, err := s.repo.Recent(ctx, limit)
	if err != nil {
		s.log.Error().Err(err).Int("limit", limit).Msg("read recent sync logs failed")
		return []domain.SyncLog{}
	}
	if out == nil {
		return []domain.SyncLog{}
	}
	return out
}

func (s *SyncLogger) LogsByEntity(ctx context.Context, t domain.EntityType, id string) []domain.SyncLog {
	out, err := s.repo.ByEntity(ctx, t, id)
	if err != nil {
		s.log.Error().Err(err).Str("entity", string(t)).Str("entity_id", id).Msg("read sync logs failed")
		return []domain.SyncLog{}
	}
	if out == nil {
		return []domain.SyncLog{}
	}
	return out
}

// serialize drops payloads that cannot be encoded; the row is still written.
func (s *SyncLogger) serialize(kind string, v any) (out *string) {
	if v == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn().Str("payload", kind).Interface("panic", r).Msg("sync log payload not serializable")
			out = nil
		}
	}()
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Warn().Err(err).Str("payload", kind).Msg("sync log payload not serializable")
		return nil
	}
	str := string(b)
	return &str
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
