package app

import (
	"context"
	"time"

	"groupstay_crm/internal/adapters/observability"
	"groupstay_crm/internal/domain"
)

const statusKey = "crm:status"

type QueryService struct {
	logs     *SyncLogger
	crm      domain.CRMService
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(l *SyncLogger, c domain.CRMService, cache domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{logs: l, crm: c, cache: cache, cacheTTL: ttl}
}

func (s *QueryService) RecentLogs(ctx context.Context, limit int) []domain.SyncLog {
	return s.logs.RecentLogs(ctx, limit)
}

func (s *QueryService) LogsByEntity(ctx context.Context, t domain.EntityType, id string) []domain.SyncLog {
	return s.logs.LogsByEntity(ctx, t, id)
}

// ConnectionStatus is read by the admin dashboard on every page load, so the
// health probe result is cached. A broken cache only costs a live check.
func (s *QueryService) ConnectionStatus(ctx context.Context) bool {
	var ok bool
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, statusKey, &ok); err == nil && hit {
			return ok
		}
	}

	ok = s.crm.ValidateConnection(ctx)
	if s.cache != nil && s.cacheTTL > 0 {
		_ = s.cache.Set(ctx, statusKey, ok, int(s.cacheTTL.Seconds()))
	}
	return ok
}

// RemoteContact reads the CRM's copy of a contact; nil when unavailable.
func (s *QueryService) RemoteContact(ctx context.Context, crmID string) *domain.Contact {
	return s.crm.GetContact(ctx, crmID)
}

func (s *QueryService) RemoteProperty(ctx context.Context, crmID string) *domain.Property {
	return s.crm.GetProperty(ctx, crmID)
}

// RecordWebhook notes a change made on the CRM side. The local record is not
// touched; the pending row is picked up by whoever reconciles. Events for
// records the website never pushed keep an empty entity id and are found by
// crm_id.
func (s *QueryService) RecordWebhook(ctx context.Context, t domain.EntityType, entityID, crmID string, a domain.SyncAction, payload any) {
	observability.ObserveSync(string(t), string(a), string(domain.SyncPending))
	s.logs.LogPending(ctx, SyncEntry{
		EntityType: t,
		EntityID:   entityID,
		CRMID:      crmID,
		Action:     a,
		Request:    payload,
	})
}
