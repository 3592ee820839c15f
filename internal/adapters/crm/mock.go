package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"groupstay_crm/internal/domain"
)

// Mock satisfies domain.CRMService without any network I/O. It stands in
// when the integration is disabled or misconfigured.
type Mock struct {
	log zerolog.Logger
}

var _ domain.CRMService = (*Mock)(nil)

func NewMock(l zerolog.Logger) *Mock {
	return &Mock{log: l.With().Str("crm", "mock").Logger()}
}

func (m *Mock) fabricate(op, entity string) domain.SyncResult {
	id := fmt.Sprintf("mock-%s-%d", entity, time.Now().UnixMilli())
	m.log.Debug().Str("op", op).Str("crm_id", id).Msg("mock crm call")
	return SuccessResult(id, "mock "+entity+" "+op)
}

func (m *Mock) echo(op, entity, crmID string) domain.SyncResult {
	m.log.Debug().Str("op", op).Str("crm_id", crmID).Msg("mock crm call")
	return SuccessResult(crmID, "mock "+entity+" "+op)
}

func (m *Mock) ValidateConnection(ctx context.Context) bool {
	m.log.Debug().Str("op", "validate").Msg("mock crm call")
	return true
}

func (m *Mock) CreateContact(ctx context.Context, c domain.Contact) domain.SyncResult {
	return m.fabricate("create", "contact")
}

func (m *Mock) UpdateContact(ctx context.Context, c domain.Contact) domain.SyncResult {
	if c.CRMID != nil {
		return m.echo("update", "contact", *c.CRMID)
	}
	return m.fabricate("update", "contact")
}

func (m *Mock) GetContact(ctx context.Context, crmID string) *domain.Contact {
	m.log.Debug().Str("op", "get").Str("crm_id", crmID).Msg("mock crm call")
	return nil
}

func (m *Mock) DeleteContact(ctx context.Context, crmID string) domain.SyncResult {
	return m.echo("delete", "contact", crmID)
}

func (m *Mock) CreateProperty(ctx context.Context, p domain.Property) domain.SyncResult {
	return m.fabricate("create", "property")
}

func (m *Mock) UpdateProperty(ctx context.Context, p domain.Property) domain.SyncResult {
	if p.CRMID != nil {
		return m.echo("update", "property", *p.CRMID)
	}
	return m.fabricate("update", "property")
}

func (m *Mock) GetProperty(ctx context.Context, crmID string) *domain.Property {
	m.log.Debug().Str("op", "get").Str("crm_id", crmID).Msg("mock crm call")
	return nil
}

func (m *Mock) DeleteProperty(ctx context.Context, crmID string) domain.SyncResult {
	return m.echo("delete", "property", crmID)
}

func (m *Mock) CreateEnquiry(ctx context.Context, e domain.Enquiry) domain.SyncResult {
	return m.fabricate("create", "enquiry")
}

func (m *Mock) UpdateEnquiry(ctx context.Context, e domain.Enquiry) domain.SyncResult {
	if e.CRMID != nil {
		return m.echo("update", "enquiry", *e.CRMID)
	}
	return m.fabricate("update", "enquiry")
}

func (m *Mock) CreateBooking(ctx context.Context, b domain.Booking) domain.SyncResult {
	return m.fabricate("create", "booking")
}

func (m *Mock) UpdateBooking(ctx context.Context, b domain.Booking) domain.SyncResult {
	if b.CRMID != nil {
		return m.echo("update", "booking", *b.CRMID)
	}
	return m.fabricate("update", "booking")
}

func (m *Mock) DeleteBooking(ctx context.Context, crmID string) domain.SyncResult {
	return m.echo("delete", "booking", crmID)
}
