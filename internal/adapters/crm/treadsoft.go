// internal/adapters/crm/treadsoft.go
package crm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"groupstay_crm/internal/domain"
)

const (
	tsContacts   = "/api/v1/contacts"
	tsProperties = "/api/v1/properties"
	tsEnquiries  = "/api/v1/enquiries"
	tsBookings   = "/api/v1/bookings"
	tsHealth     = "/api/v1/health"

	tsSecretHeader = "X-TreadSoft-Secret"
)

var errNoCRMID = errors.New("record has no CRM id")

// TreadSoft maps internal records onto the TreadSoft REST API.
type TreadSoft struct {
	Base
}

var _ domain.CRMService = (*TreadSoft)(nil)

func NewTreadSoft(cfg domain.CRMConfig, opts ...Option) *TreadSoft {
	return &TreadSoft{Base: newBase(cfg, "treadsoft", tsSecretHeader, opts...)}
}

func (t *TreadSoft) ValidateConnection(ctx context.Context) bool {
	out, err := t.Do(ctx, tsHealth, http.MethodGet, nil)
	if err != nil {
		return false
	}
	status, _ := out["status"].(string)
	return status == "ok"
}

// ---- contacts ----

func (t *TreadSoft) CreateContact(ctx context.Context, c domain.Contact) domain.SyncResult {
	return Wrap(func() (string, string, error) {
		return t.create(ctx, tsContacts, "contact", contactPayload(c))
	})
}

func (t *TreadSoft) UpdateContact(ctx context.Context, c domain.Contact) domain.SyncResult {
	return Wrap(func() (string, string, error) {
		return t.update(ctx, tsContacts, "contact", c.CRMID, contactPayload(c))
	})
}

func (t *TreadSoft) GetContact(ctx context.Context, crmID string) *domain.Contact {
	return WrapGet(func() (*domain.Contact, error) {
		out, err := t.get(ctx, tsContacts, crmID)
		if err != nil {
			return nil, err
		}
		c := mapContact(out)
		if c.CRMID == nil {
			c.CRMID = ptrStr(crmID)
		}
		return &c, nil
	})
}

func (t *TreadSoft) DeleteContact(ctx context.Context, crmID string) domain.SyncResult {
	return Wrap(func() (string, string, error) {
		return t.delete(ctx, tsContacts, "contact", crmID)
	})
}

// ---- properties ----

func (t *TreadSoft) CreateProperty(ctx context.Context, p domain.Property) domain.SyncResult {
	return Wrap(func() (string, string, error) {
		return t.create(ctx, tsProperties, "property", propertyPayload(p))
	})
}

func (t *TreadSoft) UpdateProperty(ctx context.Context, p domain.Property) domain.SyncResult {
	return Wrap(func() (string, string, error) {
		return t.update(ctx, tsProperties, "property", p.CRMID, propertyPayload(p))
	})
}

func (t *TreadSoft) GetProperty(ctx context.Context, crmID string) *domain.Property {
	return WrapGet(func() (*domain.Property, error) {
		out, err := t.get(ctx, tsProperties, crmID)
		if err != nil {
			return nil, err
		}
		p := mapProperty(out)
		if p.CRMID == nil {
			p.CRMID = ptrStr(crmID)
		}
		return &p, nil
	})
}

func (t *TreadSoft) DeleteProperty(ctx context.Context, crmID string) domain.SyncResult {
	return Wrap(func() (string, string, error) {
		return t.delete(ctx, tsProperties, "property", crmID)
	})
}

// ---- enquiries ----

func (t *TreadSoft) CreateEnquiry(ctx context.Context, e domain.Enquiry) domain.SyncResult {
	return Wrap(func() (string, string, error) {
		return t.create(ctx, tsEnquiries, "enquiry", enquiryPayload(e))
	})
}

func (t *TreadSoft) UpdateEnquiry(ctx context.Context, e domain.Enquiry) domain.SyncResult {
	return Wrap(func() (string, string, error) {
		return t.update(ctx, tsEnquiries, "enquiry", e.CRMID, enquiryPayload(e))
	})
}

// ---- bookings ----

func (t *TreadSoft) CreateBooking(ctx context.Context, b domain.Booking) domain.SyncResult {
	return Wrap(func() (string, string, error) {
		return t.create(ctx, tsBookings, "booking", bookingPayload(b))
	})
}

func (t *TreadSoft) UpdateBooking(ctx context.Context, b domain.Booking) domain.SyncResult {
	return Wrap(func() (string, string, error) {
		return t.update(ctx, tsBookings, "booking", b.CRMID, bookingPayload(b))
	})
}

func (t *TreadSoft) DeleteBooking(ctx context.Context, crmID string) domain.SyncResult {
	return Wrap(func() (string, string, error) {
		return t.delete(ctx, tsBookings, "booking", crmID)
	})
}

// ---- internals ----

func (t *TreadSoft) create(ctx context.Context, path, entity string, body payload) (string, string, error) {
	out, err := t.Do(ctx, path, http.MethodPost, body)
	if err != nil {
		return "", "", err
	}
	id := firstString(out, "id", entity+"_id")
	if id == "" {
		return "", "", fmt.Errorf("create %s: response carried no id", entity)
	}
	return id, entity + " created", nil
}

func (t *TreadSoft) update(ctx context.Context, path, entity string, crmID *string, body payload) (string, string, error) {
	if crmID == nil || *crmID == "" {
		return "", "", fmt.Errorf("update %s: %w", entity, errNoCRMID)
	}
	out, err := t.Do(ctx, path+"/"+url.PathEscape(*crmID), http.MethodPatch, body)
	if err != nil {
		return "", "", err
	}
	id := firstString(out, "id", entity+"_id")
	if id == "" {
		id = *crmID
	}
	return id, entity + " updated", nil
}

func (t *TreadSoft) delete(ctx context.Context, path, entity, crmID string) (string, string, error) {
	if crmID == "" {
		return "", "", fmt.Errorf("delete %s: %w", entity, errNoCRMID)
	}
	if _, err := t.Do(ctx, path+"/"+url.PathEscape(crmID), http.MethodDelete, nil); err != nil {
		return "", "", err
	}
	return crmID, entity + " deleted", nil
}

func (t *TreadSoft) get(ctx context.Context, path, crmID string) (map[string]any, error) {
	if crmID == "" {
		return nil, errNoCRMID
	}
	out, err := t.Do(ctx, path+"/"+url.PathEscape(crmID), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	// accept both a bare record and a {"data": {...}} envelope
	if inner, ok := out["data"].(map[string]any); ok {
		return inner, nil
	}
	return out, nil
}
