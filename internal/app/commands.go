package app

import (
	"context"
	"errors"
	"time"

	"groupstay_crm/internal/adapters/crm"
	"groupstay_crm/internal/adapters/observability"
	"groupstay_crm/internal/domain"
)

var errNotSynced = errors.New("record has never been synced to the CRM")

// SyncService is what the website's handlers call. Every CRM call made here
// leaves exactly one row in the sync log; results are returned, never raised.
type SyncService struct {
	crm  domain.CRMService
	logs *SyncLogger
}

func NewSyncService(c domain.CRMService, l *SyncLogger) *SyncService {
	return &SyncService{crm: c, logs: l}
}

// SyncContact creates the contact remotely on first sync and updates it after.
// On a successful create the caller should persist res.CRMID.
func (s *SyncService) SyncContact(ctx context.Context, c domain.Contact) domain.SyncResult {
	if isNew(c.CRMID) {
		res := s.crm.CreateContact(ctx, c)
		s.record(ctx, domain.EntityContact, c.ID, domain.ActionCreate, crm.ContactPayload(c), res)
		return res
	}
	res := s.crm.UpdateContact(ctx, c)
	s.record(ctx, domain.EntityContact, c.ID, domain.ActionUpdate, crm.ContactPayload(c), res)
	return res
}

func (s *SyncService) SyncProperty(ctx context.Context, p domain.Property) domain.SyncResult {
	if isNew(p.CRMID) {
		res := s.crm.CreateProperty(ctx, p)
		s.record(ctx, domain.EntityProperty, p.ID, domain.ActionCreate, crm.PropertyPayload(p), res)
		return res
	}
	res := s.crm.UpdateProperty(ctx, p)
	s.record(ctx, domain.EntityProperty, p.ID, domain.ActionUpdate, crm.PropertyPayload(p), res)
	return res
}

func (s *SyncService) SyncEnquiry(ctx context.Context, e domain.Enquiry) domain.SyncResult {
	if isNew(e.CRMID) {
		res := s.crm.CreateEnquiry(ctx, e)
		s.record(ctx, domain.EntityEnquiry, e.ID, domain.ActionCreate, crm.EnquiryPayload(e), res)
		return res
	}
	res := s.crm.UpdateEnquiry(ctx, e)
	s.record(ctx, domain.EntityEnquiry, e.ID, domain.ActionUpdate, crm.EnquiryPayload(e), res)
	return res
}

func (s *SyncService) SyncBooking(ctx context.Context, b domain.Booking) domain.SyncResult {
	if isNew(b.CRMID) {
		res := s.crm.CreateBooking(ctx, b)
		s.record(ctx, domain.EntityBooking, b.ID, domain.ActionCreate, crm.BookingPayload(b), res)
		return res
	}
	res := s.crm.UpdateBooking(ctx, b)
	s.record(ctx, domain.EntityBooking, b.ID, domain.ActionUpdate, crm.BookingPayload(b), res)
	return res
}

// UpdateEnquiryStatus moves an enquiry along the pipeline. Any status may
// follow any other.
func (s *SyncService) UpdateEnquiryStatus(ctx context.Context, e domain.Enquiry, st domain.EnquiryStatus) domain.SyncResult {
	e.Status = st
	if isNew(e.CRMID) {
		res := failed(errNotSynced)
		s.record(ctx, domain.EntityEnquiry, e.ID, domain.ActionUpdate, crm.EnquiryPayload(e), res)
		return res
	}
	res := s.crm.UpdateEnquiry(ctx, e)
	s.record(ctx, domain.EntityEnquiry, e.ID, domain.ActionUpdate, crm.EnquiryPayload(e), res)
	return res
}

// CancelBooking keeps the booking in the CRM with status cancelled.
func (s *SyncService) CancelBooking(ctx context.Context, b domain.Booking) domain.SyncResult {
	b.Status = domain.BookingCancelled
	if isNew(b.CRMID) {
		res := failed(errNotSynced)
		s.record(ctx, domain.EntityBooking, b.ID, domain.ActionUpdate, crm.BookingPayload(b), res)
		return res
	}
	res := s.crm.UpdateBooking(ctx, b)
	s.record(ctx, domain.EntityBooking, b.ID, domain.ActionUpdate, crm.BookingPayload(b), res)
	return res
}

func (s *SyncService) RemoveContact(ctx context.Context, c domain.Contact) domain.SyncResult {
	return s.remove(ctx, domain.EntityContact, c.ID, c.CRMID, s.crm.DeleteContact)
}

func (s *SyncService) RemoveProperty(ctx context.Context, p domain.Property) domain.SyncResult {
	return s.remove(ctx, domain.EntityProperty, p.ID, p.CRMID, s.crm.DeleteProperty)
}

func (s *SyncService) RemoveBooking(ctx context.Context, b domain.Booking) domain.SyncResult {
	return s.remove(ctx, domain.EntityBooking, b.ID, b.CRMID, s.crm.DeleteBooking)
}

// EnquiryOutcome carries both halves of an enquiry submission.
type EnquiryOutcome struct {
	Contact domain.SyncResult `json:"contact"`
	Enquiry domain.SyncResult `json:"enquiry"`
}

// SubmitEnquiry pushes the enquirer first so the enquiry can reference the
// contact's CRM id. Without one the enquiry is not sent.
func (s *SyncService) SubmitEnquiry(ctx context.Context, c domain.Contact, e domain.Enquiry) EnquiryOutcome {
	out := EnquiryOutcome{Contact: s.SyncContact(ctx, c)}

	switch {
	case out.Contact.Success && out.Contact.CRMID != "":
		e.ContactID = out.Contact.CRMID
	case !isNew(c.CRMID):
		e.ContactID = *c.CRMID
	default:
		out.Enquiry = failed(errors.New("enquiry not sent: contact has no CRM id"))
		if out.Contact.Disabled() {
			out.Enquiry = out.Contact
		}
		s.record(ctx, domain.EntityEnquiry, e.ID, domain.ActionCreate, crm.EnquiryPayload(e), out.Enquiry)
		return out
	}

	out.Enquiry = s.SyncEnquiry(ctx, e)
	return out
}

// ---- internals ----

func (s *SyncService) remove(ctx context.Context, t domain.EntityType, id string, crmID *string,
	del func(context.Context, string) domain.SyncResult) domain.SyncResult {
	if isNew(crmID) {
		res := failed(errNotSynced)
		s.record(ctx, t, id, domain.ActionDelete, nil, res)
		return res
	}
	res := del(ctx, *crmID)
	s.record(ctx, t, id, domain.ActionDelete, map[string]string{"crm_id": *crmID}, res)
	return res
}

func (s *SyncService) record(ctx context.Context, t domain.EntityType, id string, a domain.SyncAction, req any, res domain.SyncResult) {
	entry := SyncEntry{
		EntityType: t,
		EntityID:   id,
		CRMID:      res.CRMID,
		Action:     a,
		Request:    req,
		Response:   res,
		Error:      res.Error,
	}
	switch {
	case res.Success:
		observability.ObserveSync(string(t), string(a), string(domain.SyncSuccess))
		s.logs.LogSuccess(ctx, entry)
	case res.Disabled():
		// nothing reached the CRM; the row marks it as still to do
		observability.ObserveSync(string(t), string(a), string(domain.SyncPending))
		s.logs.LogPending(ctx, entry)
	default:
		observability.ObserveSync(string(t), string(a), string(domain.SyncFailed))
		s.logs.LogFailure(ctx, entry)
	}
}

func isNew(crmID *string) bool { return crmID == nil || *crmID == "" }

func failed(err error) domain.SyncResult {
	return domain.SyncResult{Success: false, Error: err.Error(), Timestamp: time.Now()}
}
