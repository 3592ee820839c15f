// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"groupstay_crm/internal/adapters/crm"
	"groupstay_crm/internal/app"
	"groupstay_crm/internal/domain"
)

const (
	maxWebhookBody = 1 << 20
	maxEnquiryBody = 64 << 10
)

type Handlers struct {
	Sync          *app.SyncService
	Q             *app.QueryService
	WebhookSecret string
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/crm/status", h.crmStatus)
	s.mux.Get("/v1/crm/contacts/{crmID}", h.remoteContact)
	s.mux.Get("/v1/crm/properties/{crmID}", h.remoteProperty)
	s.mux.Post("/v1/crm/webhook", h.webhook)
	s.mux.Get("/v1/sync-logs", h.recentLogs)
	s.mux.Get("/v1/sync-logs/{entityType}/{entityID}", h.entityLogs)
	s.mux.Post("/v1/enquiries", h.submitEnquiry)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable serves v with a weak ETag and honours If-None-Match.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

// ---- CRM ----

func (h *Handlers) crmStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"connected": h.Q.ConnectionStatus(r.Context())})
}

func (h *Handlers) remoteContact(w http.ResponseWriter, r *http.Request) {
	c := h.Q.RemoteContact(r.Context(), chi.URLParam(r, "crmID"))
	if c == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "contact not available from CRM")
		return
	}
	writeJSON(w, http.StatusOK, toContactView(*c))
}

func (h *Handlers) remoteProperty(w http.ResponseWriter, r *http.Request) {
	p := h.Q.RemoteProperty(r.Context(), chi.URLParam(r, "crmID"))
	if p == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "property not available from CRM")
		return
	}
	writeJSON(w, http.StatusOK, toPropertyView(*p))
}

func (h *Handlers) webhook(w http.ResponseWriter, r *http.Request) {
	if h.WebhookSecret == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "webhooks are not configured")
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "could not read request body")
		return
	}
	if !crm.VerifySignature(h.WebhookSecret, body, r.Header.Get(crm.SignatureHeader)) {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "signature mismatch")
		return
	}
	ev, err := crm.ParseWebhook(body)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid event", err.Error())
		return
	}
	h.Q.RecordWebhook(r.Context(), ev.EntityType, ev.EntityID, ev.CRMID, ev.Action(), ev)
	w.WriteHeader(http.StatusNoContent)
}

// ---- sync log dashboard ----

func (h *Handlers) recentLogs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 500 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 500")
			return
		}
		limit = l
	}
	writeCacheable(w, r, h.Q.RecentLogs(r.Context(), limit))
}

func (h *Handlers) entityLogs(w http.ResponseWriter, r *http.Request) {
	t := domain.EntityType(strings.ToLower(chi.URLParam(r, "entityType")))
	if !t.Valid() {
		writeProblem(w, http.StatusBadRequest, "Invalid entity type", "entity type must be one of contact, property, enquiry, booking")
		return
	}
	writeCacheable(w, r, h.Q.LogsByEntity(r.Context(), t, chi.URLParam(r, "entityID")))
}

// ---- enquiry intake ----

type enquiryForm struct {
	UserID       string         `json:"userId"`
	ContactCRMID string         `json:"contactCrmId"`
	FirstName    string         `json:"firstName"`
	LastName     string         `json:"lastName"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	PropertyID   string         `json:"propertyId"`
	Subject      string         `json:"subject"`
	Message      string         `json:"message"`
	Source       string         `json:"source"`
	CustomFields map[string]any `json:"customFields"`
}

type enquiryAccepted struct {
	EnquiryID string            `json:"enquiryId"`
	Contact   domain.SyncResult `json:"contact"`
	Enquiry   domain.SyncResult `json:"enquiry"`
}

func (h *Handlers) submitEnquiry(w http.ResponseWriter, r *http.Request) {
	var f enquiryForm
	if err := json.NewDecoder(io.LimitReader(r.Body, maxEnquiryBody)).Decode(&f); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be a JSON object")
		return
	}
	f.Email = strings.TrimSpace(f.Email)
	if f.Email == "" || strings.TrimSpace(f.Message) == "" {
		writeProblem(w, http.StatusBadRequest, "Missing fields", "email and message are required")
		return
	}
	if f.Source == "" {
		f.Source = "website"
	}

	now := time.Now().UTC()
	c := domain.Contact{
		ID:        f.UserID,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Phone:     f.Phone,
		Role:      domain.RoleGuest,
		Source:    f.Source,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if c.ID == "" {
		c.ID = "guest:" + strings.ToLower(f.Email)
	}
	if f.ContactCRMID != "" {
		c.CRMID = &f.ContactCRMID
	}

	e := domain.Enquiry{
		ID:           uuid.NewString(),
		Subject:      f.Subject,
		Message:      f.Message,
		Status:       domain.EnquiryNew,
		Source:       f.Source,
		CustomFields: domain.CustomFieldsFromMap(f.CustomFields),
		CreatedAt:    now,
	}
	if f.PropertyID != "" {
		e.PropertyID = &f.PropertyID
	}

	out := h.Sync.SubmitEnquiry(r.Context(), c, e)
	writeJSON(w, http.StatusAccepted, enquiryAccepted{EnquiryID: e.ID, Contact: out.Contact, Enquiry: out.Enquiry})
}
