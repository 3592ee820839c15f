package crm

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"groupstay_crm/internal/domain"
)

const SignatureHeader = "X-TreadSoft-Signature"

// WebhookEvent is the body TreadSoft posts when a record changes on its side.
type WebhookEvent struct {
	Event      string            `json:"event"` // e.g. contact.updated
	EntityType domain.EntityType `json:"entity_type"`
	EntityID   string            `json:"external_id"` // our id, echoed back
	CRMID      string            `json:"id"`
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares in constant time; an optional "sha256=" prefix is
// accepted.
func VerifySignature(secret string, body []byte, sig string) bool {
	if secret == "" || sig == "" {
		return false
	}
	sig = strings.TrimPrefix(strings.TrimSpace(sig), "sha256=")
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

func ParseWebhook(body []byte) (WebhookEvent, error) {
	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return WebhookEvent{}, fmt.Errorf("decode webhook: %w", err)
	}
	if !ev.EntityType.Valid() {
		return WebhookEvent{}, fmt.Errorf("webhook: unknown entity type %q", ev.EntityType)
	}
	if ev.EntityID == "" && ev.CRMID == "" {
		return WebhookEvent{}, fmt.Errorf("webhook: no entity reference")
	}
	return ev, nil
}

// Action maps the event suffix onto a sync action; unknown suffixes are
// treated as updates.
func (e WebhookEvent) Action() domain.SyncAction {
	switch {
	case strings.HasSuffix(e.Event, ".created"):
		return domain.ActionCreate
	case strings.HasSuffix(e.Event, ".deleted"):
		return domain.ActionDelete
	}
	return domain.ActionUpdate
}
