package crm_test

import (
	"testing"

	"groupstay_crm/internal/adapters/crm"
	"groupstay_crm/internal/domain"
)

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"contact.updated","entity_type":"contact","id":"ts-c-1"}`)
	sig := crm.Sign("s3cret", body)

	if !crm.VerifySignature("s3cret", body, sig) {
		t.Fatal("valid signature rejected")
	}
	if !crm.VerifySignature("s3cret", body, "sha256="+sig) {
		t.Fatal("prefixed signature rejected")
	}
	for name, tc := range map[string]struct{ secret, sig string }{
		"wrong secret": {"other", sig},
		"empty sig":    {"s3cret", ""},
		"not hex":      {"s3cret", "zz"},
		"no secret":    {"", sig},
	} {
		if crm.VerifySignature(tc.secret, body, tc.sig) {
			t.Fatalf("%s: accepted", name)
		}
	}
	if crm.VerifySignature("s3cret", append(body, ' '), sig) {
		t.Fatal("tampered body accepted")
	}
}

func TestParseWebhook(t *testing.T) {
	ev, err := crm.ParseWebhook([]byte(`{"event":"booking.deleted","entity_type":"booking","external_id":"b-1","id":"ts-b-1"}`))
	if err != nil {
		t.Fatal(err)
	}
	if ev.EntityType != domain.EntityBooking || ev.EntityID != "b-1" || ev.CRMID != "ts-b-1" {
		t.Fatalf("got %+v", ev)
	}
	if ev.Action() != domain.ActionDelete {
		t.Fatalf("action %s", ev.Action())
	}

	for _, bad := range []string{
		`not json`,
		`{"event":"x.updated","entity_type":"invoice","id":"1"}`,
		`{"event":"contact.updated","entity_type":"contact"}`,
	} {
		if _, err := crm.ParseWebhook([]byte(bad)); err == nil {
			t.Fatalf("expected error for %s", bad)
		}
	}
}

func TestWebhookAction(t *testing.T) {
	for event, want := range map[string]domain.SyncAction{
		"contact.created": domain.ActionCreate,
		"contact.updated": domain.ActionUpdate,
		"contact.deleted": domain.ActionDelete,
		"contact.merged":  domain.ActionUpdate,
	} {
		if got := (crm.WebhookEvent{Event: event}).Action(); got != want {
			t.Fatalf("%s: got %s want %s", event, got, want)
		}
	}
}
