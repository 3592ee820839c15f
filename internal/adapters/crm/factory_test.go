package crm_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"groupstay_crm/internal/adapters/crm"
	"groupstay_crm/internal/domain"
)

func TestInitialize_Selection(t *testing.T) {
	ok := domain.CRMConfig{Provider: domain.ProviderTreadSoft, APIURL: "http://crm.invalid", APIKey: "k", Enabled: true}

	cases := []struct {
		name   string
		mutate func(*domain.CRMConfig)
		mock   bool
	}{
		{"treadsoft", func(c *domain.CRMConfig) {}, false},
		{"custom", func(c *domain.CRMConfig) { c.Provider = domain.ProviderCustom }, false},
		{"case insensitive", func(c *domain.CRMConfig) { c.Provider = "TreadSoft" }, false},
		{"disabled", func(c *domain.CRMConfig) { c.Enabled = false }, true},
		{"unknown provider", func(c *domain.CRMConfig) { c.Provider = "salesforce" }, true},
		{"missing url", func(c *domain.CRMConfig) { c.APIURL = "" }, true},
		{"missing key", func(c *domain.CRMConfig) { c.APIKey = "" }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := ok
			tc.mutate(&cfg)
			svc := crm.Initialize(cfg)
			_, isMock := svc.(*crm.Mock)
			if isMock != tc.mock {
				t.Fatalf("got %T", svc)
			}
		})
	}
}

func TestFactory_MemoizesInstance(t *testing.T) {
	loads := 0
	f := crm.NewFactory(func() domain.CRMConfig {
		loads++
		return domain.CRMConfig{Provider: domain.ProviderTreadSoft, Enabled: false}
	}, zerolog.Nop())

	a := f.Instance()
	b := f.Instance()
	if a != b {
		t.Fatal("expected the same instance")
	}
	if loads != 1 {
		t.Fatalf("config loaded %d times", loads)
	}
}

func TestFactory_DisabledUsesMock(t *testing.T) {
	f := crm.NewFactory(func() domain.CRMConfig {
		return domain.CRMConfig{Provider: domain.ProviderTreadSoft, Enabled: false}
	}, zerolog.Nop())

	res := f.Instance().CreateContact(context.Background(), domain.Contact{Email: "a@b.co.uk"})
	if !res.Success {
		t.Fatalf("mock should succeed: %+v", res)
	}
	if !strings.HasPrefix(res.CRMID, "mock-contact-") {
		t.Fatalf("unexpected id %q", res.CRMID)
	}
}

func TestMock_Behaviour(t *testing.T) {
	m := crm.NewMock(zerolog.Nop())
	ctx := context.Background()

	if !m.ValidateConnection(ctx) {
		t.Fatal("mock always validates")
	}
	if m.GetContact(ctx, "x") != nil || m.GetProperty(ctx, "x") != nil {
		t.Fatal("mock has nothing to read")
	}
	for prefix, res := range map[string]domain.SyncResult{
		"mock-property-": m.CreateProperty(ctx, domain.Property{}),
		"mock-enquiry-":  m.CreateEnquiry(ctx, domain.Enquiry{}),
		"mock-booking-":  m.CreateBooking(ctx, domain.Booking{}),
	} {
		if !res.Success || !strings.HasPrefix(res.CRMID, prefix) {
			t.Fatalf("%s: %+v", prefix, res)
		}
	}
	if res := m.DeleteBooking(ctx, "ts-b-1"); !res.Success || res.CRMID != "ts-b-1" {
		t.Fatalf("delete: %+v", res)
	}
}
