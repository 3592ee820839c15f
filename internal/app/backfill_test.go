package app_test

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupstay_crm/internal/app"
	"groupstay_crm/internal/domain"
)

const batchJSON = `{
  "contacts": [
    {"id": "u-1", "email": "owner@example.co.uk", "role": "owner", "customFields": {"tier": "gold", "nested": {"x": 1}}},
    {"id": "u-2", "crmId": "ts-c-2", "email": "guest@example.co.uk"}
  ],
  "properties": [
    {"id": "p-1", "name": "Old Rectory", "bedrooms": 9, "pricePerNight": 720}
  ]
}`

func TestReadBackfill(t *testing.T) {
	b, err := app.ReadBackfill(strings.NewReader(batchJSON))
	require.NoError(t, err)
	require.Len(t, b.Contacts, 2)
	require.Len(t, b.Properties, 1)
	assert.Equal(t, "ts-c-2", *b.Contacts[1].CRMID)
	assert.Equal(t, 9, b.Properties[0].Bedrooms)

	_, err = app.ReadBackfill(strings.NewReader(`[`))
	assert.Error(t, err)
}

func TestBackfill_SyncsEverything(t *testing.T) {
	repo := &fakeRepo{}
	crm := newFakeCRM()
	crm.ids["create_contact"] = "ts-c-new"
	crm.ids["create_property"] = "ts-p-new"
	svc := app.NewSyncService(crm, newLogger(repo))

	b, err := app.ReadBackfill(strings.NewReader(batchJSON))
	require.NoError(t, err)

	rep, err := app.Backfill(context.Background(), svc, b, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, rep.Succeeded)
	assert.EqualValues(t, 0, rep.Failed)
	assert.Equal(t, map[string]string{"contact:u-1": "ts-c-new", "property:p-1": "ts-p-new"}, rep.Created)

	calls := crm.called()
	assert.ElementsMatch(t, []string{"create_contact", "update_contact", "create_property"}, calls)
	assert.Equal(t, "create_property", calls[2], "properties run after contacts")
	assert.Len(t, repo.all(), 3)
}

func TestBackfill_CountsFailures(t *testing.T) {
	crm := newFakeCRM()
	crm.result = domain.SyncResult{Success: false, Error: "bad status 500: x"}
	svc := app.NewSyncService(crm, newLogger(&fakeRepo{}))

	b, _ := app.ReadBackfill(strings.NewReader(batchJSON))
	rep, err := app.Backfill(context.Background(), svc, b, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rep.Succeeded)
	assert.EqualValues(t, 3, rep.Failed)
	assert.Empty(t, rep.Created)
}

// slowCRM tracks how many calls overlap.
type slowCRM struct {
	*fakeCRM
	inflight, peak atomic.Int32
}

func (s *slowCRM) CreateContact(ctx context.Context, c domain.Contact) domain.SyncResult {
	n := s.inflight.Add(1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	s.inflight.Add(-1)
	return s.fakeCRM.CreateContact(ctx, c)
}

func TestBackfill_BoundsConcurrency(t *testing.T) {
	crm := &slowCRM{fakeCRM: newFakeCRM()}
	svc := app.NewSyncService(crm, newLogger(&fakeRepo{}))

	var b app.BackfillBatch
	for i := 0; i < 12; i++ {
		b.Contacts = append(b.Contacts, app.BackfillContact{ID: "u", Email: "x@example.co.uk"})
	}
	rep, err := app.Backfill(context.Background(), svc, b, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 12, rep.Succeeded)
	assert.LessOrEqual(t, crm.peak.Load(), int32(3))
}

func TestBackfill_CancelledContext(t *testing.T) {
	svc := app.NewSyncService(newFakeCRM(), newLogger(&fakeRepo{}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b, _ := app.ReadBackfill(strings.NewReader(batchJSON))
	_, err := app.Backfill(ctx, svc, b, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
