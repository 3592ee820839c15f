package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"groupstay_crm/internal/app"
	"groupstay_crm/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu      sync.Mutex
	rows    []domain.SyncLog
	failIns bool
	failGet bool
	// honourCtx makes Insert fail on a done context, like a real driver
	honourCtx bool
}

func (f *fakeRepo) Insert(ctx context.Context, l domain.SyncLog) error {
	if f.failIns {
		return errors.New("db down")
	}
	if f.honourCtx && ctx.Err() != nil {
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, l)
	return nil
}

func (f *fakeRepo) Recent(ctx context.Context, limit int) ([]domain.SyncLog, error) {
	if f.failGet {
		return nil, errors.New("db down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.SyncLog
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.rows[i])
	}
	return out, nil
}

func (f *fakeRepo) ByEntity(ctx context.Context, t domain.EntityType, id string) ([]domain.SyncLog, error) {
	if f.failGet {
		return nil, errors.New("db down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.SyncLog
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].EntityType == t && f.rows[i].EntityID == id {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeRepo) all() []domain.SyncLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.SyncLog(nil), f.rows...)
}

// fakeCRM answers every mutation with result (or a create-specific id) and
// counts calls.
type fakeCRM struct {
	mu     sync.Mutex
	calls  []string
	result domain.SyncResult
	ids    map[string]string // op -> crm id returned on success
	ok     bool

	lastEnquiry domain.Enquiry
	lastBooking domain.Booking
}

func newFakeCRM() *fakeCRM {
	return &fakeCRM{result: domain.SyncResult{Success: true}, ids: map[string]string{}, ok: true}
}

func (f *fakeCRM) res(op string) domain.SyncResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	r := f.result
	if id, ok := f.ids[op]; ok && r.Success {
		r.CRMID = id
	}
	return r
}

func (f *fakeCRM) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeCRM) ValidateConnection(ctx context.Context) bool {
	f.res("validate")
	return f.ok
}
func (f *fakeCRM) CreateContact(ctx context.Context, c domain.Contact) domain.SyncResult {
	return f.res("create_contact")
}
func (f *fakeCRM) UpdateContact(ctx context.Context, c domain.Contact) domain.SyncResult {
	return f.res("update_contact")
}
func (f *fakeCRM) GetContact(ctx context.Context, crmID string) *domain.Contact {
	f.res("get_contact")
	if crmID == "missing" {
		return nil
	}
	return &domain.Contact{CRMID: &crmID, Email: "guest@example.co.uk"}
}
func (f *fakeCRM) DeleteContact(ctx context.Context, crmID string) domain.SyncResult {
	return f.res("delete_contact")
}
func (f *fakeCRM) CreateProperty(ctx context.Context, p domain.Property) domain.SyncResult {
	return f.res("create_property")
}
func (f *fakeCRM) UpdateProperty(ctx context.Context, p domain.Property) domain.SyncResult {
	return f.res("update_property")
}
func (f *fakeCRM) GetProperty(ctx context.Context, crmID string) *domain.Property {
	f.res("get_property")
	return nil
}
func (f *fakeCRM) DeleteProperty(ctx context.Context, crmID string) domain.SyncResult {
	return f.res("delete_property")
}
func (f *fakeCRM) CreateEnquiry(ctx context.Context, e domain.Enquiry) domain.SyncResult {
	f.mu.Lock()
	f.lastEnquiry = e
	f.mu.Unlock()
	return f.res("create_enquiry")
}
func (f *fakeCRM) UpdateEnquiry(ctx context.Context, e domain.Enquiry) domain.SyncResult {
	f.mu.Lock()
	f.lastEnquiry = e
	f.mu.Unlock()
	return f.res("update_enquiry")
}
func (f *fakeCRM) CreateBooking(ctx context.Context, b domain.Booking) domain.SyncResult {
	return f.res("create_booking")
}
func (f *fakeCRM) UpdateBooking(ctx context.Context, b domain.Booking) domain.SyncResult {
	f.mu.Lock()
	f.lastBooking = b
	f.mu.Unlock()
	return f.res("update_booking")
}
func (f *fakeCRM) DeleteBooking(ctx context.Context, crmID string) domain.SyncResult {
	return f.res("delete_booking")
}

// fakeCache stores JSON so reads decode the way the redis adapter does.
type fakeCache struct {
	store map[string][]byte
	err   error
	sets  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.err != nil {
		return c.err
	}
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	c.sets++
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

func newLogger(r *fakeRepo) *app.SyncLogger {
	return app.NewSyncLogger(r, zerolog.Nop())
}

func ptr[T any](v T) *T { return &v }
