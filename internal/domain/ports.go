package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrCRMDisabled = errors.New("crm: integration disabled")
)

// CRMService is the only surface callers use; the provider behind it is
// chosen by the factory.
type CRMService interface {
	ValidateConnection(ctx context.Context) bool

	CreateContact(ctx context.Context, c Contact) SyncResult
	UpdateContact(ctx context.Context, c Contact) SyncResult
	GetContact(ctx context.Context, crmID string) *Contact
	DeleteContact(ctx context.Context, crmID string) SyncResult

	CreateProperty(ctx context.Context, p Property) SyncResult
	UpdateProperty(ctx context.Context, p Property) SyncResult
	GetProperty(ctx context.Context, crmID string) *Property
	DeleteProperty(ctx context.Context, crmID string) SyncResult

	CreateEnquiry(ctx context.Context, e Enquiry) SyncResult
	UpdateEnquiry(ctx context.Context, e Enquiry) SyncResult

	CreateBooking(ctx context.Context, b Booking) SyncResult
	UpdateBooking(ctx context.Context, b Booking) SyncResult
	DeleteBooking(ctx context.Context, crmID string) SyncResult
}

type SyncLogRepository interface {
	// Write path (append-only)
	Insert(ctx context.Context, l SyncLog) error

	// Read paths, newest first
	Recent(ctx context.Context, limit int) ([]SyncLog, error)
	ByEntity(ctx context.Context, t EntityType, entityID string) ([]SyncLog, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
