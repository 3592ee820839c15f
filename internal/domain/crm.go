package domain

import "time"

type Provider string

const (
	ProviderTreadSoft Provider = "treadsoft"
	ProviderCustom    Provider = "custom"
)

// CRMConfig is built once at start-up and never mutated afterwards.
type CRMConfig struct {
	Provider      Provider
	APIURL        string
	APIKey        string
	APISecret     string // optional
	WebhookSecret string // optional
	Enabled       bool
	RPS           int // outbound requests per second (client-side throttle)
}

type ContactRole string

const (
	RoleOwner ContactRole = "owner"
	RoleGuest ContactRole = "guest"
	RoleAdmin ContactRole = "admin"
)

type Contact struct {
	ID               string
	CRMID            *string // set only after a successful create
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	Company          string
	Role             ContactRole
	MembershipStatus string
	Source           string
	CustomFields     CustomFields
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type PropertyStatus string

const (
	PropertyDraft     PropertyStatus = "draft"
	PropertyPending   PropertyStatus = "pending"
	PropertyPublished PropertyStatus = "published"
	PropertyArchived  PropertyStatus = "archived"
)

type Property struct {
	ID            string
	CRMID         *string
	OwnerID       string
	Name          string
	AddressLine1  string
	AddressLine2  string
	City          string
	County        string
	Postcode      string
	Country       string
	Bedrooms      int
	Bathrooms     int
	MaxGuests     int
	PricePerNight float64
	Status        PropertyStatus
	CustomFields  CustomFields
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EnquiryStatus is an ordered pipeline; transitions are not enforced here.
type EnquiryStatus string

const (
	EnquiryNew       EnquiryStatus = "new"
	EnquiryContacted EnquiryStatus = "contacted"
	EnquiryQualified EnquiryStatus = "qualified"
	EnquiryConverted EnquiryStatus = "converted"
	EnquiryLost      EnquiryStatus = "lost"
)

type Enquiry struct {
	ID           string
	CRMID        *string
	ContactID    string // CRM id of the contact when linking remotely
	PropertyID   *string
	Subject      string
	Message      string
	Status       EnquiryStatus
	Source       string
	CustomFields CustomFields
	CreatedAt    time.Time
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type Booking struct {
	ID           string
	CRMID        *string
	ContactID    string
	PropertyID   string
	CheckIn      time.Time
	CheckOut     time.Time
	Guests       int
	TotalPrice   float64
	Status       BookingStatus
	CustomFields CustomFields
	CreatedAt    time.Time
}

// SyncResult is the envelope every CRM mutation returns. It is never persisted.
type SyncResult struct {
	Success   bool      `json:"success"`
	CRMID     string    `json:"crmId,omitempty"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Disabled reports a soft no-op caused by the integration being switched off.
func (r SyncResult) Disabled() bool {
	return !r.Success && r.Error == ErrCRMDisabled.Error()
}

type EntityType string

const (
	EntityContact  EntityType = "contact"
	EntityProperty EntityType = "property"
	EntityEnquiry  EntityType = "enquiry"
	EntityBooking  EntityType = "booking"
)

func (e EntityType) Valid() bool {
	switch e {
	case EntityContact, EntityProperty, EntityEnquiry, EntityBooking:
		return true
	}
	return false
}

type SyncAction string

const (
	ActionCreate SyncAction = "create"
	ActionUpdate SyncAction = "update"
	ActionDelete SyncAction = "delete"
)

type SyncStatus string

const (
	SyncSuccess SyncStatus = "success"
	SyncFailed  SyncStatus = "failed"
	SyncPending SyncStatus = "pending"
)

// SyncLog is one row of the append-only audit trail.
type SyncLog struct {
	ID           string     `json:"id"`
	EntityType   EntityType `json:"entityType"`
	EntityID     string     `json:"entityId"`
	CRMID        *string    `json:"crmId,omitempty"`
	Action       SyncAction `json:"action"`
	Status       SyncStatus `json:"status"`
	RequestData  *string    `json:"requestData,omitempty"`  // JSON text
	ResponseData *string    `json:"responseData,omitempty"` // JSON text
	ErrorMessage *string    `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}
