package httpserver

import (
	"time"

	"groupstay_crm/internal/domain"
)

type contactView struct {
	ID               string         `json:"id,omitempty"`
	CRMID            *string        `json:"crmId,omitempty"`
	FirstName        string         `json:"firstName,omitempty"`
	LastName         string         `json:"lastName,omitempty"`
	Email            string         `json:"email,omitempty"`
	Phone            string         `json:"phone,omitempty"`
	Company          string         `json:"company,omitempty"`
	Role             string         `json:"role,omitempty"`
	MembershipStatus string         `json:"membershipStatus,omitempty"`
	Source           string         `json:"source,omitempty"`
	CustomFields     map[string]any `json:"customFields,omitempty"`
	CreatedAt        *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time     `json:"updatedAt,omitempty"`
}

type propertyView struct {
	ID            string         `json:"id,omitempty"`
	CRMID         *string        `json:"crmId,omitempty"`
	OwnerID       string         `json:"ownerId,omitempty"`
	Name          string         `json:"name,omitempty"`
	AddressLine1  string         `json:"addressLine1,omitempty"`
	AddressLine2  string         `json:"addressLine2,omitempty"`
	City          string         `json:"city,omitempty"`
	County        string         `json:"county,omitempty"`
	Postcode      string         `json:"postcode,omitempty"`
	Country       string         `json:"country,omitempty"`
	Bedrooms      int            `json:"bedrooms"`
	Bathrooms     int            `json:"bathrooms"`
	MaxGuests     int            `json:"maxGuests"`
	PricePerNight float64        `json:"pricePerNight"`
	Status        string         `json:"status,omitempty"`
	CustomFields  map[string]any `json:"customFields,omitempty"`
	CreatedAt     *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time     `json:"updatedAt,omitempty"`
}

func toContactView(c domain.Contact) contactView {
	return contactView{
		ID:               c.ID,
		CRMID:            c.CRMID,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		Email:            c.Email,
		Phone:            c.Phone,
		Company:          c.Company,
		Role:             string(c.Role),
		MembershipStatus: c.MembershipStatus,
		Source:           c.Source,
		CustomFields:     c.CustomFields.Map(),
		CreatedAt:        timePtr(c.CreatedAt),
		UpdatedAt:        timePtr(c.UpdatedAt),
	}
}

func toPropertyView(p domain.Property) propertyView {
	return propertyView{
		ID:            p.ID,
		CRMID:         p.CRMID,
		OwnerID:       p.OwnerID,
		Name:          p.Name,
		AddressLine1:  p.AddressLine1,
		AddressLine2:  p.AddressLine2,
		City:          p.City,
		County:        p.County,
		Postcode:      p.Postcode,
		Country:       p.Country,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		MaxGuests:     p.MaxGuests,
		PricePerNight: p.PricePerNight,
		Status:        string(p.Status),
		CustomFields:  p.CustomFields.Map(),
		CreatedAt:     timePtr(p.CreatedAt),
		UpdatedAt:     timePtr(p.UpdatedAt),
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
