package crm

import (
	"strconv"
	"strings"
	"time"

	"groupstay_crm/internal/domain"
)

/********** request payloads **********/

// payload only ever holds fields that carry a value; absent fields are left
// out rather than sent as null.
type payload map[string]any

func (p payload) str(k, v string) {
	if strings.TrimSpace(v) != "" {
		p[k] = v
	}
}

func (p payload) strPtr(k string, v *string) {
	if v != nil {
		p.str(k, *v)
	}
}

func (p payload) num(k string, v int) {
	if v != 0 {
		p[k] = v
	}
}

func (p payload) money(k string, v float64) {
	if v != 0 {
		p[k] = v
	}
}

func (p payload) date(k string, t time.Time) {
	if !t.IsZero() {
		p[k] = t.Format(dateLayout)
	}
}

func (p payload) fields(cf domain.CustomFields) {
	if m := cf.Map(); len(m) > 0 {
		p["custom_fields"] = m
	}
}

const dateLayout = "2006-01-02"

func contactPayload(c domain.Contact) payload {
	p := payload{}
	p.str("external_id", c.ID)
	p.str("first_name", c.FirstName)
	p.str("last_name", c.LastName)
	p.str("email", c.Email)
	p.str("phone", c.Phone)
	p.str("company", c.Company)
	p.str("role", string(c.Role))
	p.str("membership_status", c.MembershipStatus)
	p.str("source", c.Source)
	p.fields(c.CustomFields)
	return p
}

func propertyPayload(pr domain.Property) payload {
	p := payload{}
	p.str("external_id", pr.ID)
	p.str("owner_id", pr.OwnerID)
	p.str("name", pr.Name)
	p.str("address_line_1", pr.AddressLine1)
	p.str("address_line_2", pr.AddressLine2)
	p.str("city", pr.City)
	p.str("county", pr.County)
	p.str("postcode", pr.Postcode)
	p.str("country", pr.Country)
	p.num("bedrooms", pr.Bedrooms)
	p.num("bathrooms", pr.Bathrooms)
	p.num("max_guests", pr.MaxGuests)
	p.money("price_per_night", pr.PricePerNight)
	p.str("status", string(pr.Status))
	p.fields(pr.CustomFields)
	return p
}

func enquiryPayload(e domain.Enquiry) payload {
	p := payload{}
	p.str("external_id", e.ID)
	p.str("contact_id", e.ContactID)
	p.strPtr("property_id", e.PropertyID)
	p.str("subject", e.Subject)
	p.str("message", e.Message)
	p.str("status", string(e.Status))
	p.str("source", e.Source)
	p.fields(e.CustomFields)
	return p
}

func bookingPayload(b domain.Booking) payload {
	p := payload{}
	p.str("external_id", b.ID)
	p.str("contact_id", b.ContactID)
	p.str("property_id", b.PropertyID)
	p.date("check_in", b.CheckIn)
	p.date("check_out", b.CheckOut)
	p.num("guests", b.Guests)
	p.money("total_price", b.TotalPrice)
	p.str("status", string(b.Status))
	p.fields(b.CustomFields)
	return p
}

// ContactPayload and its siblings return the body TreadSoft receives for an
// entity. The sync log stores the same map as request_data.
func ContactPayload(c domain.Contact) map[string]any { return contactPayload(c) }

func PropertyPayload(p domain.Property) map[string]any { return propertyPayload(p) }

func EnquiryPayload(e domain.Enquiry) map[string]any { return enquiryPayload(e) }

func BookingPayload(b domain.Booking) map[string]any { return bookingPayload(b) }

/********** response helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstString returns the first non-empty value among paths; numeric ids are
// rendered without a fractional part.
func firstString(m map[string]any, paths ...string) string {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func getIntFlexible(m map[string]any, paths ...string) int {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			return int(v)
		case int:
			return v
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n
			}
		}
	}
	return 0
}

// parseTime accepts RFC 3339 timestamps and bare dates; anything else is zero.
func parseTime(m map[string]any, key string) time.Time {
	s := firstString(m, key)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t
	}
	return time.Time{}
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func customFields(m map[string]any) domain.CustomFields {
	raw, _ := lookupAny(m, "custom_fields").(map[string]any)
	return domain.CustomFieldsFromMap(raw)
}

/********** response -> domain **********/

func mapContact(m map[string]any) domain.Contact {
	return domain.Contact{
		ID:               firstString(m, "external_id"),
		CRMID:            ptrStr(firstString(m, "id", "contact_id")),
		FirstName:        firstString(m, "first_name"),
		LastName:         firstString(m, "last_name"),
		Email:            firstString(m, "email"),
		Phone:            firstString(m, "phone"),
		Company:          firstString(m, "company"),
		Role:             domain.ContactRole(firstString(m, "role")),
		MembershipStatus: firstString(m, "membership_status"),
		Source:           firstString(m, "source"),
		CustomFields:     customFields(m),
		CreatedAt:        parseTime(m, "created_at"),
		UpdatedAt:        parseTime(m, "updated_at"),
	}
}

func mapProperty(m map[string]any) domain.Property {
	return domain.Property{
		ID:            firstString(m, "external_id"),
		CRMID:         ptrStr(firstString(m, "id", "property_id")),
		OwnerID:       firstString(m, "owner_id"),
		Name:          firstString(m, "name"),
		AddressLine1:  firstString(m, "address_line_1"),
		AddressLine2:  firstString(m, "address_line_2"),
		City:          firstString(m, "city"),
		County:        firstString(m, "county"),
		Postcode:      firstString(m, "postcode"),
		Country:       firstString(m, "country"),
		Bedrooms:      getIntFlexible(m, "bedrooms"),
		Bathrooms:     getIntFlexible(m, "bathrooms"),
		MaxGuests:     getIntFlexible(m, "max_guests"),
		PricePerNight: getFloatFlexible(m, "price_per_night"),
		Status:        domain.PropertyStatus(firstString(m, "status")),
		CustomFields:  customFields(m),
		CreatedAt:     parseTime(m, "created_at"),
		UpdatedAt:     parseTime(m, "updated_at"),
	}
}
