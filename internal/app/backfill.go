package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"groupstay_crm/internal/domain"
)

// BackfillContact and BackfillProperty are the export format of the website
// database: camelCase JSON, CRM id present once a record has been synced.
type BackfillContact struct {
	ID               string         `json:"id"`
	CRMID            *string        `json:"crmId"`
	FirstName        string         `json:"firstName"`
	LastName         string         `json:"lastName"`
	Email            string         `json:"email"`
	Phone            string         `json:"phone"`
	Company          string         `json:"company"`
	Role             string         `json:"role"`
	MembershipStatus string         `json:"membershipStatus"`
	Source           string         `json:"source"`
	CustomFields     map[string]any `json:"customFields"`
}

type BackfillProperty struct {
	ID            string         `json:"id"`
	CRMID         *string        `json:"crmId"`
	OwnerID       string         `json:"ownerId"`
	Name          string         `json:"name"`
	AddressLine1  string         `json:"addressLine1"`
	AddressLine2  string         `json:"addressLine2"`
	City          string         `json:"city"`
	County        string         `json:"county"`
	Postcode      string         `json:"postcode"`
	Country       string         `json:"country"`
	Bedrooms      int            `json:"bedrooms"`
	Bathrooms     int            `json:"bathrooms"`
	MaxGuests     int            `json:"maxGuests"`
	PricePerNight float64        `json:"pricePerNight"`
	Status        string         `json:"status"`
	CustomFields  map[string]any `json:"customFields"`
}

type BackfillBatch struct {
	Contacts   []BackfillContact  `json:"contacts"`
	Properties []BackfillProperty `json:"properties"`
}

func ReadBackfill(r io.Reader) (BackfillBatch, error) {
	var b BackfillBatch
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return BackfillBatch{}, fmt.Errorf("decode backfill: %w", err)
	}
	return b, nil
}

func (c BackfillContact) toDomain() domain.Contact {
	return domain.Contact{
		ID:               c.ID,
		CRMID:            c.CRMID,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		Email:            c.Email,
		Phone:            c.Phone,
		Company:          c.Company,
		Role:             domain.ContactRole(c.Role),
		MembershipStatus: c.MembershipStatus,
		Source:           c.Source,
		CustomFields:     domain.CustomFieldsFromMap(c.CustomFields),
	}
}

func (p BackfillProperty) toDomain() domain.Property {
	return domain.Property{
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
		Status:        domain.PropertyStatus(p.Status),
		CustomFields:  domain.CustomFieldsFromMap(p.CustomFields),
	}
}

// BackfillReport counts outcomes; Created maps internal ids to the CRM ids
// handed out on create so the caller can store them.
type BackfillReport struct {
	Succeeded int64
	Failed    int64
	Created   map[string]string
}

// Backfill pushes every record through the sync service with at most workers
// calls in flight. Contacts go first so properties can reference owners.
func Backfill(ctx context.Context, s *SyncService, b BackfillBatch, workers int) (BackfillReport, error) {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok, bad atomic.Int64
		created = map[string]string{}
	)

	run := func(kind, id string, hadID bool, fn func() domain.SyncResult) error {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			res := fn()
			if !res.Success {
				bad.Add(1)
				log.Warn().Str("entity", kind).Str("id", id).Str("error", res.Error).Msg("backfill failed")
				return
			}
			ok.Add(1)
			if !hadID && res.CRMID != "" {
				mu.Lock()
				created[kind+":"+id] = res.CRMID
				mu.Unlock()
			}
			log.Info().Str("entity", kind).Str("id", id).Str("crm_id", res.CRMID).Msg("backfill ok")
		}()
		return nil
	}

	var err error
	for _, c := range b.Contacts {
		c := c.toDomain()
		if err = run("contact", c.ID, !isNew(c.CRMID), func() domain.SyncResult { return s.SyncContact(ctx, c) }); err != nil {
			break
		}
	}
	wg.Wait()

	if err == nil {
		for _, p := range b.Properties {
			p := p.toDomain()
			if err = run("property", p.ID, !isNew(p.CRMID), func() domain.SyncResult { return s.SyncProperty(ctx, p) }); err != nil {
				break
			}
		}
		wg.Wait()
	}

	return BackfillReport{Succeeded: ok.Load(), Failed: bad.Load(), Created: created}, err
}
