package services

import (
	"time"

	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/models"

	"gorm.io/gorm"
)

// Assignment orchestration. This is the only place allowed to mutate both
// aggregates for one logical operation. The write order is fixed: space
// aggregate first (guarded by the version CAS), tenant aggregate second. A
// failure after the space commit is reported as PartialFailure so the
// reconciler can repair it; it is never silently folded into success or
// failure. Callers do not need to serialize: the CAS retry inside
// mutateProperty re-validates from scratch when two assigns race for a bed,
// and the loser gets a clean Conflict instead of a lost update.

type AssignInput struct {
	TenantID         string
	NewTenant        *NewTenantInput
	RoomID           string
	BedID            string
	RentAmount       float64
	MoveInDate       time.Time
	NoticePeriodDays int
	AgreementMonths  int
	RentDueDay       int
}

// AssignTenant places a tenant in a bed, or directly in a bedless room, after
// top-down validation (ownership, existence, availability or capacity). A
// prior active stay of the same tenant in the same room is treated as a
// reassignment: the old bed is released in the same space write and the old
// accommodation is deactivated in the same tenant write.
func AssignTenant(db *gorm.DB, landlordID uint, propertyKey string, input AssignInput) (*models.Tenant, *models.Accommodation, error) {
	if input.RoomID == "" {
		return nil, nil, ErrValidation("roomID is required")
	}

	// Fail-fast pass against a fresh snapshot: no aggregate is touched (not
	// even a new tenant profile) until the target validates. The CAS loop
	// below re-validates anyway, this only keeps rejected requests write-free.
	if err := assignPrecheck(db, landlordID, propertyKey, input); err != nil {
		return nil, nil, err
	}

	tenant, err := findOrCreateTenant(db, input.TenantID, input.NewTenant)
	if err != nil {
		return nil, nil, err
	}
	stub := tenant.Stub()

	moveIn := input.MoveInDate
	if moveIn.IsZero() {
		moveIn = time.Now()
	}

	reassigned := false
	property, err := mutateProperty(db, propertyKey, landlordID, func(p *models.Property) error {
		room := p.FindRoom(input.RoomID)
		if room == nil {
			return ErrNotFound("room %s does not exist in property %s", input.RoomID, p.PropertyID)
		}

		// Release whatever this tenant already held in this room before
		// validating the new target, so a bed-to-bed move inside one room
		// does not collide with itself.
		reassigned = releaseStubs(room, stub.TenantID)

		if input.BedID != "" {
			bed := room.FindBed(input.BedID)
			if bed == nil {
				return ErrNotFound("bed %s does not exist in room %s", input.BedID, input.RoomID)
			}
			availability := BedAvailability(*bed)
			if !availability.Available {
				return ErrConflict("%s", availability.Reason)
			}
			bed.Tenants = []models.TenantStub{stub}
			bed.Status = models.BedStatusNotAvailable
			bed.ManualHold = false
		} else {
			if len(room.Beds) > 0 {
				return ErrValidation("room %s is let per bed, bedID is required", input.RoomID)
			}
			capacity := RoomCapacity(*room)
			if !capacity.HasCapacity {
				return ErrCapacityExceeded("%s", capacity.Reason)
			}
			room.Tenants = append(room.Tenants, stub)
		}

		room.ManualHold = false
		if !reassigned {
			p.TotalTenants++
		}
		RollUp(p, input.RoomID)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	accommodation := models.Accommodation{
		LandlordID:       landlordID,
		PropertyID:       property.PropertyID,
		RoomID:           input.RoomID,
		BedID:            input.BedID,
		IsActive:         true,
		MoveInDate:       moveIn,
		RentAmount:       input.RentAmount,
		NoticePeriodDays: input.NoticePeriodDays,
		AgreementMonths:  input.AgreementMonths,
		RentDueDay:       input.RentDueDay,
	}
	tenant, err = mutateTenant(db, tenant.TenantID, func(t *models.Tenant) error {
		if prior := t.ActiveAccommodation(property.PropertyID, input.RoomID); prior != nil {
			now := time.Now()
			prior.IsActive = false
			prior.MoveOutDate = &now
		}
		t.Accommodations = append(t.Accommodations, accommodation)
		return nil
	})
	if err != nil {
		// The space aggregate already reflects the assignment.
		return nil, nil, ErrPartialFailure(err, "bed assigned but tenant record for %s was not written", stub.TenantID)
	}

	InvalidateListingCache(property.PropertyID, property.LandlordID)
	PublishOccupancyEvent(OccupancyEvent{
		Action:     "tenant_assigned",
		TenantID:   tenant.TenantID,
		LandlordID: landlordID,
		PropertyID: property.PropertyID,
		RoomID:     input.RoomID,
		BedID:      input.BedID,
		RentAmount: input.RentAmount,
		MoveInDate: moveIn,
	})
	return tenant, &tenant.Accommodations[len(tenant.Accommodations)-1], nil
}

func assignPrecheck(db *gorm.DB, landlordID uint, propertyKey string, input AssignInput) error {
	property, err := resolveOwnedProperty(db, propertyKey, landlordID)
	if err != nil {
		return err
	}
	room := property.FindRoom(input.RoomID)
	if room == nil {
		return ErrNotFound("room %s does not exist in property %s", input.RoomID, property.PropertyID)
	}
	if input.TenantID != "" {
		// In-memory only: a reassignment must not collide with the seat the
		// tenant is about to vacate.
		releaseStubs(room, input.TenantID)
	}
	if input.BedID != "" {
		bed := room.FindBed(input.BedID)
		if bed == nil {
			return ErrNotFound("bed %s does not exist in room %s", input.BedID, input.RoomID)
		}
		if availability := BedAvailability(*bed); !availability.Available {
			return ErrConflict("%s", availability.Reason)
		}
		return nil
	}
	if len(room.Beds) > 0 {
		return ErrValidation("room %s is let per bed, bedID is required", input.RoomID)
	}
	if capacity := RoomCapacity(*room); !capacity.HasCapacity {
		return ErrCapacityExceeded("%s", capacity.Reason)
	}
	return nil
}

// releaseStubs removes every stub of the tenant from the room and its beds,
// resetting released beds to Available. Reports whether anything was held.
func releaseStubs(room *models.Room, tenantID string) bool {
	released := false
	for i := range room.Beds {
		bed := &room.Beds[i]
		kept := bed.Tenants[:0]
		removedHere := false
		for _, s := range bed.Tenants {
			if s.TenantID == tenantID {
				removedHere = true
				continue
			}
			kept = append(kept, s)
		}
		bed.Tenants = kept
		if removedHere {
			released = true
			if len(bed.Tenants) == 0 {
				bed.Status = models.BedStatusAvailable
				bed.ManualHold = false
			}
		}
	}
	kept := room.Tenants[:0]
	for _, s := range room.Tenants {
		if s.TenantID == tenantID {
			released = true
			continue
		}
		kept = append(kept, s)
	}
	room.Tenants = kept
	return released
}

type RemoveInput struct {
	TenantID    string
	RoomID      string
	BedID       string
	MoveOutDate time.Time
}

// RemoveTenant moves a tenant out: locates the single active accommodation for
// the tuple, releases the space side, deactivates the record with a move-out
// stamp, and re-rolls-up.
func RemoveTenant(db *gorm.DB, landlordID uint, propertyKey string, input RemoveInput) error {
	if input.TenantID == "" || input.RoomID == "" {
		return ErrValidation("tenantID and roomID are required")
	}

	property, err := resolveOwnedProperty(db, propertyKey, landlordID)
	if err != nil {
		return err
	}
	tenant, err := GetTenant(db, input.TenantID)
	if err != nil {
		return err
	}
	active := tenant.ActiveAccommodation(property.PropertyID, input.RoomID)
	if active == nil {
		return ErrNotFound("tenant %s has no active stay in room %s", input.TenantID, input.RoomID)
	}
	if input.BedID != "" && active.BedID != input.BedID {
		return ErrNotFound("tenant %s does not occupy bed %s", input.TenantID, input.BedID)
	}

	property, err = mutateProperty(db, propertyKey, landlordID, func(p *models.Property) error {
		room := p.FindRoom(input.RoomID)
		if room == nil {
			return ErrNotFound("room %s does not exist in property %s", input.RoomID, p.PropertyID)
		}
		releaseStubs(room, input.TenantID)
		room.ManualHold = false
		if p.TotalTenants > 0 {
			p.TotalTenants--
		}
		RollUp(p, input.RoomID)
		return nil
	})
	if err != nil {
		return err
	}

	moveOut := input.MoveOutDate
	if moveOut.IsZero() {
		moveOut = time.Now()
	}
	rentAmount := active.RentAmount
	_, err = mutateTenant(db, input.TenantID, func(t *models.Tenant) error {
		record := t.ActiveAccommodation(property.PropertyID, input.RoomID)
		if record == nil {
			// Raced with another writer that already closed it; nothing left
			// to deactivate.
			return nil
		}
		record.IsActive = false
		record.MoveOutDate = &moveOut
		return nil
	})
	if err != nil {
		return ErrPartialFailure(err, "space released but tenant record for %s was not closed", input.TenantID)
	}

	InvalidateListingCache(property.PropertyID, property.LandlordID)
	PublishOccupancyEvent(OccupancyEvent{
		Action:      "tenant_removed",
		TenantID:    input.TenantID,
		LandlordID:  landlordID,
		PropertyID:  property.PropertyID,
		RoomID:      input.RoomID,
		BedID:       active.BedID,
		RentAmount:  rentAmount,
		MoveInDate:  active.MoveInDate,
		MoveOutDate: &moveOut,
	})
	return nil
}
