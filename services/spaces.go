package services

import (
	"log"
	"strconv"
	"strings"

	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// casAttempts bounds the optimistic-lock retry loop for a single logical
// operation. The loser of a race re-runs its validation from scratch against
// the fresh document instead of overwriting.
const casAttempts = 3

// ResolveProperty normalizes the caller-supplied key (numeric storage id or
// composite human-readable propertyId) into one property lookup.
func ResolveProperty(db *gorm.DB, key string) (*models.Property, error) {
	var property models.Property
	var result *gorm.DB
	if n, err := strconv.ParseUint(key, 10, 32); err == nil {
		result = db.Where("id = ?", uint(n)).Find(&property)
	} else {
		result = db.Where("property_id = ?", key).Find(&property)
	}
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound("property %s does not exist", key)
	}
	return &property, nil
}

func resolveOwnedProperty(db *gorm.DB, key string, landlordID uint) (*models.Property, error) {
	property, err := ResolveProperty(db, key)
	if err != nil {
		return nil, err
	}
	if property.LandlordID != landlordID {
		return nil, ErrForbidden("property %s is not owned by landlord %d", property.PropertyID, landlordID)
	}
	return property, nil
}

// savePropertyCAS writes the mutated document guarded by the version column.
// RowsAffected == 0 means another writer won; the caller retries.
func savePropertyCAS(db *gorm.DB, p *models.Property) error {
	result := db.Model(&models.Property{}).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Updates(map[string]interface{}{
			"rooms":             p.Rooms,
			"status":            p.Status,
			"manual_hold":       p.ManualHold,
			"total_tenants":     p.TotalTenants,
			"next_room_ordinal": p.NextRoomOrdinal,
			"version":           p.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConcurrency("property %s was modified concurrently", p.PropertyID)
	}
	p.Version++
	return nil
}

// mutateProperty runs the load-validate-mutate-save cycle with bounded retry
// on version conflicts. The mutate callback sees a freshly loaded document on
// every attempt.
func mutateProperty(db *gorm.DB, key string, landlordID uint, mutate func(*models.Property) error) (*models.Property, error) {
	var lastErr error
	for attempt := 0; attempt < casAttempts; attempt++ {
		property, err := resolveOwnedProperty(db, key, landlordID)
		if err != nil {
			return nil, err
		}
		if err := mutate(property); err != nil {
			return nil, err
		}
		if err := savePropertyCAS(db, property); err != nil {
			if KindOf(err) == KindConcurrency {
				lastErr = err
				continue
			}
			return nil, err
		}
		return property, nil
	}
	return nil, lastErr
}

type RoomSpec struct {
	Type       string
	Rent       float64
	Notes      string
	BedCount   int
	BedPrice   float64
	Facilities map[string]interface{}
}

type CreatePropertyInput struct {
	Name         string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	Zip          string
	Rooms        []RoomSpec
}

// CreateProperty allocates the property id and builds the initial room/bed
// tree with composite ids in list order.
func CreateProperty(db *gorm.DB, landlordID uint, input CreatePropertyInput) (*models.Property, error) {
	propertyID, err := NextPropertyID(db)
	if err != nil {
		return nil, err
	}

	property := models.Property{
		PropertyID:   propertyID,
		LandlordID:   landlordID,
		Name:         input.Name,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		State:        input.State,
		Zip:          input.Zip,
		Status:       models.StatusAvailable,
		Rooms:        models.RoomList{},
	}
	for i, spec := range input.Rooms {
		room := buildRoom(propertyID, i+1, spec)
		property.Rooms = append(property.Rooms, room)
		RecomputeRoomStatus(&property.Rooms[len(property.Rooms)-1])
	}
	property.NextRoomOrdinal = len(input.Rooms) + 1
	RecomputePropertyStatus(&property)

	if err := db.Create(&property).Error; err != nil {
		return nil, err
	}
	InvalidateListingCache(property.PropertyID, property.LandlordID)
	return &property, nil
}

func buildRoom(propertyID string, ordinal int, spec RoomSpec) models.Room {
	roomID := RoomID(propertyID, ordinal)
	if !KnownRoomType(spec.Type) {
		log.Printf("Warning: room %s type %q has no capacity entry, defaulting to %d occupant", roomID, spec.Type, defaultRoomCapacity)
	}
	room := models.Room{
		RoomID:     roomID,
		Type:       spec.Type,
		Status:     models.StatusAvailable,
		Rent:       spec.Rent,
		Notes:      spec.Notes,
		Beds:       []models.Bed{},
		Tenants:    []models.TenantStub{},
		Facilities: datatypes.JSONMap(spec.Facilities),
	}
	for j := 0; j < spec.BedCount; j++ {
		room.Beds = append(room.Beds, models.Bed{
			BedID:   BedID(roomID, j+1),
			Status:  models.BedStatusAvailable,
			Price:   spec.BedPrice,
			Tenants: []models.TenantStub{},
		})
	}
	room.NextBedOrdinal = spec.BedCount + 1
	return room
}

// takeRoomOrdinal hands out the next room ordinal and advances the persisted
// counter, so an ordinal freed by a delete is never reissued. Documents
// written before the counter existed seed it from the surviving ids once.
func takeRoomOrdinal(p *models.Property) int {
	if p.NextRoomOrdinal < 1 {
		max := 0
		for i := range p.Rooms {
			if n := trailingOrdinal(p.Rooms[i].RoomID, "-R"); n > max {
				max = n
			}
		}
		p.NextRoomOrdinal = max + 1
	}
	n := p.NextRoomOrdinal
	p.NextRoomOrdinal++
	return n
}

func takeBedOrdinal(room *models.Room) int {
	if room.NextBedOrdinal < 1 {
		max := 0
		for i := range room.Beds {
			if n := trailingOrdinal(room.Beds[i].BedID, "-B"); n > max {
				max = n
			}
		}
		room.NextBedOrdinal = max + 1
	}
	n := room.NextBedOrdinal
	room.NextBedOrdinal++
	return n
}

func trailingOrdinal(id, sep string) int {
	idx := strings.LastIndex(id, sep)
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(id[idx+len(sep):])
	if err != nil {
		return 0
	}
	return n
}

func AddRoom(db *gorm.DB, landlordID uint, propertyKey string, spec RoomSpec) (*models.Property, error) {
	property, err := mutateProperty(db, propertyKey, landlordID, func(p *models.Property) error {
		room := buildRoom(p.PropertyID, takeRoomOrdinal(p), spec)
		p.Rooms = append(p.Rooms, room)
		RollUp(p, room.RoomID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	InvalidateListingCache(property.PropertyID, property.LandlordID)
	return property, nil
}

func AddBed(db *gorm.DB, landlordID uint, propertyKey, roomID string, price float64) (*models.Property, error) {
	property, err := mutateProperty(db, propertyKey, landlordID, func(p *models.Property) error {
		room := p.FindRoom(roomID)
		if room == nil {
			return ErrNotFound("room %s does not exist in property %s", roomID, p.PropertyID)
		}
		if len(room.Tenants) > 0 {
			return ErrConflict("room %s is let as a whole unit and holds tenants", roomID)
		}
		room.Beds = append(room.Beds, models.Bed{
			BedID:   BedID(roomID, takeBedOrdinal(room)),
			Status:  models.BedStatusAvailable,
			Price:   price,
			Tenants: []models.TenantStub{},
		})
		RollUp(p, roomID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	InvalidateListingCache(property.PropertyID, property.LandlordID)
	return property, nil
}

// DeleteRoom removes a structurally empty room from the tree. Any tenant stub
// anywhere in the room, stale or not, blocks the delete.
func DeleteRoom(db *gorm.DB, landlordID uint, propertyKey, roomID string) (*models.Property, error) {
	property, err := mutateProperty(db, propertyKey, landlordID, func(p *models.Property) error {
		for i := range p.Rooms {
			if p.Rooms[i].RoomID != roomID {
				continue
			}
			if p.Rooms[i].Occupied() {
				return ErrConflict("room %s still holds tenants", roomID)
			}
			p.Rooms = append(p.Rooms[:i], p.Rooms[i+1:]...)
			RecomputePropertyStatus(p)
			return nil
		}
		return ErrNotFound("room %s does not exist in property %s", roomID, p.PropertyID)
	})
	if err != nil {
		return nil, err
	}
	InvalidateListingCache(property.PropertyID, property.LandlordID)
	return property, nil
}

func DeleteBed(db *gorm.DB, landlordID uint, propertyKey, roomID, bedID string) (*models.Property, error) {
	property, err := mutateProperty(db, propertyKey, landlordID, func(p *models.Property) error {
		room := p.FindRoom(roomID)
		if room == nil {
			return ErrNotFound("room %s does not exist in property %s", roomID, p.PropertyID)
		}
		for i := range room.Beds {
			if room.Beds[i].BedID != bedID {
				continue
			}
			if len(room.Beds[i].Tenants) > 0 {
				return ErrConflict("bed %s still holds a tenant", bedID)
			}
			room.Beds = append(room.Beds[:i], room.Beds[i+1:]...)
			RollUp(p, roomID)
			return nil
		}
		return ErrNotFound("bed %s does not exist in room %s", bedID, roomID)
	})
	if err != nil {
		return nil, err
	}
	InvalidateListingCache(property.PropertyID, property.LandlordID)
	return property, nil
}

// DeleteProperty is guarded the same way: refused while any room or bed holds
// a tenant stub.
func DeleteProperty(db *gorm.DB, landlordID uint, propertyKey string) error {
	property, err := resolveOwnedProperty(db, propertyKey, landlordID)
	if err != nil {
		return err
	}
	if property.Occupied() {
		return ErrConflict("property %s still holds tenants", property.PropertyID)
	}
	if err := db.Delete(&models.Property{}, property.ID).Error; err != nil {
		return err
	}
	InvalidateListingCache(property.PropertyID, property.LandlordID)
	return nil
}

var propertyStatuses = map[string]bool{
	models.StatusAvailable:          true,
	models.StatusPartiallyAvailable: true,
	models.StatusNotAvailable:       true,
	models.StatusUnderMaintenance:   true,
	models.StatusReserved:           true,
}

var bedStatuses = map[string]bool{
	models.BedStatusAvailable:    true,
	models.BedStatusNotAvailable: true,
	models.BedStatusMaintenance:  true,
	models.BedStatusReserved:     true,
}

type StatusUpdateInput struct {
	EntityKind string // property, room, bed
	RoomID     string
	BedID      string
	Status     string
	Notes      string
}

// UpdateEntityStatus is the manual override path. Maintenance/reservation
// states set a hold the roll-up respects; any other value hands the entity
// back to automatic derivation.
func UpdateEntityStatus(db *gorm.DB, landlordID uint, propertyKey string, input StatusUpdateInput) (*models.Property, error) {
	property, err := mutateProperty(db, propertyKey, landlordID, func(p *models.Property) error {
		switch input.EntityKind {
		case "property":
			if !propertyStatuses[input.Status] {
				return ErrValidation("unknown property status %q", input.Status)
			}
			p.ManualHold = input.Status == models.StatusUnderMaintenance || input.Status == models.StatusReserved
			p.Status = input.Status
			if !p.ManualHold {
				RecomputePropertyStatus(p)
			}
		case "room":
			room := p.FindRoom(input.RoomID)
			if room == nil {
				return ErrNotFound("room %s does not exist in property %s", input.RoomID, p.PropertyID)
			}
			if !propertyStatuses[input.Status] {
				return ErrValidation("unknown room status %q", input.Status)
			}
			room.ManualHold = input.Status == models.StatusUnderMaintenance || input.Status == models.StatusReserved
			room.Status = input.Status
			if input.Notes != "" {
				room.Notes = input.Notes
			}
			RollUp(p, room.RoomID)
		case "bed":
			room := p.FindRoom(input.RoomID)
			if room == nil {
				return ErrNotFound("room %s does not exist in property %s", input.RoomID, p.PropertyID)
			}
			bed := room.FindBed(input.BedID)
			if bed == nil {
				return ErrNotFound("bed %s does not exist in room %s", input.BedID, input.RoomID)
			}
			if !bedStatuses[input.Status] {
				return ErrValidation("unknown bed status %q", input.Status)
			}
			if input.Status == models.BedStatusAvailable && len(bed.Tenants) > 0 {
				return ErrConflict("bed %s cannot be marked Available while occupied", bed.BedID)
			}
			bed.ManualHold = input.Status == models.BedStatusMaintenance || input.Status == models.BedStatusReserved
			bed.Status = input.Status
			RollUp(p, room.RoomID)
		default:
			return ErrValidation("unknown entity kind %q", input.EntityKind)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	InvalidateListingCache(property.PropertyID, property.LandlordID)
	return property, nil
}

// StandardizeProperty re-runs id assignment over the whole tree. See the
// hazard note on StandardizeIDs.
func StandardizeProperty(db *gorm.DB, landlordID uint, propertyKey string) (*models.Property, error) {
	property, err := mutateProperty(db, propertyKey, landlordID, func(p *models.Property) error {
		StandardizeIDs(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	InvalidateListingCache(property.PropertyID, property.LandlordID)
	return property, nil
}

type RoomSummary struct {
	RoomID        string  `json:"roomID"`
	Type          string  `json:"type"`
	Status        string  `json:"status"`
	Rent          float64 `json:"rent"`
	Capacity      int     `json:"capacity"`
	Occupied      int     `json:"occupied"`
	Remaining     int     `json:"remaining"`
	AvailableBeds int     `json:"availableBeds"`
}

type BedSummary struct {
	BedID         string   `json:"bedID"`
	Status        string   `json:"status"`
	Price         float64  `json:"price"`
	OccupantNames []string `json:"occupantNames"`
}

// AvailableRooms lists rooms that can still take a tenant. Held rooms are
// excluded whatever their bed situation looks like.
func AvailableRooms(db *gorm.DB, propertyKey string) ([]RoomSummary, error) {
	property, err := ResolveProperty(db, propertyKey)
	if err != nil {
		return nil, err
	}
	summaries := []RoomSummary{}
	for i := range property.Rooms {
		room := &property.Rooms[i]
		if room.ManualHold {
			continue
		}
		if len(room.Beds) == 0 {
			capacity := RoomCapacity(*room)
			if !capacity.HasCapacity {
				continue
			}
			summaries = append(summaries, RoomSummary{
				RoomID:    room.RoomID,
				Type:      room.Type,
				Status:    room.Status,
				Rent:      room.Rent,
				Capacity:  capacity.Capacity,
				Occupied:  capacity.Occupied,
				Remaining: capacity.Remaining,
			})
			continue
		}
		free := 0
		for j := range room.Beds {
			if BedAvailability(room.Beds[j]).Available {
				free++
			}
		}
		if free == 0 {
			continue
		}
		summaries = append(summaries, RoomSummary{
			RoomID:        room.RoomID,
			Type:          room.Type,
			Status:        room.Status,
			Rent:          room.Rent,
			Capacity:      CapacityForType(room.Type),
			AvailableBeds: free,
		})
	}
	return summaries, nil
}

func AvailableBeds(db *gorm.DB, propertyKey, roomID string) ([]BedSummary, error) {
	property, err := ResolveProperty(db, propertyKey)
	if err != nil {
		return nil, err
	}
	room := property.FindRoom(roomID)
	if room == nil {
		return nil, ErrNotFound("room %s does not exist in property %s", roomID, property.PropertyID)
	}
	summaries := []BedSummary{}
	for i := range room.Beds {
		availability := BedAvailability(room.Beds[i])
		if !availability.Available {
			continue
		}
		summaries = append(summaries, BedSummary{
			BedID:         room.Beds[i].BedID,
			Status:        room.Beds[i].Status,
			Price:         room.Beds[i].Price,
			OccupantNames: availability.OccupantNames,
		})
	}
	return summaries, nil
}
