package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Statuses for properties and rooms. Property/room status is derived from the
// children and never written directly except through a manual override.
const (
	StatusAvailable          = "Available"
	StatusPartiallyAvailable = "PartiallyAvailable"
	StatusNotAvailable       = "NotAvailable"
	StatusUnderMaintenance   = "UnderMaintenance"
	StatusReserved           = "Reserved"
)

// Bed statuses.
const (
	BedStatusAvailable    = "Available"
	BedStatusNotAvailable = "NotAvailable"
	BedStatusMaintenance  = "Maintenance"
	BedStatusReserved     = "Reserved"
)

// TenantStub is a denormalized copy of occupant identity embedded on a bed or
// room for fast reads. The tenant's Accommodation record is the authoritative
// occupancy fact; stubs are reconciled against it.
type TenantStub struct {
	TenantID string `json:"tenantID"`
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
}

type Bed struct {
	BedID      string       `json:"bedID"`
	Status     string       `json:"status"`
	ManualHold bool         `json:"manualHold"`
	Price      float64      `json:"price"`
	Tenants    []TenantStub `json:"tenants"`
}

// Room embeds its beds. A room with no beds is let as a whole unit and keeps
// its occupants directly in Tenants; rooms with beds never use Tenants.
type Room struct {
	RoomID     string            `json:"roomID"`
	Type       string            `json:"type"` // Single, Double, ... see services.CapacityForType
	Status     string            `json:"status"`
	ManualHold bool              `json:"manualHold"`
	Rent       float64           `json:"rent"`
	Notes      string            `json:"notes"`
	Beds       []Bed             `json:"beds"`
	Tenants    []TenantStub      `json:"tenants"`
	Facilities datatypes.JSONMap `json:"facilities"` // opaque capability bag, not validated here
	// NextBedOrdinal is the next bed ordinal to hand out. Deleting a bed
	// never gives its ordinal back.
	NextBedOrdinal int `json:"nextBedOrdinal"`
}

// RoomList stores the full room/bed tree as a single jsonb document on the
// property row. No separate room or bed tables exist.
type RoomList []Room

func (r RoomList) Value() (driver.Value, error) {
	if r == nil {
		r = RoomList{}
	}
	return json.Marshal(r)
}

func (r *RoomList) Scan(value interface{}) error {
	if value == nil {
		*r = RoomList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("unsupported rooms column type %T", value)
	}
}

type Property struct {
	gorm.Model
	PropertyID   string `json:"propertyID" gorm:"uniqueIndex;size:32"`
	LandlordID   uint   `json:"landlordID" gorm:"index"`
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	Status       string `json:"status" gorm:"size:32"`
	ManualHold   bool   `json:"manualHold"`
	TotalTenants int    `json:"totalTenants"`
	Version      int64  `json:"version" gorm:"not null;default:0"` // optimistic lock
	// NextRoomOrdinal is the next room ordinal to hand out, bumped inside the
	// same CAS write as the room list. Deleted ordinals are never reissued.
	NextRoomOrdinal int      `json:"nextRoomOrdinal"`
	Rooms           RoomList `json:"rooms" gorm:"type:jsonb"`
}

// FindRoom returns a pointer into the Rooms slice, so mutations through it are
// persisted when the property is saved.
func (p *Property) FindRoom(roomID string) *Room {
	for i := range p.Rooms {
		if p.Rooms[i].RoomID == roomID {
			return &p.Rooms[i]
		}
	}
	return nil
}

func (r *Room) FindBed(bedID string) *Bed {
	for i := range r.Beds {
		if r.Beds[i].BedID == bedID {
			return &r.Beds[i]
		}
	}
	return nil
}

// Occupied reports whether the room or any of its beds holds a tenant stub,
// regardless of stub staleness. Deletion guards key off this.
func (r *Room) Occupied() bool {
	if len(r.Tenants) > 0 {
		return true
	}
	for i := range r.Beds {
		if len(r.Beds[i].Tenants) > 0 {
			return true
		}
	}
	return false
}

func (p *Property) Occupied() bool {
	for i := range p.Rooms {
		if p.Rooms[i].Occupied() {
			return true
		}
	}
	return false
}
