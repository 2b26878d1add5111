package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Accommodation is the authoritative occupancy record: one stay interval of a
// tenant in one room (optionally one bed). Records are never deleted, only
// deactivated, so billing history survives move-outs.
type Accommodation struct {
	LandlordID       uint       `json:"landlordID"`
	PropertyID       string     `json:"propertyID"`
	RoomID           string     `json:"roomID"`
	BedID            string     `json:"bedID"` // empty string for whole-room stays, never null
	IsActive         bool       `json:"isActive"`
	MoveInDate       time.Time  `json:"moveInDate"`
	MoveOutDate      *time.Time `json:"moveOutDate"`
	RentAmount       float64    `json:"rentAmount"`
	DuesAmount       float64    `json:"duesAmount"`
	NoticePeriodDays int        `json:"noticePeriodDays"`
	AgreementMonths  int        `json:"agreementMonths"`
	RentDueDay       int        `json:"rentDueDay"`
}

type AccommodationList []Accommodation

func (a AccommodationList) Value() (driver.Value, error) {
	if a == nil {
		a = AccommodationList{}
	}
	return json.Marshal(a)
}

func (a *AccommodationList) Scan(value interface{}) error {
	if value == nil {
		*a = AccommodationList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported accommodations column type %T", value)
	}
}

// Tenant is its own aggregate, independent of any property. A tenant may hold
// active accommodations across different properties at the same time but at
// most one active accommodation per (propertyID, roomID).
type Tenant struct {
	gorm.Model
	TenantID       string            `json:"tenantID" gorm:"uniqueIndex;size:32"`
	Name           string            `json:"name"`
	LegalID        string            `json:"legalID" gorm:"uniqueIndex;size:64"`
	Mobile         string            `json:"mobile" gorm:"uniqueIndex;size:20"`
	Email          string            `json:"email"`
	Version        int64             `json:"version" gorm:"not null;default:0"`
	Accommodations AccommodationList `json:"accommodations" gorm:"type:jsonb"`
}

// ActiveAccommodation returns a pointer into the list for the single active
// record matching the room, or nil.
func (t *Tenant) ActiveAccommodation(propertyID, roomID string) *Accommodation {
	for i := range t.Accommodations {
		a := &t.Accommodations[i]
		if a.IsActive && a.PropertyID == propertyID && a.RoomID == roomID {
			return a
		}
	}
	return nil
}

func (t *Tenant) Stub() TenantStub {
	return TenantStub{TenantID: t.TenantID, Name: t.Name, Mobile: t.Mobile}
}
