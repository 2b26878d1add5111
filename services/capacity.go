package services

import (
	"fmt"

	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/models"
)

// Fixed room type to occupant ceiling table. Named categories (Couple, Family,
// PG and anything unrecognised) fall back to a single occupant.
var roomTypeCapacity = map[string]int{
	"Single":      1,
	"Double":      2,
	"Triple":      3,
	"Four":        4,
	"Five":        5,
	"Six":         6,
	"MoreThanSix": 12,
}

const defaultRoomCapacity = 1

func CapacityForType(roomType string) int {
	if c, ok := roomTypeCapacity[roomType]; ok {
		return c
	}
	return defaultRoomCapacity
}

// KnownRoomType reports whether the type is one of the enumerated categories
// with an explicit ceiling. Named categories are still accepted at creation,
// they just cap at one occupant.
func KnownRoomType(roomType string) bool {
	_, ok := roomTypeCapacity[roomType]
	return ok
}

type BedAvailabilityResult struct {
	Available     bool     `json:"available"`
	OccupantNames []string `json:"occupantNames"`
	Reason        string   `json:"reason"`
}

// BedAvailability decides whether a bed can take a tenant. Both the status
// flag and the stub list are checked: the stub list is the tie-breaker of
// record for "is anyone actually here", a lone status flag is not trusted.
func BedAvailability(bed models.Bed) BedAvailabilityResult {
	names := make([]string, 0, len(bed.Tenants))
	for _, t := range bed.Tenants {
		names = append(names, t.Name)
	}
	if len(bed.Tenants) > 0 {
		return BedAvailabilityResult{
			Available:     false,
			OccupantNames: names,
			Reason:        fmt.Sprintf("bed %s is occupied", bed.BedID),
		}
	}
	if bed.Status != models.BedStatusAvailable {
		return BedAvailabilityResult{
			Available:     false,
			OccupantNames: names,
			Reason:        fmt.Sprintf("bed %s is %s", bed.BedID, bed.Status),
		}
	}
	return BedAvailabilityResult{Available: true, OccupantNames: names, Reason: "bed is available"}
}

type RoomCapacityResult struct {
	HasCapacity bool   `json:"hasCapacity"`
	Capacity    int    `json:"capacity"`
	Occupied    int    `json:"occupied"`
	Remaining   int    `json:"remaining"`
	Reason      string `json:"reason"`
}

// RoomCapacity decides remaining whole-room capacity. Occupancy is the direct
// stub count: bed-level occupancy is governed per bed by BedAvailability, not
// by the room ceiling.
func RoomCapacity(room models.Room) RoomCapacityResult {
	capacity := CapacityForType(room.Type)
	occupied := len(room.Tenants)
	remaining := capacity - occupied
	if remaining < 0 {
		remaining = 0
	}
	if occupied >= capacity {
		return RoomCapacityResult{
			HasCapacity: false,
			Capacity:    capacity,
			Occupied:    occupied,
			Remaining:   0,
			Reason:      fmt.Sprintf("room %s is full (%d/%d)", room.RoomID, occupied, capacity),
		}
	}
	return RoomCapacityResult{
		HasCapacity: true,
		Capacity:    capacity,
		Occupied:    occupied,
		Remaining:   remaining,
		Reason:      fmt.Sprintf("room %s has %d of %d places free", room.RoomID, remaining, capacity),
	}
}
