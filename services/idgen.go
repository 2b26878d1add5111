package services

import (
	"fmt"

	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/models"

	"gorm.io/gorm"
)

// Identifier allocation. Property and tenant ids come from durable named
// counters bumped with a single upsert-and-return statement, so two concurrent
// callers can never be handed the same value. Room and bed ids are pure
// deterministic composites of the parent id and the 1-based list position at
// creation time; ordinals are never reused while a property lives.

func nextCounter(db *gorm.DB, name string) (int64, error) {
	var value int64
	err := db.Raw(
		`INSERT INTO counters (name, value) VALUES (?, 1)
		 ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		 RETURNING value`, name).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

func NextPropertyID(db *gorm.DB) (string, error) {
	n, err := nextCounter(db, "property")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("P%d", n), nil
}

func NextTenantID(db *gorm.DB) (string, error) {
	n, err := nextCounter(db, "tenant")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("T%d", n), nil
}

func RoomID(propertyID string, ordinal int) string {
	return fmt.Sprintf("%s-R%d", propertyID, ordinal)
}

func BedID(roomID string, ordinal int) string {
	return fmt.Sprintf("%s-B%d", roomID, ordinal)
}

// StandardizeIDs recomputes every room and bed id from scratch based on the
// current list order. Operational hazard: any external system holding the old
// composite ids (tenant accommodations included) is left pointing at ids that
// no longer exist, so this is strictly a maintenance operation for properties
// with no occupancy history worth preserving.
func StandardizeIDs(p *models.Property) {
	for i := range p.Rooms {
		room := &p.Rooms[i]
		room.RoomID = RoomID(p.PropertyID, i+1)
		for j := range room.Beds {
			room.Beds[j].BedID = BedID(room.RoomID, j+1)
		}
		room.NextBedOrdinal = len(room.Beds) + 1
	}
	p.NextRoomOrdinal = len(p.Rooms) + 1
}
