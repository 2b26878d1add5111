package services

import (
	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/models"
)

// Status roll-up: a room's status is derived from its beds, a property's from
// its rooms, recomputed room-first as the last step of every occupancy
// mutation. Both functions are idempotent. Entities under a manual hold
// (operator-set UnderMaintenance/Reserved) are skipped; the orchestrator
// clears the hold when an occupancy mutation touches the entity itself, so
// holds are sticky against unrelated sibling changes only.

// RecomputeRoomStatus derives the room status in place. Rooms with beds count
// available beds; bedless rooms act as a single occupancy unit sized by the
// type's capacity ceiling.
func RecomputeRoomStatus(room *models.Room) {
	if room.ManualHold {
		return
	}

	if len(room.Beds) == 0 {
		capacity := CapacityForType(room.Type)
		switch {
		case len(room.Tenants) == 0:
			room.Status = models.StatusAvailable
		case len(room.Tenants) >= capacity:
			room.Status = models.StatusNotAvailable
		default:
			room.Status = models.StatusPartiallyAvailable
		}
		return
	}

	available := 0
	for i := range room.Beds {
		if room.Beds[i].Status == models.BedStatusAvailable {
			available++
		}
	}
	switch {
	case available == 0:
		room.Status = models.StatusNotAvailable
	case available == len(room.Beds):
		room.Status = models.StatusAvailable
	default:
		room.Status = models.StatusPartiallyAvailable
	}
}

// RecomputePropertyStatus derives the property status from its rooms. Held
// rooms participate with their manual status: UnderMaintenance/Reserved count
// as not lettable, they never promote the property.
func RecomputePropertyStatus(p *models.Property) {
	if p.ManualHold {
		return
	}
	if len(p.Rooms) == 0 {
		p.Status = models.StatusAvailable
		return
	}

	available, partially := 0, 0
	for i := range p.Rooms {
		switch p.Rooms[i].Status {
		case models.StatusAvailable:
			available++
		case models.StatusPartiallyAvailable:
			partially++
		}
	}
	switch {
	case available == len(p.Rooms):
		p.Status = models.StatusAvailable
	case available == 0 && partially == 0:
		p.Status = models.StatusNotAvailable
	default:
		p.Status = models.StatusPartiallyAvailable
	}
}

// RollUp recomputes the affected room, then the property, in that order.
func RollUp(p *models.Property, roomID string) {
	if room := p.FindRoom(roomID); room != nil {
		RecomputeRoomStatus(room)
	}
	RecomputePropertyStatus(p)
}
