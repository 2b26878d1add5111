package services

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePropertyBuildsTree(t *testing.T) {
	db := setupTestDB(t)

	property := seedProperty(t, db,
		RoomSpec{Type: "Double", Rent: 8000, BedCount: 2, BedPrice: 4500},
		RoomSpec{Type: "Single", Rent: 9000},
	)

	assert.Equal(t, "P1", property.PropertyID)
	require.Len(t, property.Rooms, 2)
	assert.Equal(t, "P1-R1", property.Rooms[0].RoomID)
	require.Len(t, property.Rooms[0].Beds, 2)
	assert.Equal(t, "P1-R1-B1", property.Rooms[0].Beds[0].BedID)
	assert.Equal(t, "P1-R1-B2", property.Rooms[0].Beds[1].BedID)
	assert.Equal(t, "P1-R2", property.Rooms[1].RoomID)
	assert.Empty(t, property.Rooms[1].Beds)
	assert.Equal(t, models.StatusAvailable, property.Status)
}

func TestCreateRoomWarnsOnUnrecognizedType(t *testing.T) {
	db := setupTestDB(t)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	property := seedProperty(t, db, RoomSpec{Type: "Penthouse"}, RoomSpec{Type: "Double"})

	// Unrecognized types are accepted with a one-occupant ceiling, but the
	// operator gets a warning naming the room.
	assert.Contains(t, buf.String(), "Penthouse")
	assert.Contains(t, buf.String(), "P1-R1")
	assert.NotContains(t, buf.String(), `"Double"`)
	assert.Equal(t, 1, CapacityForType(property.Rooms[0].Type))
}

func TestResolvePropertyByEitherKey(t *testing.T) {
	db := setupTestDB(t)
	property := seedProperty(t, db, RoomSpec{Type: "Single"})

	byComposite, err := ResolveProperty(db, property.PropertyID)
	require.NoError(t, err)
	assert.Equal(t, property.ID, byComposite.ID)

	byStorageID, err := ResolveProperty(db, fmt.Sprintf("%d", property.ID))
	require.NoError(t, err)
	assert.Equal(t, property.PropertyID, byStorageID.PropertyID)

	_, err = ResolveProperty(db, "P999")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestDeletePropertyForbiddenForOtherLandlord(t *testing.T) {
	db := setupTestDB(t)
	property := seedProperty(t, db, RoomSpec{Type: "Single"})

	err := DeleteProperty(db, testLandlord+1, property.PropertyID)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestRoomOrdinalsNeverReused(t *testing.T) {
	db := setupTestDB(t)
	property := seedProperty(t, db,
		RoomSpec{Type: "Single"},
		RoomSpec{Type: "Single"},
	)

	// Deleting the highest-numbered room is the easy id to accidentally hand
	// back; the counter must not.
	_, err := DeleteRoom(db, testLandlord, property.PropertyID, "P1-R2")
	require.NoError(t, err)

	updated, err := AddRoom(db, testLandlord, property.PropertyID, RoomSpec{Type: "Double", BedCount: 1})
	require.NoError(t, err)

	require.Len(t, updated.Rooms, 2)
	assert.Equal(t, "P1-R3", updated.Rooms[1].RoomID)
	assert.Equal(t, "P1-R3-B1", updated.Rooms[1].Beds[0].BedID)

	// Same for a mid-list delete.
	_, err = DeleteRoom(db, testLandlord, property.PropertyID, "P1-R1")
	require.NoError(t, err)
	updated, err = AddRoom(db, testLandlord, property.PropertyID, RoomSpec{Type: "Single"})
	require.NoError(t, err)
	assert.Equal(t, "P1-R4", updated.Rooms[1].RoomID)
}

func TestBedOrdinalsNeverReused(t *testing.T) {
	db := setupTestDB(t)
	property := seedProperty(t, db, RoomSpec{Type: "Triple", BedCount: 3})

	_, err := DeleteBed(db, testLandlord, property.PropertyID, "P1-R1", "P1-R1-B3")
	require.NoError(t, err)

	updated, err := AddBed(db, testLandlord, property.PropertyID, "P1-R1", 5000)
	require.NoError(t, err)

	room := updated.FindRoom("P1-R1")
	require.Len(t, room.Beds, 3)
	// B3 was the tail bed; its ordinal stays retired.
	assert.Equal(t, "P1-R1-B4", room.Beds[2].BedID)
}

func TestDeleteGuards(t *testing.T) {
	db := setupTestDB(t)
	property := seedProperty(t, db, RoomSpec{Type: "Double", BedCount: 2})

	_, _, err := AssignTenant(db, testLandlord, property.PropertyID, AssignInput{
		NewTenant: newTenantPayload("Asha"),
		RoomID:    "P1-R1",
		BedID:     "P1-R1-B1",
	})
	require.NoError(t, err)

	_, err = DeleteBed(db, testLandlord, property.PropertyID, "P1-R1", "P1-R1-B1")
	assert.Equal(t, KindConflict, KindOf(err))

	_, err = DeleteRoom(db, testLandlord, property.PropertyID, "P1-R1")
	assert.Equal(t, KindConflict, KindOf(err))

	err = DeleteProperty(db, testLandlord, property.PropertyID)
	assert.Equal(t, KindConflict, KindOf(err))

	// All three refusals left the tree untouched.
	reloaded := reloadProperty(t, db, property.PropertyID)
	require.Len(t, reloaded.Rooms, 1)
	require.Len(t, reloaded.Rooms[0].Beds, 2)

	// An empty bed in the same room deletes fine.
	_, err = DeleteBed(db, testLandlord, property.PropertyID, "P1-R1", "P1-R1-B2")
	assert.NoError(t, err)
}

func TestSavePropertyCASDetectsConcurrentWriter(t *testing.T) {
	db := setupTestDB(t)
	property := seedProperty(t, db, RoomSpec{Type: "Single"})

	stale := reloadProperty(t, db, property.PropertyID)

	// Another writer wins the race.
	winner := reloadProperty(t, db, property.PropertyID)
	winner.TotalTenants = 1
	require.NoError(t, savePropertyCAS(db, winner))

	stale.TotalTenants = 99
	err := savePropertyCAS(db, stale)
	assert.Equal(t, KindConcurrency, KindOf(err))

	reloaded := reloadProperty(t, db, property.PropertyID)
	assert.Equal(t, 1, reloaded.TotalTenants)
}

func TestUpdateEntityStatusManualOverride(t *testing.T) {
	db := setupTestDB(t)
	property := seedProperty(t, db, RoomSpec{Type: "Double", BedCount: 2}, RoomSpec{Type: "Single"})

	updated, err := UpdateEntityStatus(db, testLandlord, property.PropertyID, StatusUpdateInput{
		EntityKind: "room",
		RoomID:     "P1-R1",
		Status:     models.StatusUnderMaintenance,
		Notes:      "rewiring",
	})
	require.NoError(t, err)

	room := updated.FindRoom("P1-R1")
	assert.Equal(t, models.StatusUnderMaintenance, room.Status)
	assert.True(t, room.ManualHold)
	assert.Equal(t, "rewiring", room.Notes)
	// One held room plus one available room.
	assert.Equal(t, models.StatusPartiallyAvailable, updated.Status)

	// An occupancy mutation elsewhere must not demote the held room.
	_, _, err = AssignTenant(db, testLandlord, property.PropertyID, AssignInput{
		NewTenant: newTenantPayload("Ravi"),
		RoomID:    "P1-R2",
	})
	require.NoError(t, err)
	reloaded := reloadProperty(t, db, property.PropertyID)
	assert.Equal(t, models.StatusUnderMaintenance, reloaded.FindRoom("P1-R1").Status)

	// Handing the room back to derivation clears the hold.
	updated, err = UpdateEntityStatus(db, testLandlord, property.PropertyID, StatusUpdateInput{
		EntityKind: "room",
		RoomID:     "P1-R1",
		Status:     models.StatusAvailable,
	})
	require.NoError(t, err)
	room = updated.FindRoom("P1-R1")
	assert.False(t, room.ManualHold)
	assert.Equal(t, models.StatusAvailable, room.Status)
}

func TestUpdateEntityStatusRejectsUnknownValues(t *testing.T) {
	db := setupTestDB(t)
	property := seedProperty(t, db, RoomSpec{Type: "Single", BedCount: 1})

	_, err := UpdateEntityStatus(db, testLandlord, property.PropertyID, StatusUpdateInput{
		EntityKind: "room",
		RoomID:     "P1-R1",
		Status:     "Sleeping",
	})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = UpdateEntityStatus(db, testLandlord, property.PropertyID, StatusUpdateInput{
		EntityKind: "wing",
		Status:     models.StatusAvailable,
	})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestUpdateEntityStatusBedGuards(t *testing.T) {
	db := setupTestDB(t)
	property := seedProperty(t, db, RoomSpec{Type: "Double", BedCount: 2})

	_, _, err := AssignTenant(db, testLandlord, property.PropertyID, AssignInput{
		NewTenant: newTenantPayload("Meena"),
		RoomID:    "P1-R1",
		BedID:     "P1-R1-B1",
	})
	require.NoError(t, err)

	// An occupied bed cannot be forced back to Available.
	_, err = UpdateEntityStatus(db, testLandlord, property.PropertyID, StatusUpdateInput{
		EntityKind: "bed",
		RoomID:     "P1-R1",
		BedID:      "P1-R1-B1",
		Status:     models.BedStatusAvailable,
	})
	assert.Equal(t, KindConflict, KindOf(err))

	updated, err := UpdateEntityStatus(db, testLandlord, property.PropertyID, StatusUpdateInput{
		EntityKind: "bed",
		RoomID:     "P1-R1",
		BedID:      "P1-R1-B2",
		Status:     models.BedStatusMaintenance,
	})
	require.NoError(t, err)
	bed := updated.FindRoom("P1-R1").FindBed("P1-R1-B2")
	assert.True(t, bed.ManualHold)
	assert.Equal(t, models.BedStatusMaintenance, bed.Status)
	// No bed left lettable.
	assert.Equal(t, models.StatusNotAvailable, updated.FindRoom("P1-R1").Status)
}

func TestAvailableRoomsAndBeds(t *testing.T) {
	db := setupTestDB(t)
	property := seedProperty(t, db,
		RoomSpec{Type: "Double", BedCount: 2, BedPrice: 4500},
		RoomSpec{Type: "Single"},
		RoomSpec{Type: "Single"},
	)

	_, _, err := AssignTenant(db, testLandlord, property.PropertyID, AssignInput{
		NewTenant: newTenantPayload("Asha"),
		RoomID:    "P1-R1",
		BedID:     "P1-R1-B1",
	})
	require.NoError(t, err)
	_, _, err = AssignTenant(db, testLandlord, property.PropertyID, AssignInput{
		NewTenant: newTenantPayload("Ravi"),
		RoomID:    "P1-R2",
	})
	require.NoError(t, err)
	_, err = UpdateEntityStatus(db, testLandlord, property.PropertyID, StatusUpdateInput{
		EntityKind: "room",
		RoomID:     "P1-R3",
		Status:     models.StatusReserved,
	})
	require.NoError(t, err)

	rooms, err := AvailableRooms(db, property.PropertyID)
	require.NoError(t, err)
	// R1 still has one free bed; R2 is a full Single; R3 is held.
	require.Len(t, rooms, 1)
	assert.Equal(t, "P1-R1", rooms[0].RoomID)
	assert.Equal(t, 1, rooms[0].AvailableBeds)

	beds, err := AvailableBeds(db, property.PropertyID, "P1-R1")
	require.NoError(t, err)
	require.Len(t, beds, 1)
	assert.Equal(t, "P1-R1-B2", beds[0].BedID)
	assert.Equal(t, 4500.0, beds[0].Price)

	_, err = AvailableBeds(db, property.PropertyID, "P1-R9")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestStandardizeProperty(t *testing.T) {
	db := setupTestDB(t)
	property := seedProperty(t, db,
		RoomSpec{Type: "Single"},
		RoomSpec{Type: "Double", BedCount: 2},
	)

	_, err := DeleteRoom(db, testLandlord, property.PropertyID, "P1-R1")
	require.NoError(t, err)

	standardized, err := StandardizeProperty(db, testLandlord, property.PropertyID)
	require.NoError(t, err)
	require.Len(t, standardized.Rooms, 1)
	assert.Equal(t, "P1-R1", standardized.Rooms[0].RoomID)
	assert.Equal(t, "P1-R1-B1", standardized.Rooms[0].Beds[0].BedID)

	// Standardizing restarts ordinal allocation from the compacted list.
	updated, err := AddRoom(db, testLandlord, property.PropertyID, RoomSpec{Type: "Single"})
	require.NoError(t, err)
	assert.Equal(t, "P1-R2", updated.Rooms[1].RoomID)
}
