package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/storage"
)

var bgContext = context.Background()

// OccupancyEventChannel carries assignment/move-out facts to the billing
// collaborator. The core computes no bills; it only publishes enough data
// (rent, dates, space ids) for proration downstream.
const OccupancyEventChannel = "occupancy-events"

type OccupancyEvent struct {
	Action      string     `json:"action"` // tenant_assigned, tenant_removed
	TenantID    string     `json:"tenantID"`
	LandlordID  uint       `json:"landlordID"`
	PropertyID  string     `json:"propertyID"`
	RoomID      string     `json:"roomID"`
	BedID       string     `json:"bedID"`
	RentAmount  float64    `json:"rentAmount"`
	MoveInDate  time.Time  `json:"moveInDate"`
	MoveOutDate *time.Time `json:"moveOutDate,omitempty"`
	OccurredAt  time.Time  `json:"occurredAt"`
}

// InvalidateListingCache drops every cached read-model keyed by the property
// or its landlord. The cache itself is owned by the read side; this core only
// signals the invalidation points.
func InvalidateListingCache(propertyID string, landlordID uint) {
	if storage.Redis == nil {
		return
	}
	keys := []string{
		"property:" + propertyID,
		"property:" + propertyID + ":rooms",
		fmt.Sprintf("landlord:%d:properties", landlordID),
	}
	if err := storage.Redis.Del(bgContext, keys...).Err(); err != nil {
		log.Println("Warning: cache invalidation failed:", err)
	}
}

func PublishOccupancyEvent(event OccupancyEvent) {
	if storage.Redis == nil {
		return
	}
	event.OccurredAt = time.Now()
	payload, err := json.Marshal(event)
	if err != nil {
		log.Println("Warning: could not encode occupancy event:", err)
		return
	}
	if err := storage.Redis.Publish(bgContext, OccupancyEventChannel, payload).Err(); err != nil {
		log.Println("Warning: occupancy event publish failed:", err)
	}
}
