package services

import (
	"fmt"
	"testing"

	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One connection only: sqlite :memory: databases are per-connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Counter{},
		&models.Property{},
		&models.Tenant{},
		&models.AuditLog{},
	))
	return db
}

const testLandlord uint = 42

func seedProperty(t *testing.T, db *gorm.DB, rooms ...RoomSpec) *models.Property {
	property, err := CreateProperty(db, testLandlord, CreatePropertyInput{
		Name:         "Sunrise PG",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		Zip:          "560001",
		Rooms:        rooms,
	})
	require.NoError(t, err)
	return property
}

func reloadProperty(t *testing.T, db *gorm.DB, key string) *models.Property {
	property, err := ResolveProperty(db, key)
	require.NoError(t, err)
	return property
}

var tenantSeq int

// newTenantPayload hands out payloads with unique legal ids and mobiles.
func newTenantPayload(name string) *NewTenantInput {
	tenantSeq++
	return &NewTenantInput{
		Name:    name,
		LegalID: fmt.Sprintf("AADHAAR-%04d", tenantSeq),
		Mobile:  fmt.Sprintf("98%08d", tenantSeq),
	}
}
