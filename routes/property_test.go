package routes

import (
	"fmt"
	"testing"

	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/models"
	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/storage"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/httptest"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRouteTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Property{}))
	storage.DB = db
	return db
}

func TestGetPropertiesByUserIDPaginates(t *testing.T) {
	db := setupRouteTestDB(t)

	for i := 1; i <= 3; i++ {
		require.NoError(t, db.Create(&models.Property{
			PropertyID: fmt.Sprintf("P%d", i),
			LandlordID: 42,
			Name:       fmt.Sprintf("Sunrise PG %d", i),
			Status:     models.StatusAvailable,
			Rooms:      models.RoomList{},
		}).Error)
	}

	app := iris.New()
	app.Get("/api/property/userid/{id}", GetPropertiesByUserID)

	e := httptest.New(t, app)

	body := e.GET("/api/property/userid/42").
		WithQuery("page", 1).WithQuery("perPage", 2).
		Expect().Status(iris.StatusOK).
		JSON().Object()
	body.Value("data").Array().Length().IsEqual(2)
	meta := body.Value("meta").Object()
	meta.Value("total").Number().IsEqual(3)
	meta.Value("per_page").Number().IsEqual(2)

	e.GET("/api/property/userid/42").
		WithQuery("page", 2).WithQuery("perPage", 2).
		Expect().Status(iris.StatusOK).
		JSON().Object().Value("data").Array().Length().IsEqual(1)

	// Someone else's listing is empty, not an error.
	e.GET("/api/property/userid/7").
		Expect().Status(iris.StatusOK).
		JSON().Object().Value("meta").Object().Value("total").Number().IsEqual(0)
}
