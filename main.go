package main

import (
	"os"

	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/routes"
	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/storage"
	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	property := app.Party("/api/property")
	{
		property.Post("/", accessTokenVerifierMiddleware, routes.CreateProperty)
		property.Get("/{id}", routes.GetProperty)
		property.Get("/userid/{id}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetPropertiesByUserID)
		property.Delete("/{id}", accessTokenVerifierMiddleware, routes.DeleteProperty)
		property.Post("/{id}/rooms", accessTokenVerifierMiddleware, routes.AddRoom)
		property.Post("/{id}/rooms/{roomID}/beds", accessTokenVerifierMiddleware, routes.AddBed)
		property.Delete("/{id}/rooms/{roomID}", accessTokenVerifierMiddleware, routes.DeleteRoom)
		property.Delete("/{id}/rooms/{roomID}/beds/{bedID}", accessTokenVerifierMiddleware, routes.DeleteBed)
		property.Patch("/{id}/status", accessTokenVerifierMiddleware, routes.UpdateStatus)
		property.Post("/{id}/standardize-ids", accessTokenVerifierMiddleware, routes.StandardizeIds)
		property.Get("/{id}/rooms/available", routes.GetAvailableRooms)
		property.Get("/{id}/rooms/{roomID}/beds/available", routes.GetAvailableBeds)
		property.Post("/{id}/reconcile", accessTokenVerifierMiddleware, routes.ReconcileProperty)
	}

	tenant := app.Party("/api/tenant")
	{
		tenant.Post("/assign", accessTokenVerifierMiddleware, routes.AssignTenant)
		tenant.Post("/remove", accessTokenVerifierMiddleware, routes.RemoveTenant)
		tenant.Get("/{id}", accessTokenVerifierMiddleware, routes.GetTenant)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	app.Listen(":" + port)
}
