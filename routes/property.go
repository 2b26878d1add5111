package routes

import (
	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/models"
	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/services"
	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/storage"
	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

type RoomSpecInput struct {
	Type       string                 `json:"type" validate:"required,max=32"`
	Rent       float64                `json:"rent" validate:"gte=0"`
	Notes      string                 `json:"notes"`
	BedCount   int                    `json:"bedCount" validate:"gte=0,lte=12"`
	BedPrice   float64                `json:"bedPrice" validate:"gte=0"`
	Facilities map[string]interface{} `json:"facilities"`
}

type CreatePropertyInput struct {
	Name         string          `json:"name" validate:"required,max=256"`
	AddressLine1 string          `json:"addressLine1" validate:"required,max=512"`
	AddressLine2 string          `json:"addressLine2" validate:"max=512"`
	City         string          `json:"city" validate:"required,max=256"`
	State        string          `json:"state" validate:"required,max=256"`
	Zip          string          `json:"zip" validate:"required,max=32"`
	Rooms        []RoomSpecInput `json:"rooms" validate:"dive"`
}

func CreateProperty(ctx iris.Context) {
	var input CreatePropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	specs := make([]services.RoomSpec, 0, len(input.Rooms))
	for _, r := range input.Rooms {
		specs = append(specs, services.RoomSpec{
			Type:       r.Type,
			Rent:       r.Rent,
			Notes:      r.Notes,
			BedCount:   r.BedCount,
			BedPrice:   r.BedPrice,
			Facilities: r.Facilities,
		})
	}

	property, err := services.CreateProperty(storage.DB, claims.ID, services.CreatePropertyInput{
		Name:         input.Name,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		State:        input.State,
		Zip:          input.Zip,
		Rooms:        specs,
	})
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "property.create", "property", property.PropertyID, nil, property)
	ctx.JSON(property)
}

func GetProperty(ctx iris.Context) {
	key := ctx.Params().Get("id")

	property, err := services.ResolveProperty(storage.DB, key)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(property)
}

func GetPropertiesByUserID(ctx iris.Context) {
	id := ctx.Params().Get("id")

	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("perPage", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int64
	if err := storage.DB.Model(&models.Property{}).Where("landlord_id = ?", id).Count(&total).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	var properties []models.Property
	result := storage.DB.Where("landlord_id = ?", id).
		Order("id").Offset((page - 1) * perPage).Limit(perPage).
		Find(&properties)
	if result.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", result.Error.Error(), ctx)
		return
	}
	utils.JSONPage(ctx, properties, page, perPage, total)
}

func DeleteProperty(ctx iris.Context) {
	key := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	if err := services.DeleteProperty(storage.DB, claims.ID, key); err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "property.delete", "property", key, nil, nil)
	ctx.StatusCode(iris.StatusNoContent)
}

func AddRoom(ctx iris.Context) {
	key := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input RoomSpecInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	property, err := services.AddRoom(storage.DB, claims.ID, key, services.RoomSpec{
		Type:       input.Type,
		Rent:       input.Rent,
		Notes:      input.Notes,
		BedCount:   input.BedCount,
		BedPrice:   input.BedPrice,
		Facilities: input.Facilities,
	})
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "room.add", "property", property.PropertyID, nil, property.Rooms)
	ctx.JSON(property)
}

type AddBedInput struct {
	Price float64 `json:"price" validate:"gte=0"`
}

func AddBed(ctx iris.Context) {
	key := ctx.Params().Get("id")
	roomID := ctx.Params().Get("roomID")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input AddBedInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	property, err := services.AddBed(storage.DB, claims.ID, key, roomID, input.Price)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "bed.add", "room", roomID, nil, property.FindRoom(roomID))
	ctx.JSON(property)
}

func DeleteRoom(ctx iris.Context) {
	key := ctx.Params().Get("id")
	roomID := ctx.Params().Get("roomID")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	property, err := services.DeleteRoom(storage.DB, claims.ID, key, roomID)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "room.delete", "room", roomID, nil, nil)
	ctx.JSON(property)
}

func DeleteBed(ctx iris.Context) {
	key := ctx.Params().Get("id")
	roomID := ctx.Params().Get("roomID")
	bedID := ctx.Params().Get("bedID")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	property, err := services.DeleteBed(storage.DB, claims.ID, key, roomID, bedID)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "bed.delete", "bed", bedID, nil, nil)
	ctx.JSON(property)
}

type UpdateStatusInput struct {
	EntityKind string `json:"entityKind" validate:"required,oneof=property room bed"`
	RoomID     string `json:"roomID"`
	BedID      string `json:"bedID"`
	Status     string `json:"status" validate:"required,max=32"`
	Notes      string `json:"notes"`
}

// UpdateStatus is the manual override surface for maintenance/reservation.
func UpdateStatus(ctx iris.Context) {
	key := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input UpdateStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	property, err := services.UpdateEntityStatus(storage.DB, claims.ID, key, services.StatusUpdateInput{
		EntityKind: input.EntityKind,
		RoomID:     input.RoomID,
		BedID:      input.BedID,
		Status:     input.Status,
		Notes:      input.Notes,
	})
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "status.override", input.EntityKind, property.PropertyID, nil, input)
	ctx.JSON(property)
}

func StandardizeIds(ctx iris.Context) {
	key := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	property, err := services.StandardizeProperty(storage.DB, claims.ID, key)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "property.standardize_ids", "property", property.PropertyID, nil, property.Rooms)
	ctx.JSON(property)
}

func GetAvailableRooms(ctx iris.Context) {
	key := ctx.Params().Get("id")

	rooms, err := services.AvailableRooms(storage.DB, key)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(rooms)
}

func GetAvailableBeds(ctx iris.Context) {
	key := ctx.Params().Get("id")
	roomID := ctx.Params().Get("roomID")

	beds, err := services.AvailableBeds(storage.DB, key, roomID)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(beds)
}

func ReconcileProperty(ctx iris.Context) {
	key := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	report, err := services.ReconcileProperty(storage.DB, claims.ID, key)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	if !report.Clean() {
		utils.Audit(ctx, "property.reconcile", "property", report.PropertyID, nil, report)
	}
	ctx.JSON(report)
}
