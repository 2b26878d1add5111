package routes

import (
	"time"

	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/services"
	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/storage"
	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

type NewTenantInput struct {
	Name    string `json:"name" validate:"required,max=256"`
	LegalID string `json:"legalID" validate:"required,max=64"`
	Mobile  string `json:"mobile" validate:"required,max=20"`
	Email   string `json:"email" validate:"omitempty,email"`
}

type AssignTenantInput struct {
	TenantID         string          `json:"tenantID"`
	NewTenant        *NewTenantInput `json:"newTenant"`
	PropertyID       string          `json:"propertyID" validate:"required"`
	RoomID           string          `json:"roomID" validate:"required"`
	BedID            string          `json:"bedID"`
	RentAmount       float64         `json:"rentAmount" validate:"gte=0"`
	MoveInDate       string          `json:"moveInDate"` // 2006-01-02, defaults to today
	NoticePeriodDays int             `json:"noticePeriodDays" validate:"gte=0,lte=365"`
	AgreementMonths  int             `json:"agreementMonths" validate:"gte=0,lte=60"`
	RentDueDay       int             `json:"rentDueDay" validate:"gte=0,lte=31"`
}

func AssignTenant(ctx iris.Context) {
	var input AssignTenantInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	var moveIn time.Time
	if input.MoveInDate != "" {
		parsed, err := time.Parse("2006-01-02", input.MoveInDate)
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "ValidationError", "moveInDate must be YYYY-MM-DD", ctx)
			return
		}
		moveIn = parsed
	}

	var payload *services.NewTenantInput
	if input.NewTenant != nil {
		payload = &services.NewTenantInput{
			Name:    input.NewTenant.Name,
			LegalID: input.NewTenant.LegalID,
			Mobile:  input.NewTenant.Mobile,
			Email:   input.NewTenant.Email,
		}
	}

	tenant, accommodation, err := services.AssignTenant(storage.DB, claims.ID, input.PropertyID, services.AssignInput{
		TenantID:         input.TenantID,
		NewTenant:        payload,
		RoomID:           input.RoomID,
		BedID:            input.BedID,
		RentAmount:       input.RentAmount,
		MoveInDate:       moveIn,
		NoticePeriodDays: input.NoticePeriodDays,
		AgreementMonths:  input.AgreementMonths,
		RentDueDay:       input.RentDueDay,
	})
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "tenant.assign", "tenant", tenant.TenantID, nil, accommodation)
	ctx.JSON(iris.Map{
		"tenantID":      tenant.TenantID,
		"accommodation": accommodation,
	})
}

type RemoveTenantInput struct {
	TenantID    string `json:"tenantID" validate:"required"`
	PropertyID  string `json:"propertyID" validate:"required"`
	RoomID      string `json:"roomID" validate:"required"`
	BedID       string `json:"bedID"`
	MoveOutDate string `json:"moveOutDate"` // 2006-01-02, defaults to today
}

func RemoveTenant(ctx iris.Context) {
	var input RemoveTenantInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	var moveOut time.Time
	if input.MoveOutDate != "" {
		parsed, err := time.Parse("2006-01-02", input.MoveOutDate)
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "ValidationError", "moveOutDate must be YYYY-MM-DD", ctx)
			return
		}
		moveOut = parsed
	}

	err := services.RemoveTenant(storage.DB, claims.ID, input.PropertyID, services.RemoveInput{
		TenantID:    input.TenantID,
		RoomID:      input.RoomID,
		BedID:       input.BedID,
		MoveOutDate: moveOut,
	})
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "tenant.remove", "tenant", input.TenantID, nil, input)
	ctx.StatusCode(iris.StatusNoContent)
}

func GetTenant(ctx iris.Context) {
	id := ctx.Params().Get("id")

	tenant, err := services.GetTenant(storage.DB, id)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(tenant)
}
