package routes

import (
	"errors"

	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/services"
	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/utils"

	"github.com/kataras/iris/v12"
)

// handleServiceError maps the occupancy-engine error taxonomy onto the JSON
// error shape. Anything without a taxonomy kind is an internal error and the
// reason stays in the logs.
func handleServiceError(err error, ctx iris.Context) {
	var op *services.OpError
	if errors.As(err, &op) {
		utils.CreateError(op.StatusCode(), string(op.Kind), op.Reason, ctx)
		return
	}
	utils.CreateInternalServerError(ctx)
}
