package routes

import (
	"booking-restaurant-server/storage"
	"booking-restaurant-server/utils"
	"errors"

	"github.com/kataras/iris/v12"
)

type uploadInput struct {
	Data     string `json:"data" validate:"required"` // base64 data URL or raw base64
	PublicID string `json:"public_id"`                // optional
}

type deleteImageInput struct {
	URL string `json:"url" validate:"required,url"`
}

// UploadImage handles base64 restaurant and menu image uploads.
func UploadImage(ctx iris.Context) {
	var in uploadInput
	if !readJSON(ctx, &in) {
		return
	}
	url, err := storage.Images.UploadBase64(ctx.Request().Context(), in.Data, in.PublicID)
	if err != nil {
		if errors.Is(err, storage.ErrImagesNotConfigured) {
			utils.WriteError(ctx, utils.NewUpstreamError("image host", err))
			return
		}
		utils.WriteError(ctx, utils.NewUpstreamError("image upload", err))
		return
	}
	utils.JSONCreated(ctx, iris.Map{"url": url})
}

func DeleteImage(ctx iris.Context) {
	var in deleteImageInput
	if !readJSON(ctx, &in) {
		return
	}
	if err := storage.Images.Delete(ctx.Request().Context(), in.URL); err != nil {
		utils.WriteError(ctx, utils.NewUpstreamError("image delete", err))
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}
