package utils

import (
	"booking-restaurant-server/config"
	"booking-restaurant-server/models"
	"booking-restaurant-server/storage"
	"context"
	"strconv"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

var bgContext = context.Background()

var tokenConfig = config.JWTConfig{AccessTTL: 24 * time.Hour, RefreshTTL: 365 * 24 * time.Hour}

func ConfigureTokens(cfg config.JWTConfig) {
	tokenConfig = cfg
}

type AccessToken struct {
	ID   uint   `json:"ID"`
	Role string `json:"role"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func SignAccessToken(id uint, role string) (string, error) {
	signer := jwt.NewSigner(jwt.HS256, []byte(tokenConfig.AccessSecret), tokenConfig.AccessTTL)
	token, err := signer.Sign(AccessToken{ID: id, Role: role})
	if err != nil {
		return "", err
	}
	return string(token), nil
}

func CreateTokenPair(id uint) (*TokenPair, error) {
	refreshTokenSigner := jwt.NewSigner(jwt.HS256, []byte(tokenConfig.RefreshSecret), tokenConfig.RefreshTTL)

	// Load role for embedding into access token
	var u models.User
	role := models.RoleUser
	if err := storage.DB.Select("id, role").First(&u, id).Error; err == nil && u.Role != "" {
		role = u.Role
	}

	accessToken, err := SignAccessToken(id, role)
	if err != nil {
		return nil, err
	}

	refreshClaims := jwt.Claims{Subject: strconv.FormatUint(uint64(id), 10)}
	refreshToken, err := refreshTokenSigner.Sign(refreshClaims)
	if err != nil {
		return nil, err
	}

	if err := storage.Redis.Set(bgContext, string(refreshToken), "true", tokenConfig.RefreshTTL+5*time.Minute).Err(); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: string(refreshToken)}, nil
}

func RefreshToken(ctx iris.Context) {
	token := jwt.GetVerifiedToken(ctx)
	tokenStr := string(token.Token)
	validToken, tokenErr := storage.Redis.Get(bgContext, tokenStr).Result()

	if tokenErr != nil {
		CreateNotFound(ctx)
		return
	}

	if validToken != "true" {
		CreateForbidden(ctx, "refresh token revoked")
		return
	}

	storage.Redis.Del(bgContext, tokenStr)
	userID, parseErr := strconv.ParseUint(token.StandardClaims.Subject, 10, 32)
	if parseErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	tokenPair, tokenPairErr := CreateTokenPair(uint(userID))
	if tokenPairErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(tokenPair)
}
