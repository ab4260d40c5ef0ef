package utils

import (
	"booking-restaurant-server/models"
	"context"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
)

const (
	authContextKey = "authContext"
	requestIDKey   = "requestID"
)

// AuthContext is the caller identity resolved once per request.
type AuthContext struct {
	UserID uint
	Role   string
	// RestaurantID is set for managers only: the restaurant they work for.
	RestaurantID *uint
}

func (a *AuthContext) IsAdmin() bool {
	return a != nil && (a.Role == models.RoleAdmin || a.Role == models.RoleSuperAdmin)
}

func (a *AuthContext) HasRole(roles ...string) bool {
	return a != nil && slices.Contains(roles, a.Role)
}

// ManagerRestaurantResolver looks up the restaurant a manager is assigned to.
type ManagerRestaurantResolver func(ctx context.Context, userID uint) (*uint, error)

func accessClaims(ctx iris.Context) *AccessToken {
	claims, _ := jwt.Get(ctx).(*AccessToken)
	return claims
}

// AuthContextMiddleware builds the AuthContext from the verified access token.
// Managers get their restaurant resolved here so handlers never look it up again.
// A manager without a restaurant keeps a nil RestaurantID; restaurant-scoped routes
// reject them through RequireManagerRestaurant.
func AuthContextMiddleware(resolve ManagerRestaurantResolver) iris.Handler {
	return func(ctx iris.Context) {
		claims := accessClaims(ctx)
		if claims == nil {
			CreateError(iris.StatusUnauthorized, "Unauthorized", "missing access token", ctx)
			return
		}

		auth := &AuthContext{UserID: claims.ID, Role: claims.Role}
		if auth.Role == models.RoleManager && resolve != nil {
			restaurantID, err := resolve(ctx.Request().Context(), auth.UserID)
			if err != nil && !IsKind(err, KindAuthorization) {
				WriteError(ctx, err)
				return
			}
			auth.RestaurantID = restaurantID
		}

		ctx.Values().Set(authContextKey, auth)
		ctx.Values().Set("userID", auth.UserID)
		ctx.Next()
	}
}

func GetAuthContext(ctx iris.Context) *AuthContext {
	auth, _ := ctx.Values().Get(authContextKey).(*AuthContext)
	return auth
}

// RequireRoles lets the request through only when the caller has one of the given roles.
// Must run after AuthContextMiddleware.
func RequireRoles(roles ...string) iris.Handler {
	return func(ctx iris.Context) {
		auth := GetAuthContext(ctx)
		if !auth.HasRole(roles...) {
			CreateForbidden(ctx, "insufficient role")
			return
		}
		ctx.Next()
	}
}

// RequireManagerRestaurant stops managers who are not assigned to a restaurant.
// Must run after AuthContextMiddleware.
func RequireManagerRestaurant(ctx iris.Context) {
	auth := GetAuthContext(ctx)
	if auth != nil && auth.Role == models.RoleManager && auth.RestaurantID == nil {
		CreateForbidden(ctx, "manager is not assigned to a restaurant")
		return
	}
	ctx.Next()
}

// AdminOnlyMiddleware ensures the requester has admin or super_admin role
var AdminOnlyMiddleware = RequireRoles(models.RoleAdmin, models.RoleSuperAdmin)

// SuperAdminOnlyMiddleware ensures only super admins can access
var SuperAdminOnlyMiddleware = RequireRoles(models.RoleSuperAdmin)

// RequestIDMiddleware tags every request with an id, reusing X-Request-ID when the caller sent one.
func RequestIDMiddleware(ctx iris.Context) {
	id := ctx.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	ctx.Values().Set(requestIDKey, id)
	ctx.Header("X-Request-ID", id)
	ctx.Next()
}

func RequestID(ctx iris.Context) string {
	return ctx.Values().GetString(requestIDKey)
}
