package utils

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/storage"
	"encoding/json"
	"net"

	"github.com/kataras/golog"
	"github.com/kataras/iris/v12"
)

// Audit records a privileged mutation made by the current caller.
func Audit(ctx iris.Context, action, resourceType string, resourceID uint, before interface{}, after interface{}) {
	entry := NewAuditLog(GetAuthContext(ctx), action, resourceType, resourceID, before, after)
	entry.IPAddress = clientIP(ctx)
	entry.RequestID = RequestID(ctx)
	if err := storage.DB.Create(&entry).Error; err != nil {
		golog.Warnf("⚠️  audit %s on %s#%d not recorded: %v", action, resourceType, resourceID, err)
	}
}

func NewAuditLog(auth *AuthContext, action, resourceType string, resourceID uint, before interface{}, after interface{}) models.AuditLog {
	entry := models.AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeJSON:   marshalSnapshot(before),
		AfterJSON:    marshalSnapshot(after),
	}
	if auth != nil {
		entry.ActorUserID = auth.UserID
		entry.ActorRole = auth.Role
	}
	return entry
}

func marshalSnapshot(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func clientIP(ctx iris.Context) string {
	if ip := ctx.GetHeader("X-Forwarded-For"); ip != "" {
		return ip
	}
	addr := ctx.RemoteAddr()
	if ip, _, err := net.SplitHostPort(addr); err == nil {
		return ip
	}
	return addr
}
