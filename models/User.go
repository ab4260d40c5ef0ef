package models

import "gorm.io/gorm"

const (
	RoleUser       = "user"
	RoleOwner      = "owner"
	RoleManager    = "manager"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

var Roles = []string{RoleUser, RoleOwner, RoleManager, RoleAdmin, RoleSuperAdmin}

type User struct {
	gorm.Model
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Email               string `json:"email" gorm:"uniqueIndex"`
	PhoneNumber         string `json:"phoneNumber"`
	Password            string `json:"-"`
	AvatarURL           string `json:"avatarURL"`
	AllowsNotifications *bool  `json:"allowsNotifications"`
	Role                string `json:"role" gorm:"type:varchar(20);default:user;index"` // user, owner, manager, admin, super_admin
	// Restaurant a manager works for. Nil for every other role.
	RestaurantID *uint `json:"restaurantID" gorm:"index"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
