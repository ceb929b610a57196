package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RolePremium = "premium"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Name     string `bson:"name" json:"username"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"` // Never returned in JSON
	Role     string `bson:"role" json:"role,omitempty"`
	IsActive bool   `bson:"isActive" json:"-"`
	Avatar   string `bson:"avatar,omitempty" json:"avatar,omitempty"`

	EmailVerified          bool       `bson:"emailVerified" json:"emailVerified"`
	EmailVerificationToken string     `bson:"emailVerificationToken,omitempty" json:"-"`
	PasswordResetToken     string     `bson:"passwordResetToken,omitempty" json:"-"`
	PasswordResetExpires   *time.Time `bson:"passwordResetExpires,omitempty" json:"-"`

	LastLogin  time.Time `bson:"lastLogin" json:"lastLogin,omitempty"`
	LoginCount int       `bson:"loginCount" json:"-"`

	Preferences     Preferences     `bson:"preferences" json:"preferences"`
	SocialProviders SocialProviders `bson:"socialProviders,omitempty" json:"socialProviders,omitempty"`
	Analytics       UserAnalytics   `bson:"analytics" json:"analytics"`
}

type Preferences struct {
	Theme            string `bson:"theme" json:"theme"`
	Notifications    bool   `bson:"notifications" json:"notifications"`
	AutoSave         bool   `bson:"autoSave" json:"autoSave"`
	AutoSaveInterval int    `bson:"autoSaveInterval" json:"autoSaveInterval"` // milliseconds
}

// DefaultPreferences returns the preferences a new account starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:            "light",
		Notifications:    true,
		AutoSave:         true,
		AutoSaveInterval: 30000,
	}
}

type SocialProviders struct {
	Google   SocialAccount `bson:"google,omitempty" json:"google,omitempty"`
	GitHub   SocialAccount `bson:"github,omitempty" json:"github,omitempty"`
	LinkedIn SocialAccount `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
}

type SocialAccount struct {
	ID       string `bson:"id,omitempty" json:"id,omitempty"`
	Email    string `bson:"email,omitempty" json:"email,omitempty"`
	Username string `bson:"username,omitempty" json:"username,omitempty"`
}

type UserAnalytics struct {
	TemplatesCreated int        `bson:"templatesCreated" json:"templatesCreated"`
	TotalExports     int        `bson:"totalExports" json:"totalExports"`
	LastExportDate   *time.Time `bson:"lastExportDate,omitempty" json:"lastExportDate,omitempty"`
	FavoriteTemplate string     `bson:"favoriteTemplate,omitempty" json:"favoriteTemplate,omitempty"`
}

// PublicProfile returns the map sent back by auth endpoints. The password
// hash and token fields never appear here.
func (u *User) PublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":            u.ID.Hex(),
		"username":      u.Name,
		"email":         u.Email,
		"role":          u.Role,
		"emailVerified": u.EmailVerified,
		"preferences":   u.Preferences,
		"analytics":     u.Analytics,
		"avatar":        u.Avatar,
		"createdAt":     u.CreatedAt,
		"lastLogin":     u.LastLogin,
	}
}
