package types

import (
	"time"

	"github.com/google/uuid"
)

type AppRole string

const (
	RoleAdmin     AppRole = "admin"
	RoleModerator AppRole = "moderator"
	RoleUser      AppRole = "user"
)

type UserRole struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Role      AppRole   `gorm:"type:text;not null;default:'user';column:role" json:"role"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (UserRole) TableName() string {
	return "user_role"
}
