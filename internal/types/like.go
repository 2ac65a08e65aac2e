package types

import (
	"time"

	"github.com/google/uuid"
)

// Like targets exactly one of GraphID or ReviewID.
type Like struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	GraphID   *uuid.UUID `gorm:"type:uuid;index;column:graph_id" json:"graph_id"`
	ReviewID  *uuid.UUID `gorm:"type:uuid;index;column:review_id" json:"review_id"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (Like) TableName() string {
	return "like"
}
