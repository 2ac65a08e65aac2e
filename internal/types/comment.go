package types

import (
	"time"

	"github.com/google/uuid"
)

// Comment targets exactly one of GraphID or ReviewID.
type Comment struct {
	ID               uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID        `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Content          string           `gorm:"type:text;not null;column:content" json:"content"`
	GraphID          *uuid.UUID       `gorm:"type:uuid;index;column:graph_id" json:"graph_id"`
	ReviewID         *uuid.UUID       `gorm:"type:uuid;index;column:review_id" json:"review_id"`
	ModerationStatus ModerationStatus `gorm:"type:text;not null;default:'approved';column:moderation_status" json:"moderation_status"`
	CreatedAt        time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"not null;default:now()" json:"updated_at"`
}

func (Comment) TableName() string {
	return "comment"
}
