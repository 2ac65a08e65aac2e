package types

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationFollow          NotificationType = "follow"
	NotificationLike            NotificationType = "like"
	NotificationComment         NotificationType = "comment"
	NotificationCollectionShare NotificationType = "collection_share"
	NotificationModeration      NotificationType = "moderation"
)

type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Type      NotificationType `gorm:"type:text;not null;column:type" json:"type"`
	Title     string           `gorm:"not null;column:title" json:"title"`
	Message   string           `gorm:"not null;column:message" json:"message"`
	LinkURL   string           `gorm:"column:link_url" json:"link_url"`
	IsRead    bool             `gorm:"not null;default:false;column:is_read" json:"is_read"`
	CreatedAt time.Time        `gorm:"not null;default:now()" json:"created_at"`
}

func (Notification) TableName() string {
	return "notification"
}
