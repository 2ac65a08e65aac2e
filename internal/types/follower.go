package types

import (
	"time"

	"github.com/google/uuid"
)

type Follower struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FollowerID  uuid.UUID `gorm:"type:uuid;not null;index:idx_follower_pair,unique;column:follower_id" json:"follower_id"`
	FollowingID uuid.UUID `gorm:"type:uuid;not null;index:idx_follower_pair,unique;column:following_id" json:"following_id"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Follower) TableName() string {
	return "follower"
}
