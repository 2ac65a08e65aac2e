package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LiveReactionSession exists before its graph; GraphID is set only at
// successful completion.
type LiveReactionSession struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	MovieID     uuid.UUID      `gorm:"type:uuid;not null;index;column:movie_id" json:"movie_id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	StartedAt   time.Time      `gorm:"not null;default:now();column:started_at" json:"started_at"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completed_at"`
	IsCompleted bool           `gorm:"not null;default:false;column:is_completed" json:"is_completed"`
	SessionData datatypes.JSON `gorm:"type:jsonb;column:session_data" json:"session_data"`
	GraphID     *uuid.UUID     `gorm:"type:uuid;column:graph_id" json:"graph_id"`
}

func (LiveReactionSession) TableName() string {
	return "live_reaction_session"
}
