package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/filmpulse/filmpulse-backend/internal/timeline"
)

type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

func (m ModerationStatus) Valid() bool {
	switch m {
	case ModerationPending, ModerationApproved, ModerationRejected:
		return true
	}
	return false
}

// EmotionGraph is one persisted timeline. UserID is nil for system-generated
// rows (nlp_analysis and consensus). Exactly one consensus row exists per
// movie; it is the only graph ever updated in place.
type EmotionGraph struct {
	ID               uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	MovieID          uuid.UUID           `gorm:"type:uuid;not null;index;column:movie_id" json:"movie_id"`
	UserID           *uuid.UUID          `gorm:"type:uuid;index;column:user_id" json:"user_id"`
	SourceType       timeline.SourceType `gorm:"type:text;not null;index;column:source_type" json:"source_type"`
	GraphData        datatypes.JSON      `gorm:"type:jsonb;not null;column:graph_data" json:"graph_data"`
	IsPublic         bool                `gorm:"not null;default:true;column:is_public" json:"is_public"`
	ModerationStatus ModerationStatus    `gorm:"type:text;not null;default:'pending';column:moderation_status" json:"moderation_status"`
	CreatedAt        time.Time           `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time           `gorm:"not null;default:now()" json:"updated_at"`
}

func (EmotionGraph) TableName() string {
	return "emotion_graph"
}

// Points deserializes graph_data, failing closed on any schema violation.
func (g *EmotionGraph) Points() ([]timeline.Point, error) {
	var points []timeline.Point
	if err := json.Unmarshal(g.GraphData, &points); err != nil {
		return nil, fmt.Errorf("graph %s has malformed graph_data: %w", g.ID, err)
	}
	if err := timeline.ValidatePoints(points); err != nil {
		return nil, fmt.Errorf("graph %s has invalid graph_data: %w", g.ID, err)
	}
	return points, nil
}

// SetPoints validates and serializes points into graph_data.
func (g *EmotionGraph) SetPoints(points []timeline.Point) error {
	if err := timeline.ValidatePoints(points); err != nil {
		return err
	}
	raw, err := json.Marshal(points)
	if err != nil {
		return err
	}
	g.GraphData = datatypes.JSON(raw)
	return nil
}
