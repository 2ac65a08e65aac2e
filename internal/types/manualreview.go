package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/filmpulse/filmpulse-backend/internal/timeline"
)

type ManualReview struct {
	ID               uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	MovieID          uuid.UUID        `gorm:"type:uuid;not null;index;column:movie_id" json:"movie_id"`
	UserID           uuid.UUID        `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	SectionRatings   datatypes.JSON   `gorm:"type:jsonb;not null;column:section_ratings" json:"section_ratings"`
	OverallRating    float64          `gorm:"column:overall_rating" json:"overall_rating"`
	ReviewText       string           `gorm:"type:text;column:review_text" json:"review_text"`
	IsPublic         bool             `gorm:"not null;default:true;column:is_public" json:"is_public"`
	ModerationStatus ModerationStatus `gorm:"type:text;not null;default:'pending';column:moderation_status" json:"moderation_status"`
	GraphID          *uuid.UUID       `gorm:"type:uuid;column:graph_id" json:"graph_id"`
	CreatedAt        time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"not null;default:now()" json:"updated_at"`
}

func (ManualReview) TableName() string {
	return "manual_review"
}

// Ratings deserializes section_ratings, failing closed on schema violations.
func (r *ManualReview) Ratings() (timeline.SectionRatings, error) {
	var sr timeline.SectionRatings
	if err := json.Unmarshal(r.SectionRatings, &sr); err != nil {
		return sr, fmt.Errorf("review %s has malformed section_ratings: %w", r.ID, err)
	}
	if err := sr.Validate(); err != nil {
		return sr, fmt.Errorf("review %s has invalid section_ratings: %w", r.ID, err)
	}
	return sr, nil
}

func (r *ManualReview) SetRatings(sr timeline.SectionRatings) error {
	if err := sr.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(sr)
	if err != nil {
		return err
	}
	r.SectionRatings = datatypes.JSON(raw)
	return nil
}
