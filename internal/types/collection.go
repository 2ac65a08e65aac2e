package types

import (
	"time"

	"github.com/google/uuid"
)

type Collection struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	IsPublic    bool      `gorm:"not null;default:true;column:is_public" json:"is_public"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Collection) TableName() string {
	return "collection"
}

type CollectionItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CollectionID uuid.UUID  `gorm:"type:uuid;not null;index;column:collection_id" json:"collection_id"`
	MovieID      uuid.UUID  `gorm:"type:uuid;not null;index;column:movie_id" json:"movie_id"`
	GraphID      *uuid.UUID `gorm:"type:uuid;column:graph_id" json:"graph_id"`
	AddedAt      time.Time  `gorm:"not null;default:now();column:added_at" json:"added_at"`
}

func (CollectionItem) TableName() string {
	return "collection_item"
}
