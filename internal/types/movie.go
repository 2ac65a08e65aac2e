package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Movie struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TmdbID      *int64         `gorm:"uniqueIndex;column:tmdb_id" json:"tmdb_id"`
	Title       string         `gorm:"not null;index;column:title" json:"title"`
	Synopsis    string         `gorm:"type:text;column:synopsis" json:"synopsis"`
	Year        *int           `gorm:"column:year" json:"year"`
	Runtime     *int           `gorm:"column:runtime" json:"runtime"`
	Director    string         `gorm:"column:director" json:"director"`
	Genres      datatypes.JSON `gorm:"type:jsonb;column:genres" json:"genres"`
	CastMembers datatypes.JSON `gorm:"type:jsonb;column:cast_members" json:"cast_members"`
	PosterURL   string         `gorm:"column:poster_url" json:"poster_url"`
	BackdropURL string         `gorm:"column:backdrop_url" json:"backdrop_url"`
	TrailerURL  string         `gorm:"column:trailer_url" json:"trailer_url"`
	Rating      *float64       `gorm:"column:rating" json:"rating"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Movie) TableName() string {
	return "movie"
}
