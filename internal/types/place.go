package types

import (
	"time"

	"github.com/google/uuid"
)

type ReviewSource string

const (
	ReviewSourceUser   ReviewSource = "user"
	ReviewSourceGoogle ReviewSource = "google"
)

// Place is a point of interest keyed by its external place_id.
// Nullable columns are pointers so an upsert can tell "unknown" from "empty".
type Place struct {
	ID            uuid.UUID `json:"id"`
	PlaceID       string    `json:"place_id" example:"ChIJ9Q1oFkKifDURNzgb0n1Z6cE"`
	Name          string    `json:"name" example:"N Seoul Tower"`
	Description   *string   `json:"description,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	OpeningHours  *string   `json:"opening_hours,omitempty"`
	ClosedDays    *string   `json:"closed_days,omitempty"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	AverageRating *float64  `json:"average_rating,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Review struct {
	ID               uuid.UUID    `json:"id"`
	PlaceID          string       `json:"place_id"`
	PlaceName        string       `json:"place_name"`
	UserName         string       `json:"user_name"`
	Rating           float64      `json:"rating"`
	Comment          *string      `json:"comment,omitempty"`
	ReviewDate       time.Time    `json:"review_date"`
	Source           ReviewSource `json:"source"`
	ExternalReviewID *string      `json:"external_review_id,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
}

// PlaceActivity is append-only; there is no update path.
type PlaceActivity struct {
	ID              uuid.UUID `json:"id"`
	PlaceID         string    `json:"place_id"`
	ActivityType    string    `json:"activity_type"`
	Description     *string   `json:"description,omitempty"`
	RecommendedTime *string   `json:"recommended_time,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// FavoritePlace is a favorite row joined with its place.
type FavoritePlace struct {
	FavoriteID    uuid.UUID `json:"favorite_id"`
	PlaceID       string    `json:"place_id"`
	Name          string    `json:"name"`
	Address       *string   `json:"address,omitempty"`
	AverageRating *float64  `json:"average_rating,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type PlaceDetails struct {
	Place      *Place          `json:"place"`
	Reviews    []Review        `json:"reviews"`
	Activities []PlaceActivity `json:"activities"`
}

// PlaceRecord is the provider-neutral shape of an upstream place lookup.
type PlaceRecord struct {
	PlaceID      string
	Name         string
	Address      *string
	Phone        *string
	OpeningHours *string
	Latitude     *float64
	Longitude    *float64
	Rating       *float64
	Reviews      []ExternalReview
}

type ExternalReview struct {
	ExternalID string
	AuthorName string
	Rating     float64
	Text       string
	Time       time.Time
}

type PlaceSearchResult struct {
	PlaceID string `json:"placeId"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type GeocodeResult struct {
	Address      string `json:"address"`
	LocationName string `json:"locationName"`
}
