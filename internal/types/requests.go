package types

import (
	"bytes"
	"encoding/json"
)

type SearchPlaceRequest struct {
	PlaceName string `json:"placeName" validate:"required" example:"N Seoul Tower"`
	APIKey    string `json:"apiKey,omitempty"`
}

type SyncReviewsRequest struct {
	PlaceID   string `json:"placeId" validate:"required" example:"ChIJ9Q1oFkKifDURNzgb0n1Z6cE"`
	PlaceName string `json:"placeName,omitempty" example:"N Seoul Tower"`
	APIKey    string `json:"apiKey,omitempty"`
}

type FavoriteRequest struct {
	PlaceID string `json:"placeId" validate:"required" example:"ChIJ9Q1oFkKifDURNzgb0n1Z6cE"`
}

// UnmarshalJSON accepts the place id as either "placeId" or "place_id".
// Unknown keys are still rejected.
func (f *FavoriteRequest) UnmarshalJSON(data []byte) error {
	var aux struct {
		PlaceID      string `json:"placeId"`
		SnakePlaceID string `json:"place_id"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&aux); err != nil {
		return err
	}

	f.PlaceID = aux.PlaceID
	if f.PlaceID == "" {
		f.PlaceID = aux.SnakePlaceID
	}
	return nil
}

type CreateReviewRequest struct {
	PlaceID   string   `json:"placeId" validate:"required"`
	PlaceName string   `json:"placeName" validate:"required"`
	UserName  string   `json:"userName" validate:"required,max=100"`
	Rating    *float64 `json:"rating" validate:"required,gte=1,lte=5" example:"4.5"`
	Comment   *string  `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

type CreateActivityRequest struct {
	ActivityType    string  `json:"activityType" validate:"required,max=100" example:"night view"`
	Description     *string `json:"description,omitempty"`
	RecommendedTime *string `json:"recommendedTime,omitempty" example:"evening"`
}

type NearbyRecommendationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude" example:"37.5512"`
	Longitude *float64 `json:"longitude" validate:"required,longitude" example:"126.9882"`
}

type TravelRouteRequest struct {
	StartLocation  string `json:"startLocation,omitempty" example:"Seoul"`
	EndLocation    string `json:"endLocation" validate:"required" example:"Busan"`
	LeisureType    string `json:"leisureType" validate:"required" example:"tourism"`
	ExperienceType string `json:"experienceType" validate:"required" example:"food"`
	TravelDays     *int   `json:"travelDays,omitempty" validate:"omitempty,min=1,max=14" example:"3"`
}
