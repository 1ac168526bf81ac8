// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with `swag init` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/places/search": {
            "post": {
                "tags": ["places"],
                "summary": "Find a place by name",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.SearchPlaceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/places/sync-reviews": {
            "post": {
                "tags": ["places"],
                "summary": "Import provider reviews for a place",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.SyncReviewsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/places/by-name/{placeName}": {
            "get": {
                "tags": ["places"],
                "summary": "Stored places whose name contains the given text",
                "parameters": [
                    {"type": "string", "in": "path", "name": "placeName", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/places/{placeId}": {
            "get": {
                "tags": ["places"],
                "summary": "Stored place and its activities",
                "parameters": [
                    {"type": "string", "in": "path", "name": "placeId", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/places/{placeId}/details": {
            "get": {
                "tags": ["places"],
                "summary": "Place with a page of reviews and its activities",
                "parameters": [
                    {"type": "string", "in": "path", "name": "placeId", "required": true},
                    {"type": "integer", "default": 10, "in": "query", "name": "limit"},
                    {"type": "integer", "default": 0, "in": "query", "name": "offset"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/places/{placeId}/activities": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["places"],
                "summary": "Record an activity for a place",
                "parameters": [
                    {"type": "string", "in": "path", "name": "placeId", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.CreateActivityRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/places/favorites": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["favorites"],
                "summary": "Caller's favorite places",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["favorites"],
                "summary": "Add a place to the caller's favorites",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.FavoriteRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["favorites"],
                "summary": "Remove a place from the caller's favorites",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.FavoriteRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/places/favorites/{placeId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["favorites"],
                "summary": "Whether a place is in the caller's favorites",
                "parameters": [
                    {"type": "string", "in": "path", "name": "placeId", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reviews": {
            "post": {
                "tags": ["reviews"],
                "summary": "Write a review",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.CreateReviewRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/reviews/{placeId}": {
            "get": {
                "tags": ["reviews"],
                "summary": "Reviews of a place",
                "parameters": [
                    {"type": "string", "in": "path", "name": "placeId", "required": true},
                    {"type": "integer", "default": 10, "in": "query", "name": "limit"},
                    {"type": "integer", "default": 0, "in": "query", "name": "offset"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/reviews/{reviewId}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["reviews"],
                "summary": "Delete a review",
                "parameters": [
                    {"type": "string", "in": "path", "name": "reviewId", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/recommend-route": {
            "post": {
                "tags": ["recommendations"],
                "summary": "Places worth visiting near a coordinate",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.NearbyRecommendationRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "429": {"description": "Too Many Requests"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/recommend-route/travel-route": {
            "post": {
                "tags": ["recommendations"],
                "summary": "Multi-day itinerary between two locations",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.TravelRouteRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "429": {"description": "Too Many Requests"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Caller's member record",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        }
    },
    "definitions": {
        "types.SearchPlaceRequest": {
            "type": "object",
            "required": ["placeName"],
            "properties": {
                "placeName": {"type": "string", "example": "N Seoul Tower"},
                "apiKey": {"type": "string"}
            }
        },
        "types.SyncReviewsRequest": {
            "type": "object",
            "required": ["placeId"],
            "properties": {
                "placeId": {"type": "string", "example": "ChIJ9Q1oFkKifDURNzgb0n1Z6cE"},
                "placeName": {"type": "string", "example": "N Seoul Tower"},
                "apiKey": {"type": "string"}
            }
        },
        "types.FavoriteRequest": {
            "type": "object",
            "required": ["placeId"],
            "properties": {
                "placeId": {"type": "string"},
                "place_id": {"type": "string", "description": "Alternative spelling of placeId"}
            }
        },
        "types.CreateReviewRequest": {
            "type": "object",
            "required": ["placeId", "placeName", "userName", "rating"],
            "properties": {
                "placeId": {"type": "string"},
                "placeName": {"type": "string"},
                "userName": {"type": "string", "maxLength": 100},
                "rating": {"type": "number", "minimum": 1, "maximum": 5, "example": 4.5},
                "comment": {"type": "string", "maxLength": 2000}
            }
        },
        "types.CreateActivityRequest": {
            "type": "object",
            "required": ["activityType"],
            "properties": {
                "activityType": {"type": "string", "example": "night view"},
                "description": {"type": "string"},
                "recommendedTime": {"type": "string", "example": "evening"}
            }
        },
        "types.NearbyRecommendationRequest": {
            "type": "object",
            "required": ["latitude", "longitude"],
            "properties": {
                "latitude": {"type": "number", "example": 37.5512},
                "longitude": {"type": "number", "example": 126.9882}
            }
        },
        "types.TravelRouteRequest": {
            "type": "object",
            "required": ["endLocation", "leisureType", "experienceType"],
            "properties": {
                "startLocation": {"type": "string", "example": "Seoul"},
                "endLocation": {"type": "string", "example": "Busan"},
                "leisureType": {"type": "string", "example": "tourism"},
                "experienceType": {"type": "string", "example": "food"},
                "travelDays": {"type": "integer", "minimum": 1, "maximum": 14, "example": 3}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Travel Recommendations API",
	Description:      "Places, reviews, favorites and AI travel recommendations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
