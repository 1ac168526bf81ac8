package googlemaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-travel-recommendations/app/breaker"
	"github.com/FACorreiaa/go-travel-recommendations/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com/maps/api"
	providerName   = "google_maps"
	detailsFields  = "name,rating,formatted_address,geometry,reviews,formatted_phone_number,opening_hours"
)

// ClientConfig is the explicit configuration of the Maps client.
type ClientConfig struct {
	APIKey   string
	BaseURL  string
	Language string
	Timeout  time.Duration
}

type Client struct {
	cfg     ClientConfig
	http    *http.Client
	breaker *breaker.Breaker
	logger  *slog.Logger
}

func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: breaker.New(providerName, breaker.DefaultSettings(), logger),
		logger:  logger,
	}
}

type geometry struct {
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

type addressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type geocodeResult struct {
	FormattedAddress  string             `json:"formatted_address"`
	AddressComponents []addressComponent `json:"address_components"`
}

type geocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message"`
	Results      []geocodeResult `json:"results"`
}

type findPlaceResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Candidates   []struct {
		PlaceID          string `json:"place_id"`
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"candidates"`
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Name                 string    `json:"name"`
		Rating               *float64  `json:"rating"`
		FormattedAddress     string    `json:"formatted_address"`
		FormattedPhoneNumber string    `json:"formatted_phone_number"`
		Geometry             *geometry `json:"geometry"`
		OpeningHours         *struct {
			WeekdayText []string `json:"weekday_text"`
		} `json:"opening_hours"`
		Reviews []struct {
			AuthorName string  `json:"author_name"`
			Rating     float64 `json:"rating"`
			Text       string  `json:"text"`
			Time       int64   `json:"time"`
		} `json:"reviews"`
	} `json:"result"`
}

// Geocode reverse-geocodes a coordinate into an address and a short
// human-readable location name.
func (c *Client) Geocode(ctx context.Context, lat, lon float64) (*types.GeocodeResult, error) {
	ctx, span := otel.Tracer("GoogleMapsClient").Start(ctx, "Geocode", trace.WithAttributes(
		attribute.Float64("geo.latitude", lat),
		attribute.Float64("geo.longitude", lon),
	))
	defer span.End()

	q := url.Values{}
	q.Set("latlng", strconv.FormatFloat(lat, 'f', -1, 64)+","+strconv.FormatFloat(lon, 'f', -1, 64))

	var resp geocodeResponse
	err := c.call(ctx, "geocode", "/geocode/json", q, "", &resp)
	if err == nil && len(resp.Results) == 0 {
		err = fmt.Errorf("%w: no geocoding results", types.ErrNotFound)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "geocode failed")
		return nil, fmt.Errorf("geocoding %f,%f: %w", lat, lon, err)
	}

	first := resp.Results[0]
	return &types.GeocodeResult{
		Address:      first.FormattedAddress,
		LocationName: ExtractLocationName(first.AddressComponents, first.FormattedAddress),
	}, nil
}

// FindPlace resolves free text to the best matching place. An empty apiKey
// uses the configured key.
func (c *Client) FindPlace(ctx context.Context, name, apiKey string) (*types.PlaceSearchResult, error) {
	ctx, span := otel.Tracer("GoogleMapsClient").Start(ctx, "FindPlace", trace.WithAttributes(
		attribute.String("place.query", name),
	))
	defer span.End()

	q := url.Values{}
	q.Set("input", name)
	q.Set("inputtype", "textquery")
	q.Set("fields", "place_id,name,formatted_address")

	var resp findPlaceResponse
	err := c.call(ctx, "find_place", "/place/findplacefromtext/json", q, apiKey, &resp)
	if err == nil && len(resp.Candidates) == 0 {
		err = types.ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "find place failed")
		return nil, fmt.Errorf("finding place %q: %w", name, err)
	}

	cand := resp.Candidates[0]
	return &types.PlaceSearchResult{
		PlaceID: cand.PlaceID,
		Name:    cand.Name,
		Address: cand.FormattedAddress,
	}, nil
}

// PlaceDetails fetches a place with up to five provider reviews.
func (c *Client) PlaceDetails(ctx context.Context, placeID, apiKey string) (*types.PlaceRecord, error) {
	ctx, span := otel.Tracer("GoogleMapsClient").Start(ctx, "PlaceDetails", trace.WithAttributes(
		attribute.String("place.id", placeID),
	))
	defer span.End()

	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", detailsFields)

	var resp detailsResponse
	err := c.call(ctx, "place_details", "/place/details/json", q, apiKey, &resp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "place details failed")
		return nil, fmt.Errorf("fetching details for %s: %w", placeID, err)
	}

	res := resp.Result
	record := &types.PlaceRecord{
		PlaceID: placeID,
		Name:    res.Name,
		Address: optional(res.FormattedAddress),
		Phone:   optional(res.FormattedPhoneNumber),
		Rating:  res.Rating,
	}
	if res.Geometry != nil {
		lat, lng := res.Geometry.Location.Lat, res.Geometry.Location.Lng
		record.Latitude, record.Longitude = &lat, &lng
	}
	if res.OpeningHours != nil && len(res.OpeningHours.WeekdayText) > 0 {
		hours := strings.Join(res.OpeningHours.WeekdayText, "\n")
		record.OpeningHours = &hours
	}
	for i, rv := range res.Reviews {
		record.Reviews = append(record.Reviews, types.ExternalReview{
			ExternalID: ExternalReviewID(placeID, i),
			AuthorName: rv.AuthorName,
			Rating:     rv.Rating,
			Text:       rv.Text,
			Time:       time.Unix(rv.Time, 0).UTC(),
		})
	}
	span.SetAttributes(attribute.Int("place.reviews", len(record.Reviews)))
	return record, nil
}

// ExternalReviewID is the dedup key of the i-th provider review of a place.
func ExternalReviewID(placeID string, index int) string {
	return fmt.Sprintf("google-%s-%d", placeID, index)
}

// statusReporter is implemented by every Maps response envelope.
type statusReporter interface {
	apiStatus() (status, message string)
}

func (r *geocodeResponse) apiStatus() (string, string)   { return r.Status, r.ErrorMessage }
func (r *findPlaceResponse) apiStatus() (string, string) { return r.Status, r.ErrorMessage }
func (r *detailsResponse) apiStatus() (string, string)   { return r.Status, r.ErrorMessage }

// call performs one Maps request. Requests made with a caller-supplied key
// bypass the shared breaker, so a bad key only fails its own caller; a
// REQUEST_DENIED answer to such a key is a validation error.
func (c *Client) call(ctx context.Context, op, path string, q url.Values, apiKey string, dst statusReporter) error {
	callerKey := apiKey != "" && apiKey != c.cfg.APIKey
	if apiKey == "" {
		apiKey = c.cfg.APIKey
	}
	if apiKey == "" {
		return fmt.Errorf("%w: google maps api key is not configured", types.ErrUpstream)
	}
	q.Set("key", apiKey)
	if c.cfg.Language != "" {
		q.Set("language", c.cfg.Language)
	}
	endpoint := c.cfg.BaseURL + path + "?" + q.Encode()

	do := func() (struct{}, error) {
		if err := c.doGet(ctx, endpoint, dst); err != nil {
			return struct{}{}, err
		}
		status, message := dst.apiStatus()
		if callerKey && status == "REQUEST_DENIED" {
			return struct{}{}, fmt.Errorf("%w: the supplied apiKey was rejected by google maps", types.ErrValidation)
		}
		return struct{}{}, statusError(status, message)
	}

	start := time.Now()
	var err error
	if callerKey {
		_, err = do()
	} else {
		_, err = breaker.Execute(c.breaker, do)
	}
	observe(ctx, op, start, err)
	if err != nil {
		c.logger.WarnContext(ctx, "Google Maps request failed", slog.String("op", op), slog.Any("error", err))
	}
	return err
}

func (c *Client) doGet(ctx context.Context, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", types.ErrUpstream, redactKey(err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: google maps returned status %d", types.ErrUpstream, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decoding google maps response: %v", types.ErrUpstream, err)
	}
	return nil
}

// statusError maps the Maps API status field onto the error taxonomy.
func statusError(status, message string) error {
	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS", "NOT_FOUND", "INVALID_REQUEST":
		return fmt.Errorf("%w: %s", types.ErrNotFound, strings.ToLower(status))
	default:
		if message != "" {
			return fmt.Errorf("%w: %s: %s", types.ErrUpstream, status, message)
		}
		return fmt.Errorf("%w: %s", types.ErrUpstream, status)
	}
}

func observe(ctx context.Context, op string, start time.Time, err error) {
	m := metrics.Get()
	outcome := "success"
	switch {
	case errors.Is(err, types.ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("provider", providerName),
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	)
	m.ProviderRequestsTotal.Add(ctx, 1, attrs)
	m.ProviderDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
}

// redactKey strips the key query parameter from transport error messages,
// which embed the full request URL.
func redactKey(msg string) string {
	i := strings.Index(msg, "key=")
	if i < 0 {
		return msg
	}
	end := strings.IndexAny(msg[i:], "&\" ")
	if end < 0 {
		return msg[:i] + "key=REDACTED"
	}
	return msg[:i] + "key=REDACTED" + msg[i+end:]
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
