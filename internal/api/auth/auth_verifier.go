package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gocache "github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-travel-recommendations/internal/api"
	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

const maxSubjectLength = 128

type VerifierConfig struct {
	ProjectID    string
	JWKSURL      string
	IssuerPrefix string
	KeysTTL      time.Duration
	Leeway       time.Duration
	// MinRefreshInterval bounds how often an unknown kid may trigger a
	// key set fetch.
	MinRefreshInterval time.Duration
}

// Verifier checks RS256 ID tokens against the issuer's published key set.
// Keys are cached by kid and refetched when an unknown kid shows up or the
// cached entry expires, at most once per MinRefreshInterval.
type Verifier struct {
	cfg        VerifierConfig
	httpClient *http.Client
	keys       *gocache.Cache
	logger     *slog.Logger
	now        func() time.Time

	refreshMu      sync.Mutex
	lastRefresh    time.Time
	lastRefreshErr error
}

func NewVerifier(cfg VerifierConfig, logger *slog.Logger) *Verifier {
	if cfg.KeysTTL <= 0 {
		cfg.KeysTTL = time.Hour
	}
	if cfg.Leeway <= 0 {
		cfg.Leeway = 30 * time.Second
	}
	if cfg.MinRefreshInterval <= 0 {
		cfg.MinRefreshInterval = time.Minute
	}
	return &Verifier{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		keys:       gocache.New(cfg.KeysTTL, 2*cfg.KeysTTL),
		logger:     logger,
		now:        time.Now,
	}
}

func (v *Verifier) issuer() string {
	return v.cfg.IssuerPrefix + v.cfg.ProjectID
}

// Verify returns the caller identity carried by raw. Errors wrap
// ErrMissingToken (not a JWT), ErrTokenExpired, ErrTokenInvalid or, when the
// key set cannot be fetched, ErrUpstream.
func (v *Verifier) Verify(ctx context.Context, raw string) (*types.Identity, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, types.ErrMissingToken
	}

	claims := &idTokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(token *jwt.Token) (interface{}, error) {
			kid, _ := token.Header["kid"].(string)
			if kid == "" {
				return nil, fmt.Errorf("%w: token has no kid header", types.ErrTokenInvalid)
			}
			return v.key(ctx, kid)
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer()),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(v.cfg.Leeway),
	)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrUpstream):
			return nil, err
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %s", types.ErrMissingToken, err.Error())
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %s", types.ErrTokenExpired, err.Error())
		default:
			return nil, fmt.Errorf("%w: %s", types.ErrTokenInvalid, err.Error())
		}
	}

	if !api.VerifyAudience(claims.Audience, v.cfg.ProjectID) {
		return nil, fmt.Errorf("%w: unexpected audience", types.ErrTokenInvalid)
	}
	if claims.Subject == "" || len(claims.Subject) > maxSubjectLength {
		return nil, fmt.Errorf("%w: invalid subject", types.ErrTokenInvalid)
	}

	id := &types.Identity{
		UID:           claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
	}
	if claims.AuthTime > 0 {
		id.AuthTime = time.Unix(claims.AuthTime, 0).UTC()
	}
	return id, nil
}

func (v *Verifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if k, ok := v.keys.Get(kid); ok {
		return k.(*rsa.PublicKey), nil
	}

	v.refreshMu.Lock()
	defer v.refreshMu.Unlock()

	// Another request may have refreshed while we waited.
	if k, ok := v.keys.Get(kid); ok {
		return k.(*rsa.PublicKey), nil
	}

	if !v.lastRefresh.IsZero() && v.now().Sub(v.lastRefresh) < v.cfg.MinRefreshInterval {
		if v.lastRefreshErr != nil {
			return nil, v.lastRefreshErr
		}
		return nil, fmt.Errorf("%w: unknown signing key %q", types.ErrTokenInvalid, kid)
	}

	err := v.refresh(ctx)
	v.lastRefresh, v.lastRefreshErr = v.now(), err
	if err != nil {
		// A cancelled caller says nothing about the key set.
		if ctx.Err() != nil {
			v.lastRefresh, v.lastRefreshErr = time.Time{}, nil
		}
		return nil, err
	}
	if k, ok := v.keys.Get(kid); ok {
		return k.(*rsa.PublicKey), nil
	}
	return nil, fmt.Errorf("%w: unknown signing key %q", types.ErrTokenInvalid, kid)
}

func (v *Verifier) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.cfg.JWKSURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: building key set request: %w", types.ErrUpstream, err)
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: fetching key set: %w", types.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: key set endpoint returned %d", types.ErrUpstream, resp.StatusCode)
	}

	var set jsonWebKeySet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("%w: decoding key set: %w", types.ErrUpstream, err)
	}

	loaded := 0
	for _, k := range set.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		pub, err := rsaPublicKey(k.N, k.E)
		if err != nil {
			v.logger.WarnContext(ctx, "Skipping malformed signing key", slog.String("kid", k.Kid), slog.Any("error", err))
			continue
		}
		v.keys.Set(k.Kid, pub, gocache.DefaultExpiration)
		loaded++
	}
	v.logger.DebugContext(ctx, "Signing keys refreshed", slog.Int("keys", loaded))
	return nil
}

func rsaPublicKey(n, e string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(n, "="))
	if err != nil {
		return nil, fmt.Errorf("decoding modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(e, "="))
	if err != nil {
		return nil, fmt.Errorf("decoding exponent: %w", err)
	}
	if len(nBytes) == 0 || len(eBytes) == 0 {
		return nil, errors.New("empty modulus or exponent")
	}

	exp := 0
	for _, b := range eBytes {
		exp = exp<<8 | int(b)
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nBytes), E: exp}, nil
}
