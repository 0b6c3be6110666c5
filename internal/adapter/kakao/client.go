package kakao

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"

	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/internal/domain/types"
	"github.com/Temutjin2k/running-app/pkg/logger"
	wrap "github.com/Temutjin2k/running-app/pkg/logger/wrapper"
	"github.com/Temutjin2k/running-app/pkg/metrics"
)

const (
	providerName = "kakao"
	profilePath  = "/v2/user/me"
	// bodyLimit caps how much of a profile response is read.
	bodyLimit = 1 << 20
)

type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// Client reads user profiles from the Kakao API.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*models.KakaoProfile]
	log     logger.Logger
}

// New builds a client on top of httpClient, whose timeouts and transport are reused.
func New(baseURL string, httpClient *http.Client, bc BreakerConfig, log logger.Logger) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}

	name := providerName + "-profile"
	c.breaker = gobreaker.NewCircuitBreaker[*models.KakaoProfile](gobreaker.Settings{
		Name:        name,
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= max(bc.FailureThreshold, 1)
		},
		// A rejected token says nothing about provider health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, types.ErrIdentityProviderUnauthorized)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
			c.log.Warn(wrap.WithAction(context.Background(), types.ActionCircuitStateChanged),
				"circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	metrics.SetCircuitBreakerState(name, int(gobreaker.StateClosed))

	return c
}

type profileResponse struct {
	ID      int64 `json:"id"`
	Account struct {
		Email           string `json:"email"`
		IsEmailValid    bool   `json:"is_email_valid"`
		IsEmailVerified bool   `json:"is_email_verified"`
		Profile         struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

func (p profileResponse) toModel() *models.KakaoProfile {
	return &models.KakaoProfile{
		ID:              strconv.FormatInt(p.ID, 10),
		Email:           p.Account.Email,
		EmailVerified:   p.Account.IsEmailValid && p.Account.IsEmailVerified,
		Nickname:        p.Account.Profile.Nickname,
		ProfileImageURL: p.Account.Profile.ProfileImageURL,
	}
}

// FetchProfile exchanges a Kakao access token for the user's profile.
// It fails with types.ErrIdentityProviderUnauthorized when Kakao rejects the
// token and types.ErrIdentityProviderUnavailable for anything else.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*models.KakaoProfile, error) {
	const op = "KakaoClient.FetchProfile"

	profile, err := c.breaker.Execute(func() (*models.KakaoProfile, error) {
		return c.fetchProfile(ctx, accessToken)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %w", types.ErrIdentityProviderUnavailable, err)
		}
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return profile, nil
}

func (c *Client) fetchProfile(ctx context.Context, accessToken string) (*models.KakaoProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+profilePath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", types.ErrIdentityProviderUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	client := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
			Base:   c.http.Transport,
		},
		Timeout: c.http.Timeout,
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		metrics.RecordIdentityProviderRequest(providerName, 0, time.Since(start))
		return nil, fmt.Errorf("%w: %w", types.ErrIdentityProviderUnavailable, err)
	}
	defer resp.Body.Close()
	metrics.RecordIdentityProviderRequest(providerName, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, types.ErrIdentityProviderUnauthorized
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status %d", types.ErrIdentityProviderUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, bodyLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", types.ErrIdentityProviderUnavailable, err)
	}

	var payload profileResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %w", types.ErrIdentityProviderUnavailable, err)
	}
	if payload.ID == 0 {
		return nil, fmt.Errorf("%w: profile without id", types.ErrIdentityProviderUnavailable)
	}

	return payload.toModel(), nil
}
