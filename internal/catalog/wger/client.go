// Package wger provides a client for the WGER exercise database API.
package wger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/catalog"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/provider/resilience"
)

const (
	// ProviderName identifies this catalog provider.
	ProviderName = "wger"

	// DefaultBaseURL is the WGER API base URL.
	DefaultBaseURL = "https://wger.de/api/v2"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultLimit is the default page size for search requests.
	DefaultLimit = 50
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the WGER client.
type ClientConfig struct {
	// APIKey is the WGER API token (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to the public API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a WGER exercise database client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new WGER client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Search returns exercises matching the given filters.
func (c *Client) Search(ctx context.Context, filters catalog.Filters) ([]catalog.Exercise, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	params := url.Values{}
	params.Set("language", "en")
	params.Set("limit", strconv.Itoa(limit))
	if len(filters.Muscles) > 0 {
		params.Set("muscles", strings.Join(filters.Muscles, ","))
	}
	if len(filters.Equipment) > 0 {
		params.Set("equipment", strings.Join(filters.Equipment, ","))
	}

	requestURL := fmt.Sprintf("%s/exercise/?%s", c.baseURL, params.Encode())

	c.logger.Debug().
		Strs("muscles", filters.Muscles).
		Strs("equipment", filters.Equipment).
		Int("limit", limit).
		Msg("searching WGER exercise catalog")

	var searchResp wgerSearchResponse
	if err := c.get(ctx, requestURL, &searchResp); err != nil {
		return nil, err
	}

	exercises := make([]catalog.Exercise, 0, len(searchResp.Results))
	for i := range searchResp.Results {
		exercises = append(exercises, toExercise(&searchResp.Results[i]))
	}

	c.logger.Debug().
		Int("exercise_count", len(exercises)).
		Msg("received exercises from WGER")

	return exercises, nil
}

// GetByID returns a single exercise by its WGER ID.
func (c *Client) GetByID(ctx context.Context, id string) (*catalog.Exercise, error) {
	requestURL := fmt.Sprintf("%s/exercise/%s/?language=en", c.baseURL, url.PathEscape(id))

	var wireExercise wgerExercise
	if err := c.get(ctx, requestURL, &wireExercise); err != nil {
		return nil, err
	}

	exercise := toExercise(&wireExercise)
	return &exercise, nil
}

// get executes an authenticated GET request and decodes the JSON response.
func (c *Client) get(ctx context.Context, requestURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reaching catalog provider: %w", catalog.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// handleErrorResponse maps WGER error responses to domain errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var wgerErr wgerErrorResponse
	detail := ""
	if err := json.Unmarshal(body, &wgerErr); err == nil {
		detail = wgerErr.Detail
	}

	switch {
	case statusCode == http.StatusNotFound:
		return catalog.ErrExerciseNotFound
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		c.logger.Warn().
			Int("status", statusCode).
			Str("detail", detail).
			Msg("WGER rejected the API token")
		return fmt.Errorf("catalog access denied: %w", catalog.ErrProviderUnavailable)
	default:
		return fmt.Errorf("catalog provider returned status %d: %w", statusCode, catalog.ErrProviderUnavailable)
	}
}

// toExercise converts a wire exercise to the domain model.
func toExercise(w *wgerExercise) catalog.Exercise {
	muscles := make([]string, 0, len(w.Muscles))
	for _, m := range w.Muscles {
		muscles = append(muscles, m.Name)
	}

	equipment := make([]string, 0, len(w.Equipment))
	for _, e := range w.Equipment {
		equipment = append(equipment, e.Name)
	}

	imageURL := ""
	for _, img := range w.Images {
		if img.IsMain {
			imageURL = img.Image
			break
		}
		if imageURL == "" {
			imageURL = img.Image
		}
	}

	videoURL := ""
	if len(w.Videos) > 0 {
		videoURL = w.Videos[0].Video
	}

	return catalog.Exercise{
		ID:           strconv.Itoa(w.ID),
		Name:         w.Name,
		Description:  w.Description,
		MuscleGroups: muscles,
		Equipment:    equipment,
		Difficulty:   w.Difficulty,
		Instructions: w.Instructions,
		ImageURL:     imageURL,
		VideoURL:     videoURL,
	}
}
