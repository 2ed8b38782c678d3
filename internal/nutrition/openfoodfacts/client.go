// Package openfoodfacts provides an Open Food Facts food database client.
package openfoodfacts

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

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/nutrition"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/provider/resilience"
)

const (
	// ProviderName identifies this food database provider.
	ProviderName = "openfoodfacts"

	// DefaultBaseURL is the public Open Food Facts API.
	DefaultBaseURL = "https://world.openfoodfacts.org"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultPageSize bounds search results.
	DefaultPageSize = 20
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Open Food Facts client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional).
	BaseURL string

	// UserAgent identifies this application to the provider, which
	// requires a descriptive agent string.
	UserAgent string

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

// Client is an Open Food Facts client.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new Open Food Facts client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "FitArchitect/1.0"
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
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Search returns foods matching the query by name.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]nutrition.Food, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	params := url.Values{}
	params.Set("search_terms", query)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", strconv.Itoa(limit))

	requestURL := fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, params.Encode())

	var searchResp offSearchResponse
	if err := c.get(ctx, requestURL, &searchResp); err != nil {
		return nil, err
	}

	foods := make([]nutrition.Food, 0, len(searchResp.Products))
	for i := range searchResp.Products {
		if searchResp.Products[i].ProductName == "" {
			continue
		}
		foods = append(foods, toFood(&searchResp.Products[i]))
	}

	c.logger.Debug().
		Str("query", query).
		Int("result_count", len(foods)).
		Msg("food search completed")

	return foods, nil
}

// GetByBarcode returns the food for a product barcode.
func (c *Client) GetByBarcode(ctx context.Context, barcode string) (*nutrition.Food, error) {
	requestURL := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, url.PathEscape(barcode))

	var productResp offProductResponse
	if err := c.get(ctx, requestURL, &productResp); err != nil {
		return nil, err
	}

	if productResp.Status != 1 || productResp.Product == nil {
		return nil, nutrition.ErrFoodNotFound
	}

	food := toFood(productResp.Product)
	if food.Barcode == "" {
		food.Barcode = barcode
	}
	return &food, nil
}

func (c *Client) get(ctx context.Context, requestURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reaching food database: %w", nutrition.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nutrition.ErrFoodNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("food database returned status %d: %w", resp.StatusCode, nutrition.ErrProviderUnavailable)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// toFood converts a wire product to the domain model.
func toFood(p *offProduct) nutrition.Food {
	return nutrition.Food{
		Barcode:     p.Code,
		Name:        p.ProductName,
		Brand:       firstBrand(p.Brands),
		ServingSize: p.ServingSize,
		Per100G: nutrition.Macros{
			Calories: p.Nutriments.EnergyKcal100G,
			ProteinG: p.Nutriments.Proteins100G,
			CarbsG:   p.Nutriments.Carbohydrates100G,
			FatG:     p.Nutriments.Fat100G,
			FiberG:   p.Nutriments.Fiber100G,
			SugarG:   p.Nutriments.Sugars100G,
			SodiumMG: p.Nutriments.Sodium100G * 1000,
		},
	}
}

// firstBrand picks the first entry of the provider's comma-separated brand
// list.
func firstBrand(brands string) string {
	if idx := strings.Index(brands, ","); idx >= 0 {
		return strings.TrimSpace(brands[:idx])
	}
	return strings.TrimSpace(brands)
}
