package nutrition

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

	"github.com/trinitystore/trinity-backend/pkg/config"
	"github.com/trinitystore/trinity-backend/pkg/enums"
	pkgerrors "github.com/trinitystore/trinity-backend/pkg/errors"
	"github.com/trinitystore/trinity-backend/pkg/types"
)

const (
	defaultBaseURL              = "https://world.openfoodfacts.org"
	searchPath                  = "/cgi/search.pl"
	defaultPageSize             = 1
	responseBodyReadLimit int64 = 1024
)

// Lookup is the result of an OpenFoodFacts search: the first candidate's
// nutriments and letter grade.
type Lookup struct {
	ProductName string
	Grade       *enums.NutritionGrade
	Facts       types.NutritionFacts
	ServingSize string
}

// Fetcher is the lookup surface consumed by the catalog service.
type Fetcher interface {
	Search(ctx context.Context, query string) (*Lookup, error)
}

// Client queries the OpenFoodFacts search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured OpenFoodFacts base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds an OpenFoodFacts client from configuration.
func NewClient(cfg config.OpenFoodFactsConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:    defaultBaseURL,
		pageSize:   cfg.PageSize,
		httpClient: &http.Client{Timeout: timeout},
	}
	if trimmed := strings.TrimSpace(cfg.BaseURL); trimmed != "" {
		client.baseURL = trimmed
	}
	if client.pageSize <= 0 {
		client.pageSize = defaultPageSize
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client
}

// Search runs a simple terms search (product names or barcodes both work)
// and returns the first candidate, or nil when nothing matched.
func (c *Client) Search(ctx context.Context, query string) (*Lookup, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "openfoodfacts client not configured")
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}

	params := url.Values{}
	params.Set("search_terms", trimmed)
	params.Set("search_simple", "1")
	params.Set("json", "1")
	params.Set("page_size", strconv.Itoa(c.pageSize))

	endpoint := strings.TrimRight(c.baseURL, "/") + searchPath + "?" + params.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build openfoodfacts request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute openfoodfacts request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "openfoodfacts request failed")
	}

	var apiResp struct {
		Products []struct {
			ProductName      string      `json:"product_name"`
			ServingSize      string      `json:"serving_size"`
			NutritionGradeFr string      `json:"nutrition_grade_fr"`
			NutritionGrades  string      `json:"nutrition_grades"`
			Nutriments       offNutrients `json:"nutriments"`
		} `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode openfoodfacts response")
	}

	if len(apiResp.Products) == 0 {
		return nil, nil
	}

	first := apiResp.Products[0]
	lookup := &Lookup{
		ProductName: first.ProductName,
		ServingSize: first.ServingSize,
		Facts:       first.Nutriments.toFacts(),
	}

	rawGrade := first.NutritionGradeFr
	if rawGrade == "" {
		rawGrade = first.NutritionGrades
	}
	if grade, err := enums.ParseNutritionGrade(rawGrade); err == nil {
		lookup.Grade = &grade
	}

	return lookup, nil
}

// offNutrients mirrors the subset of OpenFoodFacts nutriment keys we keep.
type offNutrients struct {
	EnergyKcal100g    *float64 `json:"energy-kcal_100g"`
	Proteins100g      *float64 `json:"proteins_100g"`
	Fat100g           *float64 `json:"fat_100g"`
	Carbohydrates100g *float64 `json:"carbohydrates_100g"`
	Sugars100g        *float64 `json:"sugars_100g"`
	Fiber100g         *float64 `json:"fiber_100g"`
	Salt100g          *float64 `json:"salt_100g"`
}

func (n offNutrients) toFacts() types.NutritionFacts {
	return types.NutritionFacts{
		EnergyKcal:    n.EnergyKcal100g,
		Proteins:      n.Proteins100g,
		Fat:           n.Fat100g,
		Carbohydrates: n.Carbohydrates100g,
		Sugars:        n.Sugars100g,
		Fiber:         n.Fiber100g,
		Salt:          n.Salt100g,
	}
}
