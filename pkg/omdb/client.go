// Package omdb is the outbound movie metadata lookup client. The catalog
// provider is an opaque oracle: given a title it returns metadata or reports
// that the title does not exist.
package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bingeclub/bingeclub-engine/pkg/apperrors"
	"github.com/bingeclub/bingeclub-engine/pkg/models"
)

// Client defines the interface for movie metadata lookup.
// This abstraction enables testing with mock implementations.
type Client interface {
	// LookupByTitle fetches metadata for an exact title. A title the
	// provider does not know yields apperrors.ErrNotFound wrapped with the
	// provider's message.
	LookupByTitle(ctx context.Context, title string) (*models.MovieMetadata, error)
}

// lookupResponse is the provider's wire format.
type lookupResponse struct {
	Title      string          `json:"Title"`
	Year       string          `json:"Year"`
	Plot       string          `json:"Plot"`
	Ratings    []models.Rating `json:"Ratings"`
	Genre      string          `json:"Genre"`
	Director   string          `json:"Director"`
	Actors     string          `json:"Actors"`
	IMDbRating string          `json:"imdbRating"`
	IMDbVotes  string          `json:"imdbVotes"`
	Type       string          `json:"Type"`
	Poster     string          `json:"Poster"`
	IMDbID     string          `json:"imdbID"`
	Response   string          `json:"Response"`
	Error      string          `json:"Error"`
}

// HTTPClient implements Client against an OMDb-compatible HTTP API.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient creates a lookup client for the given base URL and API key.
// Pass nil to use http.DefaultClient.
func NewHTTPClient(baseURL, apiKey string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// LookupByTitle fetches metadata for an exact title.
func (c *HTTPClient) LookupByTitle(ctx context.Context, title string) (*models.MovieMetadata, error) {
	params := url.Values{}
	params.Set("t", title)
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create lookup request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup failed: status %d", resp.StatusCode)
	}

	var result lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}

	// The provider reports absence in-band with Response=False.
	if result.Response == "False" {
		msg := result.Error
		if msg == "" {
			msg = "Movie/TV show not found"
		}
		return nil, fmt.Errorf("%s: %w", msg, apperrors.ErrNotFound)
	}

	ratings := result.Ratings
	if ratings == nil {
		ratings = []models.Rating{}
	}

	return &models.MovieMetadata{
		Title:      result.Title,
		Year:       result.Year,
		Plot:       result.Plot,
		Ratings:    ratings,
		Genre:      result.Genre,
		Director:   result.Director,
		Actors:     result.Actors,
		IMDbRating: result.IMDbRating,
		IMDbVotes:  result.IMDbVotes,
		MediaType:  result.Type,
		Poster:     result.Poster,
		IMDbID:     result.IMDbID,
	}, nil
}

// Ensure HTTPClient implements Client at compile time.
var _ Client = (*HTTPClient)(nil)
