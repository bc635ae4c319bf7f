package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"scholarsync-backend/internal/domains/person/model"
	"scholarsync-backend/pkg/logger"
)

// =====================================================
// DIRECTORY CLIENT
// =====================================================

// Config for the directory HTTP client.
type Config struct {
	BaseURL  string
	Username string // basic auth, optional
	Password string
	Timeout  time.Duration
}

// Client talks to the directory's search API (an Elasticsearch-style
// /persons/_search endpoint plus GET /persons/{id} point lookups) and
// normalizes raw hits into model.ExternalPerson.
type Client struct {
	config     Config
	httpClient *http.Client
	matcher    RecordMatcher
}

// NewClient creates a new directory client. matcher is used to attach the
// Items field (already-linked local records) to every returned person.
func NewClient(config Config, matcher RecordMatcher) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		matcher: matcher,
	}
}

// searchResponse mirrors the provider's search envelope.
type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string               `json:"_id"`
			Score  float64              `json:"_score"`
			Source model.ExternalPerson `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchPersons runs a fuzzy full-text query over name and affiliation
// fields and returns one page of normalized hits.
func (c *Client) SearchPersons(ctx context.Context, query string, page, size int) (*SearchResult, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}

	searchQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query": query,
							"fields": []string{
								"firstName^2",
								"lastName^3",
								"fullName^4",
								"affiliations.structure.label",
							},
							"type":      "best_fields",
							"fuzziness": "AUTO",
						},
					},
				},
			},
		},
		"from": page * size,
		"size": size,
		"_source": []string{
			"id",
			"firstName",
			"lastName",
			"fullName",
			"domains",
			"affiliations",
			"coContributors",
			"publications",
			"externalIds",
		},
	}

	body, err := json.Marshal(searchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	respBody, status, err := c.do(ctx, http.MethodPost, c.config.BaseURL+"/persons/_search", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrProviderConnection, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: search returned status %d", model.ErrProviderConnection, status)
	}

	var parsed searchResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse search response: %v", model.ErrProviderConnection, err)
	}

	result := &SearchResult{Total: parsed.Hits.Total.Value}
	for _, hit := range parsed.Hits.Hits {
		person := hit.Source
		if person.ID == "" {
			person.ID = hit.ID
		}
		c.attachItems(ctx, &person)
		result.Hits = append(result.Hits, person)
	}
	return result, nil
}

// GetPersonByID fetches the full person record for a stable directory id.
func (c *Client) GetPersonByID(ctx context.Context, id string) (*model.ExternalPerson, error) {
	if strings.TrimSpace(id) == "" {
		return nil, model.ErrMissingPersonID
	}

	endpoint := c.config.BaseURL + "/persons/" + url.PathEscape(id)
	respBody, status, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrProviderConnection, err)
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", model.ErrPersonNotFound, id)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: lookup returned status %d", model.ErrProviderConnection, status)
	}

	var person model.ExternalPerson
	if err := json.Unmarshal(respBody, &person); err != nil {
		return nil, fmt.Errorf("%w: failed to parse person: %v", model.ErrProviderConnection, err)
	}
	if person.ID == "" {
		person.ID = id
	}

	c.attachItems(ctx, &person)
	return &person, nil
}

// TestConnection probes the provider base URL. Liveness only, never errors.
func (c *Client) TestConnection(ctx context.Context) bool {
	_, status, err := c.do(ctx, http.MethodGet, c.config.BaseURL, nil)
	if err != nil {
		return false
	}
	return status >= 200 && status < 400
}

// attachItems resolves local records matching the person by name. A matcher
// failure degrades to "no matches": the caller can still import, it just
// loses the merge hint, and the failure is logged for the operator.
func (c *Client) attachItems(ctx context.Context, person *model.ExternalPerson) {
	items, err := c.matcher.MatchPerson(ctx, person)
	if err != nil {
		logger.Error("directory: failed to match person against local records", err)
		return
	}
	person.Items = items
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.Username != "" {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to call directory API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	return respBody, resp.StatusCode, nil
}
