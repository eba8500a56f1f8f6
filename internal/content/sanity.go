package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"storefront/internal/models"
)

// CollectionQuery selects one collection by slug with the creator expanded
const CollectionQuery = `*[_type == "collection" && slug.current == $id][0]{
	_id,
	title,
	address,
	description,
	nftCollectionName,
	mainImage {
		asset
	},
	previewImage {
		asset
	},
	slug {
		current
	},
	creator-> {
		_id,
		name,
		address,
		slug {
			current
		},
	},
}`

// CollectionsQuery lists every collection
const CollectionsQuery = `*[_type == "collection"]{
	_id,
	title,
	address,
	description,
	nftCollectionName,
	mainImage {
		asset
	},
	previewImage {
		asset
	},
	slug {
		current
	},
	creator-> {
		_id,
		name,
		address,
		slug {
			current
		},
	},
}`

// SanityConfig configures the Sanity HTTP query API client
type SanityConfig struct {
	ProjectID  string
	Dataset    string
	APIVersion string // e.g. "2021-10-21"
	Token      string // optional, for private datasets
	UseCDN     bool

	// BaseURL overrides the computed API host (tests)
	BaseURL string
}

// SanitySource queries a Sanity dataset with GROQ over HTTP
type SanitySource struct {
	config SanityConfig
	client *resty.Client
}

// NewSanitySource creates a new Sanity-backed source
func NewSanitySource(config SanityConfig, httpClient *http.Client) *SanitySource {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if config.APIVersion == "" {
		config.APIVersion = "2021-10-21"
	}

	client := resty.NewWithClient(httpClient).
		SetHeader("Accept", "application/json")
	if config.Token != "" {
		client.SetAuthToken(config.Token)
	}

	return &SanitySource{
		config: config,
		client: client,
	}
}

type sanityResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"error,omitempty"`
}

// Collection returns the collection document with the given slug
func (s *SanitySource) Collection(ctx context.Context, slug string) (*models.Collection, error) {
	result, err := s.Fetch(ctx, CollectionQuery, map[string]interface{}{"id": slug})
	if err != nil {
		return nil, err
	}
	if isNull(result) {
		return nil, ErrNotFound
	}

	var collection models.Collection
	if err := json.Unmarshal(result, &collection); err != nil {
		return nil, fmt.Errorf("failed to decode collection %q: %w", slug, err)
	}
	return &collection, nil
}

// Collections lists all collection documents
func (s *SanitySource) Collections(ctx context.Context) ([]models.Collection, error) {
	result, err := s.Fetch(ctx, CollectionsQuery, nil)
	if err != nil {
		return nil, err
	}
	if isNull(result) {
		return []models.Collection{}, nil
	}

	var collections []models.Collection
	if err := json.Unmarshal(result, &collections); err != nil {
		return nil, fmt.Errorf("failed to decode collections: %w", err)
	}
	return collections, nil
}

// Fetch runs a GROQ query with parameters and returns the raw result.
// Parameter values are JSON encoded as the query API expects ($id="slug").
func (s *SanitySource) Fetch(ctx context.Context, query string, params map[string]interface{}) (json.RawMessage, error) {
	req := s.client.R().
		SetContext(ctx).
		SetPathParam("version", strings.TrimPrefix(s.config.APIVersion, "v")).
		SetPathParam("dataset", s.config.Dataset).
		SetQueryParam("query", query)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode query param %s: %w", name, err)
		}
		req.SetQueryParam("$"+name, string(encoded))
	}

	resp, err := req.Get(s.baseURL() + "/v{version}/data/query/{dataset}")
	if err != nil {
		return nil, fmt.Errorf("sanity query failed: %w", err)
	}

	var decoded sanityResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode sanity response (status %d): %w", resp.StatusCode(), err)
	}
	if resp.IsError() {
		if decoded.Error != nil {
			return nil, fmt.Errorf("sanity query failed with status %d: %s", resp.StatusCode(), decoded.Error.Description)
		}
		return nil, fmt.Errorf("sanity query failed with status %d", resp.StatusCode())
	}

	return decoded.Result, nil
}

// Name returns the backend name
func (s *SanitySource) Name() string {
	return "sanity"
}

func (s *SanitySource) baseURL() string {
	if s.config.BaseURL != "" {
		return strings.TrimSuffix(s.config.BaseURL, "/")
	}
	host := "api.sanity.io"
	if s.config.UseCDN && s.config.Token == "" {
		host = "apicdn.sanity.io"
	}
	return fmt.Sprintf("https://%s.%s", s.config.ProjectID, host)
}

func isNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}
