package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"

	"storefront/internal/models"
)

const defaultIPFSGateway = "https://ipfs.io/ipfs/"

// Token is one token of a drop. Metadata is fetched lazily.
type Token struct {
	ID   *big.Int
	drop *Drop
}

// Metadata reads the token URI and fetches its JSON metadata
func (t Token) Metadata(ctx context.Context) (*models.TokenMetadata, error) {
	if t.drop == nil {
		return nil, fmt.Errorf("token %s is not bound to a drop", t.ID)
	}
	uri, err := t.drop.TokenURI(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return t.drop.metadata.Fetch(ctx, uri)
}

// MetadataFetcher downloads ERC-721 metadata JSON, rewriting ipfs:// URIs to
// an HTTP gateway
type MetadataFetcher struct {
	gateway    string
	httpClient *http.Client
}

// NewMetadataFetcher creates a fetcher. Empty gateway means ipfs.io.
func NewMetadataFetcher(gateway string, httpClient *http.Client) *MetadataFetcher {
	if gateway == "" {
		gateway = defaultIPFSGateway
	}
	if !strings.HasSuffix(gateway, "/") {
		gateway += "/"
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &MetadataFetcher{gateway: gateway, httpClient: httpClient}
}

// ResolveURI maps ipfs://<cid>/<path> to the gateway, other URIs unchanged
func (f *MetadataFetcher) ResolveURI(uri string) string {
	if rest, ok := strings.CutPrefix(uri, "ipfs://"); ok {
		rest = strings.TrimPrefix(rest, "ipfs/")
		return f.gateway + rest
	}
	return uri
}

// Fetch downloads and decodes the metadata behind uri
func (f *MetadataFetcher) Fetch(ctx context.Context, uri string) (*models.TokenMetadata, error) {
	url := f.ResolveURI(uri)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build metadata request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata %s: %w", url, err)
	}

	var metadata models.TokenMetadata
	if err := json.Unmarshal(body, &metadata); err != nil {
		return nil, fmt.Errorf("invalid metadata at %s: %w", url, err)
	}
	metadata.Image = f.ResolveURI(metadata.Image)

	return &metadata, nil
}
