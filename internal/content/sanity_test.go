package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const apeDropDocument = `{
	"result": {
		"_id": "c1",
		"title": "Ape Drop",
		"address": "0xABC0000000000000000000000000000000000001",
		"description": "Apes, again.",
		"nftCollectionName": "Bored Ape Clone",
		"mainImage": {"asset": {"_ref": "image-main1-800x600-png", "_type": "reference"}},
		"previewImage": {"asset": {"_ref": "image-prev1-400x400-jpg", "_type": "reference"}},
		"slug": {"current": "bored-ape-clone"},
		"creator": {"_id": "u1", "name": "Papa", "address": "0x1111111111111111111111111111111111111111", "slug": {"current": "papa"}}
	}
}`

func TestSanitySource_Collection(t *testing.T) {
	var gotPath, gotQuery, gotID, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		gotID = r.URL.Query().Get("$id")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(apeDropDocument))
	}))
	defer srv.Close()

	source := NewSanitySource(SanityConfig{
		ProjectID:  "proj",
		Dataset:    "production",
		APIVersion: "2021-10-21",
		Token:      "secret",
		BaseURL:    srv.URL,
	}, srv.Client())

	collection, err := source.Collection(context.Background(), "bored-ape-clone")
	require.NoError(t, err)

	require.Equal(t, "/v2021-10-21/data/query/production", gotPath)
	require.Equal(t, CollectionQuery, gotQuery)
	require.Equal(t, `"bored-ape-clone"`, gotID)
	require.Equal(t, "Bearer secret", gotAuth)

	require.Equal(t, "Ape Drop", collection.Title)
	require.Equal(t, "bored-ape-clone", collection.Slug.Current)
	require.Equal(t, "image-main1-800x600-png", collection.MainImage.Asset.Ref)
	require.Equal(t, "Papa", collection.Creator.Name)
	require.Equal(t, "papa", collection.Creator.Slug.Current)
}

func TestSanitySource_NullResultIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ms": 3, "result": null}`))
	}))
	defer srv.Close()

	source := NewSanitySource(SanityConfig{ProjectID: "proj", Dataset: "production", BaseURL: srv.URL}, srv.Client())

	_, err := source.Collection(context.Background(), "missing")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestSanitySource_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"description": "param $id referenced, but not provided", "type": "queryParseError"}}`))
	}))
	defer srv.Close()

	source := NewSanitySource(SanityConfig{ProjectID: "proj", Dataset: "production", BaseURL: srv.URL}, srv.Client())

	_, err := source.Collection(context.Background(), "x")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNotFound))
	require.Contains(t, err.Error(), "param $id referenced")
}

func TestSanitySource_Collections(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.URL.Query().Get("$id")
		w.Write([]byte(`{"result": [{"_id": "a", "title": "A", "slug": {"current": "a"}}, {"_id": "b", "title": "B", "slug": {"current": "b"}}]}`))
	}))
	defer srv.Close()

	source := NewSanitySource(SanityConfig{ProjectID: "proj", Dataset: "production", BaseURL: srv.URL}, srv.Client())

	collections, err := source.Collections(context.Background())
	require.NoError(t, err)
	require.Empty(t, gotID)
	require.Len(t, collections, 2)
	require.Equal(t, "b", collections[1].Slug.Current)
}

func TestSanitySource_BaseURL(t *testing.T) {
	require.Equal(t, "https://proj.api.sanity.io",
		NewSanitySource(SanityConfig{ProjectID: "proj"}, nil).baseURL())
	require.Equal(t, "https://proj.apicdn.sanity.io",
		NewSanitySource(SanityConfig{ProjectID: "proj", UseCDN: true}, nil).baseURL())
	// Authenticated requests bypass the CDN
	require.Equal(t, "https://proj.api.sanity.io",
		NewSanitySource(SanityConfig{ProjectID: "proj", UseCDN: true, Token: "t"}, nil).baseURL())
}

func TestSanitySource_GatewayErrorPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	source := NewSanitySource(SanityConfig{ProjectID: "proj", Dataset: "production", BaseURL: srv.URL}, srv.Client())

	_, err := source.Collection(context.Background(), "bored-ape-clone")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNotFound))
	require.Contains(t, err.Error(), "502")
}
