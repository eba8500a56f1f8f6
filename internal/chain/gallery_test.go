package chain

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// metadataServer serves {"name":"Ape #<id>"} for /ipfs/QmBase/<id> and fails
// for the ids in broken
func metadataServer(t *testing.T, broken ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := strings.CutPrefix(r.URL.Path, "/ipfs/QmBase/")
		if !ok {
			http.NotFound(w, r)
			return
		}
		for _, b := range broken {
			if id == b {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"name":"Ape #%s","description":"A cloned ape","image":"ipfs://QmImg/%s.png"}`, id, id)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func galleryDrop(t *testing.T, srv *httptest.Server, claimed, minted int64) *Drop {
	t.Helper()
	caller := newFakeCaller()
	stubDrop(caller, dropAddress, claimed, minted, big.NewInt(0)).
		handle("tokenURI", func(args []interface{}) ([]interface{}, error) {
			return []interface{}{"ipfs://QmBase/" + args[0].(*big.Int).String()}, nil
		})
	return newDrop(dropAddress, caller, nil, "ETH", NewMetadataFetcher(srv.URL+"/ipfs/", srv.Client()))
}

func TestDrop_UnclaimedNFTs(t *testing.T) {
	srv := metadataServer(t)
	drop := galleryDrop(t, srv, 3, 6)

	nfts, remaining, err := drop.UnclaimedNFTs(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, int64(3), remaining.Int64())
	require.Len(t, nfts, 3)

	for i, nft := range nfts {
		id := fmt.Sprint(3 + i)
		require.Equal(t, id, nft.ID)
		require.Equal(t, "Ape #"+id, nft.Name)
		require.Equal(t, srv.URL+"/ipfs/QmImg/"+id+".png", nft.Image)
	}
}

func TestDrop_UnclaimedNFTsLimit(t *testing.T) {
	srv := metadataServer(t)
	drop := galleryDrop(t, srv, 2, 100)

	nfts, remaining, err := drop.UnclaimedNFTs(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, int64(98), remaining.Int64())
	require.Len(t, nfts, 4)
	require.Equal(t, "2", nfts[0].ID)
	require.Equal(t, "5", nfts[3].ID)
}

func TestDrop_UnclaimedNFTsMissingMetadata(t *testing.T) {
	srv := metadataServer(t, "4")
	drop := galleryDrop(t, srv, 3, 6)

	nfts, _, err := drop.UnclaimedNFTs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, nfts, 3)
	require.Equal(t, "4", nfts[1].ID)
	require.Empty(t, nfts[1].Name)
	require.Equal(t, "Ape #5", nfts[2].Name)
}

func TestDrop_UnclaimedNFTsSoldOut(t *testing.T) {
	srv := metadataServer(t)
	drop := galleryDrop(t, srv, 6, 6)

	nfts, remaining, err := drop.UnclaimedNFTs(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, nfts)
	require.Zero(t, remaining.Sign())
}
