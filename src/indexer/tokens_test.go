package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"NFTNavBackend/src/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokensFromKeys 按请求的contractId_tokenId key构造返回体
func tokensFromKeys(keys []string) []map[string]interface{} {
	var tokens []map[string]interface{}
	for _, key := range keys {
		parts := strings.SplitN(key, "_", 2)
		tokens = append(tokens, map[string]interface{}{
			"contractId": 1,
			"tokenId":    parts[1],
			"owner":      "OWNER",
		})
	}
	return tokens
}

func TestFetchTokensByIDsChunking(t *testing.T) {
	var calls int
	var chunkSizes []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		keys := strings.Split(r.URL.Query().Get("tokenIds"), ",")
		chunkSizes = append(chunkSizes, len(keys))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tokens":        tokensFromKeys(keys),
			"next-token":    nil,
			"total-count":   len(keys),
			"current-round": 100,
		})
	}))
	defer srv.Close()

	var refs []entity.TokenRef
	for i := 0; i < 120; i++ {
		refs = append(refs, entity.TokenRef{ContractID: 1, TokenID: fmt.Sprintf("%d", i)})
	}

	client := NewClient(srv.URL)
	result, err := client.FetchTokens(context.Background(), entity.TokenFilterParam{TokenIDs: refs})
	require.NoError(t, err)

	// 120个ID按50一组切成3组
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{50, 50, 20}, chunkSizes)
	assert.Len(t, result.Tokens, 120)
	assert.Equal(t, int64(120), result.TotalCount)
}

func TestFetchTokensByIDsFailedChunkSkipped(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		keys := strings.Split(r.URL.Query().Get("tokenIds"), ",")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tokens":      tokensFromKeys(keys),
			"next-token":  nil,
			"total-count": len(keys),
		})
	}))
	defer srv.Close()

	var refs []entity.TokenRef
	for i := 0; i < 120; i++ {
		refs = append(refs, entity.TokenRef{ContractID: 1, TokenID: fmt.Sprintf("%d", i)})
	}

	client := NewClient(srv.URL)
	result, err := client.FetchTokens(context.Background(), entity.TokenFilterParam{TokenIDs: refs})
	// 失败的分组跳过，不致命
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, result.Tokens, 70)
}

func TestFetchTokensByIDsDedup(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		keys := strings.Split(r.URL.Query().Get("tokenIds"), ",")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tokens": tokensFromKeys(keys),
		})
	}))
	defer srv.Close()

	refs := []entity.TokenRef{
		{ContractID: 1, TokenID: "7"},
		{ContractID: 1, TokenID: "7"},
		{ContractID: 1, TokenID: "8"},
	}
	client := NewClient(srv.URL)
	result, err := client.FetchTokens(context.Background(), entity.TokenFilterParam{TokenIDs: refs})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Len(t, result.Tokens, 2)
}

func TestFetchTokensInvalidSelector(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	_, err := client.FetchTokens(context.Background(), entity.TokenFilterParam{})
	assert.ErrorIs(t, err, ErrInvalidSelector)
}

func TestFetchTokensPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("contractId"))
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		assert.Equal(t, "cursor-1", r.URL.Query().Get("next-token"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tokens": []map[string]interface{}{
				{"contractId": 5, "tokenId": "1", "owner": "A", "metadata": `{"name":"One","properties":{"color":"Blue"}}`},
				{"contractId": 5, "tokenId": "2", "owner": "B", "isBurned": true},
			},
			"next-token":    "cursor-2",
			"total-count":   42,
			"current-round": 999,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.FetchTokens(context.Background(), entity.TokenFilterParam{
		ContractID: 5, Limit: 25, NextToken: "cursor-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "cursor-2", result.NextToken)
	assert.Equal(t, int64(42), result.TotalCount)
	assert.Equal(t, int64(999), result.CurrentRound)
	require.Len(t, result.Tokens, 2)
	assert.Equal(t, "One", result.Tokens[0].Metadata.Name)
	assert.Equal(t, "Blue", result.Tokens[0].Metadata.Properties["color"])
	assert.True(t, result.Tokens[1].IsBurned)
}

func TestFetchTokensLastPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tokens":      []map[string]interface{}{{"contractId": 5, "tokenId": "1"}},
			"next-token":  nil,
			"total-count": 1,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.FetchTokens(context.Background(), entity.TokenFilterParam{ContractID: 5})
	require.NoError(t, err)
	assert.Empty(t, result.NextToken)
}

func TestParseMetadataDegrade(t *testing.T) {
	meta := parseMetadata(context.Background(), 1, "1", "not json")
	assert.Empty(t, meta.Name)
	assert.NotNil(t, meta.Properties)

	meta = parseMetadata(context.Background(), 1, "1", "")
	assert.NotNil(t, meta.Properties)
}

func TestParseMetadataNumericProperty(t *testing.T) {
	meta := parseMetadata(context.Background(), 1, "1", `{"name":"X","properties":{"level":3}}`)
	assert.Equal(t, "X", meta.Name)
	assert.Equal(t, "3", meta.Properties["level"])
}
