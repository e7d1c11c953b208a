package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"NFTNavBackend/src/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCollectionIndexer(calls *int64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"collections": []map[string]interface{}{
				{
					"contractId": 1, "name": "First", "creator": "ADDR",
					"totalSupply": 100, "uniqueOwners": 40,
					"globalState": map[string]string{"price": "5000000"},
				},
				{"contractId": 2, "name": "Second", "creator": "ADDR"},
			},
			"next-token":  nil,
			"total-count": 2,
		})
	}))
}

func TestGetCollectionsProcessWideCache(t *testing.T) {
	var calls int64
	srv := newCollectionIndexer(&calls)
	defer srv.Close()
	serverCtx := newTestCtx(srv.URL)

	res, err := GetCollections(context.Background(), serverCtx, entity.CollectionFilterParam{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.TotalCount)

	// 新鲜度窗口内复用缓存
	for i := 0; i < 3; i++ {
		_, err = GetCollections(context.Background(), serverCtx, entity.CollectionFilterParam{})
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))

	// 强刷绕过
	_, err = GetCollections(context.Background(), serverCtx, entity.CollectionFilterParam{ForceRefresh: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

func TestGetCollectionsSingleFromCache(t *testing.T) {
	var calls int64
	srv := newCollectionIndexer(&calls)
	defer srv.Close()
	serverCtx := newTestCtx(srv.URL)

	_, err := GetCollections(context.Background(), serverCtx, entity.CollectionFilterParam{})
	require.NoError(t, err)

	// 列表已缓存，单集合查询不再回源
	res, err := GetCollections(context.Background(), serverCtx, entity.CollectionFilterParam{ContractID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
	collections := res.Result.([]entity.Collection)
	require.Len(t, collections, 1)
	assert.Equal(t, "Second", collections[0].Name)
}

func TestGetCollectionDetailMintPrice(t *testing.T) {
	var calls int64
	srv := newCollectionIndexer(&calls)
	defer srv.Close()
	serverCtx := newTestCtx(srv.URL)

	res, err := GetCollectionDetail(context.Background(), serverCtx, 1)
	require.NoError(t, err)
	detail := res.Result.(entity.CollectionDetail)
	assert.Equal(t, "5000000", detail.MintPrice.String())
	assert.Equal(t, int64(100), detail.TotalSupply)

	// 无price状态时mint价格为0
	res, err = GetCollectionDetail(context.Background(), serverCtx, 2)
	require.NoError(t, err)
	detail = res.Result.(entity.CollectionDetail)
	assert.True(t, detail.MintPrice.IsZero())
}

func TestGetListingsFreshnessAndFailover(t *testing.T) {
	var calls int64
	var fail int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		if atomic.LoadInt32(&fail) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		assert.Equal(t, "token,collection", r.URL.Query().Get("includes"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"listings": []map[string]interface{}{
				{"transactionId": "tx1", "collectionId": 1, "tokenId": "1", "seller": "S", "price": 1000000},
			},
			"next-token":  nil,
			"total-count": 1,
		})
	}))
	defer srv.Close()
	serverCtx := newTestCtx(srv.URL)

	filter := entity.ListingFilterParam{ContractID: 1}
	res, err := GetListings(context.Background(), serverCtx, filter)
	require.NoError(t, err)
	listings := res.Result.([]entity.Listing)
	require.Len(t, listings, 1)
	assert.Equal(t, "1000000", listings[0].Price.String())
	assert.True(t, listings[0].Active())

	// 窗口内同参数复用
	_, err = GetListings(context.Background(), serverCtx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))

	// 上游失败时强刷降级为旧缓存
	atomic.StoreInt32(&fail, 1)
	filter.ForceRefresh = true
	res, err = GetListings(context.Background(), serverCtx, filter)
	require.NoError(t, err)
	assert.Len(t, res.Result.([]entity.Listing), 1)
}

func TestGetSalesAndTransfers(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		switch r.URL.Path {
		case "/mp/sales":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"sales": []map[string]interface{}{
					{"transactionId": "s1", "contractId": 1, "tokenId": "1", "seller": "S", "buyer": "B", "price": 7},
				},
				"next-token":  nil,
				"total-count": 1,
			})
		case "/transfers":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"transfers": []map[string]interface{}{
					{"transactionId": "t1", "contractId": 1, "tokenId": "1", "from": "A", "to": "B"},
				},
				"next-token":  nil,
				"total-count": 1,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	serverCtx := newTestCtx(srv.URL)

	sales, err := GetSales(context.Background(), serverCtx, entity.SaleFilterParam{ContractID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), sales.TotalCount)

	transfers, err := GetTransfers(context.Background(), serverCtx, entity.TransferFilterParam{ContractID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), transfers.TotalCount)

	// 各自独立缓存，窗口内复用
	_, err = GetSales(context.Background(), serverCtx, entity.SaleFilterParam{ContractID: 1})
	require.NoError(t, err)
	_, err = GetTransfers(context.Background(), serverCtx, entity.TransferFilterParam{ContractID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}
