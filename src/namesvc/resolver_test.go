package namesvc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"NFTNavBackend/src/entity"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	name      string
	batchSize int
	records   map[string]NameRecord
	err       error

	mu   sync.Mutex
	seen []string
}

func (s *fakeSource) Name() string   { return s.name }
func (s *fakeSource) BatchSize() int { return s.batchSize }

func (s *fakeSource) Resolve(ctx context.Context, addrs []string) (map[string]NameRecord, error) {
	s.mu.Lock()
	s.seen = append(s.seen, addrs...)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	result := make(map[string]NameRecord)
	for _, addr := range addrs {
		if record, ok := s.records[addr]; ok {
			result[addr] = record
		}
	}
	return result, nil
}

func TestResolveAddressesFallthrough(t *testing.T) {
	primary := &fakeSource{
		name: "primary", batchSize: 20,
		records: map[string]NameRecord{"A": {Address: "A", Name: "a.voi"}},
	}
	secondary := &fakeSource{
		name: "secondary", batchSize: 50,
		records: map[string]NameRecord{"B": {Address: "B", Name: "b.voi"}},
	}
	resolver := NewResolver(0, nil, primary, secondary)

	resolved := resolver.ResolveAddresses(context.Background(), []string{"A", "B", "C", "A"})
	assert.Equal(t, "a.voi", resolved["A"].Name)
	assert.Equal(t, "b.voi", resolved["B"].Name)
	_, ok := resolved["C"]
	assert.False(t, ok)

	// 去重后第一优先级看到全部地址，第二优先级只看到未命中的
	assert.ElementsMatch(t, []string{"A", "B", "C"}, primary.seen)
	assert.ElementsMatch(t, []string{"B", "C"}, secondary.seen)
}

func TestResolveAddressesSourceError(t *testing.T) {
	broken := &fakeSource{name: "broken", batchSize: 20, err: errors.New("boom")}
	backup := &fakeSource{
		name: "backup", batchSize: 50,
		records: map[string]NameRecord{"A": {Address: "A", Name: "a.voi"}},
	}
	resolver := NewResolver(0, nil, broken, backup)

	// 失败的source视为全部未命中，由下一个兜底，不向上抛错
	resolved := resolver.ResolveAddresses(context.Background(), []string{"A"})
	assert.Equal(t, "a.voi", resolved["A"].Name)
}

func TestResolveAddressesBatching(t *testing.T) {
	source := &fakeSource{name: "small", batchSize: 2, records: map[string]NameRecord{}}
	resolver := NewResolver(0, nil, source)

	resolver.ResolveAddresses(context.Background(), []string{"A", "B", "C", "D", "E"})
	assert.Len(t, source.seen, 5)
}

func TestEnrichTokensValueSemantics(t *testing.T) {
	source := &fakeSource{
		name: "src", batchSize: 20,
		records: map[string]NameRecord{"ADDR": {Address: "ADDR", Name: "alice.voi", Avatar: "ipfs://a"}},
	}
	resolver := NewResolver(0, nil, source)

	tokens := []entity.Token{
		{ContractID: 1, TokenID: "1", Owner: "ADDR"},
		{ContractID: 1, TokenID: "2", Owner: "UNKNOWN"},
	}
	enriched := resolver.EnrichTokens(context.Background(), tokens)

	require.Len(t, enriched, 2)
	assert.Equal(t, "alice.voi", enriched[0].OwnerName)
	assert.Equal(t, "ipfs://a", enriched[0].OwnerAvatar)
	assert.Empty(t, enriched[1].OwnerName)

	// 入参不被修改
	assert.Empty(t, tokens[0].OwnerName)
}

func TestEnrichTokensIdempotent(t *testing.T) {
	source := &fakeSource{
		name: "src", batchSize: 20,
		records: map[string]NameRecord{"ADDR": {Address: "ADDR", Name: "other.voi"}},
	}
	resolver := NewResolver(0, nil, source)

	tokens := []entity.Token{{ContractID: 1, TokenID: "1", Owner: "ADDR", OwnerName: "alice.voi"}}
	enriched := resolver.EnrichTokens(context.Background(), tokens)
	// 已解析的字段不被覆盖
	assert.Equal(t, "alice.voi", enriched[0].OwnerName)
	// 已解析的地址不再查询
	assert.Empty(t, source.seen)
}

func TestEnrichCollections(t *testing.T) {
	source := &fakeSource{
		name: "src", batchSize: 20,
		records: map[string]NameRecord{"CREATOR": {Address: "CREATOR", Name: "dev.voi"}},
	}
	resolver := NewResolver(0, nil, source)

	enriched := resolver.EnrichCollections(context.Background(), []entity.Collection{
		{ContractID: 1, Creator: "CREATOR"},
	})
	assert.Equal(t, "dev.voi", enriched[0].CreatorName)
}

func TestEnrichListings(t *testing.T) {
	source := &fakeSource{
		name: "src", batchSize: 20,
		records: map[string]NameRecord{"SELLER": {Address: "SELLER", Name: "shop.voi"}},
	}
	resolver := NewResolver(0, nil, source)

	enriched := resolver.EnrichListings(context.Background(), []entity.Listing{
		{TransactionID: "tx", Seller: "SELLER"},
	})
	assert.Equal(t, "shop.voi", enriched[0].SellerName)
}

func TestNFDSourceResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nfd/lookup", r.URL.Path)
		assert.Equal(t, "tiny", r.URL.Query().Get("view"))
		w.Write([]byte(`{
			"ADDR1": {"name": "one.algo", "properties": {"verified": {"avatar": "https://img/1"}}},
			"ADDR2": {"name": "two.algo", "properties": {"userDefined": {"avatar": "https://img/2"}}}
		}`))
	}))
	defer srv.Close()

	source := NewNFDSource(srv.URL)
	records, err := source.Resolve(context.Background(), []string{"ADDR1", "ADDR2"})
	require.NoError(t, err)
	assert.Equal(t, "one.algo", records["ADDR1"].Name)
	assert.Equal(t, "https://img/1", records["ADDR1"].Avatar)
	// verified缺失时回退userDefined头像
	assert.Equal(t, "https://img/2", records["ADDR2"].Avatar)
}

func TestEnvoiSourceResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/name/ADDR1,ADDR2", r.URL.Path)
		w.Write([]byte(`{"results": [
			{"address": "ADDR1", "name": "one.voi", "metadata": {"avatar": "ipfs://1"}, "cached": true}
		]}`))
	}))
	defer srv.Close()

	source := NewEnvoiSource(srv.URL)
	records, err := source.Resolve(context.Background(), []string{"ADDR1", "ADDR2"})
	require.NoError(t, err)
	assert.Equal(t, "one.voi", records["ADDR1"].Name)
	_, ok := records["ADDR2"]
	assert.False(t, ok)
}

func TestTokenNameSourceResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [{"token_id": "123", "name": "cool.voi", "metadata": {"avatar": "ipfs://t"}}]}`))
	}))
	defer srv.Close()

	source := NewTokenNameSource(srv.URL)
	records := source.ResolveTokens(context.Background(), []string{"123", "456"})
	assert.Equal(t, "cool.voi", records["123"].Name)
	_, ok := records["456"]
	assert.False(t, ok)
}

func TestEnrichTokensNamingCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [{"token_id": "55", "name": "named.voi", "metadata": {"avatar": "ipfs://n"}}]}`))
	}))
	defer srv.Close()

	resolver := NewResolver(777, NewTokenNameSource(srv.URL))
	tokens := []entity.Token{
		{ContractID: 777, TokenID: "55"},
		{ContractID: 1, TokenID: "55"},
	}
	enriched := resolver.EnrichTokens(context.Background(), tokens)
	// 命名集合内的token名称按token维度重写，其他集合不受影响
	assert.Equal(t, "named.voi", enriched[0].Metadata.Name)
	assert.Equal(t, "ipfs://n", enriched[0].Metadata.Image)
	assert.Empty(t, enriched[1].Metadata.Name)
}
