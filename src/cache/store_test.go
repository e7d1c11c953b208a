package cache

import (
	"fmt"
	"testing"
	"time"

	"NFTNavBackend/src/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testToken(contractID uint64, tokenID, owner string) entity.Token {
	return entity.Token{
		ContractID: contractID,
		TokenID:    tokenID,
		Owner:      owner,
		Metadata:   entity.TokenMetadata{Properties: map[string]string{}},
		Visible:    true,
	}
}

func TestReplacePreservesResolvedFields(t *testing.T) {
	store := NewStore(time.Minute, 8)

	first := testToken(1, "1", "ADDR")
	first.OwnerName = "alice.voi"
	first.OwnerAvatar = "ipfs://avatar"
	first.Rank = 3
	store.ReplaceTokens(1, []entity.Token{first}, "")

	// 重新拉取的token未带解析字段，合并后不降级
	fresh := testToken(1, "1", "ADDR")
	merged := store.ReplaceTokens(1, []entity.Token{fresh}, "")
	require.Len(t, merged, 1)
	assert.Equal(t, "alice.voi", merged[0].OwnerName)
	assert.Equal(t, "ipfs://avatar", merged[0].OwnerAvatar)
	assert.Equal(t, 3, merged[0].Rank)
}

func TestReplaceOwnerChangedDropsName(t *testing.T) {
	store := NewStore(time.Minute, 8)

	first := testToken(1, "1", "ADDR")
	first.OwnerName = "alice.voi"
	store.ReplaceTokens(1, []entity.Token{first}, "")

	// 所有者变了，旧名称不能沿用
	fresh := testToken(1, "1", "OTHER")
	merged := store.ReplaceTokens(1, []entity.Token{fresh}, "")
	assert.Empty(t, merged[0].OwnerName)
}

func TestAppendTokensLoadMore(t *testing.T) {
	store := NewStore(time.Minute, 8)
	store.ReplaceTokens(1, []entity.Token{testToken(1, "1", "A"), testToken(1, "2", "B")}, "cursor-1")

	tokens, cursor, _, ok := store.SnapshotTokens(1)
	require.True(t, ok)
	assert.Len(t, tokens, 2)
	assert.Equal(t, "cursor-1", cursor)

	// 追加一页：已有标识就地更新，新标识追加，游标前移
	updated := testToken(1, "2", "B")
	updated.OwnerName = "bob.voi"
	merged := store.AppendTokens(1, []entity.Token{updated, testToken(1, "3", "C")}, "")

	require.Len(t, merged, 3)
	assert.Equal(t, "1", merged[0].TokenID)
	assert.Equal(t, "bob.voi", merged[1].OwnerName)
	assert.Equal(t, "3", merged[2].TokenID)

	_, cursor, _, _ = store.SnapshotTokens(1)
	assert.Empty(t, cursor)
}

func TestLRUEviction(t *testing.T) {
	store := NewStore(time.Minute, 2)
	store.ReplaceTokens(1, []entity.Token{testToken(1, "1", "A")}, "")
	store.ReplaceTokens(2, []entity.Token{testToken(2, "1", "A")}, "")

	// 访问集合1，使集合2成为最久未使用
	store.SnapshotTokens(1)
	store.ReplaceTokens(3, []entity.Token{testToken(3, "1", "A")}, "")

	_, _, _, ok := store.SnapshotTokens(1)
	assert.True(t, ok)
	_, _, _, ok = store.SnapshotTokens(2)
	assert.False(t, ok)
	_, _, _, ok = store.SnapshotTokens(3)
	assert.True(t, ok)
}

func TestPutResolvedTokensLoose(t *testing.T) {
	store := NewStore(time.Minute, 8)

	// 不属于任何已缓存集合的token落入散token表
	loose := testToken(9, "7", "A")
	loose.OwnerName = "carol.voi"
	store.PutResolvedTokens([]entity.Token{loose})

	got, ok := store.GetToken(entity.TokenRef{ContractID: 9, TokenID: "7"})
	require.True(t, ok)
	assert.Equal(t, "carol.voi", got.OwnerName)

	// 散token的重复写入同样不降级
	store.PutResolvedTokens([]entity.Token{testToken(9, "7", "A")})
	got, _ = store.GetToken(entity.TokenRef{ContractID: 9, TokenID: "7"})
	assert.Equal(t, "carol.voi", got.OwnerName)
}

func TestVisibilitySkipUnchangedQuery(t *testing.T) {
	store := NewStore(time.Minute, 8)
	burned := testToken(1, "2", "B")
	burned.IsBurned = true
	store.ReplaceTokens(1, []entity.Token{testToken(1, "1", "A"), burned}, "")

	visible, recomputed := store.UpdateVisibility(1, "", entity.TabAll, nil)
	assert.True(t, recomputed)
	assert.Equal(t, 1, visible)
	assert.Equal(t, int64(1), store.RecomputeNum())

	// 查询三元组未变化，整体跳过
	visible, recomputed = store.UpdateVisibility(1, "", entity.TabAll, nil)
	assert.False(t, recomputed)
	assert.Equal(t, 1, visible)
	assert.Equal(t, int64(1), store.RecomputeNum())

	// 任一元素变化则重算
	_, recomputed = store.UpdateVisibility(1, "", entity.TabBurned, nil)
	assert.True(t, recomputed)
	assert.Equal(t, int64(2), store.RecomputeNum())
}

func TestVisibilityTabs(t *testing.T) {
	store := NewStore(time.Minute, 8)

	listed := testToken(1, "1", "A")
	listed.Listing = &entity.Listing{TransactionID: "tx1"}
	sold := testToken(1, "2", "B")
	sold.Listing = &entity.Listing{TransactionID: "tx2", Sale: &entity.Sale{TransactionID: "tx3"}}
	burned := testToken(1, "3", "C")
	burned.IsBurned = true
	store.ReplaceTokens(1, []entity.Token{listed, sold, burned}, "")

	// forsale只算有效挂单：已成交的不算
	visible, _ := store.UpdateVisibility(1, "", entity.TabForSale, nil)
	assert.Equal(t, 1, visible)

	visible, _ = store.UpdateVisibility(1, "", entity.TabBurned, nil)
	assert.Equal(t, 1, visible)

	visible, _ = store.UpdateVisibility(1, "", entity.TabAll, nil)
	assert.Equal(t, 2, visible)
}

func TestVisibilitySearchAndFilters(t *testing.T) {
	store := NewStore(time.Minute, 8)

	a := testToken(1, "1", "A")
	a.Metadata = entity.TokenMetadata{Name: "Golden Dragon", Properties: map[string]string{"color": "Gold"}}
	b := testToken(1, "2", "B")
	b.Metadata = entity.TokenMetadata{Name: "Silver Fish", Properties: map[string]string{"color": "Silver"}}
	store.ReplaceTokens(1, []entity.Token{a, b}, "")

	// 大小写不敏感子串匹配
	visible, _ := store.UpdateVisibility(1, "golden", entity.TabAll, nil)
	assert.Equal(t, 1, visible)

	// trait值也参与搜索
	visible, _ = store.UpdateVisibility(1, "silver", entity.TabAll, nil)
	assert.Equal(t, 1, visible)

	// trait过滤精确匹配，空值不约束
	visible, _ = store.UpdateVisibility(1, "", entity.TabAll, map[string]string{"color": "Gold"})
	assert.Equal(t, 1, visible)
	visible, _ = store.UpdateVisibility(1, "", entity.TabAll, map[string]string{"color": ""})
	assert.Equal(t, 2, visible)
}

func TestFreshness(t *testing.T) {
	store := NewStore(time.Minute, 8)
	assert.False(t, store.Fresh(time.Time{}))
	assert.True(t, store.Fresh(time.Now()))
	assert.False(t, store.Fresh(time.Now().Add(-2*time.Minute)))
}

func TestRefreshSharesResult(t *testing.T) {
	store := NewStore(time.Minute, 8)
	var calls int
	for i := 0; i < 3; i++ {
		got, err := store.Refresh("k", func() (interface{}, error) {
			calls++
			return fmt.Sprintf("v%d", calls), nil
		})
		require.NoError(t, err)
		assert.NotEmpty(t, got)
	}
	// 串行调用每次都执行，singleflight只合并并发调用
	assert.Equal(t, 3, calls)
}

func TestCollectionListMerge(t *testing.T) {
	store := NewStore(time.Minute, 8)
	col := entity.Collection{ContractID: 1, Name: "First", Creator: "ADDR", CreatorName: "alice.voi"}
	store.ReplaceCollections([]entity.Collection{col}, "", 1)

	// 刷新未带creator_name，保留已解析值
	fresh := entity.Collection{ContractID: 1, Name: "First v2", Creator: "ADDR"}
	merged := store.ReplaceCollections([]entity.Collection{fresh}, "", 1)
	require.Len(t, merged, 1)
	assert.Equal(t, "First v2", merged[0].Name)
	assert.Equal(t, "alice.voi", merged[0].CreatorName)

	got, ok := store.GetCollection(1)
	require.True(t, ok)
	assert.Equal(t, "alice.voi", got.CreatorName)
}
