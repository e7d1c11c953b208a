package cache

import (
	"time"

	"NFTNavBackend/src/entity"
)

// TokenEntry 单个集合的缓存条目
// token按插入顺序保存，保证"加载更多"时已有条目位置稳定；
// 同一标识重复写入时就地更新而不是追加
type TokenEntry struct {
	Tokens    []entity.Token
	index     map[string]int
	NextToken string
	FetchedAt time.Time

	// 上一次可见性重算使用的查询三元组
	lastSearch  string
	lastTab     string
	lastFilters map[string]string
	hasQuery    bool
	visibleNum  int
}

func newTokenEntry() *TokenEntry {
	return &TokenEntry{index: make(map[string]int)}
}

// FullyLoaded 续页游标为空表示集合已全部加载
func (e *TokenEntry) FullyLoaded() bool {
	return e.NextToken == ""
}

// upsert 写入token列表，已存在的标识就地合并，新标识追加到末尾
func (e *TokenEntry) upsert(tokens []entity.Token) {
	for i := range tokens {
		key := tokens[i].Key()
		if pos, ok := e.index[key]; ok {
			e.Tokens[pos] = mergeToken(e.Tokens[pos], tokens[i])
			continue
		}
		e.index[key] = len(e.Tokens)
		e.Tokens = append(e.Tokens, tokens[i])
	}
}

// mergeToken 合并重新拉取的token
// indexer实际返回的字段整体替换，未重新跑补全/排名的字段沿用旧值，
// 避免一次局部刷新把已解析的名称头像或名次清掉
func mergeToken(old, fresh entity.Token) entity.Token {
	merged := fresh
	if merged.OwnerName == "" && old.Owner == fresh.Owner {
		merged.OwnerName = old.OwnerName
	}
	if merged.OwnerAvatar == "" && old.Owner == fresh.Owner {
		merged.OwnerAvatar = old.OwnerAvatar
	}
	if merged.Rank == 0 {
		merged.Rank = old.Rank
	}
	if merged.Listing == nil {
		merged.Listing = old.Listing
	}
	if merged.LastSale == nil {
		merged.LastSale = old.LastSale
	}
	merged.Visible = old.Visible
	return merged
}

// get 按标识取token
func (e *TokenEntry) get(key string) (entity.Token, bool) {
	pos, ok := e.index[key]
	if !ok {
		return entity.Token{}, false
	}
	return e.Tokens[pos], true
}

// ListingPage listing风格查询的缓存条目（挂单/成交/转移/按所有者的token页）
// 同一查询参数五分钟内直接复用，除非调用方强制刷新或继续翻页
type ListingPage struct {
	Listings   []entity.Listing
	NextToken  string
	TotalCount int64
	FetchedAt  time.Time
}

// SalesPage 成交查询缓存条目
type SalesPage struct {
	Sales      []entity.Sale
	NextToken  string
	TotalCount int64
	FetchedAt  time.Time
}

// TransfersPage 转移查询缓存条目
type TransfersPage struct {
	Transfers  []entity.Transfer
	NextToken  string
	TotalCount int64
	FetchedAt  time.Time
}

// TokenPage 按所有者查询的token缓存条目
type TokenPage struct {
	Tokens     []entity.Token
	NextToken  string
	TotalCount int64
	FetchedAt  time.Time
}

// CollectionList 集合列表缓存，进程级
type CollectionList struct {
	Collections []entity.Collection
	index       map[uint64]int
	NextToken   string
	TotalCount  int64
	FetchedAt   time.Time
}

func newCollectionList() *CollectionList {
	return &CollectionList{index: make(map[uint64]int)}
}

func (l *CollectionList) upsert(collections []entity.Collection) {
	for i := range collections {
		id := collections[i].ContractID
		if pos, ok := l.index[id]; ok {
			l.Collections[pos] = mergeCollection(l.Collections[pos], collections[i])
			continue
		}
		l.index[id] = len(l.Collections)
		l.Collections = append(l.Collections, collections[i])
	}
}

func mergeCollection(old, fresh entity.Collection) entity.Collection {
	merged := fresh
	if merged.CreatorName == "" && old.Creator == fresh.Creator {
		merged.CreatorName = old.CreatorName
	}
	if merged.Project == nil {
		merged.Project = old.Project
	}
	return merged
}
