package cache

import (
	"container/list"
	"sync"
	"time"

	"NFTNavBackend/src/entity"

	"github.com/zeromicro/go-zero/core/syncx"
)

const (
	// listing风格缓存的新鲜度窗口
	DefaultFreshness = 5 * time.Minute

	// 集合缓存条目上限，超出按LRU淘汰
	DefaultMaxCollections = 128
)

// Store 进程级聚合缓存
// 所有读取先走缓存；同一个key的刷新通过singleflight串行化，
// 并发调用方共享同一次刷新结果，避免同key写竞争
type Store struct {
	mu sync.RWMutex

	// 按集合缓存的token条目，LRU淘汰
	collections map[uint64]*TokenEntry
	lru         *list.List
	lruIndex    map[uint64]*list.Element
	maxEntries  int

	// 显式ID查询解析出的、不属于任何已缓存集合条目的散token
	loose map[string]entity.Token

	// 集合列表，进程级（集合元数据变化不频繁）
	collectionList *CollectionList

	// listing风格查询缓存，key由查询参数派生
	listingPages  map[string]*ListingPage
	salesPages    map[string]*SalesPage
	transferPages map[string]*TransfersPage
	ownerPages    map[string]*TokenPage

	freshness time.Duration
	sf        syncx.SingleFlight

	// visibility重算次数，供测试观测重算是否被正确跳过
	recomputeNum int64
}

func NewStore(freshness time.Duration, maxEntries int) *Store {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxCollections
	}
	return &Store{
		collections:    make(map[uint64]*TokenEntry),
		lru:            list.New(),
		lruIndex:       make(map[uint64]*list.Element),
		maxEntries:     maxEntries,
		loose:          make(map[string]entity.Token),
		collectionList: newCollectionList(),
		listingPages:   make(map[string]*ListingPage),
		salesPages:     make(map[string]*SalesPage),
		transferPages:  make(map[string]*TransfersPage),
		ownerPages:     make(map[string]*TokenPage),
		freshness:      freshness,
		sf:             syncx.NewSingleFlight(),
	}
}

// Refresh 同一个key的刷新动作串行化，并发调用共享同一次结果
func (s *Store) Refresh(key string, fn func() (interface{}, error)) (interface{}, error) {
	return s.sf.Do(key, fn)
}

// Fresh 判断一次拉取是否还在新鲜度窗口内
func (s *Store) Fresh(fetchedAt time.Time) bool {
	return !fetchedAt.IsZero() && time.Since(fetchedAt) < s.freshness
}

// ---- 集合token条目 ----

// SnapshotTokens 读取集合缓存条目
func (s *Store) SnapshotTokens(contractID uint64) ([]entity.Token, string, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.collections[contractID]
	if !ok {
		return nil, "", time.Time{}, false
	}
	s.touch(contractID)
	return entry.Tokens, entry.NextToken, entry.FetchedAt, true
}

// ReplaceTokens 整体刷新集合条目
// 刷新结果与旧条目按标识合并，未重新补全的字段保留旧值
func (s *Store) ReplaceTokens(contractID uint64, tokens []entity.Token, nextToken string) []entity.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.collections[contractID]
	entry := newTokenEntry()
	if old != nil {
		// 保留上次的查询三元组，刷新后visibility按需重算
		entry.lastSearch = old.lastSearch
		entry.lastTab = old.lastTab
		entry.lastFilters = old.lastFilters
		for i := range tokens {
			if prev, ok := old.get(tokens[i].Key()); ok {
				tokens[i] = mergeToken(prev, tokens[i])
			}
		}
	}
	entry.upsert(tokens)
	entry.NextToken = nextToken
	entry.FetchedAt = time.Now()
	s.collections[contractID] = entry
	s.touch(contractID)
	s.evict()
	return entry.Tokens
}

// AppendTokens 加载更多：新token追加，已有标识就地更新，游标前移
func (s *Store) AppendTokens(contractID uint64, tokens []entity.Token, nextToken string) []entity.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.collections[contractID]
	if !ok {
		entry = newTokenEntry()
		s.collections[contractID] = entry
	}
	entry.upsert(tokens)
	entry.NextToken = nextToken
	entry.FetchedAt = time.Now()
	s.touch(contractID)
	s.evict()
	return entry.Tokens
}

// GetToken 按标识查单个token，先查集合条目再查散token
func (s *Store) GetToken(ref entity.TokenRef) (entity.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if entry, ok := s.collections[ref.ContractID]; ok {
		if token, ok := entry.get(ref.Key()); ok {
			return token, true
		}
	}
	token, ok := s.loose[ref.Key()]
	return token, ok
}

// PutResolvedTokens 写入显式ID查询的结果
// 标识已在集合条目中的就地更新，否则落入散token表；不影响集合游标
func (s *Store) PutResolvedTokens(tokens []entity.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range tokens {
		key := tokens[i].Key()
		if entry, ok := s.collections[tokens[i].ContractID]; ok {
			if _, exists := entry.index[key]; exists {
				entry.upsert(tokens[i : i+1])
				continue
			}
		}
		if prev, ok := s.loose[key]; ok {
			s.loose[key] = mergeToken(prev, tokens[i])
			continue
		}
		s.loose[key] = tokens[i]
	}
}

// InvalidateCollection 清除集合条目，token只随整集合清除而消失
func (s *Store) InvalidateCollection(contractID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, contractID)
	if elem, ok := s.lruIndex[contractID]; ok {
		s.lru.Remove(elem)
		delete(s.lruIndex, contractID)
	}
}

// touch 移到LRU队首，调用方必须持有写锁
func (s *Store) touch(contractID uint64) {
	if elem, ok := s.lruIndex[contractID]; ok {
		s.lru.MoveToFront(elem)
		return
	}
	s.lruIndex[contractID] = s.lru.PushFront(contractID)
}

// evict 超出上限时淘汰最久未使用的集合条目，调用方必须持有写锁
func (s *Store) evict() {
	for len(s.collections) > s.maxEntries {
		oldest := s.lru.Back()
		if oldest == nil {
			return
		}
		contractID := oldest.Value.(uint64)
		s.lru.Remove(oldest)
		delete(s.lruIndex, contractID)
		delete(s.collections, contractID)
	}
}

// ---- 集合列表 ----

// SnapshotCollections 读取集合列表缓存
func (s *Store) SnapshotCollections() ([]entity.Collection, string, int64, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l := s.collectionList
	return l.Collections, l.NextToken, l.TotalCount, l.FetchedAt
}

// GetCollection 按contractId查单个集合
func (s *Store) GetCollection(contractID uint64) (entity.Collection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.collectionList.index[contractID]
	if !ok {
		return entity.Collection{}, false
	}
	return s.collectionList.Collections[pos], true
}

// ReplaceCollections 整体刷新集合列表，已解析的创建者名称保留
func (s *Store) ReplaceCollections(collections []entity.Collection, nextToken string, totalCount int64) []entity.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.collectionList
	fresh := newCollectionList()
	for i := range collections {
		if pos, ok := old.index[collections[i].ContractID]; ok {
			collections[i] = mergeCollection(old.Collections[pos], collections[i])
		}
	}
	fresh.upsert(collections)
	fresh.NextToken = nextToken
	fresh.TotalCount = totalCount
	fresh.FetchedAt = time.Now()
	s.collectionList = fresh
	return fresh.Collections
}

// AppendCollections 集合列表加载更多
func (s *Store) AppendCollections(collections []entity.Collection, nextToken string, totalCount int64) []entity.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collectionList.upsert(collections)
	s.collectionList.NextToken = nextToken
	s.collectionList.TotalCount = totalCount
	s.collectionList.FetchedAt = time.Now()
	return s.collectionList.Collections
}

// UpsertCollections 合并单个/部分集合信息，不影响列表游标
func (s *Store) UpsertCollections(collections []entity.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collectionList.upsert(collections)
}

// ---- listing风格查询缓存 ----

func (s *Store) GetListingPage(key string) (*ListingPage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, ok := s.listingPages[key]
	return page, ok
}

func (s *Store) PutListingPage(key string, page *ListingPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page.FetchedAt = time.Now()
	s.listingPages[key] = page
}

func (s *Store) GetSalesPage(key string) (*SalesPage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, ok := s.salesPages[key]
	return page, ok
}

func (s *Store) PutSalesPage(key string, page *SalesPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page.FetchedAt = time.Now()
	s.salesPages[key] = page
}

func (s *Store) GetTransfersPage(key string) (*TransfersPage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, ok := s.transferPages[key]
	return page, ok
}

func (s *Store) PutTransfersPage(key string, page *TransfersPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page.FetchedAt = time.Now()
	s.transferPages[key] = page
}

func (s *Store) GetOwnerPage(key string) (*TokenPage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, ok := s.ownerPages[key]
	return page, ok
}

func (s *Store) PutOwnerPage(key string, page *TokenPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page.FetchedAt = time.Now()
	s.ownerPages[key] = page
}
