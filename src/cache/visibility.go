package cache

import (
	"strings"
	"sync/atomic"

	"NFTNavBackend/src/entity"
)

// UpdateVisibility 在已缓存的token集合上重算visible标记，不发起任何网络请求
// 查询三元组(searchText, tab, filters)与上次一致时整体跳过：
// 重算是O(tokens×filters)的，不能跟着每次无变化的重渲染跑
func (s *Store) UpdateVisibility(contractID uint64, searchText, tab string, filters map[string]string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.collections[contractID]
	if !ok {
		return 0, false
	}
	if entry.hasQuery && entry.sameQuery(searchText, tab, filters) {
		return entry.visibleNum, false
	}

	atomic.AddInt64(&s.recomputeNum, 1)
	visible := 0
	for i := range entry.Tokens {
		entry.Tokens[i].Visible = computeVisible(&entry.Tokens[i], searchText, tab, filters)
		if entry.Tokens[i].Visible {
			visible++
		}
	}
	entry.lastSearch = searchText
	entry.lastTab = tab
	entry.lastFilters = copyFilters(filters)
	entry.hasQuery = true
	entry.visibleNum = visible
	return visible, true
}

// RecomputeNum visibility实际重算的次数
func (s *Store) RecomputeNum() int64 {
	return atomic.LoadInt64(&s.recomputeNum)
}

func (e *TokenEntry) sameQuery(searchText, tab string, filters map[string]string) bool {
	if e.lastSearch != searchText || e.lastTab != tab {
		return false
	}
	if len(e.lastFilters) != len(filters) {
		return false
	}
	for k, v := range filters {
		if e.lastFilters[k] != v {
			return false
		}
	}
	return true
}

func copyFilters(filters map[string]string) map[string]string {
	copied := make(map[string]string, len(filters))
	for k, v := range filters {
		copied[k] = v
	}
	return copied
}

// computeVisible 单个token的可见性判定
// 1、tab语义：forsale要求存在未成交未撤销的挂单；burned要求已销毁；默认tab排除已销毁
// 2、搜索词对名称/trait/tokenId做大小写不敏感子串匹配
// 3、trait过滤做精确匹配，空值表示不约束
func computeVisible(t *entity.Token, searchText, tab string, filters map[string]string) bool {
	switch tab {
	case entity.TabBurned:
		if !t.IsBurned {
			return false
		}
	case entity.TabForSale:
		if t.IsBurned || t.Listing == nil || !t.Listing.Active() {
			return false
		}
	default:
		if t.IsBurned {
			return false
		}
	}

	if searchText != "" {
		needle := strings.ToLower(searchText)
		if !matchesSearch(t, needle) {
			return false
		}
	}

	for trait, want := range filters {
		if want == "" {
			continue
		}
		if t.Metadata.Properties[trait] != want {
			return false
		}
	}
	return true
}

func matchesSearch(t *entity.Token, needle string) bool {
	if strings.Contains(strings.ToLower(t.DisplayName()), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(t.TokenID), needle) {
		return true
	}
	for trait, value := range t.Metadata.Properties {
		if strings.Contains(strings.ToLower(trait), needle) ||
			strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}
