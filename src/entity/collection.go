package entity

import "github.com/shopspring/decimal"

// 外部项目元数据，部分集合在indexer上登记了项目信息
type ProjectMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Cover       string `json:"cover"`
}

// Collection NFT集合记录，唯一标识为contract_id
// 集合元数据变化不频繁，进程级缓存
type Collection struct {
	ContractID   uint64 `json:"contract_id"`
	Name         string `json:"name"`
	Creator      string `json:"creator"`
	CreatorName  string `json:"creator_name"`
	ImageURL     string `json:"image_url"`
	TotalSupply  int64  `json:"total_supply"`
	BurnedSupply int64  `json:"burned_supply"`
	UniqueOwners int64  `json:"unique_owners"`
	MintRound    int64  `json:"mint_round"`

	Project *ProjectMeta `json:"project"`

	// 链上全局kv状态，用于计算mint价格档位
	GlobalState map[string]string `json:"global_state"`
}

// Collection查询参数
type CollectionFilterParam struct {
	ContractID   uint64 `json:"contract_id"`
	Creator      string `json:"creator"`
	Limit        int    `json:"limit"`
	NextToken    string `json:"next_token"`
	ForceRefresh bool   `json:"force_refresh"`
}

// Collection列表返回参数
type CollectionListRes struct {
	Result     interface{} `json:"result"`
	NextToken  string      `json:"next_token"`
	TotalCount int64       `json:"total_count"`
	HasMore    bool        `json:"has_more"`
}

// Collection详情返回参数
type CollectionDetailRes struct {
	Result interface{} `json:"result"`
}

// Collection详情
type CollectionDetail struct {
	ContractID   uint64          `json:"contract_id"`
	Name         string          `json:"name"`
	Creator      string          `json:"creator"`
	CreatorName  string          `json:"creator_name"`
	ImageURL     string          `json:"image_url"`
	TotalSupply  int64           `json:"total_supply"`
	BurnedSupply int64           `json:"burned_supply"`
	UniqueOwners int64           `json:"unique_owners"`
	MintRound    int64           `json:"mint_round"`
	MintPrice    decimal.Decimal `json:"mint_price"`
	Project      *ProjectMeta    `json:"project"`
}
