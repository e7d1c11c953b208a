package entity

import "fmt"

// Token元数据，从indexer返回的metadata json串解析而来
// 解析失败时保留空对象，不影响token本身的返回
type TokenMetadata struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Image       string            `json:"image"`
	Properties  map[string]string `json:"properties"`
}

// Token NFT记录，唯一标识为(contract_id, token_id)
type Token struct {
	ContractID  uint64        `json:"contract_id"`
	TokenID     string        `json:"token_id"`
	Owner       string        `json:"owner"`
	Approved    string        `json:"approved"`
	MetadataURI string        `json:"metadata_uri"`
	Metadata    TokenMetadata `json:"metadata"`
	IsBurned    bool          `json:"is_burned"`
	MintRound   int64         `json:"mint_round"`

	// 通过命名服务补全的信息，解析失败时保持为空
	OwnerName   string `json:"owner_name"`
	OwnerAvatar string `json:"owner_avatar"`

	Listing  *Listing `json:"listing"`
	LastSale *Sale    `json:"last_sale"`

	// 稀有度排名，仅由稀有度引擎在单个集合范围内赋值，0表示未计算
	Rank int `json:"rank"`

	// 可见性标记，由visibility重算维护，不参与网络请求
	Visible bool `json:"visible"`
}

// Key token在缓存中的唯一标识
func (t *Token) Key() string {
	return fmt.Sprintf("%d_%s", t.ContractID, t.TokenID)
}

// DisplayName 展示名称，元数据缺失时回退为 #tokenId
func (t *Token) DisplayName() string {
	if t.Metadata.Name != "" {
		return t.Metadata.Name
	}
	return fmt.Sprintf("#%s", t.TokenID)
}

// TokenRef 显式ID选择器的单个元素
type TokenRef struct {
	ContractID uint64 `json:"contract_id"`
	TokenID    string `json:"token_id"`
}

func (r TokenRef) Key() string {
	return fmt.Sprintf("%d_%s", r.ContractID, r.TokenID)
}

// Token查询参数，selector字段互斥
type TokenFilterParam struct {
	ContractID uint64     `json:"contract_id"`
	Owner      string     `json:"owner"`
	TokenIDs   []TokenRef `json:"token_ids"`
	TokenID    string     `json:"token_id"`

	Limit        int    `json:"limit"`
	NextToken    string `json:"next_token"`
	ForceRefresh bool   `json:"force_refresh"`
}

// Token列表返回参数
type TokenListRes struct {
	Result     interface{} `json:"result"`
	NextToken  string      `json:"next_token"`
	TotalCount int64       `json:"total_count"`
	HasMore    bool        `json:"has_more"`
}

// Token详情返回参数
type TokenDetailRes struct {
	Result interface{} `json:"result"`
}

// Trait信息
type TraitInfo struct {
	Trait        string  `json:"trait"`
	TraitValue   string  `json:"trait_value"`
	TraitAmount  int64   `json:"trait_amount"`
	TraitPercent float64 `json:"trait_percent"`
}

// Trait返回参数
type TokenTraitsRes struct {
	Result interface{} `json:"result"`
}
