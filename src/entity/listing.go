package entity

import "github.com/shopspring/decimal"

// DeleteMarker 挂单撤销标记
type DeleteMarker struct {
	TransactionID string `json:"transaction_id"`
	Round         int64  `json:"round"`
	Timestamp     int64  `json:"timestamp"`
}

// TokenSnapshot 挂单上冗余的token快照，由indexer includes参数返回
type TokenSnapshot struct {
	ContractID uint64 `json:"contract_id"`
	TokenID    string `json:"token_id"`
	Name       string `json:"name"`
	Image      string `json:"image"`
	Owner      string `json:"owner"`
}

// CollectionSnapshot 挂单上冗余的集合快照
type CollectionSnapshot struct {
	ContractID uint64 `json:"contract_id"`
	Name       string `json:"name"`
	ImageURL   string `json:"image_url"`
}

// Listing 市场挂单记录，唯一标识为transaction_id
type Listing struct {
	TransactionID string          `json:"transaction_id"`
	ContractID    uint64          `json:"contract_id"`
	TokenID       string          `json:"token_id"`
	Seller        string          `json:"seller"`
	SellerName    string          `json:"seller_name"`
	Price         decimal.Decimal `json:"price"`
	CurrencyID    uint64          `json:"currency_id"`
	CreateRound   int64           `json:"create_round"`
	CreateTime    int64           `json:"create_time"`
	EndTime       int64           `json:"end_time"`

	Sale   *Sale         `json:"sale"`
	Delete *DeleteMarker `json:"delete"`

	Token      *TokenSnapshot      `json:"token"`
	Collection *CollectionSnapshot `json:"collection"`
}

// Active 挂单是否有效：未成交且未撤销
func (l *Listing) Active() bool {
	return l.Sale == nil && l.Delete == nil
}

// Listing查询参数
type ListingFilterParam struct {
	ContractID uint64          `json:"contract_id"`
	TokenID    string          `json:"token_id"`
	Seller     string          `json:"seller"`
	MinPrice   decimal.Decimal `json:"min_price"`
	MaxPrice   decimal.Decimal `json:"max_price"`
	CurrencyID *uint64         `json:"currency_id"`

	Limit        int    `json:"limit"`
	NextToken    string `json:"next_token"`
	ForceRefresh bool   `json:"force_refresh"`
}

// Listing列表返回参数
type ListingListRes struct {
	Result     interface{} `json:"result"`
	NextToken  string      `json:"next_token"`
	TotalCount int64       `json:"total_count"`
	HasMore    bool        `json:"has_more"`
}
