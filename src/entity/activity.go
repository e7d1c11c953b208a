package entity

import "github.com/shopspring/decimal"

// Sale 成交记录
type Sale struct {
	TransactionID string          `json:"transaction_id"`
	ContractID    uint64          `json:"contract_id"`
	TokenID       string          `json:"token_id"`
	Seller        string          `json:"seller"`
	Buyer         string          `json:"buyer"`
	Price         decimal.Decimal `json:"price"`
	CurrencyID    uint64          `json:"currency_id"`
	Round         int64           `json:"round"`
	Timestamp     int64           `json:"timestamp"`
}

// Transfer 转移记录
type Transfer struct {
	TransactionID string `json:"transaction_id"`
	ContractID    uint64 `json:"contract_id"`
	TokenID       string `json:"token_id"`
	From          string `json:"from"`
	To            string `json:"to"`
	Round         int64  `json:"round"`
	Timestamp     int64  `json:"timestamp"`
}

// Sale查询参数
type SaleFilterParam struct {
	ContractID uint64 `json:"contract_id"`
	TokenID    string `json:"token_id"`
	Seller     string `json:"seller"`
	Buyer      string `json:"buyer"`
	MinRound   int64  `json:"min_round"`
	MaxRound   int64  `json:"max_round"`

	Limit        int    `json:"limit"`
	NextToken    string `json:"next_token"`
	ForceRefresh bool   `json:"force_refresh"`
}

// Transfer查询参数
type TransferFilterParam struct {
	ContractID uint64 `json:"contract_id"`
	TokenID    string `json:"token_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	MinRound   int64  `json:"min_round"`
	MaxRound   int64  `json:"max_round"`

	Limit        int    `json:"limit"`
	NextToken    string `json:"next_token"`
	ForceRefresh bool   `json:"force_refresh"`
}

// 活动列表返回参数
type ActivityListRes struct {
	Result     interface{} `json:"result"`
	NextToken  string      `json:"next_token"`
	TotalCount int64       `json:"total_count"`
	HasMore    bool        `json:"has_more"`
}
