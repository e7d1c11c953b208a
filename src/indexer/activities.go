package indexer

import (
	"context"
	"net/url"
	"strconv"

	"NFTNavBackend/src/entity"
)

type salesResponse struct {
	Sales        []rawSale `json:"sales"`
	NextToken    *string   `json:"next-token"`
	TotalCount   int64     `json:"total-count"`
	CurrentRound int64     `json:"current-round"`
}

// SalesResult 一次成交查询的结果
type SalesResult struct {
	Sales        []entity.Sale
	NextToken    string
	TotalCount   int64
	CurrentRound int64
}

// FetchSales 按selector查询成交记录，单页返回
func (c *Client) FetchSales(ctx context.Context, filter entity.SaleFilterParam) (*SalesResult, error) {
	query := url.Values{}
	if filter.ContractID != 0 {
		query.Set("collectionId", strconv.FormatUint(filter.ContractID, 10))
	}
	if filter.TokenID != "" {
		query.Set("tokenId", filter.TokenID)
	}
	if filter.Seller != "" {
		query.Set("seller", filter.Seller)
	}
	if filter.Buyer != "" {
		query.Set("buyer", filter.Buyer)
	}
	if filter.MinRound > 0 {
		query.Set("min-round", strconv.FormatInt(filter.MinRound, 10))
	}
	if filter.MaxRound > 0 {
		query.Set("max-round", strconv.FormatInt(filter.MaxRound, 10))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	query.Set("limit", strconv.Itoa(limit))
	if filter.NextToken != "" {
		query.Set("next-token", filter.NextToken)
	}

	var resp salesResponse
	if err := c.get(ctx, "/mp/sales", query, &resp); err != nil {
		return nil, err
	}
	result := &SalesResult{
		TotalCount:   resp.TotalCount,
		CurrentRound: resp.CurrentRound,
	}
	if resp.NextToken != nil {
		result.NextToken = *resp.NextToken
	}
	for _, raw := range resp.Sales {
		result.Sales = append(result.Sales, toSale(raw))
	}
	return result, nil
}

type rawTransfer struct {
	TransactionID string `json:"transactionId"`
	ContractID    uint64 `json:"contractId"`
	TokenID       string `json:"tokenId"`
	From          string `json:"from"`
	To            string `json:"to"`
	Round         int64  `json:"round"`
	Timestamp     int64  `json:"timestamp"`
}

type transfersResponse struct {
	Transfers    []rawTransfer `json:"transfers"`
	NextToken    *string       `json:"next-token"`
	TotalCount   int64         `json:"total-count"`
	CurrentRound int64         `json:"current-round"`
}

// TransfersResult 一次转移查询的结果
type TransfersResult struct {
	Transfers    []entity.Transfer
	NextToken    string
	TotalCount   int64
	CurrentRound int64
}

// FetchTransfers 按selector查询转移记录，单页返回
func (c *Client) FetchTransfers(ctx context.Context, filter entity.TransferFilterParam) (*TransfersResult, error) {
	query := url.Values{}
	if filter.ContractID != 0 {
		query.Set("contractId", strconv.FormatUint(filter.ContractID, 10))
	}
	if filter.TokenID != "" {
		query.Set("tokenId", filter.TokenID)
	}
	if filter.From != "" {
		query.Set("from", filter.From)
	}
	if filter.To != "" {
		query.Set("to", filter.To)
	}
	if filter.MinRound > 0 {
		query.Set("min-round", strconv.FormatInt(filter.MinRound, 10))
	}
	if filter.MaxRound > 0 {
		query.Set("max-round", strconv.FormatInt(filter.MaxRound, 10))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	query.Set("limit", strconv.Itoa(limit))
	if filter.NextToken != "" {
		query.Set("next-token", filter.NextToken)
	}

	var resp transfersResponse
	if err := c.get(ctx, "/transfers", query, &resp); err != nil {
		return nil, err
	}
	result := &TransfersResult{
		TotalCount:   resp.TotalCount,
		CurrentRound: resp.CurrentRound,
	}
	if resp.NextToken != nil {
		result.NextToken = *resp.NextToken
	}
	for _, raw := range resp.Transfers {
		result.Transfers = append(result.Transfers, entity.Transfer{
			TransactionID: raw.TransactionID,
			ContractID:    raw.ContractID,
			TokenID:       raw.TokenID,
			From:          raw.From,
			To:            raw.To,
			Round:         raw.Round,
			Timestamp:     raw.Timestamp,
		})
	}
	return result, nil
}
