package indexer

import (
	"context"
	"net/url"
	"strconv"

	"NFTNavBackend/src/entity"
)

type rawSale struct {
	TransactionID string `json:"transactionId"`
	ContractID    uint64 `json:"contractId"`
	TokenID       string `json:"tokenId"`
	Seller        string `json:"seller"`
	Buyer         string `json:"buyer"`
	Price         int64  `json:"price"`
	CurrencyID    uint64 `json:"currency"`
	Round         int64  `json:"round"`
	Timestamp     int64  `json:"timestamp"`
}

type rawDelete struct {
	TransactionID string `json:"transactionId"`
	Round         int64  `json:"round"`
	Timestamp     int64  `json:"timestamp"`
}

type rawListing struct {
	TransactionID string     `json:"transactionId"`
	ContractID    uint64     `json:"collectionId"`
	TokenID       string     `json:"tokenId"`
	Seller        string     `json:"seller"`
	Price         int64      `json:"price"`
	CurrencyID    uint64     `json:"currency"`
	CreateRound   int64      `json:"createRound"`
	CreateTime    int64      `json:"createTimestamp"`
	EndTime       int64      `json:"endTimestamp"`
	Sale          *rawSale   `json:"sale"`
	Delete        *rawDelete `json:"delete"`

	// includes=token,collection 返回的冗余快照
	Token      *rawTokenSnapshot      `json:"token"`
	Collection *rawCollectionSnapshot `json:"collection"`
}

type rawTokenSnapshot struct {
	ContractID uint64 `json:"contractId"`
	TokenID    string `json:"tokenId"`
	Name       string `json:"name"`
	Image      string `json:"image"`
	Owner      string `json:"owner"`
}

type rawCollectionSnapshot struct {
	ContractID uint64 `json:"contractId"`
	Name       string `json:"name"`
	ImageURL   string `json:"imageURL"`
}

type listingsResponse struct {
	Listings     []rawListing `json:"listings"`
	NextToken    *string      `json:"next-token"`
	TotalCount   int64        `json:"total-count"`
	CurrentRound int64        `json:"current-round"`
}

// ListingsResult 一次挂单查询的结果
type ListingsResult struct {
	Listings     []entity.Listing
	NextToken    string
	TotalCount   int64
	CurrentRound int64
}

// FetchListings 按selector查询市场挂单，单页返回，带token和collection冗余快照
func (c *Client) FetchListings(ctx context.Context, filter entity.ListingFilterParam) (*ListingsResult, error) {
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
	if !filter.MinPrice.IsZero() {
		query.Set("min-price", filter.MinPrice.String())
	}
	if !filter.MaxPrice.IsZero() {
		query.Set("max-price", filter.MaxPrice.String())
	}
	if filter.CurrencyID != nil {
		query.Set("currency", strconv.FormatUint(*filter.CurrencyID, 10))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	query.Set("limit", strconv.Itoa(limit))
	if filter.NextToken != "" {
		query.Set("next-token", filter.NextToken)
	}
	query.Set("includes", "token,collection")

	var resp listingsResponse
	if err := c.get(ctx, "/mp/listings", query, &resp); err != nil {
		return nil, err
	}
	result := &ListingsResult{
		TotalCount:   resp.TotalCount,
		CurrentRound: resp.CurrentRound,
	}
	if resp.NextToken != nil {
		result.NextToken = *resp.NextToken
	}
	for _, raw := range resp.Listings {
		result.Listings = append(result.Listings, toListing(raw))
	}
	return result, nil
}

func toListing(raw rawListing) entity.Listing {
	listing := entity.Listing{
		TransactionID: raw.TransactionID,
		ContractID:    raw.ContractID,
		TokenID:       raw.TokenID,
		Seller:        raw.Seller,
		Price:         minorUnitsToDecimal(raw.Price),
		CurrencyID:    raw.CurrencyID,
		CreateRound:   raw.CreateRound,
		CreateTime:    raw.CreateTime,
		EndTime:       raw.EndTime,
	}
	if raw.Sale != nil {
		sale := toSale(*raw.Sale)
		listing.Sale = &sale
	}
	if raw.Delete != nil {
		listing.Delete = &entity.DeleteMarker{
			TransactionID: raw.Delete.TransactionID,
			Round:         raw.Delete.Round,
			Timestamp:     raw.Delete.Timestamp,
		}
	}
	if raw.Token != nil {
		listing.Token = &entity.TokenSnapshot{
			ContractID: raw.Token.ContractID,
			TokenID:    raw.Token.TokenID,
			Name:       raw.Token.Name,
			Image:      raw.Token.Image,
			Owner:      raw.Token.Owner,
		}
	}
	if raw.Collection != nil {
		listing.Collection = &entity.CollectionSnapshot{
			ContractID: raw.Collection.ContractID,
			Name:       raw.Collection.Name,
			ImageURL:   raw.Collection.ImageURL,
		}
	}
	return listing
}

func toSale(raw rawSale) entity.Sale {
	return entity.Sale{
		TransactionID: raw.TransactionID,
		ContractID:    raw.ContractID,
		TokenID:       raw.TokenID,
		Seller:        raw.Seller,
		Buyer:         raw.Buyer,
		Price:         minorUnitsToDecimal(raw.Price),
		CurrencyID:    raw.CurrencyID,
		Round:         raw.Round,
		Timestamp:     raw.Timestamp,
	}
}
