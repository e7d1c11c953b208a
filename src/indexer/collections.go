package indexer

import (
	"context"
	"net/url"
	"strconv"

	"NFTNavBackend/src/entity"
)

type rawProject struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Cover       string `json:"cover"`
}

type rawCollection struct {
	ContractID   uint64            `json:"contractId"`
	Name         string            `json:"name"`
	Creator      string            `json:"creator"`
	ImageURL     string            `json:"imageURL"`
	TotalSupply  int64             `json:"totalSupply"`
	BurnedSupply int64             `json:"burnedSupply"`
	UniqueOwners int64             `json:"uniqueOwners"`
	MintRound    int64             `json:"mint-round"`
	Project      *rawProject       `json:"project"`
	GlobalState  map[string]string `json:"globalState"`
}

type collectionsResponse struct {
	Collections  []rawCollection `json:"collections"`
	NextToken    *string         `json:"next-token"`
	TotalCount   int64           `json:"total-count"`
	CurrentRound int64           `json:"current-round"`
}

// CollectionsResult 一次集合查询的结果
type CollectionsResult struct {
	Collections  []entity.Collection
	NextToken    string
	TotalCount   int64
	CurrentRound int64
}

// FetchCollections 按selector查询集合列表，单页返回
func (c *Client) FetchCollections(ctx context.Context, filter entity.CollectionFilterParam) (*CollectionsResult, error) {
	query := url.Values{}
	if filter.ContractID != 0 {
		query.Set("contractId", strconv.FormatUint(filter.ContractID, 10))
	}
	if filter.Creator != "" {
		query.Set("creator", filter.Creator)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	query.Set("limit", strconv.Itoa(limit))
	if filter.NextToken != "" {
		query.Set("next-token", filter.NextToken)
	}
	query.Set("includes", "unique-owners")

	var resp collectionsResponse
	if err := c.get(ctx, "/collections", query, &resp); err != nil {
		return nil, err
	}
	result := &CollectionsResult{
		TotalCount:   resp.TotalCount,
		CurrentRound: resp.CurrentRound,
	}
	if resp.NextToken != nil {
		result.NextToken = *resp.NextToken
	}
	for _, raw := range resp.Collections {
		result.Collections = append(result.Collections, toCollection(raw))
	}
	return result, nil
}

func toCollection(raw rawCollection) entity.Collection {
	col := entity.Collection{
		ContractID:   raw.ContractID,
		Name:         raw.Name,
		Creator:      raw.Creator,
		ImageURL:     raw.ImageURL,
		TotalSupply:  raw.TotalSupply,
		BurnedSupply: raw.BurnedSupply,
		UniqueOwners: raw.UniqueOwners,
		MintRound:    raw.MintRound,
		GlobalState:  raw.GlobalState,
	}
	if raw.Project != nil {
		col.Project = &entity.ProjectMeta{
			Title:       raw.Project.Title,
			Description: raw.Project.Description,
			Cover:       raw.Project.Cover,
		}
	}
	return col
}
