package indexer

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"NFTNavBackend/src/entity"
	"NFTNavBackend/src/logger/xzap"
	"NFTNavBackend/src/utils"

	"go.uber.org/zap"
)

type rawToken struct {
	ContractID  uint64 `json:"contractId"`
	TokenID     string `json:"tokenId"`
	Owner       string `json:"owner"`
	Approved    string `json:"approved"`
	MetadataURI string `json:"metadataURI"`
	Metadata    string `json:"metadata"`
	IsBurned    bool   `json:"isBurned"`
	MintRound   int64  `json:"mint-round"`
}

type tokensResponse struct {
	Tokens       []rawToken `json:"tokens"`
	NextToken    *string    `json:"next-token"`
	TotalCount   int64      `json:"total-count"`
	CurrentRound int64      `json:"current-round"`
}

// TokensResult 一次token查询的结果，NextToken为空表示上游没有更多分页
type TokensResult struct {
	Tokens       []entity.Token
	NextToken    string
	TotalCount   int64
	CurrentRound int64
}

// FetchTokens 按selector查询token
// selector四选一：集合、所有者、显式ID列表、单个(集合,token)对，否则返回ErrInvalidSelector
// 显式ID列表按50个一组切分，逐组请求，失败的分组跳过不致命，返回部分结果
func (c *Client) FetchTokens(ctx context.Context, filter entity.TokenFilterParam) (*TokensResult, error) {
	switch {
	case len(filter.TokenIDs) > 0:
		return c.fetchTokensByIDs(ctx, filter.TokenIDs)
	case filter.ContractID != 0 && filter.TokenID != "":
		return c.fetchTokenPage(ctx, url.Values{
			"contractId": []string{strconv.FormatUint(filter.ContractID, 10)},
			"tokenId":    []string{filter.TokenID},
		}, 0, "")
	case filter.ContractID != 0:
		return c.fetchTokenPage(ctx, url.Values{
			"contractId": []string{strconv.FormatUint(filter.ContractID, 10)},
		}, filter.Limit, filter.NextToken)
	case filter.Owner != "":
		return c.fetchTokenPage(ctx, url.Values{
			"owner": []string{filter.Owner},
		}, filter.Limit, filter.NextToken)
	default:
		return nil, ErrInvalidSelector
	}
}

// fetchTokenPage 单页查询，调用方决定是否继续翻页
func (c *Client) fetchTokenPage(ctx context.Context, query url.Values, limit int, nextToken string) (*TokensResult, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	query.Set("limit", strconv.Itoa(limit))
	if nextToken != "" {
		query.Set("next-token", nextToken)
	}
	var resp tokensResponse
	if err := c.get(ctx, "/tokens", query, &resp); err != nil {
		return nil, err
	}
	return newTokensResult(ctx, &resp), nil
}

// fetchTokensByIDs 显式ID列表查询
// 1、去重并按50个一组切分
// 2、逐组请求，失败的分组记录日志后跳过，成功结果累积
// 3、按(contract,token)标识去重后返回
func (c *Client) fetchTokensByIDs(ctx context.Context, refs []entity.TokenRef) (*TokensResult, error) {
	var keys []string
	for _, ref := range refs {
		keys = append(keys, ref.Key())
	}
	keys = utils.RemoveRepeatedElement(keys)

	result := &TokensResult{}
	seen := make(map[string]bool)
	for _, chunk := range utils.ChunkStrings(keys, TokenIDChunkSize) {
		var resp tokensResponse
		query := url.Values{"tokenIds": []string{strings.Join(chunk, ",")}}
		if err := c.get(ctx, "/tokens", query, &resp); err != nil {
			xzap.WithContext(ctx).Error("failed on fetch token id chunk",
				zap.Error(err), zap.Int("chunk_size", len(chunk)))
			continue
		}
		for _, raw := range resp.Tokens {
			token := toToken(ctx, raw)
			if seen[token.Key()] {
				continue
			}
			seen[token.Key()] = true
			result.Tokens = append(result.Tokens, token)
		}
		if resp.CurrentRound > result.CurrentRound {
			result.CurrentRound = resp.CurrentRound
		}
	}
	result.TotalCount = int64(len(result.Tokens))
	return result, nil
}

func newTokensResult(ctx context.Context, resp *tokensResponse) *TokensResult {
	result := &TokensResult{
		TotalCount:   resp.TotalCount,
		CurrentRound: resp.CurrentRound,
	}
	if resp.NextToken != nil {
		result.NextToken = *resp.NextToken
	}
	for _, raw := range resp.Tokens {
		result.Tokens = append(result.Tokens, toToken(ctx, raw))
	}
	return result
}
