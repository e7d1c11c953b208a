package rarity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// RankingClient 外部trait排名服务客户端
// 仅用于单token集合的排名兜底
type RankingClient struct {
	endpoint string
	http     *http.Client
}

func NewRankingClient(endpoint string) *RankingClient {
	return &RankingClient{
		endpoint: endpoint,
		http:     &http.Client{},
	}
}

type rankRequest struct {
	AssetIDs []string `json:"assetIDs"`
}

// FetchRanks 查询指定token的外部排名，返回tokenId->rank
func (c *RankingClient) FetchRanks(ctx context.Context, tokenIDs []string) (map[string]int, error) {
	payload, err := json.Marshal(rankRequest{AssetIDs: tokenIDs})
	if err != nil {
		return nil, errors.Wrap(err, "failed on marshal rank request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "failed on create rank request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed on call ranking service")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("ranking service returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed on read ranking response")
	}
	var ranks map[string]int
	if err := json.Unmarshal(body, &ranks); err != nil {
		return nil, errors.Wrap(err, "failed on decode ranking response")
	}
	return ranks, nil
}
