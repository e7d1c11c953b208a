package namesvc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"NFTNavBackend/src/logger/xzap"
	"NFTNavBackend/src/utils"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// token维度查询的单次上限
const tokenNameBatchSize = 10

// TokenNameSource 命名集合的token维度解析
// 该集合内每个token本身就是一个名称，按 /api/token/{csv} 批量查询
type TokenNameSource struct {
	baseURL string
	http    *http.Client
}

func NewTokenNameSource(baseURL string) *TokenNameSource {
	return &TokenNameSource{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

type tokenNameResult struct {
	TokenID  string `json:"token_id"`
	Name     string `json:"name"`
	Metadata struct {
		Avatar string `json:"avatar"`
	} `json:"metadata"`
}

type tokenNameResponse struct {
	Results []tokenNameResult `json:"results"`
}

// ResolveTokens 批量解析token名称，10个一批并发请求
// 失败的批次记录日志后跳过，返回部分结果
func (s *TokenNameSource) ResolveTokens(ctx context.Context, tokenIDs []string) map[string]NameRecord {
	records := make(map[string]NameRecord)
	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, batch := range utils.ChunkStrings(utils.RemoveRepeatedElement(tokenIDs), tokenNameBatchSize) {
		wg.Add(1)
		go func(batch []string) {
			defer wg.Done()
			lookupCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
			defer cancel()
			results, err := s.resolveBatch(lookupCtx, batch)
			if err != nil {
				xzap.WithContext(ctx).Warn("failed on resolve token name batch",
					zap.Int("batch_size", len(batch)), zap.Error(err))
				return
			}
			mu.Lock()
			for tokenID, record := range results {
				records[tokenID] = record
			}
			mu.Unlock()
		}(batch)
	}
	wg.Wait()
	return records
}

func (s *TokenNameSource) resolveBatch(ctx context.Context, tokenIDs []string) (map[string]NameRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/api/token/"+strings.Join(tokenIDs, ","), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed on create token name request")
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed on call token name lookup")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("token name lookup returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed on read token name response")
	}
	var raw tokenNameResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "failed on decode token name response")
	}
	records := make(map[string]NameRecord, len(raw.Results))
	for _, result := range raw.Results {
		if result.TokenID == "" {
			continue
		}
		records[result.TokenID] = NameRecord{
			Name:   result.Name,
			Avatar: result.Metadata.Avatar,
		}
	}
	return records, nil
}
