package namesvc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// NFD批量查询的单次地址上限
const nfdBatchSize = 20

// NFDSource 第一优先级命名服务
// 按 /nfd/lookup?address=a&address=b 批量查询，返回以地址为key的map
type NFDSource struct {
	baseURL string
	http    *http.Client
}

func NewNFDSource(baseURL string) *NFDSource {
	return &NFDSource{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

func (s *NFDSource) Name() string {
	return "nfd"
}

func (s *NFDSource) BatchSize() int {
	return nfdBatchSize
}

type nfdRecord struct {
	Name       string `json:"name"`
	Properties struct {
		UserDefined map[string]string `json:"userDefined"`
		Verified    map[string]string `json:"verified"`
	} `json:"properties"`
}

func (s *NFDSource) Resolve(ctx context.Context, addrs []string) (map[string]NameRecord, error) {
	query := url.Values{}
	for _, addr := range addrs {
		query.Add("address", addr)
	}
	query.Set("view", "tiny")
	query.Set("allowUnverified", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/nfd/lookup?"+query.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed on create nfd request")
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed on call nfd lookup")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("nfd lookup returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed on read nfd response")
	}
	var raw map[string]nfdRecord
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "failed on decode nfd response")
	}

	records := make(map[string]NameRecord, len(raw))
	for addr, record := range raw {
		avatar := record.Properties.Verified["avatar"]
		if avatar == "" {
			avatar = record.Properties.UserDefined["avatar"]
		}
		records[addr] = NameRecord{
			Address: addr,
			Name:    record.Name,
			Avatar:  avatar,
		}
	}
	return records, nil
}
