package namesvc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// envoi批量查询的单次地址上限
const envoiBatchSize = 50

// EnvoiSource 第二优先级命名服务
// 按 /api/name/{csv} 批量查询
type EnvoiSource struct {
	baseURL string
	http    *http.Client
}

func NewEnvoiSource(baseURL string) *EnvoiSource {
	return &EnvoiSource{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

func (s *EnvoiSource) Name() string {
	return "envoi"
}

func (s *EnvoiSource) BatchSize() int {
	return envoiBatchSize
}

type envoiResult struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Metadata struct {
		Avatar string `json:"avatar"`
	} `json:"metadata"`
	Cached bool `json:"cached"`
}

type envoiResponse struct {
	Results []envoiResult `json:"results"`
}

func (s *EnvoiSource) Resolve(ctx context.Context, addrs []string) (map[string]NameRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/api/name/"+strings.Join(addrs, ","), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed on create envoi request")
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed on call envoi lookup")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("envoi lookup returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed on read envoi response")
	}
	var raw envoiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "failed on decode envoi response")
	}

	records := make(map[string]NameRecord, len(raw.Results))
	for _, result := range raw.Results {
		if result.Address == "" {
			continue
		}
		records[result.Address] = NameRecord{
			Address: result.Address,
			Name:    result.Name,
			Avatar:  result.Metadata.Avatar,
		}
	}
	return records, nil
}
