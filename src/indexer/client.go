package indexer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const (
	// 显式ID查询单次请求的最大ID数量
	TokenIDChunkSize = 50

	// 默认分页大小
	DefaultPageSize = 100

	// 上游indexer请求超时
	defaultTimeout = 12 * time.Second

	maxResponseBytes = 16 << 20
)

// ErrInvalidSelector 未提供有效selector，属于调用方错误，向上传递
var ErrInvalidSelector = errors.New("no valid selector provided")

// Client 上游indexer的分页HTTP客户端
// 只做网络IO，不接触缓存
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// get 发起GET请求并解析json返回体
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u = u + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "failed on create indexer request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed on call indexer")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("indexer returned status %d for %s", resp.StatusCode, path)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errors.Wrap(err, "failed on read indexer response")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "failed on decode indexer response")
	}
	return nil
}
