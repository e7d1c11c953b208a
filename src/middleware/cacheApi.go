package middleware

import (
	"bytes"
	"crypto/sha512"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"NFTNavBackend/src/xhttp"

	"github.com/gin-gonic/gin"
	"github.com/zeromicro/go-zero/core/collection"
)

const CacheApiPrefix = "apicache:"

type responseCache struct {
	Status int
	Header http.Header
	Data   []byte
}

// CacheApi API响应缓存中间件
// 1、检查请求是否有缓存，有且业务码为200则直接返回缓存数据
// 2、没有缓存则继续处理请求
// 3、请求处理完成后业务码为200的响应写入缓存，过期由缓存自身管理
func CacheApi(store *collection.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var data xhttp.Response
		//创建响应体写入器，用于获取响应内容
		bodyLogWrite := &BodyLogWrite{ResponseWriter: c.Writer, body: bytes.NewBufferString("")}
		c.Writer = bodyLogWrite

		//生成缓存key
		cacheKey := CreateKey(c)

		//尝试获取缓存数据
		if cacheData, ok := store.Get(cacheKey); ok {
			if cached, ok := cacheData.(*responseCache); ok {
				if err := json.Unmarshal(cached.Data, &data); err == nil && data.Code == http.StatusOK {
					bodyLogWrite.ResponseWriter.WriteHeader(cached.Status)
					for k, vals := range cached.Header {
						for _, v := range vals {
							bodyLogWrite.ResponseWriter.Header().Set(k, v)
						}
					}
					bodyLogWrite.ResponseWriter.Write(cached.Data)
					c.Abort()
					return
				}
			}
		}

		//缓存未命中，继续处理请求
		c.Next()

		//业务码为200的响应写入缓存
		responseBody := bodyLogWrite.body.Bytes()
		if err := json.Unmarshal(responseBody, &data); err == nil && data.Code == http.StatusOK {
			store.Set(cacheKey, &responseCache{
				Header: bodyLogWrite.Header().Clone(),
				Status: bodyLogWrite.ResponseWriter.Status(),
				Data:   append([]byte(nil), responseBody...),
			})
		}
	}
}

// CreateKey 生成缓存key
// 1、将路径、查询参数和请求体组合成缓存key
// 2、如果key长度超过128，使用SHA512进行哈希
// 3、添加缓存前缀并返回最终的key
func CreateKey(c *gin.Context) string {
	var buf bytes.Buffer
	reader := io.TeeReader(c.Request.Body, &buf)
	reqBody, _ := io.ReadAll(reader)
	c.Request.Body = io.NopCloser(&buf)

	path := c.Request.URL.Path
	query := c.Request.URL.RawQuery
	cacheKey := path + "," + query + string(reqBody)
	//如果key太长则进行哈希
	if len(cacheKey) > 128 {
		hash := sha512.New()
		hash.Write([]byte(cacheKey))
		cacheKey = fmt.Sprintf("%x", hash.Sum(nil))
	}
	return CacheApiPrefix + cacheKey
}
