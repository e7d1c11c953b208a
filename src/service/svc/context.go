package svc

import (
	"time"

	"NFTNavBackend/src/cache"
	"NFTNavBackend/src/config"
	"NFTNavBackend/src/indexer"
	"NFTNavBackend/src/logger/xzap"
	"NFTNavBackend/src/namesvc"
	"NFTNavBackend/src/rarity"

	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/collection"
)

// ServerCtx 服务上下文，进程内所有组件的装配点
type ServerCtx struct {
	C        *config.Config
	Indexer  *indexer.Client
	Names    *namesvc.Resolver
	Ranker   *rarity.Ranker
	Store    *cache.Store
	ApiCache *collection.Cache
}

func NewServiceContext(c *config.Config) (*ServerCtx, error) {
	//1、使用zap初始化日志
	_, err := xzap.SetUp(c.Log)
	if err != nil {
		return nil, err
	}

	//2、初始化上游indexer客户端
	indexerClient := indexer.NewClient(c.Indexer.Endpoint)

	//3、初始化命名服务解析器，按优先级串联
	tokenSource := namesvc.NewTokenNameSource(c.NameSvc.EnvoiEndpoint)
	resolver := namesvc.NewResolver(
		c.NameSvc.NamingContractID,
		tokenSource,
		namesvc.NewNFDSource(c.NameSvc.NfdEndpoint),
		namesvc.NewEnvoiSource(c.NameSvc.EnvoiEndpoint),
	)

	//4、初始化稀有度引擎和外部排名兜底
	ranker := rarity.NewRanker(rarity.NewRankingClient(c.Ranking.Endpoint))

	//5、初始化聚合缓存
	store := cache.NewStore(
		time.Duration(c.Cache.FreshnessSeconds)*time.Second,
		c.Cache.MaxCollections,
	)

	//6、初始化API响应缓存
	apiCacheSeconds := c.Cache.ApiCacheSeconds
	if apiCacheSeconds <= 0 {
		apiCacheSeconds = 60
	}
	apiCache, err := collection.NewCache(time.Duration(apiCacheSeconds) * time.Second)
	if err != nil {
		return nil, errors.Wrap(err, "failed on init api cache")
	}

	//7、创建服务上下文
	serverCtx := NewServerCtx(
		WithIndexer(indexerClient),
		WithNames(resolver),
		WithRanker(ranker),
		WithStore(store),
		WithApiCache(apiCache),
	)
	serverCtx.C = c
	return serverCtx, nil
}
