package svc

import (
	"NFTNavBackend/src/cache"
	"NFTNavBackend/src/indexer"
	"NFTNavBackend/src/namesvc"
	"NFTNavBackend/src/rarity"

	"github.com/zeromicro/go-zero/core/collection"
)

/*
*
服务上下文的构建采用选项模式(Option Pattern)
*/
type CtxConfig struct {
	indexer  *indexer.Client
	names    *namesvc.Resolver
	ranker   *rarity.Ranker
	store    *cache.Store
	apiCache *collection.Cache
}

// 这是一个函数类型，用于修改 CtxConfig
type CtxOption func(conf *CtxConfig)

// 服务上下文的构造函数
func NewServerCtx(options ...CtxOption) *ServerCtx {
	c := &CtxConfig{}
	for _, opt := range options {
		opt(c)
	}
	return &ServerCtx{
		Indexer:  c.indexer,
		Names:    c.names,
		Ranker:   c.ranker,
		Store:    c.store,
		ApiCache: c.apiCache,
	}
}

/**
选项函数
*/

func WithIndexer(client *indexer.Client) CtxOption {
	return func(conf *CtxConfig) {
		conf.indexer = client
	}
}

func WithNames(resolver *namesvc.Resolver) CtxOption {
	return func(conf *CtxConfig) {
		conf.names = resolver
	}
}

func WithRanker(ranker *rarity.Ranker) CtxOption {
	return func(conf *CtxConfig) {
		conf.ranker = ranker
	}
}

func WithStore(store *cache.Store) CtxOption {
	return func(conf *CtxConfig) {
		conf.store = store
	}
}

func WithApiCache(apiCache *collection.Cache) CtxOption {
	return func(conf *CtxConfig) {
		conf.apiCache = apiCache
	}
}
