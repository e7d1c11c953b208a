package namesvc

import (
	"context"
	"sync"
	"time"

	"NFTNavBackend/src/logger/xzap"
	"NFTNavBackend/src/utils"

	"go.uber.org/zap"
)

// 命名服务查询超时，超时视为未解析而不是错误
const lookupTimeout = 5 * time.Second

// NameRecord 地址解析结果
type NameRecord struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Avatar  string `json:"avatar"`
}

// Source 单个命名服务的统一能力
// 返回map中缺失的地址视为未命中，由下一个source兜底
type Source interface {
	Name() string
	BatchSize() int
	Resolve(ctx context.Context, addrs []string) (map[string]NameRecord, error)
}

// Resolver 按优先级串联多个命名服务
// 解析失败永远不向上抛错，未解析的地址保持为空（展示层回退为原始地址+占位头像）
type Resolver struct {
	sources []Source

	// 内容寻址命名集合，该集合内的token按token维度解析名称
	namingContractID uint64
	tokenSource      *TokenNameSource
}

func NewResolver(namingContractID uint64, tokenSource *TokenNameSource, sources ...Source) *Resolver {
	return &Resolver{
		sources:          sources,
		namingContractID: namingContractID,
		tokenSource:      tokenSource,
	}
}

// ResolveAddresses 批量解析地址
// 1、去重
// 2、按优先级逐个source解析，每个source内部按批并发请求，等待全部完成
// 3、前一个source未命中的地址交给下一个source
func (r *Resolver) ResolveAddresses(ctx context.Context, addrs []string) map[string]NameRecord {
	remaining := utils.RemoveRepeatedElement(addrs)
	resolved := make(map[string]NameRecord)

	for _, source := range r.sources {
		if len(remaining) == 0 {
			break
		}
		batches := utils.ChunkStrings(remaining, source.BatchSize())

		var wg sync.WaitGroup
		var mu sync.Mutex
		for _, batch := range batches {
			wg.Add(1)
			go func(batch []string) {
				defer wg.Done()
				lookupCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
				defer cancel()
				records, err := source.Resolve(lookupCtx, batch)
				if err != nil {
					xzap.WithContext(ctx).Warn("failed on resolve name batch",
						zap.String("source", source.Name()), zap.Int("batch_size", len(batch)), zap.Error(err))
					return
				}
				mu.Lock()
				for addr, record := range records {
					if record.Name != "" {
						resolved[addr] = record
					}
				}
				mu.Unlock()
			}(batch)
		}
		wg.Wait()

		var next []string
		for _, addr := range remaining {
			if _, ok := resolved[addr]; !ok {
				next = append(next, addr)
			}
		}
		remaining = next
	}
	return resolved
}
