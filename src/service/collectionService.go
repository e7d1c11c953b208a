package service

import (
	"context"
	"fmt"

	"NFTNavBackend/src/entity"
	"NFTNavBackend/src/errcode"
	"NFTNavBackend/src/logger/xzap"
	"NFTNavBackend/src/service/svc"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 链上全局状态里的mint价格key
const globalStatePriceKey = "price"

// GetCollections 集合列表查询
// 集合元数据变化不频繁，进程级缓存：新鲜度窗口内且未强刷时直接返回缓存
func GetCollections(ctx context.Context, serverCtx *svc.ServerCtx, filter entity.CollectionFilterParam) (*entity.CollectionListRes, error) {
	store := serverCtx.Store

	//1、单集合selector走集合维度的缓存
	if filter.ContractID != 0 {
		if col, ok := store.GetCollection(filter.ContractID); ok && !filter.ForceRefresh {
			return &entity.CollectionListRes{
				Result:     []entity.Collection{col},
				TotalCount: 1,
			}, nil
		}
		result, err := serverCtx.Indexer.FetchCollections(ctx, filter)
		if err != nil {
			if col, ok := store.GetCollection(filter.ContractID); ok {
				xzap.WithContext(ctx).Error("failed on refresh collection, serving cached",
					zap.Uint64("contract_id", filter.ContractID), zap.Error(err))
				return &entity.CollectionListRes{
					Result:     []entity.Collection{col},
					TotalCount: 1,
				}, nil
			}
			return nil, errors.Wrap(err, "failed on fetch collection")
		}
		enriched := serverCtx.Names.EnrichCollections(ctx, result.Collections)
		store.UpsertCollections(enriched)
		return &entity.CollectionListRes{
			Result:     enriched,
			TotalCount: int64(len(enriched)),
		}, nil
	}

	//2、列表查询：新鲜度窗口内的缓存直接复用
	cached, cachedCursor, cachedTotal, fetchedAt := store.SnapshotCollections()
	if len(cached) > 0 && !filter.ForceRefresh && filter.NextToken == "" &&
		filter.Creator == "" && store.Fresh(fetchedAt) {
		return &entity.CollectionListRes{
			Result:     cached,
			NextToken:  cachedCursor,
			TotalCount: cachedTotal,
			HasMore:    cachedCursor != "",
		}, nil
	}

	//3、刷新走singleflight，失败时降级为旧缓存
	refreshKey := fmt.Sprintf("collections:%s:%s", filter.Creator, filter.NextToken)
	fetched, err := store.Refresh(refreshKey, func() (interface{}, error) {
		result, err := serverCtx.Indexer.FetchCollections(ctx, filter)
		if err != nil {
			return nil, errors.Wrap(err, "failed on fetch collections")
		}
		enriched := serverCtx.Names.EnrichCollections(ctx, result.Collections)
		if filter.Creator != "" {
			// creator过滤的结果不能整体覆盖进程级列表
			store.UpsertCollections(enriched)
			return &entity.CollectionListRes{
				Result:     enriched,
				NextToken:  result.NextToken,
				TotalCount: result.TotalCount,
				HasMore:    result.NextToken != "",
			}, nil
		}
		var merged []entity.Collection
		if filter.NextToken != "" {
			merged = store.AppendCollections(enriched, result.NextToken, result.TotalCount)
		} else {
			merged = store.ReplaceCollections(enriched, result.NextToken, result.TotalCount)
		}
		return &entity.CollectionListRes{
			Result:     merged,
			NextToken:  result.NextToken,
			TotalCount: result.TotalCount,
			HasMore:    result.NextToken != "",
		}, nil
	})
	if err != nil {
		if len(cached) > 0 {
			xzap.WithContext(ctx).Error("failed on refresh collections, serving cached", zap.Error(err))
			return &entity.CollectionListRes{
				Result:     cached,
				NextToken:  cachedCursor,
				TotalCount: cachedTotal,
				HasMore:    cachedCursor != "",
			}, nil
		}
		return nil, err
	}
	return fetched.(*entity.CollectionListRes), nil
}

// GetCollectionDetail 集合详情，含根据链上全局状态计算的mint价格
func GetCollectionDetail(ctx context.Context, serverCtx *svc.ServerCtx, contractID uint64) (*entity.CollectionDetailRes, error) {
	res, err := GetCollections(ctx, serverCtx, entity.CollectionFilterParam{ContractID: contractID})
	if err != nil {
		return nil, err
	}
	collections, ok := res.Result.([]entity.Collection)
	if !ok || len(collections) == 0 {
		return nil, errcode.ErrNotFound
	}
	col := collections[0]
	return &entity.CollectionDetailRes{
		Result: entity.CollectionDetail{
			ContractID:   col.ContractID,
			Name:         col.Name,
			Creator:      col.Creator,
			CreatorName:  col.CreatorName,
			ImageURL:     col.ImageURL,
			TotalSupply:  col.TotalSupply,
			BurnedSupply: col.BurnedSupply,
			UniqueOwners: col.UniqueOwners,
			MintRound:    col.MintRound,
			MintPrice:    mintPrice(ctx, &col),
			Project:      col.Project,
		},
	}, nil
}

// mintPrice 从链上全局kv状态解析mint价格，缺失或非法时为0
func mintPrice(ctx context.Context, col *entity.Collection) decimal.Decimal {
	raw, ok := col.GlobalState[globalStatePriceKey]
	if !ok || raw == "" {
		return decimal.Zero
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		xzap.WithContext(ctx).Warn("failed on parse mint price",
			zap.Uint64("contract_id", col.ContractID), zap.String("raw", raw), zap.Error(err))
		return decimal.Zero
	}
	return price
}
