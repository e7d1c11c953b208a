package service

import (
	"context"
	"fmt"

	"NFTNavBackend/src/cache"
	"NFTNavBackend/src/entity"
	"NFTNavBackend/src/indexer"
	"NFTNavBackend/src/logger/xzap"
	"NFTNavBackend/src/service/svc"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// GetTokens token聚合查询入口
// 数据流：缓存 →（未命中/强刷/翻页）indexer分页拉取 → 稀有度排名（集合范围）
// → 命名补全（基础记录集组装完成之后）→ 写回缓存 → 连同续页游标返回
func GetTokens(ctx context.Context, serverCtx *svc.ServerCtx, filter entity.TokenFilterParam) (*entity.TokenListRes, error) {
	switch {
	case len(filter.TokenIDs) > 0:
		return getTokensByIDs(ctx, serverCtx, filter)
	case filter.ContractID != 0 && filter.TokenID != "":
		return getTokenPair(ctx, serverCtx, filter)
	case filter.ContractID != 0:
		return getCollectionTokens(ctx, serverCtx, filter)
	case filter.Owner != "":
		return getOwnerTokens(ctx, serverCtx, filter)
	default:
		return nil, indexer.ErrInvalidSelector
	}
}

// getCollectionTokens 按集合查询
// 1、集合已全量缓存且未强刷时直接返回缓存，不发起网络请求
// 2、强刷走整体刷新，带游标走追加式加载更多
// 3、拉取失败时保留并返回已有缓存数据，缓存永远不因失败而清空
func getCollectionTokens(ctx context.Context, serverCtx *svc.ServerCtx, filter entity.TokenFilterParam) (*entity.TokenListRes, error) {
	store := serverCtx.Store
	contractID := filter.ContractID

	cached, cachedCursor, _, hasEntry := store.SnapshotTokens(contractID)
	if hasEntry && !filter.ForceRefresh && filter.NextToken == "" {
		return &entity.TokenListRes{
			Result:     cached,
			NextToken:  cachedCursor,
			TotalCount: int64(len(cached)),
			HasMore:    cachedCursor != "",
		}, nil
	}

	//同一个key的刷新串行化，并发调用共享同一次拉取
	refreshKey := fmt.Sprintf("tokens:%d:%s", contractID, filter.NextToken)
	merged, err := store.Refresh(refreshKey, func() (interface{}, error) {
		result, err := serverCtx.Indexer.FetchTokens(ctx, entity.TokenFilterParam{
			ContractID: contractID,
			Limit:      filter.Limit,
			NextToken:  filter.NextToken,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed on fetch collection tokens")
		}

		//写回缓存：带游标为追加，否则整体刷新（已解析字段在合并时保留）
		var tokens []entity.Token
		if filter.NextToken != "" {
			tokens = store.AppendTokens(contractID, result.Tokens, result.NextToken)
		} else {
			tokens = store.ReplaceTokens(contractID, result.Tokens, result.NextToken)
		}

		//稀有度排名在集合全量token上计算
		serverCtx.Ranker.Rank(ctx, tokens)

		//基础记录集组装完成后再做命名补全，补全结果合并回缓存
		enriched := serverCtx.Names.EnrichTokens(ctx, result.Tokens)
		store.PutResolvedTokens(enriched)
		return tokens, nil
	})
	if err != nil {
		//失败降级：有旧数据则继续提供旧数据
		if hasEntry {
			xzap.WithContext(ctx).Error("failed on refresh collection tokens, serving cached",
				zap.Uint64("contract_id", contractID), zap.Error(err))
			return &entity.TokenListRes{
				Result:     cached,
				NextToken:  cachedCursor,
				TotalCount: int64(len(cached)),
				HasMore:    cachedCursor != "",
			}, nil
		}
		return nil, err
	}

	tokens := merged.([]entity.Token)
	_, nextToken, _, _ := store.SnapshotTokens(contractID)
	return &entity.TokenListRes{
		Result:     tokens,
		NextToken:  nextToken,
		TotalCount: int64(len(tokens)),
		HasMore:    nextToken != "",
	}, nil
}

// getTokensByIDs 显式ID列表查询
// 1、逐个ID先查缓存
// 2、只对未命中的ID回源，回源结果合并进缓存
// 3、返回的标识集合是请求集合的子集且无重复
func getTokensByIDs(ctx context.Context, serverCtx *svc.ServerCtx, filter entity.TokenFilterParam) (*entity.TokenListRes, error) {
	store := serverCtx.Store

	var resolved []entity.Token
	var missing []entity.TokenRef
	requested := make(map[string]bool)
	returned := make(map[string]bool)
	for _, ref := range filter.TokenIDs {
		if requested[ref.Key()] {
			continue
		}
		requested[ref.Key()] = true
		if token, ok := store.GetToken(ref); ok && !filter.ForceRefresh {
			resolved = append(resolved, token)
			returned[ref.Key()] = true
			continue
		}
		missing = append(missing, ref)
	}

	if len(missing) > 0 {
		result, err := serverCtx.Indexer.FetchTokens(ctx, entity.TokenFilterParam{TokenIDs: missing})
		if err != nil {
			//selector错误向上传递，其余错误降级为部分结果
			if errors.Is(err, indexer.ErrInvalidSelector) {
				return nil, err
			}
			xzap.WithContext(ctx).Error("failed on fetch tokens by ids", zap.Error(err))
		}
		if result != nil {
			enriched := serverCtx.Names.EnrichTokens(ctx, result.Tokens)
			store.PutResolvedTokens(enriched)
			for i := range enriched {
				key := enriched[i].Key()
				//返回集合是请求集合的子集且无重复
				if !requested[key] || returned[key] {
					continue
				}
				returned[key] = true
				if token, ok := store.GetToken(entity.TokenRef{
					ContractID: enriched[i].ContractID,
					TokenID:    enriched[i].TokenID,
				}); ok {
					resolved = append(resolved, token)
				} else {
					resolved = append(resolved, enriched[i])
				}
			}
		}
	}

	return &entity.TokenListRes{
		Result:     resolved,
		TotalCount: int64(len(resolved)),
	}, nil
}

// getTokenPair 单个(集合,token)对查询
func getTokenPair(ctx context.Context, serverCtx *svc.ServerCtx, filter entity.TokenFilterParam) (*entity.TokenListRes, error) {
	store := serverCtx.Store
	ref := entity.TokenRef{ContractID: filter.ContractID, TokenID: filter.TokenID}

	if token, ok := store.GetToken(ref); ok && !filter.ForceRefresh {
		return &entity.TokenListRes{Result: []entity.Token{token}, TotalCount: 1}, nil
	}

	result, err := serverCtx.Indexer.FetchTokens(ctx, entity.TokenFilterParam{
		ContractID: filter.ContractID,
		TokenID:    filter.TokenID,
	})
	if err != nil {
		//失败降级：缓存里有旧记录时继续用旧记录
		if token, ok := store.GetToken(ref); ok {
			xzap.WithContext(ctx).Error("failed on refresh token, serving cached",
				zap.Uint64("contract_id", ref.ContractID), zap.String("token_id", ref.TokenID), zap.Error(err))
			return &entity.TokenListRes{Result: []entity.Token{token}, TotalCount: 1}, nil
		}
		return nil, errors.Wrap(err, "failed on fetch token")
	}

	enriched := serverCtx.Names.EnrichTokens(ctx, result.Tokens)
	store.PutResolvedTokens(enriched)
	return &entity.TokenListRes{
		Result:     enriched,
		TotalCount: int64(len(enriched)),
	}, nil
}

// getOwnerTokens 按所有者查询，listing风格缓存：五分钟内同参数直接复用
func getOwnerTokens(ctx context.Context, serverCtx *svc.ServerCtx, filter entity.TokenFilterParam) (*entity.TokenListRes, error) {
	store := serverCtx.Store
	pageKey := fmt.Sprintf("tokens:owner:%s:%d:%s", filter.Owner, filter.Limit, filter.NextToken)

	if page, ok := store.GetOwnerPage(pageKey); ok && !filter.ForceRefresh &&
		filter.NextToken == "" && store.Fresh(page.FetchedAt) {
		return &entity.TokenListRes{
			Result:     page.Tokens,
			NextToken:  page.NextToken,
			TotalCount: page.TotalCount,
			HasMore:    page.NextToken != "",
		}, nil
	}

	fetched, err := store.Refresh(pageKey, func() (interface{}, error) {
		result, err := serverCtx.Indexer.FetchTokens(ctx, entity.TokenFilterParam{
			Owner:     filter.Owner,
			Limit:     filter.Limit,
			NextToken: filter.NextToken,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed on fetch owner tokens")
		}
		page := &cache.TokenPage{
			Tokens:     serverCtx.Names.EnrichTokens(ctx, result.Tokens),
			NextToken:  result.NextToken,
			TotalCount: result.TotalCount,
		}
		store.PutOwnerPage(pageKey, page)
		return page, nil
	})
	if err != nil {
		if page, ok := store.GetOwnerPage(pageKey); ok {
			xzap.WithContext(ctx).Error("failed on refresh owner tokens, serving cached",
				zap.String("owner", filter.Owner), zap.Error(err))
			return &entity.TokenListRes{
				Result:     page.Tokens,
				NextToken:  page.NextToken,
				TotalCount: page.TotalCount,
				HasMore:    page.NextToken != "",
			}, nil
		}
		return nil, err
	}

	page := fetched.(*cache.TokenPage)
	return &entity.TokenListRes{
		Result:     page.Tokens,
		NextToken:  page.NextToken,
		TotalCount: page.TotalCount,
		HasMore:    page.NextToken != "",
	}, nil
}

// CalculateRarity 就地计算稀有度排名，入参应为单个集合的全量token
func CalculateRarity(ctx context.Context, serverCtx *svc.ServerCtx, tokens []entity.Token) {
	serverCtx.Ranker.Rank(ctx, tokens)
}

// UpdateVisibility 可见性重算，纯缓存操作，不发起任何网络请求
func UpdateVisibility(ctx context.Context, serverCtx *svc.ServerCtx, param entity.VisibilityParam) (*entity.CommonResp, error) {
	visible, recomputed := serverCtx.Store.UpdateVisibility(
		param.ContractID, param.SearchText, param.Tab, param.Filters)
	return &entity.CommonResp{
		Result: map[string]interface{}{
			"visible_count": visible,
			"recomputed":    recomputed,
		},
	}, nil
}

// RefreshTokenMetadata 单个token的元数据强制刷新，走强刷的(集合,token)对查询
func RefreshTokenMetadata(ctx context.Context, serverCtx *svc.ServerCtx, contractID uint64, tokenID string) error {
	_, err := GetTokens(ctx, serverCtx, entity.TokenFilterParam{
		ContractID:   contractID,
		TokenID:      tokenID,
		ForceRefresh: true,
	})
	if err != nil {
		xzap.WithContext(ctx).Error("failed on refresh token metadata",
			zap.Uint64("contract_id", contractID), zap.String("token_id", tokenID), zap.Error(err))
		return errors.Wrap(err, "failed on refresh token metadata")
	}
	return nil
}
