package service

import (
	"context"
	"fmt"

	"NFTNavBackend/src/cache"
	"NFTNavBackend/src/entity"
	"NFTNavBackend/src/logger/xzap"
	"NFTNavBackend/src/service/svc"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// GetListings 市场挂单查询
// listing风格缓存：同参数五分钟内复用，强刷或翻页时重新拉取，
// 拉取失败时降级为旧缓存
func GetListings(ctx context.Context, serverCtx *svc.ServerCtx, filter entity.ListingFilterParam) (*entity.ListingListRes, error) {
	store := serverCtx.Store
	pageKey := listingPageKey(filter)

	if page, ok := store.GetListingPage(pageKey); ok && !filter.ForceRefresh &&
		filter.NextToken == "" && store.Fresh(page.FetchedAt) {
		return &entity.ListingListRes{
			Result:     page.Listings,
			NextToken:  page.NextToken,
			TotalCount: page.TotalCount,
			HasMore:    page.NextToken != "",
		}, nil
	}

	fetched, err := store.Refresh(pageKey, func() (interface{}, error) {
		result, err := serverCtx.Indexer.FetchListings(ctx, filter)
		if err != nil {
			return nil, errors.Wrap(err, "failed on fetch listings")
		}
		page := &cache.ListingPage{
			Listings:   serverCtx.Names.EnrichListings(ctx, result.Listings),
			NextToken:  result.NextToken,
			TotalCount: result.TotalCount,
		}
		store.PutListingPage(pageKey, page)
		return page, nil
	})
	if err != nil {
		if page, ok := store.GetListingPage(pageKey); ok {
			xzap.WithContext(ctx).Error("failed on refresh listings, serving cached", zap.Error(err))
			return &entity.ListingListRes{
				Result:     page.Listings,
				NextToken:  page.NextToken,
				TotalCount: page.TotalCount,
				HasMore:    page.NextToken != "",
			}, nil
		}
		return nil, err
	}

	page := fetched.(*cache.ListingPage)
	return &entity.ListingListRes{
		Result:     page.Listings,
		NextToken:  page.NextToken,
		TotalCount: page.TotalCount,
		HasMore:    page.NextToken != "",
	}, nil
}

// listingPageKey 由查询参数派生缓存key
func listingPageKey(filter entity.ListingFilterParam) string {
	currency := ""
	if filter.CurrencyID != nil {
		currency = fmt.Sprintf("%d", *filter.CurrencyID)
	}
	return fmt.Sprintf("listings:%d:%s:%s:%s:%s:%s:%d:%s",
		filter.ContractID, filter.TokenID, filter.Seller,
		filter.MinPrice.String(), filter.MaxPrice.String(), currency,
		filter.Limit, filter.NextToken)
}
