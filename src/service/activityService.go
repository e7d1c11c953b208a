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

// GetSales 成交记录查询，listing风格缓存
func GetSales(ctx context.Context, serverCtx *svc.ServerCtx, filter entity.SaleFilterParam) (*entity.ActivityListRes, error) {
	store := serverCtx.Store
	pageKey := fmt.Sprintf("sales:%d:%s:%s:%s:%d:%d:%d:%s",
		filter.ContractID, filter.TokenID, filter.Seller, filter.Buyer,
		filter.MinRound, filter.MaxRound, filter.Limit, filter.NextToken)

	if page, ok := store.GetSalesPage(pageKey); ok && !filter.ForceRefresh &&
		filter.NextToken == "" && store.Fresh(page.FetchedAt) {
		return &entity.ActivityListRes{
			Result:     page.Sales,
			NextToken:  page.NextToken,
			TotalCount: page.TotalCount,
			HasMore:    page.NextToken != "",
		}, nil
	}

	fetched, err := store.Refresh(pageKey, func() (interface{}, error) {
		result, err := serverCtx.Indexer.FetchSales(ctx, filter)
		if err != nil {
			return nil, errors.Wrap(err, "failed on fetch sales")
		}
		page := &cache.SalesPage{
			Sales:      result.Sales,
			NextToken:  result.NextToken,
			TotalCount: result.TotalCount,
		}
		store.PutSalesPage(pageKey, page)
		return page, nil
	})
	if err != nil {
		if page, ok := store.GetSalesPage(pageKey); ok {
			xzap.WithContext(ctx).Error("failed on refresh sales, serving cached", zap.Error(err))
			return &entity.ActivityListRes{
				Result:     page.Sales,
				NextToken:  page.NextToken,
				TotalCount: page.TotalCount,
				HasMore:    page.NextToken != "",
			}, nil
		}
		return nil, err
	}

	page := fetched.(*cache.SalesPage)
	return &entity.ActivityListRes{
		Result:     page.Sales,
		NextToken:  page.NextToken,
		TotalCount: page.TotalCount,
		HasMore:    page.NextToken != "",
	}, nil
}

// GetTransfers 转移记录查询，listing风格缓存
func GetTransfers(ctx context.Context, serverCtx *svc.ServerCtx, filter entity.TransferFilterParam) (*entity.ActivityListRes, error) {
	store := serverCtx.Store
	pageKey := fmt.Sprintf("transfers:%d:%s:%s:%s:%d:%d:%d:%s",
		filter.ContractID, filter.TokenID, filter.From, filter.To,
		filter.MinRound, filter.MaxRound, filter.Limit, filter.NextToken)

	if page, ok := store.GetTransfersPage(pageKey); ok && !filter.ForceRefresh &&
		filter.NextToken == "" && store.Fresh(page.FetchedAt) {
		return &entity.ActivityListRes{
			Result:     page.Transfers,
			NextToken:  page.NextToken,
			TotalCount: page.TotalCount,
			HasMore:    page.NextToken != "",
		}, nil
	}

	fetched, err := store.Refresh(pageKey, func() (interface{}, error) {
		result, err := serverCtx.Indexer.FetchTransfers(ctx, filter)
		if err != nil {
			return nil, errors.Wrap(err, "failed on fetch transfers")
		}
		page := &cache.TransfersPage{
			Transfers:  result.Transfers,
			NextToken:  result.NextToken,
			TotalCount: result.TotalCount,
		}
		store.PutTransfersPage(pageKey, page)
		return page, nil
	})
	if err != nil {
		if page, ok := store.GetTransfersPage(pageKey); ok {
			xzap.WithContext(ctx).Error("failed on refresh transfers, serving cached", zap.Error(err))
			return &entity.ActivityListRes{
				Result:     page.Transfers,
				NextToken:  page.NextToken,
				TotalCount: page.TotalCount,
				HasMore:    page.NextToken != "",
			}, nil
		}
		return nil, err
	}

	page := fetched.(*cache.TransfersPage)
	return &entity.ActivityListRes{
		Result:     page.Transfers,
		NextToken:  page.NextToken,
		TotalCount: page.TotalCount,
		HasMore:    page.NextToken != "",
	}, nil
}
