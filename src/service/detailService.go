package service

import (
	"context"
	"sync"

	"NFTNavBackend/src/entity"
	"NFTNavBackend/src/errcode"
	"NFTNavBackend/src/rarity"
	"NFTNavBackend/src/service/svc"

	"github.com/pkg/errors"
)

// TokenDetail token详情聚合结果
type TokenDetail struct {
	Token      entity.Token       `json:"token"`
	Collection *entity.Collection `json:"collection"`
	Listing    *entity.Listing    `json:"listing"`
	LastSale   *entity.Sale       `json:"last_sale"`
}

// GetTokenDetail token详情
// 1、token本体、所属集合、当前挂单、最近成交并发查询
// 2、任一子查询失败整体失败
func GetTokenDetail(ctx context.Context, serverCtx *svc.ServerCtx, contractID uint64, tokenID string) (*entity.TokenDetailRes, error) {
	var (
		wg       sync.WaitGroup
		queryErr error

		tokenRes      *entity.TokenListRes
		collectionRes *entity.CollectionListRes
		listingRes    *entity.ListingListRes
		salesRes      *entity.ActivityListRes
	)

	//1、token本体
	wg.Add(1)
	go func() {
		defer wg.Done()
		res, err := GetTokens(ctx, serverCtx, entity.TokenFilterParam{
			ContractID: contractID,
			TokenID:    tokenID,
		})
		if err != nil {
			queryErr = errors.Wrap(err, "failed on get token detail")
			return
		}
		tokenRes = res
	}()

	//2、所属集合
	wg.Add(1)
	go func() {
		defer wg.Done()
		res, err := GetCollections(ctx, serverCtx, entity.CollectionFilterParam{
			ContractID: contractID,
		})
		if err != nil {
			queryErr = errors.Wrap(err, "failed on get token collection")
			return
		}
		collectionRes = res
	}()

	//3、当前挂单
	wg.Add(1)
	go func() {
		defer wg.Done()
		res, err := GetListings(ctx, serverCtx, entity.ListingFilterParam{
			ContractID: contractID,
			TokenID:    tokenID,
			Limit:      1,
		})
		if err != nil {
			queryErr = errors.Wrap(err, "failed on get token listing")
			return
		}
		listingRes = res
	}()

	//4、最近成交
	wg.Add(1)
	go func() {
		defer wg.Done()
		res, err := GetSales(ctx, serverCtx, entity.SaleFilterParam{
			ContractID: contractID,
			TokenID:    tokenID,
			Limit:      1,
		})
		if err != nil {
			queryErr = errors.Wrap(err, "failed on get token sales")
			return
		}
		salesRes = res
	}()
	wg.Wait()

	if queryErr != nil {
		return nil, queryErr
	}

	tokens, _ := tokenRes.Result.([]entity.Token)
	if len(tokens) == 0 {
		return nil, errcode.ErrNotFound
	}
	detail := TokenDetail{Token: tokens[0]}

	if collections, ok := collectionRes.Result.([]entity.Collection); ok && len(collections) > 0 {
		detail.Collection = &collections[0]
	}
	if listings, ok := listingRes.Result.([]entity.Listing); ok {
		for i := range listings {
			if listings[i].Active() {
				detail.Listing = &listings[i]
				break
			}
		}
	}
	if sales, ok := salesRes.Result.([]entity.Sale); ok && len(sales) > 0 {
		detail.LastSale = &sales[0]
	}
	return &entity.TokenDetailRes{Result: detail}, nil
}

// GetTokenTraits 单个token的trait占比
// 占比在集合全量token上统计，集合未缓存时先走一次集合查询
func GetTokenTraits(ctx context.Context, serverCtx *svc.ServerCtx, contractID uint64, tokenID string) (*entity.TokenTraitsRes, error) {
	store := serverCtx.Store

	tokens, _, _, ok := store.SnapshotTokens(contractID)
	if !ok {
		res, err := GetTokens(ctx, serverCtx, entity.TokenFilterParam{ContractID: contractID})
		if err != nil {
			return nil, errors.Wrap(err, "failed on load collection for traits")
		}
		tokens, _ = res.Result.([]entity.Token)
	}

	target, ok := store.GetToken(entity.TokenRef{ContractID: contractID, TokenID: tokenID})
	if !ok {
		return nil, errcode.ErrNotFound
	}

	occ := rarity.BuildOccurrences(tokens)
	infos := rarity.TraitPercentages(&target, occ, int64(len(tokens)))
	return &entity.TokenTraitsRes{Result: infos}, nil
}
