package namesvc

import (
	"context"

	"NFTNavBackend/src/entity"
)

// EnrichTokens 给token列表补全所有者名称和头像
// 返回新的切片，不修改入参（值语义合并，避免并发补全时的部分更新竞争）
// 幂等：已解析的字段不会被未命中结果降级覆盖
func (r *Resolver) EnrichTokens(ctx context.Context, tokens []entity.Token) []entity.Token {
	if len(tokens) == 0 {
		return tokens
	}
	//1、收集未解析的所有者地址
	var addrs []string
	for i := range tokens {
		if tokens[i].OwnerName == "" && tokens[i].Owner != "" {
			addrs = append(addrs, tokens[i].Owner)
		}
	}
	records := r.ResolveAddresses(ctx, addrs)

	//2、命名集合内的token按token维度解析名称
	var namingTokenIDs []string
	if r.tokenSource != nil {
		for i := range tokens {
			if tokens[i].ContractID == r.namingContractID {
				namingTokenIDs = append(namingTokenIDs, tokens[i].TokenID)
			}
		}
	}
	var tokenNames map[string]NameRecord
	if len(namingTokenIDs) > 0 {
		tokenNames = r.tokenSource.ResolveTokens(ctx, namingTokenIDs)
	}

	//3、值语义合并
	enriched := make([]entity.Token, len(tokens))
	for i, token := range tokens {
		merged := token
		if record, ok := records[token.Owner]; ok {
			if merged.OwnerName == "" {
				merged.OwnerName = record.Name
			}
			if merged.OwnerAvatar == "" {
				merged.OwnerAvatar = record.Avatar
			}
		}
		if record, ok := tokenNames[token.TokenID]; ok && token.ContractID == r.namingContractID {
			if record.Name != "" {
				merged.Metadata.Name = record.Name
			}
			if merged.Metadata.Image == "" && record.Avatar != "" {
				merged.Metadata.Image = record.Avatar
			}
		}
		enriched[i] = merged
	}
	return enriched
}

// EnrichCollections 给集合列表补全创建者名称
func (r *Resolver) EnrichCollections(ctx context.Context, collections []entity.Collection) []entity.Collection {
	if len(collections) == 0 {
		return collections
	}
	var addrs []string
	for i := range collections {
		if collections[i].CreatorName == "" && collections[i].Creator != "" {
			addrs = append(addrs, collections[i].Creator)
		}
	}
	records := r.ResolveAddresses(ctx, addrs)

	enriched := make([]entity.Collection, len(collections))
	for i, col := range collections {
		merged := col
		if record, ok := records[col.Creator]; ok && merged.CreatorName == "" {
			merged.CreatorName = record.Name
		}
		enriched[i] = merged
	}
	return enriched
}

// EnrichListings 给挂单列表补全卖家名称
func (r *Resolver) EnrichListings(ctx context.Context, listings []entity.Listing) []entity.Listing {
	if len(listings) == 0 {
		return listings
	}
	var addrs []string
	for i := range listings {
		if listings[i].SellerName == "" && listings[i].Seller != "" {
			addrs = append(addrs, listings[i].Seller)
		}
	}
	records := r.ResolveAddresses(ctx, addrs)

	enriched := make([]entity.Listing, len(listings))
	for i, listing := range listings {
		merged := listing
		if record, ok := records[listing.Seller]; ok && merged.SellerName == "" {
			merged.SellerName = record.Name
		}
		enriched[i] = merged
	}
	return enriched
}
