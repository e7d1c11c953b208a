package indexer

import (
	"context"
	"encoding/json"
	"fmt"

	"NFTNavBackend/src/entity"
	"NFTNavBackend/src/logger/xzap"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 元数据解析的中间结构，properties的值可能是字符串或数字
type rawMetadata struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Image       string                 `json:"image"`
	Properties  map[string]interface{} `json:"properties"`
}

// parseMetadata 解析token元数据json串
// 解析失败时返回空元数据，token照常返回，不向上抛错
func parseMetadata(ctx context.Context, contractID uint64, tokenID, raw string) entity.TokenMetadata {
	if raw == "" {
		return entity.TokenMetadata{Properties: map[string]string{}}
	}
	var meta rawMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		xzap.WithContext(ctx).Warn("failed on parse token metadata",
			zap.Uint64("contract_id", contractID), zap.String("token_id", tokenID), zap.Error(err))
		return entity.TokenMetadata{Properties: map[string]string{}}
	}
	props := make(map[string]string, len(meta.Properties))
	for k, v := range meta.Properties {
		switch val := v.(type) {
		case string:
			props[k] = val
		default:
			props[k] = fmt.Sprint(val)
		}
	}
	return entity.TokenMetadata{
		Name:        meta.Name,
		Description: meta.Description,
		Image:       meta.Image,
		Properties:  props,
	}
}

func toToken(ctx context.Context, raw rawToken) entity.Token {
	return entity.Token{
		ContractID:  raw.ContractID,
		TokenID:     raw.TokenID,
		Owner:       raw.Owner,
		Approved:    raw.Approved,
		MetadataURI: raw.MetadataURI,
		Metadata:    parseMetadata(ctx, raw.ContractID, raw.TokenID, raw.Metadata),
		IsBurned:    raw.IsBurned,
		MintRound:   raw.MintRound,
		Visible:     true,
	}
}

// minorUnitsToDecimal 上游价格为整数最小单位
func minorUnitsToDecimal(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
