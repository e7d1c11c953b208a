package controller

import (
	"strconv"
	"strings"

	"NFTNavBackend/src/entity"
	"NFTNavBackend/src/errcode"
	"NFTNavBackend/src/service"
	"NFTNavBackend/src/service/svc"
	"NFTNavBackend/src/xhttp"

	"github.com/gin-gonic/gin"
)

// GetTokensHandler token聚合查询
// selector四选一：contract_id / owner / token_ids / (contract_id, token_id)
func GetTokensHandler(serverCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := entity.TokenFilterParam{
			Owner:        c.Query("owner"),
			TokenID:      c.Query("token_id"),
			NextToken:    c.Query("next_token"),
			ForceRefresh: c.Query("force_refresh") == "true",
		}
		if raw := c.Query("contract_id"); raw != "" {
			contractID, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				xhttp.Error(c, errcode.ErrInvalidParams)
				return
			}
			filter.ContractID = contractID
		}
		if raw := c.Query("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 0 {
				xhttp.Error(c, errcode.ErrInvalidParams)
				return
			}
			filter.Limit = limit
		}
		if raw := c.Query("token_ids"); raw != "" {
			refs, err := parseTokenRefs(raw)
			if err != nil {
				xhttp.Error(c, errcode.ErrInvalidParams)
				return
			}
			filter.TokenIDs = refs
		}

		res, err := service.GetTokens(c.Request.Context(), serverCtx, filter)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// parseTokenRefs 解析显式ID列表，格式：contractId_tokenId逗号分隔
func parseTokenRefs(raw string) ([]entity.TokenRef, error) {
	var refs []entity.TokenRef
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.SplitN(item, "_", 2)
		if len(parts) != 2 || parts[1] == "" {
			return nil, errcode.ErrInvalidParams
		}
		contractID, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return nil, errcode.ErrInvalidParams
		}
		refs = append(refs, entity.TokenRef{ContractID: contractID, TokenID: parts[1]})
	}
	return refs, nil
}

// GetTokenDetailHandler token详情
func GetTokenDetailHandler(serverCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		contractID, err := strconv.ParseUint(c.Param("contract_id"), 10, 64)
		if err != nil || contractID == 0 {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		tokenID := c.Param("token_id")
		if tokenID == "" {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		res, err := service.GetTokenDetail(c.Request.Context(), serverCtx, contractID, tokenID)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// GetTokenTraitsHandler token的trait占比
func GetTokenTraitsHandler(serverCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		contractID, err := strconv.ParseUint(c.Param("contract_id"), 10, 64)
		if err != nil || contractID == 0 {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		tokenID := c.Param("token_id")
		if tokenID == "" {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		res, err := service.GetTokenTraits(c.Request.Context(), serverCtx, contractID, tokenID)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// RefreshTokenMetadataHandler 强制刷新单个token的元数据
func RefreshTokenMetadataHandler(serverCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		contractID, err := strconv.ParseUint(c.Param("contract_id"), 10, 64)
		if err != nil || contractID == 0 {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		tokenID := c.Param("token_id")
		if tokenID == "" {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		if err := service.RefreshTokenMetadata(c.Request.Context(), serverCtx, contractID, tokenID); err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, entity.CommonResp{Result: "ok"})
	}
}

// UpdateVisibilityHandler 可见性重算，纯缓存操作
func UpdateVisibilityHandler(serverCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		contractID, err := strconv.ParseUint(c.Param("contract_id"), 10, 64)
		if err != nil || contractID == 0 {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		var body struct {
			SearchText string            `json:"search_text"`
			Tab        string            `json:"tab"`
			Filters    map[string]string `json:"filters"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		switch body.Tab {
		case "", entity.TabAll, entity.TabForSale, entity.TabBurned:
		default:
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		res, err := service.UpdateVisibility(c.Request.Context(), serverCtx, entity.VisibilityParam{
			ContractID: contractID,
			SearchText: body.SearchText,
			Tab:        body.Tab,
			Filters:    body.Filters,
		})
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}
