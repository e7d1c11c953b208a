package controller

import (
	"strconv"

	"NFTNavBackend/src/entity"
	"NFTNavBackend/src/errcode"
	"NFTNavBackend/src/service"
	"NFTNavBackend/src/service/svc"
	"NFTNavBackend/src/xhttp"

	"github.com/gin-gonic/gin"
)

// GetCollectionsHandler 集合列表查询
func GetCollectionsHandler(serverCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := entity.CollectionFilterParam{
			Creator:      c.Query("creator"),
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

		res, err := service.GetCollections(c.Request.Context(), serverCtx, filter)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// GetCollectionDetailHandler 集合详情，含mint价格
func GetCollectionDetailHandler(serverCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		contractID, err := strconv.ParseUint(c.Param("contract_id"), 10, 64)
		if err != nil || contractID == 0 {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		res, err := service.GetCollectionDetail(c.Request.Context(), serverCtx, contractID)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}
