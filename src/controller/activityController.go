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

// GetSalesHandler 成交记录查询
func GetSalesHandler(serverCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := entity.SaleFilterParam{
			TokenID:      c.Query("token_id"),
			Seller:       c.Query("seller"),
			Buyer:        c.Query("buyer"),
			NextToken:    c.Query("next_token"),
			ForceRefresh: c.Query("force_refresh") == "true",
		}
		if ok := bindActivityCommon(c, &filter.ContractID, &filter.MinRound, &filter.MaxRound, &filter.Limit); !ok {
			return
		}

		res, err := service.GetSales(c.Request.Context(), serverCtx, filter)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// GetTransfersHandler 转移记录查询
func GetTransfersHandler(serverCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := entity.TransferFilterParam{
			TokenID:      c.Query("token_id"),
			From:         c.Query("from"),
			To:           c.Query("to"),
			NextToken:    c.Query("next_token"),
			ForceRefresh: c.Query("force_refresh") == "true",
		}
		if ok := bindActivityCommon(c, &filter.ContractID, &filter.MinRound, &filter.MaxRound, &filter.Limit); !ok {
			return
		}

		res, err := service.GetTransfers(c.Request.Context(), serverCtx, filter)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// bindActivityCommon 解析活动查询共有的参数，非法时直接写错误返回
func bindActivityCommon(c *gin.Context, contractID *uint64, minRound, maxRound *int64, limit *int) bool {
	if raw := c.Query("contract_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return false
		}
		*contractID = parsed
	}
	if raw := c.Query("min_round"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return false
		}
		*minRound = parsed
	}
	if raw := c.Query("max_round"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return false
		}
		*maxRound = parsed
	}
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return false
		}
		*limit = parsed
	}
	return true
}
