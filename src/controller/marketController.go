package controller

import (
	"strconv"

	"NFTNavBackend/src/entity"
	"NFTNavBackend/src/errcode"
	"NFTNavBackend/src/service"
	"NFTNavBackend/src/service/svc"
	"NFTNavBackend/src/xhttp"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetListingsHandler 市场挂单查询
func GetListingsHandler(serverCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := entity.ListingFilterParam{
			TokenID:      c.Query("token_id"),
			Seller:       c.Query("seller"),
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
		if raw := c.Query("min_price"); raw != "" {
			minPrice, err := decimal.NewFromString(raw)
			if err != nil {
				xhttp.Error(c, errcode.ErrInvalidParams)
				return
			}
			filter.MinPrice = minPrice
		}
		if raw := c.Query("max_price"); raw != "" {
			maxPrice, err := decimal.NewFromString(raw)
			if err != nil {
				xhttp.Error(c, errcode.ErrInvalidParams)
				return
			}
			filter.MaxPrice = maxPrice
		}
		if raw := c.Query("currency_id"); raw != "" {
			currencyID, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				xhttp.Error(c, errcode.ErrInvalidParams)
				return
			}
			filter.CurrencyID = &currencyID
		}
		if raw := c.Query("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 0 {
				xhttp.Error(c, errcode.ErrInvalidParams)
				return
			}
			filter.Limit = limit
		}

		res, err := service.GetListings(c.Request.Context(), serverCtx, filter)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}
