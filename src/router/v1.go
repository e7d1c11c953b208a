package router

import (
	"NFTNavBackend/src/controller"
	"NFTNavBackend/src/middleware"
	"NFTNavBackend/src/service/svc"

	"github.com/gin-gonic/gin"
)

func initV1Route(router *gin.Engine, serverCtx *svc.ServerCtx) {
	apiV1 := router.Group("/api/v1")

	tokens := apiV1.Group("/tokens")
	tokens.GET("", controller.GetTokensHandler(serverCtx))                                             //token聚合查询，selector四选一
	tokens.GET("/:contract_id/:token_id", controller.GetTokenDetailHandler(serverCtx))                 //token详情
	tokens.GET("/:contract_id/:token_id/traits", controller.GetTokenTraitsHandler(serverCtx))          //token的trait占比
	tokens.GET("/:contract_id/:token_id/metadata", controller.RefreshTokenMetadataHandler(serverCtx))  //强制刷新元数据

	collections := apiV1.Group("/collections")
	collections.GET("", middleware.CacheApi(serverCtx.ApiCache), controller.GetCollectionsHandler(serverCtx)) //集合列表
	collections.GET("/:contract_id", controller.GetCollectionDetailHandler(serverCtx))                        //集合详情
	collections.POST("/:contract_id/visibility", controller.UpdateVisibilityHandler(serverCtx))               //可见性重算

	market := apiV1.Group("/mp")
	market.GET("/listings", controller.GetListingsHandler(serverCtx)) //市场挂单
	market.GET("/sales", controller.GetSalesHandler(serverCtx))       //成交记录

	activities := apiV1.Group("/activities")
	activities.GET("/transfers", controller.GetTransfersHandler(serverCtx)) //转移记录
}
