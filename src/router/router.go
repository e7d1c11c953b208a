package router

import (
	"NFTNavBackend/src/middleware"
	"NFTNavBackend/src/service/svc"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
)

// NewRouter 创建并配置gin路由器
func NewRouter(serverCtx *svc.ServerCtx) *gin.Engine {
	gin.ForceConsoleColor()
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RecoverMiddleware())
	router.Use(middleware.RLog())
	router.Use(middleware.Cors())
	pprof.Register(router)
	initV1Route(router, serverCtx)
	return router
}
