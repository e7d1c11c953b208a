package main

import (
	"flag"

	"NFTNavBackend/src/app"
	"NFTNavBackend/src/config"
	"NFTNavBackend/src/router"
	"NFTNavBackend/src/service/svc"
)

const (
	defaultConfigPath = "./config/config.toml"
)

func main() {
	conf := flag.String("conf", defaultConfigPath, "conf file path")
	flag.Parse()
	c, err := config.UnmarshalConfig(*conf)
	if err != nil {
		panic(err)
	}

	if c.Indexer.Endpoint == "" {
		panic("invalid indexer endpoint config")
	}

	serverCtx, err := svc.NewServiceContext(c)
	if err != nil {
		panic(err)
	}

	r := router.NewRouter(serverCtx)
	platform := app.NewPlatform(c, r, serverCtx)
	platform.Start()
}
