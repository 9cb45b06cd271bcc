package main

import (
	"courtbook/config"
	"courtbook/di"
	"courtbook/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
