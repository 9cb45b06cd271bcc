package handler

import (
	"net/http"

	"courtbook/config"
	"courtbook/di"
	"courtbook/shared/logger"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	service := di.InitializeService()
	service.Adaptor()(w, r)
}
