package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/skyreport-dev/skyreport/internal/config"
	"github.com/skyreport-dev/skyreport/internal/logger"
	"github.com/skyreport-dev/skyreport/internal/router"
	"github.com/skyreport-dev/skyreport/internal/setup"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		logger.Log.Error("failed to setup dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Storage.Cleanup()

	r := router.New(deps)

	httpPort := os.Getenv("PORT")
	if httpPort == "" {
		httpPort = "8080"
	}

	logger.Log.Info("server started", "port", httpPort, "environment", cfg.Public.Environment)
	if err := http.ListenAndServe(":"+httpPort, r); err != nil {
		logger.Log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
