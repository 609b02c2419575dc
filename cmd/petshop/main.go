package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pawsworks/petshop/config"
	"github.com/pawsworks/petshop/internal/adminapi"
	"github.com/pawsworks/petshop/internal/app"
	"github.com/pawsworks/petshop/internal/notification"
	"github.com/pawsworks/petshop/internal/portal"
	"github.com/pawsworks/petshop/internal/webserver"
)

var (
	confFile = flag.String("c", "petshop.yml", "config file path")
	initDb   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	showVer  = flag.Bool("v", false, "print version and exit")
)

var buildVersion = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println("petshop", buildVersion)
		return
	}

	cfg := config.LoadConfig(*confFile)
	_ = os.MkdirAll(cfg.GetLogDir(), 0755)
	_ = os.MkdirAll(cfg.GetDataDir(), 0755)

	application := app.NewApplication(cfg)
	application.Init(cfg)

	if *initDb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	ws := webserver.Init(application)
	adminapi.InitRouter(application)
	portal.InitRouter(application)

	if err := notification.NewService(application).Setup(); err != nil {
		zap.S().Errorf("failed to set up notifications: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	application.StartBackgroundJobs(ctx)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		cancel()
		_ = ws.Echo().Shutdown(context.Background())
	}()

	if err := ws.Start(); err != nil {
		zap.S().Fatalf("web server stopped: %v", err)
	}
}
