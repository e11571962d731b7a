// Web server for the store dashboard using Gin framework.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"woo-admin/internal/app"
	"woo-admin/internal/web"
)

func main() {
	addr := flag.String("addr", "", "Listen address (default from config)")
	cfgPath := flag.String("config", "", "Config file (default $WOO_ADMIN_CONFIG)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Load(ctx, *cfgPath)
	if err != nil {
		log.Fatal("Startup failed", "err", err)
	}
	defer a.Close()

	if err := a.Controller.Start(ctx); err != nil {
		log.Warn("Initial store load failed", "err", err)
	}

	listen := *addr
	if listen == "" {
		listen = a.Config.ListenAddr
	}

	// Use release mode in production
	gin.SetMode(gin.ReleaseMode)

	if err := web.Serve(ctx, listen, web.NewRouter(a.Controller, log.Default())); err != nil {
		log.Error("Server stopped", "err", err)
	}
}
