package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/hris-sync-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-sync-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-sync-go/internal/pkg/bus"
	"github.com/cmlabs-hris/hris-sync-go/internal/pkg/hrisapi"
	"github.com/cmlabs-hris/hris-sync-go/internal/pkg/kvstore"
	"github.com/cmlabs-hris/hris-sync-go/internal/repository/localdata"
	evaluationService "github.com/cmlabs-hris/hris-sync-go/internal/service/evaluation"
	sessionService "github.com/cmlabs-hris/hris-sync-go/internal/service/session"
	sidebarService "github.com/cmlabs-hris/hris-sync-go/internal/service/sidebar"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	store, err := kvstore.New(cfg.Sync.DataDir)
	if err != nil {
		fmt.Println("Error opening local store:", err)
		return
	}

	eventBus := bus.New()
	apiClient := hrisapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout)

	sessions := sessionService.NewSessionService(apiClient)
	ledger := localdata.NewLedger(store, sessions.EmployeeID)
	queue := localdata.NewQueue(store, sessions.EmployeeID)

	evaluationSvc := evaluationService.NewEvaluationService(apiClient, sessions, ledger, queue, eventBus)
	retryWorker := evaluationService.NewRetryWorker(apiClient, sessions, queue, cfg.Sync.RetryInterval)
	sidebarSvc := sidebarService.NewSidebarService(apiClient, sessions, eventBus, cfg.Sync.RefreshInterval, cfg.Sync.ReconcileDelay)

	retryWorker.Start()
	sidebarSvc.Start()

	authHandler := appHTTP.NewAuthHandler(sessions, sidebarSvc)
	evaluationHandler := appHTTP.NewEvaluationHandler(evaluationSvc)
	sidebarHandler := appHTTP.NewSidebarHandler(sidebarSvc)
	streamHandler := appHTTP.NewStreamHandler(eventBus)

	router := appHTTP.NewRouter(
		sessions,
		authHandler,
		evaluationHandler,
		sidebarHandler,
		streamHandler,
		cfg.App.AllowedOrigin,
		cfg.App.Env,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Sync agent running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down")
	sidebarSvc.Stop()
	retryWorker.Stop()
	_ = server.Close()
}
