package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"TrapWars/internal/agent"
	"TrapWars/internal/api/handlers"
	"TrapWars/internal/api/middleware"
	"TrapWars/internal/config"
	"TrapWars/internal/exchange"
	"TrapWars/internal/game"
	"TrapWars/internal/market"
	"TrapWars/internal/recorder"
	"TrapWars/internal/scheduler"
	"TrapWars/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TrapWars starting...")

	// .env is optional; real env always wins.
	_ = godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, using memory: %v", err)
			st = store.NewMemoryStore()
		} else {
			st = ss
			defer ss.Close()
		}
	} else {
		st = store.NewMemoryStore()
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init market tracker
	tracker := market.NewTracker(
		market.NewJupiterFetcher(cfg.Market.JupiterURL),
		market.NewDexScreenerFetcher(cfg.Market.DexScreenerURL),
		cfg.Token.Mint,
	)

	// Init game engine
	engine, err := game.NewEngine(cfg.Wallet, st, rec, tracker, nil)
	if err != nil {
		log.Fatalf("[FATAL] init game engine: %v", err)
	}

	// Init exchange provider
	var provider exchange.Provider
	if cfg.Exchange.DryRun {
		provider = exchange.NewSim()
		log.Println("[INFO] exchange: dry-run simulator")
	} else {
		provider = exchange.NewLive(cfg.Exchange.QuoteURL, cfg.Exchange.RPCEndpoint)
		log.Println("[INFO] exchange: live Jupiter + RPC")
	}

	// Init agents
	var volumeAgent *agent.VolumeAgent
	if cfg.VolumeBot.Enabled {
		volumeAgent = agent.NewVolumeAgent(agent.VolumeConfig{
			Wallet:        cfg.Wallet,
			TokenMint:     cfg.Token.Mint,
			MinBuySol:     cfg.VolumeBot.MinBuySol,
			MaxBuySol:     cfg.VolumeBot.MaxBuySol,
			MinInterval:   time.Duration(cfg.VolumeBot.MinIntervalSec) * time.Second,
			MaxInterval:   time.Duration(cfg.VolumeBot.MaxIntervalSec) * time.Second,
			FeeReserveSol: cfg.VolumeBot.FeeReserveSol,
		}, provider, rec, st, nil, nil)
	}
	var gridAgent *agent.GridAgent
	if cfg.GridBot.Enabled {
		priceMin, err := decimal.NewFromString(cfg.GridBot.PriceMin)
		if err != nil {
			log.Fatalf("[FATAL] parse grid_bot.price_min: %v", err)
		}
		priceMax, err := decimal.NewFromString(cfg.GridBot.PriceMax)
		if err != nil {
			log.Fatalf("[FATAL] parse grid_bot.price_max: %v", err)
		}
		orderSize, err := decimal.NewFromString(cfg.GridBot.OrderSize)
		if err != nil {
			log.Fatalf("[FATAL] parse grid_bot.order_size: %v", err)
		}
		if priceMin.GreaterThanOrEqual(priceMax) {
			log.Fatalf("[FATAL] grid_bot.price_min must be below price_max")
		}
		gridAgent = agent.NewGridAgent(agent.GridConfig{
			Wallet:     cfg.Wallet,
			TokenMint:  cfg.Token.Mint,
			GridLevels: cfg.GridBot.Levels,
			PriceMin:   priceMin,
			PriceMax:   priceMax,
			OrderSize:  orderSize,
		}, provider, rec, st, nil, nil)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, tracker, rec, volumeAgent, gridAgent)
	if err := sched.RegisterAll(cfg.Market.RefreshCron, cfg.Market.StatsCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Warm the multiplier before the first run starts.
	go sched.RunMarketRefreshNow()

	// Set up Gin router
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	runHandler := handlers.NewRunHandler(engine)
	marketHandler := handlers.NewMarketHandler(tracker)
	agentsHandler := handlers.NewAgentsHandler(ctx, volumeAgent, gridAgent)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/run", runHandler.GetRun)
		api.POST("/run/start", runHandler.StartRun)
		api.POST("/run/travel", runHandler.Travel)
		api.POST("/run/buy", runHandler.Buy)
		api.POST("/run/sell", runHandler.Sell)
		api.POST("/run/end", runHandler.EndRun)

		api.GET("/market", marketHandler.GetMarket)

		api.POST("/agents/:name/start", agentsHandler.StartAgent)
		api.POST("/agents/:name/stop", agentsHandler.StopAgent)
		api.GET("/agents/:name/stats", agentsHandler.GetAgentStats)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.API.Port,
		Handler: router,
	}
	go func() {
		log.Printf("[INFO] API server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] API server: %v", err)
		}
	}()

	log.Println("[INFO] TrapWars is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	if volumeAgent != nil {
		volumeAgent.Stop()
	}
	if gridAgent != nil {
		gridAgent.Stop()
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] API server shutdown: %v", err)
	}
	log.Println("[INFO] TrapWars stopped")
}
