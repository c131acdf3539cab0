package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/jaiwee/cathay-chuangx5/internal/adapters/gemini"
	server "github.com/jaiwee/cathay-chuangx5/internal/adapters/http_server"
	"github.com/jaiwee/cathay-chuangx5/internal/adapters/observability"
	redisad "github.com/jaiwee/cathay-chuangx5/internal/adapters/redis"
	"github.com/jaiwee/cathay-chuangx5/internal/app"
	"github.com/jaiwee/cathay-chuangx5/internal/shared"
	mysqlrepo "github.com/jaiwee/cathay-chuangx5/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// a missing generation key must fail before any pipeline step runs
	gen, err := gemini.New(cfg.GeminiBase, cfg.GeminiModel, cfg.GeminiKey, cfg.GeminiRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("generation client init failed")
	}

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	candidates := app.NewCandidateService(repo, cache, cfg.CacheTTL)
	pipeline := app.NewPipeline(candidates, repo, gen)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Pipeline: pipeline, Store: repo})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
