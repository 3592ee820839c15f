package main

import (
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"groupstay_crm/internal/adapters/crm"
	server "groupstay_crm/internal/adapters/http_server"
	"groupstay_crm/internal/adapters/observability"
	redisad "groupstay_crm/internal/adapters/redis"
	"groupstay_crm/internal/app"
	"groupstay_crm/internal/shared"
	mysqlrepo "groupstay_crm/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	logs := app.NewSyncLogger(mysqlrepo.New(db), log.Logger)
	crmSvc := crm.NewFactory(shared.LoadCRM, log.Logger).Instance()
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()

	syncSvc := app.NewSyncService(crmSvc, logs)
	q := app.NewQueryService(logs, crmSvc, cache, cfg.StatusTTL)

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Sync: syncSvc, Q: q, WebhookSecret: cfg.CRM.WebhookSecret})

	log.Info().Str("addr", cfg.HTTPAddr).Bool("crm_enabled", cfg.CRM.Enabled).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
