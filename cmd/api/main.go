package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpadp "peervest/internal/adapter/http"
	"peervest/internal/adapter/middleware"
	"peervest/internal/adapter/repository/mysql"
	"peervest/internal/config"
	"peervest/internal/infrastructure/cache"
	"peervest/internal/infrastructure/db"
	"peervest/internal/platform/metrics"
	creditUc "peervest/internal/usecase/credit"
	identityUc "peervest/internal/usecase/identity"
	loanUc "peervest/internal/usecase/loan"
	platformUc "peervest/internal/usecase/platform"
	treasuryUc "peervest/internal/usecase/treasury"
	"peervest/pkg/clock"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := mysql.Migrate(gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := mysql.Seed(gdb, cfg.Platform, cfg.BootstrapAdminID); err != nil {
		log.Fatalf("seed: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	uow := mysql.NewGormUoW(gdb)
	clk := clock.System{}
	m := metrics.New(prometheus.DefaultRegisterer)

	identities := identityUc.NewUsecase(uow, clk, m)
	profiles := creditUc.NewUsecase(uow)
	loans := loanUc.NewUsecase(uow, clk, m)
	plat := platformUc.NewUsecase(uow, clk)
	treas := treasuryUc.NewUsecase(uow, clk)

	h := httpadp.NewHandler()
	identityH := httpadp.NewIdentityHandler(identities, profiles)
	loanH := httpadp.NewLoanHandler(loans)
	platformH := httpadp.NewPlatformHandler(plat, treas)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	idemp := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)
	actor := middleware.ActorExtractor()

	// open reads
	e.GET("/loans", loanH.List)
	e.GET("/loans/:loan_id", loanH.Get)
	e.GET("/borrowers/:id/loans", loanH.ListByBorrower)
	e.GET("/identities/:id", identityH.Get)
	e.GET("/identities/:id/eligibility", identityH.Eligibility)
	e.GET("/identities/:id/credit-score", identityH.Score)
	e.GET("/platform/stats", platformH.Stats)
	e.GET("/platform/config", platformH.Config)
	e.GET("/treasury/:category", platformH.TreasuryBalance)
	e.GET("/identities/:id/roles", platformH.ListRoles)
	e.GET("/loans/:loan_id/events", loanH.Events)
	e.GET("/events", platformH.RecentEvents)

	// self-service mutations (no role required, idempotent)
	e.POST("/identities", identityH.Register, idemp)
	e.POST("/identities/:id/documents", identityH.SubmitDocument, idemp)
	e.POST("/loans", loanH.Create, idemp)
	e.POST("/loans/:loan_id/fund", loanH.Fund, idemp)
	e.POST("/loans/:loan_id/repay", loanH.Repay, idemp)
	e.POST("/loans/:loan_id/default", loanH.MarkDefaulted, idemp)

	// role-gated mutations (actor required; roles checked per call)
	e.POST("/identities/:id/documents/:idx/verify", identityH.VerifyDocument, actor, idemp)
	e.POST("/identities/:id/compliance", identityH.RecordCompliance, actor, idemp)
	e.POST("/identities/:id/credit-profile", identityH.CreateProfile, actor, idemp)
	e.PUT("/identities/:id/credit-profile", identityH.RecomputeProfile, actor, idemp)
	e.POST("/loans/:loan_id/approve", loanH.Approve, actor, idemp)
	e.PUT("/platform/fee-rate", platformH.UpdateFeeRate, actor, idemp)
	e.PUT("/platform/reserve-rate", platformH.UpdateReserveRate, actor, idemp)
	e.POST("/platform/pause", platformH.Pause, actor, idemp)
	e.POST("/platform/unpause", platformH.Unpause, actor, idemp)
	e.POST("/identities/:id/roles", platformH.GrantRole, actor, idemp)
	e.DELETE("/identities/:id/roles/:role", platformH.RevokeRole, actor)
	e.POST("/treasury/:category/withdraw", platformH.TreasuryWithdraw, actor, idemp)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
