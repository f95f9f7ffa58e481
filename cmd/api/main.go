package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	httpadp "github.com/emiledger/backend/internal/adapter/http"
	"github.com/emiledger/backend/internal/adapter/middleware"
	"github.com/emiledger/backend/internal/adapter/repository/mysql"
	"github.com/emiledger/backend/internal/config"
	"github.com/emiledger/backend/internal/infrastructure/cache"
	"github.com/emiledger/backend/internal/infrastructure/db"
	"github.com/emiledger/backend/internal/integrations/mirror"
	accountuc "github.com/emiledger/backend/internal/usecase/account"
	"github.com/emiledger/backend/internal/usecase/approval"
	"github.com/emiledger/backend/internal/usecase/direct"
	"github.com/emiledger/backend/internal/usecase/dues"
	settlementuc "github.com/emiledger/backend/internal/usecase/settlement"
	"github.com/emiledger/backend/internal/usecase/submission"
	"github.com/emiledger/backend/internal/worker/fines"
)

func main() {
	_ = godotenv.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("invalid config")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		logrus.WithError(err).Fatal("mysql connect failed")
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logrus.WithError(err).Fatal("redis connect failed")
	}

	// repositories
	accounts := mysql.NewAccountRepository(gdb)
	entries := mysql.NewScheduleRepository(gdb)
	agents := mysql.NewAgentRepository(gdb)
	profiles := mysql.NewProfileRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	var notifier mirror.Notifier = mirror.Nop{}
	if cfg.MirrorWebhookURL != "" {
		notifier = mirror.NewWebhook(cfg.MirrorWebhookURL)
	}

	// usecases
	accountUC := accountuc.NewUsecase(tx, agents)
	duesUC := dues.NewUsecase(accounts, entries)
	submitUC := submission.NewUsecase(tx, agents, notifier)
	approvalUC := approval.NewUsecase(tx, profiles, notifier)
	directUC := direct.NewUsecase(tx, profiles, notifier)
	settleUC := settlementuc.NewUsecase(tx, profiles, notifier)

	// fine accrual worker
	fineWorker := fines.NewWorker(tx, cfg.FinePerDay)
	cr := cron.New()
	if _, err := fineWorker.Schedule(cr, cfg.FineCron); err != nil {
		logrus.WithError(err).Fatal("bad fine cron spec")
	}
	cr.Start()
	defer cr.Stop()

	// handlers
	h := httpadp.NewHandler()
	accountH := httpadp.NewAccountHandler(accountUC, duesUC, settleUC)
	paymentH := httpadp.NewPaymentHandler(submitUC, approvalUC, directUC)
	if cfg.ApprovalExecutor == "sequential" {
		paymentH.UseSequentialApproval()
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idemp := middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	// routes
	e.GET("/health", h.Health)

	e.POST("/accounts", accountH.CreateAccount)
	e.GET("/accounts/:account_id", accountH.GetAccount)
	e.GET("/accounts/:account_id/dues", accountH.GetDueBreakdown)
	e.POST("/accounts/:account_id/settle", accountH.SettleAccount, idemp)
	e.GET("/accounts/:account_id/settlement", accountH.GetSettlement)

	e.POST("/payments/submit", paymentH.SubmitPayment, idemp)
	e.POST("/payments/approve", paymentH.ApprovePayment, idemp)
	e.POST("/payments/reject", paymentH.RejectPayment, idemp)
	e.POST("/payments/direct", paymentH.DirectRecordPayment, idemp)

	addr := ":" + cfg.AppPort
	logrus.WithField("addr", addr).Info("listening")
	if err := e.Start(addr); err != nil {
		logrus.Fatal(err)
	}
}
