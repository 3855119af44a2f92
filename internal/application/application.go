// Package application wires configuration, storage, the payment gateway,
// domain services and background workers into a running process.
package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"heyspender/internal/config"
	"heyspender/internal/domain/service/claim"
	"heyspender/internal/domain/service/payment"
	"heyspender/internal/domain/service/reminder"
	"heyspender/internal/domain/service/wallet"
	"heyspender/internal/domain/service/wishlist"
	"heyspender/internal/domain/value"
	"heyspender/internal/infrastructure/notifier"
	"heyspender/internal/infrastructure/paystack"
	"heyspender/internal/infrastructure/persistence"
	"heyspender/internal/server"
	"heyspender/internal/worker"
	"heyspender/pkg/application/connectors"
	"heyspender/pkg/application/modules"
	"heyspender/pkg/contextx"
	"heyspender/pkg/logx"
	"heyspender/pkg/middlewarex"
)

//nolint:gochecknoglobals
var logger = contextx.LoggerFromContextOrDefault

//nolint:funlen
func Run(ctx context.Context, cfg config.Config) error {
	masker := logx.NewSensitiveDataMasker()

	postgres := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := postgres.Client(ctx)
	defer postgres.Close(ctx)

	redis := &connectors.Redis{
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	redisClient := redis.Client(ctx)
	defer redis.Close(ctx)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DatabaseNumber,
	})
	defer asynqClient.Close()

	userRepo := persistence.NewUserRepository(db)
	wishlistRepo := persistence.NewWishlistRepository(db)
	itemRepo := persistence.NewItemRepository(db)
	goalRepo := persistence.NewGoalRepository(db)
	claimRepo := persistence.NewClaimRepository(db)
	walletRepo := persistence.NewWalletRepository(db)
	payoutRepo := persistence.NewPayoutRepository(db)
	reminderRepo := persistence.NewReminderRepository(db)
	intentRepo := persistence.NewPaymentIntentRepository(db)

	paystackClient := paystack.NewClient(cfg.Paystack, masker, cfg.HTTP.LogFieldMaxLen)
	gateway := paystack.NewGateway(paystackClient, cfg.Paystack.CallbackURL)

	wishlistService := wishlist.NewService(wishlistRepo, itemRepo, goalRepo)
	claimService := claim.NewService(claimRepo, itemRepo, wishlistRepo, cfg.Worker.ClaimTTL)
	walletService := wallet.NewService(
		walletRepo, payoutRepo, userRepo, gateway,
		value.Money(cfg.Payout.AutoApproveLimitKobo),
	)
	paymentService := payment.NewService(
		intentRepo, claimRepo, itemRepo, wishlistRepo, goalRepo,
		walletService, gateway, redisClient,
	)

	reminderDispatcher := worker.NewReminderDispatcher(asynqClient)
	reminderService := reminder.NewService(reminderRepo, wishlistRepo, reminderDispatcher)

	srv := server.NewServer(
		server.NewWishlistServer(wishlistService),
		server.NewClaimServer(claimService),
		server.NewWalletServer(walletService, paystackClient),
		server.NewPaymentServer(paymentService, walletService, cfg.Paystack.SecretKey),
		server.NewReminderServer(reminderService),
		server.NewAdminServer(walletService, userRepo, walletRepo),
		server.NewAuthMiddleware(cfg.Auth.JWTSecret, userRepo),
	)

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
	)
	srv.RegisterRoutes(router)

	notifyHandler := worker.NewReminderNotifyHandler(userRepo, wishlistRepo, notifier.NewLogNotifier())

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{ShutdownTimeout: cfg.HTTP.ShutdownTimeout}.Run(ctx, g, &http.Server{ //nolint:exhaustruct
		Addr:    cfg.HTTP.ListenAddress,
		Handler: router,
	})

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.App.ProbeAddress,
	}.Run(ctx, g)

	modules.MetricServer{ListenAddress: cfg.App.MetricAddress}.Run(ctx, g)

	modules.AsynqServer{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DatabaseNumber,
	}.Run(ctx, g,
		modules.AsynqQueues{worker.QueueReminders: 1},
		modules.AsynqHandler{Pattern: worker.TypeReminderNotify, Handle: notifyHandler.Handle},
	)

	runWorker(ctx, g, worker.NewClaimExpirer(claimService, cfg.Worker.ClaimScanInterval).Run)
	runWorker(ctx, g, worker.NewReminderScheduler(reminderService, cfg.Worker.ReminderScanInterval).Run)

	logger(ctx).Info("application started")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

// runWorker treats context cancellation as a clean stop so a shutdown never
// reads as a worker failure.
func runWorker(ctx context.Context, g *errgroup.Group, run func(context.Context) error) {
	g.Go(func() error {
		if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		return nil
	})
}
