package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"quickbite/config"
	"quickbite/logger"
	httpapi "quickbite/order-svc/internal/api/http"
	"quickbite/order-svc/internal/auth"
	"quickbite/order-svc/internal/notify"
	"quickbite/order-svc/internal/pricing"
	"quickbite/order-svc/internal/service"
	"quickbite/order-svc/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}

	log, err := logger.New("order-svc", cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("build logger", zap.Error(err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("order service stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	db, err := config.InitPostgres(cfg)
	if err != nil {
		log.Warn("postgres disabled", zap.Error(err))
	}
	var repo storage.Repository
	if db != nil {
		defer db.Close()
		repo = storage.NewPostgresRepository(db)
	}

	var gatewayOpts []storage.GatewayOption
	if repo != nil {
		gatewayOpts = append(gatewayOpts, storage.OnRecover(repo.EnsureSchema))
	}
	gateway := storage.NewGateway(repo, log.Named("storage"), gatewayOpts...)
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if !gateway.Probe(probeCtx) {
		log.Warn("storage unavailable at startup, serving in degraded mode")
	}
	cancel()

	var cache service.CatalogCache
	redisClient, err := config.InitRedis(ctx, cfg)
	if err != nil {
		log.Warn("catalog cache disabled", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
		cache = storage.NewRedisCache(redisClient, cfg.CatalogCacheTTL)
	}

	var publisher service.EventPublisher
	if writer := config.NewKafkaWriter(cfg); writer != nil {
		writer.ErrorLogger = logger.NewPrintfAdapter(log.Named("kafka"))
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	}

	var sender notify.Sender
	if cfg.TelegramBotToken != "" {
		sender = notify.NewTelegramSender(cfg.TelegramAPIURL, cfg.TelegramBotToken, &http.Client{Timeout: cfg.NotifyTimeout})
	}

	handler, dispatcher := newHandler(cfg, gateway, cache, publisher, sender, log)
	defer dispatcher.Wait()
	router := httpapi.NewRouter(handler)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return httpapi.StartServer(groupCtx, ":"+cfg.Port, router, log)
	})
	if repo != nil {
		group.Go(func() error {
			return gateway.Run(groupCtx, cfg.ProbeInterval)
		})
	}
	return group.Wait()
}

// newHandler assembles the service graph on top of an already probed gateway.
func newHandler(
	cfg *config.Config,
	gateway *storage.Gateway,
	cache service.CatalogCache,
	publisher service.EventPublisher,
	sender notify.Sender,
	log *zap.Logger,
) (*httpapi.Handler, *notify.Dispatcher) {
	calc := pricing.NewCalculator(pricing.ParseMode(cfg.PricingMode))
	dispatcher := notify.NewDispatcher(sender, calc, cfg.TelegramChatID, cfg.NotifyTimeout, log.Named("notify"))

	catalogSvc := service.NewCatalogService(gateway, cache, log.Named("catalog"))
	orderSvc := service.NewOrderService(gateway, calc, dispatcher,
		service.WithRestaurantLookup(catalogSvc),
		service.WithEventPublisher(publisher),
		service.WithQRGenerator(service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL}),
		service.WithLogger(log.Named("orders")),
	)
	tokens := auth.NewTokenAuthenticator(cfg.JWTSecret, cfg.JWTTTL)
	accountSvc := service.NewAccountService(gateway, tokens)

	handler := httpapi.NewHandler(orderSvc, catalogSvc, accountSvc, tokens, cfg.AdminKey, gateway, log.Named("http"))
	return handler, dispatcher
}
