package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/forcosplay/costume-shop/internal/cache"
	"github.com/forcosplay/costume-shop/internal/httpserver"
	"github.com/forcosplay/costume-shop/internal/payment"
	"github.com/forcosplay/costume-shop/internal/repo"
	"github.com/forcosplay/costume-shop/internal/search"
	"github.com/forcosplay/costume-shop/internal/service"
	"github.com/forcosplay/costume-shop/pkg/config"
	"github.com/forcosplay/costume-shop/pkg/db"
	"github.com/forcosplay/costume-shop/pkg/logging"
	authmw "github.com/forcosplay/costume-shop/pkg/middleware/auth"
	"github.com/forcosplay/costume-shop/pkg/middleware/csrf"
	loggingmw "github.com/forcosplay/costume-shop/pkg/middleware/logging"
	"github.com/forcosplay/costume-shop/pkg/mykafka"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	cfg.Validate()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gormDB, err := db.Open(initCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(initCtx, gormDB); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	var events service.EventPublisher
	var producer *mykafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.Kafka.Brokers)
		if err != nil {
			log.Fatalf("kafka init error: %v", err)
		}
		events = producer
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	var cartCache service.CartCache
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.Connect(initCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("redis init error: %v", err)
		}
		cartCache = cache.NewCartCache(redisClient)
	}

	var searcher service.CostumeSearcher
	if cfg.Elasticsearch.URL != "" {
		esClient, err := search.NewClient(cfg.Elasticsearch.URL, cfg.Elasticsearch.User, cfg.Elasticsearch.Password)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		searcher = &search.CostumeIndex{ES: esClient, Name: cfg.Elasticsearch.Index}
	}

	var gateway service.PaymentGateway
	if cfg.Stripe.SecretKey != "" {
		gateway = payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.Currency)
	} else {
		logger.Warn("payments_disabled", "reason", "STRIPE_SECRET_KEY is empty")
	}

	r := &repo.GormRepo{DB: gormDB}
	jwtSecret := []byte(cfg.JWT.Secret)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(middleware.CORS())

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.CookieSecure
	csrfCfg.SkipPaths = []string{"/health/live", "/health/ready", "/api/login", "/api/register", "/api/logout"}
	e.Use(csrf.Middleware(csrfCfg))

	httpserver.Register(e, &httpserver.Deps{
		CartHandler: &httpserver.CartHTTP{
			Svc:      service.NewCartService(r, cartCache, events),
			Payments: &service.PaymentService{Repo: r, Gateway: gateway},
		},
		OrderHandler: &httpserver.OrderHTTP{
			Checkout: &service.CheckoutService{Repo: r, Cache: cartCache, Events: events},
			Rentals:  &service.RentalService{Repo: r, Events: events},
			Admin:    &service.OrderAdminService{Repo: r, Events: events},
		},
		AccountHandler: &httpserver.AccountHTTP{
			Svc:           &service.AccountService{Repo: r, JWTSecret: jwtSecret},
			SecureCookies: cfg.CookieSecure,
		},
		CatalogHandler: &httpserver.CatalogHTTP{
			Svc: &service.CatalogService{Repo: r, Search: searcher, Events: events},
		},
		Auth: authmw.NewAuthMiddleware(jwtSecret, r),
	})

	go func() {
		logger.Info("server_start", "addr", cfg.Addr())
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("server_shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo_shutdown_error", "error", err)
	}
	if err := db.Close(gormDB); err != nil {
		logger.Error("db_close_error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("redis_close_error", "error", err)
		}
	}

	logger.Info("server_stopped")
}
