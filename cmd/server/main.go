package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/RoyceAzure/lab/storefront/internal/api/handler"
	"github.com/RoyceAzure/lab/storefront/internal/api/router"
	"github.com/RoyceAzure/lab/storefront/internal/catalog"
	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/identity"
	"github.com/RoyceAzure/lab/storefront/internal/infra/consumer"
	"github.com/RoyceAzure/lab/storefront/internal/infra/gateway"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/logger"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	log := logger.NewLogger("storefront")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.GetDbConn(cfg.DbName, cfg.DbHost, cfg.DbPort, cfg.DbUser, cfg.DbPas)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres failed")
	}
	dao := db.NewDbDao(conn)
	if err := dao.InitMigrate(); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("connect redis failed")
	}
	cartCache := redis_repo.NewCartCache(redis_repo.NewRedisCache(redisClient, cfg.RedisPrefix))

	cartRepo := db.NewCartRepo(dao)
	productRepo := db.NewProductRepo(dao)
	userRepo := db.NewUserRepo(dao)
	promoRepo := db.NewPromoRepo(dao)

	catalogResolver := catalog.NewDBResolver(productRepo)
	identityResolver := identity.NewJWTResolver(cfg.JwtSecret, userRepo)
	paymentGateway := gateway.NewLocalGateway()

	lifecycleSvc := service.NewLifecycleService(cartRepo, catalogResolver, identityResolver, cartCache, log)
	checkoutSvc := service.NewCheckoutService(cartRepo, promoRepo, catalogResolver, cartCache, paymentGateway, log)
	querySvc := service.NewQueryService(cartRepo, userRepo, catalogResolver, identityResolver, cartCache, log)

	transitionProducer := producer.NewTransitionProducer(cfg.Brokers(), cfg.KafkaSenderTopic, cfg.KafkaReceiverTopic)
	defer transitionProducer.Close()
	resultProducer := producer.NewResultProducer(cfg.Brokers(), cfg.KafkaResultTopic)
	defer resultProducer.Close()

	statusConsumer := consumer.NewStatusConsumer(consumer.Config{
		Brokers:       cfg.Brokers(),
		SenderTopic:   cfg.KafkaSenderTopic,
		ReceiverTopic: cfg.KafkaReceiverTopic,
		GroupID:       cfg.KafkaGroupID,
	}, lifecycleSvc, resultProducer, log)
	defer statusConsumer.Close()

	paymentHandler := handler.NewPaymentHandler(querySvc, checkoutSvc, transitionProducer)
	engine := router.New(paymentHandler, identityResolver)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: engine,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("http server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info().Msg("status consumer started")
		if err := statusConsumer.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("service stopped")
	}
	log.Info().Msg("service shutdown complete")
}
