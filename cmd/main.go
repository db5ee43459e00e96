package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/formhive/form-service/internal/entity"
	"github.com/formhive/form-service/internal/repository"
	"github.com/formhive/form-service/internal/service"
	"github.com/formhive/form-service/pkg/closer"
	"github.com/formhive/form-service/pkg/config"
	"github.com/formhive/form-service/pkg/exporter"
	"github.com/formhive/form-service/pkg/health"
	"github.com/formhive/form-service/pkg/logger"
	"github.com/formhive/form-service/pkg/retrier"
	"github.com/formhive/form-service/pkg/transport/casher"
	"github.com/formhive/form-service/pkg/transport/consumer"
	"github.com/formhive/form-service/pkg/transport/listener"
	"github.com/formhive/form-service/pkg/transport/publisher"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	logCfg := logger.Config{
		LogFile:   "app.log",
		LogLevel:  "debug",
		AppName:   "form-service",
		AddCaller: true,
	}

	if err := logger.Init(logCfg); err != nil {
		panic(err)
	}

	defer logger.Sync()

	logger := logger.Get()

	// Optional .env for local development; config values can still be
	// overridden through the environment.
	_ = godotenv.Load()

	cfg, err := config.Init("config.yaml")
	if err != nil {
		logger.Error("error init config",
			zap.String("path", "config.yaml"),
			zap.Error(err))
		return
	}

	db, err := retrier.Connect(5, 3, func() (*gorm.DB, error) {
		return gorm.Open(mysql.Open(cfg.Urls.Mysql), &gorm.Config{})
	})
	if err != nil {
		logger.Error("error connect to mysql", zap.Error(err))
		return
	}

	repo := repository.Init(db, logger)

	if err := repo.Migrate(); err != nil {
		logger.Error("error migrate schema", zap.Error(err))
		return
	}

	redisOpts, err := redis.ParseURL(cfg.Urls.Redis)
	if err != nil {
		logger.Error("error parse redis url", zap.Error(err))
		return
	}

	redisClient := redis.NewClient(redisOpts)
	cash := casher.Init(redisClient, logger)

	conns, err := retrier.MultiConnects(2, func() (*amqp.Connection, error) {
		return amqp.Dial(cfg.Urls.Rabbitmq)
	}, &retrier.RetrierOpts{Count: 5, Interval: 3})
	if err != nil {
		logger.Error("error connect to rabbitmq", zap.Error(err))
		return
	}

	pub, err := publisher.Init(cfg, logger, conns[0])
	if err != nil {
		logger.Error("error init publisher", zap.Error(err))
		return
	}

	cons, err := consumer.Init(cfg, logger, conns[1])
	if err != nil {
		logger.Error("error init consumer", zap.Error(err))
		return
	}

	requestTypes := []string{
		cfg.Reqs.CreateFormRequestType,
		cfg.Reqs.UpdateFormRequestType,
		cfg.Reqs.PublishFormRequestType,
		cfg.Reqs.AddQuestionRequestType,
		cfg.Reqs.DeleteQuestionRequestType,
		cfg.Reqs.UpdateQuestionRequestType,
		cfg.Reqs.AddOptionRequestType,
		cfg.Reqs.DeleteOptionRequestType,
		cfg.Reqs.UpdateOptionRequestType,
		cfg.Reqs.SubmitFormRequestType,
		cfg.Reqs.ExportFormRequestType,
	}

	for _, requestType := range requestTypes {
		if err := cons.Subscribe(cfg.Exchange.Request, requestType, cfg.Queue.Request); err != nil {
			logger.Error("error subscribe to request type",
				zap.String("request_type", requestType),
				zap.Error(err))
			return
		}
	}

	svc := service.Init(cash, repo, pub, 5*time.Second)

	if err := os.MkdirAll("exports", 0o755); err != nil {
		logger.Error("error create export directory", zap.Error(err))
		return
	}

	sink := exporter.NewCSVSink("exports", logger)

	events := make(chan entity.Event, 64)
	list := listener.Init(events, logger, cfg, svc, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go cons.ConsumeMessages(events)
	go list.Listen(ctx)

	checker := health.NewHealthChecker(logger, repo, cash, cons)
	go checker.StartHealthCheckServer(cfg.HealthPort)

	closers := closer.NewCloserGroup(pub, cons, cash)

	logger.Info("form-service started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	cancel()

	if err := closers.Close(); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}

	logger.Info("form-service stopped")
}
