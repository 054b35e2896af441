package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/bus"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/cache"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/catalog"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/dispatch"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/env"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/notify"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/parser"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/ratelimiter"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/service"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/store/mongo"
	"go.uber.org/zap"
)

const version = "0.0.0"

//	@title			LGS Stock Checker
//	@description	Card wish-list availability checking across local game stores

// @BasePath	/api/v1
func main() {
	_ = godotenv.Load()

	cfg := config{
		addr: env.GetString("ADDR", ":8080"),
		env:  env.GetString("ENV", "development"),
		rateLimiter: ratelimiter.Config{
			RequestsPerTimeFrame: env.GetInt("RATELIMITER_REQUESTS_COUNT", 20),
			TimeFrame:            time.Second * 5,
			Enabled:              env.GetBool("RATE_LIMITER_ENABLED", true),
		},
		mongo: mongoConfig{
			URI:      env.GetString("MONGO_URI", "mongodb://localhost:27017"),
			Database: env.GetString("MONGO_DATABASE", "lgs_stock"),
			Timeout:  time.Second * 10,
		},
		redis: redisConfig{
			PrimaryAddr: env.GetString("REDIS_PRIMARY_ADDR", "localhost:6379"),
			ReplicaAddr: env.GetString("REDIS_REPLICA_ADDR", ""),
			Password:    env.GetString("REDIS_PASSWORD", ""),
			DB:          env.GetInt("REDIS_DB", 0),
		},
		scryfallURL: env.GetString("SCRYFALL_URL", ""),
		googleCreds: env.GetString("GOOGLE_CREDENTIALS_PATH", ""),
	}

	// logger
	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	// rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	// storage
	storage, err := mongo.New(mongo.Config{
		URI:      cfg.mongo.URI,
		Database: cfg.mongo.Database,
		Timeout:  cfg.mongo.Timeout,
	})
	if err != nil {
		logger.Fatalw("failed to connect to MongoDB", "error", err)
	}

	logger.Info("connected to MongoDB")

	// create indexes
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := storage.CreateIndexes(ctx); err != nil {
		logger.Warnw("failed to create indexes", "error", err)
	} else {
		logger.Info("MongoDB indexes created successfully")
	}

	// repos
	cardRepo := mongo.NewCardRepository(storage.Database())
	storeRepo := mongo.NewStoreRepository(storage.Database())

	// redis cache
	redisCache, err := cache.NewRedisCache(cache.RedisConfig{
		PrimaryAddr: cfg.redis.PrimaryAddr,
		ReplicaAddr: cfg.redis.ReplicaAddr,
		Password:    cfg.redis.Password,
		DB:          cfg.redis.DB,
	})
	if err != nil {
		logger.Fatalw("failed to connect to Redis", "error", err)
	}

	logger.Info("connected to Redis")

	// redis command bus
	commandBus, err := bus.NewRedisBus(bus.RedisConfig{
		Addr:     cfg.redis.PrimaryAddr,
		Password: cfg.redis.Password,
		DB:       cfg.redis.DB,
	}, logger)
	if err != nil {
		logger.Fatalw("failed to connect command bus to Redis", "error", err)
	}

	// card-name catalog
	catalogService := catalog.NewService(redisCache, catalog.NewScryfallClient(cfg.scryfallURL), logger)

	var importer service.CardImporter
	if cfg.googleCreds != "" {
		credsJSON, err := os.ReadFile(cfg.googleCreds)
		if err != nil {
			logger.Fatalw("failed to read Google credentials", "error", err)
		}

		sheetsImporter, err := parser.NewSheetsImporter(parser.SheetsConfig{
			CredentialsJSON: credsJSON,
		})
		if err != nil {
			logger.Fatalw("failed to create Google Sheets importer", "error", err)
		}
		importer = sheetsImporter
		logger.Info("Google Sheets importer initialized")
	} else {
		logger.Warn("Google credentials not provided, spreadsheet import disabled")
	}

	notifier := notify.NewLogNotifier(logger)

	cardService := service.NewCardService(
		cardRepo,
		catalogService,
		importer,
		notifier,
		logger,
	)

	coordinator := dispatch.NewCoordinator(
		commandBus,
		redisCache,
		notifier,
		cardRepo,
		storeRepo,
		logger,
	)

	app := &application{
		config:      cfg,
		logger:      logger,
		rateLimiter: rateLimiter,
		storage:     storage,
		cache:       redisCache,
		bus:         commandBus,
		storeRepo:   storeRepo,
		cardService: cardService,
		coordinator: coordinator,
	}

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
