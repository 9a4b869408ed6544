package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-webinar-scheduler/config"
	"github.com/oksasatya/go-webinar-scheduler/internal/domain/generator"
	"github.com/oksasatya/go-webinar-scheduler/internal/domain/repository"
	infragen "github.com/oksasatya/go-webinar-scheduler/internal/infrastructure/generator"
	"github.com/oksasatya/go-webinar-scheduler/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	esClient    *elasticsearch.Client

	webinarRepo repository.WebinarRepository
	publisher   repository.EventPublisher
	ids         generator.IDGenerator
	clock       generator.DateGenerator
)

func SetConfig(c *config.Config)                    { cfg = c }
func GetConfig() *config.Config                     { return cfg }
func SetLogger(l *logrus.Logger)                    { logger = l }
func SetPGPool(p *pgxpool.Pool)                     { pgPool = p }
func GetPGPool() *pgxpool.Pool                      { return pgPool }
func SetRedis(r *redis.Client)                      { redisClient = r }
func GetRedis() *redis.Client                       { return redisClient }
func SetES(c *elasticsearch.Client)                 { esClient = c }
func GetES() *elasticsearch.Client                  { return esClient }
func SetWebinarRepo(r repository.WebinarRepository) { webinarRepo = r }
func GetWebinarRepo() repository.WebinarRepository  { return webinarRepo }
func SetEventPublisher(p repository.EventPublisher) { publisher = p }
func SetIDGenerator(g generator.IDGenerator)        { ids = g }
func SetDateGenerator(g generator.DateGenerator)    { clock = g }

func GetLogger() *logrus.Logger {
	if logger != nil {
		return logger
	}
	return helpers.NewDiscardLogger()
}

func GetEventPublisher() repository.EventPublisher {
	if publisher != nil {
		return publisher
	}
	return repository.NopPublisher{}
}

func GetIDGenerator() generator.IDGenerator {
	if ids != nil {
		return ids
	}
	return infragen.UUIDGenerator{}
}

func GetDateGenerator() generator.DateGenerator {
	if clock != nil {
		return clock
	}
	return infragen.SystemDateGenerator{}
}

// Reset clears every singleton. Tests use it between cases.
func Reset() {
	cfg, logger, pgPool, redisClient, esClient = nil, nil, nil, nil, nil
	webinarRepo, publisher, ids, clock = nil, nil, nil, nil
}
