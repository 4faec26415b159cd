package infra

import (
	"log"

	"github.com/tnqbao/gau-stream-overlay/config"
	"github.com/tnqbao/gau-stream-overlay/infra/produce"
)

type Infra struct {
	Postgres *PostgresClient
	Redis    *RedisClient
	RabbitMQ *RabbitMQClient
	Logger   *LoggerClient
	Produce  *produce.Produce
}

var infraInstance *Infra

func InitInfra(cfg *config.Config) *Infra {
	if infraInstance != nil {
		return infraInstance
	}

	logger := InitLoggerClient(cfg.EnvConfig)
	if logger == nil {
		panic("Failed to initialize Logger service")
	}

	postgres := InitPostgresClient(cfg.EnvConfig)
	if postgres == nil {
		panic("Failed to initialize Postgres service")
	}

	// Redis is optional - without it every list hits Postgres directly
	var redis *RedisClient
	if cfg.EnvConfig.Redis.RedisHost != "" {
		redis = InitRedisClient(cfg.EnvConfig)
	} else {
		log.Println("Redis not configured, overlay list cache disabled")
	}

	// RabbitMQ is optional - without it overlay change events are not published
	var rabbitMQ *RabbitMQClient
	var produceService *produce.Produce
	if cfg.EnvConfig.RabbitMQ.Host != "" {
		rabbitMQ = InitRabbitMQClient(cfg.EnvConfig)
		produceService = produce.InitProduce(rabbitMQ.Channel)
	} else {
		log.Println("RabbitMQ not configured, overlay change events disabled")
	}

	infraInstance = &Infra{
		Postgres: postgres,
		Redis:    redis,
		RabbitMQ: rabbitMQ,
		Logger:   logger,
		Produce:  produceService,
	}

	return infraInstance
}

func GetClient() *Infra {
	if infraInstance == nil {
		panic("Infra not initialized. Call InitInfra() first.")
	}
	return infraInstance
}
