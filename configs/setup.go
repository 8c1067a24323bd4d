package configs

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/FaizwebWorks/ambika-backend/utils"
)

var DB *mongo.Client

// ConnectDB connects to MongoDB and pings it. Call once from main before
// serving; GetCollection depends on it.
func ConnectDB() *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(EnvMongoURI()))
	if err != nil {
		utils.Logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}

	if err := client.Ping(ctx, nil); err != nil {
		utils.Logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}

	utils.Logger.Info().Str("db", EnvDBName()).Msg("connected to MongoDB")

	DB = client
	return client
}

func GetCollection(name string) *mongo.Collection {
	return DB.Database(EnvDBName()).Collection(name)
}

var Redis *redis.Client

// ConnectRedis is optional: without REDIS_ADDR the cache stays disabled and
// every cache call is a miss.
func ConnectRedis() *redis.Client {
	addr := EnvRedisAddr()
	if addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		utils.Logger.Warn().Err(err).Str("addr", addr).Msg("redis unreachable, caching disabled")
		return nil
	}

	utils.Logger.Info().Str("addr", addr).Msg("connected to redis")
	Redis = rdb
	return rdb
}
