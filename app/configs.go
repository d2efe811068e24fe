package app

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/RezaEskandarii/remindfire/types/config"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"time"
)

func openPostgresDB(connectionURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connectionURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

func openRedis(ctx context.Context, rc config.RedisConfig) (*redis.Client, error) {
	var opts *redis.Options
	if rc.URL != "" {
		parsed, err := redis.ParseURL(rc.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: rc.Address, Password: rc.Password, DB: rc.DB}
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
