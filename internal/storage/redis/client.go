package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

func NewClient(addr, password string, db int) *Client {
	return &Client{
		Client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// IsNil сообщает, что ключа в хранилище нет (redis.Nil не должен
// утекать в вызывающие слои как ошибка)
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
