package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Prefixos de chave
	CacheKeyPerfilDominio = "thebest:perfil:dominio:"

	// Canal de eventos de cobrança paga
	CanalCobrancasPagas = "thebest:cobrancas:pagas"

	// TTLs
	CacheTTLPerfilDominio = 5 * time.Minute
)

// Cache envolve o cliente Redis com helpers de (de)serialização JSON.
type Cache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// Get lê uma chave e desserializa em dest. Retorna redis.Nil se ausente.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Set serializa value e grava com TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

// Delete remove chaves.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
