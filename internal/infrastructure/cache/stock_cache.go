// Package cache caché de lecturas derivadas (dashboard, listado de stock, mayores) sobre Redis.
//
// Las claves incluyen una versión global; cualquier escritura en el log la incrementa (Bump)
// y las entradas anteriores expiran solas por TTL. Con cliente nil todo pasa directo al loader.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const (
	versionKey  = "stock:version"
	bumpChannel = "stock.bump"
)

// StockCache caché versionada.
type StockCache struct {
	client   *redis.Client
	ttl      time.Duration
	requests *prometheus.CounterVec
	bumps    prometheus.Counter
}

// New construye la caché. client puede ser nil (caché desactivada).
func New(client *redis.Client, ttl time.Duration) *StockCache {
	return &StockCache{client: client, ttl: ttl}
}

// Instrument registra en reg los contadores de aciertos/fallos y de invalidaciones.
func (c *StockCache) Instrument(reg prometheus.Registerer) error {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_cache_requests_total",
		Help: "Lecturas de la caché de stock por resultado (hit, miss).",
	}, []string{"result"})
	bumps := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_cache_bumps_total",
		Help: "Invalidaciones de la caché por escrituras en el log.",
	})
	for _, col := range []prometheus.Collector{requests, bumps} {
		if err := reg.Register(col); err != nil {
			return fmt.Errorf("registrar métricas de caché: %w", err)
		}
	}
	c.requests, c.bumps = requests, bumps
	return nil
}

func (c *StockCache) count(result string) {
	if c.requests != nil {
		c.requests.WithLabelValues(result).Inc()
	}
}

// NewClient abre un cliente Redis desde una URL redis:// y verifica la conexión.
func NewClient(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Version devuelve la versión actual, inicializándola si no existe.
func (c *StockCache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, versionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey compone la clave con la versión vigente.
func (c *StockCache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(append([]string{"stock"}, parts...), ":")
	if c == nil || c.client == nil {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return joined + ":" + strconv.FormatInt(ver, 10), nil
}

// FetchJSON lee el valor cacheado en dest o lo genera con loader y lo guarda.
func (c *StockCache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader requerido")
	}
	if c != nil && c.client != nil {
		payload, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			c.count("hit")
			return json.Unmarshal(payload, dest)
		}
		if !errors.Is(err, redis.Nil) {
			return err
		}
		c.count("miss")
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c != nil && c.client != nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			return err
		}
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalida todo lo cacheado incrementando la versión y publica la nueva versión.
func (c *StockCache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	ver, err := c.client.Incr(ctx, versionKey).Result()
	if err != nil {
		return err
	}
	if c.bumps != nil {
		c.bumps.Inc()
	}
	return c.client.Publish(ctx, bumpChannel, strconv.FormatInt(ver, 10)).Err()
}
