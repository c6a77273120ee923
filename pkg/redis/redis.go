// Package redis wraps the go-redis client with connection supervision: a
// periodic health check and automatic reconnection with backoff. The cache
// layer treats a down Redis as a miss, never as a fatal condition.
package redis

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"dashfleet/internal/config"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	client        *redis.Client
	config        config.RedisConfig
	mu            sync.RWMutex
	isConnected   bool
	reconnectChan chan struct{}
	ctx           context.Context
	cancel        context.CancelFunc
}

type HealthStatus struct {
	IsConnected    bool          `json:"isConnected"`
	LastPing       time.Time     `json:"lastPing"`
	ResponseTime   time.Duration `json:"responseTime"`
	ConnectionInfo string        `json:"connectionInfo"`
	Error          string        `json:"error,omitempty"`
}

// NewClient creates a supervised Redis client from cfg.
func NewClient(cfg config.RedisConfig) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		config:        cfg,
		reconnectChan: make(chan struct{}, 1),
		ctx:           ctx,
		cancel:        cancel,
	}

	c.connect()
	go c.healthCheckLoop()
	go c.reconnectLoop()

	return c
}

func (c *Client) connect() {
	opt := c.options()

	c.mu.Lock()
	c.client = redis.NewClient(opt)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := c.GetClient().Ping(ctx).Err()
	c.mu.Lock()
	c.isConnected = err == nil
	c.mu.Unlock()

	if err != nil {
		log.Printf("Redis connection test failed: %v", err)
	}
}

func (c *Client) options() *redis.Options {
	if c.config.URL != "" {
		opt, err := redis.ParseURL(c.config.URL)
		if err == nil {
			opt.PoolSize = c.config.PoolSize
			opt.MinIdleConns = c.config.MinIdleConns
			opt.DialTimeout = c.config.DialTimeout
			opt.ReadTimeout = c.config.ReadTimeout
			opt.WriteTimeout = c.config.WriteTimeout
			return opt
		}
		log.Printf("Failed to parse Redis URL: %v, falling back to host:port", err)
	}

	return &redis.Options{
		Addr:         fmt.Sprintf("%s:%s", c.config.Host, c.config.Port),
		Password:     c.config.Password,
		DB:           c.config.DB,
		PoolSize:     c.config.PoolSize,
		MinIdleConns: c.config.MinIdleConns,
		DialTimeout:  c.config.DialTimeout,
		ReadTimeout:  c.config.ReadTimeout,
		WriteTimeout: c.config.WriteTimeout,
	}
}

// GetClient returns the underlying go-redis client (thread-safe).
func (c *Client) GetClient() *redis.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// IsConnected returns the last observed connection state.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected
}

// HealthCheck pings Redis and reports detailed status. A failed ping flips
// the connection state and triggers the reconnect loop.
func (c *Client) HealthCheck() HealthStatus {
	status := HealthStatus{
		ConnectionInfo: fmt.Sprintf("%s:%s", c.config.Host, c.config.Port),
	}

	client := c.GetClient()
	if client == nil {
		status.Error = "Redis client not initialized"
		return status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	start := time.Now()
	err := client.Ping(ctx).Err()
	status.ResponseTime = time.Since(start)
	status.LastPing = time.Now()

	c.mu.Lock()
	c.isConnected = err == nil
	c.mu.Unlock()

	status.IsConnected = err == nil
	if err != nil {
		status.Error = err.Error()
		c.triggerReconnect()
	}
	return status
}

func (c *Client) triggerReconnect() {
	select {
	case c.reconnectChan <- struct{}{}:
	default:
		// reconnection already pending
	}
}

func (c *Client) healthCheckLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if status := c.HealthCheck(); !status.IsConnected {
				log.Printf("Redis health check failed: %s", status.Error)
			}
		}
	}
}

func (c *Client) reconnectLoop() {
	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.reconnectChan:
			if c.IsConnected() {
				continue
			}

			log.Printf("Attempting to reconnect to Redis...")
			c.mu.Lock()
			if c.client != nil {
				c.client.Close()
			}
			c.mu.Unlock()

			c.connect()

			if c.IsConnected() {
				log.Println("Successfully reconnected to Redis")
				backoff = time.Second
				continue
			}

			log.Printf("Reconnection failed, retrying in %v", backoff)
			time.Sleep(backoff)
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			c.triggerReconnect()
		}
	}
}

// Close stops the supervision loops and closes the connection pool.
func (c *Client) Close() error {
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
