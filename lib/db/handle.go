package db

import (
	"database/sql"
	"time"
)

// --------------------------------------------------------------------------
// Connection Descriptor
// --------------------------------------------------------------------------

// Default pool tuning, matching the sizing the dashboard has always run with.
const (
	DefaultPoolSize       = 8
	DefaultPoolMinIdle    = 1
	DefaultConnectTimeout = 10 * time.Second
)

// PoolConfig holds the tuning applied to a relational connection pool.
type PoolConfig struct {
	MaxSize        int           // maximum open connections
	MinIdle        int           // idle connections kept around
	ConnectTimeout time.Duration // bound on the connect liveness probe
}

// Handle is the immutable connection descriptor for one backend: the
// address string (whose scheme determines the engine family), optional
// credentials, the document-store flag and the pool tuning. It never talks
// to a backend itself; processors consume it.
type Handle struct {
	URL      string
	Username string
	Password string
	Document bool
	Pool     PoolConfig
}

// NewHandle creates a handle for the given address with default pool tuning.
func NewHandle(url string) *Handle {
	return &Handle{
		URL: url,
		Pool: PoolConfig{
			MaxSize:        DefaultPoolSize,
			MinIdle:        DefaultPoolMinIdle,
			ConnectTimeout: DefaultConnectTimeout,
		},
	}
}

// WithCredentials returns the handle with username and password set.
func (h *Handle) WithCredentials(username, password string) *Handle {
	h.Username = username
	h.Password = password
	return h
}

// WithPool returns the handle with custom pool tuning. Zero fields keep
// their defaults.
func (h *Handle) WithPool(pool PoolConfig) *Handle {
	if pool.MaxSize > 0 {
		h.Pool.MaxSize = pool.MaxSize
	}
	if pool.MinIdle > 0 {
		h.Pool.MinIdle = pool.MinIdle
	}
	if pool.ConnectTimeout > 0 {
		h.Pool.ConnectTimeout = pool.ConnectTimeout
	}
	return h
}

// ApplyPool applies the pool tuning to an opened relational pool.
func (h *Handle) ApplyPool(pool *sql.DB) {
	pool.SetMaxOpenConns(h.Pool.MaxSize)
	pool.SetMaxIdleConns(h.Pool.MinIdle)
	pool.SetConnMaxLifetime(0)
}
