package database

import "time"

// Driver identifies the database engine.
type Driver string

const (
	DriverMySQL Driver = "mysql"
)

// Config holds all settings needed to connect to the relational store.
type Config struct {
	// Driver is the database engine. Only DriverMySQL is supported: every
	// catalog statement is written in MySQL dialect.
	Driver Driver

	Host     string
	Port     int // 0 means the driver default (3306)
	User     string
	Password string
	Name     string

	// Pool tuning. The dashboard opens one connection at start and reuses
	// it, so MaxConns defaults to 1.
	MaxConns        int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration

	// Timeouts
	ConnectTimeout time.Duration // time limit for the start-up ping
	QueryTimeout   time.Duration // per-query deadline; 0 disables it
}

// DefaultConfig returns the settings the dashboard runs with unless the
// config file overrides them.
func DefaultConfig() *Config {
	return &Config{
		Driver:          DriverMySQL,
		MaxConns:        1,
		MaxIdleConns:    1,
		MaxConnLifetime: 0,
		MaxConnIdleTime: 0,
		ConnectTimeout:  10 * time.Second,
		QueryTimeout:    0,
	}
}
