package mysql

import (
	"database/sql"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"github.com/koustreak/chococrunch/internal/database"
	"github.com/koustreak/chococrunch/internal/errs"
)

const (
	defaultMaxOpenConns = 1
	defaultPort         = 3306
)

// buildPool configures and returns a *sql.DB with pool settings
func buildPool(cfg *database.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", buildDSN(cfg))
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid DSN", err)
	}

	maxOpen := cfg.MaxConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 || maxIdle > maxOpen {
		maxIdle = maxOpen
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)

	return db, nil
}

// buildDSN constructs the MySQL DSN string.
// format: user:pass@tcp(host:port)/dbname?parseTime=true&charset=utf8mb4
func buildDSN(cfg *database.Config) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}
