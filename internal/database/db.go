package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/seat-arbiter/internal/config"
)

// Schema creates the audit table on MySQL.  The table is append-only; the
// seat pool is never rebuilt from it.
const Schema = `CREATE TABLE IF NOT EXISTS booking_outcomes (
	id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	seat_number  INT NOT NULL,
	requester_id VARCHAR(191) NOT NULL,
	priority     VARCHAR(16) NOT NULL,
	outcome      VARCHAR(32) NOT NULL,
	holder_id    VARCHAR(191) NULL,
	sequence     BIGINT UNSIGNED NOT NULL DEFAULT 0,
	created_at   DATETIME(6) NOT NULL,
	KEY idx_booking_outcomes_seat (seat_number)
)`

// DSN builds the MySQL data source name for cfg.
func DSN(cfg config.Config) string {
	auth := cfg.DBUser
	if cfg.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", cfg.DBUser, cfg.DBPass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

// Open connects to MySQL, verifies the connection and makes sure the
// audit table exists.
func Open(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create booking_outcomes: %w", err)
	}
	return db, nil
}
