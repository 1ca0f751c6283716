package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createPaymentLinkTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE payment_links (
		payment_id TEXT PRIMARY KEY,
		recipient_address TEXT NOT NULL,
		token_mint TEXT NOT NULL,
		amount_type TEXT NOT NULL,
		fixed_amount INTEGER,
		min_amount INTEGER,
		max_amount INTEGER,
		reusable BOOLEAN NOT NULL,
		max_usage_count INTEGER,
		usage_count INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		label TEXT,
		message TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE payment_records (
		id TEXT PRIMARY KEY,
		payment_id TEXT NOT NULL,
		token_mint TEXT NOT NULL,
		amount INTEGER NOT NULL,
		tx_signature TEXT NOT NULL,
		status TEXT NOT NULL,
		completed_at DATETIME NOT NULL,
		created_at DATETIME
	);`)
}
