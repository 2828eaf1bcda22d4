package postgres

import (
	"context"
	"testing"
	"time"

	"ledger-service/internal/config"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	schema := `-- traders
CREATE TABLE a (id INT);

-- only a comment;
CREATE INDEX idx_a ON a (id);
`
	got := SplitStatements(schema)

	assert.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE INDEX idx_a ON a (id)"}, got)
}

func TestDSN(t *testing.T) {
	cfg := config.PostgresConfig{Host: "db", Port: "5433", Username: "u", Password: "p", DBname: "ledger"}

	assert.Equal(t, "host=db port=5433 user=u password=p dbname=ledger sslmode=disable", DSN(cfg, cfg.DBname))
}

func TestCheckHealth_FlipsStatusWhenPingFails(t *testing.T) {
	dbStatus.Store(true)
	t.Cleanup(func() { dbStatus.Store(false) })

	assert.Error(t, CheckHealth(context.Background(), nil))
	assert.False(t, dbStatus.Load())

	dbStatus.Store(true)
	db, err := sqlx.Open("postgres", "host=127.0.0.1 port=1 user=u password=p dbname=ledger sslmode=disable connect_timeout=1")
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err = CheckHealth(ctx, db)
	assert.ErrorContains(t, err, "failed to ping database")
	assert.False(t, dbStatus.Load())
}
