package database_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/weekprep/backend/config"
	"github.com/pageza/weekprep/backend/internal/database"
	"github.com/pageza/weekprep/backend/internal/model"
	"github.com/pageza/weekprep/backend/internal/testhelpers"
)

func TestAutoMigrateSQLite(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)

	for _, m := range database.Models {
		assert.True(t, db.Migrator().HasTable(m))
	}

	user := model.User{Name: "Test User", Email: "test@example.com", PasswordHash: "hashedpassword"}
	require.NoError(t, db.Create(&user).Error)
	assert.NotEqual(t, uuid.Nil, user.ID)

	assert.NoError(t, database.HealthCheck(context.Background(), db))
}

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", SQLitePath: "file::memory:"}
	db, err := database.Open(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := database.Open(&config.Config{DBDriver: "mysql"}, zap.NewNop())
	assert.Error(t, err)
}

func TestAutoMigratePostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	for _, m := range database.Models {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestRedisOptions(t *testing.T) {
	cfg := &config.Config{RedisHost: "cache", RedisPort: "6380", RedisPassword: "pw", RedisDB: 2}
	opts, err := database.RedisOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)

	cfg.RedisURL = "redis://:secret@redis.internal:6379/4"
	opts, err = database.RedisOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, "redis.internal:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 4, opts.DB)

	cfg.RedisURL = "http://not-redis"
	_, err = database.RedisOptions(cfg)
	assert.Error(t, err)
}
