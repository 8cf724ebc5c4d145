package initializer

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/saveblue/saveblue/infra/cache"
	infra_eventbus "github.com/saveblue/saveblue/infra/eventbus"
	infra_repository "github.com/saveblue/saveblue/infra/repository"
	"github.com/saveblue/saveblue/infra/repository/memory"
	"github.com/saveblue/saveblue/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.App {
	return &config.App{
		Env:       "test",
		Log:       &config.Log{Format: "json"},
		DB:        &config.DB{Driver: "memory"},
		Whitelist: &config.Whitelist{Driver: "memory", TTL: time.Hour},
		Redis:     &config.Redis{KeyPrefix: "saveblue:"},
		Events:    &config.Events{Driver: "memory"},
		Taxonomy:  &config.Taxonomy{},
	}
}

func TestInitializeDependencies_Memory(t *testing.T) {
	deps, res, err := InitializeDependencies(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, res.Close()) })

	assert.IsType(t, &memory.Store{}, deps.Uow)
	assert.IsType(t, &memory.TokenStore{}, deps.Tokens)
	assert.IsType(t, &infra_eventbus.MemoryEventBus{}, deps.EventBus)
	assert.Nil(t, res.DB)
	assert.Contains(t, deps.Taxonomy.Income(), "Salary & Wage")
}

func TestInitializeDependencies_SQLite(t *testing.T) {
	cfg := testConfig()
	cfg.DB = &config.DB{Driver: "sqlite", Url: filepath.Join(t.TempDir(), "saveblue.db")}
	cfg.Whitelist.Driver = "database"

	deps, res, err := InitializeDependencies(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, res.Close()) })

	require.NotNil(t, res.DB)
	assert.IsType(t, &infra_repository.UoW{}, deps.Uow)
	assert.True(t, res.DB.Migrator().HasTable(&infra_repository.Entry{}))
	assert.NotNil(t, deps.Tokens)
}

func TestInitializeDependencies_RedisWhitelist(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Whitelist.Driver = "redis"
	cfg.Redis.URL = "redis://" + mr.Addr()

	deps, res, err := InitializeDependencies(cfg)
	require.NoError(t, err)
	assert.IsType(t, &cache.RedisWhitelist{}, deps.Tokens)
	assert.NoError(t, res.Close())
}

func TestInitializeDependencies_Errors(t *testing.T) {
	tests := map[string]func(*config.App){
		"unknown db driver":     func(c *config.App) { c.DB = &config.DB{Driver: "mysql", Url: "x"} },
		"unknown whitelist":     func(c *config.App) { c.Whitelist.Driver = "etcd" },
		"unknown event bus":     func(c *config.App) { c.Events.Driver = "nats" },
		"kafka without brokers": func(c *config.App) { c.Events = &config.Events{Driver: "kafka"} },
		"redis unreachable": func(c *config.App) {
			c.Whitelist.Driver = "redis"
			c.Redis.URL = "redis://127.0.0.1:1"
			c.Redis.DialTimeout = 100 * time.Millisecond
		},
		"missing taxonomy file": func(c *config.App) { c.Taxonomy.Path = "/nonexistent/taxonomy.toml" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			mutate(cfg)
			_, res, err := InitializeDependencies(cfg)
			assert.Error(t, err)
			assert.Nil(t, res)
		})
	}
}

func TestInitWhitelist_DatabaseWithoutDBFallsBack(t *testing.T) {
	cfg := testConfig()
	cfg.Whitelist.Driver = "database"
	tokens, closer, err := initWhitelist(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Nil(t, closer)
	assert.IsType(t, &memory.TokenStore{}, tokens)
}

func TestInitEventBus_Kafka(t *testing.T) {
	cfg := testConfig()
	cfg.Events = &config.Events{Driver: "kafka", KafkaBrokers: "127.0.0.1:9092", KafkaTopic: "t"}
	bus, err := initEventBus(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	kb, ok := bus.(*infra_eventbus.KafkaEventBus)
	require.True(t, ok)
	assert.NoError(t, kb.Close())
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&config.Log{Format: "json", Level: int(slog.LevelDebug)}, &buf)
	logger.Info("hello", "accountID", "abc")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "abc", line["accountID"])
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&config.Log{Level: int(slog.LevelWarn)}, &buf)
	logger.Info("hidden")
	assert.Empty(t, buf.String())
	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestMigrateWithoutDatabase(t *testing.T) {
	assert.NoError(t, Migrate(nil))
}
