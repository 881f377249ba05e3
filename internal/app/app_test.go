package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banglish/backend/internal/config"
	"github.com/banglish/backend/internal/llm"
	"github.com/banglish/backend/internal/models"
	"github.com/banglish/backend/internal/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Storage: config.StorageConfig{Backend: "file", DataDir: t.TempDir()},
		LLM: config.LLMConfig{
			Provider: "gemini",
			Timeout:  time.Second,
			Breaker:  config.BreakerConfig{MaxFailures: 2, Cooldown: time.Second},
		},
		Admin: config.AdminConfig{Email: "admin@example.com", Username: "admin", Password: "adminpass"},
	}
}

func TestOpenStores_File(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	stores, err := OpenStores(ctx, cfg, testutil.NewTestLogger())
	require.NoError(t, err)
	defer stores.Close(ctx)

	c, err := stores.Contributions.Submit(ctx, &models.SubmitContributionRequest{Banglish: "ami", Bengali: "আমি"})
	require.NoError(t, err)
	assert.DirExists(t, cfg.Storage.DataDir+"/contributions")

	got, err := stores.Contributions.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "আমি", got.Bengali)
}

func TestSeedAdmin_Idempotent(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	logger := testutil.NewTestLogger()

	stores, err := OpenStores(ctx, cfg, logger)
	require.NoError(t, err)

	require.NoError(t, SeedAdmin(ctx, cfg, stores.Accounts, logger))
	require.NoError(t, SeedAdmin(ctx, cfg, stores.Accounts, logger))

	u, err := stores.Accounts.Authenticate(ctx, &models.LoginRequest{Email: "admin@example.com", Password: "adminpass"})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
}

func TestSeedAdmin_Disabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Admin = config.AdminConfig{}
	ctx := context.Background()

	stores, err := OpenStores(ctx, cfg, testutil.NewTestLogger())
	require.NoError(t, err)

	require.NoError(t, SeedAdmin(ctx, cfg, stores.Accounts, testutil.NewTestLogger()))
	_, err = stores.Accounts.Authenticate(ctx, &models.LoginRequest{Email: "admin@example.com", Password: "adminpass"})
	assert.Error(t, err)
}

func TestNewGenerator(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	cfg.LLM.APIKey = ""
	assert.Nil(t, NewGenerator(ctx, cfg, testutil.NewTestLogger()))

	cfg.LLM.Provider = "ollama"
	cfg.LLM.BaseURL = "http://127.0.0.1:1"
	gen := NewGenerator(ctx, cfg, testutil.NewTestLogger())
	require.NotNil(t, gen)
	_, ok := gen.(*llm.BreakerGenerator)
	assert.True(t, ok)
}
