package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"power-team-radar/internal/pipeline"
)

func TestSearchFlags_Request(t *testing.T) {
	var f SearchFlags
	fs := pflag.NewFlagSet("search", pflag.ContinueOnError)
	f.register(fs)

	require.NoError(t, fs.Parse([]string{
		"--industries", "nutrition,dietitian",
		"--locations", "Kuala Lumpur",
		"--limit", "3",
		"--language", "zh",
		"--min-budget-rm", "5000",
	}))

	req := f.Request()
	assert.Equal(t, []string{"nutrition", "dietitian"}, req.Industries)
	assert.Equal(t, []string{"Kuala Lumpur"}, req.Locations)
	assert.Equal(t, 3, req.Limit)
	assert.Equal(t, pipeline.DefaultTimeRangeDays, req.TimeRangeDays)
	assert.Equal(t, "zh", req.Language)
	require.NotNil(t, req.MinBudgetRM)
	assert.Equal(t, 5000.0, *req.MinBudgetRM)
}

func TestSearchFlags_Defaults(t *testing.T) {
	var f SearchFlags
	fs := pflag.NewFlagSet("search", pflag.ContinueOnError)
	f.register(fs)
	require.NoError(t, fs.Parse(nil))

	req := f.Request()
	assert.Empty(t, req.Industries)
	assert.Equal(t, pipeline.DefaultLimit, req.Limit)
	assert.Equal(t, pipeline.DefaultLanguage, req.Language)
	assert.Nil(t, req.MinBudgetRM)
}

func TestAppendToEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	require.NoError(t, appendToEnvFile(path, "NOTION_DATABASE_ID", "db-1"))
	require.NoError(t, os.WriteFile(path, []byte("NOTION_TOKEN=secret\nNOTION_DATABASE_ID=db-1\n"), 0o600))
	require.NoError(t, appendToEnvFile(path, "NOTION_DATABASE_ID", "db-2"))

	env, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", env["NOTION_TOKEN"])
	assert.Equal(t, "db-2", env["NOTION_DATABASE_ID"])
}
