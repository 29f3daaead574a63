package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminara/journey-api/config"
	"github.com/luminara/journey-api/internal/adapters/memstore"
	"github.com/luminara/journey-api/internal/ports"
)

func TestPrintUsageListsCommandsSorted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printUsage(&buf))

	out := buf.String()
	assert.Contains(t, out, "Usage: luminara-admin")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("create-user")), bytes.Index(buf.Bytes(), []byte("show-state")))
}

func TestParseCreateUserFlags(t *testing.T) {
	t.Setenv("LUMINARA_ADMIN_PASSWORD", "from-env")

	opts, err := parseCreateUserFlags([]string{"--name", " Jane ", "--email", "jane@example.com"})
	require.NoError(t, err)
	assert.Equal(t, createUserOptions{Name: "Jane", Email: "jane@example.com", Password: "from-env"}, opts)

	_, err = parseCreateUserFlags([]string{"--email", "jane@example.com"})
	require.Error(t, err)
}

func TestParsePurgeFlags(t *testing.T) {
	opts, err := parsePurgeFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, opts.MaxAge)

	_, err = parsePurgeFlags([]string{"--max-age", "0s"})
	require.Error(t, err)
}

func TestParseMigrateFlags_RejectsNonPositiveTimeout(t *testing.T) {
	_, err := parseMigrateFlags([]string{"--timeout", "-1s"})
	require.Error(t, err)
}

func TestParseShowFlags_RequiresScope(t *testing.T) {
	_, err := parseShowFlags(nil)
	require.Error(t, err)
}

func TestRunShowState_RejectsMemoryBackend(t *testing.T) {
	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: slog.New(slog.DiscardHandler),
		Config: config.AppConfig{Store: config.StoreConfig{Backend: config.StoreBackendMemory}},
		Out:    &bytes.Buffer{},
	}
	err := runShowState(cmdCtx, []string{"--scope", "abc"})
	require.Error(t, err)
}

func TestPrintState(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	require.NoError(t, store.Save(ctx, "abc", ports.KeyJourneyState, []byte(`{"currentStep":2}`)))

	var out bytes.Buffer
	cmdCtx := &commandContext{Ctx: ctx, Logger: slog.New(slog.DiscardHandler), Out: &out}
	require.NoError(t, printState(ctx, cmdCtx, store, "abc"))

	assert.Contains(t, out.String(), "user-session: <none>")
	assert.Contains(t, out.String(), "journey-state:\n{\n  \"currentStep\": 2\n}")
}

func TestIndentJSON_InvalidPassesThrough(t *testing.T) {
	assert.Equal(t, "not json", indentJSON([]byte("not json")))
}
