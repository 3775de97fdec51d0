package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/checklist/internal/config"
)

// executeCommand runs the root command with args and captures its output
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	root.SilenceErrors = true
	err := root.Execute()
	return out.String(), err
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := executeCommand(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = executeCommand(t, "config", "init", "--config", path)
	assert.Error(t, err, "init must not clobber an existing file")

	_, err = executeCommand(t, "config", "init", "--config", path, "--force")
	assert.NoError(t, err)

	out, err = executeCommand(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "cookie_name: sessionId")
	assert.Contains(t, out, "max_users: 5")
}

func TestConfigShow_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  driver: mongo\n"), 0644))

	_, err := executeCommand(t, "config", "show", "--config", path)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "mongo"))
}

func TestServe_SeedsAndStops(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.Path = filepath.Join(t.TempDir(), "checklist.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	require.NoError(t, serve(ctx, cfg, logger))

	// a second run over the same file must not seed twice
	ctx2, cancel2 := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel2()
	require.NoError(t, serve(ctx2, cfg, logger))
}
