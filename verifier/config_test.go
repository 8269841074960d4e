package verifier_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/privacybydesign/commitproof/verifier"
	"github.com/privacybydesign/commitproof/verifier/replay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
min_salt_length: 24
log_level: warn
keys:
  default: COMMITPROOF_VERIFIER_KEY
replay:
  enabled: true
  backend: badger
  dir: state
  ttl: 1h
`

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "verifier.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, testConfig)
	cfg, err := verifier.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 24, cfg.MinSaltLength)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, map[string]string{"default": "COMMITPROOF_VERIFIER_KEY"}, cfg.Keys)
	assert.True(t, cfg.Replay.Enabled)
	assert.Equal(t, verifier.BackendBadger, cfg.Replay.Backend)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "state"), cfg.Replay.Dir)
	assert.Equal(t, time.Hour, cfg.Replay.TTL)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := verifier.ParseConfig([]byte("keys: {default: SOME_VAR}\nreplay: {backend: badger}\n"), "/srv/verifier")
	require.NoError(t, err)

	assert.Equal(t, verifier.MinSaltLength, cfg.MinSaltLength)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Replay.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Replay.TTL)
	assert.Equal(t, filepath.Join("/srv/verifier", "replay"), cfg.Replay.Dir)
}

func TestParseConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"empty":           "",
		"no keys":         "min_salt_length: 16\n",
		"short salt":      "min_salt_length: 8\nkeys: {default: VAR}\n",
		"empty env var":   "keys: {default: \"\"}\n",
		"unknown field":   "keys: {default: VAR}\nsalt: 16\n",
		"unknown backend": "keys: {default: VAR}\nreplay: {enabled: true, backend: redis}\n",
		"negative ttl":    "keys: {default: VAR}\nreplay: {enabled: true, ttl: -1h}\n",
		"bad ttl":         "keys: {default: VAR}\nreplay: {ttl: soon}\n",
		"bad log level":   "keys: {default: VAR}\nlog_level: loud\n",
		"not yaml":        "keys: [",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.ParseConfig([]byte(content), t.TempDir())
			require.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := verifier.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	_, err = verifier.LoadConfig("")
	require.Error(t, err)
}

func TestNewContractFromConfig(t *testing.T) {
	t.Setenv("COMMITPROOF_VERIFIER_KEY", base64.StdEncoding.EncodeToString(testKeyBytes))
	e := newTestEngine(t)

	for _, backend := range []string{verifier.BackendMemory, verifier.BackendBadger} {
		t.Run(backend, func(t *testing.T) {
			cfg, err := verifier.ParseConfig([]byte(
				"keys: {default: COMMITPROOF_VERIFIER_KEY}\n"+
					"log_level: fatal\n"+
					"replay: {enabled: true, backend: "+backend+"}\n",
			), t.TempDir())
			require.NoError(t, err)

			c, err := verifier.NewContractFromConfig(cfg)
			require.NoError(t, err)

			s := balanceSubmission(t, e, "250.50")
			require.True(t, c.Verify(s.proof, s.data, s.salt, "default"))
			require.False(t, c.Verify(s.proof, s.data, s.salt, "default"))
			require.False(t, c.Verify(s.proof, s.data, s.salt, "other"))

			_, _, replayed := c.Stats()
			assert.Equal(t, uint64(1), replayed)
			require.NoError(t, c.Close())
		})
	}
}

func TestNewContractFromConfigMinSaltLength(t *testing.T) {
	t.Setenv("COMMITPROOF_VERIFIER_KEY", base64.StdEncoding.EncodeToString(testKeyBytes))
	e := newTestEngine(t)

	cfg, err := verifier.ParseConfig([]byte("min_salt_length: 33\nkeys: {default: COMMITPROOF_VERIFIER_KEY}\nlog_level: fatal\n"), "")
	require.NoError(t, err)
	c, err := verifier.NewContractFromConfig(cfg)
	require.NoError(t, err)
	defer c.Close()

	// Engine salts are 32 bytes.
	s := balanceSubmission(t, e, "1")
	require.False(t, c.Verify(s.proof, s.data, s.salt, "default"))
}

func TestNewContractFromConfigMissingKey(t *testing.T) {
	cfg, err := verifier.ParseConfig([]byte("keys: {default: COMMITPROOF_VERIFIER_UNSET}\nlog_level: fatal\n"), "")
	require.NoError(t, err)
	c, err := verifier.NewContractFromConfig(cfg)
	require.NoError(t, err)
	defer c.Close()

	e := newTestEngine(t)
	s := balanceSubmission(t, e, "1")
	require.False(t, c.Verify(s.proof, s.data, s.salt, "default"))
}

func TestNewContractFromConfigDefaults(t *testing.T) {
	t.Setenv("COMMITPROOF_VERIFIER_KEY", base64.StdEncoding.EncodeToString(testKeyBytes))
	e := newTestEngine(t)

	// A Config built in code, without ParseConfig.
	cfg := &verifier.Config{
		Keys:   map[string]string{"default": "COMMITPROOF_VERIFIER_KEY"},
		Replay: verifier.ReplayConfig{Enabled: true},
	}
	c, err := verifier.NewContractFromConfig(cfg)
	require.NoError(t, err)
	defer c.Close()

	s := balanceSubmission(t, e, "1")
	require.True(t, c.Verify(s.proof, s.data, s.salt, "default"))
	require.False(t, c.Verify(s.proof, s.data, s.salt, "default"))
	assert.Zero(t, cfg.MinSaltLength)
}

func TestNewContractFromConfigReplayGuardOption(t *testing.T) {
	t.Setenv("COMMITPROOF_VERIFIER_KEY", base64.StdEncoding.EncodeToString(testKeyBytes))
	e := newTestEngine(t)

	dir := t.TempDir()
	cfg, err := verifier.ParseConfig([]byte(
		"keys: {default: COMMITPROOF_VERIFIER_KEY}\n"+
			"log_level: fatal\n"+
			"replay: {enabled: true, backend: badger}\n",
	), dir)
	require.NoError(t, err)

	guard := replay.NewMemoryGuard(0)
	c, err := verifier.NewContractFromConfig(cfg, verifier.WithReplayGuard(guard))
	require.NoError(t, err)

	s := balanceSubmission(t, e, "1")
	require.True(t, c.Verify(s.proof, s.data, s.salt, "default"))
	require.Equal(t, 1, guard.Len())
	require.NoError(t, c.Close())

	// The configured badger database was never opened.
	_, err = os.Stat(cfg.Replay.Dir)
	require.True(t, os.IsNotExist(err))
}
