package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alpertunga-bile/third-wheel/pkg/errors"
	"github.com/alpertunga-bile/third-wheel/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, DefaultHTTPTimeout, s.HTTPTimeout)
	assert.Equal(t, DefaultUserAgent, s.UserAgent)
	assert.NotEmpty(t, s.Python)
	require.NoError(t, s.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, DefaultHTTPTimeout, s.HTTPTimeout)
	assert.Equal(t, platform.Detect(), s.Platform())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `log_level: debug
http_timeout: 45s
user_agent: my-agent/2.0
os: windows
python: /opt/python3.12/bin/python3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 45*time.Second, s.HTTPTimeout)
	assert.Equal(t, "my-agent/2.0", s.UserAgent)
	assert.Equal(t, platform.OSWindows, s.Platform().OS)
	assert.Equal(t, "/opt/python3.12/bin/python3", s.Python)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("THIRD_WHEEL_LOG_LEVEL", "warn")
	t.Setenv("THIRD_WHEEL_OS", "linux")
	t.Setenv("GITHUB_TOKEN", "ghp_example")

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", s.LogLevel)
	assert.Equal(t, platform.OSLinux, s.OS)
	assert.Equal(t, "ghp_example", s.GitHubToken)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, errors.ErrInvalidConfigPath)

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("os: plan9\n"), 0o600))
	_, err = Load(path)
	assert.ErrorIs(t, err, errors.ErrConfigValidation)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		errMsg  string
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Settings) {}},
		{
			name:    "negative timeout",
			mutate:  func(s *Settings) { s.HTTPTimeout = -time.Second },
			wantErr: true,
			errMsg:  "http_timeout",
		},
		{
			name:    "unknown log level",
			mutate:  func(s *Settings) { s.LogLevel = "trace" },
			wantErr: true,
			errMsg:  "log_level",
		},
		{
			name:    "unsupported os",
			mutate:  func(s *Settings) { s.OS = "darwin" },
			wantErr: true,
			errMsg:  "unsupported platform",
		},
		{
			name:    "empty python",
			mutate:  func(s *Settings) { s.Python = " " },
			wantErr: true,
			errMsg:  "python",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			err := s.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
