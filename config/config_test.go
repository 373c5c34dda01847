package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/dirindex"
	"github.com/sagarc03/dirindex/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return configPath
}

const minimalConfig = `
mounts:
  - path: /assets
    root: ./public
    allow_exact: [images]
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load([]string{writeConfig(t, minimalConfig)}, nil)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.False(t, cfg.IsProd())
	assert.Equal(t, 5709, cfg.Server.Port)
	assert.Equal(t, "", cfg.Server.Host)
	assert.False(t, cfg.Server.Minify)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.CORS.Enabled)

	require.Len(t, cfg.Mounts, 1)
	assert.False(t, cfg.Mounts[0].AllowAll)
}

func TestLoad_NoMountsConfigured(t *testing.T) {
	// Nothing is listed unless a config file asks for it
	_, err := config.Load(nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mounts")
}

func TestLoad_UnreadableConfigFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "typo.yaml")

	cfg, err := config.Load([]string{missing}, nil)

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "typo.yaml")
}

func TestLoad_UnreadableMergedConfigFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "override.yaml")

	_, err := config.Load([]string{writeConfig(t, minimalConfig), missing}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "override.yaml")
}

func TestLoad_ConfigFile(t *testing.T) {
	configPath := writeConfig(t, `
env: prod
server:
  port: 8080
  host: 127.0.0.1
  minify: true
mounts:
  - path: /assets
    root: /srv/assets
    allow_exact: [images]
    allow_prefix: [docs-]
  - path: /downloads
    app: shop
    subdir: priv/static
log:
  level: debug
`)

	cfg, err := config.Load([]string{configPath}, nil)
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.True(t, cfg.Server.Minify)
	assert.Equal(t, "debug", cfg.Log.Level)

	require.Len(t, cfg.Mounts, 2)
	assert.Equal(t, config.MountConfig{
		Path:        "/assets",
		Root:        "/srv/assets",
		AllowExact:  []string{"images"},
		AllowPrefix: []string{"docs-"},
	}, cfg.Mounts[0])
	assert.Equal(t, "shop", cfg.Mounts[1].App)
	assert.Equal(t, "priv/static", cfg.Mounts[1].Subdir)
}

func TestLoad_ConfigFileMerge(t *testing.T) {
	basePath := writeConfig(t, `
server:
  port: 5709
mounts:
  - path: /
    root: ./public
    allow_all: true
log:
  level: info
`)
	overridePath := writeConfig(t, `
server:
  port: 9000
log:
  level: warn
`)

	cfg, err := config.Load([]string{basePath, overridePath}, nil)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	require.Len(t, cfg.Mounts, 1)
	assert.Equal(t, "/", cfg.Mounts[0].Path)
}

func TestLoad_MountDefaults(t *testing.T) {
	configPath := writeConfig(t, `
mount_defaults:
  allow_prefix: [public-]
mounts:
  - path: /a
    root: ./a
  - path: /b
    root: ./b
    allow_exact: [only]
  - path: /c
    app: shop
    allow_all: true
`)

	cfg, err := config.Load([]string{configPath}, nil)
	require.NoError(t, err)

	require.Len(t, cfg.Mounts, 3)
	assert.Equal(t, []string{"public-"}, cfg.Mounts[0].AllowPrefix)

	// A mount with its own policy keeps it whole
	assert.Equal(t, []string{"only"}, cfg.Mounts[1].AllowExact)
	assert.Empty(t, cfg.Mounts[1].AllowPrefix)
	assert.True(t, cfg.Mounts[2].AllowAll)
	assert.Empty(t, cfg.Mounts[2].AllowPrefix)
}

func TestLoad_MountDefaultsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "root in defaults",
			content: `
mount_defaults:
  root: ./shared
mounts:
  - path: /a
    app: shop
`,
		},
		{
			name: "allow_all with allow-lists",
			content: `
mount_defaults:
  allow_all: true
  allow_exact: [images]
mounts:
  - path: /a
    root: ./a
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load([]string{writeConfig(t, tt.content)}, nil)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "mount_defaults")
		})
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "invalid port",
			content: `
server:
  port: 70000
mounts:
  - path: /
    root: ./public
`,
		},
		{
			name: "invalid log level",
			content: `
log:
  level: verbose
mounts:
  - path: /
    root: ./public
`,
		},
		{
			name: "invalid env",
			content: `
env: staging
mounts:
  - path: /
    root: ./public
`,
		},
		{
			name: "mount path without slash",
			content: `
mounts:
  - path: assets
    root: ./public
`,
		},
		{
			name: "mount without root or app",
			content: `
mounts:
  - path: /assets
`,
		},
		{
			name: "mount with root and app",
			content: `
mounts:
  - path: /assets
    root: ./public
    app: shop
`,
		},
		{
			name: "duplicate mount paths",
			content: `
mounts:
  - path: /assets
    root: ./a
  - path: /assets
    root: ./b
`,
		},
		{
			name: "empty mounts",
			content: `
mounts: []
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := writeConfig(t, tt.content)

			_, err := config.Load([]string{configPath}, nil)

			assert.Error(t, err)
			assert.Contains(t, err.Error(), "validate config")
		})
	}
}

func TestLoad_WithCORS(t *testing.T) {
	configPath := writeConfig(t, `
cors:
  enabled: true
  allowed_origins:
    - https://example.com
  allowed_methods:
    - GET
    - HEAD
  allowed_headers:
    - Content-Type
  max_age: 600
mounts:
  - path: /
    root: ./public
`)

	cfg, err := config.Load([]string{configPath}, nil)
	require.NoError(t, err)

	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"https://example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"GET", "HEAD"}, cfg.CORS.AllowedMethods)
	assert.Equal(t, []string{"Content-Type"}, cfg.CORS.AllowedHeaders)
	assert.Equal(t, 600, cfg.CORS.MaxAge)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("DIRINDEX_SERVER_PORT", "9090")
	t.Setenv("DIRINDEX_ENV", "prod")
	t.Setenv("DIRINDEX_LOG_LEVEL", "error")

	cfg, err := config.Load([]string{writeConfig(t, minimalConfig)}, nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoad_Flags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 5709, "")
	flags.String("host", "", "")
	flags.Bool("minify", false, "")
	require.NoError(t, flags.Parse([]string{"--port", "7000", "--minify"}))

	cfg, err := config.Load([]string{writeConfig(t, minimalConfig)}, flags)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.True(t, cfg.Server.Minify)
	assert.Equal(t, "", cfg.Server.Host)
}

func TestMountConfig_Resolve_Root(t *testing.T) {
	root := t.TempDir()
	m := config.MountConfig{Path: "/assets", Root: root, AllowExact: []string{"images"}}

	resolved, err := m.Resolve("")
	require.NoError(t, err)

	assert.Equal(t, dirindex.MountConfig{
		Path:       "/assets",
		Root:       root,
		AllowExact: []string{"images"},
	}, resolved)
}

func TestMountConfig_Resolve_RelativeRoot(t *testing.T) {
	m := config.MountConfig{Path: "/", Root: "./public", AllowAll: true}

	resolved, err := m.Resolve("")
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "public"), resolved.Root)
	assert.True(t, resolved.AllowAll)
}

func TestMountConfig_Resolve_App(t *testing.T) {
	appsDir := t.TempDir()
	m := config.MountConfig{Path: "/shop", App: "shop", Subdir: "priv/static"}

	resolved, err := m.Resolve(appsDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(appsDir, "shop", "priv", "static"), resolved.Root)
}

func TestMountConfig_Resolve_AppWithoutAppsDir(t *testing.T) {
	m := config.MountConfig{Path: "/shop", App: "shop"}

	resolved, err := m.Resolve("")
	require.NoError(t, err)

	exe, err := os.Executable()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(exe), "shop"), resolved.Root)
}

func TestMountConfig_Resolve_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		mount config.MountConfig
	}{
		{"app traversal", config.MountConfig{Path: "/x", App: ".."}},
		{"app with slash", config.MountConfig{Path: "/x", App: "a/b"}},
		{"subdir escaping", config.MountConfig{Path: "/x", App: "shop", Subdir: "../other"}},
		{"absolute subdir", config.MountConfig{Path: "/x", App: "shop", Subdir: "/etc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.mount.Resolve(t.TempDir())
			assert.ErrorIs(t, err, dirindex.ErrInvalidConfig)
		})
	}
}

func TestConfig_ResolveMounts(t *testing.T) {
	appsDir := t.TempDir()
	cfg := &config.Config{
		Server: config.ServerConfig{AppsDir: appsDir},
		Mounts: []config.MountConfig{
			{Path: "/", Root: appsDir, AllowAll: true},
			{Path: "/web", App: "web"},
		},
	}

	mounts, err := cfg.ResolveMounts()
	require.NoError(t, err)

	require.Len(t, mounts, 2)
	assert.Equal(t, appsDir, mounts[0].Root)
	assert.Equal(t, filepath.Join(appsDir, "web"), mounts[1].Root)
}
