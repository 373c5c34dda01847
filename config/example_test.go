package config_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/sagarc03/dirindex/config"
)

func exampleConfigFile() string {
	dir, err := os.MkdirTemp("", "dirindex-example-*")
	if err != nil {
		log.Fatal(err)
	}

	path := filepath.Join(dir, "config.yaml")
	content := `
mounts:
  - path: /assets
    root: /srv/assets
    allow_exact: [images]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		log.Fatal(err)
	}
	return path
}

func ExampleLoad() {
	path := exampleConfigFile()
	defer func() { _ = os.RemoveAll(filepath.Dir(path)) }()

	cfg, err := config.Load([]string{path}, nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Port: %d, Mounts: %d, Path: %s\n", cfg.Server.Port, len(cfg.Mounts), cfg.Mounts[0].Path)
	// Output: Port: 5709, Mounts: 1, Path: /assets
}

func ExampleWithContext() {
	path := exampleConfigFile()
	defer func() { _ = os.RemoveAll(filepath.Dir(path)) }()

	cfg, _ := config.Load([]string{path}, nil)

	// Store config in context
	ctx := config.WithContext(context.Background(), cfg)

	// Retrieve later (e.g., in a subcommand)
	retrieved, err := config.FromContext(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Retrieved port: %d\n", retrieved.Server.Port)
	// Output: Retrieved port: 5709
}

func ExampleMountConfig_Resolve() {
	m := config.MountConfig{Path: "/assets", Root: "/srv/www", AllowExact: []string{"images"}}

	resolved, err := m.Resolve("")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(resolved.Path, resolved.Root, resolved.AllowExact)
	// Output: /assets /srv/www [images]
}
