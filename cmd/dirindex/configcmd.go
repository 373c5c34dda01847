package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sagarc03/dirindex"
	"github.com/sagarc03/dirindex/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create configuration files",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration after defaults, config files, environment
variables and flags have been merged.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file interactively",
	Long: `Create a configuration file with a single mount.

You will be prompted for:
  - Server port
  - Mount path and root directory
  - Which directories may be listed`,
	Args: cobra.NoArgs,
	// An existing config file may be broken; init must not depend on it.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runConfigInit,
}

const (
	policyEverything = "Every directory below the mount"
	policyAllowList  = "Only allow-listed directories"
)

func init() {
	configInitCmd.Flags().StringP("output", "o", "config.yaml", "file to write")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	output, _ := cmd.Flags().GetString("output")

	if _, err := os.Stat(output); err == nil {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("%s already exists. Overwrite it", output),
			IsConfirm: true,
		}
		if _, promptErr := prompt.Run(); promptErr != nil {
			fmt.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	}

	portPrompt := promptui.Prompt{
		Label:   "Port",
		Default: "5709",
		Validate: func(input string) error {
			port, err := strconv.Atoi(input)
			if err != nil || port < 1 || port > 65535 {
				return errors.New("port must be a number between 1 and 65535")
			}
			return nil
		},
	}
	portVal, err := portPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}
	port, _ := strconv.Atoi(portVal)

	pathPrompt := promptui.Prompt{
		Label:   "Mount path",
		Default: "/",
		Validate: func(input string) error {
			if !strings.HasPrefix(input, "/") {
				return errors.New("mount path must start with /")
			}
			return nil
		},
	}
	mountPath, err := pathPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	rootPrompt := promptui.Prompt{
		Label:   "Root directory",
		Default: "./public",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("root directory is required")
			}
			return nil
		},
	}
	root, err := rootPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	policySelect := promptui.Select{
		Label: "Which directories may be listed",
		Items: []string{policyAllowList, policyEverything},
	}
	_, policy, err := policySelect.Run()
	if err != nil {
		return handlePromptError(err)
	}

	mount := config.MountConfig{Path: mountPath, Root: root}
	if policy == policyEverything {
		mount.AllowAll = true
	} else {
		exactPrompt := promptui.Prompt{Label: "Directory names (comma separated)"}
		exact, err := exactPrompt.Run()
		if err != nil {
			return handlePromptError(err)
		}

		prefixPrompt := promptui.Prompt{Label: "Directory name prefixes (comma separated)"}
		prefix, err := prefixPrompt.Run()
		if err != nil {
			return handlePromptError(err)
		}

		mount.AllowExact = splitList(exact)
		mount.AllowPrefix = splitList(prefix)
	}

	resolved, err := mount.Resolve("")
	if err != nil {
		return err
	}
	if _, err := dirindex.NewMount(resolved); err != nil {
		return err
	}

	cfg := config.Config{
		Env:    "dev",
		Server: config.ServerConfig{Port: port},
		Mounts: []config.MountConfig{mount},
		Log:    config.LogConfig{Level: "info"},
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Configuration written to %s.\n", output)
	if len(mount.AllowExact) == 0 && len(mount.AllowPrefix) == 0 && !mount.AllowAll {
		fmt.Println("No directories are listable yet; add names to allow_exact or allow_prefix.")
	}
	return nil
}

// splitList splits a comma separated answer, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// handlePromptError handles promptui errors.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		fmt.Println("\nCancelled.")
		os.Exit(0)
	}
	if errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
