package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagarc03/dirindex"
	"github.com/sagarc03/dirindex/cli"
	"github.com/sagarc03/dirindex/config"
)

var lsCmd = &cobra.Command{
	Use:   "ls <path>",
	Short: "List a directory the way the server would",
	Long: `List a directory below a configured mount without starting the server.

PATH is a URL path such as /assets/images; percent-encoded segments are
decoded the same way the server decodes them. The mount's allow-lists
apply, so ls refuses exactly the directories the server would not list.

Examples:
  dirindex ls /assets/images
  dirindex ls /assets/images --sort size_rev
  dirindex ls / --json
  dirindex ls /assets/images --html > index.html`,
	Args: cobra.ExactArgs(1),
	RunE: runLs,
}

var mountsCmd = &cobra.Command{
	Use:   "mounts",
	Short: "Show configured mounts",
	Args:  cobra.NoArgs,
	RunE:  runMounts,
}

func init() {
	lsCmd.Flags().String("sort", string(dirindex.SortName), "sort order: name, name_rev, mtime, mtime_rev, size, size_rev")
	lsCmd.Flags().Bool("html", false, "print the rendered HTML listing")
	lsCmd.Flags().String("display-host", "", "host shown in the HTML footer")

	for _, c := range []*cobra.Command{lsCmd, mountsCmd} {
		c.Flags().Bool("json", false, "output in JSON format")
		c.Flags().BoolP("quiet", "q", false, "print names only")
		rootCmd.AddCommand(c)
	}
}

func getFormatter(cmd *cobra.Command) cli.Formatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")
	return cli.NewFormatter(jsonOutput, quiet)
}

func runLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	sortFlag, _ := cmd.Flags().GetString("sort")
	sort := dirindex.SortKey(sortFlag)
	if !sort.IsValid() {
		return fmt.Errorf("invalid sort order %q", sortFlag)
	}

	mounts, err := openMounts(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = mounts.Close() }()

	m, sub, ok := mounts.Lookup(dirindex.SplitPath(args[0]))
	if !ok {
		return fmt.Errorf("%s is not below any mount", args[0])
	}

	if !m.mount.Policy().Allows(sub) {
		return fmt.Errorf("%s is not listable under mount %s", args[0], m.mount.Path())
	}

	segments, err := dirindex.Sanitize(sub)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if asHTML, _ := cmd.Flags().GetBool("html"); asHTML {
		host, _ := cmd.Flags().GetString("display-host")
		body, err := m.lister.Listing(ctx, dirindex.NewListRequest(m.mount, segments, host, sort))
		if err != nil {
			return listError(args[0], err)
		}
		_, err = cmd.OutOrStdout().Write(body)
		return err
	}

	entries, err := m.lister.Entries(ctx, segments, sort)
	if err != nil {
		return listError(args[0], err)
	}

	req := dirindex.NewListRequest(m.mount, segments, "", sort)
	return getFormatter(cmd).FormatListing(cmd.OutOrStdout(), cli.NewListing(req.Path, entries))
}

func runMounts(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	mounts, err := openMounts(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = mounts.Close() }()

	infos := make([]cli.MountInfo, len(mounts.mounts))
	for i, m := range mounts.mounts {
		infos[i] = cli.NewMountInfo(m.mount)
	}

	return getFormatter(cmd).FormatMounts(cmd.OutOrStdout(), infos)
}

func listError(path string, err error) error {
	if errors.Is(err, dirindex.ErrNotFound) {
		return fmt.Errorf("%s is not a directory", path)
	}
	return err
}
