// Package cli formats dirindex results for terminal output.
//
// Two formatters are provided: HumanFormatter prints aligned columns,
// JSONFormatter prints indented JSON for scripting.
//
//	formatter := cli.NewFormatter(jsonOutput, quiet)
//	err := formatter.FormatListing(os.Stdout, cli.NewListing("/assets/images/", entries))
package cli
