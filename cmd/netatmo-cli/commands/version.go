package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/54b3r/netatmo-cli/internal/metrics"
	"github.com/54b3r/netatmo-cli/internal/store"
	"github.com/54b3r/netatmo-cli/internal/version"
)

// Output formats accepted by `netatmo-cli version --output`.
const (
	outputText       = "text"
	outputShort      = "short"
	outputJSON       = "json"
	outputPrometheus = "prometheus"
)

// NewVersionCmd constructs the `netatmo-cli version` subcommand.
// It prints the binary version, git commit, and build date resolved at build
// time. Builds without an injected version report "0.0.0+unknown".
func NewVersionCmd() *cobra.Command {
	var output string
	var history bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the netatmo-cli version, git commit, and build date",
		Long: `Print the netatmo-cli version, git commit, and build date.

Output formats:
  text        netatmo-cli 1.2.3 (commit: abc1234, built: 2025-01-01T00:00:00Z)
  short       1.2.3
  json        all build metadata as a JSON object
  prometheus  netatmo_cli_build_info in the Prometheus text format

Examples:
  netatmo-cli version
  netatmo-cli version --output json
  netatmo-cli version --output prometheus > /var/lib/node_exporter/textfile/netatmo_cli.prom
  netatmo-cli version --history`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if history {
				return printHistory(cmd)
			}
			return printVersion(cmd.OutOrStdout(), output, version.Get())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, short, json, prometheus")
	cmd.Flags().BoolVar(&history, "history", false, "List the versions recorded in the local run ledger")

	return cmd
}

// printVersion writes info to w in the requested format.
func printVersion(w io.Writer, format string, info version.Info) error {
	switch format {
	case outputText:
		_, err := fmt.Fprintln(w, info.String())
		return err
	case outputShort:
		_, err := fmt.Fprintln(w, info.Version)
		return err
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case outputPrometheus:
		return metrics.WriteText(w, metrics.NewRegistry(info))
	default:
		return fmt.Errorf("unknown output format %q (want %s, %s, %s or %s)",
			format, outputText, outputShort, outputJSON, outputPrometheus)
	}
}

// printHistory renders the run ledger as a table.
func printHistory(cmd *cobra.Command) error {
	ledger, err := openLedger()
	if err != nil {
		return err
	}
	defer ledger.Close()

	seen, err := ledger.Versions(cmd.Context())
	if err != nil {
		return err
	}
	renderHistory(cmd.OutOrStdout(), seen, version.Version)
	return nil
}

// renderHistory writes seen as a table, marking the running version.
func renderHistory(w io.Writer, seen []store.VersionSeen, current string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"", "Version", "First seen", "Last seen", "Runs"})
	for _, v := range seen {
		marker := ""
		if v.Version == current {
			marker = "*"
		}
		t.AppendRow(table.Row{
			marker,
			v.Version,
			v.FirstSeen.Local().Format("2006-01-02 15:04:05"),
			v.LastSeen.Local().Format("2006-01-02 15:04:05"),
			v.Runs,
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
