package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bioc/wppi/pkg/logging"
)

// app carries state shared by every subcommand
type app struct {
	logLevel    string
	logger      *logging.JSONLogger
	levelPinned bool // set by --log-level or $LOG_LEVEL
}

// applyConfigLevel uses the configured level unless one was given explicitly.
func (a *app) applyConfigLevel(level string) {
	if a.levelPinned || level == "" {
		return
	}
	a.logger.SetLevel(logging.ParseLevel(level))
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "wppi",
		Short: "Weighted PPI gene prioritization",
		Long: `wppi ranks candidate genes by their proximity to known disease genes in a
protein interaction network weighted by shared neighbours and shared Gene
Ontology and Human Phenotype Ontology annotations.

Examples:
  wppi score --edges omnipath.tsv --go go.tsv --hpo hpo.tsv --seeds TP53,MDM2
  wppi score --edges omnipath.tsv --seeds-file seeds.txt --order 2 --format table
  wppi rank --edges omnipath.tsv --probabilities out/P.wmtx --seeds TP53 --top 5
  wppi inspect out/P.wmtx`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := a.logLevel
			if level == "" {
				level = os.Getenv("LOG_LEVEL")
			}
			a.levelPinned = level != ""
			a.logger = logging.NewJSONLogger(cmd.ErrOrStderr(), logging.ParseLevel(level))
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default $LOG_LEVEL or info)")

	root.AddCommand(
		newScoreCmd(a),
		newRankCmd(a),
		newInspectCmd(),
	)
	return root
}
