package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackms/artflow-go/internal/infrastructure/store"
	"github.com/blackms/artflow-go/pkg/artflow"
)

var (
	trainConfig    string
	trainRule      string
	trainVigilance float64
	trainSave      bool
	trainJSON      bool
)

// trainSummary is the train command's result payload.
type trainSummary struct {
	Patterns            int     `json:"patterns"`
	Categories          int     `json:"categories"`
	Supervised          bool    `json:"supervised"`
	MatchTrackingEvents int64   `json:"matchTrackingEvents,omitempty"`
	SnapshotID          string  `json:"snapshotId,omitempty"`
	DurationMs          float64 `json:"durationMs"`
}

// TrainCmd trains an ART or ARTMAP module from a pattern file.
var TrainCmd = &cobra.Command{
	Use:   "train <patterns.json>",
	Short: "Train a resonance module from a pattern file",
	Long: `Train an adaptive resonance module from a JSON pattern file.

When the file contains "outputs", training is supervised (ARTMAP) and label
conflicts are resolved by match tracking; otherwise categories form
unsupervised.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pf, err := loadPatterns(args[0])
		if err != nil {
			return err
		}
		inputDim := len(pf.Patterns[0])

		cfg, err := loadFileConfig(trainConfig, inputDim)
		if err != nil {
			return err
		}
		if trainRule != "" {
			cfg.Module.Rule = artflow.RuleKind(trainRule)
		}
		if cmd.Flags().Changed("vigilance") {
			cfg.Module.Engine.Vigilance = trainVigilance
		}

		supervised := len(pf.Outputs) > 0
		if supervised {
			if len(pf.Outputs) != len(pf.Patterns) {
				return fmt.Errorf("%d patterns but %d outputs", len(pf.Patterns), len(pf.Outputs))
			}
			mapCfg := artflow.DefaultMapConfig(inputDim, len(pf.Outputs[0]))
			mapCfg.Input = cfg.Module.Engine
			cfg.Module.Map = &mapCfg
		}

		module, err := artflow.NewModule(cfg.Module)
		if err != nil {
			return err
		}
		defer module.Close()

		start := time.Now()
		summary := trainSummary{Patterns: len(pf.Patterns), Supervised: supervised}

		if supervised {
			for i := range pf.Patterns {
				if _, err := module.LearnSupervised(pf.Patterns[i], pf.Outputs[i]); err != nil {
					return fmt.Errorf("pattern %d: %w", i, err)
				}
			}
			summary.MatchTrackingEvents = module.Supervised().Stats().MatchTrackingEvents
		} else {
			if _, err := module.ProcessBatch(pf.Patterns); err != nil {
				return err
			}
		}
		summary.Categories = module.Engine().CategoryCount()
		summary.DurationMs = float64(time.Since(start).Microseconds()) / 1000.0

		if trainSave {
			st, err := store.New(cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()
			summary.SnapshotID, err = st.Save(module.Snapshot())
			if err != nil {
				return err
			}
		}

		return printResult(summary, trainJSON, func() {
			fmt.Printf("Trained %d patterns into %d categories in %.2fms\n",
				summary.Patterns, summary.Categories, summary.DurationMs)
			if supervised {
				fmt.Printf("Match-tracking events: %d\n", summary.MatchTrackingEvents)
			}
			if summary.SnapshotID != "" {
				fmt.Printf("Snapshot saved: %s\n", summary.SnapshotID)
			}
		})
	},
}

func init() {
	TrainCmd.Flags().StringVarP(&trainConfig, "config", "c", "", "YAML config file")
	TrainCmd.Flags().StringVar(&trainRule, "rule", "", "learning rule (fuzzy-art, hebbian, bcm, instar-outstar, gradient-hybrid)")
	TrainCmd.Flags().Float64Var(&trainVigilance, "vigilance", 0.75, "vigilance threshold in [0,1]")
	TrainCmd.Flags().BoolVar(&trainSave, "save", false, "save a snapshot after training")
	TrainCmd.Flags().BoolVar(&trainJSON, "json", false, "JSON output")
}
