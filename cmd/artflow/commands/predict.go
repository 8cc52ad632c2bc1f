package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackms/artflow-go/internal/infrastructure/store"
	"github.com/blackms/artflow-go/pkg/artflow"
)

var (
	predictConfig   string
	predictSnapshot string
	predictJSON     bool
)

// predictOutcome is the predict command's result payload for one pattern.
type predictOutcome struct {
	Pattern        int     `json:"pattern"`
	InputCategory  int     `json:"inputCategory"`
	OutputCategory int     `json:"outputCategory"`
	Confidence     float64 `json:"confidence"`
	Unmapped       bool    `json:"unmapped"`
}

// PredictCmd predicts categories for patterns using a stored snapshot.
var PredictCmd = &cobra.Command{
	Use:   "predict <patterns.json>",
	Short: "Predict categories for patterns from a stored snapshot",
	Long: `Predict categories for a JSON pattern file against a previously saved
snapshot. Prediction is a pure arg-max search: no vigilance gate, no category
creation. A pattern whose winning category has no label mapping reports
"unmapped" rather than failing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if predictSnapshot == "" {
			return fmt.Errorf("--snapshot is required")
		}
		pf, err := loadPatterns(args[0])
		if err != nil {
			return err
		}
		inputDim := len(pf.Patterns[0])

		cfg, err := loadFileConfig(predictConfig, inputDim)
		if err != nil {
			return err
		}

		st, err := store.New(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		snap, err := st.Load(predictSnapshot)
		if err != nil {
			return err
		}

		mapCfg := artflow.DefaultMapConfig(inputDim, 1)
		mapCfg.Input = cfg.Module.Engine
		cfg.Module.Map = &mapCfg
		module, err := artflow.NewModule(cfg.Module)
		if err != nil {
			return err
		}
		defer module.Close()

		if err := module.Engine().Restore(snap); err != nil {
			return err
		}
		supervised := module.Supervised()
		if snap.MapField != nil {
			supervised.RestoreMapField(snap.MapField)
		}

		outcomes := make([]predictOutcome, 0, len(pf.Patterns))
		for i, p := range pf.Patterns {
			res, err := supervised.Predict(p)
			if err != nil {
				return fmt.Errorf("pattern %d: %w", i, err)
			}
			outcomes = append(outcomes, predictOutcome{
				Pattern:        i,
				InputCategory:  res.InputCategory,
				OutputCategory: res.OutputCategory,
				Confidence:     res.Confidence,
				Unmapped:       res.Unmapped,
			})
		}

		return printResult(outcomes, predictJSON, func() {
			for _, o := range outcomes {
				if o.Unmapped {
					fmt.Printf("pattern %d: category %d (unmapped, confidence %.4f)\n",
						o.Pattern, o.InputCategory, o.Confidence)
					continue
				}
				fmt.Printf("pattern %d: category %d -> label %d (confidence %.4f)\n",
					o.Pattern, o.InputCategory, o.OutputCategory, o.Confidence)
			}
		})
	},
}

func init() {
	PredictCmd.Flags().StringVarP(&predictConfig, "config", "c", "", "YAML config file")
	PredictCmd.Flags().StringVarP(&predictSnapshot, "snapshot", "s", "", "snapshot id to load")
	PredictCmd.Flags().BoolVar(&predictJSON, "json", false, "JSON output")
}
