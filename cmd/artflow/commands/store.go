package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/blackms/artflow-go/internal/infrastructure/store"
)

var (
	storeConfig string
	storeModule string
	storeJSON   bool
)

// StoreCmd is the parent command for snapshot-store operations.
var StoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage stored category-set snapshots",
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadFileConfig(storeConfig, 1)
		if err != nil {
			return err
		}
		st, err := store.New(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.List(storeModule)
		if err != nil {
			return err
		}

		return printResult(records, storeJSON, func() {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMODULE\tCREATED\tDIM\tVIGILANCE\tCATEGORIES")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%d\n",
					r.ID, r.ModuleID, r.CreatedAt.Format("2006-01-02 15:04:05"),
					r.Dimension, r.Vigilance, r.Categories)
			}
			w.Flush()
		})
	},
}

var storePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old snapshots beyond the retention limit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadFileConfig(storeConfig, 1)
		if err != nil {
			return err
		}
		st, err := store.New(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		deleted, err := st.Prune()
		if err != nil {
			return err
		}
		fmt.Printf("Pruned %d snapshots\n", deleted)
		return nil
	},
}

func init() {
	StoreCmd.PersistentFlags().StringVarP(&storeConfig, "config", "c", "", "YAML config file")
	StoreCmd.PersistentFlags().BoolVar(&storeJSON, "json", false, "JSON output")
	storeListCmd.Flags().StringVar(&storeModule, "module", "", "filter by module id")
	StoreCmd.AddCommand(storeListCmd)
	StoreCmd.AddCommand(storePruneCmd)
}
