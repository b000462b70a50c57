package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"boardpharma/adapters/postgres"
	"boardpharma/adapters/tables"
	"boardpharma/internal"
	"boardpharma/internal/config"
	"boardpharma/internal/pipeline"
	"boardpharma/ports"
)

func main() {
	// Optional .env for local runs; missing file is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "boardpharma",
		Short: "Board-interlock origination event statistics",
		Long: `Computes pair-year event counts and shares per disease/therapeutic group
across the Indirect, Direct, and No-Interlock scenarios and emits the
master, legacy, YoY, and history report tables.`,
	}

	rootCmd.AddCommand(newRunCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		inputDir    string
		outputDir   string
		batchSize   int
		entities    string
		source      string
		databaseURL string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full transform and write all report tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if inputDir != "" {
				cfg.InputDir = inputDir
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}
			if cmd.Flags().Changed("batch-size") {
				cfg.BatchSize = batchSize
			}
			if entities != "" {
				cfg.Entities, err = config.ParseEntities(entities)
				if err != nil {
					return err
				}
			}
			if source != "" {
				cfg.Source = source
			}
			if databaseURL != "" {
				cfg.DatabaseURL = databaseURL
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			log := internal.DefaultLogger
			var src ports.TableSource
			switch cfg.Source {
			case config.SourcePostgres:
				pg, err := postgres.Open(cmd.Context(), cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer pg.Close()
				src = pg
			default:
				src = tables.NewDirSource(cfg.InputDir)
			}

			return pipeline.New(cfg, src, log).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "input directory holding the three source tables")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for report tables")
	cmd.Flags().IntVar(&batchSize, "batch-size", config.DefaultBatchSize, "groups per batch")
	cmd.Flags().StringVar(&entities, "entities", "", "comma-separated entity kinds (disease,therapeutic)")
	cmd.Flags().StringVar(&source, "source", "", "table source backend (csv or postgres)")
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "postgres connection string for --source postgres")

	return cmd
}
