package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/finshield/internal/dataset"
	"github.com/vvka-141/finshield/internal/generator"
	"github.com/vvka-141/finshield/pkg/finshield"
)

// DefaultGenerateOutput is where generate writes when --out is not given.
const DefaultGenerateOutput = "data/transactions.csv"

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic transactions CSV file",
	Long: `Generate writes synthetic card transactions with a small share of
fraudulent rows. The same seed always produces the same file.

Columns: transaction_id, event_time, customer_id, merchant_id, tx_amount,
tx_type, is_fraud, hour, day.

Examples:
  finshield generate
  finshield generate --rows 5000 --out data/transactions_sample.csv
  finshield generate --seed 7 --start 2025-06-01`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

type generateFlagValues struct {
	rows  int
	out   string
	seed  int64
	start string
}

var generateFlags generateFlagValues

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVarP(&generateFlags.rows, "rows", "n", generator.DefaultRows,
		"Number of rows to generate")
	generateCmd.Flags().StringVarP(&generateFlags.out, "out", "o", DefaultGenerateOutput,
		"Output CSV path (parent directories are created)")
	generateCmd.Flags().Int64Var(&generateFlags.seed, "seed", generator.DefaultSeed,
		"Random seed")
	generateCmd.Flags().StringVar(&generateFlags.start, "start", generator.DefaultStart.Format(time.DateOnly),
		"Timestamp of the first transaction (YYYY-MM-DD)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start, err := time.Parse(time.DateOnly, generateFlags.start)
	if err != nil {
		return fmt.Errorf("invalid --start %q, expected YYYY-MM-DD: %w", generateFlags.start, finshield.ErrInvalidConfig)
	}

	ds, err := generator.Generate(generator.Options{
		Rows:  generateFlags.rows,
		Seed:  generateFlags.seed,
		Start: start,
	})
	if err != nil {
		return err
	}

	if err := dataset.WriteCSVFile(generateFlags.out, ds); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", ds.Len(), generateFlags.out)
	return nil
}
