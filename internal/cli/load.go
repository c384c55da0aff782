package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/finshield/internal/config"
	"github.com/vvka-141/finshield/internal/dataset"
	"github.com/vvka-141/finshield/internal/generator"
	"github.com/vvka-141/finshield/internal/logging"
	"github.com/vvka-141/finshield/internal/schema"
	"github.com/vvka-141/finshield/internal/services"
	"github.com/vvka-141/finshield/internal/warehouse"
	"github.com/vvka-141/finshield/pkg/finshield"
)

var loadCmd = &cobra.Command{
	Use:   "load [csv_path]",
	Short: "Load a CSV file (or synthetic rows) into a warehouse table",
	Long: `Load reads a CSV file, infers a type for every column and loads the rows
into the destination table, creating it first when it does not exist.

The CSV path defaults to ` + finshield.DefaultCSVPath + `. With --generate N the
file is ignored and N synthetic transactions are loaded instead.

Connection settings come from flags, then environment variables (a .env file
in the working directory is loaded first), then finshield.yaml:

  Snowflake:  SNOWFLAKE_ACCOUNT, SNOWFLAKE_USER, SNOWFLAKE_PASSWORD,
              SNOWFLAKE_WAREHOUSE, SNOWFLAKE_DATABASE, SNOWFLAKE_SCHEMA,
              SNOWFLAKE_ROLE
  PostgreSQL: FINSHIELD_PG_CONNECTION or DATABASE_URL

When the Snowflake password is missing and stdin is a terminal it is prompted for.

Examples:
  finshield load
  finshield load data/transactions.csv --table ANALYTICS.PUBLIC.TRANSACTIONS
  finshield load --generate 50000 --verify
  finshield load --backend postgres --connection postgresql://localhost/finshield
  finshield load --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLoad,
}

type loadFlagValues struct {
	table           string
	backend         string
	configPath      string
	connection      string
	chunkSize       int
	directThreshold int
	timeout         string
	verify          bool
	dryRun          bool
	generate        int
}

var loadFlags loadFlagValues

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVarP(&loadFlags.table, "table", "t", "",
		"Destination table, optionally DB.SCHEMA.TABLE (default "+finshield.DefaultTableName+")")
	loadCmd.Flags().StringVar(&loadFlags.backend, "backend", "",
		"Warehouse backend: snowflake or postgres (default snowflake)")
	loadCmd.Flags().StringVar(&loadFlags.configPath, "config", "",
		"Path to a project config file (default ./"+config.ConfigFileName+" if present)")
	loadCmd.Flags().StringVar(&loadFlags.connection, "connection", "",
		"PostgreSQL connection string (postgres backend)")
	loadCmd.Flags().IntVar(&loadFlags.chunkSize, "chunk-size", 0,
		fmt.Sprintf("Rows per chunk above the direct-load threshold (default %d)", finshield.DefaultChunkSize))
	loadCmd.Flags().IntVar(&loadFlags.directThreshold, "direct-threshold", 0,
		fmt.Sprintf("Datasets up to this many rows are sent as one chunk (default %d)", finshield.DefaultDirectLoadThreshold))
	loadCmd.Flags().StringVar(&loadFlags.timeout, "timeout", "",
		"Maximum duration of the whole run, e.g. 10m (default "+finshield.DefaultLoadTimeout.String()+")")
	loadCmd.Flags().BoolVar(&loadFlags.verify, "verify", false,
		"Re-read the table row count after loading")
	loadCmd.Flags().BoolVar(&loadFlags.dryRun, "dry-run", false,
		"Print the CREATE TABLE statement and chunk plan without connecting")
	loadCmd.Flags().IntVar(&loadFlags.generate, "generate", 0,
		"Load N synthetic transactions instead of reading a CSV file")
}

func runLoad(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewWriterLogger(cmd.ErrOrStderr(), verbose)

	if err := config.LoadEnvFile(".env"); err != nil {
		logger.Warn("Ignoring .env: %v", err)
	}

	cfg, err := buildLoadConfig(cmd, verbose)
	if err != nil {
		return err
	}

	if needsPassword(cfg) {
		password, err := passwordPrompter(cfg.Warehouse.User)
		if err != nil {
			return err
		}
		cfg.Warehouse.Password = password
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ds, source, err := loadDataset(args)
	if err != nil {
		return err
	}
	logger.Info("Loading %d rows from %s into %s (%s)", ds.Len(), source, cfg.Table, cfg.Warehouse.Backend)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(cmd.ErrOrStderr(), "\n[INTERRUPT] Cancelling load, waiting for the current chunk to finish...")
			cancel()
		case <-ctx.Done():
		}
	}()

	svc := services.NewLoadService(
		warehouse.NewConnectorFactory(logger),
		schema.NewProvisioner(logger),
		logger,
	)

	outcome, err := svc.Run(ctx, *cfg, ds)
	if loadAttempted(err) {
		fmt.Fprintln(cmd.OutOrStdout(), outcome)
	}
	return err
}

// loadAttempted reports whether rows were sent, so the outcome line is
// meaningful. Config, connection and provisioning failures stop before that.
func loadAttempted(err error) bool {
	var loadErr *finshield.LoadError
	return err == nil || errors.As(err, &loadErr)
}

// buildLoadConfig merges flags, environment and the project file. Numeric
// and boolean flags count as set only when given on the command line.
func buildLoadConfig(cmd *cobra.Command, verbose bool) (*finshield.LoadConfig, error) {
	project, err := loadProject(loadFlags.configPath)
	if err != nil {
		return nil, err
	}

	overrides := config.Overrides{
		Backend:    loadFlags.backend,
		Connection: loadFlags.connection,
		Table:      loadFlags.table,
		DryRun:     loadFlags.dryRun,
		Verbose:    verbose,
	}
	if cmd.Flags().Changed("chunk-size") {
		overrides.ChunkSize = &loadFlags.chunkSize
	}
	if cmd.Flags().Changed("direct-threshold") {
		overrides.DirectThreshold = &loadFlags.directThreshold
	}
	if cmd.Flags().Changed("verify") {
		overrides.Verify = &loadFlags.verify
	}
	if loadFlags.timeout != "" {
		d, err := parseTimeoutFlag(loadFlags.timeout)
		if err != nil {
			return nil, err
		}
		overrides.Timeout = d
	}

	return config.Resolve(project, os.LookupEnv, overrides)
}

// loadProject reads an explicit config file, or ./finshield.yaml when present.
func loadProject(path string) (*config.ProjectConfig, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	project, err := config.Load(".")
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, nil
	}
	return project, err
}

func needsPassword(cfg *finshield.LoadConfig) bool {
	return !cfg.DryRun &&
		cfg.Warehouse.Backend == finshield.BackendSnowflake &&
		cfg.Warehouse.Password == "" &&
		cfg.Warehouse.Account != "" &&
		cfg.Warehouse.User != ""
}

// loadDataset returns the rows to load and a description of their source.
func loadDataset(args []string) (*finshield.Dataset, string, error) {
	if loadFlags.generate != 0 {
		opts := generator.DefaultOptions()
		opts.Rows = loadFlags.generate
		ds, err := generator.Generate(opts)
		if err != nil {
			return nil, "", err
		}
		return ds, "generator", nil
	}

	path := finshield.DefaultCSVPath
	if len(args) > 0 {
		path = args[0]
	}
	ds, err := dataset.ReadCSVFile(path)
	if err != nil {
		return nil, "", err
	}
	return ds, path, nil
}

func parseTimeoutFlag(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid --timeout %q, expected a positive duration like 10m: %w", value, finshield.ErrInvalidConfig)
	}
	return d, nil
}
