package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tordrt/pgtots"
	"github.com/tordrt/pgtots/internal/config"
	"github.com/tordrt/pgtots/internal/logging"
)

var (
	connString            string
	outputFile            string
	tables                []string
	excludedTables        []string
	schemaName            string
	camelCase             bool
	singularize           bool
	datesAsStrings        bool
	prefixWithSchemaNames bool
	jsonTypesFile         string
	noHeader              bool
	configFile            string
	verbose               bool
	logFormat             string
)

var rootCmd = &cobra.Command{
	Use:           "pg-to-ts",
	Short:         "Generate TypeScript types from a database schema",
	Long:          `pg-to-ts reads the schema of a PostgreSQL, MySQL, or SQLite database and writes TypeScript interfaces and table descriptors for every table, view, and enum.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a TypeScript module from a database",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

func init() {
	flags := generateCmd.Flags()
	flags.StringVarP(&connString, "conn", "c", "", "Database connection URL (default: $DATABASE_URL)")
	flags.StringVarP(&outputFile, "output", "o", "schema.ts", "Output file")
	flags.StringSliceVarP(&tables, "table", "t", nil, "Table to generate (repeatable, default: all)")
	flags.StringSliceVarP(&excludedTables, "excludedTable", "x", nil, "Table to leave out (repeatable)")
	flags.StringVarP(&schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL, the database for MySQL)")
	flags.BoolVarP(&camelCase, "camelCase", "C", false, "Use camelCase for column names")
	flags.BoolVarP(&singularize, "singularize", "S", false, "Singularize type names")
	flags.BoolVar(&datesAsStrings, "datesAsStrings", false, "Type date and timestamp columns as string")
	flags.BoolVar(&prefixWithSchemaNames, "prefixWithSchemaNames", false, "Prefix table names with the schema name")
	flags.StringVar(&jsonTypesFile, "jsonTypesFile", "", "Module to import @type {Name} JSON column types from")
	flags.BoolVar(&noHeader, "noHeader", false, "Omit the AUTO-GENERATED header")
	flags.StringVar(&configFile, "config", config.DefaultFile, "Config file (JSON or YAML)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}

	if connString == "" {
		connString = os.Getenv("DATABASE_URL")
	}
	if connString == "" {
		return fmt.Errorf("no database connection: use --conn or set DATABASE_URL")
	}

	var buf bytes.Buffer
	err = pgtots.ExtractAndFormat(cmd.Context(), connString, generateOptions(logger), &pgtots.OutputOptions{
		Writer:      &buf,
		WriteHeader: !noHeader,
		Command:     commandLine(os.Args[1:]),
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputFile, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	logger.Info("wrote typescript", "path", outputFile, "bytes", buf.Len())
	return nil
}

// loadConfig fills flags left unset from the environment and the config file.
func loadConfig(cmd *cobra.Command) error {
	flags := cmd.Flags()
	path, explicit := configFile, flags.Changed("config")
	if !explicit {
		if env, ok := os.LookupEnv(config.EnvName("config")); ok {
			path, explicit = env, true
		}
	}

	values, err := config.Load(path, explicit)
	if err != nil {
		return err
	}
	return config.Apply(flags, values, os.LookupEnv)
}

func newLogger() (*slog.Logger, error) {
	format, err := logging.ParseFormat(logFormat)
	if err != nil {
		return nil, err
	}
	level := logging.LevelInfo
	if verbose {
		level = logging.LevelDebug
	}
	return logging.New(os.Stderr, level, format), nil
}

func generateOptions(logger *slog.Logger) *pgtots.Options {
	return &pgtots.Options{
		Tables:                tables,
		ExcludeTables:         excludedTables,
		SchemaName:            schemaName,
		CamelCase:             camelCase,
		Singularize:           singularize,
		PrefixWithSchemaNames: prefixWithSchemaNames,
		DatesAsStrings:        datesAsStrings,
		JSONTypesFile:         jsonTypesFile,
		Logger:                logger,
	}
}

// commandLine renders the invocation for the output header with passwords
// in connection URLs masked.
func commandLine(args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, "pg-to-ts")
	for _, arg := range args {
		if name, value, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(name, "-") {
			parts = append(parts, name+"="+redactURL(value))
			continue
		}
		parts = append(parts, redactURL(arg))
	}
	return strings.Join(parts, " ")
}

func redactURL(s string) string {
	if !strings.Contains(s, "://") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil || u.User == nil {
		return s
	}
	return u.Redacted()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
