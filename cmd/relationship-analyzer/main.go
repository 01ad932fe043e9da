package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/internal/analyzer"
	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/internal/connector"
	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/internal/generator"
	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/internal/reader"
	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/internal/report"
	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/internal/server"
	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/internal/utils"
)

func main() {
	var (
		logLevel string
		envFile  string
	)

	rootCmd := &cobra.Command{
		Use:   "relationship-analyzer",
		Short: "Infers a relational schema across independent tabular datasets",
		Long: `Relationship Analyzer

Profiles a set of tabular files (csv, tsv, txt, xlsx), detects primary-key
candidates, infers foreign-key relationships by value containment, and
emits spreadsheet, JSON and SQL reports of the join-ready schema.`,
	}
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "e", ".env", "Path to .env file")

	rootCmd.AddCommand(newAnalyzeCmd(&logLevel, &envFile))
	rootCmd.AddCommand(newSampleCmd(&logLevel, &envFile))
	rootCmd.AddCommand(newServeCmd(&logLevel, &envFile))

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newAnalyzeCmd(logLevel, envFile *string) *cobra.Command {
	var (
		outputDir string
		workers   int
		apply     bool
		host      string
		user      string
		password  string
		database  string
		port      string
	)

	cmd := &cobra.Command{
		Use:   "analyze <dir | files...>",
		Short: "Analyze tabular files and report the inferred schema",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logger := utils.SetupLogging(*logLevel)
			utils.LoadEnvironmentVariables(*envFile, logger)

			paths, err := collectInputPaths(args)
			if err != nil {
				logger.Errorf("%v", err)
				os.Exit(1)
			}
			logger.Infof("Found %d compatible files to analyze", len(paths))

			if workers == 0 {
				workers = utils.GetEnvInt("ANALYZER_WORKERS", 0)
			}

			if outputDir == "" {
				if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
					outputDir = args[0]
				} else {
					outputDir = "."
				}
			}

			model, err := analyzer.AnalyzePaths(cmd.Context(), paths, workers, logger)
			if err != nil {
				logger.Errorf("Analysis failed: %v", err)
				os.Exit(1)
			}

			deps := analyzer.NewDependencyAnalysis(model)
			_, circularGroups := deps.CircularTables()
			utils.PrintSchemaReport(model, deps.TableLoadOrder(), circularGroups)

			workbook := filepath.Join(outputDir, report.WorkbookName)
			if err := report.WriteWorkbook(workbook, model); err != nil {
				logger.Errorf("Failed writing %s: %v", workbook, err)
				os.Exit(1)
			}
			logger.Infof("Saved report to %s", workbook)

			jsonPath := filepath.Join(outputDir, "schema_model.json")
			if err := report.WriteJSON(jsonPath, model); err != nil {
				logger.Errorf("Failed writing %s: %v", jsonPath, err)
				os.Exit(1)
			}
			logger.Infof("Saved JSON document to %s", jsonPath)

			sqlPath := filepath.Join(outputDir, "schema.sql")
			if err := report.WriteSQLScript(sqlPath, model); err != nil {
				logger.Errorf("Failed writing %s: %v", sqlPath, err)
				os.Exit(1)
			}
			logger.Infof("Saved SQL script to %s", sqlPath)

			if apply {
				db := connector.NewDatabaseConnector(host, user, password, database, port, logger)
				if err := db.Connect(); err != nil {
					logger.Errorf("Failed to connect to database: %v", err)
					os.Exit(1)
				}
				defer db.Disconnect()

				applied, err := db.ApplySchema(report.DDLStatements(model))
				if err != nil {
					logger.Errorf("Failed to apply schema: %v", err)
					os.Exit(1)
				}
				logger.Infof("Applied %d schema statements", applied)
			}
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for generated reports (default: input directory)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Worker pool size for relationship inference (default: ANALYZER_WORKERS or number of CPUs)")
	cmd.Flags().BoolVarP(&apply, "apply", "a", false, "Execute the generated DDL against a MySQL database")
	cmd.Flags().StringVar(&host, "mysql-host", "", "MySQL host for --apply")
	cmd.Flags().StringVar(&user, "mysql-user", "", "MySQL user for --apply")
	cmd.Flags().StringVar(&password, "mysql-password", "", "MySQL password for --apply")
	cmd.Flags().StringVar(&database, "mysql-database", "", "MySQL database for --apply")
	cmd.Flags().StringVar(&port, "mysql-port", "", "MySQL port for --apply")
	return cmd
}

func newSampleCmd(logLevel, envFile *string) *cobra.Command {
	var (
		customers int
		orders    int
	)

	cmd := &cobra.Command{
		Use:   "sample <dir>",
		Short: "Write a linked demo dataset to try the analyzer on",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logger := utils.SetupLogging(*logLevel)
			utils.LoadEnvironmentVariables(*envFile, logger)

			sg := generator.NewSampleGenerator(logger)
			if err := sg.WriteSampleDataset(args[0], customers, orders); err != nil {
				logger.Errorf("Failed writing sample dataset: %v", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().IntVarP(&customers, "customers", "c", 20, "Number of customer rows")
	cmd.Flags().IntVarP(&orders, "orders", "n", 50, "Number of order rows")
	return cmd
}

func newServeCmd(logLevel, envFile *string) *cobra.Command {
	var (
		addr      string
		uploadDir string
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the upload/analyze HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			logger := utils.SetupLogging(*logLevel)
			utils.LoadEnvironmentVariables(*envFile, logger)

			if err := os.MkdirAll(uploadDir, 0o755); err != nil {
				logger.Errorf("Failed creating upload directory: %v", err)
				os.Exit(1)
			}

			if workers == 0 {
				workers = utils.GetEnvInt("ANALYZER_WORKERS", 0)
			}
			srv := server.New(uploadDir, workers, logger)
			logger.Infof("Listening on %s", addr)
			if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
				logger.Errorf("Server failed: %v", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&uploadDir, "upload-dir", "uploads", "Directory for per-session uploads and results")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Worker pool size for relationship inference (default: ANALYZER_WORKERS or number of CPUs)")
	return cmd
}

// collectInputPaths expands a single directory argument into its supported
// files, or validates an explicit file list. Generated reports in the input
// directory are excluded from re-analysis.
func collectInputPaths(args []string) ([]string, error) {
	if len(args) == 1 {
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			entries, err := os.ReadDir(args[0])
			if err != nil {
				return nil, err
			}
			var paths []string
			sawAny := false
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				sawAny = true
				if entry.Name() == report.WorkbookName {
					continue
				}
				if reader.ValidateExtension(entry.Name()) != nil {
					continue
				}
				paths = append(paths, filepath.Join(args[0], entry.Name()))
			}
			sort.Strings(paths)
			if len(paths) == 0 {
				if !sawAny {
					return nil, fmt.Errorf("directory is empty: %s", args[0])
				}
				return nil, fmt.Errorf("no supported files found in %s, supported formats: %s",
					args[0], strings.Join(reader.SupportedExtensions(), ", "))
			}
			return paths, nil
		}
	}

	var paths []string
	for _, arg := range args {
		if err := reader.ValidateExtension(arg); err != nil {
			return nil, err
		}
		paths = append(paths, arg)
	}
	return paths, nil
}
