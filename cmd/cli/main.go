package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rotaplan/shift-scheduler/internal/api"
	"github.com/rotaplan/shift-scheduler/internal/config"
	"github.com/rotaplan/shift-scheduler/pkg/core/services"
	"github.com/rotaplan/shift-scheduler/pkg/db"
	"github.com/rotaplan/shift-scheduler/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg      *config.Config
	database *db.DB
	logger   *zap.Logger
	ctx      context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Shift Scheduler CLI - Generate and validate monthly shift schedules",
		Long:  `A CLI tool for generating monthly work schedules, validating them against business rules, and exporting rotas.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.logger != nil {
					app.logger.Sync()
				}
				if app.database != nil {
					app.database.Close()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(listEmployeesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and the database pool
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	// Best effort; DATABASE_URL may come from the environment directly
	_ = godotenv.Load()

	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	app.cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	if app.cfg.DatabaseURL == "" {
		return fmt.Errorf("no database URL configured (set databaseURL in config or DATABASE_URL)")
	}

	app.database, err = db.Connect(app.ctx, app.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.logger.Info("Database connected")

	return nil
}

// parseMonthYear converts 1-12 month and year args to the core's 0-based month
func parseMonthYear(args []string) (int, int, error) {
	month, err := strconv.Atoi(args[0])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month must be a number between 1 and 12")
	}
	year, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("year must be a number: %w", err)
	}
	return month - 1, year, nil
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <month> <year>",
		Short: "Generate the schedule for a month and replace the stored one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, year, err := parseMonthYear(args)
			if err != nil {
				return err
			}
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			result, err := services.GenerateSchedule(app.ctx, app.database, app.cfg, app.logger, month, year, dryRun)
			if err != nil {
				return err
			}

			fmt.Printf("\nSchedule generated for %s %d\n\n", time.Month(month+1), year)
			fmt.Printf("Run ID:  %s\n", result.RunID)
			fmt.Printf("Entries: %d\n", result.EntryCount)
			fmt.Printf("Valid:   %t\n", result.Report.IsValid)
			if dryRun {
				fmt.Println("Dry run - nothing was persisted")
			}

			if len(result.Report.Violations) > 0 {
				fmt.Printf("\n%d violations remain:\n", len(result.Report.Violations))
				for _, v := range result.Report.Violations {
					fmt.Printf("  [%s] %s: %s\n", v.Severity, v.Type, v.Message)
				}
			}

			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Run without saving to database")

	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <month> <year>",
		Short: "Validate the stored schedule for a month against the enabled rules",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, year, err := parseMonthYear(args)
			if err != nil {
				return err
			}

			report, err := services.ValidateSchedule(app.ctx, app.database, app.logger, month, year)
			if err != nil {
				return err
			}

			fmt.Printf("\nValidation for %s %d\n\n", time.Month(month+1), year)
			fmt.Printf("Valid: %t\n", report.IsValid)
			if len(report.Violations) == 0 {
				fmt.Println("No violations found")
				return nil
			}

			fmt.Printf("\n%d violations:\n", len(report.Violations))
			for _, v := range report.Violations {
				line := fmt.Sprintf("  [%s] %s: %s", v.Severity, v.Type, v.Message)
				if v.Date != "" {
					line += " (" + v.Date + ")"
				}
				fmt.Println(line)
			}

			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <month> <year>",
		Short: "Export the stored schedule for a month as a PDF",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, year, err := parseMonthYear(args)
			if err != nil {
				return err
			}

			path, err := services.ExportSchedule(app.ctx, app.database, app.cfg, app.logger, month, year)
			if err != nil {
				return err
			}

			fmt.Printf("Schedule exported to %s\n", path)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for schedule generation and validation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := api.NewServer(app.database, app.cfg, app.logger)
			return server.ListenAndServe(app.cfg.ServerAddr)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.database.Migrate(app.ctx); err != nil {
				return err
			}
			fmt.Println("Schema is up to date")
			return nil
		},
	}
}

func listEmployeesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listEmployees",
		Short: "List all employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employees, err := app.database.ListEmployees(app.ctx)
			if err != nil {
				return fmt.Errorf("failed to list employees: %w", err)
			}

			fmt.Printf("\nFound %d employees:\n\n", len(employees))
			for _, e := range employees {
				roleInfo := ""
				if e.Role != nil {
					roleInfo = fmt.Sprintf(" [%s]", e.Role.Name)
				}
				if e.IsManager() {
					roleInfo += " (manager)"
				}
				fmt.Printf("- %s (%s)%s\n", e.Name, e.ID, roleInfo)
			}

			return nil
		},
	}
}
