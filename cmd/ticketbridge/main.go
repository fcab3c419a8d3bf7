package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/hellausefulsoftware/ticketbridge/internal/anthropic"
	"github.com/hellausefulsoftware/ticketbridge/internal/config"
	"github.com/hellausefulsoftware/ticketbridge/internal/github"
	"github.com/hellausefulsoftware/ticketbridge/internal/jira"
	"github.com/hellausefulsoftware/ticketbridge/internal/logging"
	"github.com/hellausefulsoftware/ticketbridge/internal/server"
	"github.com/spf13/cobra"
)

func main() {
	// Initialize logger with default configuration
	logging.Initialize(nil)

	var port string
	var logLevel string
	var logJSON bool

	rootCmd := &cobra.Command{
		Use:   "ticketbridge",
		Short: "Bridges Jira tickets, Claude code generation and GitHub pushes behind one HTTP API",
		Long:  `An HTTP service that lists and annotates Jira tickets, generates code from feature descriptions via Claude on AWS Bedrock, and lists and pushes files to GitHub repositories.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(port)
		},
	}

	rootCmd.Flags().StringVar(&port, "port", "", "Listen port (overrides PORT)")

	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Set logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Output logs in JSON format")

	// Configure logging based on flags
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		var level logging.LogLevel
		switch logLevel {
		case "debug":
			level = logging.LogLevelDebug
		case "info":
			level = logging.LogLevelInfo
		case "warn":
			level = logging.LogLevelWarn
		case "error":
			level = logging.LogLevelError
		default:
			level = logging.LogLevelInfo
		}

		logging.Initialize(&logging.Config{
			Level:      level,
			Output:     os.Stdout,
			JSONFormat: logJSON,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		logging.Error("Failed to execute command", "error", err)
		os.Exit(1)
	}
}

// runServer loads configuration, wires the clients and serves HTTP.
func runServer(portOverride string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	jiraClient := jira.NewClient(cfg)
	githubClient := github.NewClient(cfg.GitHub.Token)

	codegen, err := anthropic.NewCodeGenerator(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create code generator: %w", err)
	}

	srv := server.New(jiraClient, codegen, githubClient)

	port := cfg.Server.Port
	if portOverride != "" {
		port = portOverride
	}

	logging.Info("Starting ticketbridge", "port", port)
	logging.Info("Available endpoints",
		"tickets", "GET /api/tickets",
		"ticket", "GET /api/tickets/{ticket_id}",
		"health", "GET /api/health",
		"commit_comment", "POST /add-commit-comment",
		"generate_code", "POST /generate_code",
		"repos", "GET /repos",
		"push_file", "POST /push-file")

	if err := http.ListenAndServe(":"+port, srv.Handler()); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
