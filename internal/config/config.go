// Package config loads the immutable service configuration from the
// environment. Configuration is read once at startup and passed
// explicitly into each client constructor.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Jira struct {
		BaseURL    string
		Email      string
		APIToken   string
		ProjectKey string
	}
	AWS struct {
		AccessKeyID     string
		SecretAccessKey string
		Region          string
	}
	GitHub struct {
		Token string
	}
	Server struct {
		Port string
	}
}

// Load reads configuration from environment variables. If a .env file
// exists in the working directory it is loaded first via godotenv;
// variables already present in the process environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Jira.BaseURL = strings.TrimRight(getEnv("JIRA_URL", ""), "/")
	cfg.Jira.Email = getEnv("JIRA_EMAIL", "")
	cfg.Jira.APIToken = getEnv("JIRA_API_TOKEN", "")
	cfg.Jira.ProjectKey = getEnv("JIRA_PROJECT_KEY", "")

	cfg.AWS.AccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.AWS.SecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")
	cfg.AWS.Region = getEnv("AWS_REGION", "")

	cfg.GitHub.Token = getEnv("GITHUB_TOKEN", "")

	cfg.Server.Port = getEnv("PORT", "5007")

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that the credentials every client needs are present.
func validate(cfg *Config) error {
	if cfg.Jira.BaseURL == "" {
		return fmt.Errorf("jira base URL is required (JIRA_URL)")
	}
	if cfg.Jira.Email == "" || cfg.Jira.APIToken == "" {
		return fmt.Errorf("jira credentials are required (JIRA_EMAIL, JIRA_API_TOKEN)")
	}
	if cfg.Jira.ProjectKey == "" {
		return fmt.Errorf("jira project key is required (JIRA_PROJECT_KEY)")
	}
	if cfg.AWS.Region == "" {
		return fmt.Errorf("aws region is required (AWS_REGION)")
	}
	if cfg.GitHub.Token == "" {
		return fmt.Errorf("github token is required (GITHUB_TOKEN)")
	}
	return nil
}

// getEnv returns the trimmed value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
