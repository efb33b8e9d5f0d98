package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/spf13/viper"
)

type Config struct {
	GithubToken string  `mapstructure:"github_token"`
	GithubOwner string  `mapstructure:"github_owner"`
	GithubRepo  string  `mapstructure:"github_repo"`
	ProjectName string  `mapstructure:"project_name"`
	Weight      float64 `mapstructure:"weight"`
	StatsFile   string  `mapstructure:"stats_file"`

	PRNumber int    `mapstructure:"pr_number"`
	PRNodeID string `mapstructure:"pr_node_id"`
	PRTitle  string `mapstructure:"pr_title"`
	PRURL    string `mapstructure:"pr_url"`
	PRAuthor string `mapstructure:"pr_author"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ProjectName: "Efforts",
		Weight:      1.0,
		StatsFile:   "pr-stats.json",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// GitHub token is optional - only validate if provided
	if c.GithubToken != "" {
		if err := ValidateGitHubToken(c.GithubToken); err != nil {
			return fmt.Errorf("invalid github_token: %w", err)
		}
	}
	if err := ValidateGitHubOwnerRepo(c.GithubOwner, c.GithubRepo); err != nil {
		return fmt.Errorf("invalid github configuration: %w", err)
	}
	if c.ProjectName == "" {
		return fmt.Errorf("project_name cannot be empty")
	}
	if c.Weight < 0 {
		return fmt.Errorf("weight cannot be negative: %f", c.Weight)
	}
	if c.StatsFile == "" {
		return fmt.Errorf("stats_file cannot be empty")
	}
	if strings.Contains(c.StatsFile, "..") {
		return fmt.Errorf("stats_file contains invalid path traversal")
	}
	return nil
}

// ValidateForGitHubOperations validates that GitHub token is present for operations that require it
func (c *Config) ValidateForGitHubOperations() error {
	if c.GithubToken == "" {
		return fmt.Errorf("github_token is required for GitHub operations")
	}
	return c.Validate()
}

// ValidateForPullRequest validates that the pull-request event context is complete
func (c *Config) ValidateForPullRequest() error {
	if c.PRNumber <= 0 {
		return fmt.Errorf("pr_number must be a positive pull request number, got %d", c.PRNumber)
	}
	if c.PRTitle == "" {
		return fmt.Errorf("pr_title cannot be empty")
	}
	if c.PRAuthor == "" {
		return fmt.Errorf("pr_author cannot be empty")
	}
	return c.ValidateForGitHubOperations()
}

// ValidateGitHubToken validates GitHub token format (exported for reuse)
func ValidateGitHubToken(token string) error {
	token = strings.TrimSpace(token)
	if len(token) < 40 {
		return fmt.Errorf("token too short: expected at least 40 characters")
	}
	// Validate token format patterns
	classicPAT := regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	fineGrainedPAT := regexp.MustCompile(`^github_pat_[a-zA-Z0-9_]{82}$`)
	appToken := regexp.MustCompile(`^ghs_[a-zA-Z0-9]{36}$`)
	oauthToken := regexp.MustCompile(`^gho_[a-zA-Z0-9]{36}$`)
	if !classicPAT.MatchString(token) &&
		!fineGrainedPAT.MatchString(token) &&
		!appToken.MatchString(token) &&
		!oauthToken.MatchString(token) {
		return fmt.Errorf("invalid token format")
	}
	return nil
}

// ValidateGitHubOwnerRepo validates GitHub owner and repository names (exported for reuse)
func ValidateGitHubOwnerRepo(owner, repo string) error {
	if owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if repo == "" {
		return fmt.Errorf("repository cannot be empty")
	}
	validName := regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)
	if !validName.MatchString(owner) {
		return fmt.Errorf("invalid owner format: %s", owner)
	}
	if len(owner) > 39 {
		return fmt.Errorf("owner too long: maximum 39 characters")
	}
	if !validName.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %s", repo)
	}
	if len(repo) > 100 {
		return fmt.Errorf("repository too long: maximum 100 characters")
	}
	return nil
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".effortsync")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	// Configure environment variables
	viper.SetEnvPrefix("EFFORTSYNC")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Explicitly bind environment variables
	// BindEnv allows multiple env vars - it will check them in order
	bindings := map[string][]string{
		"github_token": {"GITHUB_TOKEN", "EFFORTSYNC_GITHUB_TOKEN"},
		"project_name": {"PROJECT_NAME", "EFFORTSYNC_PROJECT_NAME"},
		"weight":       {"PR_WEIGHT", "EFFORTSYNC_WEIGHT"},
		"stats_file":   {"STATS_FILE", "EFFORTSYNC_STATS_FILE"},
		"pr_number":    {"PR_NUMBER", "EFFORTSYNC_PR_NUMBER"},
		"pr_node_id":   {"PR_NODE_ID", "EFFORTSYNC_PR_NODE_ID"},
		"pr_title":     {"PR_TITLE", "EFFORTSYNC_PR_TITLE"},
		"pr_url":       {"PR_URL", "EFFORTSYNC_PR_URL"},
		"pr_author":    {"PR_AUTHOR", "EFFORTSYNC_PR_AUTHOR"},
	}
	for key, envs := range bindings {
		if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s env: %w", key, err)
		}
	}
	// Set defaults
	defaults := DefaultConfig()
	viper.SetDefault("project_name", defaults.ProjectName)
	viper.SetDefault("weight", defaults.Weight)
	viper.SetDefault("stats_file", defaults.StatsFile)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := populateRepositoryDefaults(&config); err != nil {
		return nil, err
	}
	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

// populateRepositoryDefaults fills owner/repo from the Actions environment,
// falling back to the origin remote of the local checkout when the workflow
// context variables are absent.
func populateRepositoryDefaults(cfg *Config) error {
	if cfg.GithubOwner == "" {
		cfg.GithubOwner = os.Getenv("GITHUB_REPOSITORY_OWNER")
	}
	if cfg.GithubRepo == "" {
		cfg.GithubRepo = os.Getenv("GITHUB_REPOSITORY_NAME")
	}
	if cfg.GithubOwner != "" && cfg.GithubRepo != "" {
		return nil
	}
	if slug := os.Getenv("GITHUB_REPOSITORY"); slug != "" {
		if idx := strings.Index(slug, "/"); idx > 0 && idx < len(slug)-1 {
			if cfg.GithubOwner == "" {
				cfg.GithubOwner = slug[:idx]
			}
			if cfg.GithubRepo == "" {
				cfg.GithubRepo = slug[idx+1:]
			}
			return nil
		}
	}
	owner, repo, err := ownerRepoFromGitRemote(".")
	if err != nil {
		return fmt.Errorf("unable to determine repository: %w", err)
	}
	if cfg.GithubOwner == "" {
		cfg.GithubOwner = owner
	}
	if cfg.GithubRepo == "" {
		cfg.GithubRepo = repo
	}
	return nil
}

// ownerRepoFromGitRemote reads the origin remote of the checkout at dir.
func ownerRepoFromGitRemote(dir string) (string, string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", "", fmt.Errorf("failed to open git repository: %w", err)
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve origin remote: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", "", fmt.Errorf("origin remote has no URL")
	}
	return parseGitRemoteURL(urls[0])
}

// parseGitRemoteURL extracts owner and repository from a clone URL.
// Handles https, ssh scp-like syntax, and plain paths.
func parseGitRemoteURL(url string) (string, string, error) {
	trimmed := strings.TrimSuffix(url, ".git")
	if idx := strings.LastIndex(trimmed, ":"); idx >= 0 && !strings.Contains(trimmed[idx:], "/") {
		return "", "", fmt.Errorf("unparseable remote URL: %s", url)
	}
	if idx := strings.Index(trimmed, ":"); idx >= 0 && !strings.HasPrefix(trimmed, "http") {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	parts := strings.Split(filepath.ToSlash(trimmed), "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("unparseable remote URL: %s", url)
	}
	owner := parts[len(parts)-2]
	repo := parts[len(parts)-1]
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("unparseable remote URL: %s", url)
	}
	return owner, repo, nil
}
