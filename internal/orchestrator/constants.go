package orchestrator

import (
	"os"
	"strings"
	"time"
)

// Timeout constants for different operations
var (
	// DefaultWorkflowTimeout bounds a full stats or sync run
	DefaultWorkflowTimeout = getTimeoutOrDefault("WORKFLOW_TIMEOUT", 10*time.Minute, 5*time.Second)
)

// isTestEnvironment detects if we're running in a test environment
func isTestEnvironment() bool {
	// Check for testing flags
	for _, arg := range os.Args {
		if strings.Contains(arg, ".test") || strings.Contains(arg, "go test") {
			return true
		}
	}
	// Check for test environment variables
	return os.Getenv("GO_TEST") == "true" || os.Getenv("TEST_MODE") == "true"
}

// getTimeoutOrDefault returns production timeout or test timeout based on environment
func getTimeoutOrDefault(envVar string, prodDefault, testDefault time.Duration) time.Duration {
	if env := os.Getenv(envVar); env != "" {
		if duration, err := time.ParseDuration(env); err == nil {
			return duration
		}
	}
	if isTestEnvironment() {
		return testDefault
	}
	return prodDefault
}
