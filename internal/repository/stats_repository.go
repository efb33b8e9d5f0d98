package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"

	"github.com/compozy/effortsync/internal/domain"
)

const (
	// StatsSchemaVersion defines the current schema version for the stats artifact
	StatsSchemaVersion = "1.0.0"
	// StatsFilePermissions defines the permissions for the stats artifact
	StatsFilePermissions = 0644
	// LockTimeout defines the maximum time to wait for a lock
	LockTimeout = 30 * time.Second
	// LockRetryInterval defines the interval between lock retry attempts
	LockRetryInterval = 100 * time.Millisecond
)

// StatsRepository persists the ChangeStats artifact between the two
// workflow steps.
type StatsRepository interface {
	Save(ctx context.Context, stats *domain.ChangeStats) error
	Load(ctx context.Context) (*domain.ChangeStats, error)
	Exists(ctx context.Context) (bool, error)
}

// StatsMetadata contains metadata about the stats artifact
type StatsMetadata struct {
	SchemaVersion string    `json:"schema_version"`
	Checksum      string    `json:"checksum"`
	CreatedAt     time.Time `json:"created_at"`
}

// StatsWrapper wraps the stats record with metadata
type StatsWrapper struct {
	Metadata StatsMetadata       `json:"metadata"`
	Stats    *domain.ChangeStats `json:"stats"`
}

// JSONStatsRepository implements StatsRepository using JSON file storage
type JSONStatsRepository struct {
	fs   afero.Fs
	path string
}

// NewJSONStatsRepository creates a new JSON-based stats repository
func NewJSONStatsRepository(fs afero.Fs, path string) StatsRepository {
	if path == "" {
		path = "pr-stats.json"
	}
	return &JSONStatsRepository{fs: fs, path: path}
}

// Save persists the stats record to a JSON file with proper locking
func (r *JSONStatsRepository) Save(ctx context.Context, stats *domain.ChangeStats) error {
	lock := flock.New(r.path + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, LockRetryInterval)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire lock within timeout")
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			// Log error but don't fail the operation
			fmt.Fprintf(os.Stderr, "warning: failed to unlock file: %v\n", unlockErr)
		}
	}()
	// Calculate checksum before saving
	statsData, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats for checksum: %w", err)
	}
	wrapper := StatsWrapper{
		Metadata: StatsMetadata{
			SchemaVersion: StatsSchemaVersion,
			Checksum:      calculateChecksum(statsData),
			CreatedAt:     time.Now(),
		},
		Stats: stats,
	}
	data, err := json.MarshalIndent(wrapper, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats wrapper: %w", err)
	}
	// Write atomically using temp file
	tempFile := r.path + ".tmp"
	if err := afero.WriteFile(r.fs, tempFile, data, StatsFilePermissions); err != nil {
		return fmt.Errorf("failed to write temp stats file: %w", err)
	}
	if err := r.fs.Rename(tempFile, r.path); err != nil {
		if removeErr := r.fs.Remove(tempFile); removeErr != nil {
			// Log but don't fail - temp file cleanup is best effort
			fmt.Fprintf(os.Stderr, "warning: failed to remove temp file: %v\n", removeErr)
		}
		return fmt.Errorf("failed to rename stats file: %w", err)
	}
	return nil
}

// Load retrieves the stats record with schema and checksum validation
func (r *JSONStatsRepository) Load(_ context.Context) (*domain.ChangeStats, error) {
	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("stats artifact not found at %s", r.path)
		}
		return nil, fmt.Errorf("failed to read stats file: %w", err)
	}
	var wrapper StatsWrapper
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats wrapper: %w", err)
	}
	// Validate schema version
	if wrapper.Metadata.SchemaVersion != StatsSchemaVersion {
		return nil, fmt.Errorf("incompatible schema version: expected %s, got %s",
			StatsSchemaVersion, wrapper.Metadata.SchemaVersion)
	}
	// Validate checksum
	statsData, err := json.Marshal(wrapper.Stats)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stats for checksum validation: %w", err)
	}
	if wrapper.Metadata.Checksum != calculateChecksum(statsData) {
		return nil, fmt.Errorf("stats checksum mismatch: data may be corrupted")
	}
	return wrapper.Stats, nil
}

// Exists checks if the stats artifact is present
func (r *JSONStatsRepository) Exists(_ context.Context) (bool, error) {
	_, err := r.fs.Stat(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check stats file: %w", err)
	}
	return true, nil
}

func calculateChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
