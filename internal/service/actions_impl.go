package service

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// actionsService appends to the files GitHub Actions designates through the
// GITHUB_OUTPUT and GITHUB_STEP_SUMMARY environment variables. Outside of
// Actions (both variables unset) every call is a no-op, which keeps local
// runs working.
type actionsService struct {
	fs afero.Fs
}

// NewActionsService creates a new ActionsService.
func NewActionsService(fs afero.Fs) ActionsService {
	return &actionsService{fs: fs}
}

func (s *actionsService) SetOutput(key, value string) error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return nil
	}
	line, err := FormatOutputLine(key, value)
	if err != nil {
		return err
	}
	return s.appendToFile(path, line)
}

func (s *actionsService) AddSummary(markdown string) error {
	path := os.Getenv("GITHUB_STEP_SUMMARY")
	if path == "" {
		return nil
	}
	return s.appendToFile(path, markdown+"\n")
}

func (s *actionsService) appendToFile(path, content string) error {
	f, err := s.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return nil
}
