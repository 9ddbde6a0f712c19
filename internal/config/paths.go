package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved directories of a run.
// This is the single source of truth for where inputs and reports live.
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	LogsDir    string
}

// ResolvePaths resolves the configured directories against the base
// directory, which defaults to the working directory.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.Paths.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	return &Paths{
		BaseDir:    base,
		DataDir:    joinIfRelative(base, c.Paths.DataDir),
		ReportsDir: joinIfRelative(base, c.Paths.ReportsDir),
		LogsDir:    joinIfRelative(base, c.Paths.LogsDir),
	}, nil
}

// EnsureDirectories creates the report and log directories if they don't exist.
// The data directory is input-only and must already exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// DataFile resolves an input file name against the data directory
func (p *Paths) DataFile(name string) string {
	return joinIfRelative(p.DataDir, name)
}

// ReportFile resolves an output file name against the reports directory
func (p *Paths) ReportFile(name string) string {
	return joinIfRelative(p.ReportsDir, name)
}

// LogFile resolves a log file name against the base directory
func (p *Paths) LogFile(name string) string {
	return joinIfRelative(p.BaseDir, name)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

func joinIfRelative(base, name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(base, name)
}
