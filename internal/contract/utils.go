package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/logscore/schema"
)

// Color variables for console output.
var (
	StrongColor = color.New(color.FgGreen, color.Bold) // StrongColor represents a well calibrated model.
	FairColor   = color.New(color.FgCyan)              // FairColor represents a usable model.
	WeakColor   = color.New(color.FgYellow)            // WeakColor represents a model that needs attention.
	PoorColor   = color.New(color.FgRed, color.Bold)   // PoorColor represents a model that rarely hits the truth.
)

// GetColorLabel returns a colored skill label for console output (table).
// It uses schema.GetSkillLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(prob float64) string {
	label := schema.GetSkillLabel(prob)
	text := string(label)

	switch label {
	case schema.StrongSkill:
		return StrongColor.Sprint(text)
	case schema.FairSkill:
		return FairColor.Sprint(text)
	case schema.WeakSkill:
		return WeakColor.Sprint(text)
	default: // "Poor"
		return PoorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means stdout. Missing parent directories are created.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for forecast caching.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".logscore_cache.db"
	}
	return filepath.Join(homeDir, ".logscore_cache.db")
}

// GetRunsDBFilePath returns the path to the SQLite DB file for run history.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".logscore_runs.db"
	}
	return filepath.Join(homeDir, ".logscore_runs.db")
}

// TruncateText truncates text to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
