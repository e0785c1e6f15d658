// Package logging builds the structured logger shared by the engine and the
// host from the log section of the configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cubes/internal/config"
)

// New creates a logger for cfg. Output goes to cfg.File when set, otherwise
// to fallback. The returned close function releases the file, if any.
func New(cfg config.LogConfig, fallback io.Writer) (*log.Logger, func() error, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}

	w := fallback
	closeFn := func() error { return nil }
	if cfg.File != "" {
		path := config.ExpandHome(cfg.File)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: cannot create directory for %s: %w", path, err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //#nosec G304 -- path comes from user config
		if err != nil {
			return nil, nil, fmt.Errorf("logging: cannot open %s: %w", path, err)
		}
		w = f
		closeFn = f.Close
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "cubes",
		Level:           level,
	})
	return logger, closeFn, nil
}
