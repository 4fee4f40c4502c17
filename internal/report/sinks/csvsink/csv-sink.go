// Package csvsink writes report tables to local CSV files, one file per
// table, as a plain-filesystem fallback next to the remote sinks.
package csvsink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"sklad-report/internal/report/data"
	"sklad-report/pkg/logging"
)

type Sink struct {
	dir    string
	logger *logging.ZapLogger
}

func New(dir string, logger *logging.ZapLogger) *Sink {
	return &Sink{
		dir:    dir,
		logger: logger,
	}
}

func (s *Sink) Publish(ctx context.Context, report *data.BatchReport) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, table := range report.Tables() {
		path := filepath.Join(s.dir, fileName(table.Name))
		if err := writeTable(path, table); err != nil {
			return fmt.Errorf("failed to write table %q: %w", table.Name, err)
		}
		s.logger.DebugCtx(ctx, "table written",
			zap.String("path", path), zap.Int("rows", len(table.Rows)))
	}
	return nil
}

func writeTable(path string, table data.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}
	return nil
}

func fileName(tableName string) string {
	return strings.ReplaceAll(strings.ToLower(tableName), " ", "-") + ".csv"
}
