// Package sheetsink uploads report tables to a Google spreadsheet, one
// worksheet per table, replacing the worksheet contents on every run.
package sheetsink

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"sklad-report/internal/report/data"
	"sklad-report/pkg/logging"
)

type Config struct {
	CredentialsFile string
	SpreadsheetID   string
}

type Sink struct {
	service *sheets.Service
	cfg     Config
	logger  *logging.ZapLogger
}

// New authenticates with a service-account credentials file.
func New(ctx context.Context, cfg Config, logger *logging.ZapLogger) (*Sink, error) {
	service, err := sheets.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Sink{
		service: service,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func (s *Sink) Publish(ctx context.Context, report *data.BatchReport) error {
	for _, table := range report.Tables() {
		if err := s.uploadTable(ctx, table); err != nil {
			return fmt.Errorf("failed to upload table %q: %w", table.Name, err)
		}
		s.logger.DebugCtx(ctx, "table uploaded",
			zap.String("worksheet", table.Name), zap.Int("rows", len(table.Rows)))
	}
	return nil
}

func (s *Sink) uploadTable(ctx context.Context, table data.Table) error {
	sheetID, err := s.ensureWorksheet(ctx, table.Name)
	if err != nil {
		return err
	}

	_, err = s.service.Spreadsheets.Values.
		Clear(s.cfg.SpreadsheetID, worksheetRange(table.Name), &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to clear worksheet: %w", err)
	}

	values := make([][]interface{}, 0, len(table.Rows)+1)
	header := make([]interface{}, len(table.Columns))
	for i, column := range table.Columns {
		header[i] = column
	}
	values = append(values, header)
	for _, row := range table.Rows {
		cells := make([]interface{}, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		values = append(values, cells)
	}

	_, err = s.service.Spreadsheets.Values.
		Update(s.cfg.SpreadsheetID, worksheetRange(table.Name)+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write values: %w", err)
	}

	return s.formatHeader(ctx, sheetID)
}

// ensureWorksheet finds the worksheet by title, adding it when absent.
func (s *Sink) ensureWorksheet(ctx context.Context, title string) (int64, error) {
	spreadsheet, err := s.service.Spreadsheets.
		Get(s.cfg.SpreadsheetID).
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("failed to get spreadsheet: %w", err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == title {
			return sheet.Properties.SheetId, nil
		}
	}

	resp, err := s.service.Spreadsheets.
		BatchUpdate(s.cfg.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{
					AddSheet: &sheets.AddSheetRequest{
						Properties: &sheets.SheetProperties{Title: title},
					},
				},
			},
		}).
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("failed to add worksheet: %w", err)
	}
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

func (s *Sink) formatHeader(ctx context.Context, sheetID int64) error {
	_, err := s.service.Spreadsheets.
		BatchUpdate(s.cfg.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{
					RepeatCell: &sheets.RepeatCellRequest{
						Range: &sheets.GridRange{
							SheetId:       sheetID,
							StartRowIndex: 0,
							EndRowIndex:   1,
						},
						Cell: &sheets.CellData{
							UserEnteredFormat: &sheets.CellFormat{
								TextFormat:          &sheets.TextFormat{Bold: true},
								HorizontalAlignment: "CENTER",
							},
						},
						Fields: "userEnteredFormat(textFormat,horizontalAlignment)",
					},
				},
				{
					UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
						Properties: &sheets.SheetProperties{
							SheetId: sheetID,
							GridProperties: &sheets.GridProperties{
								FrozenRowCount: 1,
							},
						},
						Fields: "gridProperties.frozenRowCount",
					},
				},
			},
		}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to format header: %w", err)
	}
	return nil
}

// worksheetRange quotes the title so multi-word worksheet names form valid
// A1-notation ranges.
func worksheetRange(title string) string {
	return "'" + title + "'"
}
