package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var ErrSheetNotFound = errors.New("sheet not found")

// SheetSource reads a rectangular cell range from a spreadsheet. Rows may be ragged;
// trailing empty cells are not returned.
type SheetSource interface {
	FetchSheetData(ctx context.Context, spreadsheetID, rangeExpr string) ([][]string, error)
}

// GoogleSheetsSource reads spreadsheets through the Google Sheets v4 API
type GoogleSheetsSource struct {
	srv *sheets.Service
}

// NewGoogleSheetsSource builds a read-only Sheets client from a service account credentials
// file or inline credentials JSON. credentialsJSON wins when both are set.
func NewGoogleSheetsSource(ctx context.Context, credentialsFile, credentialsJSON string) (*GoogleSheetsSource, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}
	switch {
	case credentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	case credentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	default:
		return nil, fmt.Errorf("google sheets credentials are not configured")
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &GoogleSheetsSource{srv: srv}, nil
}

func (s *GoogleSheetsSource) FetchSheetData(ctx context.Context, spreadsheetID, rangeExpr string) ([][]string, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(spreadsheetID, rangeExpr).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s from spreadsheet %s: %w", rangeExpr, spreadsheetID, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			if cell != nil {
				row[i] = fmt.Sprint(cell)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// XLSXSheetSource reads workbooks from a local directory. The spreadsheet id names the
// file <dir>/<spreadsheetID>.xlsx.
type XLSXSheetSource struct {
	dir string
}

func NewXLSXSheetSource(dir string) *XLSXSheetSource {
	return &XLSXSheetSource{dir: dir}
}

func (s *XLSXSheetSource) FetchSheetData(ctx context.Context, spreadsheetID, rangeExpr string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sheetName, firstCol, lastCol, err := parseColumnRange(rangeExpr)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(spreadsheetID)
	if !strings.HasSuffix(name, ".xlsx") {
		name += ".xlsx"
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, spreadsheetID)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", spreadsheetID, err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s!%s", ErrSheetNotFound, spreadsheetID, sheetName)
	}

	all, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}

	rows := make([][]string, 0, len(all))
	for _, row := range all {
		if len(row) < firstCol {
			rows = append(rows, []string{})
			continue
		}
		end := min(len(row), lastCol)
		rows = append(rows, row[firstCol-1:end])
	}
	return rows, nil
}

// parseColumnRange splits "Sheet1!A:Z" into the sheet name and 1-based column bounds
func parseColumnRange(rangeExpr string) (string, int, int, error) {
	sep := strings.LastIndex(rangeExpr, "!")
	if sep <= 0 {
		return "", 0, 0, fmt.Errorf("invalid range expression: %q", rangeExpr)
	}
	sheetName, cols := rangeExpr[:sep], rangeExpr[sep+1:]
	if len(sheetName) >= 2 && strings.HasPrefix(sheetName, "'") && strings.HasSuffix(sheetName, "'") {
		sheetName = strings.ReplaceAll(sheetName[1:len(sheetName)-1], "''", "'")
	}

	from, to, ok := strings.Cut(cols, ":")
	if !ok {
		return "", 0, 0, fmt.Errorf("invalid column range: %q", cols)
	}
	first, err := excelize.ColumnNameToNumber(from)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid column range %q: %w", cols, err)
	}
	last, err := excelize.ColumnNameToNumber(to)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid column range %q: %w", cols, err)
	}
	if last < first {
		return "", 0, 0, fmt.Errorf("invalid column range: %q", cols)
	}
	return sheetName, first, last, nil
}
