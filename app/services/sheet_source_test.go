package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseColumnRange(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		sheet     string
		first     int
		last      int
		expectErr bool
	}{
		{name: "Plain", expr: "Leads!A:Z", sheet: "Leads", first: 1, last: 26},
		{name: "Quoted", expr: "'Form Responses 1'!B:D", sheet: "Form Responses 1", first: 2, last: 4},
		{name: "EscapedQuote", expr: "'Kim''s leads'!A:C", sheet: "Kim's leads", first: 1, last: 3},
		{name: "BangInName", expr: "'Hot!'!A:B", sheet: "Hot!", first: 1, last: 2},
		{name: "NoSheet", expr: "A:Z", expectErr: true},
		{name: "NoColon", expr: "Leads!A", expectErr: true},
		{name: "Reversed", expr: "Leads!Z:A", expectErr: true},
		{name: "BadColumn", expr: "Leads!1:2", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet, first, last, err := parseColumnRange(tt.expr)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.sheet, sheet)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}

func writeWorkbook(t *testing.T, dir, name, sheet string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheet)
	require.NoError(t, err)
	f.SetActiveSheet(idx)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(filepath.Join(dir, name+".xlsx")))
}

func TestXLSXSheetSource(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, "leads", "Form Responses", [][]any{
		{"Name", "Phone", "Email"},
		{"Kim", "010-1111-2222", "kim@example.com"},
		{"Lee", "010-3333-4444"},
	})
	source := NewXLSXSheetSource(dir)
	ctx := context.Background()

	t.Run("ReadsRows", func(t *testing.T) {
		rows, err := source.FetchSheetData(ctx, "leads", "'Form Responses'!A:Z")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"Name", "Phone", "Email"}, rows[0])
		assert.Equal(t, []string{"Lee", "010-3333-4444"}, rows[2])
	})

	t.Run("ClipsColumns", func(t *testing.T) {
		rows, err := source.FetchSheetData(ctx, "leads.xlsx", "'Form Responses'!B:B")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"Phone"}, rows[0])
		assert.Equal(t, []string{"010-1111-2222"}, rows[1])
	})

	t.Run("MissingWorkbook", func(t *testing.T) {
		_, err := source.FetchSheetData(ctx, "nope", "Leads!A:Z")
		assert.True(t, errors.Is(err, ErrSheetNotFound))
	})

	t.Run("MissingSheet", func(t *testing.T) {
		_, err := source.FetchSheetData(ctx, "leads", "Other!A:Z")
		assert.True(t, errors.Is(err, ErrSheetNotFound))
	})

	t.Run("PathStaysInDir", func(t *testing.T) {
		_, err := source.FetchSheetData(ctx, "../leads", "'Form Responses'!A:Z")
		require.NoError(t, err)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := source.FetchSheetData(canceled, "leads", "'Form Responses'!A:Z")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
