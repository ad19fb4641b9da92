package importer

import (
	"strings"
	"testing"

	"crmhr_backend/platform/apperr"
)

func TestParseCSVKeysRowsByNormalizedHeader(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader("Name, EMAIL ,Phone\nJane,jane@x.com,111111\nBob,bob@x.com,222222\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Email() != "jane@x.com" || rows[1].Name() != "Bob" {
		t.Fatalf("rows not keyed by header: %v", rows)
	}
}

func TestParseCSVRaggedRowsPadMissingCells(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader("name,email,phone,position\nJane,jane@x.com,111111\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Position() != "" {
		t.Fatalf("expected empty position for short row, got %q", rows[0].Position())
	}
}

func TestParseCSVEmptySheetIsUpstreamError(t *testing.T) {
	for _, input := range []string{"", "name,email,phone\n"} {
		_, err := ParseCSV(strings.NewReader(input))
		if !apperr.Is(err, apperr.KindUpstream) {
			t.Fatalf("expected upstream error for %q, got %v", input, err)
		}
	}
}

func TestSheetExportURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{
			"https://docs.google.com/spreadsheets/d/abc123/edit#gid=42",
			"https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=42",
		},
		{
			"https://docs.google.com/spreadsheets/d/abc123/edit?usp=sharing",
			"https://docs.google.com/spreadsheets/d/abc123/export?format=csv",
		},
	}
	for _, tc := range cases {
		got, err := SheetExportURL(tc.in)
		if err != nil {
			t.Fatalf("SheetExportURL(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("SheetExportURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSheetExportURLRejectsForeignHosts(t *testing.T) {
	for _, in := range []string{"https://example.com/spreadsheets/d/abc", "not a url", "https://docs.google.com/spreadsheets/"} {
		if _, err := SheetExportURL(in); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("expected validation error for %q, got %v", in, err)
		}
	}
}
