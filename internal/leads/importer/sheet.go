package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"crmhr_backend/platform/apperr"
)

// ParseCSV reads an entire CSV document and returns its data rows keyed by
// the normalized header row. An empty sheet (no header, or header only) is an
// upstream error so callers fail the run before touching the store.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "failed to parse sheet", err)
	}
	if len(records) < 2 {
		return nil, apperr.Upstream("sheet contains no data rows")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SheetExportURL converts a shared Google Sheets URL into its CSV export
// form. A gid fragment or query parameter selects the tab; without one the
// first tab is exported.
func SheetExportURL(shareURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(shareURL))
	if err != nil || parsed.Host == "" {
		return "", apperr.Validation("invalid sheet url")
	}
	if !strings.HasSuffix(parsed.Host, "docs.google.com") {
		return "", apperr.Validation("url is not a google sheets link")
	}

	parts := strings.Split(parsed.Path, "/")
	var sheetID string
	for i, part := range parts {
		if part == "d" && i+1 < len(parts) {
			sheetID = parts[i+1]
			break
		}
	}
	if sheetID == "" {
		return "", apperr.Validation("sheet url is missing a spreadsheet id")
	}

	export := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", sheetID)
	if gid := extractGID(parsed); gid != "" {
		export += "&gid=" + gid
	}
	return export, nil
}

func extractGID(u *url.URL) string {
	if gid := u.Query().Get("gid"); gid != "" {
		return gid
	}
	if strings.HasPrefix(u.Fragment, "gid=") {
		return strings.TrimPrefix(u.Fragment, "gid=")
	}
	return ""
}

// SheetFetcher downloads a shared Google Sheet as CSV rows.
type SheetFetcher struct {
	client *http.Client
}

func NewSheetFetcher(client *http.Client) *SheetFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &SheetFetcher{client: client}
}

// Fetch converts the share URL, downloads the CSV export and parses it.
// Any transport or status failure is an upstream error with no rows.
func (f *SheetFetcher) Fetch(ctx context.Context, shareURL string) ([]Row, error) {
	exportURL, err := SheetExportURL(shareURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "failed to build sheet request", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "failed to fetch sheet", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Upstream(fmt.Sprintf("sheet fetch returned status %d", resp.StatusCode))
	}

	return ParseCSV(resp.Body)
}
