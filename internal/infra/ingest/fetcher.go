package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Custom errors
var (
	ErrUnsupportedFormat = errors.New("unsupported customer data format")
	ErrFetchFailed       = errors.New("failed to fetch customer data file")
	ErrParseFailed       = errors.New("failed to parse customer data file")
)

const fetchTimeout = 10 * time.Second

// Row is one record of the export, keyed by normalized column name.
type Row map[string]string

// Fetcher downloads the remote customer-data export and parses it into row
// records. The file extension selects the parser: .csv or .xlsx.
type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: fetchTimeout}}
}

// Fetch retrieves the export at fileURL and returns its rows in file order.
func (f *Fetcher) Fetch(ctx context.Context, fileURL string) ([]Row, error) {
	ext, err := fileExtension(fileURL)
	if err != nil {
		return nil, err
	}
	if ext != "csv" && ext != "xlsx" {
		return nil, fmt.Errorf("%w: .%s (only .csv and .xlsx are supported)", ErrUnsupportedFormat, ext)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode)
	}

	if ext == "csv" {
		return parseCSV(resp.Body)
	}
	return parseXLSX(resp.Body)
}

func fileExtension(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid url: %v", ErrFetchFailed, err)
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), "."))
	if ext == "" {
		return "", fmt.Errorf("%w: no file extension in url", ErrUnsupportedFormat)
	}
	return ext, nil
}

// NormalizeColumn cleans a header cell so downstream field lookups are
// extension-agnostic: trim whitespace, strip commas, spaces to underscores.
func NormalizeColumn(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, ",", "")
	return strings.ReplaceAll(name, " ", "_")
}

func parseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	return rowsFromRecords(records), nil
}

func parseXLSX(r io.Reader) ([]Row, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrParseFailed)
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	return rowsFromRecords(records), nil
}

// rowsFromRecords maps the header record onto every data record. Short data
// records simply omit the trailing columns.
func rowsFromRecords(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = NormalizeColumn(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}
