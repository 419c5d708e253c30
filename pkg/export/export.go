// Package export writes analysis reports as JSON (optionally
// snappy-compressed) or CSV rows.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-communities/pkg/analysis"
)

// CompressedExt marks snappy-compressed JSON output
const CompressedExt = ".sz"

// CSVHeader is the column layout of CSV exports
var CSVHeader = []string{"t", "nb_communities", "modularity", "nmi", "communities", "events"}

// ErrCorrupt is returned when a compressed export cannot be decoded
var ErrCorrupt = errors.New("corrupt export")

// EncodeJSON writes rows as an indented JSON array. Absent values are null.
func EncodeJSON(w io.Writer, rows []analysis.SnapshotReport) error {
	if rows == nil {
		rows = []analysis.SnapshotReport{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode rows: %w", err)
	}
	return nil
}

// DecodeJSON reads rows written by EncodeJSON
func DecodeJSON(r io.Reader) ([]analysis.SnapshotReport, error) {
	var rows []analysis.SnapshotReport
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}
	return rows, nil
}

// WriteJSON writes rows to path, snappy-compressing them when the path ends
// in .sz
func WriteJSON(path string, rows []analysis.SnapshotReport) error {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, rows); err != nil {
		return err
	}

	data := buf.Bytes()
	if isCompressed(path) {
		data = snappy.Encode(nil, data)
	}
	return writeFile(path, data)
}

// ReadJSON reads rows written by WriteJSON
func ReadJSON(path string) ([]analysis.SnapshotReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if isCompressed(path) {
		data, err = snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
		}
	}
	return DecodeJSON(bytes.NewReader(data))
}

// EncodeCSV writes one row per snapshot. The communities and events cells
// hold JSON; absent values are empty cells.
func EncodeCSV(w io.Writer, rows []analysis.SnapshotReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	for _, row := range rows {
		communities, err := json.Marshal(row.Communities)
		if err != nil {
			return fmt.Errorf("snapshot %d: %w", row.Index, err)
		}
		events := ""
		if row.Events != nil {
			data, err := json.Marshal(row.Events)
			if err != nil {
				return fmt.Errorf("snapshot %d: %w", row.Index, err)
			}
			events = string(data)
		}

		record := []string{
			strconv.Itoa(row.Index),
			strconv.Itoa(row.CommunityCount),
			formatOptional(row.Modularity),
			formatOptional(row.NMI),
			string(communities),
			events,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSV writes rows to path as CSV
func WriteCSV(path string, rows []analysis.SnapshotReport) error {
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, rows); err != nil {
		return err
	}
	return writeFile(path, buf.Bytes())
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func isCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), CompressedExt)
}

// writeFile writes through a temp file in the same directory so readers
// never see a partial export
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
