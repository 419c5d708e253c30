// Package loader turns a timestamped RSSI trace into one proximity graph
// per time window.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
	"github.com/dd0wney/cluso-communities/pkg/validation"
)

// Column names expected in the trace header
const (
	ColumnTime   = "time"
	ColumnNodeID = "node_id"
	ColumnRSSI   = "rssi"
)

// RSSIKey is the edge attribute holding the averaged RSSI of a pair
const RSSIKey = "rssi"

// Defaults
const (
	DefaultRSSIThreshold = -90.0
	DefaultWindowSeconds = 10.0
)

// Options configures windowing and edge creation
type Options struct {
	RSSIThreshold float64 // pair edge when the mean of both node means is >= this
	WindowSeconds float64
	Logger        logging.Logger
	Metrics       *metrics.Registry
}

// DefaultOptions returns a -90 dBm threshold over 10 second windows
func DefaultOptions() Options {
	return Options{
		RSSIThreshold: DefaultRSSIThreshold,
		WindowSeconds: DefaultWindowSeconds,
	}
}

// Window is the graph built from one time window
type Window struct {
	Index   int64 // floor(time / WindowSeconds)
	Records int
	Graph   *graph.Graph
}

// Result holds the windows of a trace in ascending window order
type Result struct {
	Windows []Window
	Records int // rows used
	Skipped int // rows dropped for a missing node id or rssi
}

// Graphs returns the window graphs in order
func (r *Result) Graphs() []graph.View {
	graphs := make([]graph.View, len(r.Windows))
	for i, w := range r.Windows {
		graphs[i] = w.Graph
	}
	return graphs
}

type window struct {
	order   []uint64
	sum     map[uint64]float64
	count   map[uint64]int
	records int
}

func (w *window) add(node uint64, rssi float64) {
	if _, seen := w.count[node]; !seen {
		w.order = append(w.order, node)
	}
	w.sum[node] += rssi
	w.count[node]++
	w.records++
}

func (w *window) build(threshold float64) *graph.Graph {
	g := graph.New()
	means := make([]float64, len(w.order))
	for i, n := range w.order {
		g.AddNode(n)
		means[i] = w.sum[n] / float64(w.count[n])
	}
	for i := 0; i < len(w.order); i++ {
		for j := i + 1; j < len(w.order); j++ {
			avg := (means[i] + means[j]) / 2
			if avg < threshold {
				continue
			}
			// ids are distinct within a window, so AddEdge cannot fail
			_ = g.AddEdge(w.order[i], w.order[j])
			_ = g.SetEdgeAttr(w.order[i], w.order[j], RSSIKey, avg)
		}
	}
	return g
}

// LoadFile opens path and calls Load
func LoadFile(path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace: %w", err)
	}
	defer f.Close()

	logger := logging.OrNop(opts.Logger)
	opts.Logger = logger.With(logging.Path(path))
	return Load(f, opts)
}

// Load reads a CSV trace with a time,node_id,rssi header (extra columns
// are ignored). Rows with an empty node_id or rssi are skipped. Every
// window yields a graph whose nodes keep first-seen order.
func Load(r io.Reader, opts Options) (*Result, error) {
	opts.WindowSeconds = validation.DefaultOr(opts.WindowSeconds, DefaultWindowSeconds)
	if !(opts.WindowSeconds > 0) || math.IsInf(opts.WindowSeconds, 0) {
		return nil, fmt.Errorf("%w: window %v", ErrInvalidOptions, opts.WindowSeconds)
	}
	if err := validation.ValidateRSSIThreshold(opts.RSSIThreshold); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	logger := logging.OrNop(opts.Logger)
	start := time.Now()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Line: 1, Err: fmt.Errorf("%w: empty input", ErrMissingColumn)}
		}
		return nil, &ParseError{Line: 1, Err: err}
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, &ParseError{Line: 1, Err: err}
	}

	result := &Result{Windows: make([]Window, 0)}
	windows := make(map[int64]*window)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Line: csvErr.Line, Err: csvErr.Err}
			}
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		rawNode, rawRSSI := field(record, cols.node), field(record, cols.rssi)
		if isMissing(rawNode) || isMissing(rawRSSI) {
			result.Skipped++
			continue
		}

		ts, err := strconv.ParseFloat(field(record, cols.time), 64)
		if err != nil {
			return nil, &ParseError{Line: line, Column: ColumnTime, Err: fmt.Errorf("%w: %v", ErrInvalidValue, err)}
		}
		node, err := parseNodeID(rawNode)
		if err != nil {
			return nil, &ParseError{Line: line, Column: ColumnNodeID, Err: err}
		}
		rssi, err := strconv.ParseFloat(rawRSSI, 64)
		if err != nil {
			return nil, &ParseError{Line: line, Column: ColumnRSSI, Err: fmt.Errorf("%w: %v", ErrInvalidValue, err)}
		}
		if err := validation.ValidateRecord(ts, rssi); err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}

		idx := int64(math.Floor(ts / opts.WindowSeconds))
		w, ok := windows[idx]
		if !ok {
			w = &window{sum: make(map[uint64]float64), count: make(map[uint64]int)}
			windows[idx] = w
		}
		w.add(node, rssi)
		result.Records++
	}

	indices := make([]int64, 0, len(windows))
	for idx := range windows {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	for _, idx := range indices {
		w := windows[idx]
		if len(w.order) == 0 {
			continue
		}
		g := w.build(opts.RSSIThreshold)
		result.Windows = append(result.Windows, Window{Index: idx, Records: w.records, Graph: g})
		logger.Debug("window built",
			logging.Int("window", int(idx)),
			logging.Int("nodes", g.NodeCount()),
			logging.Int("edges", g.EdgeCount()),
		)
	}

	elapsed := time.Since(start)
	logger.Info("trace loaded",
		logging.Int("records", result.Records),
		logging.Int("skipped", result.Skipped),
		logging.Int("windows", len(result.Windows)),
		logging.Latency(elapsed),
	)
	if opts.Metrics != nil {
		opts.Metrics.RecordLoad(result.Records, result.Skipped, len(result.Windows), elapsed)
	}

	return result, nil
}

type columns struct {
	time, node, rssi int
}

func locateColumns(header []string) (columns, error) {
	cols := columns{time: -1, node: -1, rssi: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case ColumnTime:
			cols.time = i
		case ColumnNodeID:
			cols.node = i
		case ColumnRSSI:
			cols.rssi = i
		}
	}

	missing := make([]string, 0)
	if cols.time < 0 {
		missing = append(missing, ColumnTime)
	}
	if cols.node < 0 {
		missing = append(missing, ColumnNodeID)
	}
	if cols.rssi < 0 {
		missing = append(missing, ColumnRSSI)
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func isMissing(v string) bool {
	switch strings.ToLower(v) {
	case "", "nan", "na", "null":
		return true
	}
	return false
}

// parseNodeID accepts unsigned integers and integral-looking floats such as
// "12.0"; fractional parts are truncated.
func parseNodeID(s string) (uint64, error) {
	if id, err := strconv.ParseUint(s, 10, 64); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsInf(f, 0) || f >= math.MaxUint64 {
		return 0, fmt.Errorf("%w: node id %q", ErrInvalidValue, s)
	}
	return uint64(f), nil
}
