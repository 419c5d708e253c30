package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
)

// twoTriangles returns {1,2,3} and {4,5,6} joined by 3-4
func twoTriangles(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.FromEdges(
		graph.Edge{U: 1, V: 2}, graph.Edge{U: 2, V: 3}, graph.Edge{U: 1, V: 3},
		graph.Edge{U: 4, V: 5}, graph.Edge{U: 5, V: 6}, graph.Edge{U: 4, V: 6},
		graph.Edge{U: 3, V: 4},
	)
	require.NoError(t, err)
	return g
}

func isolated(nodes ...uint64) *graph.Graph {
	g := graph.New()
	for _, n := range nodes {
		g.AddNode(n)
	}
	return g
}

// sequence: two identical snapshots, an empty one, then all nodes isolated
func testSequence(t *testing.T) []graph.View {
	return []graph.View{
		twoTriangles(t),
		twoTriangles(t),
		graph.New(),
		isolated(1, 2, 3, 4, 5, 6),
	}
}

func TestRun_Sequence(t *testing.T) {
	analyzer := NewAnalyzer(DefaultOptions(), nil, nil)

	report, err := analyzer.Run(context.Background(), testSequence(t))
	require.NoError(t, err)
	require.Len(t, report.Snapshots, 4)

	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.StartedAt.IsZero())

	first := report.Snapshots[0]
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, 2, first.CommunityCount)
	assert.Equal(t, [][]uint64{{1, 2, 3}, {4, 5, 6}}, first.Communities)
	require.NotNil(t, first.Modularity)
	assert.InDelta(t, 5.0/14.0, *first.Modularity, 1e-9)
	assert.Nil(t, first.NMI, "first valid snapshot has no predecessor")
	assert.Nil(t, first.Events)

	second := report.Snapshots[1]
	require.NotNil(t, second.NMI)
	assert.InDelta(t, 1.0, *second.NMI, 1e-9)
	require.NotNil(t, second.Events)
	assert.Len(t, second.Events.Stable, 2)
	assert.Empty(t, second.Events.Birth)
	assert.Empty(t, second.Events.Death)

	empty := report.Snapshots[2]
	assert.Equal(t, 0, empty.CommunityCount)
	assert.Empty(t, empty.Communities)
	assert.Nil(t, empty.Modularity)
	assert.Nil(t, empty.NMI)
	assert.Nil(t, empty.Events)

	// compared against snapshot 1, since snapshot 2 was invalid
	last := report.Snapshots[3]
	assert.Equal(t, 6, last.CommunityCount)
	assert.Nil(t, last.Modularity, "no edges, no modularity")
	require.NotNil(t, last.NMI)
	wantNMI := 2 * math.Log(2) / (math.Log(2) + math.Log(6))
	assert.InDelta(t, wantNMI, *last.NMI, 1e-9)
	require.NotNil(t, last.Events)
	assert.Len(t, last.Events.Split, 2)
	assert.Empty(t, last.Events.Merge)
	assert.Empty(t, last.Events.Birth)
}

func TestRun_Summary(t *testing.T) {
	report, err := NewAnalyzer(DefaultOptions(), nil, nil).Run(context.Background(), testSequence(t))
	require.NoError(t, err)

	s := report.Summary
	assert.Equal(t, 4, s.Snapshots)
	assert.Equal(t, 3, s.ValidSnapshots)
	assert.Equal(t, 2+2+0+6, s.Communities)
	assert.Equal(t, map[string]int{"birth": 0, "death": 0, "merge": 0, "split": 2, "stable": 2}, s.EventTotals)

	require.NotNil(t, s.MeanModularity)
	assert.InDelta(t, 5.0/14.0, *s.MeanModularity, 1e-9)
	require.NotNil(t, s.MeanNMI)

	assert.Equal(t, HistogramBins, s.Dissimilarity.Bins)
	assert.Equal(t, 14, s.Dissimilarity.Total(), "7 scored edges in each of two snapshots")
}

func TestRun_Empty(t *testing.T) {
	report, err := NewAnalyzer(DefaultOptions(), nil, nil).Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, report.Snapshots)
	assert.Nil(t, report.Summary.MeanModularity)
	assert.Nil(t, report.Summary.MeanNMI)
	assert.Equal(t, 0, report.Summary.Dissimilarity.Total())
}

func TestRun_WorkersMatchSequential(t *testing.T) {
	sequential, err := NewAnalyzer(DefaultOptions(), nil, nil).Run(context.Background(), testSequence(t))
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Workers = 4
	concurrent, err := NewAnalyzer(opts, nil, nil).Run(context.Background(), testSequence(t))
	require.NoError(t, err)

	require.Len(t, concurrent.Snapshots, len(sequential.Snapshots))
	for i := range sequential.Snapshots {
		assert.Equal(t, sequential.Snapshots[i].Communities, concurrent.Snapshots[i].Communities, "snapshot %d", i)
		assert.Equal(t, sequential.Snapshots[i].Events, concurrent.Snapshots[i].Events, "snapshot %d", i)
	}
	assert.NotEqual(t, sequential.RunID, concurrent.RunID)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnalyzer(DefaultOptions(), nil, nil).Run(ctx, testSequence(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_DedupStable(t *testing.T) {
	big, err := graph.FromEdges(completeEdges(1, 10)...)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.DedupStable = true
	report, err := NewAnalyzer(opts, nil, nil).Run(context.Background(), []graph.View{big, big})
	require.NoError(t, err)

	require.NotNil(t, report.Snapshots[1].Events)
	assert.LessOrEqual(t, len(report.Snapshots[1].Events.Stable), report.Snapshots[1].CommunityCount)
}

func completeEdges(from, to uint64) []graph.Edge {
	edges := make([]graph.Edge, 0)
	for i := from; i <= to; i++ {
		for j := i + 1; j <= to; j++ {
			edges = append(edges, graph.Edge{U: i, V: j})
		}
	}
	return edges
}

func TestRun_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.InfoLevel)

	report, err := NewAnalyzer(DefaultOptions(), logger, nil).Run(context.Background(), testSequence(t))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var analyzed, warned int
	for _, line := range lines {
		var entry logging.LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		assert.Equal(t, report.RunID, entry.Fields["run_id"])

		switch entry.Message {
		case "snapshot analyzed":
			analyzed++
			assert.Contains(t, entry.Fields, "cut_ratio")
			assert.Contains(t, entry.Fields, "load_balance")
		case "community analysis":
			assert.Equal(t, false, entry.Fields["dedup_stable"])
			assert.Contains(t, entry.Fields, "events")
		case "invalid partition, metrics skipped":
			warned++
			assert.Equal(t, "WARN", entry.Level)
		}
	}
	assert.Equal(t, 3, analyzed)
	assert.Equal(t, 1, warned)
}

func TestRun_Metrics(t *testing.T) {
	registry := metrics.NewRegistry()

	_, err := NewAnalyzer(DefaultOptions(), nil, registry).Run(context.Background(), testSequence(t))
	require.NoError(t, err)

	read := func(c interface{ Write(*dto.Metric) error }) *dto.Metric {
		var m dto.Metric
		require.NoError(t, c.Write(&m))
		return &m
	}

	ok, err := registry.SnapshotsTotal.GetMetricWithLabelValues(metrics.StatusOK)
	require.NoError(t, err)
	assert.Equal(t, 3.0, read(ok).Counter.GetValue())

	invalid, err := registry.SnapshotsTotal.GetMetricWithLabelValues(metrics.StatusInvalid)
	require.NoError(t, err)
	assert.Equal(t, 1.0, read(invalid).Counter.GetValue())

	split, err := registry.CommunityEventsTotal.GetMetricWithLabelValues("split")
	require.NoError(t, err)
	assert.Equal(t, 2.0, read(split).Counter.GetValue())

	// the last snapshot has no modularity, so the gauge keeps the previous value
	assert.InDelta(t, 5.0/14.0, read(registry.Modularity).Gauge.GetValue(), 1e-9)
	assert.Equal(t, 6.0, read(registry.EdgesRemovedTotal).Counter.GetValue())

	// the isolated snapshot is valid: no edges to cut, equal community sizes
	assert.Equal(t, 0.0, read(registry.CutRatio).Gauge.GetValue())
	assert.Equal(t, 1.0, read(registry.LoadBalance).Gauge.GetValue())
}

func TestRun_StructureMetrics(t *testing.T) {
	registry := metrics.NewRegistry()

	_, err := NewAnalyzer(DefaultOptions(), nil, registry).Run(context.Background(), []graph.View{twoTriangles(t)})
	require.NoError(t, err)

	var cut, balance dto.Metric
	require.NoError(t, registry.CutRatio.Write(&cut))
	require.NoError(t, registry.LoadBalance.Write(&balance))

	// only the 3-4 bridge crosses {1,2,3} and {4,5,6}
	assert.InDelta(t, 1.0/7.0, cut.Gauge.GetValue(), 1e-12)
	assert.Equal(t, 1.0, balance.Gauge.GetValue())
}
