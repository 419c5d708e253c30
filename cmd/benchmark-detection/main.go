package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/partition"
)

func main() {
	clusters := flag.Int("clusters", 10, "Number of planted clusters")
	size := flag.Int("size", 20, "Nodes per cluster")
	pIn := flag.Float64("p-in", 0.5, "Edge probability inside a cluster")
	pOut := flag.Float64("p-out", 0.005, "Edge probability across clusters")
	snapshots := flag.Int("snapshots", 8, "Snapshots in the dynamic benchmark")
	workers := flag.Int("workers", 4, "Concurrent snapshot workers")
	seed := flag.Int64("seed", 42, "Random seed")
	logLevel := flag.String("log-level", "", "Log level for detection logs (default from DYNCOM_LOG_LEVEL)")
	flag.Parse()

	if *logLevel != "" {
		level, err := logging.ParseLevelStrict(*logLevel)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		logging.SetDefaultLogger(logging.NewJSONLogger(os.Stderr, level))
	}
	logger := logging.DefaultLogger().With(logging.Component("benchmark-detection"))

	rng := rand.New(rand.NewSource(*seed))

	fmt.Printf("🔥 Cluso Communities - Detection Benchmark\n")
	fmt.Printf("==========================================\n\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Clusters: %d x %d nodes\n", *clusters, *size)
	fmt.Printf("  p_in: %.3f  p_out: %.4f\n", *pIn, *pOut)
	fmt.Printf("  Snapshots: %d (workers: %d)\n\n", *snapshots, *workers)

	// Build planted graph
	fmt.Printf("📝 Generating planted-cluster graph...\n")
	start := time.Now()
	g, planted := plantedGraph(rng, *clusters, *size, *pIn, *pOut)
	fmt.Printf("✅ %d nodes, %d edges in %v (density %.4f)\n", g.NodeCount(), g.EdgeCount(), time.Since(start), graph.Density(g))

	// Benchmark 1: Dissimilarity scoring
	fmt.Printf("\n📊 Benchmark 1: Edge Dissimilarity\n")
	start = time.Now()
	scored := g.Clone()
	threshold := algorithms.ComputeAllDissimilarities(scored)
	fmt.Printf("✅ Scored %d edges in %v (threshold %.2f)\n", scored.EdgeCount(), time.Since(start), threshold)

	// Benchmark 2: Community detection
	fmt.Printf("\n📊 Benchmark 2: Community Detection\n")
	start = time.Now()
	opts := algorithms.DefaultDetectOptions()
	opts.Logger = logger
	result := algorithms.DetectCommunities(g, opts)
	fmt.Printf("✅ Detection completed in %v\n", time.Since(start))
	fmt.Printf("  Edges removed: %d\n", len(result.Prune.Removed))
	fmt.Printf("  Communities: %d\n", len(result.Communities))
	fmt.Printf("  Largest community: %d nodes\n", largestCommunity(result.Communities))

	// Benchmark 3: Modularity
	fmt.Printf("\n📊 Benchmark 3: Modularity\n")
	start = time.Now()
	q, ok := algorithms.Modularity(g, result.Communities)
	duration := time.Since(start)
	if ok {
		fmt.Printf("✅ Modularity %.4f in %v\n", q, duration)
	} else {
		fmt.Printf("⚠️  Modularity undefined for detected partition (%v)\n", duration)
	}
	if pq, ok := algorithms.Modularity(g, planted); ok {
		fmt.Printf("  Planted partition modularity: %.4f\n", pq)
	}

	// Benchmark 4: NMI against the planted partition
	fmt.Printf("\n📊 Benchmark 4: NMI vs planted clusters\n")
	start = time.Now()
	nmi := algorithms.NMI(planted, result.Communities, g.Nodes())
	fmt.Printf("✅ NMI %.4f in %v\n", nmi, time.Since(start))

	// Benchmark 5: Dynamic sequence
	fmt.Printf("\n📊 Benchmark 5: Dynamic Sequence\n")
	graphs := make([]graph.View, *snapshots)
	for i := range graphs {
		next, _ := plantedGraph(rng, *clusters, *size, *pIn, *pOut)
		graphs[i] = next
	}

	opts.Workers = 1
	start = time.Now()
	sequential, err := algorithms.ProcessSnapshots(context.Background(), graphs, opts)
	if err != nil {
		logger.Error("sequential processing failed", logging.Error(err))
		os.Exit(1)
	}
	seqDuration := time.Since(start)

	opts.Workers = *workers
	start = time.Now()
	if _, err := algorithms.ProcessSnapshots(context.Background(), graphs, opts); err != nil {
		logger.Error("concurrent processing failed", logging.Error(err))
		os.Exit(1)
	}
	parDuration := time.Since(start)

	fmt.Printf("✅ Sequential: %v\n", seqDuration)
	fmt.Printf("✅ %d workers: %v (%.2fx)\n", *workers, parDuration, float64(seqDuration)/float64(parDuration))

	// Benchmark 6: Event tracking
	fmt.Printf("\n📊 Benchmark 6: Event Tracking\n")
	start = time.Now()
	totals := make(map[algorithms.EventKind]int)
	for i := 1; i < len(sequential); i++ {
		events := algorithms.TrackEvents(sequential[i-1].Communities, sequential[i].Communities)
		for _, kind := range algorithms.EventKinds {
			totals[kind] += events.Count(kind)
		}
	}
	fmt.Printf("✅ Tracked %d transitions in %v\n", len(sequential)-1, time.Since(start))
	for _, kind := range algorithms.EventKinds {
		fmt.Printf("  %-7s %d\n", kind, totals[kind])
	}

	fmt.Printf("\n✅ Benchmark complete!\n")
}

// plantedGraph builds clusters of size nodes with dense internal wiring
// and sparse cross links; node ids are assigned cluster by cluster
func plantedGraph(rng *rand.Rand, clusters, size int, pIn, pOut float64) (*graph.Graph, partition.Partition) {
	g := graph.New()
	planted := make(partition.Partition, clusters)

	n := clusters * size
	for c := 0; c < clusters; c++ {
		members := make([]uint64, size)
		for i := 0; i < size; i++ {
			id := uint64(c*size + i)
			members[i] = id
			g.AddNode(id)
		}
		planted[c] = partition.NewCommunity(members...)
	}

	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			p := pOut
			if u/size == v/size {
				p = pIn
			}
			if rng.Float64() < p {
				// u < v, AddEdge cannot reject the pair
				_ = g.AddEdge(uint64(u), uint64(v))
			}
		}
	}
	return g, planted
}

func largestCommunity(p partition.Partition) int {
	maxSize := 0
	for _, c := range p {
		if len(c) > maxSize {
			maxSize = len(c)
		}
	}
	return maxSize
}
