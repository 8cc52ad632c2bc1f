package commands

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackms/artflow-go/pkg/artflow"
)

var (
	benchmarkDim        int
	benchmarkPatterns   int
	benchmarkIterations int
	benchmarkJSON       bool
)

// benchmarkResult holds one benchmarked operation.
type benchmarkResult struct {
	Operation    string  `json:"operation"`
	Iterations   int     `json:"iterations"`
	TotalTimeMs  float64 `json:"totalTimeMs"`
	AvgTimeUs    float64 `json:"avgTimeUs"`
	OpsPerSecond float64 `json:"opsPerSecond"`
}

// BenchmarkCmd measures engine throughput on synthetic patterns.
var BenchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Benchmark resonance search and batch throughput",
	RunE: func(cmd *cobra.Command, args []string) error {
		rng := rand.New(rand.NewSource(42))
		patterns := make([][]float64, benchmarkPatterns)
		for i := range patterns {
			p := make([]float64, benchmarkDim)
			for d := range p {
				p[d] = rng.Float64()
			}
			patterns[i] = p
		}

		results := []benchmarkResult{
			runBenchmark("learn", benchmarkIterations, func() error {
				module, err := artflow.NewModule(artflow.ModuleConfig{
					Engine: artflow.DefaultEngineConfig(benchmarkDim),
				})
				if err != nil {
					return err
				}
				defer module.Close()
				_, err = module.ProcessBatch(patterns)
				return err
			}),
			runBenchmark("decay-integrate", benchmarkIterations, func() error {
				module, err := artflow.NewModule(artflow.ModuleConfig{
					Engine: artflow.DefaultEngineConfig(benchmarkDim),
				})
				if err != nil {
					return err
				}
				defer module.Close()
				activations := make([][]float64, len(patterns))
				for i := range activations {
					activations[i] = make([]float64, benchmarkDim)
				}
				return module.Processor().DecayIntegrate(activations, patterns, 4)
			}),
		}

		return printResult(results, benchmarkJSON, func() {
			for _, r := range results {
				fmt.Printf("%-18s %6d iters  %10.2fms total  %8.2fµs avg  %12.0f ops/s\n",
					r.Operation, r.Iterations, r.TotalTimeMs, r.AvgTimeUs, r.OpsPerSecond)
			}
		})
	},
}

// runBenchmark times fn over n iterations.
func runBenchmark(name string, n int, fn func() error) benchmarkResult {
	start := time.Now()
	for i := 0; i < n; i++ {
		if err := fn(); err != nil {
			break
		}
	}
	total := time.Since(start)
	totalMs := float64(total.Microseconds()) / 1000.0
	result := benchmarkResult{
		Operation:   name,
		Iterations:  n,
		TotalTimeMs: totalMs,
	}
	if n > 0 && total > 0 {
		result.AvgTimeUs = float64(total.Microseconds()) / float64(n)
		result.OpsPerSecond = float64(n) / total.Seconds()
	}
	return result
}

func init() {
	BenchmarkCmd.Flags().IntVar(&benchmarkDim, "dim", 64, "pattern dimension")
	BenchmarkCmd.Flags().IntVar(&benchmarkPatterns, "patterns", 256, "patterns per iteration")
	BenchmarkCmd.Flags().IntVar(&benchmarkIterations, "iterations", 20, "iterations per operation")
	BenchmarkCmd.Flags().BoolVar(&benchmarkJSON, "json", false, "JSON output")
}
