package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"omibyte.io/xtlx/hw"
	"omibyte.io/xtlx/lx6/mutex"
	"omibyte.io/xtlx/targets"
)

var benchOpts = struct {
	chip    string
	variant string
	iters   int
	workers int
}{}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure lock acquisition latency under contention",
	Long:  "Run concurrent lock/increment loops on the simulated cores of the selected chip and report acquisition latency statistics.",
	Run: func(cmd *cobra.Command, args []string) {
		target, err := targets.All().FindByChip(benchOpts.chip)
		if err != nil {
			log.Fatalf("bench: %v: %s", err, benchOpts.chip)
		}
		hw.ConfigureTarget(target)

		workers := clampWorkers(benchOpts.variant, benchOpts.workers, target.Cores)

		var m mutex.Mutex[uint64]
		switch benchOpts.variant {
		case "cs":
			m = mutex.NewCriticalSection[uint64](0)
		case "csspin":
			m = mutex.NewCriticalSectionSpinLock[uint64](0)
		case "spin":
			m = mutex.NewSpinLock[uint64](0)
		default:
			log.Fatalf("bench: unknown mutex variant %q (want cs, csspin or spin)", benchOpts.variant)
		}

		lats := make([][]float64, workers)
		var g errgroup.Group
		for w := 0; w < workers; w++ {
			w := w
			g.Go(func() error {
				release := hw.Bind(hw.Cores()[w%hw.NumCores()])
				defer release()

				lat := make([]float64, 0, benchOpts.iters)
				for i := 0; i < benchOpts.iters; i++ {
					begin := time.Now()
					m.Lock(func(v *uint64) { *v++ })
					lat = append(lat, float64(time.Since(begin).Nanoseconds())/1e3)
				}
				lats[w] = lat
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			log.Fatalf("bench: %v", err)
		}

		total := mutex.With(m, func(v *uint64) uint64 { return *v })
		want := uint64(workers * benchOpts.iters)
		if total != want {
			log.Fatalf("bench: lost updates: counted %d, want %d", total, want)
		}

		var all []float64
		for _, lat := range lats {
			all = append(all, lat...)
		}
		if len(all) == 0 {
			log.Fatal("bench: no samples collected")
		}
		slices.Sort(all)

		fmt.Printf("chip=%s variant=%s workers=%d iters=%d total=%d\n",
			benchOpts.chip, benchOpts.variant, workers, benchOpts.iters, total)
		fmt.Printf("acquire latency (us): mean=%.3f stddev=%.3f p50=%.3f p99=%.3f max=%.3f\n",
			stat.Mean(all, nil),
			stat.StdDev(all, nil),
			stat.Quantile(0.50, stat.Empirical, all, nil),
			stat.Quantile(0.99, stat.Empirical, all, nil),
			all[len(all)-1])
	},
}

// clampWorkers bounds the worker count for a mutex variant. The
// critical-section bearing variants manipulate per-core interrupt state, so
// at most one worker may occupy a core: cs is single-core by contract and
// csspin gets one worker per core. spin touches no core state and may
// oversubscribe the cores freely.
func clampWorkers(variant string, requested, cores int) int {
	if requested <= 0 {
		requested = cores
	}
	switch variant {
	case "cs":
		return 1
	case "csspin":
		if requested > cores {
			return cores
		}
	}
	return requested
}

func init() {
	benchCmd.Flags().StringVarP(&benchOpts.chip, "chip", "c", "esp32", "chip to simulate")
	benchCmd.Flags().StringVarP(&benchOpts.variant, "mutex", "m", "csspin", "mutex variant: cs, csspin or spin")
	benchCmd.Flags().IntVarP(&benchOpts.iters, "iters", "n", 10000, "lock acquisitions per worker")
	benchCmd.Flags().IntVarP(&benchOpts.workers, "workers", "w", 0, "worker count (default: one per core)")
	rootCmd.AddCommand(benchCmd)
}
