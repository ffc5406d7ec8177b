package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"

	"github.com/FlyyToMoon/libtw2/packer"
	"github.com/FlyyToMoon/libtw2/snap"
	"github.com/FlyyToMoon/libtw2/warn"
)

// randomSnap builds a snap of n items with 1-4 words each. Each item's
// type_id and word count are a deterministic function of its id, so any
// two snaps built by separate calls agree on the size of every id they
// have in common -- satisfying Delta.Create's precondition that a shared
// key's item length cannot change between snapshots. Only the word
// values themselves are randomized.
func randomSnap(r *rand.Rand, n int) *snap.Snap {
	b := snap.NewBuilder()
	for i := 0; i < n; i++ {
		data := make([]int32, 1+i%4)
		for j := range data {
			data[j] = r.Int31()
		}
		_ = b.AddItem(uint16(i%64), uint16(i), data)
	}
	return b.Finish()
}

func benchCmd() *cobra.Command {
	var items, iterations int
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time codec operations over random snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := rand.New(rand.NewSource(1))
			registry := metrics.NewRegistry()
			createTimer := metrics.NewRegisteredTimer("delta.create", registry)
			applyTimer := metrics.NewRegisteredTimer("delta.apply", registry)
			writeTimer := metrics.NewRegisteredTimer("snap.write", registry)
			readTimer := metrics.NewRegisteredTimer("snap.read", registry)

			from := randomSnap(r, items)
			reader := snap.NewSnapReader()
			target := snap.Empty()
			for i := 0; i < iterations; i++ {
				to := randomSnap(r, items)

				d := snap.NewDelta()
				createTimer.Time(func() { d.Create(from, to) })

				applyTimer.Time(func() {
					_ = d.Apply(target, from, warn.Discard[snap.Warning]())
				})

				p := packer.NewPacker(nil)
				writeTimer.Time(func() { _ = to.Write(p) })

				u := packer.NewUnpacker(p.Written())
				readTimer.Time(func() {
					var err error
					target, err = reader.Read(target, u, nil)
					if err != nil {
						panic(err)
					}
				})

				from = to
			}

			fmt.Fprintf(os.Stdout, "%d iterations over %d-item snapshots\n", iterations, items)
			metrics.WriteOnce(registry, os.Stdout)
			return nil
		},
	}
	cmd.Flags().IntVar(&items, "items", 256, "items per snapshot")
	cmd.Flags().IntVar(&iterations, "iterations", 1000, "number of create/apply/write/read cycles")
	return cmd
}
