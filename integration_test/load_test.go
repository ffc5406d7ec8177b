package integration

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"

	. "github.com/onsi/ginkgo"
	"github.com/rcrowley/go-metrics"

	"github.com/FlyyToMoon/libtw2/packer"
	"github.com/FlyyToMoon/libtw2/snap"
	"github.com/FlyyToMoon/libtw2/testutil"
	"github.com/FlyyToMoon/libtw2/warn"
)

// LoadTest drives clientsNum goroutines, each running its own
// create/apply/write/read chain over randomSnaps of the given item count,
// for totalCycles cycles combined, and reports timings through go-metrics.
func LoadTest(itemsPerSnap, totalCycles int) {
	prevMaxProcs := runtime.GOMAXPROCS(runtime.NumCPU())
	defer runtime.GOMAXPROCS(prevMaxProcs)

	const clientsNum = 8

	registry := metrics.NewRegistry()
	createTimer := metrics.NewRegisteredTimer("delta.create", registry)
	applyTimer := metrics.NewRegisteredTimer("delta.apply", registry)
	writeTimer := metrics.NewRegisteredTimer("snap.write", registry)
	readTimer := metrics.NewRegisteredTimer("snap.read", registry)

	var cycles int32
	next := func() bool { return atomic.AddInt32(&cycles, 1) <= int32(totalCycles) }

	finish := &sync.WaitGroup{}
	finish.Add(clientsNum)
	for c := 0; c < clientsNum; c++ {
		client := c
		// Each client gets its own rand.Rand, seeded off the shared one, so
		// concurrent clients never touch testutil.Rand from multiple
		// goroutines at once.
		clientRand := rand.New(rand.NewSource(testutil.Rand.Int63()))
		go func() {
			defer GinkgoRecover()
			defer finish.Done()
			prev := snap.Empty()
			reader := snap.NewSnapReader()
			target := snap.Empty()
			for next() {
				current := randomSnap(clientRand, itemsPerSnap)

				d := snap.NewDelta()
				createTimer.Time(func() { d.Create(prev, current) })

				applyTimer.Time(func() {
					_ = d.Apply(target, prev, warn.Discard[snap.Warning]())
				})

				p := packer.NewPacker(nil)
				writeTimer.Time(func() { _ = current.Write(p) })

				readTimer.Time(func() {
					var err error
					target, err = reader.Read(target, packer.NewUnpacker(p.Written()), nil)
					if err != nil {
						panic(err)
					}
				})

				prev = current
			}
			testutil.Byf("client %v done", client)
		}()
	}
	finish.Wait()
	metrics.WriteOnce(registry, GinkgoWriter)
	fmt.Fprintf(GinkgoWriter, "%d cycles across %d clients\n", totalCycles, clientsNum)
}
