package snap_test

import (
	"math"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/FlyyToMoon/libtw2/snap"
	"github.com/FlyyToMoon/libtw2/warn"
)

func buildSnap(items map[[2]uint16][]int32) *snap.Snap {
	b := snap.NewBuilder()
	for k, v := range items {
		Expect(b.AddItem(k[0], k[1], v)).To(Succeed())
	}
	return b.Finish()
}

var _ = Describe("Delta engine", func() {
	It("creates a delta with deletions and updates, then applies it back", func() {
		from := buildSnap(map[[2]uint16][]int32{
			{1, 1}: {10, 20},
			{1, 2}: {5},
		})
		to := buildSnap(map[[2]uint16][]int32{
			{1, 1}: {11, 19},
			{1, 3}: {99},
		})

		d := snap.NewDelta()
		d.Create(from, to)

		Expect(d.NumDeleted()).To(Equal(1))
		Expect(d.Deleted(snap.Key(1, 2))).To(BeTrue())
		Expect(d.NumUpdated()).To(Equal(2))

		diff, ok := d.Updated(snap.Key(1, 1))
		Expect(ok).To(BeTrue())
		Expect(diff).To(Equal([]int32{1, -1}))

		diff, ok = d.Updated(snap.Key(1, 3))
		Expect(ok).To(BeTrue())
		Expect(diff).To(Equal([]int32{99}))

		target := snap.Empty()
		var collector warn.Collector[snap.Warning]
		Expect(d.Apply(target, from, &collector)).To(Succeed())
		Expect(collector.Warnings).To(BeEmpty())

		data, ok := target.Item(1, 1)
		Expect(ok).To(BeTrue())
		Expect(data).To(Equal([]int32{11, 19}))

		data, ok = target.Item(1, 3)
		Expect(ok).To(BeTrue())
		Expect(data).To(Equal([]int32{99}))

		_, ok = target.Item(1, 2)
		Expect(ok).To(BeFalse())
	})

	It("wraps diff arithmetic across int32 bounds instead of panicking", func() {
		from := buildSnap(map[[2]uint16][]int32{{1, 1}: {math.MaxInt32}})
		to := buildSnap(map[[2]uint16][]int32{{1, 1}: {math.MinInt32}})

		d := snap.NewDelta()
		d.Create(from, to)
		diff, ok := d.Updated(snap.Key(1, 1))
		Expect(ok).To(BeTrue())
		Expect(diff).To(Equal([]int32{1}))

		target := snap.Empty()
		Expect(d.Apply(target, from, warn.Discard[snap.Warning]())).To(Succeed())
		data, _ := target.Item(1, 1)
		Expect(data).To(Equal([]int32{math.MinInt32}))
	})

	It("produces an all-zero delta with no deletions between identical snaps", func() {
		from := buildSnap(map[[2]uint16][]int32{{1, 1}: {1, 2, 3}})
		to := buildSnap(map[[2]uint16][]int32{{1, 1}: {1, 2, 3}})

		d := snap.NewDelta()
		d.Create(from, to)
		diff, ok := d.Updated(snap.Key(1, 1))
		Expect(ok).To(BeTrue())
		Expect(diff).To(Equal([]int32{0, 0, 0}))
		Expect(d.NumDeleted()).To(Equal(0))
	})

	It("warns UnknownDelete when a delete in the delta matches nothing in from", func() {
		from := buildSnap(map[[2]uint16][]int32{{1, 1}: {1}})
		d := snap.NewDelta()
		d.Create(from, snap.Empty())
		Expect(d.NumDeleted()).To(Equal(1))

		// Apply against an unrelated from-snap so the delete never matches.
		other := buildSnap(map[[2]uint16][]int32{{2, 2}: {9}})
		target := snap.Empty()
		var collector warn.Collector[snap.Warning]
		Expect(d.Apply(target, other, &collector)).To(Succeed())
		Expect(collector.Warnings).To(ContainElement(snap.WarnUnknownDelete))
	})

	It("fails with DeltaDifferingSizes when an updated item's size changed against from", func() {
		// Create's own precondition forbids a same-key size change between
		// from and to, so build the delta against one "from" and apply it
		// against a different one whose item for the same key has grown.
		d := snap.NewDelta()
		d.Create(buildSnap(map[[2]uint16][]int32{{1, 1}: {1, 2}}), buildSnap(map[[2]uint16][]int32{{1, 1}: {1, 2}}))

		mismatched := buildSnap(map[[2]uint16][]int32{{1, 1}: {1, 2, 3}})
		target := snap.Empty()
		err := d.Apply(target, mismatched, warn.Discard[snap.Warning]())
		Expect(err).To(HaveOccurred())
		cause, ok := snap.Cause(err)
		Expect(ok).To(BeTrue())
		Expect(cause).To(Equal(snap.ErrDeltaDifferingSizes))
	})

	It("panics on Create when an item's size changes between snapshots for the same key", func() {
		from := buildSnap(map[[2]uint16][]int32{{1, 1}: {1, 2}})
		to := buildSnap(map[[2]uint16][]int32{{1, 1}: {1, 2, 3}})
		d := snap.NewDelta()
		Expect(func() { d.Create(from, to) }).To(Panic())
	})
})
