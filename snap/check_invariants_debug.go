//go:build debug

// Gomega should not be a dependency in non-debug builds.

package snap

import (
	"errors"
	"log"

	"github.com/facebookgo/stackerr"
	. "github.com/onsi/gomega"
)

var _ = func() (_ struct{}) {
	RegisterFailHandler(gomegaFailHandler)
	return
}()

func gomegaFailHandler(message string, callerSkip ...int) {
	skip := callerSkip[0] + 1
	log.Fatal("FATAL: invariants are broken: ", stackerr.WrapSkip(errors.New(message), skip))
}

// checkInvariants checks that every range in the offsets map is
// well-formed and lies inside buf, and that no two keys share an identical
// range. Ranges that overlap without being identical are not detected.
// Debug builds only.
func (s *Snap) checkInvariants() {
	seen := make(map[itemRange]bool, len(s.offsets))
	for key, r := range s.offsets {
		Expect(r.start).To(BeNumerically("<=", r.end), "key %d has an inverted range", key)
		Expect(int(r.end)).To(BeNumerically("<=", len(s.buf)), "key %d's range escapes buf", key)
		Expect(seen[r]).To(BeFalse(), "key %d's range is aliased by another key", key)
		seen[r] = true
	}
}
