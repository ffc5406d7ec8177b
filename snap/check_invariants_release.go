//go:build !debug

package snap

func (s *Snap) checkInvariants() {}
