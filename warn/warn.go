// Package warn carries non-fatal decode/encode warnings out of a codec
// without forcing it to fail. It is a small Go port of the `warn` crate
// original_source/snapshot/src/snap.rs pulls in via `use warn::{Warn, wrap}`:
// a sink callers can back with an owned collector, a plain function, or a
// no-op, and a `Wrap` helper that lets an inner collaborator emitting its
// own warning type feed an outer sink that only knows a wider type.
package warn

// Sink receives non-fatal warnings of type T. Implementations must not
// block: codecs call Warn synchronously while holding no locks, but they
// also do not retry or buffer on the caller's behalf.
type Sink[T any] interface {
	Warn(T)
}

// SinkFunc adapts a plain function to a Sink.
type SinkFunc[T any] func(T)

func (f SinkFunc[T]) Warn(w T) { f(w) }

// Discard is a Sink that drops every warning. Useful for callers that only
// care about fatal errors.
type discard[T any] struct{}

func (discard[T]) Warn(T) {}

func Discard[T any]() Sink[T] { return discard[T]{} }

// Collector is a Sink that appends every warning it receives, for tests
// that want to assert on exactly which warnings fired.
type Collector[T any] struct {
	Warnings []T
}

func (c *Collector[T]) Warn(w T) { c.Warnings = append(c.Warnings, w) }

// Wrap adapts a Sink[B] into a Sink[A] by mapping each incoming A through f
// before forwarding it. This is how snap.Delta.Read lets the packer's own
// warning type ride the same sink the caller passed in for snap.Warning.
func Wrap[A, B any](dst Sink[B], f func(A) B) Sink[A] {
	return SinkFunc[A](func(a A) { dst.Warn(f(a)) })
}
