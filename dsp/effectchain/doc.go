// Package effectchain hosts 16-bit effect runtimes: an explicit [Registry] of
// effect factories, an ordered [Chain] of configured nodes, and a [Stream]
// that moves fixed-size blocks from a [Source] through a processor to a
// [Sink].
package effectchain
