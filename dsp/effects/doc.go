// Package effects provides the lo-fi bit crusher kernel.
//
// BitCrusher combines bit-depth reduction and zero-order-hold sample-rate
// reduction under a single drive control, operating in place on mono
// 16-bit PCM blocks ([BitCrusher.ProcessBlock]) or on normalized float32
// buffers ([BitCrusher.ProcessInPlace]).
//
// The hot path does not allocate, lock or block. Parameter setters are
// atomic and may be called from a control goroutine while audio runs.
//
// Building with the fastmath tag swaps the 2^x used for the level count
// for an algo-approx based approximation of the fractional part.
package effects
