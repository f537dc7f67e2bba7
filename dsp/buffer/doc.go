// Package buffer provides fixed-length 16-bit PCM blocks and a pool that
// recycles them. Blocks are the unit the host hands to an effect once per
// audio cycle; the effect borrows the samples for the duration of the call
// and the host releases the block back to the pool afterwards.
package buffer
