package effectchain

// Runtime is the per-node processing and configuration contract.
// ProcessBlock transforms the block in place and returns it.
type Runtime interface {
	Configure(ctx Context, params Params) error
	ProcessBlock(block []int16) []int16
}
