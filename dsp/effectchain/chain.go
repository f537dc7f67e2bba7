package effectchain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEffect is returned when a node references an unregistered effect type.
	ErrUnknownEffect = errors.New("unknown effect type")
	// ErrUnknownNode is returned when an operation names a node that is not loaded.
	ErrUnknownNode = errors.New("unknown node")

	errDuplicateNode = errors.New("duplicate node id")
)

type nodeRuntime struct {
	id         string
	effectType string
	bypassed   bool
	runtime    Runtime
}

// Chain owns an ordered list of effect nodes. Blocks flow through the nodes in
// load order; bypassed nodes are skipped. A Chain is not safe for concurrent
// use. Parameter changes from other goroutines go through runtimes that
// support them, such as [BitCrushRuntime.Crusher].
type Chain struct {
	ctx      Context
	registry *Registry

	order []*nodeRuntime
	byID  map[string]*nodeRuntime
}

// New creates a Chain with the given context and registry.
func New(ctx Context, registry *Registry) *Chain {
	return &Chain{
		ctx:      ctx,
		registry: registry,
		byID:     make(map[string]*nodeRuntime),
	}
}

// SetContext updates the chain context (e.g., after sample rate change).
func (c *Chain) SetContext(ctx Context) {
	c.ctx = ctx
}

// Context returns the current chain context.
func (c *Chain) Context() Context {
	return c.ctx
}

// Len returns the number of loaded nodes.
func (c *Chain) Len() int {
	return len(c.order)
}

// IDs returns node IDs in processing order.
func (c *Chain) IDs() []string {
	ids := make([]string, len(c.order))
	for i, n := range c.order {
		ids[i] = n.id
	}

	return ids
}

// Load replaces the node list. Nodes whose ID and type match an already
// loaded node keep their runtime, so effect state survives a reload; they are
// reconfigured with the new params. Every node is validated on a fresh
// runtime before a kept runtime is touched, so on error the previous list and
// its parameters stay active.
func (c *Chain) Load(nodes []Params) error {
	order := make([]*nodeRuntime, 0, len(nodes))
	byID := make(map[string]*nodeRuntime, len(nodes))
	reused := make([]Params, 0, len(nodes))

	for _, node := range nodes {
		if node.ID == "" {
			node.ID = node.Type
		}

		if _, dup := byID[node.ID]; dup {
			return fmt.Errorf("effectchain: %w: %q", errDuplicateNode, node.ID)
		}

		runtime, err := c.newRuntime(node.Type)
		if err != nil {
			return fmt.Errorf("effectchain: node %q: %w", node.ID, err)
		}

		err = runtime.Configure(c.ctx, node)
		if err != nil {
			return fmt.Errorf("effectchain: configure node %q (%s): %w", node.ID, node.Type, err)
		}

		rt := c.byID[node.ID]
		if rt != nil && rt.effectType == node.Type {
			// Keep the live runtime; it is reconfigured once all nodes passed.
			rt = &nodeRuntime{id: rt.id, effectType: rt.effectType, runtime: rt.runtime}
			reused = append(reused, node)
		} else {
			rt = &nodeRuntime{id: node.ID, effectType: node.Type, runtime: runtime}
		}

		rt.bypassed = node.Bypassed
		order = append(order, rt)
		byID[node.ID] = rt
	}

	for _, node := range reused {
		rt := byID[node.ID]

		err := rt.runtime.Configure(c.ctx, node)
		if err != nil {
			return fmt.Errorf("effectchain: configure node %q (%s): %w", node.ID, node.Type, err)
		}
	}

	c.order = order
	c.byID = byID

	return nil
}

// Configure forwards params to the runtime of node id. The node's type and
// bypass flag are not changed.
func (c *Chain) Configure(id string, params Params) error {
	rt := c.byID[id]
	if rt == nil {
		return fmt.Errorf("effectchain: %w: %q", ErrUnknownNode, id)
	}

	params.ID = id
	params.Type = rt.effectType

	err := rt.runtime.Configure(c.ctx, params)
	if err != nil {
		return fmt.Errorf("effectchain: configure node %q (%s): %w", id, rt.effectType, err)
	}

	return nil
}

// SetBypassed toggles whether node id processes audio.
func (c *Chain) SetBypassed(id string, bypassed bool) error {
	rt := c.byID[id]
	if rt == nil {
		return fmt.Errorf("effectchain: %w: %q", ErrUnknownNode, id)
	}

	rt.bypassed = bypassed

	return nil
}

// Bypassed reports whether node id is loaded and bypassed.
func (c *Chain) Bypassed(id string) bool {
	rt := c.byID[id]
	return rt != nil && rt.bypassed
}

// NodeRuntime returns the runtime of node id, or nil.
func (c *Chain) NodeRuntime(id string) Runtime {
	rt := c.byID[id]
	if rt == nil {
		return nil
	}

	return rt.runtime
}

// ProcessBlock runs block through every active node in order, in place.
func (c *Chain) ProcessBlock(block []int16) []int16 {
	if block == nil {
		return nil
	}

	for _, n := range c.order {
		if n.bypassed {
			continue
		}

		block = n.runtime.ProcessBlock(block)
	}

	return block
}

// Reset drops all nodes.
func (c *Chain) Reset() {
	c.order = nil
	c.byID = make(map[string]*nodeRuntime)
}

func (c *Chain) newRuntime(effectType string) (Runtime, error) {
	if c.registry == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEffect, effectType)
	}

	factory := c.registry.Lookup(effectType)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEffect, effectType)
	}

	runtime, err := factory(c.ctx)
	if err != nil {
		return nil, err
	}

	if runtime == nil {
		return nil, fmt.Errorf("%w: %s returned no runtime", ErrUnknownEffect, effectType)
	}

	return runtime, nil
}
