package effectchain

import "github.com/cwbudde/algo-lofi/dsp/effects"

const (
	// TypeBitCrush is the registry name of the drive-controlled bit crusher.
	TypeBitCrush = "bitcrush"
	// TypeGain is the registry name of the trim gain stage.
	TypeGain = "gain"
)

// RegisterDefaults adds the built-in effect runtimes to r.
func RegisterDefaults(r *Registry) error {
	err := r.Register(TypeBitCrush, func(_ Context) (Runtime, error) {
		return &BitCrushRuntime{fx: effects.NewBitCrusher()}, nil
	})
	if err != nil {
		return err
	}

	return r.Register(TypeGain, func(_ Context) (Runtime, error) {
		return &gainRuntime{gain: 1}, nil
	})
}

// DefaultRegistry returns a Registry pre-populated with the built-in runtimes.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	if err := RegisterDefaults(r); err != nil {
		panic("effectchain registry: " + err.Error())
	}

	return r
}
