package effectchain

import (
	"maps"
	"math"
)

// Params describes one chain node: its identity, effect type, bypass flag and
// numeric parameters such as "drive", "outputGain" or "gainDb".
type Params struct {
	ID       string
	Type     string
	Bypassed bool
	Num      map[string]float64
}

// GetNum returns Num[key], or def when the key is absent or not finite.
// Range checks are left to the runtime.
func (p Params) GetNum(key string, def float64) float64 {
	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}

	return v
}

// WithDefault returns a copy of p in which key is set to v unless p already
// carries it. The receiver's map is never modified.
func (p Params) WithDefault(key string, v float64) Params {
	if _, ok := p.Num[key]; ok {
		return p
	}

	num := maps.Clone(p.Num)
	if num == nil {
		num = make(map[string]float64, 1)
	}

	num[key] = v
	p.Num = num

	return p
}
