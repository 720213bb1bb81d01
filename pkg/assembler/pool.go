package assembler

import (
	"github.com/smallo-lang/morty/pkg/types"
)

// Pool is the literal memory of a program. Every distinct literal gets one
// slot, numbered from 0 in first-use order.
//
// Identifiers are interned under their Symbol and start out as Null; a label
// declaration later overwrites the slot with the label's byte offset.
// Integers and strings are stored as themselves, so equal literals share a
// slot. A Symbol and a String with the same text are different keys.
type Pool struct {
	values []types.Value
	index  map[types.Value]int32
}

// NewPool creates an empty pool
func NewPool() *Pool {
	return &Pool{index: make(map[types.Value]int32)}
}

// Intern returns the slot for v, allocating one if v is new
func (p *Pool) Intern(v types.Value) int32 {
	if slot, ok := p.index[v]; ok {
		return slot
	}

	slot := int32(len(p.values))
	p.index[v] = slot
	if _, ok := v.(types.Symbol); ok {
		p.values = append(p.values, types.Null{})
	} else {
		p.values = append(p.values, v)
	}
	return slot
}

// Set overwrites the value held by a slot
func (p *Pool) Set(slot int32, v types.Value) {
	p.values[slot] = v
}

// Len returns the number of slots
func (p *Pool) Len() int {
	return len(p.values)
}

// Values returns a copy of the slots in order
func (p *Pool) Values() []types.Value {
	out := make([]types.Value, len(p.values))
	copy(out, p.values)
	return out
}
