package vte

import (
	"fmt"
	"strings"
)

// MaxParams bounds how many numeric fields a single CSI sequence can
// carry (params plus colon-separated subparams), matching the cap real
// terminals apply so a malformed sequence can't grow this unbounded.
const MaxParams = 32

// Params accumulates the numeric fields of one CSI sequence as the
// parser scans it: a flat array of up to MaxParams values, grouped into
// semicolon-separated parameters that may themselves carry
// colon-separated subparameters (e.g. the extended SGR colour forms
// `38:2:r:g:b`).
type Params struct {
	subparams [MaxParams]uint8
	params    [MaxParams]uint16

	currentSubparams uint8
	len              int
}

// NewParams returns an empty Params ready for Push/Extend.
func NewParams() *Params {
	return &Params{}
}

// Len reports the total count of parameters plus subparameters.
func (p *Params) Len() int {
	return p.len
}

// IsEmpty reports whether nothing has been pushed yet.
func (p *Params) IsEmpty() bool {
	return p.len == 0
}

// IsFull reports whether the buffer has hit MaxParams.
func (p *Params) IsFull() bool {
	return p.len >= MaxParams
}

// Clear resets p for reuse between sequences.
func (p *Params) Clear() {
	p.currentSubparams = 0
	p.len = 0
	for i := range p.subparams {
		p.subparams[i] = 0
	}
	for i := range p.params {
		p.params[i] = 0
	}
}

// Push starts a new semicolon-delimited parameter group.
func (p *Params) Push(value uint16) {
	if p.IsFull() {
		return
	}
	p.params[p.len] = value
	p.subparams[p.len] = 1
	p.currentSubparams = 0
	p.len++
}

// Extend appends a colon-delimited subparameter to the current group,
// falling back to Push when there's no open group to extend.
func (p *Params) Extend(value uint16) {
	if p.IsFull() {
		return
	}
	if p.len == 0 {
		p.Push(value)
		return
	}

	groupStart := p.len - 1
	for groupStart >= 0 && p.subparams[groupStart] == 0 {
		groupStart--
	}
	if groupStart < 0 {
		p.Push(value)
		return
	}

	p.params[p.len] = value
	p.subparams[p.len] = 0
	p.subparams[groupStart]++
	p.currentSubparams++
	p.len++
}

// Iter walks the flat buffer back into its parameter groups, each a
// slice of the group's main value followed by any subparameters.
func (p *Params) Iter() [][]uint16 {
	if p.len == 0 {
		return nil
	}

	var result [][]uint16
	i := 0
	for i < p.len {
		count := int(p.subparams[i])
		if count == 0 {
			i++
			continue
		}
		group := make([]uint16, 0, count)
		for j := 0; j < count && i+j < p.len; j++ {
			group = append(group, p.params[i+j])
		}
		result = append(result, group)
		i += count
	}
	return result
}

// String renders p as `Params{1;2:3;4}`, mainly for parser-level test
// failure messages.
func (p *Params) String() string {
	iter := p.Iter()
	if len(iter) == 0 {
		return "Params{}"
	}

	var parts []string
	for _, group := range iter {
		if len(group) == 1 {
			parts = append(parts, fmt.Sprintf("%d", group[0]))
		} else {
			var subparts []string
			for _, v := range group {
				subparts = append(subparts, fmt.Sprintf("%d", v))
			}
			parts = append(parts, strings.Join(subparts, ":"))
		}
	}

	return fmt.Sprintf("Params{%s}", strings.Join(parts, ";"))
}
