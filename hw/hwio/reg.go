package hwio

import (
	"fmt"
)

// Reg8 is an 8-bit write-mostly register. Bits set in RoMask keep their value
// on writes. WriteCb, when set, is called after each write with the previous
// and the new value.
type Reg8 struct {
	Name   string
	Value  uint8
	RoMask uint8

	WriteCb func(old uint8, val uint8)
}

func (reg Reg8) String() string {
	s := fmt.Sprintf("%s{%02x", reg.Name, reg.Value)
	if reg.WriteCb != nil {
		s += ",w!"
	}
	return s + "}"
}

func (reg *Reg8) Write8(val uint8) {
	old := reg.Value
	reg.Value = (reg.Value & reg.RoMask) | (val &^ reg.RoMask)
	if reg.WriteCb != nil {
		reg.WriteCb(old, reg.Value)
	}
}

func (reg *Reg8) Read8() uint8 {
	return reg.Value
}
