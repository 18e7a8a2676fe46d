package hwio

import (
	"fmt"

	"github.com/NSBrianWard/IMFPlayer/log"
)

// Table is an 8-bit register address space, as found on chips addressed
// through an index port followed by a data port.
type Table struct {
	Name string

	regs [256]*Reg8
}

func NewTable(name string) *Table {
	return &Table{Name: name}
}

// MapReg8 maps reg at addr. Mapping twice the same address panics.
func (t *Table) MapReg8(addr uint8, reg *Reg8) {
	if t.regs[addr] != nil {
		panic(fmt.Sprintf("%s: address %02x already mapped to %s", t.Name, addr, t.regs[addr].Name))
	}
	t.regs[addr] = reg
}

// Mapped reports whether a register is mapped at addr.
func (t *Table) Mapped(addr uint8) bool {
	return t.regs[addr] != nil
}

// Write8 writes val into the register mapped at addr. Writes to unmapped
// addresses are ignored.
func (t *Table) Write8(addr uint8, val uint8) {
	reg := t.regs[addr]
	if reg == nil {
		log.ModSynth.DebugZ("unmapped Write8").
			String("table", t.Name).
			Hex8("addr", addr).
			Hex8("val", val).
			End()
		return
	}
	reg.Write8(val)
}

// Read8 returns the value of the register mapped at addr, or 0 if none is.
// Reads have no side effects.
func (t *Table) Read8(addr uint8) uint8 {
	if reg := t.regs[addr]; reg != nil {
		return reg.Read8()
	}
	return 0
}
