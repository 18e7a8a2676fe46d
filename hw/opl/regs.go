package opl

import (
	"fmt"

	"github.com/NSBrianWard/IMFPlayer/hw/hwio"
	"github.com/NSBrianWard/IMFPlayer/log"
)

// Register groups. Operator registers are followed by the register offset of
// the operator slot (see slotIndex), channel registers by the channel number.
const (
	regTest     = 0x01 // bit 5: waveform select enable
	regCSM      = 0x08 // bit 6: note select
	regAVEKM    = 0x20 // AM, VIB, EGT, KSR, MULT
	regKSLTL    = 0x40 // KSL, TL
	regARDR     = 0x60 // attack rate, decay rate
	regSLRR     = 0x80 // sustain level, release rate
	regFnumLo   = 0xA0 // F-number low 8 bits
	regKeyBlock = 0xB0 // key on, block, F-number high 2 bits
	regRhythm   = 0xBD // AM depth, VIB depth, rhythm
	regFbCnt    = 0xC0 // feedback, connection
	regWave     = 0xE0 // waveform select
)

func (c *Chip) mapReg(addr uint8, name string, wcb func(old, val uint8)) {
	reg := &c.regfile[addr]
	reg.Name = name
	reg.WriteCb = wcb
	c.regs.MapReg8(addr, reg)
}

func (c *Chip) mapRegs() {
	c.mapReg(regTest, "TEST", c.writeTest)
	c.mapReg(regCSM, "CSM", c.writeCSM)
	c.mapReg(regRhythm, "RHYTHM", c.writeRhythm)

	for off, slot := range slotIndex {
		if slot < 0 {
			continue
		}
		op := &c.ops[slot]
		o := uint8(off)
		c.mapReg(regAVEKM+o, fmt.Sprintf("AVEKM%d", slot), func(_, val uint8) {
			op.am = hwio.GetBit8(val, 7)
			op.vib = hwio.GetBit8(val, 6)
			op.sustain = hwio.GetBit8(val, 5)
			op.ksr = hwio.GetBit8(val, 4)
			op.mult = hwio.Bits8(val, 0, 4)
			c.updateChannel(op.ch)
		})
		c.mapReg(regKSLTL+o, fmt.Sprintf("KSLTL%d", slot), func(_, val uint8) {
			op.ksl = hwio.Bits8(val, 6, 2)
			op.tl = hwio.Bits8(val, 0, 6)
			c.updateChannel(op.ch)
		})
		c.mapReg(regARDR+o, fmt.Sprintf("ARDR%d", slot), func(_, val uint8) {
			op.ar = hwio.Bits8(val, 4, 4)
			op.dr = hwio.Bits8(val, 0, 4)
			c.updateChannel(op.ch)
		})
		c.mapReg(regSLRR+o, fmt.Sprintf("SLRR%d", slot), func(_, val uint8) {
			op.sl = hwio.Bits8(val, 4, 4)
			op.rr = hwio.Bits8(val, 0, 4)
			c.updateChannel(op.ch)
		})
		c.mapReg(regWave+o, fmt.Sprintf("WAVE%d", slot), func(_, val uint8) {
			op.wave = hwio.Bits8(val, 0, 2)
		})
	}

	for i := range c.chans {
		ch := &c.chans[i]
		c.mapReg(regFnumLo+uint8(i), fmt.Sprintf("FNUM%d", i), func(_, val uint8) {
			ch.fnum = ch.fnum&0x300 | uint16(val)
			c.updateChannel(i)
		})
		c.mapReg(regKeyBlock+uint8(i), fmt.Sprintf("KEYBLOCK%d", i), func(_, val uint8) {
			ch.fnum = ch.fnum&0xFF | uint16(hwio.Bits8(val, 0, 2))<<8
			ch.block = hwio.Bits8(val, 2, 3)
			c.updateChannel(i)
			c.setKey(i, hwio.GetBit8(val, 5))
		})
		c.mapReg(regFbCnt+uint8(i), fmt.Sprintf("FBCNT%d", i), func(_, val uint8) {
			ch.feedback = hwio.Bits8(val, 1, 3)
			ch.additive = hwio.GetBit8(val, 0)
		})
	}
}

func (c *Chip) setKey(idx int, on bool) {
	ch := &c.chans[idx]
	if on == ch.keyOn {
		return
	}
	ch.keyOn = on

	if on {
		c.ops[ch.mod].keyOn()
		c.ops[ch.car].keyOn()
	} else {
		c.ops[ch.mod].keyOff()
		c.ops[ch.car].keyOff()
	}

	log.ModSynth.DebugZ("key").
		Int("chan", idx).
		Bool("on", on).
		Hex16("fnum", ch.fnum).
		Uint8("block", ch.block).
		End()
}

func (c *Chip) writeTest(_, val uint8) {
	c.waveSelect = hwio.GetBit8(val, 5)
}

func (c *Chip) writeCSM(_, val uint8) {
	c.noteSel = hwio.GetBit8(val, 6)
	for i := range c.chans {
		c.updateChannel(i)
	}
}

func (c *Chip) writeRhythm(old, val uint8) {
	c.deepAM = hwio.GetBit8(val, 7)
	c.deepVib = hwio.GetBit8(val, 6)
	if hwio.GetBit8(val, 5) && !hwio.GetBit8(old, 5) {
		log.ModSynth.DebugZ("rhythm mode requested, channels 6-8 stay melodic").End()
	}
}
