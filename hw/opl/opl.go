// Package opl implements a compact FM synthesizer driven through the register
// map of the Yamaha YM3812 (OPL2).
//
// The model covers the 9 melodic 2-operator channels: frequency and block,
// key on/off, ADSR envelopes with key scaling, total level, key scale level,
// frequency multipliers, self-feedback, FM and additive connections, the 4
// selectable waveforms, tremolo and vibrato. It is not cycle accurate and
// rhythm mode channels are played as melodic ones.
package opl

import (
	"math"

	"github.com/NSBrianWard/IMFPlayer/hw/hwio"
	"github.com/NSBrianWard/IMFPlayer/log"
)

const (
	numChannels = 9
	numSlots    = 18

	// nativeRate is the chip sample rate (14.31818MHz / 288), F-numbers are
	// relative to it.
	nativeRate = 49716.0

	// Per-channel output amplitude, a busy mix goes past the 16-bit range.
	channelAmplitude = 4096

	tremoloRate = 3.7 // Hz
	vibratoRate = 6.1 // Hz
)

type channel struct {
	mod, car int // slot indices

	fnum     uint16
	block    uint8
	keyOn    bool
	feedback uint8
	additive bool
}

// keyScaleNumber returns the 4-bit key scale number of the channel. The
// note select bit picks which F-number bit refines the block.
func (ch *channel) keyScaleNumber(nts bool) uint8 {
	if nts {
		return ch.block<<1 | uint8(ch.fnum>>8)&1
	}
	return ch.block<<1 | uint8(ch.fnum>>9)
}

// Chip is an OPL2 FM synthesizer generating mono samples.
type Chip struct {
	regs    *hwio.Table
	regfile [256]hwio.Reg8

	sampleRate float64

	ops   [numSlots]operator
	chans [numChannels]channel

	waveSelect bool
	noteSel    bool
	deepAM     bool
	deepVib    bool

	lfoAM     float64 // tremolo LFO phase, in cycles
	lfoVib    float64 // vibrato LFO phase, in cycles
	tremolo   float64 // current tremolo attenuation, in dB
	vibFactor float64 // current vibrato frequency factor

	closed bool
}

// New creates a chip generating samples at sampleRate Hz.
func New(sampleRate int) *Chip {
	if sampleRate <= 0 {
		panic("opl: invalid sample rate")
	}
	c := &Chip{
		regs:       hwio.NewTable("opl2"),
		sampleRate: float64(sampleRate),
	}
	for i := range c.chans {
		c.chans[i].mod = slotIndex[chanOffsets[i]]
		c.chans[i].car = slotIndex[chanOffsets[i]+3]
		c.ops[c.chans[i].mod].ch = i
		c.ops[c.chans[i].car].ch = i
	}
	c.mapRegs()
	c.Reset()

	log.ModSynth.InfoZ("opl2 created").Int("rate", sampleRate).End()
	return c
}

// Reset silences all channels and clears all registers.
func (c *Chip) Reset() {
	for addr := range c.regfile {
		c.regfile[addr].Value = 0
	}
	for i := range c.ops {
		ch := c.ops[i].ch
		c.ops[i] = operator{ch: ch, att: maxAtt}
	}
	for i := range c.chans {
		ch := &c.chans[i]
		ch.fnum, ch.block, ch.keyOn, ch.feedback, ch.additive = 0, 0, false, 0, false
		c.updateChannel(i)
	}
	c.waveSelect, c.noteSel, c.deepAM, c.deepVib = false, false, false, false
	c.lfoAM, c.lfoVib = 0, 0
	c.tremolo, c.vibFactor = 0, 1
}

// WriteReg writes val into the chip register reg.
func (c *Chip) WriteReg(reg, val uint8) {
	if c.closed {
		return
	}
	log.ModSynth.DebugZ("write reg").Hex8("reg", reg).Hex8("val", val).End()
	c.regs.Write8(reg, val)
}

// ReadReg returns the last value written to register reg.
func (c *Chip) ReadReg(reg uint8) uint8 {
	return c.regs.Read8(reg)
}

// Generate fills out with mono samples, reflecting all register writes
// issued so far.
func (c *Chip) Generate(out []int32) {
	if c.closed {
		clear(out)
		return
	}

	for i := range out {
		c.tickLFO()

		var mix float64
		for ch := range c.chans {
			mix += c.channelOutput(&c.chans[ch])
		}
		out[i] = int32(mix * channelAmplitude)
	}
}

// Close releases the chip. Further writes are ignored and Generate produces
// silence. Close is idempotent.
func (c *Chip) Close() error {
	if !c.closed {
		c.closed = true
		log.ModSynth.InfoZ("opl2 closed").End()
	}
	return nil
}

func (c *Chip) tickLFO() {
	c.lfoAM += tremoloRate / c.sampleRate
	if c.lfoAM >= 1 {
		c.lfoAM--
	}
	c.lfoVib += vibratoRate / c.sampleRate
	if c.lfoVib >= 1 {
		c.lfoVib--
	}

	// triangle in [0, 1]
	tri := 1 - math.Abs(2*c.lfoAM-1)
	depth := 1.0
	if c.deepAM {
		depth = 4.8
	}
	c.tremolo = tri * depth

	cents := 7.0
	if c.deepVib {
		cents = 14
	}
	c.vibFactor = 1 + (math.Exp2(cents/1200)-1)*math.Sin(2*math.Pi*c.lfoVib)
}

func (c *Chip) channelOutput(ch *channel) float64 {
	mod := &c.ops[ch.mod]
	car := &c.ops[ch.car]
	if mod.stage == envOff && car.stage == envOff {
		return 0
	}

	var fb float64
	if ch.feedback != 0 {
		fb = (mod.prev[0] + mod.prev[1]) / 2 * float64(int(1)<<ch.feedback) / 64
	}
	m := mod.next(c, fb)
	mod.prev[1] = mod.prev[0]
	mod.prev[0] = m

	if ch.additive {
		return m + car.next(c, 0)
	}
	return car.next(c, 2*m)
}

// updateChannel recomputes the derived values of both operators of a channel.
func (c *Chip) updateChannel(idx int) {
	ch := &c.chans[idx]
	c.ops[ch.mod].update(ch, c.sampleRate, c.noteSel)
	c.ops[ch.car].update(ch, c.sampleRate, c.noteSel)
}
