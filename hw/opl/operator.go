package opl

import "math"

//go:generate go tool stringer -type=envStage -trimprefix=env

type envStage uint8

const (
	envOff envStage = iota
	envAttack
	envDecay
	envSustain
	envRelease
)

// Envelope times, in milliseconds, for the slowest non-zero rate. Each rate
// step makes the envelope 4 times faster.
const (
	attackTimeMs = 2826.0
	decayTimeMs  = 39280.0
)

type operator struct {
	ch int // owning channel

	// $20-$35
	am      bool
	vib     bool
	sustain bool // EGT: hold at sustain level until key off
	ksr     bool
	mult    uint8

	// $40-$55
	ksl uint8
	tl  uint8

	// $60-$75, $80-$95
	ar, dr uint8
	sl, rr uint8

	// $E0-$F5
	wave uint8

	phase    uint32
	phaseInc uint32

	stage  envStage
	att    float64 // envelope attenuation in dB
	tlAtt  float64
	kslAtt float64

	attackStep  float64
	decayStep   float64
	releaseStep float64

	// last 2 outputs, for self-feedback
	prev [2]float64
}

// envRate returns the effective rate (0-63) for a 4-bit rate, given the
// channel key scale number.
func (op *operator) envRate(rate uint8, ksn uint8) int {
	if rate == 0 {
		return 0
	}
	off := int(ksn)
	if !op.ksr {
		off >>= 2
	}
	return min(int(rate)*4+off, 63)
}

func dbPerSample(timeMs float64, rof int, sampleRate float64) float64 {
	ms := timeMs / math.Exp2(float64(rof-4)/4)
	return maxAtt / (ms / 1000 * sampleRate)
}

// update recomputes the values derived from the operator registers and the
// frequency of its channel.
func (op *operator) update(ch *channel, sampleRate float64, nts bool) {
	freq := float64(ch.fnum) * nativeRate / math.Exp2(float64(20-ch.block))
	inc := freq * float64(multTable[op.mult]) / 2 / sampleRate * (1 << 32)
	op.phaseInc = uint32(min(inc, math.MaxUint32))

	ksn := ch.keyScaleNumber(nts)

	switch rof := op.envRate(op.ar, ksn); {
	case rof == 0:
		op.attackStep = 0
	case rof >= 60:
		op.attackStep = maxAtt
	default:
		op.attackStep = dbPerSample(attackTimeMs, rof, sampleRate)
	}

	op.decayStep = 0
	if rof := op.envRate(op.dr, ksn); rof > 0 {
		op.decayStep = dbPerSample(decayTimeMs, rof, sampleRate)
	}
	op.releaseStep = 0
	if rof := op.envRate(op.rr, ksn); rof > 0 {
		op.releaseStep = dbPerSample(decayTimeMs, rof, sampleRate)
	}

	op.tlAtt = float64(op.tl) * 0.75
	op.kslAtt = 0
	if op.ksl != 0 {
		att := kslTable[ch.fnum>>6] - 6*float64(7-ch.block)
		if att > 0 {
			op.kslAtt = att * kslScale[op.ksl]
		}
	}
}

func (op *operator) sustainLevel() float64 {
	if op.sl == 15 {
		return 93
	}
	return float64(op.sl) * 3
}

func (op *operator) keyOn() {
	op.phase = 0
	op.prev = [2]float64{}
	op.stage = envAttack
	if op.attackStep >= maxAtt {
		op.att = 0
		op.stage = envDecay
	}
}

func (op *operator) keyOff() {
	if op.stage != envOff {
		op.stage = envRelease
	}
}

func (op *operator) stepEnvelope() {
	switch op.stage {
	case envOff:
		return
	case envAttack:
		op.att -= op.attackStep
		if op.att <= 0 {
			op.att = 0
			op.stage = envDecay
		}
	case envDecay:
		op.att += op.decayStep
		if sl := op.sustainLevel(); op.att >= sl {
			op.att = sl
			op.stage = envSustain
		}
	case envSustain:
		if !op.sustain {
			op.att += op.releaseStep
		}
	case envRelease:
		op.att += op.releaseStep
	}

	if op.att >= maxAtt {
		op.att = maxAtt
		if op.stage == envRelease || op.stage == envSustain {
			op.stage = envOff
		}
	}
}

// next advances the operator by one sample and returns its output in
// [-1, 1]. mod is a phase offset, in cycles.
func (op *operator) next(c *Chip, mod float64) float64 {
	op.stepEnvelope()

	inc := op.phaseInc
	if op.vib {
		inc = uint32(float64(inc) * c.vibFactor)
	}
	op.phase += inc

	if op.stage == envOff {
		return 0
	}

	p := op.phase + uint32(int64(mod*(1<<32)))
	att := op.att + op.tlAtt + op.kslAtt
	if op.am {
		att += c.tremolo
	}

	wave := uint8(0)
	if c.waveSelect {
		wave = op.wave
	}
	return waveform(wave, p) * attToLin(att)
}
