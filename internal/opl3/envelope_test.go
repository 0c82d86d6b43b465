package opl3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newAttackSlot() (*Chip, *Slot) {
	c := NewChip(nil)
	s := c.slotAt(0)
	s.egGen = egGenAttack
	s.egKey = egKeyNormal
	s.egRates = [4]uint8{15, 4, 0, 5}
	s.pgNotReset = true
	return c, s
}

func TestEgUpdateInstantAttackZeroesRoutImmediately(t *testing.T) {
	c := NewChip(nil)
	s := c.slotAt(0)
	// A key-on arriving while the envelope is still in Release is the
	// one tick notreset goes false; with the rate clamped to its
	// maximum the reference snaps eg_rout to 0 right on that tick.
	s.egGen = egGenRelease
	s.egKey = egKeyNormal
	s.egKs = 60
	s.egRates = [4]uint8{15, 4, 0, 5}
	s.egRout = 0x100
	egUpdate(c, s)
	assert.Equal(t, int32(0), s.egRout)
	assert.Equal(t, int32(egGenAttack), s.egGen)
}

func TestEgUpdateTransitionsAttackToDecayAtZero(t *testing.T) {
	c, s := newAttackSlot()
	s.egRout = 0
	egUpdate(c, s)
	assert.Equal(t, int32(egGenDecay), s.egGen)
}

func TestEgUpdateTransitionsDecayToSustainAtSustainLevel(t *testing.T) {
	c := NewChip(nil)
	s := c.slotAt(0)
	s.egGen = egGenDecay
	s.egKey = egKeyNormal
	s.egSl = 4
	s.egRout = 4 << 4 // (egRout >> 4) == sl
	s.egRates = [4]uint8{0, 0, 0, 0}
	egUpdate(c, s)
	assert.Equal(t, int32(egGenSustain), s.egGen)
}

func TestEgUpdateKeyOffForcesRelease(t *testing.T) {
	c := NewChip(nil)
	s := c.slotAt(0)
	s.egGen = egGenSustain
	s.egKey = 0
	egUpdate(c, s)
	assert.Equal(t, int32(egGenRelease), s.egGen)
}

func TestEgUpdateKeepsRoutWithinValidRange(t *testing.T) {
	c := NewChip(nil)
	for slot := 0; slot < slotNumMax; slot++ {
		s := c.slotAt(slot)
		s.egKey = egKeyNormal
		s.egRates = [4]uint8{8, 5, 3, 6}
	}
	for tick := 0; tick < 5000; tick++ {
		c.Tick()
		for slot := 0; slot < slotNumMax; slot++ {
			rout := c.slotAt(slot).egRout
			assert.GreaterOrEqual(t, rout, int32(0))
			assert.LessOrEqual(t, rout, int32(0x1FF))
		}
	}
}

func TestPow2m1lt4Table(t *testing.T) {
	assert.Equal(t, int32(0), pow2m1lt4(0))
	assert.Equal(t, int32(1), pow2m1lt4(1))
	assert.Equal(t, int32(2), pow2m1lt4(2))
	assert.Equal(t, int32(4), pow2m1lt4(3))
}

func TestEgUpdateKslShiftMonotonicWithBlock(t *testing.T) {
	c := NewChip(nil)
	ch := c.channelAt(0)
	ch.pgFnum = 0x3FF

	s := c.slotAt(0)
	s.ksl = 1

	ch.pgBlock = 0
	c.egUpdateKsl(0)
	lowBlock := s.egKslSh

	ch.pgBlock = 7
	c.egUpdateKsl(0)
	highBlock := s.egKslSh

	assert.GreaterOrEqual(t, highBlock, lowBlock)
}
