package pcg

import (
	"encoding/binary"
	"math/bits"
)

// T is a pcg generator. The zero value is invalid.
type T struct {
	State uint64
	Inc   uint64
}

const mul = 6364136223846793005

// New constructs a pcg with the given state and inc.
func New(state, inc uint64) T {
	// this code is equiv to initializing a pcg with a 0 state and the updated
	// inc and running
	//
	//    p.Uint32()
	//    p.State += state
	//    p.Uint32()
	//
	// to get the generator started
	inc = inc<<1 | 1
	return T{
		State: (inc+state)*mul + inc,
		Inc:   inc,
	}
}

// Uint32 returns a random uint32.
func (p *T) Uint32() uint32 {
	// update the state (LCG step)
	oldstate := p.State
	p.State = oldstate*mul + p.Inc

	// apply the output permutation to the old state
	// NOTE: this should be a right rotate but a left rotate is sufficient for
	// the output compression function, and is significantly faster.

	xorshift := uint32(((oldstate >> 18) ^ oldstate) >> 27)
	return bits.RotateLeft32(xorshift, int(oldstate>>59))
}

// Fill overwrites buf with random bytes. Two generators constructed with the
// same arguments fill identical contents.
func (p *T) Fill(buf []byte) {
	for len(buf) >= 4 {
		binary.LittleEndian.PutUint32(buf, p.Uint32())
		buf = buf[4:]
	}
	if len(buf) > 0 {
		v := p.Uint32()
		for i := range buf {
			buf[i] = byte(v >> (8 * uint(i)))
		}
	}
}

// Bytes returns n random bytes.
func (p *T) Bytes(n int) []byte {
	buf := make([]byte, n)
	p.Fill(buf)
	return buf
}
