// Package wide implements the fixed-capacity unsigned integer used as the
// adder's alignment buffer.
//
// A Uint behaves like a hardware register of Len() bits: bits shifted or
// carried past the capacity are discarded and shifts by Len() or more clear
// the register.
package wide

import "math/bits"

// Uint is an unsigned integer of fixed bit capacity, stored little-endian in
// 64-bit words. Methods mutate the receiver and return it for chaining.
type Uint struct {
	words []uint64
	n     uint
}

// New returns a zero Uint with capacity for n bits.
func New(n uint) *Uint {
	return &Uint{words: make([]uint64, (n+63)/64), n: n}
}

// Len returns the bit capacity.
func (z *Uint) Len() uint { return z.n }

// SetUint64 sets z to v truncated to the capacity.
func (z *Uint) SetUint64(v uint64) *Uint {
	clear(z.words)
	if len(z.words) > 0 {
		z.words[0] = v
	}
	z.trim()
	return z
}

// Set copies x into z, truncating to z's capacity.
func (z *Uint) Set(x *Uint) *Uint {
	clear(z.words)
	copy(z.words, x.words)
	z.trim()
	return z
}

// Clone returns an independent copy of z.
func (z *Uint) Clone() *Uint {
	c := New(z.n)
	copy(c.words, z.words)
	return c
}

// Uint64 returns the low 64 bits.
func (z *Uint) Uint64() uint64 {
	if len(z.words) == 0 {
		return 0
	}
	return z.words[0]
}

func (z *Uint) trim() {
	if r := z.n % 64; r != 0 && len(z.words) > 0 {
		z.words[len(z.words)-1] &= 1<<r - 1
	}
}

// Lsh shifts z left by s bits.
func (z *Uint) Lsh(s uint) *Uint {
	if s >= z.n {
		clear(z.words)
		return z
	}
	ws, bs := int(s/64), s%64
	for i := len(z.words) - 1; i >= 0; i-- {
		var v uint64
		if j := i - ws; j >= 0 {
			v = z.words[j] << bs
			if bs != 0 && j > 0 {
				v |= z.words[j-1] >> (64 - bs)
			}
		}
		z.words[i] = v
	}
	z.trim()
	return z
}

// Rsh shifts z right by s bits. A shift of Len() or more yields zero.
func (z *Uint) Rsh(s uint) *Uint {
	if s >= z.n {
		clear(z.words)
		return z
	}
	ws, bs := int(s/64), s%64
	for i := range z.words {
		var v uint64
		if j := i + ws; j < len(z.words) {
			v = z.words[j] >> bs
			if bs != 0 && j+1 < len(z.words) {
				v |= z.words[j+1] << (64 - bs)
			}
		}
		z.words[i] = v
	}
	return z
}

// Add sets z = z + x, discarding the carry out of the capacity.
func (z *Uint) Add(x *Uint) *Uint {
	var carry uint64
	for i := range z.words {
		var xi uint64
		if i < len(x.words) {
			xi = x.words[i]
		}
		z.words[i], carry = bits.Add64(z.words[i], xi, carry)
	}
	z.trim()
	return z
}

// Sub sets z = z - x. The caller guarantees z >= x.
func (z *Uint) Sub(x *Uint) *Uint {
	var borrow uint64
	for i := range z.words {
		var xi uint64
		if i < len(x.words) {
			xi = x.words[i]
		}
		z.words[i], borrow = bits.Sub64(z.words[i], xi, borrow)
	}
	z.trim()
	return z
}

// Cmp returns -1, 0 or +1 as z is less than, equal to or greater than x.
func (z *Uint) Cmp(x *Uint) int {
	n := max(len(z.words), len(x.words))
	for i := n - 1; i >= 0; i-- {
		var a, b uint64
		if i < len(z.words) {
			a = z.words[i]
		}
		if i < len(x.words) {
			b = x.words[i]
		}
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

// IsZero reports whether z == 0.
func (z *Uint) IsZero() bool {
	for _, w := range z.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// BitLen returns the position of the highest set bit plus one, or 0 for zero.
func (z *Uint) BitLen() uint {
	for i := len(z.words) - 1; i >= 0; i-- {
		if z.words[i] != 0 {
			return uint(i)*64 + uint(bits.Len64(z.words[i]))
		}
	}
	return 0
}

// Bit returns bit i (0 or 1). Positions outside the capacity read as 0.
func (z *Uint) Bit(i uint) uint {
	if i >= z.n {
		return 0
	}
	return uint(z.words[i/64]>>(i%64)) & 1
}

// AnyBelow reports whether any bit in [0, k) is set.
func (z *Uint) AnyBelow(k uint) bool {
	k = min(k, z.n)
	full := int(k / 64)
	for i := 0; i < full; i++ {
		if z.words[i] != 0 {
			return true
		}
	}
	if r := k % 64; r != 0 {
		return z.words[full]&(1<<r-1) != 0
	}
	return false
}

// Mask clears every bit at position k and above.
func (z *Uint) Mask(k uint) *Uint {
	if k >= z.n {
		return z
	}
	full := int(k / 64)
	if r := k % 64; r != 0 {
		z.words[full] &= 1<<r - 1
		full++
	}
	clear(z.words[full:])
	return z
}
