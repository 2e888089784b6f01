package pir

import (
	"math/bits"
)

// StringCodec packs an arbitrary byte string into the coefficients of a single
// plaintext polynomial and unpacks it back. Each coefficient carries one bit
// less than the plaintext modulus width, leaving headroom for a homomorphic
// multiplication by a selection bit without overflowing the modulus.
//
// The codec holds no key material and performs no encryption; it is a pure
// transformation parameterized by the scheme's plaintext capacity.
type StringCodec struct {
	coeffBits int
	degree    int
}

// NewStringCodec returns a codec for plaintexts with degree coefficients
// modulo t.
func NewStringCodec(t uint64, degree int) *StringCodec {
	return &StringCodec{
		coeffBits: bits.Len64(t) - 1,
		degree:    degree,
	}
}

// CoeffBits returns the number of payload bits packed per coefficient.
func (c *StringCodec) CoeffBits() int {
	return c.coeffBits
}

// CoeffCount returns the number of coefficients needed to hold n bytes.
func (c *StringCodec) CoeffCount(n int) int {
	return (n*8 + c.coeffBits - 1) / c.coeffBits
}

// Capacity returns the largest byte string length that fits in one plaintext.
func (c *StringCodec) Capacity() int {
	return c.degree * c.coeffBits / 8
}

// Encode packs s into coefficients, most significant bits first, earliest
// coefficients first. It returns ErrInvalidArgument if s needs more
// coefficients than one plaintext holds; input is never truncated. An empty
// string encodes to zero coefficients.
func (c *StringCodec) Encode(s []byte) ([]uint64, error) {
	need := c.CoeffCount(len(s))
	if need > c.degree {
		return nil, invalidf("string of %d bytes needs %d coefficients, plaintext holds %d", len(s), need, c.degree)
	}

	coeffs := make([]uint64, need)
	var acc uint64
	var accBits, i int
	for _, b := range s {
		acc = acc<<8 | uint64(b)
		accBits += 8
		for accBits >= c.coeffBits {
			accBits -= c.coeffBits
			coeffs[i] = acc >> uint(accBits)
			acc &= 1<<uint(accBits) - 1
			i++
		}
	}
	// Left-align the remaining bits in the last coefficient.
	if accBits > 0 {
		coeffs[i] = acc << uint(c.coeffBits-accBits)
	}
	return coeffs, nil
}

// Decode reverses Encode. The result is at least as long as the original
// input; the codec does not know the original length, but guarantees that
// every byte past the payload is zero, so callers that track the length can
// slice and callers that do not still get a deterministic result. Bits that do
// not fill a whole byte are dropped; Encode only leaves zeros there.
func (c *StringCodec) Decode(coeffs []uint64) []byte {
	out := make([]byte, 0, len(coeffs)*c.coeffBits/8)
	var acc uint64
	var accBits int
	for _, co := range coeffs {
		acc = acc<<uint(c.coeffBits) | co&(1<<uint(c.coeffBits)-1)
		accBits += c.coeffBits
		for accBits >= 8 {
			accBits -= 8
			out = append(out, byte(acc>>uint(accBits)))
			acc &= 1<<uint(accBits) - 1
		}
	}
	return out
}
