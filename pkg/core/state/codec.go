package state

import (
	"math/bits"

	"github.com/cayleygo/cayleygo/pkg/errors"
)

// Codec encodes states of a fixed size into fixed-width keys and back.
//
// Each element is packed MSB-first into width bits, mirroring how large
// searches keep billions of keys affordable: a cube state of 48 facelets
// with 6 colors packs into 18 bytes instead of 48 ints. Encoding is
// bijective for all states the codec accepts, so no collision policy is
// needed: Decode(Encode(s)) == s always.
//
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	n      int // elements per state
	width  int // bits per element
	keyLen int // bytes per key
}

// MaxWidth is the largest supported element width in bits. Elements are
// Go ints; 32 bits covers every practical alphabet while keeping the
// packing arithmetic in uint64.
const MaxWidth = 32

// NewCodec creates a codec for states of n elements drawn from [0, maxVal].
// The element width is chosen automatically as the fewest bits that can
// represent maxVal (at least 1).
func NewCodec(n, maxVal int) (*Codec, error) {
	if maxVal < 0 {
		return nil, errors.New(errors.ErrCodeInvalidState, "maxVal must be non-negative, got %d", maxVal)
	}
	width := bits.Len(uint(maxVal))
	if width == 0 {
		width = 1
	}
	return NewCodecWidth(n, width)
}

// NewCodecWidth creates a codec with an explicit element width in bits.
// Use this when keys must stay byte-compatible across runs with different
// alphabet sizes.
func NewCodecWidth(n, width int) (*Codec, error) {
	if n <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidState, "state size must be positive, got %d", n)
	}
	if width <= 0 || width > MaxWidth {
		return nil, errors.New(errors.ErrCodeInvalidState, "element width must be in [1, %d], got %d", MaxWidth, width)
	}
	return &Codec{
		n:      n,
		width:  width,
		keyLen: (n*width + 7) / 8,
	}, nil
}

// N returns the number of elements per state.
func (c *Codec) N() int { return c.n }

// Width returns the number of bits per element.
func (c *Codec) Width() int { return c.width }

// KeyLen returns the key length in bytes.
func (c *Codec) KeyLen() int { return c.keyLen }

// MaxValue returns the largest element value the codec can encode.
func (c *Codec) MaxValue() int {
	return int(uint64(1)<<uint(c.width)) - 1
}

// Encode packs s into its canonical key. It fails with an INVALID_STATE
// error when s has the wrong length or an element outside [0, MaxValue].
func (c *Codec) Encode(s State) (Key, error) {
	if len(s) != c.n {
		return "", errors.New(errors.ErrCodeInvalidState, "state has %d elements, codec expects %d", len(s), c.n)
	}
	maxVal := c.MaxValue()
	buf := make([]byte, c.keyLen)
	var acc uint64 // pending bits, MSB-aligned within accBits
	accBits := 0
	bi := 0
	for i, v := range s {
		if v < 0 || v > maxVal {
			return "", errors.New(errors.ErrCodeInvalidState, "element %d out of range: %d not in [0, %d]", i, v, maxVal)
		}
		acc = acc<<uint(c.width) | uint64(v)
		accBits += c.width
		for accBits >= 8 {
			accBits -= 8
			buf[bi] = byte(acc >> uint(accBits))
			bi++
		}
	}
	if accBits > 0 {
		// Left-align the trailing partial byte.
		buf[bi] = byte(acc << uint(8-accBits))
	}
	return Key(buf), nil
}

// Decode unpacks a key produced by Encode back into its state.
// It fails with an INVALID_KEY error when the key length does not match
// the codec. Decode always round-trips exactly: the codec is never
// one-way.
func (c *Codec) Decode(k Key) (State, error) {
	if len(k) != c.keyLen {
		return nil, errors.New(errors.ErrCodeInvalidKey, "key has %d bytes, codec expects %d", len(k), c.keyLen)
	}
	s := make(State, c.n)
	var acc uint64
	accBits := 0
	bi := 0
	for i := 0; i < c.n; i++ {
		for accBits < c.width {
			acc = acc<<8 | uint64(k[bi])
			accBits += 8
			bi++
		}
		accBits -= c.width
		s[i] = int((acc >> uint(accBits)) & (uint64(1)<<uint(c.width) - 1))
	}
	return s, nil
}

// MustEncode is Encode for states already validated by the caller.
// It panics on malformed input and exists for hot paths that encode
// states produced by generator application, which are valid by
// construction.
func (c *Codec) MustEncode(s State) Key {
	k, err := c.Encode(s)
	if err != nil {
		panic(err)
	}
	return k
}
