package state

import (
	"testing"

	"github.com/cayleygo/cayleygo/pkg/errors"
)

func TestNewCodec(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		maxVal    int
		wantWidth int
		wantLen   int
		wantErr   bool
	}{
		{"binary alphabet", 8, 1, 1, 1, false},
		{"permutation of 3", 3, 2, 2, 1, false},
		{"permutation of 16", 16, 15, 4, 8, false},
		{"six colors", 48, 5, 3, 18, false},
		{"maxVal zero still one bit", 4, 0, 1, 1, false},
		{"negative maxVal", 4, -1, 0, 0, true},
		{"zero size", 0, 3, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCodec(tt.n, tt.maxVal)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewCodec(%d, %d) error = %v, wantErr %v", tt.n, tt.maxVal, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if c.Width() != tt.wantWidth {
				t.Errorf("Width() = %d, want %d", c.Width(), tt.wantWidth)
			}
			if c.KeyLen() != tt.wantLen {
				t.Errorf("KeyLen() = %d, want %d", c.KeyLen(), tt.wantLen)
			}
		})
	}
}

func TestCodecRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		width int
		s     State
	}{
		{"identity of 3", 3, 2, State{0, 1, 2}},
		{"permutation of 8", 8, 3, State{7, 0, 3, 1, 6, 2, 5, 4}},
		{"repeated symbols", 6, 2, State{0, 0, 1, 1, 2, 2}},
		{"single element", 1, 5, State{19}},
		{"non byte aligned", 5, 3, State{4, 2, 0, 7, 1}},
		{"max values", 4, 4, State{15, 15, 15, 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCodecWidth(tt.n, tt.width)
			if err != nil {
				t.Fatalf("NewCodecWidth error: %v", err)
			}
			k, err := c.Encode(tt.s)
			if err != nil {
				t.Fatalf("Encode error: %v", err)
			}
			if len(k) != c.KeyLen() {
				t.Fatalf("key length = %d, want %d", len(k), c.KeyLen())
			}
			got, err := c.Decode(k)
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if !got.Equal(tt.s) {
				t.Errorf("round trip = %v, want %v", got, tt.s)
			}
		})
	}
}

func TestCodecDeterministic(t *testing.T) {
	c, _ := NewCodec(4, 3)
	s := State{3, 1, 0, 2}
	k1, _ := c.Encode(s)
	k2, _ := c.Encode(s.Clone())
	if k1 != k2 {
		t.Error("equal states must encode to equal keys")
	}
}

func TestCodecErrors(t *testing.T) {
	c, _ := NewCodecWidth(3, 2)

	t.Run("wrong length", func(t *testing.T) {
		_, err := c.Encode(State{0, 1})
		if !errors.Is(err, errors.ErrCodeInvalidState) {
			t.Errorf("error = %v, want INVALID_STATE", err)
		}
	})

	t.Run("element out of range", func(t *testing.T) {
		_, err := c.Encode(State{0, 1, 4})
		if !errors.Is(err, errors.ErrCodeInvalidState) {
			t.Errorf("error = %v, want INVALID_STATE", err)
		}
	})

	t.Run("negative element", func(t *testing.T) {
		_, err := c.Encode(State{0, -1, 2})
		if !errors.Is(err, errors.ErrCodeInvalidState) {
			t.Errorf("error = %v, want INVALID_STATE", err)
		}
	})

	t.Run("bad key length", func(t *testing.T) {
		_, err := c.Decode(Key("toolong"))
		if !errors.Is(err, errors.ErrCodeInvalidKey) {
			t.Errorf("error = %v, want INVALID_KEY", err)
		}
	})
}

func TestDistinctStatesDistinctKeys(t *testing.T) {
	c, _ := NewCodec(3, 2)
	seen := make(map[Key]State)
	perms := []State{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	for _, p := range perms {
		k, err := c.Encode(p)
		if err != nil {
			t.Fatalf("Encode(%v) error: %v", p, err)
		}
		if prev, dup := seen[k]; dup {
			t.Errorf("states %v and %v encode to the same key", prev, p)
		}
		seen[k] = p
	}
}

func TestIdentity(t *testing.T) {
	got := Identity(4)
	want := State{0, 1, 2, 3}
	if !got.Equal(want) {
		t.Errorf("Identity(4) = %v, want %v", got, want)
	}
}

func TestFingerprint(t *testing.T) {
	k1 := Key("\x01\x02")
	k2 := Key("\x01\x03")
	if Fingerprint(k1) != Fingerprint(k1) {
		t.Error("Fingerprint must be deterministic")
	}
	if Fingerprint(k1) == Fingerprint(k2) {
		t.Error("distinct keys should fingerprint differently (xxhash collision in a 2-key test is effectively impossible)")
	}
}

func BenchmarkEncode(b *testing.B) {
	c, _ := NewCodec(48, 5)
	s := make(State, 48)
	for i := range s {
		s[i] = i % 6
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := c.Encode(s); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	c, _ := NewCodec(48, 5)
	s := make(State, 48)
	for i := range s {
		s[i] = i % 6
	}
	k, _ := c.Encode(s)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := c.Decode(k); err != nil {
			b.Fatal(err)
		}
	}
}
