package types

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"math/bits"
	"strings"
)

// BaseUnitsPerCoin is the number of base units in one coin (COIN).
const BaseUnitsPerCoin = 100_000_000

// CoinSymbol is the unit suffix used when formatting whole coins.
const CoinSymbol = "PPR"

var (
	// ZeroCurrency represents zero base units.
	ZeroCurrency Currency

	// MaxCurrency represents the largest possible value for the Currency type.
	MaxCurrency = NewCurrency(math.MaxUint64, math.MaxUint64)

	errUnderflow = errors.New("underflow detected during currency arithmetic")
	errOverflow  = errors.New("overflow detected during currency arithmetic")
)

// Currency represents a quantity of base units as an unsigned 128-bit
// number. Block rewards, fees and supply totals are all Currency values;
// floating point never enters the representation.
type Currency struct {
	Lo, Hi uint64
}

// NewCurrency returns the Currency value (lo,hi).
func NewCurrency(lo, hi uint64) Currency {
	return Currency{lo, hi}
}

// NewCurrency64 converts c to a Currency value.
func NewCurrency64(c uint64) Currency {
	return Currency{c, 0}
}

// Coins returns a Currency value representing n whole coins.
func Coins(n uint32) Currency {
	return NewCurrency64(BaseUnitsPerCoin).Mul64(uint64(n))
}

// IsZero returns true if c == 0.
func (c Currency) IsZero() bool {
	return c == ZeroCurrency
}

// Equals returns true if c == v.
//
// Currency values can be compared directly with ==, but use of the Equals method
// is preferred for consistency.
func (c Currency) Equals(v Currency) bool {
	return c == v
}

// Cmp compares c and v and returns:
//
//	-1 if c <  v
//	 0 if c == v
//	+1 if c >  v
func (c Currency) Cmp(v Currency) int {
	if c == v {
		return 0
	} else if c.Hi < v.Hi || (c.Hi == v.Hi && c.Lo < v.Lo) {
		return -1
	} else {
		return 1
	}
}

// Add returns c+v, panicking on overflow.
func (c Currency) Add(v Currency) Currency {
	s, overflow := c.AddWithOverflow(v)
	if overflow {
		panic(errOverflow)
	}
	return s
}

// AddWithOverflow returns c+v, along with a boolean indicating whether the
// result overflowed.
func (c Currency) AddWithOverflow(v Currency) (Currency, bool) {
	lo, carry := bits.Add64(c.Lo, v.Lo, 0)
	hi, carry := bits.Add64(c.Hi, v.Hi, carry)
	return Currency{lo, hi}, carry != 0
}

// Sub returns c-v, panicking on underflow.
func (c Currency) Sub(v Currency) Currency {
	s, underflow := c.SubWithUnderflow(v)
	if underflow {
		panic(errUnderflow)
	}
	return s
}

// SubWithUnderflow returns c-v, along with a boolean indicating whether the
// result underflowed.
func (c Currency) SubWithUnderflow(v Currency) (Currency, bool) {
	lo, borrow := bits.Sub64(c.Lo, v.Lo, 0)
	hi, borrow := bits.Sub64(c.Hi, v.Hi, borrow)
	return Currency{lo, hi}, borrow != 0
}

// Mul64 returns c*v, panicking on overflow.
func (c Currency) Mul64(v uint64) Currency {
	p, overflow := c.Mul64WithOverflow(v)
	if overflow {
		panic(errOverflow)
	}
	return p
}

// Mul64WithOverflow returns c*v, along with a boolean indicating whether the
// result overflowed.
func (c Currency) Mul64WithOverflow(v uint64) (Currency, bool) {
	// NOTE: this is the overflow-checked equivalent of:
	//
	//   hi, lo := bits.Mul64(c.Lo, v)
	//   hi += c.Hi * v
	//
	hi0, lo0 := bits.Mul64(c.Lo, v)
	hi1, lo1 := bits.Mul64(c.Hi, v)
	hi2, carry := bits.Add64(hi0, lo1, 0)
	return Currency{lo0, hi2}, hi1 != 0 || carry != 0
}

// Div64 returns c/v, truncated toward zero. If v == 0, Div64 panics.
func (c Currency) Div64(v uint64) Currency {
	q, _ := c.quoRem64(v)
	return q
}

// Mod64 returns c%v. If v == 0, Mod64 panics.
func (c Currency) Mod64(v uint64) uint64 {
	_, r := c.quoRem64(v)
	return r
}

// quoRem64 returns q = c/v and r = c%v.
func (c Currency) quoRem64(v uint64) (q Currency, r uint64) {
	if c.Hi < v {
		q.Lo, r = bits.Div64(c.Hi, c.Lo, v)
	} else {
		q.Hi, r = bits.Div64(0, c.Hi, v)
		q.Lo, r = bits.Div64(r, c.Lo, v)
	}
	return
}

// Big returns c as a *big.Int.
func (c Currency) Big() *big.Int {
	b := new(big.Int).SetUint64(c.Hi)
	b.Lsh(b, 64)
	return b.Or(b, new(big.Int).SetUint64(c.Lo))
}

// ExactString returns the base-10 representation of c as a string.
func (c Currency) ExactString() string {
	if c.IsZero() {
		return "0"
	}
	buf := []byte("0000000000000000000000000000000000000000") // log10(2^128) < 40
	for i := len(buf); ; i -= 19 {
		q, r := c.quoRem64(1e19) // largest power of 10 that fits in a uint64
		var n int
		for ; r != 0; r /= 10 {
			n++
			buf[i-n] += byte(r % 10)
		}
		if q.IsZero() {
			return string(buf[i-n:])
		}
		c = q
	}
}

// String returns c in whole coins with the coin symbol, e.g. "0.1 PPR".
// The representation is exact: trailing fractional zeros are trimmed, never
// rounded.
func (c Currency) String() string {
	whole, frac := c.quoRem64(BaseUnitsPerCoin)
	if frac == 0 {
		return whole.ExactString() + " " + CoinSymbol
	}
	fs := strings.TrimRight(fmt.Sprintf("%08d", frac), "0")
	return whole.ExactString() + "." + fs + " " + CoinSymbol
}

// Format implements fmt.Formatter. It accepts the following formats:
//
//	d: raw integer (equivalent to ExactString())
//	s: coins with unit suffix (equivalent to String())
//	v: same as s
func (c Currency) Format(f fmt.State, v rune) {
	switch v {
	case 'd':
		io.WriteString(f, c.ExactString())
	case 's', 'v':
		io.WriteString(f, c.String())
	default:
		fmt.Fprintf(f, "%%!%c(unsupported,Currency=%d)", v, c)
	}
}

// MarshalJSON implements json.Marshaler.
func (c Currency) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.ExactString() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Currency) UnmarshalJSON(b []byte) (err error) {
	*c, err = parseExactCurrency(strings.Trim(string(b), `"`))
	return
}

// MarshalText implements encoding.TextMarshaler.
func (c Currency) MarshalText() ([]byte, error) {
	return []byte(c.ExactString()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts any format
// understood by ParseCurrency.
func (c *Currency) UnmarshalText(b []byte) (err error) {
	*c, err = ParseCurrency(string(b))
	return
}

func parseExactCurrency(s string) (Currency, error) {
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return ZeroCurrency, errors.New("not an integer")
	} else if i.Sign() < 0 {
		return ZeroCurrency, errors.New("value cannot be negative")
	} else if i.BitLen() > 128 {
		return ZeroCurrency, errors.New("value overflows Currency representation")
	}
	return NewCurrency(i.Uint64(), new(big.Int).Rsh(i, 64).Uint64()), nil
}

// ParseCurrency parses s as a Currency value. A bare integer is read as base
// units; a decimal followed by the coin symbol (e.g. "0.1 PPR") is scaled by
// BaseUnitsPerCoin using exact rational arithmetic.
func ParseCurrency(s string) (Currency, error) {
	i := strings.LastIndexAny(s, "0123456789.") + 1
	if i == 0 {
		return ZeroCurrency, errors.New("not a number")
	}
	n, unit := s[:i], strings.TrimSpace(s[i:])
	switch unit {
	case "":
		return parseExactCurrency(n)
	case CoinSymbol:
	default:
		return ZeroCurrency, fmt.Errorf("invalid unit %q", unit)
	}
	r, ok := new(big.Rat).SetString(n)
	if !ok {
		return ZeroCurrency, errors.New("not a number")
	}
	r.Mul(r, new(big.Rat).SetInt64(BaseUnitsPerCoin))
	if !r.IsInt() {
		return ZeroCurrency, errors.New("value is not a whole number of base units")
	}
	return parseExactCurrency(r.RatString())
}
