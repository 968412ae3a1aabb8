package types

import (
	"fmt"
	"math"
	"testing"

	"lukechampine.com/frand"
)

var maxCurrency = NewCurrency(math.MaxUint64, math.MaxUint64)

func mustParseCurrency(s string) Currency {
	c, err := ParseCurrency(s)
	if err != nil {
		panic(err)
	}
	return c
}

func TestCurrencyCmp(t *testing.T) {
	tests := []struct {
		a, b Currency
		want int
	}{
		{
			ZeroCurrency,
			ZeroCurrency,
			0,
		},
		{
			ZeroCurrency,
			NewCurrency64(5),
			-1,
		},
		{
			NewCurrency64(5),
			ZeroCurrency,
			1,
		},
		{
			NewCurrency(0, 1),
			NewCurrency(0, 1),
			0,
		},
		{
			NewCurrency(math.MaxUint64, 0),
			NewCurrency(0, 1),
			-1,
		},
		{
			NewCurrency(0, 1),
			NewCurrency(math.MaxUint64, 0),
			1,
		},
	}
	for _, tt := range tests {
		if got := tt.a.Cmp(tt.b); got != tt.want {
			t.Errorf("Currency.Cmp(%d, %d) expected = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCurrencyAdd(t *testing.T) {
	tests := []struct {
		a, b, want Currency
	}{
		{
			ZeroCurrency,
			ZeroCurrency,
			ZeroCurrency,
		},
		{
			NewCurrency(1, 0),
			NewCurrency(1, 0),
			NewCurrency(2, 0),
		},
		{
			NewCurrency(200, 0),
			NewCurrency(50, 0),
			NewCurrency(250, 0),
		},
		{
			NewCurrency(0, 1),
			NewCurrency(0, 1),
			NewCurrency(0, 2),
		},
		{
			NewCurrency(0, 71),
			NewCurrency(math.MaxUint64, 0),
			NewCurrency(math.MaxUint64, 71),
		},
	}
	for _, tt := range tests {
		if got := tt.a.Add(tt.b); !got.Equals(tt.want) {
			t.Errorf("Currency.Add(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCurrencyAddWithOverflow(t *testing.T) {
	tests := []struct {
		a, b, want Currency
		overflows  bool
	}{
		{
			ZeroCurrency,
			ZeroCurrency,
			ZeroCurrency,
			false,
		},
		{
			NewCurrency(1, 0),
			NewCurrency(1, 0),
			NewCurrency(2, 0),
			false,
		},
		{
			NewCurrency(200, 0),
			NewCurrency(50, 0),
			NewCurrency(250, 0),
			false,
		},
		{
			NewCurrency(0, 1),
			NewCurrency(0, 1),
			NewCurrency(0, 2),
			false,
		},
		{
			NewCurrency(0, 71),
			NewCurrency(math.MaxUint64, 0),
			NewCurrency(math.MaxUint64, 71),
			false,
		},
		{
			maxCurrency,
			NewCurrency64(1),
			ZeroCurrency,
			true,
		},
	}
	for _, tt := range tests {
		got, overflows := tt.a.AddWithOverflow(tt.b)
		if tt.overflows != overflows {
			t.Errorf("Currency.AddWithOverflow(%d, %d) overflow %t, want %t", tt.a, tt.b, overflows, tt.overflows)
		} else if !got.Equals(tt.want) {
			t.Errorf("Currency.AddWithOverflow(%d, %d) expected = %v, got %v", tt.a, tt.b, tt.want, got)
		}
	}
}

func TestCurrencySub(t *testing.T) {
	tests := []struct {
		a, b, want Currency
	}{
		{
			ZeroCurrency,
			ZeroCurrency,
			ZeroCurrency,
		},
		{
			NewCurrency(1, 0),
			NewCurrency(1, 0),
			ZeroCurrency,
		},
		{
			NewCurrency(1, 0),
			ZeroCurrency,
			NewCurrency(1, 0),
		},
		{
			NewCurrency(0, 1),
			NewCurrency(math.MaxUint64, 0),
			NewCurrency(1, 0),
		},
		{
			NewCurrency(0, 1),
			NewCurrency(1, 0),
			NewCurrency(math.MaxUint64, 0),
		},
	}
	for _, tt := range tests {
		if got := tt.a.Sub(tt.b); !got.Equals(tt.want) {
			t.Errorf("Currency.Sub(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCurrencySubWithUnderflow(t *testing.T) {
	tests := []struct {
		a, b, want Currency
		underflows bool
	}{
		{
			ZeroCurrency,
			ZeroCurrency,
			ZeroCurrency,
			false,
		},
		{
			NewCurrency(1, 0),
			NewCurrency(1, 0),
			ZeroCurrency,
			false,
		},
		{
			NewCurrency(1, 0),
			ZeroCurrency,
			NewCurrency(1, 0),
			false,
		},
		{
			NewCurrency(0, 1),
			NewCurrency(math.MaxUint64, 0),
			NewCurrency(1, 0),
			false,
		},
		{
			NewCurrency(0, 1),
			NewCurrency(1, 0),
			NewCurrency(math.MaxUint64, 0),
			false,
		},
		{
			ZeroCurrency,
			NewCurrency64(1),
			maxCurrency,
			true,
		},
		{
			NewCurrency(0, 1),
			NewCurrency(1, 1),
			maxCurrency,
			true,
		},
		{
			NewCurrency(1, 0),
			NewCurrency(20, 0),
			NewCurrency(math.MaxUint64-18, math.MaxUint64),
			true,
		},
		{
			NewCurrency(1, 1),
			NewCurrency(20, 1),
			NewCurrency(math.MaxUint64-18, math.MaxUint64),
			true,
		},
		{
			NewCurrency(math.MaxUint64, 0),
			NewCurrency(0, 1),
			maxCurrency,
			true,
		},
	}
	for _, tt := range tests {
		diff, underflows := tt.a.SubWithUnderflow(tt.b)
		if tt.underflows != underflows {
			t.Fatalf("Currency.SubWithUnderflow(%d, %d) underflow %t, want %t", tt.a, tt.b, underflows, tt.underflows)
		} else if !diff.Equals(tt.want) {
			t.Fatalf("Currency.SubWithUnderflow(%d, %d) expected = %d, got %d", tt.a, tt.b, tt.want, diff)
		}
	}
}

func TestCurrencyMul64(t *testing.T) {
	tests := []struct {
		a    Currency
		b    uint64
		want Currency
	}{
		{
			ZeroCurrency,
			0,
			ZeroCurrency,
		},
		{
			NewCurrency(1, 0),
			1,
			NewCurrency(1, 0),
		},
		{
			NewCurrency(0, 1),
			1,
			NewCurrency(0, 1),
		},
		{
			NewCurrency(0, 1),
			math.MaxUint64,
			NewCurrency(0, math.MaxUint64),
		},
		{
			Coins(30),
			50,
			Coins(1500),
		},
		{
			NewCurrency(math.MaxUint64, 0),
			2,
			NewCurrency(math.MaxUint64-1, 1),
		},
	}
	for _, tt := range tests {
		if got := tt.a.Mul64(tt.b); !got.Equals(tt.want) {
			t.Errorf("Currency.Mul64(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCurrencyDiv64(t *testing.T) {
	tests := []struct {
		a    Currency
		b    uint64
		want Currency
	}{
		{
			ZeroCurrency,
			1,
			ZeroCurrency,
		},
		{
			NewCurrency64(1),
			1,
			NewCurrency64(1),
		},
		{
			Coins(156),
			2,
			Coins(78),
		},
		{
			Coins(300000),
			5,
			Coins(60000),
		},
		{
			Coins(1000),
			3,
			NewCurrency64(33333333333),
		},
		{
			maxCurrency,
			2,
			NewCurrency(math.MaxUint64, math.MaxUint64/2),
		},
	}
	for _, tt := range tests {
		if got := tt.a.Div64(tt.b); !got.Equals(tt.want) {
			t.Errorf("Currency.Div64(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCurrencyExactString(t *testing.T) {
	tests := []struct {
		val  Currency
		want string
	}{
		{
			ZeroCurrency,
			"0",
		},
		{
			Coins(128),
			"12800000000",
		},
		{
			NewCurrency64(math.MaxUint64),
			"18446744073709551615",
		},
		{
			NewCurrency(8262254095159001088, 2742357),
			"50587566000000000000000000",
		},
		{
			maxCurrency,
			"340282366920938463463374607431768211455",
		},
	}
	for _, tt := range tests {
		if got := tt.val.ExactString(); got != tt.want {
			t.Errorf("Currency.ExactString() = %v, want %v", got, tt.want)
		}
	}
}

func TestCurrencyString(t *testing.T) {
	tests := []struct {
		val  Currency
		want string
	}{
		{
			ZeroCurrency,
			"0 PPR",
		},
		{
			NewCurrency64(1),
			"0.00000001 PPR",
		},
		{
			NewCurrency64(BaseUnitsPerCoin / 10),
			"0.1 PPR",
		},
		{
			Coins(3000000),
			"3000000 PPR",
		},
		{
			Coins(10).Sub(NewCurrency64(1)),
			"9.99999999 PPR",
		},
		{
			Coins(1000).Div64(3),
			"333.33333333 PPR",
		},
		{
			NewCurrency(8262254095159001088, 2742357),
			"505875660000000000 PPR",
		},
	}
	for _, tt := range tests {
		if got := tt.val.String(); got != tt.want {
			t.Errorf("Currency.String() = %v (%d), want %v", got, tt.val, tt.want)
		}
	}
}

func TestCurrencyFormat(t *testing.T) {
	tests := []struct {
		format string
		val    Currency
		want   string
	}{
		{"%d", Coins(1), "100000000"},
		{"%d", NewCurrency(0, 1), "18446744073709551616"},
		{"%v", Coins(1), "1 PPR"},
		{"%s", NewCurrency64(BaseUnitsPerCoin / 10), "0.1 PPR"},
		{"%d", ZeroCurrency, "0"},
	}
	for _, tt := range tests {
		if got := fmt.Sprintf(tt.format, tt.val); got != tt.want {
			t.Errorf("Sprintf(%q) = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestCurrencyMul64WithOverflow(t *testing.T) {
	if _, overflow := NewCurrency(0, 1).Mul64WithOverflow(math.MaxUint64); overflow {
		t.Error("expected no overflow")
	}
	if _, overflow := maxCurrency.Mul64WithOverflow(2); !overflow {
		t.Error("expected overflow")
	}
	if _, overflow := NewCurrency(0, 2).Mul64WithOverflow(1 << 63); !overflow {
		t.Error("expected overflow")
	}
}

func TestCurrencyMod64(t *testing.T) {
	if r := Coins(1000).Mod64(3); r != 1 {
		t.Errorf("Coins(1000) %% 3 = %d, want 1", r)
	}
	if r := maxCurrency.Mod64(10); r != 5 {
		t.Errorf("MaxCurrency %% 10 = %d, want 5", r)
	}
}
func TestCurrencyJSON(t *testing.T) {
	tests := []struct {
		val  Currency
		want string
	}{
		{
			ZeroCurrency,
			`"0"`,
		},
		{
			NewCurrency64(10000),
			`"10000"`,
		},
		{
			mustParseCurrency("50587566000000000000000000"),
			`"50587566000000000000000000"`,
		},
		{
			mustParseCurrency("2529378333356156158367"),
			`"2529378333356156158367"`,
		},
	}
	for _, tt := range tests {
		// MarshalJSON cannot error
		buf, _ := tt.val.MarshalJSON()
		if string(buf) != tt.want {
			t.Errorf("Currency.MarshalJSON(%d) = %s, want %s", tt.val, buf, tt.want)
			continue
		}

		var c Currency
		if err := c.UnmarshalJSON(buf); err != nil {
			t.Errorf("Currency.UnmarshalJSON(%s) err = %v", buf, err)
		} else if !c.Equals(tt.val) {
			t.Errorf("Currency.UnmarshalJSON(%s) = %d, want %d", buf, c, tt.val)
		}
	}
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		s       string
		want    Currency
		wantErr bool
	}{
		{
			"",
			ZeroCurrency,
			true,
		},
		{
			"-1",
			ZeroCurrency,
			true,
		},
		{
			"340282366920938463463374607431768211456",
			ZeroCurrency,
			true,
		},
		{
			"0",
			ZeroCurrency,
			false,
		},
		{
			"10000",
			NewCurrency64(10000),
			false,
		},
		{
			"50587566000000000000000000",
			NewCurrency(8262254095159001088, 2742357),
			false,
		},
		{
			"1 PPR",
			Coins(1),
			false,
		},
		{
			"0.1 PPR",
			NewCurrency64(10000000),
			false,
		},
		{
			"3000000 PPR",
			Coins(3000000),
			false,
		},
		{
			"2.00000001 PPR",
			Coins(2).Add(NewCurrency64(1)),
			false,
		},
		{
			"1 foo",
			ZeroCurrency,
			true,
		},
		{
			"foo PPR",
			ZeroCurrency,
			true,
		},
		{
			".... PPR",
			ZeroCurrency,
			true,
		},
		{
			"0.000000001 PPR",
			ZeroCurrency,
			true,
		},
	}
	for _, tt := range tests {
		got, err := ParseCurrency(tt.s)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCurrency(%v) error = %v, wantErr %v", tt.s, err, tt.wantErr)
		} else if !got.Equals(tt.want) {
			t.Errorf("ParseCurrency(%v) = %d, want %d", tt.s, got, tt.want)
		}
	}
}

func TestCurrencyStringRoundTrip(t *testing.T) {
	for _, c := range []Currency{
		ZeroCurrency,
		NewCurrency64(1),
		NewCurrency64(BaseUnitsPerCoin / 10),
		Coins(300000).Div64(7),
		NewCurrency64(frand.Uint64n(math.MaxUint64)),
	} {
		p, err := ParseCurrency(c.String())
		if err != nil {
			t.Fatal(err)
		} else if !p.Equals(c) {
			t.Errorf("ParseCurrency(%q) = %d, want %d", c.String(), p, c)
		}
	}
}

func TestCurrencyEncoding(t *testing.T) {
	c := NewCurrency(frand.Uint64n(math.MaxUint64), frand.Uint64n(math.MaxUint64))
	b := EncodeToBytes(c)
	if len(b) != 16 {
		t.Fatalf("encoded length = %d, want 16", len(b))
	}
	var got Currency
	d := NewBufDecoder(b)
	got.DecodeFrom(d)
	if err := d.Err(); err != nil {
		t.Fatal(err)
	} else if !got.Equals(c) {
		t.Fatalf("decoded %d, want %d", got, c)
	}

	// truncated input must surface an error rather than a partial value
	d = NewBufDecoder(b[:9])
	got.DecodeFrom(d)
	if d.Err() == nil {
		t.Fatal("expected error decoding truncated currency")
	}
}
