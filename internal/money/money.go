// Package money implements the fixed-point decimal representation used for
// every balance in the ledger: a signed 64-bit integer counting units of
// 1/10,000 of a currency unit. Floating point is never used for money.
package money

import (
	"errors"
	"strconv"
	"strings"
)

// Scale is the number of fractional digits an Amount represents.
const Scale = 10000

// Amount is a signed count of 1/10,000ths of a currency unit.
type Amount int64

var (
	errEmptyAmount      = errors.New("money: empty amount")
	errBadIntegerPart   = errors.New("money: invalid integer part")
	errBadFractionPart  = errors.New("money: invalid fractional part")
	errTooManyFractions = errors.New("money: more than 4 fractional digits")
)

// Parse reads "<int>[.<frac>]" into a scaled Amount. The integer part is
// parsed as an unsigned 32-bit decimal and multiplied by Scale; a fractional
// part, if present, is right-padded with '0' to exactly 4 digits and parsed
// as an unsigned 16-bit decimal. More than 4 fractional digits is rejected
// outright, before any parsing. The parser never accepts a leading
// sign: negative amounts only ever arise internally (a disputed deposit
// whose funds were already withdrawn).
func Parse(s string) (Amount, error) {
	if s == "" {
		return 0, errEmptyAmount
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	integer, err := strconv.ParseUint(intPart, 10, 32)
	if err != nil {
		return 0, errBadIntegerPart
	}
	amount := Amount(integer) * Scale

	if hasFrac {
		if len(fracPart) > 4 {
			return 0, errTooManyFractions
		}
		padded := fracPart + strings.Repeat("0", 4-len(fracPart))
		fraction, err := strconv.ParseUint(padded, 10, 16)
		if err != nil {
			return 0, errBadFractionPart
		}
		amount += Amount(fraction)
	}

	return amount, nil
}

// String formats an Amount as "<integer>.<fraction>" with no trailing-zero
// padding of the fractional part: 10000 -> "1.0", 12340 -> "1.2340",
// -555000 -> "-55.5000". The sign is carried by the integer part alone.
func (a Amount) String() string {
	integer := int64(a) / Scale
	fraction := int64(a) % Scale
	if fraction < 0 {
		fraction = -fraction
	}
	return strconv.FormatInt(integer, 10) + "." + strconv.FormatInt(fraction, 10)
}
