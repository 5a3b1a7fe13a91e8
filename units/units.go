// Package units converts amounts between Ethereum denominations and token decimals.
// All arithmetic is done on arbitrary precision integers, never on floats.
package units

import (
	"math/big"
	"regexp"
	"strings"

	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Denomination is a named unit with a fixed power-of-ten scale relative to wei.
type Denomination string

const (
	Wei    Denomination = "wei"
	Kwei   Denomination = "kwei"
	Mwei   Denomination = "mwei"
	Gwei   Denomination = "gwei"
	Szabo  Denomination = "szabo"
	Finney Denomination = "finney"
	Ether  Denomination = "ether"
)

const (
	// EtherDecimals is the scale of the native currency.
	EtherDecimals = 18
	// GweiDecimals is the scale of gwei.
	GweiDecimals = 9
	// MaxDecimals is the largest token scale accepted (uint8 range).
	MaxDecimals = 255
)

// Denominations lists the supported units from smallest to largest.
var Denominations = []Denomination{Wei, Kwei, Mwei, Gwei, Szabo, Finney, Ether}

var scales = map[Denomination]int{
	Wei:    0,
	Kwei:   3,
	Mwei:   6,
	Gwei:   9,
	Szabo:  12,
	Finney: 15,
	Ether:  18,
}

// amountPattern accepts non-negative base-10 numbers: "1", "1.", "1.5", ".5".
var amountPattern = regexp.MustCompile(`^(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)$`)

// Scale returns the power of ten of the denomination relative to wei.
func (d Denomination) Scale() int {
	return scales[d]
}

// String converts Denomination to string representation.
func (d Denomination) String() string {
	return string(d)
}

// ParseDenomination converts a unit name to Denomination, ignoring case.
func ParseDenomination(s string) (Denomination, error) {
	d := Denomination(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := scales[d]; !ok {
		return "", errors.Wrapf(zkerrors.ErrInvalidAmountFormat, "unknown denomination %q", s)
	}
	return d, nil
}

// Convert re-expresses value from one denomination in another.
// The result is a plain integer when the target is wei, otherwise a decimal
// string with at least one fractional digit ("1.0").
func Convert(value string, from, to Denomination) (string, error) {
	if _, ok := scales[from]; !ok {
		return "", errors.Wrapf(zkerrors.ErrInvalidAmountFormat, "unknown denomination %q", from)
	}
	if _, ok := scales[to]; !ok {
		return "", errors.Wrapf(zkerrors.ErrInvalidAmountFormat, "unknown denomination %q", to)
	}

	base, err := parseUnits(value, from.Scale())
	if err != nil {
		return "", err
	}

	return formatUnits(base, to.Scale()), nil
}

// ToBaseUnits parses an ether amount into wei.
func ToBaseUnits(value string) (*big.Int, error) {
	return parseUnits(value, EtherDecimals)
}

// FromBaseUnits formats a wei amount as ether.
func FromBaseUnits(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}
	return formatUnits(wei, EtherDecimals)
}

// ParseTokenAmount parses a token amount expressed with the given number of decimals.
func ParseTokenAmount(value string, decimals int) (*big.Int, error) {
	if err := checkDecimals(decimals); err != nil {
		return nil, err
	}
	return parseUnits(value, decimals)
}

// FormatTokenAmount formats a raw token amount with the given number of decimals.
// Negative amounts are allowed so balance deltas can be rendered.
func FormatTokenAmount(raw *big.Int, decimals int) (string, error) {
	if err := checkDecimals(decimals); err != nil {
		return "", err
	}
	if raw == nil {
		return "", errors.Wrap(zkerrors.ErrInvalidQuantity, "amount is required")
	}
	return formatUnits(raw, decimals), nil
}

func checkDecimals(decimals int) error {
	if decimals < 0 || decimals > MaxDecimals {
		return errors.Wrapf(zkerrors.ErrInvalidAmountFormat, "decimals %d out of range [0, %d]", decimals, MaxDecimals)
	}
	return nil
}

// parseUnits turns a decimal string into an integer count of base units.
// Fractional digits beyond scale are rejected unless they are trailing zeros.
func parseUnits(value string, scale int) (*big.Int, error) {
	v := strings.TrimSpace(value)
	if !amountPattern.MatchString(v) {
		return nil, errors.Wrapf(zkerrors.ErrInvalidAmountFormat, "%q is not a non-negative decimal number", value)
	}

	intPart, fracPart, _ := strings.Cut(v, ".")
	fracPart = strings.TrimRight(fracPart, "0")
	if len(fracPart) > scale {
		return nil, errors.Wrapf(zkerrors.ErrInvalidAmountFormat, "%q has more than %d fractional digits", value, scale)
	}
	if intPart == "" {
		intPart = "0"
	}

	normalized := intPart
	if fracPart != "" {
		normalized += "." + fracPart
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return nil, errors.Wrap(zkerrors.ErrInvalidAmountFormat, err.Error())
	}

	return d.Shift(int32(scale)).BigInt(), nil
}

// formatUnits renders base units with the given scale.
func formatUnits(base *big.Int, scale int) string {
	if scale == 0 {
		return base.String()
	}

	s := decimal.NewFromBigInt(base, -int32(scale)).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
