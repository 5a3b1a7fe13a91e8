package operations

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/Velocity-BPA/zksync-lib/chains/zksync/utils"
	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// Params are the loosely typed inputs of one operation, usually decoded from JSON.
type Params map[string]interface{}

// Result is the flat output record of one operation.
type Result map[string]interface{}

// Has reports whether name is set to a non-empty value.
func (p Params) Has(name string) bool {
	v, ok := p[name]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// String returns a required string parameter.
func (p Params) String(name string) (string, error) {
	if !p.Has(name) {
		return "", missing(name)
	}
	switch v := p[name].(type) {
	case string:
		return strings.TrimSpace(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// StringOr returns name, or fallback when unset.
func (p Params) StringOr(name, fallback string) string {
	if !p.Has(name) {
		return fallback
	}
	s, _ := p.String(name)
	return s
}

// Uint64 returns a required unsigned integer parameter.
func (p Params) Uint64(name string) (uint64, error) {
	if !p.Has(name) {
		return 0, missing(name)
	}
	n, err := utils.ParseBigInt(p[name])
	if err != nil {
		return 0, errors.Wrapf(err, "parameter %s", name)
	}
	if n.Sign() < 0 || !n.IsUint64() {
		return 0, errors.Wrapf(zkerrors.ErrInvalidParameter, "parameter %s out of range: %s", name, n)
	}
	return n.Uint64(), nil
}

// Uint64Or returns name, or fallback when unset.
func (p Params) Uint64Or(name string, fallback uint64) (uint64, error) {
	if !p.Has(name) {
		return fallback, nil
	}
	return p.Uint64(name)
}

// Bool returns name as a boolean; unset means false.
func (p Params) Bool(name string) bool {
	switch v := p[name].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	}
	return false
}

// Address returns a required address parameter.
func (p Params) Address(name string) (common.Address, error) {
	s, err := p.String(name)
	if err != nil {
		return common.Address{}, err
	}
	address, err := utils.ParseAddress(s)
	if err != nil {
		return common.Address{}, errors.Wrapf(err, "parameter %s", name)
	}
	return address, nil
}

// BigInt returns a required integer parameter of arbitrary size.
func (p Params) BigInt(name string) (*big.Int, error) {
	if !p.Has(name) {
		return nil, missing(name)
	}
	n, err := utils.ParseBigInt(p[name])
	if err != nil {
		return nil, errors.Wrapf(err, "parameter %s", name)
	}
	return n, nil
}

// Hash returns a required 32 byte hash parameter.
func (p Params) Hash(name string) (common.Hash, error) {
	s, err := p.String(name)
	if err != nil {
		return common.Hash{}, err
	}
	raw, err := hexutil.Decode(s)
	if err != nil || len(raw) != common.HashLength {
		return common.Hash{}, errors.Wrapf(zkerrors.ErrInvalidParameter, "parameter %s is not a 32 byte hash", name)
	}
	return common.BytesToHash(raw), nil
}

// Bytes returns an optional hex parameter; unset means empty.
func (p Params) Bytes(name string) ([]byte, error) {
	if !p.Has(name) {
		return []byte{}, nil
	}
	s, err := p.String(name)
	if err != nil {
		return nil, err
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "parameter %s is not hex: %v", name, err)
	}
	return raw, nil
}

// List returns an optional list parameter; unset means empty.
func (p Params) List(name string) ([]interface{}, error) {
	if !p.Has(name) {
		return nil, nil
	}
	items, ok := p[name].([]interface{})
	if !ok {
		return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "parameter %s must be a list", name)
	}
	return items, nil
}

func missing(name string) error {
	return errors.Wrapf(zkerrors.ErrInvalidParameter, "parameter %s is required", name)
}
