package utils

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// NormalizeABIValue converts a decoded ABI value to a JSON friendly form:
// integers become decimal strings, addresses and byte values become hex.
func NormalizeABIValue(value interface{}) interface{} {
	switch v := value.(type) {
	case *big.Int:
		return v.String()
	case common.Address:
		return v.Hex()
	case common.Hash:
		return v.Hex()
	case []byte:
		return hexutil.Encode(v)
	case uint8, uint16, uint32, uint64, int8, int16, int32, int64:
		return fmt.Sprint(v)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			buf := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(buf), rv)
			return hexutil.Encode(buf)
		}
		fallthrough
	case reflect.Slice:
		out := make([]interface{}, rv.Len())
		for i := range out {
			out[i] = NormalizeABIValue(rv.Index(i).Interface())
		}
		return out
	}
	return value
}

// CoerceABIArgument converts a loosely typed value (as decoded from JSON) into the
// Go type go-ethereum expects when packing an argument of type t.
//
// Parameters:
// - t: the ABI type of the argument.
// - value: a string, number, bool or list.
//
// Returns:
// - interface{}: the typed argument.
// - error: ErrInvalidParameter when value cannot represent t.
func CoerceABIArgument(t abi.Type, value interface{}) (interface{}, error) {
	switch t.T {
	case abi.AddressTy:
		s, ok := value.(string)
		if !ok {
			return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "expected address string, got %T", value)
		}
		return ParseAddress(s)

	case abi.BoolTy:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(v) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
		}
		return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "expected bool, got %v", value)

	case abi.StringTy:
		s, ok := value.(string)
		if !ok {
			return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "expected string, got %T", value)
		}
		return s, nil

	case abi.UintTy, abi.IntTy:
		n, err := ParseBigInt(value)
		if err != nil {
			return nil, err
		}
		if !fitsInteger(t, n) {
			return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "value %s out of range for %s", n, t)
		}
		// sizes other than 8, 16, 32 and 64 pack from *big.Int
		if t.GetType().Kind() == reflect.Ptr {
			return n, nil
		}
		if t.T == abi.UintTy {
			return reflect.ValueOf(n.Uint64()).Convert(t.GetType()).Interface(), nil
		}
		return reflect.ValueOf(n.Int64()).Convert(t.GetType()).Interface(), nil

	case abi.BytesTy:
		return decodeHexArgument(value)

	case abi.FixedBytesTy:
		raw, err := decodeHexArgument(value)
		if err != nil {
			return nil, err
		}
		if len(raw) != t.Size {
			return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "expected %d bytes for %s, got %d", t.Size, t, len(raw))
		}
		array := reflect.New(t.GetType()).Elem()
		reflect.Copy(array, reflect.ValueOf(raw))
		return array.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		items, ok := value.([]interface{})
		if !ok {
			return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "expected list for %s, got %T", t, value)
		}
		if t.T == abi.ArrayTy && len(items) != t.Size {
			return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "expected %d items for %s, got %d", t.Size, t, len(items))
		}

		var out reflect.Value
		if t.T == abi.SliceTy {
			out = reflect.MakeSlice(t.GetType(), len(items), len(items))
		} else {
			out = reflect.New(t.GetType()).Elem()
		}
		for i, item := range items {
			elem, err := CoerceABIArgument(*t.Elem, item)
			if err != nil {
				return nil, err
			}
			out.Index(i).Set(reflect.ValueOf(elem))
		}
		return out.Interface(), nil
	}

	return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "unsupported argument type %s", t)
}

// ParseBigInt accepts a decimal or 0x-prefixed string, or a JSON number without fraction.
func ParseBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case float64:
		if v != float64(int64(v)) {
			return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "%v is not an integer", v)
		}
		return big.NewInt(int64(v)), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case fmt.Stringer:
		return ParseBigInt(v.String())
	case string:
		s := strings.TrimSpace(v)
		base := 10
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			s, base = s[2:], 16
		}
		n, ok := new(big.Int).SetString(s, base)
		if !ok {
			return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "%q is not an integer", v)
		}
		return n, nil
	}
	return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "expected integer, got %T", value)
}

func fitsInteger(t abi.Type, n *big.Int) bool {
	if t.T == abi.UintTy {
		return n.Sign() >= 0 && n.BitLen() <= t.Size
	}
	limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
	return n.Cmp(limit) < 0 && n.Cmp(new(big.Int).Neg(limit)) >= 0
}

func decodeHexArgument(value interface{}) ([]byte, error) {
	s, ok := value.(string)
	if !ok {
		return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "expected hex string, got %T", value)
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "invalid hex %q: %v", s, err)
	}
	return raw, nil
}
