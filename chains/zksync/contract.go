package zksync

import (
	"context"

	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// CallMethod executes a read-only contract method described by contractABI and
// returns the decoded outputs in declaration order.
//
// Parameters:
// - ctx: the context for managing the request.
// - contractABI: the parsed contract ABI.
// - contract: the contract address.
// - method: the method name.
// - args: the already typed method arguments.
//
// Returns:
// - []interface{}: the decoded return values.
// - error: ErrInvalidParameter when the method is unknown or arguments do not match, ErrDecodeFailure when outputs cannot be decoded.
func (c *Client) CallMethod(ctx context.Context, contractABI abi.ABI, contract common.Address, method string, args ...interface{}) ([]interface{}, error) {
	abiMethod, ok := contractABI.Methods[method]
	if !ok {
		return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "method %q not found in ABI", method)
	}

	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "failed to pack %s: %v", method, err)
	}

	result, err := c.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return nil, err
	}

	if len(abiMethod.Outputs) == 0 {
		return []interface{}{}, nil
	}

	values, err := abiMethod.Outputs.Unpack(result)
	if err != nil {
		return nil, errors.Wrapf(zkerrors.ErrDecodeFailure, "failed to unpack %s: %v", method, err)
	}
	return values, nil
}
