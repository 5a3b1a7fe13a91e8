// Package paymaster encodes and decodes zkSync paymaster parameters for the
// IPaymasterFlow interface.
package paymaster

import (
	"math/big"
	"strings"

	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// FlowType is the kind of sponsorship requested from a paymaster.
type FlowType string

const (
	// FlowGeneral asks for unconditional sponsorship.
	FlowGeneral FlowType = "General"
	// FlowApprovalBased asks for sponsorship in exchange for an ERC-20 allowance.
	FlowApprovalBased FlowType = "ApprovalBased"
)

const paymasterFlowABI = `[
	{"type":"function","name":"general","stateMutability":"nonpayable","inputs":[{"name":"input","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"approvalBased","stateMutability":"nonpayable","inputs":[{"name":"_token","type":"address"},{"name":"_minAllowance","type":"uint256"},{"name":"_innerInput","type":"bytes"}],"outputs":[]}
]`

var flowABI = mustParseABI(paymasterFlowABI)

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Params are the paymaster fields attached to an EIP-712 transaction.
type Params struct {
	Paymaster      common.Address `json:"paymaster"`
	PaymasterInput []byte         `json:"paymasterInput"`
}

// Flow is a decoded paymaster input.
//
// Fields:
// - Type: the flow type.
// - Token: the fee token, ApprovalBased only.
// - MinAllowance: the minimal allowance granted to the paymaster, ApprovalBased only.
// - InnerInput: the opaque bytes forwarded to the paymaster.
type Flow struct {
	Type         FlowType
	Token        common.Address
	MinAllowance *big.Int
	InnerInput   []byte
}

// ParseFlowType converts string to FlowType representation.
func ParseFlowType(s string) (FlowType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "general":
		return FlowGeneral, nil
	case "approvalbased", "approval_based", "approval-based":
		return FlowApprovalBased, nil
	default:
		return "", errors.Wrapf(zkerrors.ErrInvalidParameter, "unknown paymaster flow %q", s)
	}
}

// General builds paymaster params for the general flow.
//
// Parameters:
// - paymaster: the paymaster contract address.
// - innerInput: the opaque bytes forwarded to the paymaster, may be empty.
//
// Returns:
// - *Params: the encoded paymaster params.
// - error: an error if encoding fails.
func General(paymaster common.Address, innerInput []byte) (*Params, error) {
	if innerInput == nil {
		innerInput = []byte{}
	}

	input, err := flowABI.Pack("general", innerInput)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack general paymaster input")
	}

	return &Params{Paymaster: paymaster, PaymasterInput: input}, nil
}

// ApprovalBased builds paymaster params for the approval based flow.
//
// Parameters:
// - paymaster: the paymaster contract address.
// - token: the ERC-20 token used to pay fees.
// - minAllowance: the minimal allowance the paymaster needs.
// - innerInput: the opaque bytes forwarded to the paymaster, may be empty.
//
// Returns:
// - *Params: the encoded paymaster params.
// - error: ErrInvalidQuantity for a missing or negative allowance.
func ApprovalBased(paymaster, token common.Address, minAllowance *big.Int, innerInput []byte) (*Params, error) {
	if minAllowance == nil || minAllowance.Sign() < 0 {
		return nil, errors.Wrap(zkerrors.ErrInvalidQuantity, "min allowance must be a non-negative integer")
	}
	if innerInput == nil {
		innerInput = []byte{}
	}

	input, err := flowABI.Pack("approvalBased", token, minAllowance, innerInput)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack approval based paymaster input")
	}

	return &Params{Paymaster: paymaster, PaymasterInput: input}, nil
}

// Decode parses a paymaster input produced by General or ApprovalBased.
func Decode(input []byte) (*Flow, error) {
	if len(input) < 4 {
		return nil, errors.Wrap(zkerrors.ErrDecodeFailure, "paymaster input shorter than a selector")
	}

	method, err := flowABI.MethodById(input[:4])
	if err != nil {
		return nil, errors.Wrap(zkerrors.ErrDecodeFailure, err.Error())
	}

	values, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, errors.Wrapf(zkerrors.ErrDecodeFailure, "failed to unpack %s: %v", method.Name, err)
	}

	switch method.Name {
	case "general":
		return &Flow{Type: FlowGeneral, InnerInput: values[0].([]byte)}, nil
	case "approvalBased":
		return &Flow{
			Type:         FlowApprovalBased,
			Token:        values[0].(common.Address),
			MinAllowance: values[1].(*big.Int),
			InnerInput:   values[2].([]byte),
		}, nil
	default:
		return nil, errors.Wrapf(zkerrors.ErrDecodeFailure, "unexpected paymaster method %s", method.Name)
	}
}
