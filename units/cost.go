package units

import (
	"math/big"

	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/pkg/errors"
)

// TransactionCost is a fee expressed in wei, gwei and ether.
type TransactionCost struct {
	Wei   string `json:"wei"`
	Gwei  string `json:"gwei"`
	Ether string `json:"ether"`
}

// ComputeTransactionCost multiplies gas used by the gas price in wei.
//
// Parameters:
// - gasUsed: the amount of gas consumed.
// - gasPrice: the price of one gas unit in wei.
//
// Returns:
// - *TransactionCost: the cost in wei, gwei and ether.
// - error: ErrInvalidQuantity if an operand is missing or negative.
func ComputeTransactionCost(gasUsed, gasPrice *big.Int) (*TransactionCost, error) {
	if gasUsed == nil || gasPrice == nil {
		return nil, errors.Wrap(zkerrors.ErrInvalidQuantity, "gas used and gas price are required")
	}
	if gasUsed.Sign() < 0 {
		return nil, errors.Wrapf(zkerrors.ErrInvalidQuantity, "negative gas used %s", gasUsed)
	}
	if gasPrice.Sign() < 0 {
		return nil, errors.Wrapf(zkerrors.ErrInvalidQuantity, "negative gas price %s", gasPrice)
	}

	cost := new(big.Int).Mul(gasUsed, gasPrice)

	return &TransactionCost{
		Wei:   cost.String(),
		Gwei:  formatUnits(cost, GweiDecimals),
		Ether: formatUnits(cost, EtherDecimals),
	}, nil
}
