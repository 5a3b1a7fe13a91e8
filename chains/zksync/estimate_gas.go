package zksync

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// gasLimitBufferPercent is applied on top of the node gas estimate.
	gasLimitBufferPercent = 110
	// baseFeeBufferPercent is applied to the latest base fee when computing the fee cap.
	baseFeeBufferPercent = 130
)

// GasPriceData represents the gas price data for EIP-1559 transactions.
type GasPriceData struct {
	MaxFeePerGas         *big.Int // The maximum fee per gas.
	MaxPriorityFeePerGas *big.Int // The maximum priority fee per gas.
}

// estimateTransferGas estimates the gas of a transfer from the configured signer, with a buffer.
//
// Parameters:
// - ctx: the context for managing the request.
// - from: the sender address.
// - to: the recipient address of the transaction.
// - value: the amount of ETH to send with the transaction.
// - data: the input data for the transaction.
//
// Returns:
// - uint64: the buffered gas limit.
// - error: an error if the gas estimation fails.
func (c *Client) estimateTransferGas(ctx context.Context, from, to common.Address, value *big.Int, data []byte) (uint64, error) {
	estimated, err := c.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		c.logger.WithField("network", c.config.Name).WithError(err).Warn("Failed to estimate gas")
		return 0, errors.Wrap(err, "failed to estimate gas")
	}

	return estimated * gasLimitBufferPercent / 100, nil
}

// getEIP1559GasPrice retrieves the gas price data for EIP-1559 transactions.
//
// Parameters:
// - ctx: the context for managing the request.
//
// Returns:
// - *GasPriceData: the gas price data for EIP-1559 transactions.
// - error: an error if there is an issue retrieving the base fee.
func (c *Client) getEIP1559GasPrice(ctx context.Context) (*GasPriceData, error) {
	suggestedTip, err := c.SuggestGasTipCap(ctx)
	if err != nil {
		c.logger.WithError(err).Debug("Failed to get suggested gas tip")
		suggestedTip = big.NewInt(0)
	}

	baseFee, err := c.LatestBaseFee(ctx)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"network": c.config.Name,
			"error":   err,
		}).Warn("Failed to get latest base fee")
		return nil, errors.Wrap(err, "failed to get latest base fee")
	}

	maxFeePerGas := new(big.Int).Mul(baseFee, big.NewInt(baseFeeBufferPercent))
	maxFeePerGas.Div(maxFeePerGas, big.NewInt(100))
	maxFeePerGas.Add(maxFeePerGas, suggestedTip)

	return &GasPriceData{
		MaxFeePerGas:         maxFeePerGas,
		MaxPriorityFeePerGas: suggestedTip,
	}, nil
}
