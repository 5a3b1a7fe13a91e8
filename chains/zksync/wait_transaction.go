package zksync

import (
	"context"
	"time"

	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/Velocity-BPA/zksync-lib/retry"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// errReceiptNotReady marks a retriable wait: no receipt yet or not enough confirmations.
var errReceiptNotReady = errors.New("receipt not ready")

// WaitResult is the outcome of WaitForReceipt.
type WaitResult struct {
	Status        types.TransactionStatus
	Receipt       *types.Receipt
	Confirmations uint64
}

// WaitForReceipt polls for the receipt of hash with exponential backoff until it has
// at least confirmations blocks on top (including its own), or the retry budget runs out.
//
// Parameters:
// - ctx: the context for managing the request.
// - hash: the transaction hash.
// - confirmations: the required confirmations, 0 means the network WaitNBlocks setting (at least 1).
// - policy: the backoff policy.
//
// Returns:
// - *WaitResult: TxDone or TxFailed with the receipt, or TxPending when the budget ran out.
// - error: an RPC error, or the context error.
func (c *Client) WaitForReceipt(ctx context.Context, hash common.Hash, confirmations uint64, policy retry.Config) (*WaitResult, error) {
	if confirmations == 0 {
		confirmations = c.config.WaitNBlocks
	}
	if confirmations == 0 {
		confirmations = 1
	}

	result := &WaitResult{Status: types.TxPending}

	policy.OnRetry = func(err error, next time.Duration) {
		c.logger.WithFields(logrus.Fields{
			"txHash": hash.Hex(),
			"next":   next,
			"reason": err,
		}).Debug("Waiting for transaction receipt")
	}

	err := retry.Exponential(ctx, func() error {
		receipt, err := c.TransactionReceipt(ctx, hash)
		if err != nil {
			return retry.Permanent(err)
		}
		if receipt == nil {
			return errReceiptNotReady
		}
		result.Receipt = receipt

		current, err := c.BlockNumber(ctx)
		if err != nil {
			return retry.Permanent(err)
		}

		result.Confirmations = receipt.Confirmations(current)
		if result.Confirmations < confirmations {
			return errReceiptNotReady
		}
		return nil
	}, policy)

	switch {
	case err == nil:
	case errors.Is(err, errReceiptNotReady):
		return result, nil
	default:
		return nil, errors.Wrap(err, "failed to wait for transaction receipt")
	}

	if result.Receipt.Succeeded() {
		result.Status = types.TxDone
	} else {
		result.Status = types.TxFailed
	}
	return result, nil
}
