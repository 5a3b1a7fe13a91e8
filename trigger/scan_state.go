package trigger

import (
	"context"
	"math/big"

	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/Velocity-BPA/zksync-lib/units"
	"github.com/pkg/errors"
)

func (p *Poller) scanTransactionConfirmed(ctx context.Context, writes *stagedWrites) (*scanResult, error) {
	hash := p.txHash.Hex()
	key := txLatchKey(hash)

	done, err := writes.latched(ctx, key)
	if err != nil {
		return nil, err
	}
	if done {
		return &scanResult{outcome: outcomeNoop}, nil
	}

	receipt, err := p.provider.TransactionReceipt(ctx, p.txHash)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get receipt of %s", hash)
	}
	if receipt == nil {
		return &scanResult{outcome: outcomeNoop}, nil
	}

	tip, err := p.provider.BlockNumber(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current block number")
	}

	confirmations := receipt.Confirmations(tip)
	if confirmations < p.cfg.Confirmations {
		return &scanResult{outcome: outcomeNoop}, nil
	}

	status := types.TxDone
	if !receipt.Succeeded() {
		status = types.TxFailed
	}

	event := types.Event{
		Kind:          types.KindTransactionConfirmed,
		TxHash:        hash,
		BlockNumber:   uint64(receipt.BlockNumber),
		BlockHash:     receipt.BlockHash.Hex(),
		From:          receipt.From.Hex(),
		Status:        string(status),
		Confirmations: confirmations,
	}
	if receipt.To != nil {
		event.To = receipt.To.Hex()
	}
	if receipt.L1BatchNumber != nil {
		event.BatchNumber = uint64(*receipt.L1BatchNumber)
	}

	writes.latch(key)
	return &scanResult{events: []types.Event{event}, outcome: outcomeScanned}, nil
}

// scanFinalizedBatches re-checks the trailing FinalizedBacklog batches on every
// advance, since execution on L1 lags sealing. Per-batch latches keep it one-shot.
func (p *Poller) scanFinalizedBatches(ctx context.Context, writes *stagedWrites) (*scanResult, error) {
	tip, err := p.provider.L1BatchNumber(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current l1 batch number")
	}

	backlog := p.cfg.FinalizedBacklog

	return p.advance(ctx, writes, keyLastCheckedBatch, tip, backlog, func(from, to uint64) ([]types.Event, error) {
		if lookback := saturatingSub(to, backlog) + 1; lookback < from {
			from = lookback
		}

		var events []types.Event
		for batch := from; batch <= to; batch++ {
			key := batchLatchKey(batch)
			done, err := writes.latched(ctx, key)
			if err != nil {
				return nil, err
			}
			if done {
				continue
			}

			details, err := p.provider.L1BatchDetails(ctx, batch)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to get l1 batch %d", batch)
			}
			if !details.IsExecuted() {
				continue
			}

			events = append(events, types.Event{
				Kind:             types.KindBlockFinalized,
				BatchNumber:      details.Number,
				Timestamp:        details.Timestamp,
				Status:           details.Status,
				ExecuteTxHash:    details.ExecuteTxHash.Hex(),
				TransactionCount: int(details.L1TxCount + details.L2TxCount),
			})
			writes.latch(key)
		}
		return events, nil
	})
}

func (p *Poller) scanBalanceChange(ctx context.Context, writes *stagedWrites) (*scanResult, error) {
	current, err := p.provider.BalanceAt(ctx, p.address, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get balance of %s", p.address.Hex())
	}

	stored, found, err := writes.getString(ctx, keyLastBalance)
	if err != nil {
		return nil, err
	}

	if !found {
		writes.set(keyLastBalance, current.String())
		return &scanResult{outcome: outcomePrimed}, nil
	}

	previous, ok := new(big.Int).SetString(stored, 10)
	if !ok {
		return nil, errors.Wrapf(zkerrors.ErrDecodeFailure, "stored balance %q is not an integer", stored)
	}

	if previous.Cmp(current) == 0 {
		return &scanResult{outcome: outcomeNoop}, nil
	}

	delta := new(big.Int).Sub(current, previous)
	writes.set(keyLastBalance, current.String())

	return &scanResult{
		events: []types.Event{{
			Kind:            types.KindBalanceChange,
			Address:         p.address.Hex(),
			PreviousBalance: previous.String(),
			CurrentBalance:  current.String(),
			Delta:           delta.String(),
			DeltaFormatted:  units.FromBaseUnits(delta),
		}},
		outcome: outcomeScanned,
	}, nil
}
