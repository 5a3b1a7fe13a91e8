package trigger

import (
	"context"
	"math/big"

	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/Velocity-BPA/zksync-lib/units"
	"github.com/pkg/errors"
)

func (p *Poller) scanNewBlocks(ctx context.Context, writes *stagedWrites) (*scanResult, error) {
	tip, err := p.provider.BlockNumber(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current block number")
	}

	return p.advance(ctx, writes, keyLastBlock, tip, 1, func(from, to uint64) ([]types.Event, error) {
		var events []types.Event
		for number := from; number <= to; number++ {
			block, err := p.provider.BlockByNumber(ctx, number)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to get block %d", number)
			}

			event := types.Event{
				Kind:             types.KindNewBlock,
				BlockNumber:      uint64(block.Number),
				BlockHash:        block.Hash.Hex(),
				Timestamp:        uint64(block.Timestamp),
				TransactionCount: len(block.Transactions),
			}
			if block.L1BatchNumber != nil {
				event.BatchNumber = uint64(*block.L1BatchNumber)
			}
			events = append(events, event)
		}
		return events, nil
	})
}

func (p *Poller) scanNewL1Batches(ctx context.Context, writes *stagedWrites) (*scanResult, error) {
	tip, err := p.provider.L1BatchNumber(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current l1 batch number")
	}

	return p.advance(ctx, writes, keyLastL1Batch, tip, 1, func(from, to uint64) ([]types.Event, error) {
		var events []types.Event
		for batch := from; batch <= to; batch++ {
			details, err := p.provider.L1BatchDetails(ctx, batch)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to get l1 batch %d", batch)
			}

			events = append(events, types.Event{
				Kind:             types.KindNewL1Batch,
				BatchNumber:      details.Number,
				Timestamp:        details.Timestamp,
				Status:           details.Status,
				TransactionCount: int(details.L1TxCount + details.L2TxCount),
			})
		}
		return events, nil
	})
}

func (p *Poller) scanEthTransfers(ctx context.Context, writes *stagedWrites) (*scanResult, error) {
	tip, err := p.provider.BlockNumber(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current block number")
	}

	watched := p.address.Hex()
	received := p.cfg.Kind == types.KindEthReceived

	return p.advance(ctx, writes, keyLastCheckedBlock, tip, 1, func(from, to uint64) ([]types.Event, error) {
		var events []types.Event
		for number := from; number <= to; number++ {
			block, err := p.provider.BlockByNumber(ctx, number)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to get block %d", number)
			}

			for _, tx := range block.Transactions {
				matched := tx.IsFrom(watched)
				if received {
					matched = tx.IsTo(watched)
				}
				if !matched {
					continue
				}

				value := new(big.Int)
				if tx.Value != nil {
					value = tx.Value.ToInt()
				}

				event := types.Event{
					Kind:           p.cfg.Kind,
					BlockNumber:    uint64(block.Number),
					BlockHash:      block.Hash.Hex(),
					Timestamp:      uint64(block.Timestamp),
					TxHash:         tx.Hash.Hex(),
					From:           tx.From.Hex(),
					Value:          value.String(),
					ValueFormatted: units.FromBaseUnits(value),
				}
				if tx.To != nil {
					event.To = tx.To.Hex()
				}
				events = append(events, event)
			}
		}
		return events, nil
	})
}
