package trigger

import (
	"context"
	"math/big"

	"github.com/Velocity-BPA/zksync-lib/chains/zksync/utils"
	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// filterLogs queries the inclusive block range in ascending windows of at most
// utils.MaxLogRange blocks and returns the logs in block order.
func (p *Poller) filterLogs(ctx context.Context, from, to uint64, topic common.Hash, withTopic bool) ([]ethtypes.Log, error) {
	var logs []ethtypes.Log
	for start := from; start <= to; {
		end := to
		if end-start >= utils.MaxLogRange {
			end = start + utils.MaxLogRange - 1
		}

		query := ethereum.FilterQuery{
			FromBlock: new(big.Int).SetUint64(start),
			ToBlock:   new(big.Int).SetUint64(end),
			Addresses: []common.Address{p.contract},
		}
		if withTopic {
			query.Topics = [][]common.Hash{{topic}}
		}

		window, err := p.provider.FilterLogs(ctx, query)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get logs for blocks %d-%d", start, end)
		}
		logs = append(logs, window...)

		if end == to {
			break
		}
		start = end + 1
	}
	return logs, nil
}

func (p *Poller) scanTransferLogs(ctx context.Context, writes *stagedWrites) (*scanResult, error) {
	tip, err := p.provider.BlockNumber(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current block number")
	}

	nft := p.cfg.Kind == types.KindNftTransfer
	topicCount := 3
	if nft {
		topicCount = 4
	}

	return p.advance(ctx, writes, keyLastCheckedBlock, tip, 1, func(from, to uint64) ([]types.Event, error) {
		logs, err := p.filterLogs(ctx, from, to, utils.TransferTopic, true)
		if err != nil {
			return nil, err
		}

		var events []types.Event
		for _, log := range logs {
			if len(log.Topics) != topicCount {
				continue
			}

			sender := utils.TopicToAddress(log.Topics[1])
			recipient := utils.TopicToAddress(log.Topics[2])
			if p.filter != nil && sender != *p.filter && recipient != *p.filter {
				continue
			}

			event := types.Event{
				Kind:        p.cfg.Kind,
				BlockNumber: log.BlockNumber,
				BlockHash:   log.BlockHash.Hex(),
				TxHash:      log.TxHash.Hex(),
				LogIndex:    log.Index,
				Contract:    log.Address.Hex(),
				From:        sender.Hex(),
				To:          recipient.Hex(),
			}
			if nft {
				event.TokenID = log.Topics[3].Big().String()
			} else {
				event.Value = utils.DecodeTransferValue(log.Data).String()
			}
			events = append(events, event)
		}
		return events, nil
	})
}

func (p *Poller) scanContractEvents(ctx context.Context, writes *stagedWrites) (*scanResult, error) {
	tip, err := p.provider.BlockNumber(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current block number")
	}

	return p.advance(ctx, writes, keyLastCheckedBlock, tip, 1, func(from, to uint64) ([]types.Event, error) {
		logs, err := p.filterLogs(ctx, from, to, p.event.ID, !p.event.Anonymous)
		if err != nil {
			return nil, err
		}

		var events []types.Event
		for _, log := range logs {
			args, err := decodeEventLog(p.event, log)
			if err != nil {
				DecodeFailures.WithLabelValues(p.cfg.Kind.String()).Inc()
				p.logger.WithFields(logrus.Fields{
					"event":       p.event.Name,
					"txHash":      log.TxHash.Hex(),
					"logIndex":    log.Index,
					"blockNumber": log.BlockNumber,
					"error":       err,
				}).Warn("Skipping undecodable log")
				continue
			}

			events = append(events, types.Event{
				Kind:        types.KindContractEvent,
				BlockNumber: log.BlockNumber,
				BlockHash:   log.BlockHash.Hex(),
				TxHash:      log.TxHash.Hex(),
				LogIndex:    log.Index,
				Contract:    log.Address.Hex(),
				EventName:   p.event.Name,
				Args:        args,
			})
		}
		return events, nil
	})
}
