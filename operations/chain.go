package operations

import (
	"context"
	"math/big"

	"github.com/Velocity-BPA/zksync-lib/chains/zksync/utils"
	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/Velocity-BPA/zksync-lib/units"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

func bridgeGetContracts(ctx context.Context, backend Backend, _ Params) (Result, error) {
	contracts, err := backend.BridgeContracts(ctx)
	if err != nil {
		return nil, err
	}

	return Result{
		"l1Erc20DefaultBridge":  addressOrNil(contracts.L1Erc20DefaultBridge),
		"l2Erc20DefaultBridge":  addressOrNil(contracts.L2Erc20DefaultBridge),
		"l1WethBridge":          addressOrNil(contracts.L1WethBridge),
		"l2WethBridge":          addressOrNil(contracts.L2WethBridge),
		"l1SharedDefaultBridge": addressOrNil(contracts.L1SharedDefaultBridge),
		"l2SharedDefaultBridge": addressOrNil(contracts.L2SharedDefaultBridge),
	}, nil
}

func bridgeGetMainContract(ctx context.Context, backend Backend, _ Params) (Result, error) {
	address, err := backend.MainContract(ctx)
	if err != nil {
		return nil, err
	}
	return Result{"mainContract": address.Hex()}, nil
}

func bridgeGetBaseTokenL1Address(ctx context.Context, backend Backend, _ Params) (Result, error) {
	address, err := backend.BaseTokenL1Address(ctx)
	if err != nil {
		return nil, err
	}
	return Result{"baseTokenL1Address": address.Hex()}, nil
}

func blockGetBlockNumber(ctx context.Context, backend Backend, _ Params) (Result, error) {
	number, err := backend.BlockNumber(ctx)
	if err != nil {
		return nil, err
	}
	return Result{"blockNumber": number}, nil
}

func blockGetBlock(ctx context.Context, backend Backend, params Params) (Result, error) {
	number, err := blockNumberOrLatest(ctx, backend, params)
	if err != nil {
		return nil, err
	}

	block, err := backend.BlockByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return Result{"blockNumber": number, "block": block}, nil
}

func blockGetBlockDetails(ctx context.Context, backend Backend, params Params) (Result, error) {
	number, err := blockNumberOrLatest(ctx, backend, params)
	if err != nil {
		return nil, err
	}

	details, err := backend.BlockDetails(ctx, number)
	if err != nil {
		return nil, err
	}
	return Result{"blockNumber": number, "details": details}, nil
}

func blockGetL1BatchNumber(ctx context.Context, backend Backend, _ Params) (Result, error) {
	batch, err := backend.L1BatchNumber(ctx)
	if err != nil {
		return nil, err
	}
	return Result{"l1BatchNumber": batch}, nil
}

func blockGetL1BatchDetails(ctx context.Context, backend Backend, params Params) (Result, error) {
	batch, err := params.Uint64("batchNumber")
	if err != nil {
		return nil, err
	}

	details, err := backend.L1BatchDetails(ctx, batch)
	if err != nil {
		return nil, err
	}
	return Result{"batchNumber": batch, "details": details}, nil
}

func blockGetL1BatchBlockRange(ctx context.Context, backend Backend, params Params) (Result, error) {
	batch, err := params.Uint64("batchNumber")
	if err != nil {
		return nil, err
	}

	first, last, err := backend.L1BatchBlockRange(ctx, batch)
	if err != nil {
		return nil, err
	}
	return Result{"batchNumber": batch, "firstBlock": first, "lastBlock": last}, nil
}

func proofGetL2ToL1LogProof(ctx context.Context, backend Backend, params Params) (Result, error) {
	hash, err := params.Hash("txHash")
	if err != nil {
		return nil, err
	}

	var index *uint64
	if params.Has("logIndex") {
		i, err := params.Uint64("logIndex")
		if err != nil {
			return nil, err
		}
		index = &i
	}

	proof, err := backend.L2ToL1LogProof(ctx, hash, index)
	if err != nil {
		return nil, err
	}
	if proof == nil {
		return Result{"found": false, "txHash": hash.Hex()}, nil
	}
	return Result{"found": true, "id": proof.ID, "root": proof.Root.Hex(), "proof": proof.Proof}, nil
}

func feeGetGasPrice(ctx context.Context, backend Backend, _ Params) (Result, error) {
	price, err := backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}

	gwei, err := units.FormatTokenAmount(price, units.GweiDecimals)
	if err != nil {
		return nil, err
	}
	return Result{"wei": price.String(), "gwei": gwei}, nil
}

func feeEstimateGas(ctx context.Context, backend Backend, params Params) (Result, error) {
	to, err := params.Address("to")
	if err != nil {
		return nil, err
	}
	msg := ethereum.CallMsg{To: &to}

	if params.Has("from") {
		if msg.From, err = params.Address("from"); err != nil {
			return nil, err
		}
	}
	if params.Has("value") {
		value, err := params.String("value")
		if err != nil {
			return nil, err
		}
		if msg.Value, err = units.ToBaseUnits(value); err != nil {
			return nil, err
		}
	}
	if msg.Data, err = params.Bytes("data"); err != nil {
		return nil, err
	}

	gas, err := backend.EstimateGas(ctx, msg)
	if err != nil {
		return nil, err
	}
	return Result{"gasLimit": gas}, nil
}

func feeGetFeeParams(ctx context.Context, backend Backend, _ Params) (Result, error) {
	params, err := backend.FeeParams(ctx)
	if err != nil {
		return nil, err
	}
	return Result{"feeParams": params}, nil
}

// feeCalculateTransactionCost prices gasUsed at gasPrice, or at the node's suggested price when omitted.
func feeCalculateTransactionCost(ctx context.Context, backend Backend, params Params) (Result, error) {
	gasUsed, err := params.BigInt("gasUsed")
	if err != nil {
		return nil, err
	}

	var gasPrice *big.Int
	if params.Has("gasPrice") {
		if gasPrice, err = params.BigInt("gasPrice"); err != nil {
			return nil, err
		}
	} else if gasPrice, err = backend.SuggestGasPrice(ctx); err != nil {
		return nil, err
	}

	cost, err := units.ComputeTransactionCost(gasUsed, gasPrice)
	if err != nil {
		return nil, err
	}
	return Result{
		"gasUsed":  gasUsed.String(),
		"gasPrice": gasPrice.String(),
		"wei":      cost.Wei,
		"gwei":     cost.Gwei,
		"ether":    cost.Ether,
	}, nil
}

func eventsGetLogs(ctx context.Context, backend Backend, params Params) (Result, error) {
	to, err := blockNumberOrLatest(ctx, backend, Params{"blockNumber": params["toBlock"]})
	if err != nil {
		return nil, err
	}
	from, err := params.Uint64Or("fromBlock", to)
	if err != nil {
		return nil, err
	}
	if from > to {
		return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "fromBlock %d is after toBlock %d", from, to)
	}
	if to-from >= utils.MaxLogRange {
		return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "block range %d-%d exceeds %d blocks", from, to, utils.MaxLogRange)
	}

	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
	}
	if params.Has("address") {
		address, err := params.Address("address")
		if err != nil {
			return nil, err
		}
		query.Addresses = []common.Address{address}
	}

	topics, err := params.List("topics")
	if err != nil {
		return nil, err
	}
	for i, topic := range topics {
		if topic == nil {
			query.Topics = append(query.Topics, nil)
			continue
		}
		hash, err := Params{"topic": topic}.Hash("topic")
		if err != nil {
			return nil, errors.Wrapf(err, "topic %d", i)
		}
		query.Topics = append(query.Topics, []common.Hash{hash})
	}

	logs, err := backend.FilterLogs(ctx, query)
	if err != nil {
		return nil, err
	}

	out := make([]Result, 0, len(logs))
	for _, log := range logs {
		entry := Result{
			"address":         log.Address.Hex(),
			"topics":          log.Topics,
			"data":            hexutil.Encode(log.Data),
			"blockNumber":     log.BlockNumber,
			"transactionHash": log.TxHash.Hex(),
			"logIndex":        log.Index,
		}
		if event := utils.GetEventType(log); event != "" {
			entry["eventType"] = event
		}
		out = append(out, entry)
	}
	return Result{"fromBlock": from, "toBlock": to, "count": len(out), "logs": out}, nil
}

func l1GetL1BatchStatus(ctx context.Context, backend Backend, params Params) (Result, error) {
	batch, err := params.Uint64("batchNumber")
	if err != nil {
		return nil, err
	}

	details, err := backend.L1BatchDetails(ctx, batch)
	if err != nil {
		return nil, err
	}

	return Result{
		"batchNumber":   batch,
		"status":        details.Status,
		"stage":         details.Stage(),
		"executed":      details.IsExecuted(),
		"commitTxHash":  hashOrNil(details.CommitTxHash),
		"proveTxHash":   hashOrNil(details.ProveTxHash),
		"executeTxHash": hashOrNil(details.ExecuteTxHash),
	}, nil
}

func blockNumberOrLatest(ctx context.Context, backend Backend, params Params) (uint64, error) {
	if !params.Has("blockNumber") || params.StringOr("blockNumber", "") == "latest" {
		return backend.BlockNumber(ctx)
	}
	return params.Uint64("blockNumber")
}

func addressOrNil(address *common.Address) interface{} {
	if address == nil {
		return nil
	}
	return address.Hex()
}

func hashOrNil(hash *common.Hash) interface{} {
	if hash == nil {
		return nil
	}
	return hash.Hex()
}
