package operations

import (
	"context"
	"time"

	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/Velocity-BPA/zksync-lib/retry"
	"github.com/Velocity-BPA/zksync-lib/units"
	"github.com/ethereum/go-ethereum/common"
)

func transactionGet(ctx context.Context, backend Backend, params Params) (Result, error) {
	hash, err := params.Hash("txHash")
	if err != nil {
		return nil, err
	}

	tx, err := backend.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return notFound(hash), nil
	}
	return Result{"found": true, "transaction": tx}, nil
}

func transactionGetReceipt(ctx context.Context, backend Backend, params Params) (Result, error) {
	hash, err := params.Hash("txHash")
	if err != nil {
		return nil, err
	}

	receipt, err := backend.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return notFound(hash), nil
	}
	return Result{"found": true, "success": receipt.Succeeded(), "receipt": receipt}, nil
}

func transactionGetDetails(ctx context.Context, backend Backend, params Params) (Result, error) {
	hash, err := params.Hash("txHash")
	if err != nil {
		return nil, err
	}

	details, err := backend.TransactionDetails(ctx, hash)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return notFound(hash), nil
	}
	return Result{"found": true, "details": details}, nil
}

func transactionSendEth(ctx context.Context, backend Backend, params Params) (Result, error) {
	to, err := params.String("to")
	if err != nil {
		return nil, err
	}
	amount, err := params.String("amount")
	if err != nil {
		return nil, err
	}
	wei, err := units.ToBaseUnits(amount)
	if err != nil {
		return nil, err
	}

	tx, err := backend.SendNative(ctx, to, wei)
	if err != nil {
		return nil, err
	}
	return sentResult(tx), nil
}

func transactionWaitForReceipt(ctx context.Context, backend Backend, params Params) (Result, error) {
	hash, err := params.Hash("txHash")
	if err != nil {
		return nil, err
	}
	confirmations, err := params.Uint64Or("confirmations", 1)
	if err != nil {
		return nil, err
	}
	attempts, err := params.Uint64Or("maxAttempts", retry.DefaultMaxAttempts)
	if err != nil {
		return nil, err
	}
	intervalMs, err := params.Uint64Or("initialIntervalMs", uint64(retry.DefaultInitialInterval/time.Millisecond))
	if err != nil {
		return nil, err
	}

	result, err := backend.WaitForReceipt(ctx, hash, confirmations, retry.Config{
		InitialInterval: time.Duration(intervalMs) * time.Millisecond,
		MaxAttempts:     attempts,
	})
	if err != nil {
		return nil, err
	}

	out := Result{
		"txHash":        hash.Hex(),
		"status":        string(result.Status),
		"confirmations": result.Confirmations,
	}
	if result.Receipt != nil {
		out["receipt"] = result.Receipt
	}
	return out, nil
}

func sentResult(tx *types.Transaction) Result {
	return Result{
		"hash":        tx.Hash,
		"from":        tx.From,
		"to":          tx.To,
		"recipient":   tx.Recipient,
		"amount":      tx.Amount,
		"token":       tx.Token,
		"nonce":       tx.Nonce,
		"chainId":     tx.ChainID,
		"explorerUrl": tx.ExplorerUrl,
	}
}

func notFound(hash common.Hash) Result {
	return Result{"found": false, "txHash": hash.Hex()}
}
