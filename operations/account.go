package operations

import (
	"context"
	"math/big"

	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/Velocity-BPA/zksync-lib/systemcontracts"
	"github.com/Velocity-BPA/zksync-lib/units"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// Account types reported by getAccountType.
const (
	AccountTypeEOA            = "eoa"
	AccountTypeSmartAccount   = "smartAccount"
	AccountTypeSystemContract = "systemContract"
)

// blockParam reads an optional block number; unset means latest.
func blockParam(params Params, name string) (*big.Int, error) {
	if !params.Has(name) {
		return nil, nil
	}
	if s, _ := params.String(name); s == "latest" {
		return nil, nil
	}
	return params.BigInt(name)
}

func accountGetBalance(ctx context.Context, backend Backend, params Params) (Result, error) {
	address, err := params.Address("address")
	if err != nil {
		return nil, err
	}
	block, err := blockParam(params, "blockNumber")
	if err != nil {
		return nil, err
	}

	balance, err := backend.BalanceAt(ctx, address, block)
	if err != nil {
		return nil, err
	}

	return Result{
		"address": address.Hex(),
		"wei":     balance.String(),
		"ether":   units.FromBaseUnits(balance),
	}, nil
}

func accountGetTokenBalance(ctx context.Context, backend Backend, params Params) (Result, error) {
	address, err := params.Address("address")
	if err != nil {
		return nil, err
	}
	token, err := params.Address("tokenAddress")
	if err != nil {
		return nil, err
	}
	return tokenBalanceResult(ctx, backend, token, address)
}

func accountGetTransactionCount(ctx context.Context, backend Backend, params Params) (Result, error) {
	address, err := params.Address("address")
	if err != nil {
		return nil, err
	}

	var count uint64
	switch tag := params.StringOr("blockTag", "latest"); tag {
	case "pending":
		count, err = backend.PendingNonceAt(ctx, address)
	case "latest":
		count, err = backend.NonceAt(ctx, address, nil)
	default:
		return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "unsupported block tag %q", tag)
	}
	if err != nil {
		return nil, err
	}

	return Result{"address": address.Hex(), "transactionCount": count}, nil
}

func accountGetAllBalances(ctx context.Context, backend Backend, params Params) (Result, error) {
	address, err := params.Address("address")
	if err != nil {
		return nil, err
	}

	balances, err := backend.AllAccountBalances(ctx, address)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(balances))
	for token, amount := range balances {
		out[token.Hex()] = amount.String()
	}
	return Result{"address": address.Hex(), "balances": out}, nil
}

func accountGetAccountType(ctx context.Context, backend Backend, params Params) (Result, error) {
	address, err := params.Address("address")
	if err != nil {
		return nil, err
	}

	accountType := AccountTypeSystemContract
	if !systemcontracts.IsSystemContract(address) {
		code, err := backend.CodeAt(ctx, address, nil)
		if err != nil {
			return nil, err
		}
		accountType = AccountTypeEOA
		if len(code) > 0 {
			accountType = AccountTypeSmartAccount
		}
	}

	return Result{"address": address.Hex(), "accountType": accountType}, nil
}

// messagePayload reads the message parameter as text, or as hex bytes when isHex is set.
func messagePayload(params Params) ([]byte, error) {
	message, err := params.String("message")
	if err != nil {
		return nil, err
	}
	if !params.Bool("isHex") {
		return []byte(message), nil
	}

	payload, err := hexutil.Decode(message)
	if err != nil {
		return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "message is not hex: %v", err)
	}
	return payload, nil
}

func accountSignMessage(_ context.Context, backend Backend, params Params) (Result, error) {
	payload, err := messagePayload(params)
	if err != nil {
		return nil, err
	}

	signature, err := backend.SignMessage(payload)
	if err != nil {
		return nil, err
	}
	signer, err := backend.SignerAddress()
	if err != nil {
		return nil, err
	}

	return Result{"signature": signature, "signer": signer}, nil
}
