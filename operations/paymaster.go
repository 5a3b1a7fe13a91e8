package operations

import (
	"context"

	"github.com/Velocity-BPA/zksync-lib/paymaster"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

func aaIsSmartAccount(ctx context.Context, backend Backend, params Params) (Result, error) {
	address, err := params.Address("address")
	if err != nil {
		return nil, err
	}

	code, err := backend.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, err
	}
	return Result{"address": address.Hex(), "isSmartAccount": len(code) > 0}, nil
}

func aaGetNonce(ctx context.Context, backend Backend, params Params) (Result, error) {
	address, err := params.Address("address")
	if err != nil {
		return nil, err
	}

	nonce, err := backend.NonceAt(ctx, address, nil)
	if err != nil {
		return nil, err
	}
	pending, err := backend.PendingNonceAt(ctx, address)
	if err != nil {
		return nil, err
	}

	return Result{"address": address.Hex(), "nonce": nonce, "pendingNonce": pending}, nil
}

func paymasterEncodeGeneral(_ context.Context, _ Backend, params Params) (Result, error) {
	address, err := params.Address("paymasterAddress")
	if err != nil {
		return nil, err
	}
	inner, err := params.Bytes("innerInput")
	if err != nil {
		return nil, err
	}

	encoded, err := paymaster.General(address, inner)
	if err != nil {
		return nil, err
	}
	return paymasterResult(encoded), nil
}

func paymasterEncodeApprovalBased(_ context.Context, _ Backend, params Params) (Result, error) {
	address, err := params.Address("paymasterAddress")
	if err != nil {
		return nil, err
	}
	token, err := params.Address("tokenAddress")
	if err != nil {
		return nil, err
	}
	minAllowance, err := params.BigInt("minAllowance")
	if err != nil {
		return nil, err
	}
	inner, err := params.Bytes("innerInput")
	if err != nil {
		return nil, err
	}

	encoded, err := paymaster.ApprovalBased(address, token, minAllowance, inner)
	if err != nil {
		return nil, err
	}
	return paymasterResult(encoded), nil
}

func paymasterDecode(_ context.Context, _ Backend, params Params) (Result, error) {
	if !params.Has("paymasterInput") {
		return nil, missing("paymasterInput")
	}
	input, err := params.Bytes("paymasterInput")
	if err != nil {
		return nil, err
	}

	flow, err := paymaster.Decode(input)
	if err != nil {
		return nil, err
	}

	out := Result{
		"type":       string(flow.Type),
		"innerInput": hexutil.Encode(flow.InnerInput),
	}
	if flow.Type == paymaster.FlowApprovalBased {
		out["token"] = flow.Token.Hex()
		out["minAllowance"] = flow.MinAllowance.String()
	}
	return out, nil
}

func paymasterGetTestnetPaymaster(ctx context.Context, backend Backend, _ Params) (Result, error) {
	address, err := backend.TestnetPaymaster(ctx)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return Result{"available": false}, nil
	}
	return Result{"available": true, "address": address.Hex()}, nil
}

func paymasterResult(params *paymaster.Params) Result {
	return Result{
		"paymaster":      params.Paymaster.Hex(),
		"paymasterInput": hexutil.Encode(params.PaymasterInput),
	}
}
