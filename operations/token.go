package operations

import (
	"context"
	"strconv"
	"strings"

	"github.com/Velocity-BPA/zksync-lib/chains/zksync/utils"
	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/Velocity-BPA/zksync-lib/units"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

func tokenGetInfo(ctx context.Context, backend Backend, params Params) (Result, error) {
	token, err := params.Address("tokenAddress")
	if err != nil {
		return nil, err
	}

	info, err := backend.TokenInfo(ctx, token)
	if err != nil {
		return nil, err
	}

	supply, err := units.FormatTokenAmount(info.TotalSupply, int(info.Decimals))
	if err != nil {
		return nil, err
	}

	return Result{
		"address":              info.Address.Hex(),
		"name":                 info.Name,
		"symbol":               info.Symbol,
		"decimals":             info.Decimals,
		"totalSupply":          info.TotalSupply.String(),
		"totalSupplyFormatted": supply,
	}, nil
}

func tokenGetBalance(ctx context.Context, backend Backend, params Params) (Result, error) {
	token, err := params.Address("tokenAddress")
	if err != nil {
		return nil, err
	}
	owner, err := params.Address("address")
	if err != nil {
		return nil, err
	}
	return tokenBalanceResult(ctx, backend, token, owner)
}

func tokenBalanceResult(ctx context.Context, backend Backend, token, owner common.Address) (Result, error) {
	balance, err := backend.TokenBalance(ctx, token, owner)
	if err != nil {
		return nil, err
	}

	formatted, err := units.FormatTokenAmount(balance.Raw, int(balance.Decimals))
	if err != nil {
		return nil, err
	}

	return Result{
		"address":   owner.Hex(),
		"token":     token.Hex(),
		"balance":   balance.Raw.String(),
		"decimals":  balance.Decimals,
		"formatted": formatted,
	}, nil
}

func tokenGetAllowance(ctx context.Context, backend Backend, params Params) (Result, error) {
	token, err := params.Address("tokenAddress")
	if err != nil {
		return nil, err
	}
	owner, err := params.Address("owner")
	if err != nil {
		return nil, err
	}
	spender, err := params.Address("spender")
	if err != nil {
		return nil, err
	}

	allowance, err := backend.Allowance(ctx, token, owner, spender)
	if err != nil {
		return nil, err
	}

	return Result{
		"token":     token.Hex(),
		"owner":     owner.Hex(),
		"spender":   spender.Hex(),
		"allowance": allowance.String(),
	}, nil
}

// tokenTransfer sends amount, expressed in whole tokens, to the recipient.
// decimals are read from the token unless given.
func tokenTransfer(ctx context.Context, backend Backend, params Params) (Result, error) {
	token, err := params.Address("tokenAddress")
	if err != nil {
		return nil, err
	}
	to, err := params.String("to")
	if err != nil {
		return nil, err
	}
	amount, err := params.String("amount")
	if err != nil {
		return nil, err
	}

	var decimals uint64
	if params.Has("decimals") {
		if decimals, err = params.Uint64("decimals"); err != nil {
			return nil, err
		}
	} else {
		info, err := backend.TokenInfo(ctx, token)
		if err != nil {
			return nil, err
		}
		decimals = uint64(info.Decimals)
	}

	raw, err := units.ParseTokenAmount(amount, int(decimals))
	if err != nil {
		return nil, err
	}

	tx, err := backend.SendToken(ctx, token.Hex(), to, raw)
	if err != nil {
		return nil, err
	}
	return sentResult(tx), nil
}

func nftGetOwner(ctx context.Context, backend Backend, params Params) (Result, error) {
	collection, err := params.Address("contractAddress")
	if err != nil {
		return nil, err
	}
	tokenID, err := params.BigInt("tokenId")
	if err != nil {
		return nil, err
	}

	owner, err := backend.NFTOwner(ctx, collection, tokenID)
	if err != nil {
		return nil, err
	}
	return Result{"contract": collection.Hex(), "tokenId": tokenID.String(), "owner": owner.Hex()}, nil
}

func nftGetTokenURI(ctx context.Context, backend Backend, params Params) (Result, error) {
	collection, err := params.Address("contractAddress")
	if err != nil {
		return nil, err
	}
	tokenID, err := params.BigInt("tokenId")
	if err != nil {
		return nil, err
	}

	uri, err := backend.NFTTokenURI(ctx, collection, tokenID)
	if err != nil {
		return nil, err
	}
	return Result{"contract": collection.Hex(), "tokenId": tokenID.String(), "tokenUri": uri}, nil
}

func nftGetBalance(ctx context.Context, backend Backend, params Params) (Result, error) {
	collection, err := params.Address("contractAddress")
	if err != nil {
		return nil, err
	}
	owner, err := params.Address("address")
	if err != nil {
		return nil, err
	}

	balance, err := backend.NFTBalance(ctx, collection, owner)
	if err != nil {
		return nil, err
	}
	return Result{"contract": collection.Hex(), "address": owner.Hex(), "balance": balance.String()}, nil
}

func contractRead(ctx context.Context, backend Backend, params Params) (Result, error) {
	contract, err := params.Address("contractAddress")
	if err != nil {
		return nil, err
	}
	parsed, method, args, err := methodCall(params)
	if err != nil {
		return nil, err
	}

	values, err := backend.CallMethod(ctx, parsed, contract, method.Name, args...)
	if err != nil {
		return nil, err
	}

	outputs := make(map[string]interface{}, len(values))
	list := make([]interface{}, len(values))
	for i, value := range values {
		normalized := utils.NormalizeABIValue(value)
		list[i] = normalized
		outputs[outputName(method, i)] = normalized
	}

	out := Result{"contract": contract.Hex(), "method": method.Name, "outputs": outputs}
	if len(list) == 1 {
		out["result"] = list[0]
	} else {
		out["result"] = list
	}
	return out, nil
}

func contractGetCode(ctx context.Context, backend Backend, params Params) (Result, error) {
	address, err := params.Address("address")
	if err != nil {
		return nil, err
	}

	code, err := backend.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, err
	}
	return Result{
		"address":    address.Hex(),
		"code":       hexutil.Encode(code),
		"isContract": len(code) > 0,
	}, nil
}

func contractEncodeFunctionData(_ context.Context, _ Backend, params Params) (Result, error) {
	parsed, method, args, err := methodCall(params)
	if err != nil {
		return nil, err
	}

	data, err := parsed.Pack(method.Name, args...)
	if err != nil {
		return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "failed to pack %s: %v", method.Name, err)
	}
	return Result{
		"method":   method.Name,
		"selector": hexutil.Encode(method.ID),
		"data":     hexutil.Encode(data),
	}, nil
}

// methodCall parses the abi, method and args parameters and coerces args to the method inputs.
func methodCall(params Params) (abi.ABI, abi.Method, []interface{}, error) {
	definition, err := params.String("abi")
	if err != nil {
		return abi.ABI{}, abi.Method{}, nil, err
	}
	name, err := params.String("method")
	if err != nil {
		return abi.ABI{}, abi.Method{}, nil, err
	}
	raw, err := params.List("args")
	if err != nil {
		return abi.ABI{}, abi.Method{}, nil, err
	}

	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		return abi.ABI{}, abi.Method{}, nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "invalid ABI: %v", err)
	}
	method, ok := parsed.Methods[name]
	if !ok {
		return abi.ABI{}, abi.Method{}, nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "method %q not found in ABI", name)
	}
	if len(raw) != len(method.Inputs) {
		return abi.ABI{}, abi.Method{}, nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "%s expects %d arguments, got %d", name, len(method.Inputs), len(raw))
	}

	args := make([]interface{}, len(raw))
	for i, input := range method.Inputs {
		if args[i], err = utils.CoerceABIArgument(input.Type, raw[i]); err != nil {
			return abi.ABI{}, abi.Method{}, nil, errors.Wrapf(err, "argument %d of %s", i, name)
		}
	}
	return parsed, method, args, nil
}

func outputName(method abi.Method, i int) string {
	if name := method.Outputs[i].Name; name != "" {
		return name
	}
	return "output" + strconv.Itoa(i)
}
