package zksync

import (
	"context"
	"math/big"
	"strings"

	"github.com/Velocity-BPA/zksync-lib/chains/zksync/generated"
	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	erc20ABI  = mustParseABI(generated.ERC20ABI)
	erc721ABI = mustParseABI(generated.ERC721ABI)
)

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(err)
	}
	return parsed
}

// TokenInfo describes an ERC-20 token.
type TokenInfo struct {
	Address     common.Address
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply *big.Int
}

// TokenBalance is a raw token balance together with the token decimals.
type TokenBalance struct {
	Raw      *big.Int
	Decimals uint8
}

// TokenInfo reads name, symbol, decimals and totalSupply concurrently.
// The first failing read cancels the others and is returned.
func (c *Client) TokenInfo(ctx context.Context, token common.Address) (*TokenInfo, error) {
	info := &TokenInfo{Address: token}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.readContract(gctx, erc20ABI, token, "name", &info.Name)
	})
	g.Go(func() error {
		return c.readContract(gctx, erc20ABI, token, "symbol", &info.Symbol)
	})
	g.Go(func() error {
		return c.readContract(gctx, erc20ABI, token, "decimals", &info.Decimals)
	})
	g.Go(func() error {
		return c.readContract(gctx, erc20ABI, token, "totalSupply", &info.TotalSupply)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return info, nil
}

// TokenBalance reads the token decimals, then the balance of owner.
func (c *Client) TokenBalance(ctx context.Context, token, owner common.Address) (*TokenBalance, error) {
	var decimals uint8
	if err := c.readContract(ctx, erc20ABI, token, "decimals", &decimals); err != nil {
		return nil, err
	}

	var balance *big.Int
	if err := c.readContract(ctx, erc20ABI, token, "balanceOf", &balance, owner); err != nil {
		return nil, err
	}

	return &TokenBalance{Raw: balance, Decimals: decimals}, nil
}

// Allowance returns how much spender may transfer from owner.
func (c *Client) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	var allowance *big.Int
	if err := c.readContract(ctx, erc20ABI, token, "allowance", &allowance, owner, spender); err != nil {
		return nil, err
	}
	return allowance, nil
}

// NFTOwner returns the owner of an ERC-721 token.
func (c *Client) NFTOwner(ctx context.Context, collection common.Address, tokenID *big.Int) (common.Address, error) {
	var owner common.Address
	if err := c.readContract(ctx, erc721ABI, collection, "ownerOf", &owner, tokenID); err != nil {
		return common.Address{}, err
	}
	return owner, nil
}

// NFTTokenURI returns the metadata URI of an ERC-721 token.
func (c *Client) NFTTokenURI(ctx context.Context, collection common.Address, tokenID *big.Int) (string, error) {
	var uri string
	if err := c.readContract(ctx, erc721ABI, collection, "tokenURI", &uri, tokenID); err != nil {
		return "", err
	}
	return uri, nil
}

// NFTBalance returns how many tokens of collection owner holds.
func (c *Client) NFTBalance(ctx context.Context, collection, owner common.Address) (*big.Int, error) {
	var balance *big.Int
	if err := c.readContract(ctx, erc721ABI, collection, "balanceOf", &balance, owner); err != nil {
		return nil, err
	}
	return balance, nil
}

// readContract packs a single-output view call, executes it and unpacks the result into out.
func (c *Client) readContract(ctx context.Context, contractABI abi.ABI, contract common.Address, method string, out interface{}, args ...interface{}) error {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return errors.Wrapf(err, "failed to pack %s data", method)
	}

	result, err := c.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to call %s", method)
	}

	if len(result) == 0 {
		return errors.Wrapf(zkerrors.ErrDecodeFailure, "empty result from %s call on %s", method, contract.Hex())
	}

	if err := contractABI.UnpackIntoInterface(out, method, result); err != nil {
		return errors.Wrapf(zkerrors.ErrDecodeFailure, "failed to unpack %s: %v", method, err)
	}
	return nil
}
