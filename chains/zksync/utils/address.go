package utils

import (
	"strings"

	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

const (
	// ZeroAddress represents the zero address, used for ETH in token parameters.
	ZeroAddress = "0x0000000000000000000000000000000000000000"
	// L2BaseTokenAddress is the system contract holding ETH balances on zkSync Era.
	L2BaseTokenAddress = "0x000000000000000000000000000000000000800a"
)

// ParseAddress validates a hex address and returns it.
// Mixed-case input must carry a valid EIP-55 checksum; all-lower or all-upper input is accepted as is.
func ParseAddress(address string) (common.Address, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) || !strings.HasPrefix(strings.ToLower(address), "0x") {
		return common.Address{}, errors.Wrapf(zkerrors.ErrInvalidAddress, "%q is not a hex address", address)
	}

	parsed := common.HexToAddress(address)
	body := address[2:]
	if body != strings.ToLower(body) && body != strings.ToUpper(body) && parsed.Hex() != address {
		return common.Address{}, errors.Wrapf(zkerrors.ErrInvalidAddress, "%q has an invalid checksum", address)
	}

	return parsed, nil
}

// IsValidAddress reports whether ParseAddress accepts address.
func IsValidAddress(address string) bool {
	_, err := ParseAddress(address)
	return err == nil
}

// ChecksumAddress returns the EIP-55 form of address.
func ChecksumAddress(address string) (string, error) {
	parsed, err := ParseAddress(address)
	if err != nil {
		return "", err
	}
	return parsed.Hex(), nil
}

// IsNativeToken reports whether tokenAddress designates ETH.
func IsNativeToken(tokenAddress string) bool {
	return tokenAddress == "" ||
		strings.EqualFold(tokenAddress, ZeroAddress) ||
		strings.EqualFold(tokenAddress, L2BaseTokenAddress)
}
