// Package systemcontracts lists the zkSync Era system contracts and precompiles.
package systemcontracts

import (
	"strings"

	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Contract is a named system contract address.
type Contract struct {
	Name    string         `json:"name"`
	Address common.Address `json:"address"`
}

var contracts = []Contract{
	{Name: "Bootloader", Address: common.HexToAddress("0x0000000000000000000000000000000000008001")},
	{Name: "AccountCodeStorage", Address: common.HexToAddress("0x0000000000000000000000000000000000008002")},
	{Name: "NonceHolder", Address: common.HexToAddress("0x0000000000000000000000000000000000008003")},
	{Name: "KnownCodesStorage", Address: common.HexToAddress("0x0000000000000000000000000000000000008004")},
	{Name: "ImmutableSimulator", Address: common.HexToAddress("0x0000000000000000000000000000000000008005")},
	{Name: "ContractDeployer", Address: common.HexToAddress("0x0000000000000000000000000000000000008006")},
	{Name: "ForceDeployer", Address: common.HexToAddress("0x0000000000000000000000000000000000008007")},
	{Name: "L1Messenger", Address: common.HexToAddress("0x0000000000000000000000000000000000008008")},
	{Name: "MsgValueSimulator", Address: common.HexToAddress("0x0000000000000000000000000000000000008009")},
	{Name: "L2BaseToken", Address: common.HexToAddress("0x000000000000000000000000000000000000800a")},
	{Name: "SystemContext", Address: common.HexToAddress("0x000000000000000000000000000000000000800b")},
	{Name: "BootloaderUtilities", Address: common.HexToAddress("0x000000000000000000000000000000000000800c")},
	{Name: "EventWriter", Address: common.HexToAddress("0x000000000000000000000000000000000000800d")},
	{Name: "Compressor", Address: common.HexToAddress("0x000000000000000000000000000000000000800e")},
	{Name: "ComplexUpgrader", Address: common.HexToAddress("0x000000000000000000000000000000000000800f")},
	{Name: "Keccak256", Address: common.HexToAddress("0x0000000000000000000000000000000000008010")},
	{Name: "PubdataChunkPublisher", Address: common.HexToAddress("0x0000000000000000000000000000000000008011")},
	{Name: "Ecrecover", Address: common.HexToAddress("0x0000000000000000000000000000000000000001")},
	{Name: "SHA256", Address: common.HexToAddress("0x0000000000000000000000000000000000000002")},
}

// All returns a copy of the table in declaration order.
func All() []Contract {
	out := make([]Contract, len(contracts))
	copy(out, contracts)
	return out
}

// Lookup returns the address of the named contract. Names match case-insensitively.
func Lookup(name string) (common.Address, error) {
	for _, c := range contracts {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return c.Address, nil
		}
	}
	return common.Address{}, errors.Wrapf(zkerrors.ErrInvalidParameter, "unknown system contract %q", name)
}

// IsSystemContract reports whether address is in the table.
func IsSystemContract(address common.Address) bool {
	for _, c := range contracts {
		if c.Address == address {
			return true
		}
	}
	return false
}
