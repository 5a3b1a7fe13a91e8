package operations

import (
	"context"

	"github.com/Velocity-BPA/zksync-lib/chains/zksync/signer"
	"github.com/Velocity-BPA/zksync-lib/chains/zksync/utils"
	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/Velocity-BPA/zksync-lib/systemcontracts"
	"github.com/Velocity-BPA/zksync-lib/units"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

func systemContractsList(_ context.Context, _ Backend, _ Params) (Result, error) {
	all := systemcontracts.All()
	out := make([]Result, 0, len(all))
	for _, c := range all {
		out = append(out, Result{"name": c.Name, "address": c.Address.Hex()})
	}
	return Result{"contracts": out, "count": len(out)}, nil
}

func systemContractsGetAddress(_ context.Context, _ Backend, params Params) (Result, error) {
	name, err := params.String("name")
	if err != nil {
		return nil, err
	}

	address, err := systemcontracts.Lookup(name)
	if err != nil {
		return nil, err
	}
	return Result{"name": name, "address": address.Hex()}, nil
}

func utilityConvertUnits(_ context.Context, _ Backend, params Params) (Result, error) {
	value, err := params.String("value")
	if err != nil {
		return nil, err
	}
	from, err := units.ParseDenomination(params.StringOr("fromUnit", string(units.Ether)))
	if err != nil {
		return nil, err
	}
	to, err := units.ParseDenomination(params.StringOr("toUnit", string(units.Wei)))
	if err != nil {
		return nil, err
	}

	converted, err := units.Convert(value, from, to)
	if err != nil {
		return nil, err
	}
	return Result{"value": value, "fromUnit": string(from), "toUnit": string(to), "result": converted}, nil
}

func utilityChecksumAddress(_ context.Context, _ Backend, params Params) (Result, error) {
	address, err := params.String("address")
	if err != nil {
		return nil, err
	}

	checksummed, err := utils.ChecksumAddress(address)
	if err != nil {
		return nil, err
	}
	return Result{"address": checksummed}, nil
}

func utilityValidateAddress(_ context.Context, _ Backend, params Params) (Result, error) {
	address, err := params.String("address")
	if err != nil {
		return nil, err
	}

	out := Result{"address": address, "valid": utils.IsValidAddress(address)}
	if checksummed, err := utils.ChecksumAddress(address); err == nil {
		out["checksumAddress"] = checksummed
	}
	return out, nil
}

// utilityKeccak256 hashes data as UTF-8 text, or as hex bytes when encoding is "hex".
func utilityKeccak256(_ context.Context, _ Backend, params Params) (Result, error) {
	if _, ok := params["data"]; !ok {
		return nil, missing("data")
	}
	data, _ := params["data"].(string)

	var payload []byte
	switch encoding := params.StringOr("encoding", "utf8"); encoding {
	case "utf8", "text":
		payload = []byte(data)
	case "hex":
		raw, err := hexutil.Decode(data)
		if err != nil {
			return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "data is not hex: %v", err)
		}
		payload = raw
	default:
		return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "unsupported encoding %q", encoding)
	}

	return Result{"hash": crypto.Keccak256Hash(payload).Hex()}, nil
}

func utilityParseUnits(_ context.Context, _ Backend, params Params) (Result, error) {
	value, err := params.String("value")
	if err != nil {
		return nil, err
	}
	decimals, err := params.Uint64Or("decimals", units.EtherDecimals)
	if err != nil {
		return nil, err
	}

	raw, err := units.ParseTokenAmount(value, int(decimals))
	if err != nil {
		return nil, err
	}
	return Result{"value": value, "decimals": decimals, "result": raw.String()}, nil
}

func utilityFormatUnits(_ context.Context, _ Backend, params Params) (Result, error) {
	raw, err := params.BigInt("value")
	if err != nil {
		return nil, err
	}
	decimals, err := params.Uint64Or("decimals", units.EtherDecimals)
	if err != nil {
		return nil, err
	}

	formatted, err := units.FormatTokenAmount(raw, int(decimals))
	if err != nil {
		return nil, err
	}
	return Result{"value": raw.String(), "decimals": decimals, "result": formatted}, nil
}

// utilityVerifyMessage recovers the signer of an EIP-191 signature produced by account.signMessage.
// When address is given, valid reports whether it matches the recovered signer.
func utilityVerifyMessage(_ context.Context, _ Backend, params Params) (Result, error) {
	payload, err := messagePayload(params)
	if err != nil {
		return nil, err
	}
	encoded, err := params.String("signature")
	if err != nil {
		return nil, err
	}
	signature, err := hexutil.Decode(encoded)
	if err != nil {
		return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "signature is not hex: %v", err)
	}

	recovered, err := signer.RecoverMessageSigner(payload, signature)
	if err != nil {
		return nil, err
	}

	out := Result{"signer": recovered.Hex()}
	if params.Has("address") {
		expected, err := params.Address("address")
		if err != nil {
			return nil, err
		}
		out["valid"] = expected == recovered
	}
	return out, nil
}
