package operations

import (
	"context"
	"sort"
)

// Resource groups related operations.
type Resource string

const (
	ResourceAccount            Resource = "account"
	ResourceTransaction        Resource = "transaction"
	ResourceAccountAbstraction Resource = "accountAbstraction"
	ResourcePaymaster          Resource = "paymaster"
	ResourceToken              Resource = "token"
	ResourceNFT                Resource = "nft"
	ResourceContract           Resource = "contract"
	ResourceBridge             Resource = "bridge"
	ResourceBlock              Resource = "block"
	ResourceProof              Resource = "proof"
	ResourceFee                Resource = "fee"
	ResourceEvents             Resource = "events"
	ResourceL1Interaction      Resource = "l1Interaction"
	ResourceSystemContracts    Resource = "systemContracts"
	ResourceUtility            Resource = "utility"
)

// Operation names an action within a resource.
type Operation string

const (
	OpGetBalance            Operation = "getBalance"
	OpGetTokenBalance       Operation = "getTokenBalance"
	OpGetTransactionCount   Operation = "getTransactionCount"
	OpGetAllBalances        Operation = "getAllBalances"
	OpGetAccountType        Operation = "getAccountType"
	OpSignMessage           Operation = "signMessage"
	OpGet                   Operation = "get"
	OpGetReceipt            Operation = "getReceipt"
	OpGetDetails            Operation = "getDetails"
	OpSendEth               Operation = "sendEth"
	OpWaitForReceipt        Operation = "waitForReceipt"
	OpIsSmartAccount        Operation = "isSmartAccount"
	OpGetNonce              Operation = "getNonce"
	OpEncodeGeneral         Operation = "encodeGeneral"
	OpEncodeApprovalBased   Operation = "encodeApprovalBased"
	OpDecode                Operation = "decode"
	OpGetTestnetPaymaster   Operation = "getTestnetPaymaster"
	OpGetInfo               Operation = "getInfo"
	OpGetAllowance          Operation = "getAllowance"
	OpTransfer              Operation = "transfer"
	OpGetOwner              Operation = "getOwner"
	OpGetTokenURI           Operation = "getTokenUri"
	OpRead                  Operation = "read"
	OpGetCode               Operation = "getCode"
	OpEncodeFunctionData    Operation = "encodeFunctionData"
	OpGetContracts          Operation = "getContracts"
	OpGetMainContract       Operation = "getMainContract"
	OpGetBaseTokenL1Address Operation = "getBaseTokenL1Address"
	OpGetBlockNumber        Operation = "getBlockNumber"
	OpGetBlock              Operation = "getBlock"
	OpGetBlockDetails       Operation = "getBlockDetails"
	OpGetL1BatchNumber      Operation = "getL1BatchNumber"
	OpGetL1BatchDetails     Operation = "getL1BatchDetails"
	OpGetL1BatchBlockRange  Operation = "getL1BatchBlockRange"
	OpGetL2ToL1LogProof     Operation = "getL2ToL1LogProof"
	OpGetGasPrice           Operation = "getGasPrice"
	OpEstimateGas           Operation = "estimateGas"
	OpGetFeeParams          Operation = "getFeeParams"
	OpCalculateTxCost       Operation = "calculateTransactionCost"
	OpGetLogs               Operation = "getLogs"
	OpGetL1BatchStatus      Operation = "getL1BatchStatus"
	OpList                  Operation = "list"
	OpGetAddress            Operation = "getAddress"
	OpConvertUnits          Operation = "convertUnits"
	OpChecksumAddress       Operation = "checksumAddress"
	OpValidateAddress       Operation = "validateAddress"
	OpKeccak256             Operation = "keccak256"
	OpParseUnits            Operation = "parseUnits"
	OpFormatUnits           Operation = "formatUnits"
	OpVerifyMessage         Operation = "verifyMessage"
)

// Key identifies a handler.
type Key struct {
	Resource  Resource
	Operation Operation
}

func (k Key) String() string {
	return string(k.Resource) + "." + string(k.Operation)
}

// Handler executes one operation against backend.
type Handler func(ctx context.Context, backend Backend, params Params) (Result, error)

var handlers = map[Key]Handler{
	{ResourceAccount, OpGetBalance}:          accountGetBalance,
	{ResourceAccount, OpGetTokenBalance}:     accountGetTokenBalance,
	{ResourceAccount, OpGetTransactionCount}: accountGetTransactionCount,
	{ResourceAccount, OpGetAllBalances}:      accountGetAllBalances,
	{ResourceAccount, OpGetAccountType}:      accountGetAccountType,
	{ResourceAccount, OpSignMessage}:         accountSignMessage,

	{ResourceTransaction, OpGet}:            transactionGet,
	{ResourceTransaction, OpGetReceipt}:     transactionGetReceipt,
	{ResourceTransaction, OpGetDetails}:     transactionGetDetails,
	{ResourceTransaction, OpSendEth}:        transactionSendEth,
	{ResourceTransaction, OpWaitForReceipt}: transactionWaitForReceipt,

	{ResourceAccountAbstraction, OpIsSmartAccount}: aaIsSmartAccount,
	{ResourceAccountAbstraction, OpGetNonce}:       aaGetNonce,

	{ResourcePaymaster, OpEncodeGeneral}:       paymasterEncodeGeneral,
	{ResourcePaymaster, OpEncodeApprovalBased}: paymasterEncodeApprovalBased,
	{ResourcePaymaster, OpDecode}:              paymasterDecode,
	{ResourcePaymaster, OpGetTestnetPaymaster}: paymasterGetTestnetPaymaster,

	{ResourceToken, OpGetInfo}:      tokenGetInfo,
	{ResourceToken, OpGetBalance}:   tokenGetBalance,
	{ResourceToken, OpGetAllowance}: tokenGetAllowance,
	{ResourceToken, OpTransfer}:     tokenTransfer,

	{ResourceNFT, OpGetOwner}:    nftGetOwner,
	{ResourceNFT, OpGetTokenURI}: nftGetTokenURI,
	{ResourceNFT, OpGetBalance}:  nftGetBalance,

	{ResourceContract, OpRead}:               contractRead,
	{ResourceContract, OpGetCode}:            contractGetCode,
	{ResourceContract, OpEncodeFunctionData}: contractEncodeFunctionData,

	{ResourceBridge, OpGetContracts}:          bridgeGetContracts,
	{ResourceBridge, OpGetMainContract}:       bridgeGetMainContract,
	{ResourceBridge, OpGetBaseTokenL1Address}: bridgeGetBaseTokenL1Address,

	{ResourceBlock, OpGetBlockNumber}:       blockGetBlockNumber,
	{ResourceBlock, OpGetBlock}:             blockGetBlock,
	{ResourceBlock, OpGetBlockDetails}:      blockGetBlockDetails,
	{ResourceBlock, OpGetL1BatchNumber}:     blockGetL1BatchNumber,
	{ResourceBlock, OpGetL1BatchDetails}:    blockGetL1BatchDetails,
	{ResourceBlock, OpGetL1BatchBlockRange}: blockGetL1BatchBlockRange,

	{ResourceProof, OpGetL2ToL1LogProof}: proofGetL2ToL1LogProof,

	{ResourceFee, OpGetGasPrice}:     feeGetGasPrice,
	{ResourceFee, OpEstimateGas}:     feeEstimateGas,
	{ResourceFee, OpGetFeeParams}:    feeGetFeeParams,
	{ResourceFee, OpCalculateTxCost}: feeCalculateTransactionCost,

	{ResourceEvents, OpGetLogs}: eventsGetLogs,

	{ResourceL1Interaction, OpGetL1BatchStatus}: l1GetL1BatchStatus,

	{ResourceSystemContracts, OpList}:       systemContractsList,
	{ResourceSystemContracts, OpGetAddress}: systemContractsGetAddress,

	{ResourceUtility, OpConvertUnits}:    utilityConvertUnits,
	{ResourceUtility, OpChecksumAddress}: utilityChecksumAddress,
	{ResourceUtility, OpValidateAddress}: utilityValidateAddress,
	{ResourceUtility, OpKeccak256}:       utilityKeccak256,
	{ResourceUtility, OpParseUnits}:      utilityParseUnits,
	{ResourceUtility, OpFormatUnits}:     utilityFormatUnits,
	{ResourceUtility, OpVerifyMessage}:   utilityVerifyMessage,
}

// Lookup returns the handler registered for key.
func Lookup(key Key) (Handler, bool) {
	h, ok := handlers[key]
	return h, ok
}

// Supported lists every registered key, sorted.
func Supported() []Key {
	keys := make([]Key, 0, len(handlers))
	for k := range handlers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}
