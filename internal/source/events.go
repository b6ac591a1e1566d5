package source

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	gethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/curachain/claimscan/internal/common"
)

// Claims contract event signatures. claimKey and provider are indexed on both
// kinds; everything else travels in the data section.
const (
	claimPaidSignature     = "ClaimPaid(bytes32,address,uint16,uint16,uint256,uint32)"
	claimRejectedSignature = "ClaimRejected(bytes32,address,uint16,uint16,string)"
)

type eventBinding struct {
	kind            common.ClaimKind
	name            string
	topic0          gethCommon.Hash
	dataArgs        abi.Arguments
	providerIndexed bool
}

func newClaimEventBindings() (map[common.ClaimKind]eventBinding, error) {
	uint16Type, err := abi.NewType("uint16", "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build uint16 abi type: %v", err)
	}
	uint32Type, err := abi.NewType("uint32", "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build uint32 abi type: %v", err)
	}
	uint256Type, err := abi.NewType("uint256", "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build uint256 abi type: %v", err)
	}
	stringType, err := abi.NewType("string", "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build string abi type: %v", err)
	}

	return map[common.ClaimKind]eventBinding{
		common.ClaimKindPaid: {
			kind:   common.ClaimKindPaid,
			name:   "ClaimPaid",
			topic0: crypto.Keccak256Hash([]byte(claimPaidSignature)),
			dataArgs: abi.Arguments{
				{Name: "code", Type: uint16Type},
				{Name: "year", Type: uint16Type},
				{Name: "amount", Type: uint256Type},
				{Name: "visitIndex", Type: uint32Type},
			},
			providerIndexed: true,
		},
		common.ClaimKindRejected: {
			kind:   common.ClaimKindRejected,
			name:   "ClaimRejected",
			topic0: crypto.Keccak256Hash([]byte(claimRejectedSignature)),
			dataArgs: abi.Arguments{
				{Name: "code", Type: uint16Type},
				{Name: "year", Type: uint16Type},
				{Name: "reason", Type: stringType},
			},
			providerIndexed: true,
		},
	}, nil
}

func (ev eventBinding) decode(lg types.Log) (common.ClaimEvent, error) {
	if len(lg.Topics) != 3 {
		return common.ClaimEvent{}, &MalformedLogError{
			TxHash: lg.TxHash.Hex(),
			Reason: fmt.Sprintf("%s expects 3 topics, got %d", ev.name, len(lg.Topics)),
		}
	}
	if lg.Topics[0] != ev.topic0 {
		return common.ClaimEvent{}, &MalformedLogError{
			TxHash: lg.TxHash.Hex(),
			Reason: fmt.Sprintf("topic0 %s does not match %s", lg.Topics[0].Hex(), ev.name),
		}
	}

	values, err := ev.dataArgs.Unpack(lg.Data)
	if err != nil {
		return common.ClaimEvent{}, &MalformedLogError{
			TxHash: lg.TxHash.Hex(),
			Reason: fmt.Sprintf("failed to unpack %s data: %v", ev.name, err),
		}
	}
	if len(values) != len(ev.dataArgs) {
		return common.ClaimEvent{}, &MalformedLogError{
			TxHash: lg.TxHash.Hex(),
			Reason: fmt.Sprintf("%s data has %d values, expected %d", ev.name, len(values), len(ev.dataArgs)),
		}
	}

	provider := gethCommon.BytesToAddress(lg.Topics[2].Bytes())
	event := common.ClaimEvent{
		Kind:     ev.kind,
		ClaimKey: lg.Topics[1].Hex(),
		Provider: provider.Hex(),
		SourceRef: common.SourceRef{
			BlockNumber:     lg.BlockNumber,
			TransactionHash: lg.TxHash.Hex(),
		},
	}

	code, ok := values[0].(uint16)
	if !ok {
		return common.ClaimEvent{}, &MalformedLogError{TxHash: lg.TxHash.Hex(), Reason: "code is not uint16"}
	}
	year, ok := values[1].(uint16)
	if !ok {
		return common.ClaimEvent{}, &MalformedLogError{TxHash: lg.TxHash.Hex(), Reason: "year is not uint16"}
	}
	event.Code = code
	event.Year = year

	switch ev.kind {
	case common.ClaimKindPaid:
		amount, ok := values[2].(*big.Int)
		if !ok {
			return common.ClaimEvent{}, &MalformedLogError{TxHash: lg.TxHash.Hex(), Reason: "amount is not uint256"}
		}
		visitIndex, ok := values[3].(uint32)
		if !ok {
			return common.ClaimEvent{}, &MalformedLogError{TxHash: lg.TxHash.Hex(), Reason: "visit index is not uint32"}
		}
		event.Amount = amount
		event.VisitIndex = &visitIndex
	case common.ClaimKindRejected:
		reason, ok := values[2].(string)
		if !ok {
			return common.ClaimEvent{}, &MalformedLogError{TxHash: lg.TxHash.Hex(), Reason: "reason is not string"}
		}
		event.Reason = reason
	}

	return event, nil
}

func newBlockNumber(block uint64) *big.Int {
	return new(big.Int).SetUint64(block)
}
