package source

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	gethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	gethRpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog/log"

	config "github.com/curachain/claimscan/configs"
	"github.com/curachain/claimscan/internal/common"
)

// Capabilities describes what the bound event source can do. Resolved once at
// construction; absence of a required capability is a construction error, not
// a runtime probe.
type Capabilities struct {
	// ProviderFilter is true when the provider field is an indexed topic and
	// queries can be restricted to one provider server-side.
	ProviderFilter bool
}

// ClaimSource is the event-source collaborator of the scanner: a bound claims
// contract reachable over RPC.
type ClaimSource interface {
	HeadBlock(ctx context.Context) (uint64, error)
	// FilterClaims returns the raw logs of one event kind in [fromBlock, toBlock].
	// provider may be empty to fetch unfiltered. Fails with ErrRangeTooLarge
	// when the node declines the span.
	FilterClaims(ctx context.Context, kind common.ClaimKind, provider string, fromBlock, toBlock uint64) ([]types.Log, error)
	// DecodeClaim turns one raw log into a ClaimEvent. Returns a
	// *MalformedLogError for undecodable entries.
	DecodeClaim(kind common.ClaimKind, lg types.Log) (common.ClaimEvent, error)
	Capabilities() Capabilities
}

// Binding is the go-ethereum backed ClaimSource for the claims contract.
type Binding struct {
	rpcClient *gethRpc.Client
	ethClient *ethclient.Client
	contract  gethCommon.Address
	events    map[common.ClaimKind]eventBinding
	caps      Capabilities
	url       string
}

func NewBinding(cfg *config.RPCConfig) (*Binding, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("RPC_URL is not set")
	}
	if cfg.ContractAddress == "" {
		return nil, fmt.Errorf("claims contract address is not set")
	}
	contract, err := common.NormalizeAddress(cfg.ContractAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid claims contract address: %w", err)
	}

	rpcClient, dialErr := gethRpc.Dial(cfg.URL)
	if dialErr != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, dialErr.Error())
	}

	events, err := newClaimEventBindings()
	if err != nil {
		return nil, err
	}

	binding := &Binding{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
		contract:  gethCommon.HexToAddress(contract),
		events:    events,
		url:       cfg.URL,
	}

	if err := binding.checkGetLogsSupport(); err != nil {
		return nil, err
	}
	binding.caps = resolveCapabilities(events)

	return binding, nil
}

// checkGetLogsSupport probes eth_getLogs once so a node that cannot serve
// filter queries fails at construction.
func (b *Binding) checkGetLogsSupport() error {
	var getLogsResult interface{}
	err := b.rpcClient.Call(&getLogsResult, "eth_getLogs", map[string]string{"fromBlock": "0x0", "toBlock": "0x0"})
	if err != nil {
		return fmt.Errorf("%w: eth_getLogs not supported: %s", ErrUnavailable, err.Error())
	}
	log.Debug().Msg("eth_getLogs method supported")
	return nil
}

func resolveCapabilities(events map[common.ClaimKind]eventBinding) Capabilities {
	caps := Capabilities{ProviderFilter: true}
	for _, ev := range events {
		if !ev.providerIndexed {
			caps.ProviderFilter = false
		}
	}
	return caps
}

func (b *Binding) Capabilities() Capabilities {
	return b.caps
}

func (b *Binding) URL() string {
	return b.url
}

func (b *Binding) Close() {
	b.rpcClient.Close()
	b.ethClient.Close()
}

func (b *Binding) HeadBlock(ctx context.Context) (uint64, error) {
	head, err := b.ethClient.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get head block number: %s", ErrUnavailable, err.Error())
	}
	return head, nil
}

func (b *Binding) FilterClaims(ctx context.Context, kind common.ClaimKind, provider string, fromBlock, toBlock uint64) ([]types.Log, error) {
	ev, ok := b.events[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no event binding for kind %q", ErrUnavailable, kind)
	}

	topics := [][]gethCommon.Hash{{ev.topic0}}
	if provider != "" && b.caps.ProviderFilter {
		// provider is the second indexed argument
		providerTopic := gethCommon.BytesToHash(gethCommon.HexToAddress(provider).Bytes())
		topics = append(topics, nil, []gethCommon.Hash{providerTopic})
	}

	query := ethereum.FilterQuery{
		FromBlock: newBlockNumber(fromBlock),
		ToBlock:   newBlockNumber(toBlock),
		Addresses: []gethCommon.Address{b.contract},
		Topics:    topics,
	}

	logs, err := b.ethClient.FilterLogs(ctx, query)
	if err != nil {
		return nil, classifyFilterError(err)
	}
	return logs, nil
}

func (b *Binding) DecodeClaim(kind common.ClaimKind, lg types.Log) (common.ClaimEvent, error) {
	ev, ok := b.events[kind]
	if !ok {
		return common.ClaimEvent{}, fmt.Errorf("%w: no event binding for kind %q", ErrUnavailable, kind)
	}
	return ev.decode(lg)
}
