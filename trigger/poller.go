// Package trigger turns chain tip queries into incremental event streams.
// A Poller keeps its watermarks and one-shot latches in a cursorstore.Store and
// commits them only when a whole scan succeeds, so delivery is at-least-once.
package trigger

import (
	"context"
	"strings"
	"time"

	"github.com/Velocity-BPA/zksync-lib/chains/zksync/utils"
	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/Velocity-BPA/zksync-lib/cursorstore"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultFinalizedBacklog is how many batches behind the tip blockFinalized starts.
	DefaultFinalizedBacklog = 10
	// DefaultConfirmations is the confirmation threshold of transactionConfirmed.
	DefaultConfirmations = 1
)

// Config describes what a Poller watches.
//
// Fields:
// - Kind: the trigger kind.
// - Address: the watched account for ethReceived, ethSent and balanceChange.
// - Contract: the emitting contract for tokenTransfer, nftTransfer and contractEvent.
// - FilterAddress: optional sender or recipient filter for tokenTransfer and nftTransfer.
// - TxHash: the watched transaction for transactionConfirmed.
// - Confirmations: the threshold for transactionConfirmed, 0 means DefaultConfirmations.
// - EventABI: the event interface for contractEvent, JSON or human readable.
// - FinalizedBacklog: the initial backlog of blockFinalized, 0 means DefaultFinalizedBacklog.
type Config struct {
	Kind             types.TriggerKind `yaml:"kind"`
	Address          string            `yaml:"address"`
	Contract         string            `yaml:"contract"`
	FilterAddress    string            `yaml:"filter_address"`
	TxHash           string            `yaml:"tx_hash"`
	Confirmations    uint64            `yaml:"confirmations"`
	EventABI         string            `yaml:"event_abi"`
	FinalizedBacklog uint64            `yaml:"finalized_backlog"`
}

// Poller is the per-kind scanner. Poll must not be called concurrently on the
// same Poller or on two Pollers sharing a store namespace.
type Poller struct {
	cfg      Config
	provider Provider
	store    cursorstore.Store
	logger   *logrus.Logger

	address  common.Address
	contract common.Address
	filter   *common.Address
	txHash   common.Hash
	event    *abi.Event
}

// NewPoller validates cfg and creates a Poller.
//
// Parameters:
// - cfg: the trigger configuration.
// - provider: the chain read surface.
// - store: the cursor store, one namespace per watching node.
// - logger: the logger for logging events.
//
// Returns:
// - *Poller: the poller.
// - error: ErrInvalidTrigger, ErrInvalidAddress or ErrInvalidParameter when cfg is incomplete or malformed.
func NewPoller(cfg Config, provider Provider, store cursorstore.Store, logger *logrus.Logger) (*Poller, error) {
	if provider == nil || store == nil {
		return nil, errors.Wrap(zkerrors.ErrInvalidTrigger, "provider and store are required")
	}

	if _, err := types.ParseTriggerKind(string(cfg.Kind)); err != nil {
		return nil, err
	}

	if cfg.Confirmations == 0 {
		cfg.Confirmations = DefaultConfirmations
	}
	if cfg.FinalizedBacklog == 0 {
		cfg.FinalizedBacklog = DefaultFinalizedBacklog
	}

	p := &Poller{
		cfg:      cfg,
		provider: provider,
		store:    store,
		logger:   logger,
	}

	var err error
	switch cfg.Kind {
	case types.KindEthReceived, types.KindEthSent, types.KindBalanceChange:
		p.address, err = requireAddress("address", cfg.Address)

	case types.KindTokenTransfer, types.KindNftTransfer:
		if p.contract, err = requireAddress("contract", cfg.Contract); err != nil {
			break
		}
		if strings.TrimSpace(cfg.FilterAddress) != "" {
			var filter common.Address
			if filter, err = utils.ParseAddress(cfg.FilterAddress); err == nil {
				p.filter = &filter
			}
		}

	case types.KindContractEvent:
		if p.contract, err = requireAddress("contract", cfg.Contract); err != nil {
			break
		}
		p.event, err = ParseEventInterface(cfg.EventABI)

	case types.KindTransactionConfirmed:
		p.txHash, err = decodeHash(strings.TrimSpace(cfg.TxHash))
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

func requireAddress(field, value string) (common.Address, error) {
	if strings.TrimSpace(value) == "" {
		return common.Address{}, errors.Wrapf(zkerrors.ErrInvalidTrigger, "%s is required", field)
	}
	return utils.ParseAddress(value)
}

func decodeHash(hash string) (common.Hash, error) {
	if !strings.HasPrefix(hash, "0x") || len(hash) != 2+2*common.HashLength {
		return common.Hash{}, errors.Wrapf(zkerrors.ErrInvalidParameter, "invalid transaction hash %q", hash)
	}
	for _, r := range hash[2:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return common.Hash{}, errors.Wrapf(zkerrors.ErrInvalidParameter, "invalid transaction hash %q", hash)
		}
	}
	return common.HexToHash(hash), nil
}

// Kind returns the trigger kind of the poller.
func (p *Poller) Kind() types.TriggerKind {
	return p.cfg.Kind
}

// scanResult is what one kind strategy produced.
type scanResult struct {
	events    []types.Event
	outcome   string
	watermark *uint64
}

// Poll runs one invocation: it primes the cursor on first use, otherwise scans
// everything between the stored watermark and the current tip.
//
// Returns:
// - []types.Event: the events found, empty when nothing changed.
// - error: any provider or store error. No cursor is modified when an error is returned.
func (p *Poller) Poll(ctx context.Context) ([]types.Event, error) {
	return p.PollWith(ctx, nil)
}

// PollWith is Poll with a delivery step between the scan and the cursor commit.
// When deliver fails the cursors stay where they were, so the same events are
// produced again by the next invocation.
func (p *Poller) PollWith(ctx context.Context, deliver func(ctx context.Context, events []types.Event) error) ([]types.Event, error) {
	kind := p.cfg.Kind.String()
	start := time.Now()
	defer func() {
		PollLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}()

	writes := newStagedWrites(p.store)

	result, err := p.scan(ctx, writes)
	if err == nil && deliver != nil && len(result.events) > 0 {
		if err = deliver(ctx, result.events); err != nil {
			err = errors.Wrap(err, "failed to deliver events")
		}
	}
	if err == nil && !writes.empty() {
		err = writes.commit(ctx)
	}
	if err != nil {
		PollsTotal.WithLabelValues(kind, outcomeFailed).Inc()
		p.logger.WithFields(logrus.Fields{
			"kind":  kind,
			"error": err,
		}).Warn("Poll failed, cursor left unchanged")
		return nil, err
	}

	PollsTotal.WithLabelValues(kind, result.outcome).Inc()
	EventsEmitted.WithLabelValues(kind).Add(float64(len(result.events)))
	if result.watermark != nil {
		Watermark.WithLabelValues(kind).Set(float64(*result.watermark))
	}

	if len(result.events) > 0 {
		p.logger.WithFields(logrus.Fields{
			"kind":   kind,
			"events": len(result.events),
		}).Debug("Poll produced events")
	}

	if result.events == nil {
		result.events = []types.Event{}
	}
	return result.events, nil
}

func (p *Poller) scan(ctx context.Context, writes *stagedWrites) (*scanResult, error) {
	switch p.cfg.Kind {
	case types.KindNewBlock:
		return p.scanNewBlocks(ctx, writes)
	case types.KindNewL1Batch:
		return p.scanNewL1Batches(ctx, writes)
	case types.KindTransactionConfirmed:
		return p.scanTransactionConfirmed(ctx, writes)
	case types.KindEthReceived, types.KindEthSent:
		return p.scanEthTransfers(ctx, writes)
	case types.KindTokenTransfer, types.KindNftTransfer:
		return p.scanTransferLogs(ctx, writes)
	case types.KindContractEvent:
		return p.scanContractEvents(ctx, writes)
	case types.KindBlockFinalized:
		return p.scanFinalizedBatches(ctx, writes)
	case types.KindBalanceChange:
		return p.scanBalanceChange(ctx, writes)
	default:
		return nil, errors.Wrapf(zkerrors.ErrInvalidTrigger, "unknown trigger kind %q", p.cfg.Kind)
	}
}

// advance implements the shared watermark discipline for sequence kinds.
// On first use the watermark is seeded to tip-backlog and nothing is scanned.
// Afterwards scanFn receives the inclusive range (watermark, tip] when the tip moved.
func (p *Poller) advance(
	ctx context.Context,
	writes *stagedWrites,
	key string,
	tip uint64,
	backlog uint64,
	scanFn func(from, to uint64) ([]types.Event, error),
) (*scanResult, error) {
	watermark, found, err := writes.getUint64(ctx, key)
	if err != nil {
		return nil, err
	}

	if !found {
		seed := saturatingSub(tip, backlog)
		writes.set(key, seed)
		p.logger.WithFields(logrus.Fields{
			"kind":      p.cfg.Kind,
			"watermark": seed,
		}).Info("Trigger cursor primed")
		return &scanResult{outcome: outcomePrimed, watermark: &seed}, nil
	}

	if tip <= watermark {
		return &scanResult{outcome: outcomeNoop, watermark: &watermark}, nil
	}

	events, err := scanFn(watermark+1, tip)
	if err != nil {
		return nil, err
	}

	writes.set(key, tip)
	return &scanResult{events: events, outcome: outcomeScanned, watermark: &tip}, nil
}

func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
