package scanner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	config "github.com/curachain/claimscan/configs"
	"github.com/curachain/claimscan/internal/common"
	customLog "github.com/curachain/claimscan/internal/log"
	"github.com/curachain/claimscan/internal/metrics"
	"github.com/curachain/claimscan/internal/source"
	"github.com/curachain/claimscan/internal/storage"
)

const (
	DEFAULT_MAX_SPAN        = 2000
	DEFAULT_MIN_SPAN        = 16
	DEFAULT_LOOKBACK_BLOCKS = 50000
)

// Scanner reconstructs a provider's claim history from the event source,
// honoring the node's per-query block-range ceiling and resuming from a
// persisted cursor on repeat invocations.
//
// Overlapping scans for the same provider are a caller error: both would
// persist the cursor and the later write wins.
type Scanner struct {
	source  source.ClaimSource
	cursors storage.ICursorStore

	maxSpan  uint64
	minSpan  uint64
	lookback uint64

	logger zerolog.Logger
}

type ScannerOption func(*Scanner)

func WithMaxSpan(span uint64) ScannerOption {
	return func(s *Scanner) {
		if span > 0 {
			s.maxSpan = span
		}
	}
}

func WithMinSpan(span uint64) ScannerOption {
	return func(s *Scanner) {
		if span > 0 {
			s.minSpan = span
		}
	}
}

func WithLookback(blocks uint64) ScannerOption {
	return func(s *Scanner) {
		if blocks > 0 {
			s.lookback = blocks
		}
	}
}

func NewScanner(src source.ClaimSource, cursors storage.ICursorStore, opts ...ScannerOption) *Scanner {
	maxSpan := config.Cfg.Scanner.MaxSpan
	if maxSpan == 0 {
		maxSpan = DEFAULT_MAX_SPAN
	}
	minSpan := config.Cfg.Scanner.MinSpan
	if minSpan == 0 {
		minSpan = DEFAULT_MIN_SPAN
	}
	lookback := config.Cfg.Scanner.DefaultLookback
	if lookback == 0 {
		lookback = DEFAULT_LOOKBACK_BLOCKS
	}

	scanner := &Scanner{
		source:   src,
		cursors:  cursors,
		maxSpan:  maxSpan,
		minSpan:  minSpan,
		lookback: lookback,
		logger:   customLog.NewLogger("scanner"),
	}

	for _, opt := range opts {
		opt(scanner)
	}
	if scanner.minSpan > scanner.maxSpan {
		scanner.minSpan = scanner.maxSpan
	}
	return scanner
}

// Scan reconstructs the claim history for provider between the resume
// boundary and the current chain head. explicitFromBlock, when non-nil,
// overrides both the persisted cursor and the default lookback window for
// this invocation only.
//
// Events are returned most recent first. The cursor is persisted as head+1
// only when every sub-range resolved; any fatal failure leaves it untouched.
func (s *Scanner) Scan(ctx context.Context, provider string, explicitFromBlock *uint64) ([]common.ClaimEvent, error) {
	normalized, err := common.NormalizeAddress(provider)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	defer func() {
		metrics.ScanDuration.Observe(time.Since(startTime).Seconds())
	}()

	head, err := s.source.HeadBlock(ctx)
	if err != nil {
		metrics.FailedScans.Inc()
		return nil, err
	}
	metrics.ChainHead.Set(float64(head))

	from := s.resolveFromBlock(normalized, head, explicitFromBlock)
	if from > head {
		s.logger.Debug().Uint64("from", from).Uint64("head", head).Msg("Nothing new to scan")
		return []common.ClaimEvent{}, nil
	}

	s.logger.Debug().
		Str("provider", normalized).
		Uint64("from", from).
		Uint64("to", head).
		Msg("Scanning claim history")

	events := make([]common.ClaimEvent, 0)
	for _, subRange := range partitionRange(from, head, s.maxSpan) {
		logs, err := s.fetchSubRange(ctx, normalized, subRange)
		if err != nil {
			metrics.FailedScans.Inc()
			return nil, err
		}
		decoded, err := s.decodeAndFilter(normalized, logs)
		if err != nil {
			metrics.FailedScans.Inc()
			return nil, err
		}
		events = append(events, decoded...)
	}

	// ascending for processing, newest first for presentation
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].SourceRef.BlockNumber > events[j].SourceRef.BlockNumber
	})

	if err := s.cursors.SetCursor(storage.CursorKey(normalized), head+1); err != nil {
		return nil, fmt.Errorf("scan succeeded but cursor could not be persisted: %w", err)
	}
	metrics.LastScannedBlock.Set(float64(head))

	s.logger.Debug().
		Str("provider", normalized).
		Int("events", len(events)).
		Uint64("cursor", head+1).
		Msg("Scan complete")
	return events, nil
}

// LoadOlder walks the scan window backward: it recomputes an explicit lower
// bound one lookback behind the persisted boundary and re-invokes Scan. The
// forward cursor persisted by normal scans is advanced to head+1 as usual,
// never moved backward.
func (s *Scanner) LoadOlder(ctx context.Context, provider string) ([]common.ClaimEvent, error) {
	normalized, err := common.NormalizeAddress(provider)
	if err != nil {
		return nil, err
	}

	cursor, ok, err := s.cursors.GetCursor(storage.CursorKey(normalized))
	if err != nil {
		return nil, fmt.Errorf("failed to read scan cursor: %w", err)
	}
	if !ok {
		// nothing scanned yet, a plain scan covers the default window
		return s.Scan(ctx, normalized, nil)
	}

	var olderFrom uint64
	if cursor > s.lookback {
		olderFrom = cursor - s.lookback
	}
	return s.Scan(ctx, normalized, &olderFrom)
}

func (s *Scanner) resolveFromBlock(provider string, head uint64, explicitFromBlock *uint64) uint64 {
	if explicitFromBlock != nil {
		return *explicitFromBlock
	}

	cursor, ok, err := s.cursors.GetCursor(storage.CursorKey(provider))
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read scan cursor, falling back to lookback window")
	} else if ok {
		return cursor
	}

	if head > s.lookback {
		return head - s.lookback
	}
	return 0
}

// fetchSubRange resolves one sub-range: both event kinds are queried
// concurrently and both must succeed before the sub-range counts as resolved.
func (s *Scanner) fetchSubRange(ctx context.Context, provider string, subRange BlockRange) ([]kindedLog, error) {
	serverSideFilter := ""
	if s.source.Capabilities().ProviderFilter {
		serverSideFilter = provider
	}

	var wg sync.WaitGroup
	var paidLogs, rejectedLogs []types.Log
	var paidErr, rejectedErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		paidLogs, paidErr = s.fetchRange(ctx, common.ClaimKindPaid, serverSideFilter, subRange.From, subRange.To)
	}()
	go func() {
		defer wg.Done()
		rejectedLogs, rejectedErr = s.fetchRange(ctx, common.ClaimKindRejected, serverSideFilter, subRange.From, subRange.To)
	}()
	wg.Wait()

	if paidErr != nil {
		return nil, paidErr
	}
	if rejectedErr != nil {
		return nil, rejectedErr
	}

	merged := make([]kindedLog, 0, len(paidLogs)+len(rejectedLogs))
	for _, lg := range paidLogs {
		merged = append(merged, kindedLog{kind: common.ClaimKindPaid, log: lg})
	}
	for _, lg := range rejectedLogs {
		merged = append(merged, kindedLog{kind: common.ClaimKindRejected, log: lg})
	}
	return merged, nil
}

// fetchRange queries one event kind over [from, to], recursively bisecting on
// range-size rejections. Left half resolves before the right half so relative
// order is preserved. Once the span reaches the floor a rejection is final.
func (s *Scanner) fetchRange(ctx context.Context, kind common.ClaimKind, provider string, from, to uint64) ([]types.Log, error) {
	metrics.ScanSubQueries.Inc()
	logs, err := s.source.FilterClaims(ctx, kind, provider, from, to)
	if err == nil {
		return logs, nil
	}
	if !errors.Is(err, source.ErrRangeTooLarge) {
		return nil, err
	}

	span := to - from + 1
	if span <= s.minSpan || from == to {
		return nil, fmt.Errorf("%w: range [%d, %d] kind %s: %s", ErrRangeFloorExceeded, from, to, kind, err.Error())
	}

	metrics.RangeBisections.Inc()
	mid := from + (to-from)/2
	s.logger.Debug().
		Uint64("from", from).
		Uint64("to", to).
		Uint64("mid", mid).
		Str("kind", string(kind)).
		Msg("Range rejected by event source, bisecting")

	left, err := s.fetchRange(ctx, kind, provider, from, mid)
	if err != nil {
		return nil, err
	}
	right, err := s.fetchRange(ctx, kind, provider, mid+1, to)
	if err != nil {
		return nil, err
	}
	return append(left, right...), nil
}

// decodeAndFilter turns raw logs into ClaimEvents, skipping undecodable
// entries and dropping anything not attributed to the requested provider. The
// provider post-filter applies even after server-side filtering, guarding
// against source or ABI mismatches. Decode failures other than a malformed
// log are structural and abort the scan.
func (s *Scanner) decodeAndFilter(provider string, logs []kindedLog) ([]common.ClaimEvent, error) {
	events := make([]common.ClaimEvent, 0, len(logs))
	for _, kl := range logs {
		event, err := s.source.DecodeClaim(kl.kind, kl.log)
		if err != nil {
			var malformed *source.MalformedLogError
			if errors.As(err, &malformed) {
				metrics.MalformedLogs.Inc()
				s.logger.Warn().Err(err).Msg("Skipping undecodable claim log")
				continue
			}
			return nil, err
		}
		if !common.SameAddress(event.Provider, provider) {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

type kindedLog struct {
	kind common.ClaimKind
	log  types.Log
}
