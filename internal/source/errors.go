package source

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable means the event source cannot be reached or is structurally
// unable to serve filter queries. Fatal for the invocation that hits it.
var ErrUnavailable = errors.New("event source unavailable")

// ErrRangeTooLarge means the source declined a filter query because it spans
// more blocks than the node is willing to serve. Transient; callers recover
// by bisecting the range.
var ErrRangeTooLarge = errors.New("block range too large for event source")

// MalformedLogError marks a single log entry that could not be decoded into a
// claim event. Non-fatal; callers skip the entry.
type MalformedLogError struct {
	TxHash string
	Reason string
}

func (e *MalformedLogError) Error() string {
	return fmt.Sprintf("malformed claim log in tx %s: %s", e.TxHash, e.Reason)
}

// Node implementations phrase range-ceiling rejections differently and the
// ceiling itself is not discoverable up front, so classification is a text
// heuristic over the RPC error.
var rangeRejectionMarkers = []string{
	"block range",
	"range too large",
	"query returned more than",
	"exceed",
	"too many results",
	"response size",
	"limited to",
}

func isRangeRejection(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range rangeRejectionMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func classifyFilterError(err error) error {
	if isRangeRejection(err) {
		return fmt.Errorf("%w: %s", ErrRangeTooLarge, err.Error())
	}
	return fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
}
