package scanner

import "errors"

// ErrRangeFloorExceeded means a sub-range was rejected by the event source
// even at the minimum span. The scan aborts and the cursor stays put:
// persisting a boundary past an unscanned gap would silently lose events.
var ErrRangeFloorExceeded = errors.New("event source rejected range at minimum span")
