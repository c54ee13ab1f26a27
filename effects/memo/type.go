package memo

import (
	"fmt"

	"github.com/on-the-ground/memo_ive_go/effects"
	"github.com/on-the-ground/memo_ive_go/pure"
)

// CallSite is the stable identity of a memoized computation across evaluation passes.
type CallSite string

// Payload is a sealed interface for memo operations.
type Payload interface {
	PartitionKey() string
	payload()
}

var _ Payload = query{}

// query asks for the value of a call site under deps.
type query struct {
	Site    CallSite
	Deps    pure.Deps
	Compute func() (any, error)
}

func (q query) PartitionKey() string { return string(q.Site) }
func (query) payload()                {}

var _ Payload = release{}

// release destroys the slot of a call site.
type release struct {
	Site CallSite
}

func (r release) PartitionKey() string { return string(r.Site) }
func (release) payload()                {}

var _ Payload = source{}

// source asks for the event channel. It is routed like any other site.
type source struct{}

func (source) PartitionKey() string { return "" }
func (source) payload()             {}

// EventKind classifies what happened to a slot.
type EventKind int

const (
	EventHit EventKind = iota
	EventMiss
	EventFailed
	EventReleased
)

func (k EventKind) String() string {
	switch k {
	case EventHit:
		return "hit"
	case EventMiss:
		return "miss"
	case EventFailed:
		return "failed"
	case EventReleased:
		return "released"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event describes one slot operation.
type Event struct {
	Site CallSite
	Kind EventKind
	Deps pure.Deps
	Err  error
}

// TimeBoundedEvent is an Event with the span of time it covered.
// For misses the span covers the compute call.
type TimeBoundedEvent struct {
	Event
	effects.TimeSpan
}
