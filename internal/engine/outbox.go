package engine

import (
	"github.com/settlerec/settlerec/internal/domain"
)

// outbox is the ordered, append-only buffer of domain events produced
// during cycles. The engine owns the buffer; callers receive snapshots
// and clear explicitly between cycles.
type outbox struct {
	events []domain.Event
}

func (b *outbox) append(e domain.Event) {
	b.events = append(b.events, e)
}

// snapshot returns a copy of the accumulated events. The outbox retains
// ownership of its buffer; mutating the returned slice has no effect on
// subsequent reads.
func (b *outbox) snapshot() []domain.Event {
	out := make([]domain.Event, len(b.events))
	copy(out, b.events)
	return out
}

func (b *outbox) clear() {
	b.events = b.events[:0]
}

func (b *outbox) len() int {
	return len(b.events)
}
