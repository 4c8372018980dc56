package height

import (
	"context"
	"sync/atomic"

	id "consentgate/pkg/domain"
)

// Manual is an operator-driven clock for development and tests.
type Manual struct {
	h atomic.Uint64
}

func NewManual(start id.Height) *Manual {
	m := &Manual{}
	m.h.Store(uint64(start))
	return m
}

func (m *Manual) CurrentHeight(context.Context) (id.Height, error) {
	return id.Height(m.h.Load()), nil
}

// Advance moves the clock forward by n and returns the new height.
func (m *Manual) Advance(n uint64) id.Height {
	return id.Height(m.h.Add(n))
}

// Set moves the clock to h. Heights never decrease; a lower value is ignored.
func (m *Manual) Set(h id.Height) id.Height {
	for {
		cur := m.h.Load()
		if uint64(h) <= cur {
			return id.Height(cur)
		}
		if m.h.CompareAndSwap(cur, uint64(h)) {
			return h
		}
	}
}
