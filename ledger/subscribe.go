package ledger

import "slices"

// Subscribe registers fn for every committed change, delivered in commit order.
// fn runs synchronously inside the mutation and must not mutate the ledger.
func (l *Ledger) Subscribe(fn func(Change)) (unsubscribe func()) {
	l.listenMu.Lock()
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn
	l.listenMu.Unlock()

	return func() {
		l.listenMu.Lock()
		delete(l.listeners, id)
		l.listenMu.Unlock()
	}
}

func (l *Ledger) notify(change Change) {
	l.listenMu.Lock()
	ids := make([]int, 0, len(l.listeners))
	for id := range l.listeners {
		ids = append(ids, id)
	}
	fns := make([]func(Change), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, l.listeners[id])
	}
	l.listenMu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}
