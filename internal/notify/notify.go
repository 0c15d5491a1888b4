// Package notify is a lightweight in-process observer registry. Listeners are
// payload-free callbacks run synchronously on the notifying goroutine.
package notify

import "sync"

// Registry holds the current listeners. The zero value is ready to use.
type Registry struct {
	mu        sync.Mutex
	next      uint64
	listeners map[uint64]func()
	order     []uint64
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (r *Registry) Subscribe(fn func()) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listeners == nil {
		r.listeners = make(map[uint64]func())
	}
	id := r.next
	r.next++
	r.listeners[id] = fn
	r.order = append(r.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(id) })
	}
}

func (r *Registry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.listeners, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Notify calls every listener in subscription order. The lock is not held
// while listeners run, so a listener may subscribe or unsubscribe.
func (r *Registry) Notify() {
	r.mu.Lock()
	fns := make([]func(), 0, len(r.order))
	for _, id := range r.order {
		fns = append(fns, r.listeners[id])
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Len reports the number of registered listeners.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}
