package shell

// KeyHandler receives one key press.
type KeyHandler func(key rune)

// Keys fans key presses out to subscribers in subscription order.
// It is not safe for concurrent use; callers serialise access.
type Keys struct {
	next     int
	handlers []subscription
}

type subscription struct {
	id int
	fn KeyHandler
}

// Subscribe registers fn and returns the matching unsubscribe func.
// Calling the returned func more than once is harmless.
func (k *Keys) Subscribe(fn KeyHandler) func() {
	k.next++
	id := k.next
	k.handlers = append(k.handlers, subscription{id: id, fn: fn})
	return func() {
		for i, s := range k.handlers {
			if s.id == id {
				k.handlers = append(k.handlers[:i:i], k.handlers[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers key to every current subscriber.
func (k *Keys) Publish(key rune) {
	handlers := make([]subscription, len(k.handlers))
	copy(handlers, k.handlers)
	for _, s := range handlers {
		s.fn(key)
	}
}

// Len returns the number of live subscriptions.
func (k *Keys) Len() int {
	return len(k.handlers)
}
