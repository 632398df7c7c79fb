package input

import (
	"context"
	"sync"
)

// Keypad holds the state of the 16 hex keys. Backends press and release keys
// from their event loop while the CPU reads them, so access is locked.
type Keypad struct {
	mu      sync.Mutex
	down    [16]bool
	waiters []chan uint8
}

func NewKeypad() *Keypad {
	return &Keypad{}
}

// IsKeyDown reports whether key is currently held.
func (k *Keypad) IsKeyDown(key uint8) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.down[key&0x0F], nil
}

// Press marks key as held. A transition from released to held is delivered
// to every pending subscription.
func (k *Keypad) Press(key uint8) {
	k.mu.Lock()
	defer k.mu.Unlock()

	key &= 0x0F
	if k.down[key] {
		return
	}
	k.down[key] = true

	for _, ch := range k.waiters {
		ch <- key
	}
	k.waiters = nil
}

// Release marks key as not held.
func (k *Keypad) Release(key uint8) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.down[key&0x0F] = false
}

// ReleaseAll clears every key.
func (k *Keypad) ReleaseAll() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.down = [16]bool{}
}

// Subscribe registers for the next key press. The press is delivered on the
// returned channel. cancel drops the registration if no press arrived yet and
// is safe to call more than once.
func (k *Keypad) Subscribe() (<-chan uint8, func()) {
	ch := make(chan uint8, 1)

	k.mu.Lock()
	k.waiters = append(k.waiters, ch)
	k.mu.Unlock()

	return ch, func() { k.removeWaiter(ch) }
}

// AwaitKey blocks until the next key press or until ctx is done.
func (k *Keypad) AwaitKey(ctx context.Context) (uint8, error) {
	ch, cancel := k.Subscribe()

	select {
	case key := <-ch:
		return key, nil
	case <-ctx.Done():
		cancel()
		return 0, ctx.Err()
	}
}

func (k *Keypad) removeWaiter(ch chan uint8) {
	k.mu.Lock()
	defer k.mu.Unlock()

	for i, w := range k.waiters {
		if w == ch {
			k.waiters = append(k.waiters[:i], k.waiters[i+1:]...)
			return
		}
	}
}

// Waiters returns the number of pending subscriptions.
func (k *Keypad) Waiters() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.waiters)
}
