package input

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isDown(t *testing.T, k *Keypad, key uint8) bool {
	t.Helper()
	down, err := k.IsKeyDown(key)
	require.NoError(t, err)
	return down
}

func TestKeypad_PressRelease(t *testing.T) {
	k := NewKeypad()

	assert.False(t, isDown(t, k, 0xA))
	k.Press(0xA)
	assert.True(t, isDown(t, k, 0xA))
	assert.False(t, isDown(t, k, 0xB))

	k.Release(0xA)
	assert.False(t, isDown(t, k, 0xA))

	k.Press(0x1)
	k.Press(0x2)
	k.ReleaseAll()
	assert.False(t, isDown(t, k, 0x1))
	assert.False(t, isDown(t, k, 0x2))
}

func TestKeypad_AwaitKey(t *testing.T) {
	k := NewKeypad()
	result := make(chan uint8)

	go func() {
		key, err := k.AwaitKey(context.Background())
		assert.NoError(t, err)
		result <- key
	}()

	// wait for the waiter to register before pressing
	require.Eventually(t, func() bool {
		k.mu.Lock()
		defer k.mu.Unlock()
		return len(k.waiters) == 1
	}, time.Second, time.Millisecond)

	k.Press(0x7)

	select {
	case key := <-result:
		assert.Equal(t, uint8(0x7), key)
	case <-time.After(time.Second):
		t.Fatal("AwaitKey did not return after a press")
	}
}

func TestKeypad_AwaitKeyIgnoresHeldKeys(t *testing.T) {
	k := NewKeypad()
	k.Press(0x3)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	go func() {
		// pressing an already held key is not a new press
		time.Sleep(5 * time.Millisecond)
		k.Press(0x3)
	}()

	_, err := k.AwaitKey(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestKeypad_AwaitKeyCancelled(t *testing.T) {
	k := NewKeypad()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := k.AwaitKey(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	k.mu.Lock()
	defer k.mu.Unlock()
	assert.Empty(t, k.waiters)
}

func TestKeypad_Waiters(t *testing.T) {
	k := NewKeypad()
	assert.Equal(t, 0, k.Waiters())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = k.AwaitKey(ctx)
	}()

	require.Eventually(t, func() bool { return k.Waiters() == 1 }, time.Second, time.Millisecond)
	cancel()
	<-done
	assert.Equal(t, 0, k.Waiters())
}

func TestKeypad_Subscribe(t *testing.T) {
	t.Run("press right after subscribing is delivered", func(t *testing.T) {
		defer runtime.GOMAXPROCS(runtime.GOMAXPROCS(1))

		k := NewKeypad()
		ch, cancel := k.Subscribe()
		defer cancel()
		assert.Equal(t, 1, k.Waiters())

		k.Press(0xB)

		select {
		case key := <-ch:
			assert.Equal(t, uint8(0xB), key)
		default:
			t.Fatal("press was not delivered")
		}
		assert.Equal(t, 0, k.Waiters())
	})

	t.Run("cancel drops the subscription", func(t *testing.T) {
		k := NewKeypad()
		ch, cancel := k.Subscribe()
		cancel()
		cancel()
		assert.Equal(t, 0, k.Waiters())

		k.Press(0x1)
		assert.Empty(t, ch)
	})
}
