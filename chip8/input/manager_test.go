package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

func TestManager_KeysGoToKeypad(t *testing.T) {
	k := NewKeypad()
	m := NewManager(k)

	m.Trigger(action.KeyB, event.Press)
	assert.True(t, isDown(t, k, 0xB))

	// keypad keys are never debounced
	m.Trigger(action.KeyB, event.Release)
	assert.False(t, isDown(t, k, 0xB))
	m.Trigger(action.KeyB, event.Press)
	assert.True(t, isDown(t, k, 0xB))
}

func TestManager_Debouncing(t *testing.T) {
	tests := []struct {
		name           string
		eventType      event.Type
		timeBetween    time.Duration
		expectDebounce bool
	}{
		{
			name:           "rapid press - should debounce",
			eventType:      event.Press,
			timeBetween:    50 * time.Millisecond,
			expectDebounce: true,
		},
		{
			name:           "slow press - should not debounce",
			eventType:      event.Press,
			timeBetween:    debounceDuration + 50*time.Millisecond,
			expectDebounce: false,
		},
		{
			name:           "hold event type - should not debounce",
			eventType:      event.Hold,
			timeBetween:    time.Millisecond,
			expectDebounce: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(nil)
			calls := 0
			m.On(action.EmulatorPauseToggle, tt.eventType, func() { calls++ })

			m.Trigger(action.EmulatorPauseToggle, tt.eventType)
			time.Sleep(tt.timeBetween)
			m.Trigger(action.EmulatorPauseToggle, tt.eventType)

			if tt.expectDebounce {
				assert.Equal(t, 1, calls, "second event should be debounced")
			} else {
				assert.Equal(t, 2, calls, "second event should not be debounced")
			}
		})
	}
}

func TestManager_MultipleActions(t *testing.T) {
	m := NewManager(nil)
	var got []action.Action
	m.On(action.EmulatorDebugToggle, event.Press, func() { got = append(got, action.EmulatorDebugToggle) })
	m.On(action.EmulatorSnapshot, event.Press, func() { got = append(got, action.EmulatorSnapshot) })

	m.Trigger(action.EmulatorDebugToggle, event.Press)
	m.Trigger(action.EmulatorSnapshot, event.Press)
	m.Trigger(action.EmulatorDebugToggle, event.Press)

	assert.Equal(t, []action.Action{action.EmulatorDebugToggle, action.EmulatorSnapshot}, got)
}

func TestDefaultKeyMap_CoversKeypad(t *testing.T) {
	seen := map[uint8]bool{}
	for _, act := range DefaultKeyMap {
		if act.IsKey() {
			seen[act.Key()] = true
		}
	}
	assert.Len(t, seen, 16)

	act, ok := GetDefaultMapping("Escape")
	assert.True(t, ok)
	assert.Equal(t, action.EmulatorQuit, act)
}

func TestActionInfo(t *testing.T) {
	assert.Equal(t, action.KeyA, action.FromKey(0xA))
	assert.Equal(t, action.CategoryKeypad, action.GetInfo(action.Key3).Category)
	assert.Equal(t, "Key 3", action.Key3.String())
	assert.Equal(t, action.CategoryEmulator, action.GetInfo(action.EmulatorQuit).Category)
}
