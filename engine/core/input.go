package core

// Key code definitions
type KeyCode uint16

const (
	KEY_ENTER    KeyCode = 0x0D
	KEY_TAB      KeyCode = 0x09
	KEY_ESCAPE   KeyCode = 0x1B
	KEY_SPACE    KeyCode = 0x20
	KEY_LEFT     KeyCode = 0x25
	KEY_UP       KeyCode = 0x26
	KEY_RIGHT    KeyCode = 0x27
	KEY_DOWN     KeyCode = 0x28
	KEY_A        KeyCode = 0x41
	KEY_B        KeyCode = 0x42
	KEY_C        KeyCode = 0x43
	KEY_D        KeyCode = 0x44
	KEY_E        KeyCode = 0x45
	KEY_F        KeyCode = 0x46
	KEY_G        KeyCode = 0x47
	KEY_H        KeyCode = 0x48
	KEY_I        KeyCode = 0x49
	KEY_J        KeyCode = 0x4A
	KEY_K        KeyCode = 0x4B
	KEY_L        KeyCode = 0x4C
	KEY_M        KeyCode = 0x4D
	KEY_N        KeyCode = 0x4E
	KEY_O        KeyCode = 0x4F
	KEY_P        KeyCode = 0x50
	KEY_Q        KeyCode = 0x51
	KEY_R        KeyCode = 0x52
	KEY_S        KeyCode = 0x53
	KEY_T        KeyCode = 0x54
	KEY_U        KeyCode = 0x55
	KEY_V        KeyCode = 0x56
	KEY_W        KeyCode = 0x57
	KEY_X        KeyCode = 0x58
	KEY_Y        KeyCode = 0x59
	KEY_Z        KeyCode = 0x5A
	KEY_LSHIFT   KeyCode = 0xA0
	KEY_RSHIFT   KeyCode = 0xA1
	KEY_LCONTROL KeyCode = 0xA2
	KEY_RCONTROL KeyCode = 0xA3
	KEYS_MAX_KEYS
)

// TrackedKeys lists every key Poll asks the key source about.
var TrackedKeys = []KeyCode{
	KEY_ENTER, KEY_TAB, KEY_ESCAPE, KEY_SPACE,
	KEY_LEFT, KEY_UP, KEY_RIGHT, KEY_DOWN,
	KEY_A, KEY_B, KEY_C, KEY_D, KEY_E, KEY_F, KEY_G, KEY_H, KEY_I,
	KEY_J, KEY_K, KEY_L, KEY_M, KEY_N, KEY_O, KEY_P, KEY_Q, KEY_R,
	KEY_S, KEY_T, KEY_U, KEY_V, KEY_W, KEY_X, KEY_Y, KEY_Z,
	KEY_LSHIFT, KEY_RSHIFT, KEY_LCONTROL, KEY_RCONTROL,
}

// KeySource answers whether a key is held right now. The platform window
// implements it by polling glfw.
type KeySource interface {
	IsKeyPressed(key KeyCode) bool
}

// KeyState is the read side of Input, consumed by controllers.
type KeyState interface {
	IsKeyDown(key KeyCode) bool
}

// Keyboard state structure
type KeyboardState struct {
	Keys [256]bool
}

// Input holds the current and previous keyboard snapshots.
type Input struct {
	KeyboardCurrent  KeyboardState
	KeyboardPrevious KeyboardState
	events           *EventBus
}

// NewInput creates an input state. Key transitions are fired on events when
// it is not nil.
func NewInput(events *EventBus) *Input {
	return &Input{events: events}
}

// Poll copies the current snapshot to the previous one and queries source
// for every tracked key.
func (in *Input) Poll(source KeySource) {
	in.KeyboardPrevious = in.KeyboardCurrent
	for _, key := range TrackedKeys {
		in.ProcessKey(key, source.IsKeyPressed(key))
	}
}

// ProcessKey records the state of a single key, firing an event on change.
func (in *Input) ProcessKey(key KeyCode, pressed bool) {
	// Only handle this if the state actually changed.
	if in.KeyboardCurrent.Keys[key] == pressed {
		return
	}
	in.KeyboardCurrent.Keys[key] = pressed

	if in.events == nil {
		return
	}
	code := EVENT_CODE_KEY_RELEASED
	if pressed {
		code = EVENT_CODE_KEY_PRESSED
	}
	in.events.Fire(EventContext{
		Type: code,
		Data: &KeyEvent{KeyCode: key},
	})
}

func (in *Input) IsKeyDown(key KeyCode) bool {
	return in.KeyboardCurrent.Keys[key]
}

func (in *Input) IsKeyUp(key KeyCode) bool {
	return !in.KeyboardCurrent.Keys[key]
}

func (in *Input) WasKeyDown(key KeyCode) bool {
	return in.KeyboardPrevious.Keys[key]
}

func (in *Input) WasKeyUp(key KeyCode) bool {
	return !in.KeyboardPrevious.Keys[key]
}

// Released reports a key that went up during the last Poll.
func (in *Input) Released(key KeyCode) bool {
	return in.IsKeyUp(key) && in.WasKeyDown(key)
}
