// Package input turns SDL2 events into the small event set the viewer uses.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a translated event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Keys the viewer reacts to.
const (
	KeyQuit       = sdl.Scancode(sdl.SCANCODE_ESCAPE)
	KeyDumpShadow = sdl.Scancode(sdl.SCANCODE_F9)
	KeyScreenshot = sdl.Scancode(sdl.SCANCODE_F12)
)

// ButtonLeft is the button that drags the camera.
const ButtonLeft uint8 = sdl.BUTTON_LEFT

// Event is one translated SDL event. Only the fields of its Type are set.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
	WheelY int // positive away from the user
}

// Input collects the events of one frame.
type Input struct {
	events []Event
}

// New creates an empty event queue.
func New() *Input {
	return &Input{events: make([]Event, 0, 16)}
}

// Update drains the SDL queue. It reports true once the window is closed;
// events after the quit stay queued for the next call.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		e, ok := Translate(ev)
		if !ok {
			continue
		}
		i.events = append(i.events, e)
		if e.Type == EventQuit {
			return true
		}
	}
	return false
}

// Events returns the events gathered by the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Translate maps an SDL event to a viewer event. Key releases, key repeats,
// zero wheel steps and window events other than resizes are dropped.
func Translate(ev sdl.Event) (Event, bool) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event != sdl.WINDOWEVENT_RESIZED {
			return Event{}, false
		}
		return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true

	case *sdl.KeyboardEvent:
		if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
			return Event{}, false
		}
		return Event{Type: EventKeyDown, Key: e.Keysym.Scancode}, true

	case *sdl.MouseMotionEvent:
		return Event{Type: EventMouseMove, MouseX: int(e.X), MouseY: int(e.Y)}, true

	case *sdl.MouseButtonEvent:
		t := EventMouseUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			t = EventMouseDown
		}
		return Event{Type: t, MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}, true

	case *sdl.MouseWheelEvent:
		dy := int(e.Y)
		if e.Direction == uint32(sdl.MOUSEWHEEL_FLIPPED) {
			dy = -dy
		}
		if dy == 0 {
			return Event{}, false
		}
		return Event{Type: EventMouseWheel, WheelY: dy}, true
	}
	return Event{}, false
}
