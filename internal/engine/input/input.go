// Package input translates SDL2 events into the few events the client
// loop reacts to.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventMouseMove
	EventMouseDown
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
	Wheel  int
}

// Input polls SDL events once per frame.
type Input struct {
	events []Event
	mouseX int
	mouseY int
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them.
// Returns true if the client should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if ev, ok := translate(event); ok {
			i.push(ev)
		}
	}

	for _, e := range i.events {
		if e.Type == EventQuit {
			return true
		}
	}
	return false
}

func (i *Input) push(e Event) {
	if e.Type == EventMouseMove {
		i.mouseX, i.mouseY = e.MouseX, e.MouseY
	}
	i.events = append(i.events, e)
}

func translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
			if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
				return Event{Type: EventQuit}, true
			}
			return Event{Type: EventKeyDown, Key: e.Keysym.Scancode}, true
		}

	case *sdl.MouseMotionEvent:
		return Event{Type: EventMouseMove, MouseX: int(e.X), MouseY: int(e.Y)}, true

	case *sdl.MouseButtonEvent:
		if e.Type == sdl.MOUSEBUTTONDOWN {
			return Event{Type: EventMouseDown, MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}, true
		}

	case *sdl.MouseWheelEvent:
		if e.Y != 0 {
			return Event{Type: EventMouseWheel, Wheel: int(e.Y)}, true
		}
	}
	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Mouse returns the last known cursor position in window coordinates.
func (i *Input) Mouse() (int, int) {
	return i.mouseX, i.mouseY
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
