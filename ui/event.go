package ui

import (
	"fmt"
	"image"
)

// Event is an input event delivered to the dialog. The set of events is
// closed: CloseRequested, RedrawRequested, CursorEnter, CursorMove,
// CursorLeave, ButtonPress and ButtonRelease.
type Event interface {
	isEvent()
}

// CloseRequested is sent when the window manager asks the dialog to close.
type CloseRequested struct{}

// RedrawRequested is sent when part of the window was exposed.
type RedrawRequested struct{}

// CursorEnter is sent when the pointer enters the window at Pos.
type CursorEnter struct{ Pos image.Point }

// CursorMove is sent when the pointer moves to Pos, in window coordinates.
type CursorMove struct{ Pos image.Point }

// CursorLeave is sent when the pointer leaves the window.
type CursorLeave struct{}

// ButtonPress is sent when a mouse button goes down.
type ButtonPress struct{ Button MouseButton }

// ButtonRelease is sent when a mouse button goes up.
type ButtonRelease struct{ Button MouseButton }

func (CloseRequested) isEvent()  {}
func (RedrawRequested) isEvent() {}
func (CursorEnter) isEvent()     {}
func (CursorMove) isEvent()      {}
func (CursorLeave) isEvent()     {}
func (ButtonPress) isEvent()     {}
func (ButtonRelease) isEvent()   {}

// MouseButton is one of the three mouse buttons the dialog reacts to.
type MouseButton int

const (
	Left MouseButton = iota + 1
	Middle
	Right
)

func (b MouseButton) String() string {
	switch b {
	case Left:
		return "Left"
	case Middle:
		return "Middle"
	case Right:
		return "Right"
	}
	return fmt.Sprintf("MouseButton(%d)", int(b))
}

// Answer is the user's decision: Closed, or the index of the clicked button
// in the label list the dialog was built with.
type Answer int

// Closed means the window was closed by the window manager instead of a
// button being clicked.
const Closed Answer = -1

// Button returns the answer for the button at index i.
func Button(i int) Answer { return Answer(i) }

// Button reports the index of the clicked button, or false for Closed.
func (a Answer) Button() (int, bool) {
	if a < 0 {
		return 0, false
	}
	return int(a), true
}

func (a Answer) String() string {
	if i, ok := a.Button(); ok {
		return fmt.Sprintf("Button(%d)", i)
	}
	return "Closed"
}
