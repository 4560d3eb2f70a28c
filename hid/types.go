package hid

import "fmt"

// Point is a position on the device screen, in points.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Direction describes whether a contact, button or key transitions
// to pressed or released.
type Direction int

const (
	DirectionDown Direction = iota
	DirectionUp
)

func (d Direction) String() string {
	switch d {
	case DirectionDown:
		return "down"
	case DirectionUp:
		return "up"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Button is a named hardware button. The set is closed; adding a new
// button means adding a constant here and a case to String/ButtonFromName.
type Button int

const (
	ButtonHome Button = iota
	ButtonLock
	ButtonSideButton
	ButtonSiri
	ButtonApplePay
	ButtonVolumeUp
	ButtonVolumeDown
)

func (b Button) String() string {
	switch b {
	case ButtonHome:
		return "HOME"
	case ButtonLock:
		return "LOCK"
	case ButtonSideButton:
		return "SIDE_BUTTON"
	case ButtonSiri:
		return "SIRI"
	case ButtonApplePay:
		return "APPLE_PAY"
	case ButtonVolumeUp:
		return "VOLUME_UP"
	case ButtonVolumeDown:
		return "VOLUME_DOWN"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// ButtonFromName parses a button name as accepted on the command line.
// Names are case-sensitive and match String().
func ButtonFromName(name string) (Button, error) {
	for _, b := range []Button{
		ButtonHome, ButtonLock, ButtonSideButton, ButtonSiri,
		ButtonApplePay, ButtonVolumeUp, ButtonVolumeDown,
	} {
		if b.String() == name {
			return b, nil
		}
	}
	return 0, validationErrorf("unknown button: %s", name)
}

// Keycode is a keyboard scancode. Whether a given code is meaningful is
// the delivery transport's concern; we only require it to be non-negative.
type Keycode int

// Action is the logical target of an input event: a screen point,
// a hardware button, or a key. The variant set is closed.
type Action interface {
	isAction()
}

// Touch targets a point on the screen.
type Touch struct {
	Point Point
}

// ButtonPress targets a hardware button.
type ButtonPress struct {
	Button Button
}

// Key targets a keyboard scancode.
type Key struct {
	Keycode Keycode
}

func (Touch) isAction()       {}
func (ButtonPress) isAction() {}
func (Key) isAction()         {}

// Event is the smallest unit handed to the delivery transport: a single
// press/release transition, or an explicit pause the transport must honor
// before sending the next event. The variant set is closed.
type Event interface {
	isEvent()
}

// Press is one state transition of one action.
type Press struct {
	Action    Action
	Direction Direction
}

// Delay tells the transport to suspend at least Seconds before sending
// the next event.
type Delay struct {
	Seconds float64
}

func (Press) isEvent() {}
func (Delay) isEvent() {}

// ValidationError reports structurally invalid parameters to a synthesis
// call. It is returned before any events are produced; callers never see
// a partial sequence.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
