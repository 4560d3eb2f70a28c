package hid

// Synthesis expands one discrete command into a finite, ordered event
// sequence. All functions here are pure: same arguments, same sequence.
// A duration of zero means "no explicit delay" and leaves press timing to
// the delivery transport.

// pressEvents is the common press/delay/release shape shared by tap,
// button and key commands.
func pressEvents(action Action, duration float64) []Event {
	if duration > 0 {
		return []Event{
			Press{Action: action, Direction: DirectionDown},
			Delay{Seconds: duration},
			Press{Action: action, Direction: DirectionUp},
		}
	}

	return []Event{
		Press{Action: action, Direction: DirectionDown},
		Press{Action: action, Direction: DirectionUp},
	}
}

// TapEvents synthesizes a tap at point, held for duration seconds when
// duration is positive.
func TapEvents(point Point, duration float64) ([]Event, error) {
	if duration < 0 {
		return nil, validationErrorf("tap duration must not be negative, got %v", duration)
	}
	return pressEvents(Touch{Point: point}, duration), nil
}

// ButtonEvents synthesizes a hardware button press, held for duration
// seconds when duration is positive.
func ButtonEvents(button Button, duration float64) ([]Event, error) {
	if duration < 0 {
		return nil, validationErrorf("button duration must not be negative, got %v", duration)
	}
	return pressEvents(ButtonPress{Button: button}, duration), nil
}

// KeyEvents synthesizes a key press, held for duration seconds when
// duration is positive.
func KeyEvents(keycode Keycode, duration float64) ([]Event, error) {
	if keycode < 0 {
		return nil, validationErrorf("keycode must not be negative, got %d", keycode)
	}
	if duration < 0 {
		return nil, validationErrorf("key duration must not be negative, got %v", duration)
	}
	return pressEvents(Key{Keycode: keycode}, duration), nil
}

// KeySequenceEvents synthesizes a down/up pair per keycode, in input
// order. An empty sequence yields no events.
func KeySequenceEvents(keycodes []Keycode) ([]Event, error) {
	for _, code := range keycodes {
		if code < 0 {
			return nil, validationErrorf("keycode must not be negative, got %d", code)
		}
	}

	events := make([]Event, 0, 2*len(keycodes))
	for _, code := range keycodes {
		events = append(events,
			Press{Action: Key{Keycode: code}, Direction: DirectionDown},
			Press{Action: Key{Keycode: code}, Direction: DirectionUp},
		)
	}
	return events, nil
}

// TextEvents synthesizes a down/up key pair per character of text, in
// string order, using the builtin keycode map.
func TextEvents(text string) ([]Event, error) {
	keycodes := make([]Keycode, 0, len(text))
	for _, r := range text {
		code, ok := KeycodeForRune(r)
		if !ok {
			return nil, validationErrorf("no keycode mapping for character %q", r)
		}
		keycodes = append(keycodes, code)
	}
	return KeySequenceEvents(keycodes)
}

// SwipeEvents synthesizes a swipe from start to end.
//
// With a positive delta, intermediate touch points are sampled every delta
// pixels along the line; each intermediate point is emitted as another
// press-down ("contact still down, moved here"). With a positive duration
// it is spread evenly over the gaps between consecutive touch events, so
// the delays sum to duration. With a duration but no delta, a single delay
// separates the press and the release.
func SwipeEvents(start, end Point, duration, delta float64) ([]Event, error) {
	if duration < 0 {
		return nil, validationErrorf("swipe duration must not be negative, got %v", duration)
	}
	if delta < 0 {
		return nil, validationErrorf("swipe delta must not be negative, got %v", delta)
	}

	intermediate := InterpolatePoints(start, end, delta)

	var stepDelay float64
	if duration > 0 {
		stepDelay = duration / float64(len(intermediate)+1)
	}

	events := []Event{Press{Action: Touch{Point: start}, Direction: DirectionDown}}
	for _, point := range intermediate {
		if stepDelay > 0 {
			events = append(events, Delay{Seconds: stepDelay})
		}
		events = append(events, Press{Action: Touch{Point: point}, Direction: DirectionDown})
	}
	if stepDelay > 0 {
		events = append(events, Delay{Seconds: stepDelay})
	}
	events = append(events, Press{Action: Touch{Point: end}, Direction: DirectionUp})

	return events, nil
}
