package hid

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// line protocol accepted by the stream bridge: one object per line
const streamLineSchemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["type", "x", "y"],
	"properties": {
		"type": {"enum": ["touch_start", "touch_move", "touch_end"]},
		"x": {"type": "number"},
		"y": {"type": "number"}
	}
}`

var streamLineSchema = jsonschema.MustCompileString("stream-line.schema.json", streamLineSchemaJSON)

type streamLine struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// ParseStreamLine converts one line of the touch stream protocol into an
// event. touch_start and touch_move both map to a press-down (a move is
// "contact still down, new location"); touch_end maps to a press-up.
func ParseStreamLine(data []byte) (Event, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if err := streamLineSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid touch event: %w", err)
	}

	var line streamLine
	if err := json.Unmarshal(data, &line); err != nil {
		return nil, fmt.Errorf("invalid touch event: %w", err)
	}

	direction := DirectionDown
	if line.Type == "touch_end" {
		direction = DirectionUp
	}

	return Press{
		Action:    Touch{Point: Point{X: line.X, Y: line.Y}},
		Direction: direction,
	}, nil
}
