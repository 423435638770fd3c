package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/okian/geodraw/internal/domain/geometry"
)

// circleOutlinePoints is the number of samples on the reference circle.
const circleOutlinePoints = 64

// Definition is a hand-authored outline of a shape plus the facts shown to
// the player when it is recognized.
type Definition struct {
	Name        string        `json:"name"`
	DisplayName string        `json:"display_name"`
	Emoji       string        `json:"emoji"`
	Properties  string        `json:"properties"`
	Points      geometry.Path `json:"points"`
}

// DefaultDefinitions returns the built-in shapes in their stable order.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Name:        "triangle",
			DisplayName: "Triangle",
			Emoji:       "🔺",
			Properties:  "A polygon with 3 sides and 3 angles totaling 180°.",
			Points:      geometry.Path{{X: 0, Y: 100}, {X: 50, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}},
		},
		{
			Name:        "rectangle",
			DisplayName: "Rectangle",
			Emoji:       "▬",
			Properties:  "A 4-sided polygon with four 90° right angles.",
			Points:      geometry.Path{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}, {X: 0, Y: 0}},
		},
		{
			Name:        "circle",
			DisplayName: "Circle",
			Emoji:       "⭕",
			Properties:  "A round shape where all points are equidistant from the center.",
			Points:      CircleOutline(50, 50, 50, circleOutlinePoints),
		},
	}
}

// CircleOutline samples n points counter-clockwise around a circle, starting
// at angle zero. The outline is left open.
func CircleOutline(cx, cy, r float64, n int) geometry.Path {
	p := make(geometry.Path, n)
	for i := range p {
		a := float64(i) / float64(n) * 2 * math.Pi
		p[i] = geometry.Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return p
}

// LoadDefinitions reads extra shape definitions from a JSON file. A missing
// file yields no definitions and no error.
func LoadDefinitions(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read definitions %s: %w", path, err)
	}

	var defs []Definition
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("decode definitions %s: %w", path, errors.Join(ErrInvalidDefinition, err))
	}
	return defs, nil
}

// Merge appends extra definitions to base, replacing any base definition
// with the same name in place so the order stays stable.
func Merge(base, extra []Definition) []Definition {
	out := make([]Definition, len(base), len(base)+len(extra))
	copy(out, base)
	index := make(map[string]int, len(out))
	for i, d := range out {
		index[d.Name] = i
	}
	for _, d := range extra {
		if i, ok := index[d.Name]; ok {
			out[i] = d
			continue
		}
		index[d.Name] = len(out)
		out = append(out, d)
	}
	return out
}
