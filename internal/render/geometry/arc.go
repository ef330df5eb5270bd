package geometry

import (
	"fmt"
	"math"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
)

const (
	// ArcRadius is the radius every arc buffer is baked with.
	ArcRadius = 12.0
	// ArcSegments is the number of steps in a full circle, and the
	// number of buffers in an ArcTable.
	ArcSegments = 100
)

// ArcPoints returns percentage points of a circle of radius ArcRadius,
// interleaved as x, y. Point i sits at angle i*2π/ArcSegments, so the
// first point is always (ArcRadius, 0). Drawn as a line strip they cover
// percentage/ArcSegments of the circumference.
func ArcPoints(percentage int) []float32 {
	if percentage < 1 || percentage > ArcSegments {
		panic(fmt.Sprintf("arc percentage %d out of range [1, %d]", percentage, ArcSegments))
	}

	dtheta := 2 * math.Pi / ArcSegments
	pts := make([]float32, 0, percentage*2)
	for i := 0; i < percentage; i++ {
		theta := float64(i) * dtheta
		pts = append(pts,
			float32(math.Cos(theta)*ArcRadius),
			float32(math.Sin(theta)*ArcRadius),
		)
	}
	return pts
}

// ArcTable holds one buffer per percentage. Slot k holds the arc of
// percentage k+1, so a 0-based arc index selects its buffer directly.
type ArcTable [ArcSegments]*StaticBuffer

// BuildArcBuffers uploads the arc buffers for percentages 1..ArcSegments.
// On failure every buffer already created is deleted.
func BuildArcBuffers(dev gpu.Device) (*ArcTable, error) {
	var table ArcTable
	for k := range table {
		buf, err := NewStaticBuffer(dev, ArcPoints(k+1), 2)
		if err != nil {
			table.Delete()
			return nil, fmt.Errorf("arc buffer %d: %w", k+1, err)
		}
		table[k] = buf
	}
	return &table, nil
}

// Get returns the buffer for a 0-based arc index.
func (t *ArcTable) Get(index int) *StaticBuffer {
	if index < 0 || index >= ArcSegments {
		panic(fmt.Sprintf("arc index %d out of range [0, %d]", index, ArcSegments-1))
	}
	return t[index]
}

// Delete releases every buffer in the table.
func (t *ArcTable) Delete() {
	for k, buf := range t {
		if buf != nil {
			buf.Delete()
			t[k] = nil
		}
	}
}

// CirclePoints returns segments points of a closed circle of the given
// radius on the XZ plane (y = 0), interleaved as x, y, z, for line loops.
func CirclePoints(radius float32, segments int) []float32 {
	pts := make([]float32, 0, segments*3)
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		pts = append(pts,
			radius*float32(math.Cos(theta)),
			0,
			radius*float32(math.Sin(theta)),
		)
	}
	return pts
}
