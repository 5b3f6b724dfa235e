package engine

// Color is a per-body rendering hint derived from mass at reset time.
// The physics never reads it.
type Color struct {
	R, G, B uint8
}

// colorForMass maps heavy bodies toward red and light bodies toward blue.
func colorForMass(m float64) Color {
	if m > 5 {
		return Color{
			R: clampChannel(200 + m*2.5),
			G: clampChannel(255 - m*10),
			B: clampChannel(100 - m*5),
		}
	}
	return Color{
		R: clampChannel(100 + m*20),
		G: clampChannel(100 + m*20),
		B: clampChannel(150 + m*20),
	}
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
