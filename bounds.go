package loadmeter

const (
	// FlatPadding is added above and below a signal whose minimum equals its
	// maximum, so the chart never gets an empty value range.
	FlatPadding = 0.1
	// RangePaddingRatio is the fraction of the value range added above the
	// maximum and below the minimum.
	RangePaddingRatio = 0.05
)

// ScaleBounds are the lower and upper limits of the value axis.
type ScaleBounds struct {
	Min float64
	Max float64
}

// ComputeBounds scans values for their minimum and maximum and pads both, see
// FlatPadding and RangePaddingRatio. An empty slice yields the bounds of a flat
// signal at zero.
func ComputeBounds(values []float64) ScaleBounds {
	if len(values) == 0 {
		return ScaleBounds{Min: -FlatPadding, Max: FlatPadding}
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	delta := FlatPadding
	if min != max {
		delta = (max - min) * RangePaddingRatio
	}
	return ScaleBounds{
		Min: min - delta,
		Max: max + delta,
	}
}
