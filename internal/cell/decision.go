// Package cell holds the packaging-cell business rules: parcel classification
// from the two proximity sensors and verification against the order.
package cell

// Classification is the parcel size derived from the sensors.
type Classification string

const (
	Large   Classification = "LARGE"
	Small   Classification = "SMALL"
	Pending Classification = "PENDING"
)

// SensorPair is one sample of the two discrete inputs.
type SensorPair struct {
	DI3 bool `json:"di3"`
	DI7 bool `json:"di7"`
}

// Classify maps the sensors to a size. DI7 gates the decision and DI3 refines
// it, so DI3 on its own is still Pending.
func Classify(di3, di7 bool) Classification {
	switch {
	case di3 && di7:
		return Large
	case di7:
		return Small
	default:
		return Pending
	}
}

// Classify is a convenience for a sampled pair.
func (p SensorPair) Classify() Classification {
	return Classify(p.DI3, p.DI7)
}

// PickStep describes the pick sequence the controller program runs for c.
func PickStep(c Classification) string {
	switch c {
	case Large:
		return "MoveJ(tag_stor_box) → ... → RG Grip(90)"
	case Small:
		return "MoveJ(tag_lille_box) → ... → RG Grip(90)"
	default:
		return "Wait (sensor condition)"
	}
}
