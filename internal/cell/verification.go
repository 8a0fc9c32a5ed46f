package cell

// LargeBagThreshold is the bag count above which an order ships in a large box.
// A count equal to the threshold is still small.
const LargeBagThreshold = 5

// Verdict is the outcome of comparing the sensed size with the order.
type Verdict string

const (
	Unknown  Verdict = "UNKNOWN"
	Match    Verdict = "MATCH"
	Mismatch Verdict = "MISMATCH"
)

// ExpectedClassification is the box size an order with count bags needs.
func ExpectedClassification(count int) Classification {
	if count > LargeBagThreshold {
		return Large
	}
	return Small
}

// Verify compares c with the order's expected size. A nil count (no order
// fetched, or order not found) is Unknown.
func Verify(c Classification, expectedCount *int) Verdict {
	if expectedCount == nil {
		return Unknown
	}
	if c == ExpectedClassification(*expectedCount) {
		return Match
	}
	return Mismatch
}
