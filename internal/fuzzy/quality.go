package fuzzy

// Coefficient names the similarity measure used to turn n-gram counts into a quality.
type Coefficient string

const (
	// OverlapMax divides the common n-grams by the larger n-gram count.
	OverlapMax Coefficient = "overlapMax"
	// Jaccard divides the common n-grams by the size of the union.
	Jaccard Coefficient = "jaccard"
)

// OverlapMaxCoefficient returns common / max(a, b), or 0 when both counts are 0.
func OverlapMaxCoefficient(a, b, common int32) float64 {
	larger := a
	if b > larger {
		larger = b
	}
	if larger == 0 {
		return 0
	}
	return float64(common) / float64(larger)
}

// JaccardCoefficient returns common / (a + b - common), or 0 for an empty union.
func JaccardCoefficient(a, b, common int32) float64 {
	union := a + b - common
	if union <= 0 {
		return 0
	}
	return float64(common) / float64(union)
}

func (c Coefficient) compute(a, b, common int32) float64 {
	if c == Jaccard {
		return JaccardCoefficient(a, b, common)
	}
	return OverlapMaxCoefficient(a, b, common)
}
