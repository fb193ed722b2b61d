// internal/status/classify.go
package status

// Classify maps a count of non-operational components to a color tier and label.
// Single source of truth for every count-based provider.
func Classify(nonOperational int) (ColorTier, string) {
	switch {
	case nonOperational <= 0:
		return ColorGreen, LabelOperational
	case nonOperational <= MinorIssueMax:
		return ColorOrange, LabelMinorIssue
	default:
		return ColorRed, LabelDegraded
	}
}

// Probe is the two-state policy for presence-probe providers.
// There is no count: either an incident marker was seen or it was not.
func Probe(active bool) (ColorTier, string) {
	if active {
		return ColorRed, LabelError
	}
	return ColorGreen, LabelOperational
}
