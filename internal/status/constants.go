// internal/status/constants.go
package status

// Condition is the normalized state of one component or provider.
type Condition string

// ---- CONDITIONS ----

const (
	ConditionOperational Condition = "operational"
	ConditionDegraded    Condition = "degraded"
	ConditionError       Condition = "error"
	ConditionUnknown     Condition = "unknown"
)

// ColorTier is the display color derived from severity.
type ColorTier string

// ---- COLOR TIERS ----

const (
	ColorGreen  ColorTier = "green"
	ColorOrange ColorTier = "orange"
	ColorRed    ColorTier = "red"
)

// ---- LABELS ----

const (
	LabelOperational = "operational"
	LabelMinorIssue  = "minor issue"
	LabelDegraded    = "degraded"
	LabelError       = "error"
	LabelUnknown     = "unknown"
)

// ---- THRESHOLDS ----

// MinorIssueMax is the highest non-operational count still reported as a minor issue.
const MinorIssueMax = 2

// ---- RAW VALUES ----

// RawOperational is the raw status string upstream APIs use for a healthy component.
const RawOperational = "operational"

// RawIncident is the raw status assigned to feed-derived incident records.
const RawIncident = "non-operational"

// TagIncident is the severity tag assigned to feed-derived incident records.
const TagIncident = "incident"

// RawFetchFailed and TagFetchFailed mark a region whose fetch failed inside a
// provider that still has other regions reporting.
const (
	RawFetchFailed = "error"
	TagFetchFailed = "unknown"
)
