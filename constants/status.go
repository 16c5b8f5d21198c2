package constants

// IntakeState is the orchestrator state for a single upload.
type IntakeState string

// Stable values (logged and emitted on the progress channel).
const (
	StateIdle        IntakeState = "IDLE"
	StateValidating  IntakeState = "VALIDATING"
	StateRasterizing IntakeState = "RASTERIZING"
	StateExtracting  IntakeState = "EXTRACTING"
	StateParsing     IntakeState = "PARSING"
	StateComplete    IntakeState = "COMPLETE"
	StateError       IntakeState = "ERROR" // terminal failure
)

// Terminal reports whether no further transition is possible for the current artifact.
func (s IntakeState) Terminal() bool {
	return s == StateComplete || s == StateError
}
