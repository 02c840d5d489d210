package workflow

// State is a step of the bump workflow.
type State int

const (
	StateStart State = iota
	StateReadVersion
	StateSuggest
	StatePrompt
	StateValidate
	StateCleanCheck
	StateConfirmOverride
	StateCollectChanges
	StatePreview
	StateApplyEdits
	StateRecord
	StateDone
	StateAborted
	StateFailed
)

var stateNames = map[State]string{
	StateStart:           "start",
	StateReadVersion:     "read-version",
	StateSuggest:         "suggest",
	StatePrompt:          "prompt",
	StateValidate:        "validate",
	StateCleanCheck:      "clean-check",
	StateConfirmOverride: "confirm-override",
	StateCollectChanges:  "collect-changes",
	StatePreview:         "preview",
	StateApplyEdits:      "apply-edits",
	StateRecord:          "record",
	StateDone:            "done",
	StateAborted:         "aborted",
	StateFailed:          "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted || s == StateFailed
}

// AbortReason explains why a run stopped before modifying anything.
type AbortReason string

const (
	ReasonNone             AbortReason = ""
	ReasonInvalidVersion   AbortReason = "invalid version"
	ReasonUnchangedVersion AbortReason = "unchanged version"
	ReasonDeclined         AbortReason = "operator declined"
	ReasonInputClosed      AbortReason = "input closed"
)
