package types

// DecompositionRequest carries a user's free-text task description.
// It is ephemeral and never persisted.
type DecompositionRequest struct {
	// TaskDescription is the task the user feels overwhelmed by.
	TaskDescription string `json:"task_description"`
}

// DecompositionResult is the structured form of a model reply: an ordered
// block of first steps and a short encouraging remark. Both fields are
// always non-empty; fallback text is substituted when parsing is
// inconclusive.
type DecompositionResult struct {
	// Steps holds the actionable first steps, usually a numbered or
	// bulleted list.
	Steps string `json:"steps"`

	// Encouragement is a brief supportive remark focused on the first step.
	Encouragement string `json:"encouragement"`
}
