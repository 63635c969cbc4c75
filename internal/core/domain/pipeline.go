package domain

// PipelineStage identifies where a query is in the pipeline state machine.
// Each query moves Idle -> Retrieving -> Reasoning -> Responding -> Idle;
// any stage failure returns the session to Idle.
type PipelineStage string

// Pipeline stages.
const (
	// StageIdle means no query is being processed.
	StageIdle PipelineStage = "idle"

	// StageRetrieving means the query is being embedded and matched
	// against the vector index.
	StageRetrieving PipelineStage = "retrieving"

	// StageReasoning means the reasoner agent is analysing passages.
	StageReasoning PipelineStage = "reasoning"

	// StageResponding means the responder agent is producing the answer.
	StageResponding PipelineStage = "responding"
)

// String returns the string representation.
func (s PipelineStage) String() string {
	return string(s)
}
