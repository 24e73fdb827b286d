package pipeline

// Status describes how a stage concluded.
type Status string

// Stage outcomes.
const (
	StatusExecuted Status = "executed"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// StageResult is the outcome of one stage. Results are never persisted;
// they feed the next stage's guard and the final summary line.
type StageResult struct {
	// Stage is the stage name as reported to the operator.
	Stage string

	Status Status

	// ArtifactPath is set by the build stage only.
	ArtifactPath string

	// Err holds the stage's failure. For the signing and publishing stages
	// a non-nil Err coexists with pipeline success.
	Err error
}

// record appends a stage outcome and returns it unchanged, so call sites
// can record and return in one expression.
func (p *Pipeline) record(r StageResult) StageResult {
	p.results = append(p.results, r)
	return r
}

// Results returns the outcomes of all stages that ran so far, in order.
func (p *Pipeline) Results() []StageResult {
	out := make([]StageResult, len(p.results))
	copy(out, p.results)
	return out
}
