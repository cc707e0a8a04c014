package inference

// Stage is how far a request got through the pipeline.
type Stage int32

// Requests move through the stages in order and stop at the first failure.
const (
	StageReceived Stage = iota
	StageDecoding
	StageInferring
	StageAssembling
	StageCompleted
)

func (s Stage) String() string {
	switch s {
	case StageReceived:
		return "received"
	case StageDecoding:
		return "decoding"
	case StageInferring:
		return "inferring"
	case StageAssembling:
		return "assembling"
	case StageCompleted:
		return "completed"
	default:
		return "unknown"
	}
}
