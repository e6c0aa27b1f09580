package pipeline

import "github.com/xlsxcore/engine/xerr"

// Stage is one of the pipeline's four fixed processing steps (§4.7 "Stage
// contracts"). Process consumes batch and returns either the batch to hand
// to the next stage, or an error; on error the pipeline drops the batch
// and increments the stage's failure counter without retrying.
type Stage interface {
	Name() string
	Process(b *Batch) (*Batch, error)
}

// StageIndex enumerates the pipeline's stage kinds in processing order.
type StageIndex int

const (
	StagePreprocess StageIndex = iota
	StageXMLGenerate
	StageCompress
	StageOutput
	numStages
)

func (s StageIndex) String() string {
	switch s {
	case StagePreprocess:
		return "preprocess"
	case StageXMLGenerate:
		return "xmlgenerate"
	case StageCompress:
		return "compress"
	case StageOutput:
		return "output"
	default:
		return "unknown"
	}
}

// DefaultWorkerCounts is the default worker-pool size per stage, in
// StageIndex order, summing to 9 per §5 "Threads".
var DefaultWorkerCounts = [numStages]int{2, 4, 2, 1}

var errBatchSizeOutOfRange = xerr.New(xerr.InvalidArgument, "pipeline.Preprocess", "batch cell count out of range")
