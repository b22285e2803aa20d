/*
PURPOSE:
  Progress hooks for the readers, so metrics can count files without the
  ingest package depending on them.

REQUIREMENTS:
  Implementation-discovered:
  - Reported skips carry a dataset and a reason label.

ARCHITECTURE INTEGRATION:
  - Implemented by: internal/metrics.Collector

ERROR HANDLING:
  - N/A

IMPLEMENTATION RULES:
  - Keep label values few and fixed.

USAGE:
  r := ingest.NewReader(logger, collector)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/metrics/metrics.go

MAINTENANCE:
  - None.
*/

package ingest

// Dataset names used when reporting to an Observer.
const (
	DatasetPerformance = "performance"
	DatasetEvaluation  = "evaluation"
)

// Skip reasons reported to an Observer.
const (
	ReasonRead         = "read"
	ReasonParse        = "parse"
	ReasonNotBenchmark = "not_benchmark"
)

// Observer receives ingest progress events. Implementations must not fail.
type Observer interface {
	FileRead(dataset string)
	FileSkipped(dataset, reason string)
	NestedDecodeFailed(field string)
}

type nopObserver struct{}

func (nopObserver) FileRead(string)            {}
func (nopObserver) FileSkipped(string, string) {}
func (nopObserver) NestedDecodeFailed(string)  {}
