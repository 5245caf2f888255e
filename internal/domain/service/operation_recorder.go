package service

import "time"

// OperationRecorder receives the outcome of every account operation.
// outcome is "success" or the lower-cased business error code.
type OperationRecorder interface {
	RecordOperation(operation, outcome string, elapsed time.Duration)
}
