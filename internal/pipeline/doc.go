// Package pipeline orchestrates the ingestion steps for a batch of
// status-report documents: parse, resolve, load, and validate.
//
// The pipeline uses a step-based architecture where each phase of the
// ingestion is a discrete step implementing the Step interface.
//
// Design decision: We use a pipeline pattern because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running batches
//
// Every step receives the same IngestRun accumulator. The parse step is
// the only concurrent one; resolve and load are strictly serial because
// store writes must observe batch order.
package pipeline
