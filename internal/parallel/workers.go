package parallel

import (
	"runtime"
)

// maxWorkers caps stat fan-out so large notebooks do not exhaust file
// descriptors.
const maxWorkers = 32

// CalculateWorkers determines the number of workers for numItems I/O-bound
// items. It never returns more workers than items.
func CalculateWorkers(numItems int) int {
	if numItems <= 0 {
		return 0
	}

	workers := min(runtime.NumCPU()*4, maxWorkers)

	// Bounds checking
	if workers < 1 {
		workers = 1
	}
	if workers > numItems {
		workers = numItems
	}
	return workers
}
