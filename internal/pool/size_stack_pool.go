package pool

import "sync"

// sizeStackPool holds the open-size stacks of finished builders.
var sizeStackPool = sync.Pool{
	New: func() any { return &[]uint64{} },
}

// GetSizeStack retrieves an empty uint64 stack with at least minCap capacity.
//
// The caller must hand the pointer back through PutSizeStack once the stack
// is no longer referenced.
func GetSizeStack(minCap int) *[]uint64 {
	ptr, _ := sizeStackPool.Get().(*[]uint64)
	if cap(*ptr) < minCap {
		*ptr = make([]uint64, 0, minCap)
	}
	*ptr = (*ptr)[:0]

	return ptr
}

// PutSizeStack returns a stack obtained from GetSizeStack.
func PutSizeStack(ptr *[]uint64) {
	if ptr == nil {
		return
	}
	*ptr = (*ptr)[:0]
	sizeStackPool.Put(ptr)
}
