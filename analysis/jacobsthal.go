package analysis

import (
	"github.com/ChristianF88/fjsort/mergeinsertion"
	"github.com/ChristianF88/fjsort/output"
)

// JacobsthalTable lists the first count Jacobsthal numbers and, for a pend
// chain of pendLen elements, the blocks and the order its indices are
// inserted in.
func JacobsthalTable(count, pendLen int) *output.JacobsthalResult {
	result := &output.JacobsthalResult{
		Sequence:   mergeinsertion.JacobsthalSequence(count),
		PendLength: pendLen,
	}
	if result.Sequence == nil {
		result.Sequence = []int{}
	}
	if pendLen <= 0 {
		return result
	}

	result.Order = append(result.Order, 0)
	for _, b := range mergeinsertion.InsertionBlocks(pendLen) {
		result.Blocks = append(result.Blocks, output.JacobsthalBlock{
			Index:    b.Index,
			Current:  b.Current,
			Previous: b.Previous,
			High:     b.High,
			Low:      b.Low,
			MaxCost:  b.Index - 1,
		})
		for i := b.High; i >= b.Low; i-- {
			result.Order = append(result.Order, i)
		}
	}
	return result
}
