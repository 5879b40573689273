package mergeinsertion

// Jacobsthal lazily generates J(0)=0, J(1)=1, J(n)=J(n-1)+2*J(n-2).
// Only the last two terms are kept.
type Jacobsthal struct {
	a, b  int // J(n), J(n+1)
	index int // n
}

// NewJacobsthal returns a generator whose first Next call yields J(0).
func NewJacobsthal() *Jacobsthal {
	return &Jacobsthal{a: 0, b: 1}
}

// Next returns the next term and advances the generator.
func (j *Jacobsthal) Next() int {
	v := j.a
	j.a, j.b = j.b, j.b+2*j.a
	j.index++
	return v
}

// Index is the index of the term the next call to Next returns.
func (j *Jacobsthal) Index() int {
	return j.index
}

// JacobsthalAt returns J(n). Negative n yields 0.
func JacobsthalAt(n int) int {
	g := NewJacobsthal()
	v := 0
	for i := 0; i <= n; i++ {
		v = g.Next()
	}
	return v
}

// JacobsthalSequence returns the first count terms starting at J(0).
func JacobsthalSequence(count int) []int {
	if count <= 0 {
		return nil
	}
	g := NewJacobsthal()
	seq := make([]int, count)
	for i := range seq {
		seq[i] = g.Next()
	}
	return seq
}

// InsertionBlocks lists the Jacobsthal blocks that cover a pend chain of the
// given length, in the order they are processed. pend[0] is inserted before
// the first block and is not part of any block.
func InsertionBlocks(pendLen int) []Block {
	var blocks []Block
	it := newBlockIterator(pendLen)
	for b, ok := it.next(); ok; b, ok = it.next() {
		blocks = append(blocks, b)
	}
	return blocks
}

// blockIterator walks the blocks k = 3, 4, ... pulling terms from a
// Jacobsthal generator on demand.
type blockIterator struct {
	gen     *Jacobsthal
	prev    int
	pendLen int
}

func newBlockIterator(pendLen int) *blockIterator {
	g := NewJacobsthal()
	g.Next() // J(0)
	g.Next() // J(1)
	return &blockIterator{gen: g, prev: g.Next(), pendLen: pendLen}
}

func (it *blockIterator) next() (Block, bool) {
	if it.prev >= it.pendLen {
		return Block{}, false
	}
	k := it.gen.Index()
	cur := it.gen.Next()
	b := Block{
		Index:    k,
		Current:  cur,
		Previous: it.prev,
		High:     min(cur-1, it.pendLen-1),
		Low:      it.prev,
	}
	it.prev = cur
	return b, true
}
