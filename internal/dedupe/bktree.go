package dedupe

// bkTree is a metric tree over hash bit vectors keyed by Hamming
// distance. Each distinct hash value is inserted once; radius queries
// prune subtrees using the triangle inequality, so a grouping pass
// stays well below pairwise comparison for well-distributed hashes.
type bkTree struct {
	root *bkNode
	size int
}

type bkNode struct {
	hash     string
	bits     []uint64
	children map[int]*bkNode
}

// insert adds a hash value to the tree. Inserting a value that is
// already present is a no-op; callers keep a side table from hash value
// to records, so the tree only ever needs one node per distinct value.
func (t *bkTree) insert(hash string, bits []uint64) {
	if t.root == nil {
		t.root = &bkNode{hash: hash, bits: bits}
		t.size++
		return
	}

	node := t.root
	for {
		d := hammingDistance(node.bits, bits)
		if d == 0 {
			return
		}
		if node.children == nil {
			node.children = make(map[int]*bkNode)
		}
		child, ok := node.children[d]
		if !ok {
			node.children[d] = &bkNode{hash: hash, bits: bits}
			t.size++
			return
		}
		node = child
	}
}

// search returns every distinct hash value within radius (inclusive) of
// the query bits.
func (t *bkTree) search(bits []uint64, radius int) []string {
	if t.root == nil {
		return nil
	}

	var matches []string
	stack := []*bkNode{t.root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		d := hammingDistance(node.bits, bits)
		if d <= radius {
			matches = append(matches, node.hash)
		}

		// Children at distance outside [d-radius, d+radius] cannot hold
		// a match by the triangle inequality.
		for dist, child := range node.children {
			if dist >= d-radius && dist <= d+radius {
				stack = append(stack, child)
			}
		}
	}
	return matches
}
