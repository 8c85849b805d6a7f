package cptrie

import "fmt"

// Stats describes the node population of a trie.
type Stats struct {
	Leaves      int // bit array leaves
	SparseNodes int
	BitmapNodes int
	MaxDepth    int // nodes on the longest root-to-node path
	StoredVals  int // values physically stored (zero values are not)
}

func (st Stats) Nodes() int {
	return st.Leaves + st.SparseNodes + st.BitmapNodes
}

func (st Stats) String() string {
	return fmt.Sprintf("<Stats leaves=%d sparse=%d bitmap=%d depth=%d stored=%d>",
		st.Leaves, st.SparseNodes, st.BitmapNodes, st.MaxDepth, st.StoredVals)
}

func collectStats[T any](n node[T], depth int, st *Stats) {
	if depth > st.MaxDepth {
		st.MaxDepth = depth
	}

	switch x := n.(type) {
	case *bitArrayLeaf[T]:
		st.Leaves++
		st.StoredVals += int(x.valueCount)
	case *sNode[T]:
		st.SparseNodes++
		st.StoredVals += len(x.values)
		for _, child := range x.children {
			collectStats(child, depth+1, st)
		}
	case *bNode[T]:
		st.BitmapNodes++
		if x.hasZLK && !isZero(x.zlk) {
			st.StoredVals++
		}
		for _, child := range x.children {
			collectStats(child, depth+1, st)
		}
	}
}
