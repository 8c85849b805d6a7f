// Package cptrie implements a compact patricia trie over byte-sequence keys.
//
// A trie is built of three kinds of nodes, each node choosing the cheapest
// representation for the keys below it:
//
//   - bitArrayLeaf - keys ending one byte below the node, held in a 256-bit
//     bitmap with compacted value slots;
//   - sNode        - a sparse node, a short sorted list of key suffixes and
//     child prefixes packed into one byte buffer;
//   - bNode        - a bitmap inner node with one child per first key byte.
//
// Nodes convert into each other as they grow and shrink:
//
//	sNode -> bitArrayLeaf   a full node holding only one-byte suffixes
//	sNode -> bNode          a full node with more than 16 distinct first bytes
//	bitArrayLeaf -> sNode   a longer key below 32 keys, or fewer than 24 keys
//	                        left after a removal (12 if no value is stored)
//	bitArrayLeaf -> bNode   a longer key at 32 keys or more
//	bNode -> sNode          fewer than 8 items left after a removal
//
// A full sparse node with fewer distinct first bytes moves its largest group
// of keys into a child sparse node under their common prefix instead.
//
// Every node below the root consumes at least one key byte, so the depth of a
// trie is bounded by the length of its longest key, not by the number of keys.
//
// Default values are never stored: a key mapped to the zero value of T costs
// only its key bits.
//
// Tries are not safe for concurrent use, and an Enumerator must not outlive a
// modification of its trie.
package cptrie
