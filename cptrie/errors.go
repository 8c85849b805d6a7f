package cptrie

import "errors"

var (
	// ErrKeyExists is returned by Add when the key is already in the trie.
	ErrKeyExists = errors.New("key already exists")
	// ErrKeyNotFound is returned by Get when the key is not in the trie.
	ErrKeyNotFound = errors.New("key not found")
)
