package cptrie

import "fmt"

// KeyWalker is a cursor over a byte-sequence key.
//
// Buffer[Offset:Offset+Left] is the key material not consumed yet; Left == 0
// means the key is fully consumed. A KeyWalker does not own its buffer and is
// cheap to copy.
type KeyWalker struct {
	Buffer []byte
	Offset int
	Left   int
}

func NewKeyWalker(buf []byte) KeyWalker {
	return KeyWalker{Buffer: buf, Left: len(buf)}
}

func NewKeyWalkerAt(buf []byte, offset, left int) KeyWalker {
	var kw = KeyWalker{Buffer: buf}

	kw.Reset(offset, left)

	return kw
}

// Reset moves the cursor to a new position.
func (kw *KeyWalker) Reset(offset, left int) {
	if offset < 0 || left < 0 || offset+left > len(kw.Buffer) {
		panic(fmt.Sprintf("cptrie: key range [%d:+%d] exceeds buffer of %d bytes", offset, left, len(kw.Buffer)))
	}

	kw.Offset = offset
	kw.Left = left
}

// Advance consumes n bytes.
func (kw *KeyWalker) Advance(n int) {
	if n > kw.Left {
		panic(fmt.Sprintf("cptrie: cannot advance %d bytes, %d left", n, kw.Left))
	}

	kw.Offset += n
	kw.Left -= n
}

// Byte returns the i-th byte of the remaining key.
func (kw *KeyWalker) Byte(i int) byte {
	if i < 0 || i >= kw.Left {
		panic(fmt.Sprintf("cptrie: key byte %d out of range, %d left", i, kw.Left))
	}

	return kw.Buffer[kw.Offset+i]
}

// Remaining returns the unconsumed part of the key.
func (kw *KeyWalker) Remaining() []byte {
	return kw.Buffer[kw.Offset : kw.Offset+kw.Left]
}
