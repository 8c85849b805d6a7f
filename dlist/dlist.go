// Package dlist implements DList, a double-ended list backed by a circular
// buffer.
//
// Pushes and pops at both ends are O(1) amortized. The buffer capacity is
// always a power of two so that index arithmetic is a mask, and it doubles
// when the list overflows. A DList is not safe for concurrent use.
package dlist

import "fmt"

const minCapacity = 4

type DList[T any] struct {
	buf   []T
	start int // index of the first item in buf
	count int
}

// New returns a DList optionally initialized with the given items.
func New[T any](items ...T) *DList[T] {
	var dl = &DList[T]{}

	if n := len(items); n > 0 {
		dl.buf = make([]T, roundUp(n))
		dl.count = copy(dl.buf, items)
	}

	return dl
}

// Len returns the number of items.
func (dl *DList[T]) Len() int {
	return dl.count
}

// Cap returns the size of the underlying buffer.
func (dl *DList[T]) Cap() int {
	return len(dl.buf)
}

func (dl *DList[T]) IsEmpty() bool {
	return dl.count == 0
}

// Clear removes all the items but keeps the buffer.
func (dl *DList[T]) Clear() {
	var zero T

	for i := 0; i < dl.count; i++ {
		dl.buf[dl.internal(i)] = zero
	}

	dl.start = 0
	dl.count = 0
}

// PushFirst prepends an item.
func (dl *DList[T]) PushFirst(item T) {
	if dl.count == len(dl.buf) {
		dl.grow()
	}

	dl.start = (dl.start - 1) & (len(dl.buf) - 1)
	dl.buf[dl.start] = item
	dl.count++
}

// PushLast appends an item.
func (dl *DList[T]) PushLast(item T) {
	if dl.count == len(dl.buf) {
		dl.grow()
	}

	dl.buf[dl.internal(dl.count)] = item
	dl.count++
}

// PopFirst removes and returns the first item. It returns false on an empty list.
func (dl *DList[T]) PopFirst() (item T, ok bool) {
	if dl.count == 0 {
		return item, false
	}

	var zero T

	item, dl.buf[dl.start] = dl.buf[dl.start], zero
	dl.start = (dl.start + 1) & (len(dl.buf) - 1)
	dl.count--

	return item, true
}

// PopLast removes and returns the last item. It returns false on an empty list.
func (dl *DList[T]) PopLast() (item T, ok bool) {
	if dl.count == 0 {
		return item, false
	}

	var (
		zero T
		idx  = dl.internal(dl.count - 1)
	)

	item, dl.buf[idx] = dl.buf[idx], zero
	dl.count--

	return item, true
}

// First returns the first item without removing it.
func (dl *DList[T]) First() (item T, ok bool) {
	if dl.count == 0 {
		return item, false
	}

	return dl.buf[dl.start], true
}

// Last returns the last item without removing it.
func (dl *DList[T]) Last() (item T, ok bool) {
	if dl.count == 0 {
		return item, false
	}

	return dl.buf[dl.internal(dl.count-1)], true
}

// SetLast replaces the last item. It returns false on an empty list.
func (dl *DList[T]) SetLast(item T) bool {
	if dl.count == 0 {
		return false
	}

	dl.buf[dl.internal(dl.count-1)] = item

	return true
}

// At returns the i-th item. It panics if i is out of range.
func (dl *DList[T]) At(i int) T {
	dl.check(i, dl.count)

	return dl.buf[dl.internal(i)]
}

// SetAt replaces the i-th item. It panics if i is out of range.
func (dl *DList[T]) SetAt(i int, item T) {
	dl.check(i, dl.count)

	dl.buf[dl.internal(i)] = item
}

// InsertAt inserts an item before the i-th one (i == Len() appends).
// It shifts the shorter side of the list.
func (dl *DList[T]) InsertAt(i int, item T) {
	dl.check(i, dl.count+1)

	if i < dl.count/2 {
		dl.PushFirst(item)
		for j := 0; j < i; j++ {
			dl.buf[dl.internal(j)] = dl.buf[dl.internal(j+1)]
		}
	} else {
		dl.PushLast(item)
		for j := dl.count - 1; j > i; j-- {
			dl.buf[dl.internal(j)] = dl.buf[dl.internal(j-1)]
		}
	}

	dl.buf[dl.internal(i)] = item
}

// RemoveAt removes and returns the i-th item. It shifts the shorter side of the list.
func (dl *DList[T]) RemoveAt(i int) T {
	dl.check(i, dl.count)

	item := dl.buf[dl.internal(i)]

	if i < dl.count/2 {
		for j := i; j > 0; j-- {
			dl.buf[dl.internal(j)] = dl.buf[dl.internal(j-1)]
		}
		dl.PopFirst()
	} else {
		for j := i; j < dl.count-1; j++ {
			dl.buf[dl.internal(j)] = dl.buf[dl.internal(j+1)]
		}
		dl.PopLast()
	}

	return item
}

// Truncate drops items from the end so that at most n remain.
func (dl *DList[T]) Truncate(n int) {
	for dl.count > n {
		dl.PopLast()
	}
}

// Slice returns a copy of the items in order.
func (dl *DList[T]) Slice() []T {
	var (
		out  = make([]T, dl.count)
		head = min(dl.count, len(dl.buf)-dl.start)
	)

	if dl.count == 0 {
		return out
	}

	copy(out, dl.buf[dl.start:dl.start+head])
	copy(out[head:], dl.buf[:dl.count-head])

	return out
}

func (dl *DList[T]) String() string {
	return fmt.Sprintf("DList%v", dl.Slice())
}

func (dl *DList[T]) internal(i int) int {
	return (dl.start + i) & (len(dl.buf) - 1)
}

func (dl *DList[T]) check(i, limit int) {
	if i < 0 || i >= limit {
		panic(fmt.Sprintf("dlist: index %d out of range [0:%d]", i, limit))
	}
}

// grow doubles the buffer and unwraps the items to its beginning.
func (dl *DList[T]) grow() {
	size := len(dl.buf) * 2
	if size < minCapacity {
		size = minCapacity
	}

	buf := make([]T, size)

	if dl.count > 0 {
		head := copy(buf, dl.buf[dl.start:])
		if head < dl.count {
			copy(buf[head:], dl.buf[:dl.count-head])
		}
	}

	dl.buf = buf
	dl.start = 0
}

func roundUp(n int) int {
	size := minCapacity
	for size < n {
		size <<= 1
	}
	return size
}
