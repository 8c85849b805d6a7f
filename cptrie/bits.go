package cptrie

import (
	"math/bits"

	"github.com/hideo55/go-popcount"
)

const (
	sectionShift = 5                 // 32 bits per flag word
	sectionBits  = 1 << sectionShift // 0b100000
	sectionMask  = sectionBits - 1   // 0b011111
)

// positionOfLeastSignificantOne returns the index of the lowest set bit or -1.
func positionOfLeastSignificantOne(w uint32) int {
	if w == 0 {
		return -1
	}
	return bits.TrailingZeros32(w)
}

// positionOfLeastSignificantZero returns the index of the lowest clear bit or -1.
func positionOfLeastSignificantZero(w uint32) int {
	return positionOfLeastSignificantOne(^w)
}

// positionOfMostSignificantOne returns the index of the highest set bit or -1.
func positionOfMostSignificantOne(w uint32) int {
	if w == 0 {
		return -1
	}
	return sectionMask - bits.LeadingZeros32(w)
}

func countOnes32(words []uint32) int {
	var total uint64

	for _, w := range words {
		total += popcount.Count(uint64(w))
	}

	return int(total)
}

// rank256 returns the number of bits set in the bitmap below the given bit.
func rank256(bitmap *[4]uint64, bit byte) int {
	var (
		ofs = bit >> 6
		cnt = popcount.Count(bitmap[ofs] & (uint64(1)<<(bit&0x3F) - 1))
	)

	for j := byte(0); j < ofs; j++ {
		cnt += popcount.Count(bitmap[j])
	}

	return int(cnt)
}

func count256(bitmap *[4]uint64) int {
	return int(popcount.CountSlice(bitmap[:]))
}

func test256(bitmap *[4]uint64, bit byte) bool {
	return bitmap[bit>>6]>>(bit&0x3F)&1 != 0
}

// next256 returns the lowest set bit >= from or -1.
func next256(bitmap *[4]uint64, from int) int {
	if from > 0xFF {
		return -1
	}

	var (
		ofs  = from >> 6
		word = bitmap[ofs] >> (from & 0x3F)
	)

	if word != 0 {
		return from + bits.TrailingZeros64(word)
	}

	for ofs++; ofs < 4; ofs++ {
		if bitmap[ofs] != 0 {
			return ofs<<6 + bits.TrailingZeros64(bitmap[ofs])
		}
	}

	return -1
}

// prev256 returns the highest set bit <= from or -1.
func prev256(bitmap *[4]uint64, from int) int {
	if from < 0 {
		return -1
	}

	var (
		ofs  = from >> 6
		word = bitmap[ofs] << (63 - from&0x3F)
	)

	if word != 0 {
		return from - bits.LeadingZeros64(word)
	}

	for ofs--; ofs >= 0; ofs-- {
		if bitmap[ofs] != 0 {
			return ofs<<6 + 63 - bits.LeadingZeros64(bitmap[ofs])
		}
	}

	return -1
}
