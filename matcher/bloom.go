// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package matcher

// FNV-1a 64-bit constants. Hashing is inlined so a lookup hashes the path
// string in place, without a hash.Hash64 or a []byte conversion.
const (
	fnvOffsetBasis = 14695981039346656037
	fnvPrime       = 1099511628211
)

// bloomThreshold is the static path count below which the bloom filter is
// skipped and the map is probed directly.
const bloomThreshold = 10

// hashString returns the FNV-1a hash of s.
func hashString(s string) uint64 {
	hash := uint64(fnvOffsetBasis)
	for i := range len(s) {
		hash ^= uint64(s[i])
		hash *= fnvPrime
	}
	return hash
}

// mix64 is the splitmix64 finalizer. It derives a second, independent hash
// from the FNV-1a hash.
func mix64(h uint64) uint64 {
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return h
}

// bloomFilter answers "definitely not present" for static paths of an
// indexed tree before the map is probed. False positives fall through to
// the map; there are no false negatives.
//
// The hash functions are derived by double hashing: position i is
// h1 + i*h2 modulo the size.
type bloomFilter struct {
	bits   []uint64 // Bit array, 64 bits per word
	size   uint64   // Total number of bits
	hashes int      // Number of hash functions
}

func newBloomFilter(size uint64, hashes int) *bloomFilter {
	return &bloomFilter{
		bits:   make([]uint64, (size+63)/64),
		size:   size,
		hashes: hashes,
	}
}

// hashPair returns the two hashes bit positions are derived from.
// h2 is odd so the first positions never coincide for power-of-two sizes.
func hashPair(s string) (h1, h2 uint64) {
	h1 = hashString(s)
	return h1, mix64(h1) | 1
}

func (bf *bloomFilter) addString(s string) {
	h1, h2 := hashPair(s)
	for i := range bf.hashes {
		pos := (h1 + uint64(i)*h2) % bf.size //nolint:gosec // G115: i is non-negative
		bf.bits[pos/64] |= 1 << (pos % 64)
	}
}

// testString reports whether s may have been added. It exits on the first
// unset bit, which is the common case for a miss.
func (bf *bloomFilter) testString(s string) bool {
	h1, h2 := hashPair(s)
	for i := range bf.hashes {
		pos := (h1 + uint64(i)*h2) % bf.size //nolint:gosec // G115: i is non-negative
		if bf.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}
	return true
}
