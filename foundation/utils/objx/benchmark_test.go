// File: benchmark_test.go
// Title: Property Map Combinator Benchmarks
// Description: Performance benchmarks for the traversal primitive and the
//              combinators built on it.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation with core benchmarks

package objx

import (
	"strconv"
	"testing"
)

// Helper function to create test maps of various sizes
func createTestMap(size int) *Map[int] {
	m := NewWithCapacity[int](size)
	for i := 0; i < size; i++ {
		m.Set("key"+strconv.Itoa(i), i)
	}
	return m
}

func BenchmarkForEachKey(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		b.Run("size_"+strconv.Itoa(size), func(b *testing.B) {
			m := createTestMap(size)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				ForEachKey(m, func(string) Step { return Continue })
			}
		})
	}
}

func BenchmarkCopy(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		b.Run("size_"+strconv.Itoa(size), func(b *testing.B) {
			m := createTestMap(size)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = Copy(m)
			}
		})
	}
}

func BenchmarkMerge(b *testing.B) {
	m1 := createTestMap(500)
	m2 := createTestMap(1000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = Merge(m1, m2)
	}
}

func BenchmarkFilterValue(b *testing.B) {
	m := createTestMap(1000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = FilterValue(m, func(v int) Decision { return Keep(v%2 == 0) })
	}
}
