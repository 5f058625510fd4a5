// File: example_test.go
// Title: Property Map Combinator Examples
// Description: Examples demonstrating the objx combinators in practical
//              scenarios.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation with practical examples

package objx

import (
	"fmt"
	"strings"
)

func ExampleMerge() {
	defaults := NewObject().Set("color", "blue").Set("size", "medium")
	userPrefs := NewObject().Set("color", "red")

	final := Merge(defaults, userPrefs)

	fmt.Println(final)
	// Output: {color: red, size: medium}
}

func ExampleMix() {
	settings := NewObject().Set("a", 1)
	Mix(settings, NewObject().Set("b", 2))

	fmt.Println(settings)
	// Output: {a: 1, b: 2}
}

func ExampleFilterValue() {
	numbers := New[int]().Set("a", 1).Set("c", 2).Set("e", 3).Set("f", 4)

	even := FilterValue(numbers, func(n int) Decision {
		return Keep(n%2 == 0)
	})
	untilThree := FilterValue(numbers, func(n int) Decision {
		if n == 3 {
			return Abort
		}
		return Keep(n%2 == 0)
	})

	fmt.Println(even)
	fmt.Println(untilThree)
	// Output: {c: 2, f: 4}
	// {c: 2}
}

func ExampleForEachPair() {
	pairs := New[string]().Set("a", "b").Set("c", "d")

	ForEachPair(pairs, func(key, value string) Step {
		fmt.Printf("%s=%s\n", key, value)
		return Stop
	})
	// Output: a=b
}

func ExampleAnyKey() {
	if _, ok := AnyKey(NewObject()); !ok {
		fmt.Println("empty")
	}

	key, _ := AnyKey(NewObject().Set("first", nil).Set("second", 2))
	fmt.Println(key)
	// Output: empty
	// first
}

func ExampleDerive() {
	base := NewObject().Set("inherited", true)
	child := Derive(base).Set("own", 1)

	fmt.Println(child.Has("inherited"), Keys(child), Count(child))
	// Output: true [own] 1
}

func ExampleKeys() {
	headers := New[string]().
		Set("Content-Type", "application/json").
		Set("Accept", "text/plain")

	fmt.Println(strings.Join(Keys(headers), ", "))
	fmt.Println(Values(headers))
	// Output: Content-Type, Accept
	// [application/json text/plain]
}
