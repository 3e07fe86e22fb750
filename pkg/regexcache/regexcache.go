// Package regexcache caches compiled regular expressions. Probe oracles
// match dozens of static patterns against every response, so compiling a
// pattern more than once per process is wasted work.
package regexcache

import (
	"regexp"
	"sync"
)

var cache sync.Map // pattern string -> *regexp.Regexp

// Get returns the compiled form of pattern, compiling and caching it on
// first use.
func Get(pattern string) (*regexp.Regexp, error) {
	if v, ok := cache.Load(pattern); ok {
		return v.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	v, _ := cache.LoadOrStore(pattern, re)
	return v.(*regexp.Regexp), nil
}

// MustGet is Get for patterns known valid at compile time; it panics on a
// bad pattern.
func MustGet(pattern string) *regexp.Regexp {
	re, err := Get(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// Size reports the number of cached patterns.
func Size() int {
	n := 0
	cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
