// Package plugin implements plugin resolution for animus: reference
// normalization, registry backed loading, an optional auto-install side
// effect, and cycle tolerant topological ordering of the loaded dependency
// closure.
//
// Resolution is deliberately best effort. A missing, invalid or cyclic
// plugin never aborts the batch; it is dropped and reported through the
// Result's diagnostics so the remaining plugins can still boot.
package plugin
