// Package intern maps strings to small stable integer identities.
//
// Shader, attribute and uniform names are compared on every draw call.
// Interning them once turns those comparisons into integer equality and keeps
// a single stored copy of each name.
//
// A Table is an explicitly constructed service. Create one per engine run and
// pass it to the components that need it:
//
//	names := intern.New()
//	id := names.Intern("a_pos")
//	s, err := names.Resolve(id) // "a_pos", nil
//
// Identities are permanent until Clear. After Clear, Resolve reports
// ErrStale for every identity issued earlier.
package intern
