package intern

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestInternSameContentSameIdentity(t *testing.T) {
	tbl := New()

	tests := []string{"", "a_pos", "u_color", "fill", "a very long attribute name with spaces"}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			first := tbl.Intern(s)
			second := tbl.Intern(s)
			if first != second {
				t.Errorf("Intern(%q) returned %d then %d", s, first, second)
			}
			got, err := tbl.Resolve(first)
			if err != nil {
				t.Fatalf("Resolve(%d) failed: %v", first, err)
			}
			if got != s {
				t.Errorf("Resolve(Intern(%q)) = %q", s, got)
			}
		})
	}

	if tbl.Size() != len(tests) {
		t.Errorf("Size() = %d, want %d", tbl.Size(), len(tests))
	}
}

func TestInternInputFormsNormalize(t *testing.T) {
	tbl := New()

	fromString := tbl.Intern("u_opacity")
	fromBytes := tbl.InternBytes([]byte("u_opacity"))
	fromCString := tbl.InternCString([]byte("u_opacity\x00garbage"))
	fromCStringNoNUL := tbl.InternCString([]byte("u_opacity"))

	if fromBytes != fromString || fromCString != fromString || fromCStringNoNUL != fromString {
		t.Errorf("input forms disagree: string=%d bytes=%d cstring=%d cstring(no NUL)=%d",
			fromString, fromBytes, fromCString, fromCStringNoNUL)
	}
	if tbl.Size() != 1 {
		t.Errorf("Size() = %d, want 1", tbl.Size())
	}
}

func TestInternBytesCopiesInput(t *testing.T) {
	tbl := New()

	buf := []byte("a_pos")
	id := tbl.InternBytes(buf)
	copy(buf, "XXXXX")

	got := tbl.MustResolve(id)
	if got != "a_pos" {
		t.Errorf("stored string changed with caller buffer: %q", got)
	}
}

func TestIdentitiesAreSequential(t *testing.T) {
	tbl := New()

	for i, s := range []string{"a", "b", "c"} {
		id := tbl.Intern(s)
		if int(id.Index()) != i {
			t.Errorf("Intern(%q).Index() = %d, want %d", s, id.Index(), i)
		}
	}
}

func TestLookupDoesNotInsert(t *testing.T) {
	tbl := New()

	if _, ok := tbl.Lookup("missing"); ok {
		t.Error("Lookup found a string that was never interned")
	}
	if tbl.Size() != 0 {
		t.Errorf("Lookup inserted: Size() = %d", tbl.Size())
	}

	id := tbl.Intern("present")
	got, ok := tbl.Lookup("present")
	if !ok || got != id {
		t.Errorf("Lookup(present) = %d, %v; want %d, true", got, ok, id)
	}
}

func TestResolveNeverIssued(t *testing.T) {
	tbl := New()
	tbl.Intern("only")

	tests := []struct {
		name string
		id   Identity
	}{
		{"past end", makeIdentity(0, 1)},
		{"far index", makeIdentity(0, 1<<20)},
		{"future generation", makeIdentity(5, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tbl.Resolve(tt.id)
			if !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("Resolve(%d) error = %v, want ErrOutOfRange", tt.id, err)
			}
			var lerr *LookupError
			if !errors.As(err, &lerr) {
				t.Fatalf("error %T is not *LookupError", err)
			}
			if lerr.ID != tt.id {
				t.Errorf("LookupError.ID = %d, want %d", lerr.ID, tt.id)
			}
		})
	}
}

func TestResolveAfterClear(t *testing.T) {
	tbl := New()
	old := tbl.Intern("fill")

	tbl.Clear()

	if tbl.Size() != 0 {
		t.Errorf("Size() after Clear = %d, want 0", tbl.Size())
	}
	if _, err := tbl.Resolve(old); !errors.Is(err, ErrStale) {
		t.Errorf("Resolve(stale) error = %v, want ErrStale", err)
	}

	// Re-interning reuses index 0 but the old identity must still fail.
	fresh := tbl.Intern("line")
	if fresh.Index() != old.Index() {
		t.Fatalf("expected index reuse after Clear, got %d vs %d", fresh.Index(), old.Index())
	}
	if fresh == old {
		t.Fatal("identity reused across Clear")
	}
	if _, err := tbl.Resolve(old); err == nil {
		t.Error("stale identity resolved after re-intern")
	}
	if got := tbl.MustResolve(fresh); got != "line" {
		t.Errorf("Resolve(fresh) = %q, want line", got)
	}
}

func TestMustResolvePanics(t *testing.T) {
	tbl := New()
	defer func() {
		if recover() == nil {
			t.Error("MustResolve did not panic on unknown identity")
		}
	}()
	tbl.MustResolve(42)
}

func TestConcurrentIntern(t *testing.T) {
	tbl := New()

	const goroutines = 16
	const names = 64

	results := make([][]Identity, goroutines)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			ids := make([]Identity, names)
			for i := 0; i < names; i++ {
				ids[i] = tbl.Intern(fmt.Sprintf("name_%d", i))
			}
			results[g] = ids
		}(g)
	}
	wg.Wait()

	if tbl.Size() != names {
		t.Fatalf("Size() = %d, want %d", tbl.Size(), names)
	}
	for g := 1; g < goroutines; g++ {
		for i := range results[g] {
			if results[g][i] != results[0][i] {
				t.Fatalf("goroutine %d got identity %d for name_%d, goroutine 0 got %d",
					g, results[g][i], i, results[0][i])
			}
		}
	}
	for i, id := range results[0] {
		if got := tbl.MustResolve(id); got != fmt.Sprintf("name_%d", i) {
			t.Errorf("Resolve(%d) = %q", id, got)
		}
	}
}

func BenchmarkInternHit(b *testing.B) {
	tbl := New()
	tbl.Intern("a_pos")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tbl.Intern("a_pos")
	}
}

func BenchmarkInternBytesHit(b *testing.B) {
	tbl := New()
	key := []byte("a_pos")
	tbl.InternBytes(key)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tbl.InternBytes(key)
	}
}
