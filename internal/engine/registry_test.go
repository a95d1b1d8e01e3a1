package engine

import "testing"

func TestRegistryCancelSignalsHandle(t *testing.T) {
	r := NewRegistry()
	fired := false
	r.Register("dl-1", func() { fired = true })
	r.Cancel("dl-1")
	if !fired {
		t.Fatal("cancel did not signal the handle")
	}
}

func TestRegistryCancelUnknownIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Cancel("never-registered") // must not panic or block
}

func TestRegistryCancelIdempotent(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register("dl-1", func() { calls++ })
	r.Cancel("dl-1")
	r.Cancel("dl-1")
	if calls != 1 {
		t.Fatalf("handle signalled %d times, want 1", calls)
	}
}

func TestRegistryRegisterReplacesSilently(t *testing.T) {
	r := NewRegistry()
	var first, second bool
	r.Register("dl-1", func() { first = true })
	r.Register("dl-1", func() { second = true })
	r.Cancel("dl-1")
	if first {
		t.Error("replaced handle was signalled")
	}
	if !second {
		t.Error("current handle was not signalled")
	}
}

func TestRegistryRemoveDoesNotSignal(t *testing.T) {
	r := NewRegistry()
	fired := false
	r.Register("dl-1", func() { fired = true })
	r.Remove("dl-1")
	r.Cancel("dl-1")
	if fired {
		t.Fatal("removed handle was signalled")
	}
}
