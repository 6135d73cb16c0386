// Package vm is the VM's slice of the system: the process-wide runtime
// state the compiler depends on (the heap object list and the intern
// table), plus a dispatch loop that executes whatever the compiler
// emits. Per the CORE's scope (spec §1), this package is an external
// collaborator — it declares the interfaces the compiler needs and
// supplies a plain switch-dispatch loop, not an optimised VM.
package vm

import "clox/value"

// State is the single process-wide runtime the compiler and the VM share
// during one program's lifetime: the intern table (bridging compiler and
// runtime string identity) and the linked list of all heap objects
// (§3 Heap object, §9 intrusive-list design note). Bundling it into an
// explicit struct rather than package-level globals is the §9/§5 design
// note's recommended lift of the single-compile-at-a-time restriction.
type State struct {
	Objects value.Obj
	Strings *value.Table
	Globals *value.Table
}

// NewState returns a freshly initialized runtime state. This is the
// initVM() lifecycle operation from §6.3; Free has no work to do in a
// garbage-collected host, but is kept as the paired lifecycle call the
// CORE's interface promises external collaborators.
func NewState() *State {
	return &State{
		Strings: value.NewTable(),
		Globals: value.NewTable(),
	}
}

// Free drops this state's references, allowing anything reachable only
// through them to be collected. Present for symmetry with §6.3's
// initVM/freeVM pairing; a garbage-collected host doesn't need it to
// reclaim memory, but tearing it down explicitly matches the VM lifecycle
// boundary the CORE is specified against.
func (s *State) Free() {
	s.Objects = nil
	s.Strings = value.NewTable()
	s.Globals = value.NewTable()
}

// InternString returns the canonical *ObjString for chars, allocating and
// threading a new one onto the object list only on a miss. This is the
// single path by which the compiler and the runtime ever construct a
// string Value, which is what makes Value equality's "objects compare by
// reference identity" rule (§3) hold for interned strings.
func (s *State) InternString(chars []byte) *value.ObjString {
	hash := value.HashBytes(chars)
	if existing := s.Strings.FindString(chars, hash); existing != nil {
		return existing
	}

	owned := make([]byte, len(chars))
	copy(owned, chars)

	str := &value.ObjString{Chars: owned, Hash: hash, Next: s.Objects}
	s.Objects = str
	s.Strings.Set(str, value.NilValue())
	return str
}
