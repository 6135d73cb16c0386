package value

// Obj is the polymorphic heap-object type. The CORE only ever constructs
// the ObjString variant; the interface exists so future object kinds can
// be threaded onto the same heap list without changing Value's shape.
type Obj interface {
	objType() string
}

// ObjString is an immutable, hash-cached byte string living on the heap.
// Next links it into the single process-wide object list rooted in the
// runtime state (§3 Heap object, §9 intrusive-list design note).
type ObjString struct {
	Next  Obj
	Hash  uint32
	Chars []byte
}

func (*ObjString) objType() string { return "string" }

func (s *ObjString) String() string { return string(s.Chars) }

// FNVOffsetBasis and FNVPrime are the 32-bit FNV-1a constants §4.2
// mandates.
const (
	FNVOffsetBasis uint32 = 0x811c9dc5
	FNVPrime       uint32 = 0x01000193
)

// HashBytes computes the FNV-1a hash of b. The result is meant to be
// computed exactly once, at string construction/interning time, and
// cached on the ObjString rather than recomputed on each comparison.
func HashBytes(b []byte) uint32 {
	hash := FNVOffsetBasis
	for _, c := range b {
		hash ^= uint32(c)
		hash *= FNVPrime
	}
	return hash
}
