package art

// nodeClass identifies the on-stream layout of a node record (spec §3).
type nodeClass uint8

const (
	classN4 nodeClass = iota
	classN8
	classN16
	classN32
	classN64
	classN128
	classN256
	classLeaf
)

func (c nodeClass) String() string {
	switch c {
	case classN4:
		return "N4"
	case classN8:
		return "N8"
	case classN16:
		return "N16"
	case classN32:
		return "N32"
	case classN64:
		return "N64"
	case classN128:
		return "N128"
	case classN256:
		return "N256"
	case classLeaf:
		return "Leaf"
	default:
		return "unknown"
	}
}

// maxChildren returns the capacity of an inner-node class (§3).
func (c nodeClass) maxChildren() int {
	switch c {
	case classN4:
		return 4
	case classN8:
		return 8
	case classN16:
		return 16
	case classN32:
		return 32
	case classN64:
		return 64
	case classN128:
		return 128
	case classN256:
		return 256
	default:
		return 0
	}
}

// downgradeThreshold is the child count strictly below which a node of
// this class must downgrade (§3). N4 never downgrades via this path;
// it is collapsed entirely or lone-child-merged by the delete engine.
func (c nodeClass) downgradeThreshold() int {
	switch c {
	case classN4:
		return 0
	case classN8:
		return 3
	case classN16:
		return 7
	case classN32:
		return 13
	case classN64:
		return 25
	case classN128:
		return 49
	case classN256:
		return 97
	default:
		return 0
	}
}

// hasSortedKeys reports whether this class stores key bytes in ascending
// order (N16/N32, binary search) vs. insertion order (N4/N8, linear scan).
func (c nodeClass) hasSortedKeys() bool {
	return c == classN16 || c == classN32
}

// hasKeyArray reports whether the class stores an explicit key-byte
// array (N4/N8/N16/N32) as opposed to a 256-slot index (N64/N128) or a
// direct 256-way pointer array (N256).
func (c nodeClass) hasKeyArray() bool {
	return c == classN4 || c == classN8 || c == classN16 || c == classN32
}

// hasSlotIndex reports whether the class uses the 256 one-byte
// slot -> compact-index scheme (N64/N128).
func (c nodeClass) hasSlotIndex() bool {
	return c == classN64 || c == classN128
}

// nextClassUp returns the class to upgrade to when at capacity.
func (c nodeClass) nextClassUp() nodeClass {
	switch c {
	case classN4:
		return classN8
	case classN8:
		return classN16
	case classN16:
		return classN32
	case classN32:
		return classN64
	case classN64:
		return classN128
	case classN128:
		return classN256
	default:
		return classN256
	}
}

// nextClassDown returns the class to downgrade to.
func (c nodeClass) nextClassDown() nodeClass {
	switch c {
	case classN256:
		return classN128
	case classN128:
		return classN64
	case classN64:
		return classN32
	case classN32:
		return classN16
	case classN16:
		return classN8
	case classN8:
		return classN4
	default:
		return classN4
	}
}

// allInnerClasses enumerates the seven fixed-size inner-node pools in
// capacity order, used to initialise the per-class pool array (§4.C).
var allInnerClasses = [7]nodeClass{classN4, classN8, classN16, classN32, classN64, classN128, classN256}

// Default format constants (spec §6): two images are only compatible if
// these match, so they are fixed at tree-creation time and persisted
// implicitly by convention of the caller supplying the same Options on
// every Open/Load of a given stream.
const (
	DefaultPointerWidth = 5 // P: bytes per address, 1.1TB capacity
	DefaultMaxPrefix    = 8 // L: max inline prefix length
	DefaultTerminator   = byte(0)
	DefaultEscape1      = byte(255)
	DefaultEscape2      = byte(1)
)

// rootCellOffset is the fixed stream offset of the root pointer cell.
const rootCellOffset = 0

// MatchMode selects whether a pattern-based query (PartialMatch,
// RegExpMatch) requires the pattern to consume the entire stored key
// (ModeExact) or only a leading portion of it (ModeStartsWith), per
// spec §4.K's `mode∈{exact, starts_with}`.
type MatchMode int

const (
	ModeExact MatchMode = iota
	ModeStartsWith
)

// RangeOption selects how Range prunes the beam-search walk against
// its bounds, per spec §4.K's `option∈{alphabetical, tree}`.
// RangeAlphabetical compares a branch's full accumulated key against
// the bounds on every step; RangeTree orders only the bytes added
// since the branch's last accepted length, and only against a bound
// whose leading bytes up to that length the branch repeats exactly
// (a branch that has diverged from a bound is already inside the
// interval on that side).
type RangeOption int

const (
	RangeAlphabetical RangeOption = iota
	RangeTree
)

// Options configures a Tree. Mirrors the teacher's MariOpts
// struct-of-options constructor idiom (see Mari.go/MariOpts), widened
// with the format constants the spec requires (§6).
type Options struct {
	// Stream is the backing random-access byte medium (required).
	Stream Stream

	// PointerWidth is P, the byte width of stream addresses (1-8).
	// Zero selects DefaultPointerWidth.
	PointerWidth uint8
	// MaxPrefix is L, the max inline prefix length on inner nodes (2-255).
	// Zero selects DefaultMaxPrefix.
	MaxPrefix uint8
	// Terminator is T, the reserved leaf-key terminator byte.
	Terminator byte
	// Escape1/Escape2 are E1/E2, the two escape bytes. Leaving both
	// zero selects the package defaults (255, 1); if either is set
	// explicitly both must be supplied, and distinct from Terminator
	// and from each other.
	Escape1, Escape2 byte
}

func (o Options) normalized() Options {
	if o.PointerWidth == 0 {
		o.PointerWidth = DefaultPointerWidth
	}
	if o.MaxPrefix == 0 {
		o.MaxPrefix = DefaultMaxPrefix
	}
	if o.Escape1 == 0 && o.Escape2 == 0 {
		o.Escape1, o.Escape2 = DefaultEscape1, DefaultEscape2
	}
	return o
}
