// Package keyboard provides keyboard geometry for the Glidetype decode engine:
// key positions, sweet-spot calibration data and per-key proximity lists.
// The decode engine consumes this package through the read-only Geometry
// interface and never mutates it.
package keyboard

// Sentinel values shared by all geometry accessors.
const (
	// NotAnIndex marks a missing key index.
	NotAnIndex = -1
	// NotACoordinate marks a missing coordinate.
	NotACoordinate = -1
	// NotADistance marks a distance for which geometry is unavailable.
	NotADistance = -1.0
)

// ProximityList holds the ordered proximity characters for one typed point.
// The first entry of Near is the primary character (the key the touch landed
// on); the remaining Near entries are keys close enough to be plausible
// alternatives, nearest first. Additional holds the weaker second tier:
// accent variants and layout-declared extras that should match with lower
// confidence than a physically adjacent key.
type ProximityList struct {
	Near       []rune
	Additional []rune
}

// Geometry is the capability set the decode engine consumes. Implementations
// must be safe for concurrent reads and must outlive any session holding them.
type Geometry interface {
	KeyCount() int

	// KeyCenter returns the visual center of the key, or
	// (NotACoordinate, NotACoordinate) for an invalid key id.
	KeyCenter(keyID int) (x, y int)

	// KeyIndexOf returns the key id for a code point, folding case and
	// accents, or NotAnIndex when the layout has no such key.
	KeyIndexOf(codePoint rune) int

	// CodePointOf returns the code point a key produces, or 0 for an
	// invalid key id.
	CodePointOf(keyID int) rune

	// NormalizedSquaredDistance returns the squared distance from (x, y) to
	// the center of keyID, normalized by the squared most common key width.
	// Returns NotADistance when geometry is unavailable for the key.
	NormalizedSquaredDistance(keyID, x, y int) float64

	MostCommonKeyWidth() int
	KeyboardWidth() int
	KeyboardHeight() int
	GridWidth() int
	GridHeight() int
	CellWidth() int
	CellHeight() int

	// HasTouchPositionCorrectionData reports whether any key carries
	// sweet-spot calibration.
	HasTouchPositionCorrectionData() bool
	HasSweetSpotData(keyID int) bool
	SweetSpotCenter(keyID int) (x, y float64)
	SweetSpotRadius(keyID int) float64

	// ProximityAt returns the proximity list for a touch at (x, y) that
	// produced codePoint. Pass (NotACoordinate, NotACoordinate) when no
	// coordinates are available; the list is then anchored at the key center.
	ProximityAt(codePoint rune, x, y int) ProximityList

	// HasSpaceProximity reports whether (x, y) lies within the proximity
	// threshold of the space key.
	HasSpaceProximity(x, y int) bool
}
