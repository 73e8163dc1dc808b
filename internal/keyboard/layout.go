package keyboard

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

// Proximity derivation constants.
const (
	// nearProximityThreshold is the normalized squared center distance below
	// which a key joins another key's near proximity tier.
	nearProximityThreshold = 2.5
	// spaceProximityThreshold is the normalized squared distance below which
	// a touch counts as near the space key.
	spaceProximityThreshold = 4.0
	// maxProximityChars caps the combined length of a proximity list.
	maxProximityChars = 16
	// defaultGridCell is the fallback cell edge when a layout declares no
	// grid dimensions, expressed as a fraction of the keyboard edge.
	defaultGridDimension = 32
)

// SweetSpot is a key's calibrated intended center, possibly offset from its
// visual center, with the touch radius the calibration was collected at.
type SweetSpot struct {
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Radius float64 `toml:"radius"`
}

// Key is one key of a layout.
type Key struct {
	CodePoint  rune
	X          int
	Y          int
	Width      int
	Height     int
	SweetSpot  *SweetSpot
	Additional []rune
}

// CenterX returns the x coordinate of the key's visual center.
func (k *Key) CenterX() int { return k.X + k.Width/2 }

// CenterY returns the y coordinate of the key's visual center.
func (k *Key) CenterY() int { return k.Y + k.Height/2 }

// Layout is a concrete Geometry backed by a TOML layout definition.
type Layout struct {
	name               string
	width              int
	height             int
	gridWidth          int
	gridHeight         int
	keys               []Key
	keyIndex           map[rune]int
	nearLists          [][]rune
	mostCommonKeyWidth int
	hasCorrectionData  bool
	spaceIndex         int
}

// layoutFile is the on-disk TOML schema.
type layoutFile struct {
	Name       string    `toml:"name"`
	Width      int       `toml:"width"`
	Height     int       `toml:"height"`
	GridWidth  int       `toml:"grid_width"`
	GridHeight int       `toml:"grid_height"`
	Keys       []keyFile `toml:"keys"`
}

type keyFile struct {
	Char       string     `toml:"char"`
	X          int        `toml:"x"`
	Y          int        `toml:"y"`
	Width      int        `toml:"width"`
	Height     int        `toml:"height"`
	Additional string     `toml:"additional"`
	SweetSpot  *SweetSpot `toml:"sweet_spot"`
}

// Load reads and parses a TOML layout file.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	return Parse(data)
}

// Parse builds a Layout from TOML layout data. It validates the key table,
// derives the near proximity tier of every key from center distances, and
// precomputes the code point index.
func Parse(data []byte) (*Layout, error) {
	var file layoutFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	if file.Name == "" {
		return nil, fmt.Errorf("layout has no name")
	}
	if file.Width <= 0 || file.Height <= 0 {
		return nil, fmt.Errorf("layout %q has invalid dimensions %dx%d",
			file.Name, file.Width, file.Height)
	}
	if len(file.Keys) == 0 {
		return nil, fmt.Errorf("layout %q has no keys", file.Name)
	}

	l := &Layout{
		name:       file.Name,
		width:      file.Width,
		height:     file.Height,
		gridWidth:  file.GridWidth,
		gridHeight: file.GridHeight,
		keys:       make([]Key, 0, len(file.Keys)),
		keyIndex:   make(map[rune]int, len(file.Keys)),
		spaceIndex: NotAnIndex,
	}
	if l.gridWidth <= 0 {
		l.gridWidth = defaultGridDimension
	}
	if l.gridHeight <= 0 {
		l.gridHeight = defaultGridDimension
	}

	for i, kf := range file.Keys {
		runes := []rune(kf.Char)
		if len(runes) != 1 {
			return nil, fmt.Errorf("layout %q key %d: char must be a single code point, got %q",
				file.Name, i, kf.Char)
		}
		code := runes[0]
		if kf.Width <= 0 || kf.Height <= 0 {
			return nil, fmt.Errorf("layout %q key %q: invalid size %dx%d",
				file.Name, kf.Char, kf.Width, kf.Height)
		}
		if _, exists := l.keyIndex[BaseLower(code)]; exists {
			return nil, fmt.Errorf("layout %q: duplicate key %q", file.Name, kf.Char)
		}

		key := Key{
			CodePoint:  code,
			X:          kf.X,
			Y:          kf.Y,
			Width:      kf.Width,
			Height:     kf.Height,
			SweetSpot:  kf.SweetSpot,
			Additional: []rune(kf.Additional),
		}
		if key.SweetSpot != nil {
			l.hasCorrectionData = true
		}
		if code == ' ' {
			l.spaceIndex = len(l.keys)
		}
		l.keyIndex[BaseLower(code)] = len(l.keys)
		l.keys = append(l.keys, key)
	}

	l.mostCommonKeyWidth = mostCommonWidth(l.keys)
	l.buildNearLists()

	return l, nil
}

// mostCommonWidth returns the modal key width of the layout.
func mostCommonWidth(keys []Key) int {
	counts := make(map[int]int)
	for i := range keys {
		counts[keys[i].Width]++
	}
	best, bestCount := 0, 0
	for w, c := range counts {
		if c > bestCount || (c == bestCount && w < best) {
			best, bestCount = w, c
		}
	}
	return best
}

// buildNearLists derives the near proximity tier for every key: the other
// keys whose centers fall within nearProximityThreshold, nearest first.
func (l *Layout) buildNearLists() {
	l.nearLists = make([][]rune, len(l.keys))
	for i := range l.keys {
		cx, cy := l.keys[i].CenterX(), l.keys[i].CenterY()

		type neighbor struct {
			code rune
			dist float64
		}
		var neighbors []neighbor
		for j := range l.keys {
			if j == i {
				continue
			}
			d := l.NormalizedSquaredDistance(j, cx, cy)
			if d >= 0 && d < nearProximityThreshold {
				neighbors = append(neighbors, neighbor{l.keys[j].CodePoint, d})
			}
		}
		sort.Slice(neighbors, func(a, b int) bool {
			if neighbors[a].dist != neighbors[b].dist {
				return neighbors[a].dist < neighbors[b].dist
			}
			return neighbors[a].code < neighbors[b].code
		})

		list := make([]rune, 0, len(neighbors))
		for _, n := range neighbors {
			if len(list) >= maxProximityChars-1 {
				break
			}
			list = append(list, n.code)
		}
		l.nearLists[i] = list
	}
}

// Name returns the layout's declared name.
func (l *Layout) Name() string { return l.name }

// KeyCount returns the number of keys in the layout.
func (l *Layout) KeyCount() int { return len(l.keys) }

// KeyCenter returns the visual center of a key.
func (l *Layout) KeyCenter(keyID int) (int, int) {
	if keyID < 0 || keyID >= len(l.keys) {
		return NotACoordinate, NotACoordinate
	}
	return l.keys[keyID].CenterX(), l.keys[keyID].CenterY()
}

// KeyIndexOf returns the key id producing the given code point, folding case
// and accents, or NotAnIndex when no key matches.
func (l *Layout) KeyIndexOf(codePoint rune) int {
	if id, ok := l.keyIndex[BaseLower(codePoint)]; ok {
		return id
	}
	return NotAnIndex
}

// CodePointOf returns the code point produced by a key.
func (l *Layout) CodePointOf(keyID int) rune {
	if keyID < 0 || keyID >= len(l.keys) {
		return 0
	}
	return l.keys[keyID].CodePoint
}

// NormalizedSquaredDistance returns the squared distance from (x, y) to the
// key's center, normalized by the squared most common key width.
func (l *Layout) NormalizedSquaredDistance(keyID, x, y int) float64 {
	if keyID < 0 || keyID >= len(l.keys) || l.mostCommonKeyWidth <= 0 {
		return NotADistance
	}
	dx := float64(x - l.keys[keyID].CenterX())
	dy := float64(y - l.keys[keyID].CenterY())
	w := float64(l.mostCommonKeyWidth)
	return (dx*dx + dy*dy) / (w * w)
}

// MostCommonKeyWidth returns the modal key width.
func (l *Layout) MostCommonKeyWidth() int { return l.mostCommonKeyWidth }

// KeyboardWidth returns the layout width in layout units.
func (l *Layout) KeyboardWidth() int { return l.width }

// KeyboardHeight returns the layout height in layout units.
func (l *Layout) KeyboardHeight() int { return l.height }

// GridWidth returns the number of proximity grid columns.
func (l *Layout) GridWidth() int { return l.gridWidth }

// GridHeight returns the number of proximity grid rows.
func (l *Layout) GridHeight() int { return l.gridHeight }

// CellWidth returns the width of one proximity grid cell.
func (l *Layout) CellWidth() int { return l.width / l.gridWidth }

// CellHeight returns the height of one proximity grid cell.
func (l *Layout) CellHeight() int { return l.height / l.gridHeight }

// HasTouchPositionCorrectionData reports whether any key declares a sweet spot.
func (l *Layout) HasTouchPositionCorrectionData() bool { return l.hasCorrectionData }

// HasSweetSpotData reports whether the key declares a sweet spot.
func (l *Layout) HasSweetSpotData(keyID int) bool {
	return keyID >= 0 && keyID < len(l.keys) && l.keys[keyID].SweetSpot != nil
}

// SweetSpotCenter returns the key's calibrated center, falling back to the
// visual center when no sweet spot is declared.
func (l *Layout) SweetSpotCenter(keyID int) (float64, float64) {
	if keyID < 0 || keyID >= len(l.keys) {
		return NotACoordinate, NotACoordinate
	}
	if ss := l.keys[keyID].SweetSpot; ss != nil {
		return ss.X, ss.Y
	}
	return float64(l.keys[keyID].CenterX()), float64(l.keys[keyID].CenterY())
}

// SweetSpotRadius returns the key's calibrated radius, falling back to half
// the most common key width.
func (l *Layout) SweetSpotRadius(keyID int) float64 {
	if keyID < 0 || keyID >= len(l.keys) {
		return 0
	}
	if ss := l.keys[keyID].SweetSpot; ss != nil {
		return ss.Radius
	}
	return float64(l.mostCommonKeyWidth) / 2
}

// ProximityAt returns the proximity list for a touch at (x, y) that produced
// codePoint. The primary entry is always the typed code point itself.
// Accented characters fold to their base key and receive that key's list; a
// code point with no key at all (a digit or symbol) is alone in its list.
func (l *Layout) ProximityAt(codePoint rune, x, y int) ProximityList {
	keyID := l.KeyIndexOf(codePoint)
	if keyID == NotAnIndex {
		return ProximityList{Near: []rune{codePoint}}
	}

	near := make([]rune, 0, len(l.nearLists[keyID])+1)
	near = append(near, codePoint)
	near = append(near, l.nearLists[keyID]...)

	additional := l.keys[keyID].Additional
	if budget := maxProximityChars - len(near) - 1; len(additional) > budget {
		if budget < 0 {
			budget = 0
		}
		additional = additional[:budget]
	}
	return ProximityList{Near: near, Additional: additional}
}

// HasSpaceProximity reports whether (x, y) is near the space key. Layouts
// without a space key always report false.
func (l *Layout) HasSpaceProximity(x, y int) bool {
	if l.spaceIndex == NotAnIndex {
		return false
	}
	d := l.NormalizedSquaredDistance(l.spaceIndex, x, y)
	return d >= 0 && d < spaceProximityThreshold
}

// SpaceKeyIndex returns the key id of the space key, or NotAnIndex.
func (l *Layout) SpaceKeyIndex() int { return l.spaceIndex }

// Diagonal returns the keyboard diagonal in layout units.
func (l *Layout) Diagonal() float64 {
	return math.Hypot(float64(l.width), float64(l.height))
}
