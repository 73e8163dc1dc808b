package touch

// keySet is a fixed-capacity bit set over key ids, sized from the geometry
// provider's key count at session init.
type keySet []uint64

// newKeySet creates a key set able to hold keyCount keys.
func newKeySet(keyCount int) keySet {
	return make(keySet, (keyCount+63)/64)
}

// set marks a key as a member.
func (s keySet) set(keyID int) {
	s[keyID>>6] |= 1 << uint(keyID&63)
}

// test reports membership. Out-of-range ids are never members.
func (s keySet) test(keyID int) bool {
	if keyID < 0 || keyID>>6 >= len(s) {
		return false
	}
	return s[keyID>>6]&(1<<uint(keyID&63)) != 0
}

// reset clears all members.
func (s keySet) reset() {
	for i := range s {
		s[i] = 0
	}
}

// union adds every member of other to s. Both sets must have been created
// with the same key count.
func (s keySet) union(other keySet) {
	for i := range s {
		s[i] |= other[i]
	}
}
