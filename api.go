package art

import "bytes"

// Add inserts key/value, failing with ErrKeyExists if key is already present.
func (t *Tree) Add(key, value []byte) error {
	_, err := t.insert(key, value, failOnExists)
	return err
}

// Set inserts key/value, overwriting any existing value for key.
func (t *Tree) Set(key, value []byte) error {
	_, err := t.insert(key, value, overwriteOnExists)
	return err
}

// TryAdd inserts key/value only if key is absent, reporting whether it added it.
func (t *Tree) TryAdd(key, value []byte) (bool, error) {
	changed, err := t.insert(key, value, failOnExists)
	if err == ErrKeyExists {
		return false, nil
	}
	return changed, err
}

// AddRange inserts every item in items, stopping at the first error
// (e.g. a duplicate key already present).
func (t *Tree) AddRange(items []Item) error {
	for _, it := range items {
		if err := t.Add(it.Key, it.Value); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes key, reporting whether it was present.
func (t *Tree) Remove(key []byte) (bool, error) {
	return t.remove(key)
}

// RemoveRange deletes every key in keys, reporting how many were present.
func (t *Tree) RemoveRange(keys [][]byte) (int, error) {
	removed := 0
	for _, k := range keys {
		ok, err := t.remove(k)
		if err != nil {
			return removed, err
		}
		if ok {
			removed++
		}
	}
	return removed, nil
}

// Clear empties the tree, freeing the root leaf/subtree and resetting
// the item count; the allocator and pools keep whatever free space
// they already tracked.
func (t *Tree) Clear() error {
	// Every record has already been read by the time visit sees it, so
	// it can be released straight away.
	if err := t.PathEnumerator(false, func(trail []TrailStep) bool {
		s := trail[len(trail)-1]
		if s.Leaf != nil {
			t.freeLeaf(s.Offset, s.LeafSize)
		} else {
			t.freeInner(s.Offset, s.Class)
		}
		return true
	}); err != nil {
		return err
	}
	t.count = 0
	return t.writeRoot(0)
}

// TryGetValue looks up key, reporting whether it was found.
func (t *Tree) TryGetValue(key []byte) ([]byte, bool, error) {
	if len(key) == 0 {
		return nil, false, ErrEmptyKey
	}

	full := t.escape(make([]byte, 0, len(key)+1), key)
	full = append(full, t.terminator)

	path, err := t.findPath(full)
	if err != nil {
		return nil, false, err
	}

	last, ok := path.last()
	if !ok || last.leaf == nil || !bytesEqual(last.leaf.partial, full[last.consumed:]) {
		return nil, false, nil
	}

	return last.leaf.value, true, nil
}

// ContainsKey reports whether key is present.
func (t *Tree) ContainsKey(key []byte) (bool, error) {
	_, ok, err := t.TryGetValue(key)
	return ok, err
}

// Contains reports whether key is present with exactly value.
func (t *Tree) Contains(key, value []byte) (bool, error) {
	v, ok, err := t.TryGetValue(key)
	if err != nil || !ok {
		return false, err
	}
	return bytes.Equal(v, value), nil
}

// StartsWithValues is StartsWith, returning only values.
func (t *Tree) StartsWithValues(prefix []byte) ([][]byte, error) {
	items, err := t.StartsWith(prefix)
	if err != nil {
		return nil, err
	}
	return valuesOf(items), nil
}

// StartsWithKeys is StartsWith, returning only keys.
func (t *Tree) StartsWithKeys(prefix []byte) ([][]byte, error) {
	items, err := t.StartsWith(prefix)
	if err != nil {
		return nil, err
	}
	return keysOf(items), nil
}

// RangeValues is Range, returning only values.
func (t *Tree) RangeValues(start, end []byte, option RangeOption) ([][]byte, error) {
	items, err := t.Range(start, end, option)
	if err != nil {
		return nil, err
	}
	return valuesOf(items), nil
}

// RangeKeys is Range, returning only keys.
func (t *Tree) RangeKeys(start, end []byte, option RangeOption) ([][]byte, error) {
	items, err := t.Range(start, end, option)
	if err != nil {
		return nil, err
	}
	return keysOf(items), nil
}

func keysOf(items []Item) [][]byte {
	out := make([][]byte, len(items))
	for i, it := range items {
		out[i] = it.Key
	}
	return out
}

func valuesOf(items []Item) [][]byte {
	out := make([][]byte, len(items))
	for i, it := range items {
		out[i] = it.Value
	}
	return out
}

// CalculateShortestUniqueKey returns the shortest byte prefix of key
// that, at the key's current position in the tree, no other stored
// key shares — i.e. the prefix ending at the deepest branch point with
// more than one child on the path to key, or the whole key if the
// path never branches before reaching its leaf. key must already be
// present. Derived from the path-finder's trail (§4.G): a branch point
// is any inner node on the path whose child count is greater than one.
func (t *Tree) CalculateShortestUniqueKey(key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}

	full := t.escape(make([]byte, 0, len(key)+1), key)
	full = append(full, t.terminator)

	path, err := t.findPath(full)
	if err != nil {
		return nil, err
	}

	last, ok := path.last()
	if !ok || last.leaf == nil || !bytesEqual(last.leaf.partial, full[last.consumed:]) {
		return nil, ErrKeyNotFound
	}

	consumed := len(full)
	for i := len(path.steps) - 1; i >= 0; i-- {
		s := path.steps[i]
		if s.inner != nil && s.inner.childCount() > 1 {
			consumed = s.consumed + s.inner.prefixLen + 1
			break
		}
		if i == 0 {
			// No branch point found on the path: the full key (minus
			// its terminator) is required.
			consumed = len(full) - 1
		}
	}

	if consumed > len(full)-1 {
		consumed = len(full) - 1
	}

	return t.unescape(full[:consumed])
}
