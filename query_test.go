package art

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func seedFruitTree(t *testing.T) *Tree {
	tr := testTree(t)
	words := []string{"banana", "bandana", "bank", "beer", "brooklyn", "band"}
	for _, w := range words {
		require.NoError(t, tr.Add([]byte(w), []byte(w)))
	}
	return tr
}

func keysOfItems(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = string(it.Key)
	}
	sort.Strings(out)
	return out
}

func TestStartsWith(t *testing.T) {
	tr := seedFruitTree(t)

	items, err := tr.StartsWith([]byte("ban"))
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"banana", "bandana", "bank", "band"}, keysOfItems(items))

	items, err = tr.StartsWith([]byte("be"))
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"beer"}, keysOfItems(items))

	items, err = tr.StartsWith([]byte("zzz"))
	require.NoError(t, err)
	require.Empty(t, items)

	items, err = tr.StartsWith([]byte(""))
	require.NoError(t, err)
	require.Len(t, items, 6)
}

func TestPartialMatch(t *testing.T) {
	tr := seedFruitTree(t)

	items, err := tr.PartialMatch([]byte("ban?"), '?', ModeExact)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"bank", "band"}, keysOfItems(items))

	items, err = tr.PartialMatch([]byte("???????"), '?', ModeExact)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"bandana"}, keysOfItems(items))

	items, err = tr.PartialMatch([]byte("ba"), '?', ModeStartsWith)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"banana", "bandana", "bank", "band"}, keysOfItems(items))

	items, err = tr.PartialMatch([]byte("ba?"), '?', ModeStartsWith)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"banana", "bandana", "bank", "band"}, keysOfItems(items))
}

func TestRegExpMatch(t *testing.T) {
	tr := seedFruitTree(t)

	items, err := tr.RegExpMatch("ban.", ModeExact)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"bank", "band"}, keysOfItems(items))

	items, err = tr.RegExpMatch("ban[dk]", ModeExact)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"bank", "band"}, keysOfItems(items))

	items, err = tr.RegExpMatch("be.*", ModeExact)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"beer"}, keysOfItems(items))

	items, err = tr.RegExpMatch("ban", ModeStartsWith)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"banana", "bandana", "bank", "band"}, keysOfItems(items))
}

func TestRegExpNearNeighbors(t *testing.T) {
	tr := testTree(t)
	words := []string{"night", "light", "might", "sight", "fight"}
	for _, w := range words {
		require.NoError(t, tr.Add([]byte(w), []byte(w)))
	}

	items, err := tr.RegExpNearNeighbors([]byte("night"), 1, 1, 1)
	require.NoError(t, err)
	require.ElementsMatch(t, words, keysOfItems(items))

	items, err = tr.RegExpNearNeighbors([]byte("night"), 0, 1, 1)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"night"}, keysOfItems(items))
}

func TestRegExpNearNeighborsVariableLength(t *testing.T) {
	tr := testTree(t)
	for _, w := range []string{"cat", "cats", "cot", "dog"} {
		require.NoError(t, tr.Add([]byte(w), []byte(w)))
	}

	// "cat": exact (cost 0). "cats" costs 1 (one extra trailing byte,
	// costExtra=1). "cot" costs 1 (one mismatched byte at the same
	// length). "dog" costs 3 (three mismatched bytes), excluded.
	items, err := tr.RegExpNearNeighbors([]byte("cat"), 1, 1, 1)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"cat", "cats", "cot"}, keysOfItems(items))
}

func TestRange(t *testing.T) {
	tr := testTree(t)
	for _, w := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, tr.Add([]byte(w), []byte(w)))
	}

	for _, option := range []RangeOption{RangeAlphabetical, RangeTree} {
		items, err := tr.Range([]byte("b"), []byte("d"), option)
		require.NoError(t, err)
		require.Equal(t, []string{"b", "c", "d"}, keysOfItems(items))

		items, err = tr.Range(nil, []byte("c"), option)
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b", "c"}, keysOfItems(items))

		items, err = tr.Range([]byte("c"), nil, option)
		require.NoError(t, err)
		require.Equal(t, []string{"c", "d", "e"}, keysOfItems(items))

		items, err = tr.Range(nil, nil, option)
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b", "c", "d", "e"}, keysOfItems(items))
	}
}

func TestRangeOnCompressedPrefixes(t *testing.T) {
	tr := testTree(t)
	for _, w := range []string{"apple", "application", "applied", "apply", "banana"} {
		require.NoError(t, tr.Add([]byte(w), []byte(w)))
	}

	for _, option := range []RangeOption{RangeAlphabetical, RangeTree} {
		items, err := tr.Range([]byte("appli"), []byte("applk"), option)
		require.NoError(t, err)
		require.Equal(t, []string{"application", "applied", "apply"}, keysOfItems(items))
	}
}

func TestPathEnumeratorVisitsEveryLeaf(t *testing.T) {
	tr := seedFruitTree(t)

	var dfsKeys, bfsKeys []string
	require.NoError(t, tr.PathEnumerator(false, func(trail []TrailStep) bool {
		step := trail[len(trail)-1]
		if step.Leaf == nil {
			return true
		}
		raw, err := tr.unescape(step.Key[:len(step.Key)-1])
		require.NoError(t, err)
		dfsKeys = append(dfsKeys, string(raw))
		return true
	}))
	require.NoError(t, tr.PathEnumerator(true, func(trail []TrailStep) bool {
		step := trail[len(trail)-1]
		if step.Leaf == nil {
			return true
		}
		raw, err := tr.unescape(step.Key[:len(step.Key)-1])
		require.NoError(t, err)
		bfsKeys = append(bfsKeys, string(raw))
		return true
	}))

	words := []string{"banana", "bandana", "bank", "beer", "brooklyn", "band"}
	require.ElementsMatch(t, words, dfsKeys)
	require.ElementsMatch(t, words, bfsKeys)

	for _, trail := range [][]string{dfsKeys, bfsKeys} {
		require.Len(t, trail, len(words))
	}
}

func TestFilterablePathEnumeratorPrunesOnBudget(t *testing.T) {
	tr := seedFruitTree(t)

	var seen []string
	want := []byte("ban")
	penalty := func(item FilterItem) int {
		if item.Context == ContextLeaf {
			return 0
		}
		pos := item.Length - 1
		if pos >= len(want) {
			return 0
		}
		if item.Accumulated[pos] != want[pos] {
			return 1
		}
		return 0
	}

	err := tr.FilterablePathEnumerator(0, penalty, func(keyPrefix []byte, leaf *leafNode) bool {
		raw, uerr := tr.unescape(keyPrefix)
		require.NoError(t, uerr)
		seen = append(seen, string(raw))
		return true
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"banana", "bandana", "bank", "band"}, seen)
}
