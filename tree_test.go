package art

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddGetRemove(t *testing.T) {
	tr := testTree(t)

	require.NoError(t, tr.Add([]byte("banana"), []byte("yellow")))
	require.NoError(t, tr.Add([]byte("bandana"), []byte("cloth")))
	require.NoError(t, tr.Add([]byte("bank"), []byte("money")))
	require.NoError(t, tr.Add([]byte("beer"), []byte("hops")))
	require.NoError(t, tr.Add([]byte("brooklyn"), []byte("borough")))

	require.Equal(t, uint64(5), tr.Count())

	v, ok, err := tr.TryGetValue([]byte("banana"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("yellow"), v)

	v, ok, err = tr.TryGetValue([]byte("bank"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("money"), v)

	_, ok, err = tr.TryGetValue([]byte("missing"))
	require.NoError(t, err)
	require.False(t, ok)

	err = tr.Add([]byte("banana"), []byte("other"))
	require.ErrorIs(t, err, ErrKeyExists)

	removed, err := tr.Remove([]byte("bandana"))
	require.NoError(t, err)
	require.True(t, removed)
	require.Equal(t, uint64(4), tr.Count())

	_, ok, err = tr.TryGetValue([]byte("bandana"))
	require.NoError(t, err)
	require.False(t, ok)

	// The sibling under the same branch must survive the removal.
	v, ok, err = tr.TryGetValue([]byte("banana"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("yellow"), v)
}

func TestSetOverwrites(t *testing.T) {
	tr := testTree(t)

	require.NoError(t, tr.Add([]byte("key"), []byte("v1")))
	require.NoError(t, tr.Set([]byte("key"), []byte("v2")))

	v, ok, err := tr.TryGetValue([]byte("key"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v2"), v)
	require.Equal(t, uint64(1), tr.Count())
}

func TestTryAdd(t *testing.T) {
	tr := testTree(t)

	added, err := tr.TryAdd([]byte("k"), []byte("v1"))
	require.NoError(t, err)
	require.True(t, added)

	added, err = tr.TryAdd([]byte("k"), []byte("v2"))
	require.NoError(t, err)
	require.False(t, added)

	v, _, err := tr.TryGetValue([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), v)
}

func TestEmptyKeyRejected(t *testing.T) {
	tr := testTree(t)
	require.ErrorIs(t, tr.Add(nil, []byte("v")), ErrEmptyKey)
	require.ErrorIs(t, tr.Add([]byte{}, []byte("v")), ErrEmptyKey)
}

func TestManyKeysSurviveInsertAndDelete(t *testing.T) {
	tr := testTree(t)

	words := []string{
		"apple", "app", "application", "apply", "banana", "band",
		"bandana", "bank", "bankrupt", "beer", "bee", "been",
		"brooklyn", "broom", "bros",
	}

	for _, w := range words {
		require.NoError(t, tr.Add([]byte(w), []byte(w+"-value")))
	}
	require.Equal(t, uint64(len(words)), tr.Count())

	for _, w := range words {
		v, ok, err := tr.TryGetValue([]byte(w))
		require.NoError(t, err)
		require.True(t, ok, w)
		require.Equal(t, []byte(w+"-value"), v)
	}

	for i, w := range words {
		if i%2 == 0 {
			removed, err := tr.Remove([]byte(w))
			require.NoError(t, err)
			require.True(t, removed)
		}
	}

	for i, w := range words {
		_, ok, err := tr.TryGetValue([]byte(w))
		require.NoError(t, err)
		if i%2 == 0 {
			require.False(t, ok, w)
		} else {
			require.True(t, ok, w)
		}
	}
}

func TestClear(t *testing.T) {
	tr := testTree(t)
	require.NoError(t, tr.Add([]byte("a"), []byte("1")))
	require.NoError(t, tr.Add([]byte("b"), []byte("2")))

	require.NoError(t, tr.Clear())
	require.Equal(t, uint64(0), tr.Count())

	_, ok, err := tr.TryGetValue([]byte("a"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLongSharedPrefixChains(t *testing.T) {
	tr := testTree(t)

	base := "this-is-a-long-shared-prefix-well-past-the-default-max-prefix-length-"
	require.NoError(t, tr.Add([]byte(base+"a"), []byte("1")))
	require.NoError(t, tr.Add([]byte(base+"b"), []byte("2")))

	v, ok, err := tr.TryGetValue([]byte(base + "a"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("1"), v)

	v, ok, err = tr.TryGetValue([]byte(base + "b"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("2"), v)
}

func TestMinMaxKey(t *testing.T) {
	tr := testTree(t)
	for _, w := range []string{"mango", "apple", "zebra", "kiwi"} {
		require.NoError(t, tr.Add([]byte(w), []byte(w)))
	}

	min, ok, err := tr.MinKey()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("apple"), min)

	max, ok, err := tr.MaxKey()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("zebra"), max)
}

func TestItemsAreSorted(t *testing.T) {
	tr := testTree(t)
	words := []string{"delta", "alpha", "charlie", "bravo"}
	for _, w := range words {
		require.NoError(t, tr.Add([]byte(w), []byte(w)))
	}

	items, err := tr.Items()
	require.NoError(t, err)
	require.Len(t, items, 4)

	expected := []string{"alpha", "bravo", "charlie", "delta"}
	for i, it := range items {
		require.Equal(t, expected[i], string(it.Key))
	}
}

func TestCalculateShortestUniqueKey(t *testing.T) {
	tr := testTree(t)
	require.NoError(t, tr.Add([]byte("banana"), []byte("1")))
	require.NoError(t, tr.Add([]byte("bandana"), []byte("2")))
	require.NoError(t, tr.Add([]byte("bank"), []byte("3")))

	short, err := tr.CalculateShortestUniqueKey([]byte("banana"))
	require.NoError(t, err)
	require.True(t, len(short) <= len("banana"))
	require.True(t, len(short) > 0)
}

func TestLoadRebuildsFromExistingStream(t *testing.T) {
	path := t.TempDir() + "/reload.bin"

	stream1, err := NewFileStream(path)
	require.NoError(t, err)

	tr1, err := New(Options{Stream: stream1})
	require.NoError(t, err)
	require.NoError(t, tr1.Add([]byte("one"), []byte("1")))
	require.NoError(t, tr1.Add([]byte("two"), []byte("2")))
	require.NoError(t, tr1.Close())

	stream2, err := NewFileStream(path)
	require.NoError(t, err)
	defer stream2.Close()

	tr2, err := Load(Options{Stream: stream2})
	require.NoError(t, err)
	require.Equal(t, uint64(2), tr2.Count())

	v, ok, err := tr2.TryGetValue([]byte("two"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("2"), v)

	require.NoError(t, tr2.Add([]byte("three"), []byte("3")))
	require.Equal(t, uint64(3), tr2.Count())
}

func TestOptimiseCompactsAndPreservesData(t *testing.T) {
	tr := testTree(t)

	words := []string{"ant", "bee", "cat", "dog", "eel", "fox", "gnu"}
	for _, w := range words {
		require.NoError(t, tr.Add([]byte(w), []byte(w)))
	}
	_, err := tr.Remove([]byte("cat"))
	require.NoError(t, err)

	require.NoError(t, tr.Optimise())

	for _, w := range words {
		v, ok, err := tr.TryGetValue([]byte(w))
		require.NoError(t, err)
		if w == "cat" {
			require.False(t, ok)
			continue
		}
		require.True(t, ok, w)
		require.Equal(t, []byte(w), v)
	}
	require.Equal(t, uint64(len(words)-1), tr.Count())
}
