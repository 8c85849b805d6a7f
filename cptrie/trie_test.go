package cptrie

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	trie := New[int]()

	require.NotNil(t, trie)
	assert.Equal(t, 0, trie.Len())
	assert.False(t, trie.First().Valid())
	assert.False(t, trie.Last().Valid())
	assert.Equal(t, Stats{}, trie.Stats())

	_, ok := trie.Find(nil)
	assert.False(t, ok)

	_, ok = trie.Remove([]byte("abc"))
	assert.False(t, ok)

	e, exact := trie.FindAtLeast([]byte("abc"))
	assert.False(t, e.Valid())
	assert.False(t, exact)
}

func TestFind(t *testing.T) {
	t.Parallel()

	trie := New[any]()
	trie.Put([]byte("abc"), 123)
	trie.Put([]byte("zero"), 0)

	for _, tcase := range []*struct {
		Key    string
		ExpVal any
		ExpOK  bool
	}{
		{"", nil, false},
		{"\x00", nil, false},
		{"\x00\x00\x00", nil, false},
		{"unknown", nil, false},
		{"abc", 123, true},
		{"ABC", nil, false},
		{"ab", nil, false},
		{"abc.", nil, false},
		{"abc\x00", nil, false},
		{"zero", 0, true},
	} {
		var (
			tcase = tcase
			name  = fmt.Sprintf("%#v", tcase.Key)
		)

		t.Run(name, func(t *testing.T) {
			val, ok := trie.Find([]byte(tcase.Key))

			assert.Equal(t, tcase.ExpVal, val)
			assert.Equal(t, tcase.ExpOK, ok)
			assert.Equal(t, tcase.ExpOK, trie.ContainsKey([]byte(tcase.Key)))
		})
	}
}

func TestSet_Find(t *testing.T) {
	t.Parallel()

	var (
		trie  = New[any]()
		state = map[string]any{}
	)

	for _, tcase := range []*struct {
		Key string
		Val any
	}{
		{"", 1},
		{"\x00", 2},
		{"\x00\x00\x00", 3},
		{"abcde", 4},
		{"abcdE", 5},
		{"ab", 6},
		{"abcde", 7}, // replace
		{"abcde\x00", 8},
		{"", 9}, // replace
		{"Абвгд", 10},
		{"Абвгдеё", 11},
		{"Banjo lo-fi brooklyn mlkshk cliche.", 12},
		{"Banjo lomo DIY whatever street.", 13},
		{"\xFF\xFF", 14},
	} {
		var (
			tcase = tcase
			name  = fmt.Sprintf("%#v,%#v", tcase.Key, tcase.Val)
		)

		t.Run(name, func(t *testing.T) {
			trie.Put([]byte(tcase.Key), tcase.Val)
			state[tcase.Key] = tcase.Val

			assert.Equal(t, len(state), trie.Len())

			for key, val := range state {
				actual, ok := trie.Find([]byte(key))

				assert.Equal(t, val, actual, key)
				assert.True(t, ok)
			}
		})
	}
}

func TestSet_Modes(t *testing.T) {
	t.Parallel()

	var (
		trie = New[string]()
		key  = []byte("key")
	)

	// neither set nor create
	val, existed := trie.Set(key, "v0", 0)
	assert.False(t, existed)
	assert.Equal(t, "v0", val)
	assert.Equal(t, 0, trie.Len())

	// set only does not create
	_, existed = trie.Set(key, "v1", ModeSet)
	assert.False(t, existed)
	assert.False(t, trie.ContainsKey(key))

	_, existed = trie.Set(key, "v2", ModeCreate)
	assert.False(t, existed)
	assert.Equal(t, 1, trie.Len())

	// create only keeps the current value and returns it
	val, existed = trie.Set(key, "v3", ModeCreate)
	assert.True(t, existed)
	assert.Equal(t, "v2", val)

	// set returns the previous value
	val, existed = trie.Set(key, "v4", ModeSet|ModeCreate)
	assert.True(t, existed)
	assert.Equal(t, "v2", val)

	val, existed = trie.Replace(key, "v5")
	assert.True(t, existed)
	assert.Equal(t, "v4", val)

	_, existed = trie.Replace([]byte("other"), "v6")
	assert.False(t, existed)
	assert.Equal(t, 1, trie.Len())

	got, err := trie.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, "v5", got)
}

func TestAdd_Get_Errors(t *testing.T) {
	t.Parallel()

	trie := New[int]()

	require.NoError(t, trie.Add([]byte("a"), 1))

	err := trie.Add([]byte("a"), 2)
	assert.True(t, errors.Is(err, ErrKeyExists))
	assert.False(t, trie.TryAdd([]byte("a"), 3))

	val, err := trie.Get([]byte("a"))
	assert.NoError(t, err)
	assert.Equal(t, 1, val)

	_, err = trie.Get([]byte("b"))
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Equal(t, 1, trie.Len())
}

func TestScenario_AAAAB(t *testing.T) {
	t.Parallel()

	trie := New[int]()

	trie.Put([]byte("a"), 1)
	trie.Put([]byte("aa"), 2)
	trie.Put([]byte("ab"), 3)

	assert.Equal(t, 3, trie.Len())

	var (
		keys []string
		vals []int
	)

	for e := trie.First(); e.Valid(); e.MoveNext() {
		keys = append(keys, string(e.Key()))
		vals = append(vals, e.Value())
	}

	assert.Equal(t, []string{"a", "aa", "ab"}, keys)
	assert.Equal(t, []int{1, 2, 3}, vals)

	old, ok := trie.Remove([]byte("a"))
	assert.True(t, ok)
	assert.Equal(t, 1, old)

	assert.False(t, trie.ContainsKey([]byte("a")))

	val, _ := trie.Find([]byte("aa"))
	assert.Equal(t, 2, val)

	val, _ = trie.Find([]byte("ab"))
	assert.Equal(t, 3, val)

	assert.Equal(t, 2, trie.Len())
}

func TestFindAtLeast(t *testing.T) {
	t.Parallel()

	trie := New[int]()

	for i, key := range []string{"", "b", "ba", "bab", "c", "d\x00", "d\xFF"} {
		trie.Put([]byte(key), i)
	}

	for _, tcase := range []*struct {
		Key      string
		ExpKey   string
		ExpExact bool
		ExpValid bool
	}{
		{"", "", true, true},
		{"a", "b", false, true},
		{"b", "b", true, true},
		{"b\x00", "ba", false, true},
		{"baa", "bab", false, true},
		{"babz", "c", false, true},
		{"c", "c", true, true},
		{"d", "d\x00", false, true},
		{"d\x01", "d\xFF", false, true},
		{"d\xFF", "d\xFF", true, true},
		{"d\xFF\x00", "", false, false},
		{"e", "", false, false},
	} {
		var (
			tcase = tcase
			name  = fmt.Sprintf("%q", tcase.Key)
		)

		t.Run(name, func(t *testing.T) {
			e, exact := trie.FindAtLeast([]byte(tcase.Key))

			assert.Equal(t, tcase.ExpExact, exact)
			require.Equal(t, tcase.ExpValid, e.Valid())

			if tcase.ExpValid {
				assert.Equal(t, tcase.ExpKey, string(e.Key()))
			}

			if tcase.ExpExact {
				assert.NotNil(t, trie.FindExact([]byte(tcase.Key)))
			} else {
				assert.Nil(t, trie.FindExact([]byte(tcase.Key)))
			}
		})
	}
}

func TestIter_Prefix(t *testing.T) {
	t.Parallel()

	trie := New[int]()

	for i, key := range []string{"car", "cart", "carton", "cat", "dog", "ca"} {
		trie.Put([]byte(key), i)
	}

	var keys []string

	assert.True(t, trie.Iter([]byte("car"), func(key []byte, _ int) bool {
		keys = append(keys, string(key))
		return true
	}))
	assert.Equal(t, []string{"car", "cart", "carton"}, keys)

	keys = keys[:0]

	assert.False(t, trie.Iter([]byte("ca"), func(key []byte, _ int) bool {
		keys = append(keys, string(key))
		return len(keys) < 2
	}))
	assert.Equal(t, []string{"ca", "car"}, keys)

	assert.Equal(t, [][]byte{
		[]byte("ca"), []byte("car"), []byte("cart"), []byte("carton"), []byte("cat"), []byte("dog"),
	}, trie.Keys())
}

func TestClear(t *testing.T) {
	t.Parallel()

	trie := New[int]()

	for i := 0; i < 100; i++ {
		trie.Put([]byte(fmt.Sprint(i)), i)
	}

	trie.Clear()

	assert.Equal(t, 0, trie.Len())
	assert.False(t, trie.ContainsKey([]byte("1")))
	assert.Equal(t, New[int]().CountMemoryUsage(8), trie.CountMemoryUsage(8))
}

func TestDefaultElision(t *testing.T) {
	t.Parallel()

	const total = 5000

	var (
		zeros  = New[int]()
		values = New[int]()
		fake   = gofakeit.New(1234567890)
	)

	for i := 0; i < total; i++ {
		key := []byte(fake.Word() + fake.Word())
		zeros.Put(key, 0)
		values.Put(key, i+1)
	}

	require.Equal(t, zeros.Len(), values.Len())

	assert.Equal(t, 0, zeros.Stats().StoredVals)
	assert.Equal(t, values.Len(), values.Stats().StoredVals)
	assert.Less(t, zeros.CountMemoryUsage(8), values.CountMemoryUsage(8))

	for e := zeros.First(); e.Valid(); e.MoveNext() {
		val, ok := zeros.Find(e.Key())
		require.True(t, ok)
		require.Equal(t, 0, val)
	}

	// zeroing a stored value releases it
	for e := values.First(); e.Valid(); e.MoveNext() {
		zeros.Put(e.Key(), 1)
	}

	assert.Equal(t, zeros.Len(), zeros.Stats().StoredVals)

	for _, key := range zeros.Keys() {
		zeros.Put(key, 0)
	}

	assert.Equal(t, 0, zeros.Stats().StoredVals)
}

// checkTrie compares a trie with a map: lookups, both enumeration orders and
// the depth bound.
func checkTrie(t *testing.T, trie *Trie[int], state map[string]int) {
	t.Helper()

	require.Equal(t, len(state), trie.Len())

	var (
		sorted = make([]string, 0, len(state))
		maxLen int
	)

	for key := range state {
		sorted = append(sorted, key)
		if len(key) > maxLen {
			maxLen = len(key)
		}
	}

	sort.Strings(sorted)

	for _, key := range sorted {
		val, ok := trie.Find([]byte(key))
		require.True(t, ok, "%q", key)
		require.Equal(t, state[key], val, "%q", key)
	}

	var i int

	for e := trie.First(); e.Valid(); e.MoveNext() {
		require.Less(t, i, len(sorted))
		require.Equal(t, sorted[i], string(e.Key()))
		require.Equal(t, state[sorted[i]], e.Value())
		i++
	}

	require.Equal(t, len(sorted), i)

	for e := trie.Last(); e.Valid(); e.MovePrev() {
		i--
		require.GreaterOrEqual(t, i, 0)
		require.Equal(t, sorted[i], string(e.Key()))
	}

	require.Equal(t, 0, i)

	if len(state) > 0 {
		assert.LessOrEqual(t, trie.Stats().MaxDepth, maxLen+1)
	}
}

func randomKey(fake *gofakeit.Faker) []byte {
	key := make([]byte, fake.Number(0, 3))

	for i := range key {
		b := byte(fake.Number(0, 63))
		if fake.Bool() {
			b = 0xFF - b
		}
		key[i] = b
	}

	return key
}

func TestRandomOps_FakeData(t *testing.T) {
	t.Parallel()

	const (
		seed   = 1234567890
		rounds = 6
		ops    = 8000
	)

	var (
		trie  = New[int]()
		state = map[string]int{}
		fake  = gofakeit.New(seed)
	)

	for round := 0; round < rounds; round++ {
		// grow in the even rounds, shrink in the odd ones
		removeChance := 20
		if round%2 == 1 {
			removeChance = 80
		}

		for i := 0; i < ops; i++ {
			key := randomKey(fake)

			if fake.Number(1, 100) <= removeChance {
				exp, expOK := state[string(key)]
				val, ok := trie.Remove(key)

				require.Equal(t, expOK, ok, "%q", key)
				require.Equal(t, exp, val, "%q", key)

				delete(state, string(key))

				continue
			}

			val := 0
			if fake.Bool() {
				val = fake.Number(1, 1000)
			}

			trie.Put(key, val)
			state[string(key)] = val
		}

		checkTrie(t, trie, state)

		// check FindAtLeast against a sorted list
		sorted := make([]string, 0, len(state))
		for key := range state {
			sorted = append(sorted, key)
		}
		sort.Strings(sorted)

		for i := 0; i < 500; i++ {
			var (
				query    = string(randomKey(fake))
				idx      = sort.SearchStrings(sorted, query)
				e, exact = trie.FindAtLeast([]byte(query))
			)

			if idx == len(sorted) {
				require.False(t, e.Valid(), "%q", query)
				require.False(t, exact)
				continue
			}

			require.True(t, e.Valid(), "%q", query)
			require.Equal(t, sorted[idx], string(e.Key()), "%q", query)
			require.Equal(t, sorted[idx] == query, exact, "%q", query)
		}
	}

	// drain everything
	for key := range state {
		_, ok := trie.Remove([]byte(key))
		require.True(t, ok)
	}

	assert.Equal(t, 0, trie.Len())
	assert.Nil(t, trie.root)
}

func TestSet_FakeData(t *testing.T) {
	t.Parallel()

	const (
		total       = 50_000
		seed        = 1234567890
		wordsPerKey = 3
	)

	var (
		trie  = New[int]()
		state = map[string]int{}
		fake  = gofakeit.New(seed)
	)

	for i := 0; i < total; i++ {
		key := fake.HipsterSentence(wordsPerKey)

		trie.Put([]byte(key), i+1)
		state[key] = i + 1
	}

	checkTrie(t, trie, state)

	st := trie.Stats()
	assert.Equal(t, len(state), st.StoredVals)
	assert.Greater(t, st.Nodes(), 1)
	assert.Contains(t, st.String(), "<Stats ")
}

func TestEnumerator_Turnaround(t *testing.T) {
	t.Parallel()

	trie := New[int]()

	for k := 0; k < 300; k++ {
		trie.Put([]byte{byte(k >> 8), byte(k)}, k)
	}

	e, exact := trie.FindAtLeast([]byte{0, 200})
	require.True(t, exact)

	for k := 200; k < 260; k++ {
		require.True(t, e.Valid())
		require.Equal(t, k, e.Value())
		e.MoveNext()
	}

	for k := 259; k >= 150; k-- {
		require.True(t, e.MovePrev())
		require.Equal(t, k, e.Value())
		require.Equal(t, []byte{byte(k >> 8), byte(k)}, e.Key())
	}

	assert.Greater(t, e.Depth(), 0)
}

func TestSet_FixedStructureIgnored(t *testing.T) {
	t.Parallel()

	const total = 40_000

	var (
		fixed = New[int]()
		plain = New[int]()
		key   = func(i int) []byte { return []byte{byte(i >> 24), byte(i >> 16), byte(i >> 8), byte(i)} }
	)

	for i := 0; i < total; i++ {
		_, existed := fixed.Set(key(i), i+1, ModeCreate|ModeFixedStructure)
		require.False(t, existed)

		plain.Put(key(i), i+1)
	}

	assert.Equal(t, total, fixed.Len())
	assert.Equal(t, plain.Stats(), fixed.Stats())
	assert.Greater(t, fixed.Stats().MaxDepth, 1)

	for i := 0; i < total; i++ {
		val, ok := fixed.Find(key(i))
		require.True(t, ok, i)
		require.Equal(t, i+1, val, i)
	}
}
