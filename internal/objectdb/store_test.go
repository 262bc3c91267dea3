package objectdb

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/object-convertor-mcp/internal/operator"
	"github.com/ironsheep/object-convertor-mcp/internal/region"
)

func sampleSet(name string) *region.ObjectSet {
	return &region.ObjectSet{
		Name:   name,
		Width:  100,
		Height: 80,
		Objects: []region.Region{
			region.New(10, 10, 20, 20, region.Blue),
			region.New(40, 10, 60, 30, region.Green),
		},
	}
}

func TestStore_AddGetDelete(t *testing.T) {
	db := NewStore()
	set := sampleSet("before")
	require.NoError(t, db.Add(set))

	err := db.Add(sampleSet("before"))
	assert.True(t, errors.Is(err, ErrExists))

	// Stored sets are copies.
	set.Objects[0].X1 = 99
	got, err := db.Get("before")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Objects[0].X1)

	got.Objects[0].X1 = 77
	again, err := db.Get("before")
	require.NoError(t, err)
	assert.Equal(t, 10, again.Objects[0].X1)

	require.NoError(t, db.Delete("before"))
	_, err = db.Get("before")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(db.Delete("before"), ErrNotFound))
}

func TestStore_RejectsInvalidSets(t *testing.T) {
	db := NewStore()
	assert.Error(t, db.Add(&region.ObjectSet{Name: "", Width: 1, Height: 1}))
	assert.Error(t, db.Put(&region.ObjectSet{Name: "flat", Width: 0, Height: 1}))
	assert.Equal(t, 0, db.Len())
}

func TestStore_List(t *testing.T) {
	db := NewStore()
	require.NoError(t, db.Add(sampleSet("b")))
	require.NoError(t, db.Add(sampleSet("a")))

	replaced := sampleSet("b")
	replaced.Objects = replaced.Objects[:1]
	require.NoError(t, db.Put(replaced))

	assert.Equal(t, []Summary{
		{Name: "a", Width: 100, Height: 80, Objects: 2},
		{Name: "b", Width: 100, Height: 80, Objects: 1},
	}, db.List())
}

func TestStore_SaveLoad(t *testing.T) {
	for _, name := range []string{"objects.json", "objects.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			db := NewStore()
			require.NoError(t, db.Add(sampleSet("one")))
			require.NoError(t, db.Add(sampleSet("two")))
			require.NoError(t, db.Save(path))

			loaded := NewStore()
			require.NoError(t, loaded.Load(path))
			assert.Equal(t, db.List(), loaded.List())

			got, err := loaded.Get("two")
			require.NoError(t, err)
			assert.Equal(t, sampleSet("two"), got)
		})
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	err := NewStore().Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	db := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			set := sampleSet(string(rune('a' + i)))
			assert.NoError(t, db.Put(set))
			_, err := db.Get(set.Name)
			assert.NoError(t, err)
			db.List()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, db.Len())
}

func TestApply(t *testing.T) {
	reg := operator.NewDefaultRegistry()
	shift, err := reg.Instantiate(operator.Translate, operator.Params{"dx": operator.Int(5), "dy": operator.Int(0)})
	require.NoError(t, err)
	paint, err := reg.Instantiate(operator.Paint, operator.Params{"color": operator.IntTuple(255, 0, 0)})
	require.NoError(t, err)

	set := sampleSet("s")
	steps := []*operator.Instantiated{shift, paint}

	t.Run("all objects", func(t *testing.T) {
		out, err := Apply(set, steps, nil)
		require.NoError(t, err)
		assert.Equal(t, region.New(15, 10, 25, 20, region.Red), out.Objects[0])
		assert.Equal(t, region.New(45, 10, 65, 30, region.Red), out.Objects[1])
		assert.Equal(t, sampleSet("s"), set)
	})

	t.Run("selected objects", func(t *testing.T) {
		out, err := Apply(set, steps, []int{1})
		require.NoError(t, err)
		assert.Equal(t, set.Objects[0], out.Objects[0])
		assert.Equal(t, region.New(45, 10, 65, 30, region.Red), out.Objects[1])
	})

	t.Run("index out of range", func(t *testing.T) {
		_, err := Apply(set, steps, []int{2})
		assert.Error(t, err)
	})

	t.Run("repeated index", func(t *testing.T) {
		out, err := Apply(set, []*operator.Instantiated{shift}, []int{0, 0})
		assert.ErrorContains(t, err, "more than once")
		assert.Nil(t, out)
	})
}
