package state

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func requireBijection[T Entity](t *testing.T, c Collection[T]) {
	t.Helper()
	require.Len(t, c.entities, len(c.ids))
	seen := make(map[int64]bool, len(c.ids))
	for _, id := range c.ids {
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
		e, ok := c.entities[id]
		require.True(t, ok, "id %d has no entity", id)
		require.Equal(t, id, e.EntityID())
	}
}

func TestCollectionSetAllReplacesEverything(t *testing.T) {
	c := NewCollection(User{ID: 1, Name: "a"}, User{ID: 2, Name: "b"})
	c = c.SetAll([]User{{ID: 3, Name: "c"}})

	if diff := cmp.Diff([]User{{ID: 3, Name: "c"}}, c.All()); diff != "" {
		t.Fatalf("SetAll mismatch (-want +got):\n%s", diff)
	}
	requireBijection(t, c)
}

func TestCollectionSetAllCollapsesDuplicateIDs(t *testing.T) {
	c := NewCollection(User{ID: 1, Name: "a"}, User{ID: 2, Name: "b"}, User{ID: 1, Name: "a2"})

	require.Equal(t, []int64{1, 2}, c.IDs())
	u, _ := c.Get(1)
	require.Equal(t, "a2", u.Name)
	requireBijection(t, c)
}

func TestCollectionMutationsKeepOrder(t *testing.T) {
	c := NewCollection(User{ID: 1, Name: "a"}, User{ID: 2, Name: "b"}, User{ID: 3, Name: "c"})

	c, ok := c.UpdateOne(User{ID: 2, Name: "B"})
	require.True(t, ok)
	require.Equal(t, []int64{1, 2, 3}, c.IDs())

	c, ok = c.AddOne(User{ID: 4, Name: "d"})
	require.True(t, ok)
	require.Equal(t, []int64{1, 2, 3, 4}, c.IDs())

	_, ok = c.AddOne(User{ID: 4, Name: "dup"})
	require.False(t, ok)

	c, ok = c.RemoveOne(1)
	require.True(t, ok)
	require.Equal(t, []int64{2, 3, 4}, c.IDs())
	require.False(t, c.Has(1))

	c = c.UpsertOne(User{ID: 3, Name: "C"})
	c = c.UpsertOne(User{ID: 5, Name: "e"})
	want := []User{{ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "d"}, {ID: 5, Name: "e"}}
	if diff := cmp.Diff(want, c.All()); diff != "" {
		t.Fatalf("collection mismatch (-want +got):\n%s", diff)
	}
	requireBijection(t, c)
}

func TestCollectionNoOpsReturnSameValue(t *testing.T) {
	c := NewCollection(Order{ID: 1, UserID: 1, Total: 5})

	next, ok := c.UpdateOne(Order{ID: 9})
	require.False(t, ok)
	require.Equal(t, c.Version(), next.Version())

	next, ok = c.RemoveOne(9)
	require.False(t, ok)
	require.Equal(t, c.Version(), next.Version())
}

func TestCollectionIsImmutable(t *testing.T) {
	orig := NewCollection(User{ID: 1, Name: "a"}, User{ID: 2, Name: "b"})

	updated, _ := orig.UpdateOne(User{ID: 1, Name: "changed"})
	removed, _ := orig.RemoveOne(2)
	added, _ := orig.AddOne(User{ID: 3, Name: "c"})

	require.Equal(t, []User{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, orig.All())
	require.NotEqual(t, orig.Version(), updated.Version())
	require.NotEqual(t, orig.Version(), removed.Version())
	require.NotEqual(t, orig.Version(), added.Version())
	require.Equal(t, 2, orig.Len())
}

func TestCollectionZeroValue(t *testing.T) {
	var c Collection[User]
	require.Zero(t, c.Len())
	require.Empty(t, c.All())
	_, ok := c.Get(1)
	require.False(t, ok)

	c, ok = c.AddOne(User{ID: 1, Name: "a"})
	require.True(t, ok)
	require.Equal(t, 1, c.Len())
	requireBijection(t, c)
}
