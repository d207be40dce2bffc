package views

import (
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm_PressResolvesOnce(t *testing.T) {
	c := NewConfirm(nil)
	assert.Equal(t, Pending, c.State())

	state, ok := c.Press(ActionConfirm)
	require.True(t, ok)
	assert.Equal(t, Confirmed, state)

	state, ok = c.Press(ActionCancel)
	assert.False(t, ok)
	assert.Equal(t, Confirmed, state)
}

func TestConfirm_Cancel(t *testing.T) {
	c := NewConfirm(nil)
	state, ok := c.Press(ActionCancel)
	require.True(t, ok)
	assert.Equal(t, Cancelled, state)
	assert.Equal(t, "cancelled", state.String())

	_, ok = c.Press(ActionConfirm)
	assert.False(t, ok)
}

func TestConfirm_UnknownActionStaysPending(t *testing.T) {
	c := NewConfirm(nil)
	_, ok := c.Press("maybe")
	assert.False(t, ok)
	assert.Equal(t, Pending, c.State())
}

func TestConfirm_ConcurrentPressesResolveOnce(t *testing.T) {
	c := NewConfirm(nil)
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for n := 0; n < 20; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			action := ActionConfirm
			if n%2 == 0 {
				action = ActionCancel
			}
			if _, ok := c.Press(action); ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(n)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestConfirm_Components(t *testing.T) {
	c := NewConfirm(nil)
	c.ConfirmLabel = "Do it"

	rows := c.Components("abc")
	require.Len(t, rows, 1)
	row, ok := rows[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 2)

	yes := row.Components[0].(discordgo.Button)
	no := row.Components[1].(discordgo.Button)
	assert.Equal(t, "Do it", yes.Label)
	assert.Equal(t, discordgo.SuccessButton, yes.Style)
	assert.Equal(t, "confirm:abc:yes", yes.CustomID)
	assert.Equal(t, "Cancel", no.Label)
	assert.Equal(t, discordgo.DangerButton, no.Style)
	assert.Equal(t, "confirm:abc:no", no.CustomID)
}

func TestCustomIDRoundTrip(t *testing.T) {
	kind, id, action, ok := ParseCustomID(CustomID("remind-delete", "xyz", "open"))
	require.True(t, ok)
	assert.Equal(t, "remind-delete", kind)
	assert.Equal(t, "xyz", id)
	assert.Equal(t, "open", action)

	for _, bad := range []string{"", "confirm", "confirm:abc", "::", "confirm::yes"} {
		_, _, _, ok := ParseCustomID(bad)
		assert.False(t, ok, bad)
	}
}

func TestRegistry_AddGetRemove(t *testing.T) {
	r := NewRegistry()
	c := NewConfirm(nil)

	id := r.Add(KindConfirm, "user-1", c)
	require.NotEmpty(t, id)
	assert.Equal(t, 1, r.Len())

	got, owner, ok := Lookup[*Confirm](r, id)
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.Equal(t, "user-1", owner)

	_, _, ok = Lookup[string](r, id)
	assert.False(t, ok, "wrong type")

	r.Remove(id)
	_, _, ok = r.Get(id)
	assert.False(t, ok)
}

func TestRegistry_IDsAreUnique(t *testing.T) {
	r := NewRegistry()
	seen := make(map[string]bool)
	for n := 0; n < 100; n++ {
		id := r.Add(KindConfirm, "u", n)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestRegistry_Replace(t *testing.T) {
	r := NewRegistry()
	id := r.Add("k", "owner", 1)
	assert.True(t, r.Replace(id, 2))
	v, owner, ok := r.Get(id)
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, "owner", owner)
	assert.False(t, r.Replace("missing", 3))
}

func TestRegistry_Expiry(t *testing.T) {
	r := NewRegistry()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	old := r.Add("k", "u", "old")
	now = now.Add(TTL + time.Second)

	_, _, ok := r.Get(old)
	assert.False(t, ok)

	fresh := r.Add("k", "u", "fresh")
	assert.Equal(t, 1, r.Len(), "expired views are swept on add")
	_, _, ok = r.Get(fresh)
	assert.True(t, ok)
}
