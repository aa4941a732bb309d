package history

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_PushPopOrder(t *testing.T) {
	t.Parallel()

	h := New()
	x := Location{Path: "/src/x.c", Row: 10, Column: 0}
	y := Location{Path: "/src/y.c", Row: 20, Column: 4}

	h.Push(x)
	h.Push(y)

	got, err := h.Pop()
	require.NoError(t, err)
	assert.Equal(t, y, got)

	got, err = h.Pop()
	require.NoError(t, err)
	assert.Equal(t, x, got)

	_, err = h.Pop()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestHistory_PopEmptyDoesNotMutate(t *testing.T) {
	t.Parallel()

	h := New()

	_, err := h.Pop()
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Equal(t, 0, h.Len())

	_, err = h.Forward()
	assert.ErrorIs(t, err, ErrEmpty, "a failed pop must not create forward history")
}

func TestHistory_Forward(t *testing.T) {
	t.Parallel()

	h := New()
	a := Location{Path: "/a.c", Row: 1}
	b := Location{Path: "/b.c", Row: 2}
	h.Push(a)
	h.Push(b)

	_, err := h.Pop()
	require.NoError(t, err)

	got, err := h.Forward()
	require.NoError(t, err)
	assert.Equal(t, b, got)
	assert.Equal(t, 2, h.Len())

	_, err = h.Pop()
	require.NoError(t, err)
	h.Push(Location{Path: "/c.c", Row: 3})

	_, err = h.Forward()
	assert.ErrorIs(t, err, ErrEmpty, "push must clear forward history")
}

func TestHistory_PeekAndSnapshot(t *testing.T) {
	t.Parallel()

	h := New()
	_, ok := h.Peek()
	assert.False(t, ok)

	a := Location{Path: "/a.c", Row: 1}
	b := Location{Path: "/b.c", Row: 2}
	h.Push(a)
	h.Push(b)

	top, ok := h.Peek()
	require.True(t, ok)
	assert.Equal(t, b, top)
	assert.Equal(t, []Location{a, b}, h.Snapshot())
	assert.Equal(t, 2, h.Len())
}

func TestHistory_ConcurrentPushPop(t *testing.T) {
	t.Parallel()

	h := New()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Push(Location{Path: "/f.c", Row: i + 1})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, h.Len())

	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.Pop()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, h.Len())
}

func TestLocation_Target(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/src/main.c:12:0", Location{Path: "/src/main.c", Row: 12}.Target())
}

func TestParseTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Location
		wantErr bool
	}{
		{in: "/src/main.c:12:0", want: Location{Path: "/src/main.c", Row: 12, Column: 0}},
		{in: "/src/main.c:12", want: Location{Path: "/src/main.c", Row: 12}},
		{in: `C:\src\main.c:7:3`, want: Location{Path: `C:\src\main.c`, Row: 7, Column: 3}},
		{in: "main.c", wantErr: true},
		{in: ":3:0", wantErr: true},
		{in: "/a.c:0:0", wantErr: true},
		{in: "/a.c:x:0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTarget(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTarget_RoundTrip(t *testing.T) {
	t.Parallel()

	loc := Location{Path: "/work/proj/lib.c", Row: 99, Column: 5}
	got, err := ParseTarget(loc.Target())
	require.NoError(t, err)
	assert.Equal(t, loc, got)
}
