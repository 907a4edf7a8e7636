package anchor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetHas(t *testing.T) {
	r := New()
	assert.False(t, r.Has("g"))

	r.Set("g", "b")
	v, ok := r.Get("g")
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	assert.True(t, r.Has("g"))
}

func TestSet_NotifiesKeyAndGlobalSubscribers(t *testing.T) {
	r := New()
	var keyed, global []string
	r.On(ChangeEvent("g"), func(k, v string) { keyed = append(keyed, k+"="+v) })
	r.On(EventChange, func(k, v string) { global = append(global, k+"="+v) })

	r.Set("g", "a")
	r.Set("other", "x")

	assert.Equal(t, []string{"g=a"}, keyed)
	assert.Equal(t, []string{"g=a", "other=x"}, global)
}

func TestSet_SameValueIsSilent(t *testing.T) {
	r := New()
	var n int
	r.On(ChangeEvent("g"), func(string, string) { n++ })

	r.Set("g", "a")
	r.Set("g", "a")
	assert.Equal(t, 1, n)

	r.Set("g", "b")
	assert.Equal(t, 2, n)
}

func TestHandlers_MayReenter(t *testing.T) {
	r := New()
	r.On(ChangeEvent("src"), func(_, v string) { r.Set("mirror", v) })

	r.Set("src", "x")
	v, _ := r.Get("mirror")
	assert.Equal(t, "x", v)
}

func TestUnsubscribe(t *testing.T) {
	r := New()
	var n int
	sub := r.On(ChangeEvent("g"), func(string, string) { n++ })
	r.Set("g", "a")

	sub.Unsubscribe()
	sub.Unsubscribe()
	r.Set("g", "b")
	assert.Equal(t, 1, n)
}

func TestUnsubscribe_LeavesOtherSubscribers(t *testing.T) {
	r := New()
	var a, b int
	subA := r.On(ChangeEvent("g"), func(string, string) { a++ })
	r.On(ChangeEvent("g"), func(string, string) { b++ })

	subA.Unsubscribe()
	r.Set("g", "x")
	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
}

func TestUnset(t *testing.T) {
	r := New()
	var got []string
	r.On(ChangeEvent("g"), func(_, v string) { got = append(got, v) })

	r.Unset("g")
	r.Set("g", "a")
	r.Unset("g")
	assert.Equal(t, []string{"a", ""}, got)
	assert.False(t, r.Has("g"))
}

func TestFragmentRoundTrip(t *testing.T) {
	r := New()
	r.Set("langs", "go lang")
	r.Set("docs", "api")

	assert.Equal(t, "#docs=api&langs=go+lang", r.Fragment())

	other := New()
	require.NoError(t, other.SetFragment(r.Fragment()))
	assert.Equal(t, []string{"docs", "langs"}, other.Keys())
	v, _ := other.Get("langs")
	assert.Equal(t, "go lang", v)
}

func TestSetFragment_UnsetsMissingKeys(t *testing.T) {
	r := New()
	r.Set("a", "1")
	r.Set("b", "2")

	require.NoError(t, r.SetFragment("b=3"))
	assert.Equal(t, []string{"b"}, r.Keys())
	v, _ := r.Get("b")
	assert.Equal(t, "3", v)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", in: "", want: map[string]string{}},
		{name: "hash only", in: "#", want: map[string]string{}},
		{name: "single", in: "#g=a", want: map[string]string{"g": "a"}},
		{name: "no hash", in: "g=a&h=b", want: map[string]string{"g": "a", "h": "b"}},
		{name: "empty value", in: "#g=", want: map[string]string{"g": ""}},
		{name: "last wins", in: "#g=a&g=b", want: map[string]string{"g": "b"}},
		{name: "stray ampersand", in: "#g=a&&", want: map[string]string{"g": "a"}},
		{name: "missing equals", in: "#g", wantErr: true},
		{name: "missing key", in: "#=a", wantErr: true},
		{name: "bad escape", in: "#g=%zz", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedFragment)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_Empty(t *testing.T) {
	assert.Equal(t, "", Encode(nil))
}
