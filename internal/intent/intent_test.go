package intent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	in, err := Parse("Sure! Here you go:\n```json\n{\"service\": \"Calendar\", \"action\": \"create\", \"title\": \"Standup\", \"date\": \"2026-02-05\"}\n```")
	require.NoError(t, err)
	require.Equal(t, "calendar", in.Service)
	require.Equal(t, "create", in.Action)
	require.Equal(t, "Standup", in.Args.String("title"))
	require.Equal(t, "2026-02-05", in.Args.String("date"))
}

func TestParse_Nested(t *testing.T) {
	in, err := Parse(`{"service":"gmail","action":"send","meta":{"cc":"a@b.c"},"body":"hi"}`)
	require.NoError(t, err)
	require.Equal(t, "send", in.Action)
	require.Equal(t, "hi", in.Args.String("body"))
	require.True(t, in.Args.Has("meta"))
}

func TestParse_NoIntent(t *testing.T) {
	for _, reply := range []string{"", "just chatting", "{not json}", "} backwards {"} {
		_, err := Parse(reply)
		require.ErrorIs(t, err, ErrNoIntent, reply)
	}
}

func TestArgs(t *testing.T) {
	a := Args{"index": float64(2), "count": "5", "bad": "x", "due": nil, "flag": true}

	n, ok := a.Int("index")
	require.True(t, ok)
	require.Equal(t, 2, n)

	n, ok = a.Int("count")
	require.True(t, ok)
	require.Equal(t, 5, n)

	_, ok = a.Int("bad")
	require.False(t, ok)
	require.Equal(t, 10, a.IntOr("missing", 10))

	require.False(t, a.Has("due"))
	require.Equal(t, "", a.String("due"))
	require.Equal(t, "reader", a.StringOr("role", "reader"))
	require.Equal(t, "2", a.String("index"))
	require.Equal(t, "true", a.String("flag"))
}
