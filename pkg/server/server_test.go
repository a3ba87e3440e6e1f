package server

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/bastiangx/panama/pkg/dictionary"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

// serve runs the server over the given requests and returns a decoder
// positioned after the ready status.
func serve(t *testing.T, reqs ...Request) (*msgpack.Decoder, *Server) {
	t.Helper()
	dict := dictionary.New([]string{"Panama", "pan", "A plan", "a canal", "canal", "Pan-Am"}, rand.New(rand.NewSource(1)))

	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range reqs {
		require.NoError(t, enc.Encode(r))
	}

	var out bytes.Buffer
	srv := NewServer(dict, &in, &out, 0)
	require.NoError(t, srv.Start())

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	require.Equal(t, "ready", ready.Status)
	return dec, srv
}

func TestServerLookups(t *testing.T) {
	dec, srv := serve(t,
		Request{ID: "1", Action: "starts", Query: "Pan", Limit: 10},
		Request{ID: "2", Action: "ends", Query: "NAL"},
		Request{ID: "3", Action: "starts", Query: "zzzznotaprefix"},
	)
	assert.Equal(t, 3, srv.Requests())

	var starts LookupResponse
	require.NoError(t, dec.Decode(&starts))
	assert.Equal(t, "1", starts.ID)
	assert.Equal(t, 3, starts.Count)
	names := map[string]string{}
	for _, e := range starts.Entries {
		names[e.Word] = e.TrueName
	}
	assert.Equal(t, map[string]string{"panama": "Panama", "pan": "pan", "panam": "Pan-Am"}, names)

	var ends LookupResponse
	require.NoError(t, dec.Decode(&ends))
	assert.Equal(t, "2", ends.ID)
	assert.ElementsMatch(t, []Entry{{"acanal", "a canal"}, {"canal", "canal"}}, ends.Entries)

	var none LookupResponse
	require.NoError(t, dec.Decode(&none))
	assert.Equal(t, 0, none.Count)
	assert.Empty(t, none.Entries)
}

func TestServerNameAndCount(t *testing.T) {
	dec, _ := serve(t,
		Request{ID: "n", Action: "name", Query: "aplan"},
		Request{ID: "m", Action: "name", Query: "missing"},
		Request{ID: "c", Action: "count", Query: "pan", Limit: 2},
	)

	var name LookupResponse
	require.NoError(t, dec.Decode(&name))
	require.Len(t, name.Entries, 1)
	assert.Equal(t, "A plan", name.Entries[0].TrueName)

	var missing ErrorResponse
	require.NoError(t, dec.Decode(&missing))
	assert.Equal(t, "m", missing.ID)
	assert.Equal(t, 404, missing.Code)

	var count LookupResponse
	require.NoError(t, dec.Decode(&count))
	assert.Equal(t, 2, count.Count, "count is capped at the limit")
}

func TestServerCountWithoutLimit(t *testing.T) {
	var phrases []string
	for _, c := range "abcdefghijklmnopqrstuvwxyz" {
		phrases = append(phrases, "pan"+string(c))
	}
	dict := dictionary.New(phrases, rand.New(rand.NewSource(1)))

	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	require.NoError(t, enc.Encode(Request{ID: "all", Action: "count", Query: "pan"}))
	require.NoError(t, enc.Encode(Request{ID: "some", Action: "count", Query: "pan", Limit: 5}))

	var out bytes.Buffer
	require.NoError(t, NewServer(dict, &in, &out, 0).Start())

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))

	var all LookupResponse
	require.NoError(t, dec.Decode(&all))
	assert.Equal(t, 26, all.Count, "no k counts past the default lookup limit")

	var some LookupResponse
	require.NoError(t, dec.Decode(&some))
	assert.Equal(t, 5, some.Count)
}

func TestServerCheck(t *testing.T) {
	dec, _ := serve(t,
		Request{ID: "ok", Action: "check", Query: "A man, a plan, a canal, Panama", Terminal: "Panama"},
		Request{ID: "no", Action: "check", Query: "A man, a plan", Terminal: "Panama"},
	)

	var ok CheckResponse
	require.NoError(t, dec.Decode(&ok))
	assert.True(t, ok.Panama)
	assert.Equal(t, "amanaplanacanalpanama", ok.Canonical)

	var no CheckResponse
	require.NoError(t, dec.Decode(&no))
	assert.False(t, no.Panama)
}

func TestServerErrors(t *testing.T) {
	long := string(bytes.Repeat([]byte("a"), maxQueryLength+1))
	dec, _ := serve(t,
		Request{ID: "x", Action: "grow"},
		Request{ID: "y", Action: "starts", Query: long},
		Request{ID: "s", Action: "stats"},
	)

	var unknown ErrorResponse
	require.NoError(t, dec.Decode(&unknown))
	assert.Equal(t, 400, unknown.Code)
	assert.Contains(t, unknown.Error, "grow")

	var tooLong ErrorResponse
	require.NoError(t, dec.Decode(&tooLong))
	assert.Equal(t, "y", tooLong.ID)
	assert.Equal(t, 400, tooLong.Code)

	var stats StatsResponse
	require.NoError(t, dec.Decode(&stats))
	assert.Equal(t, 6, stats.Stats["totalWords"])
}
