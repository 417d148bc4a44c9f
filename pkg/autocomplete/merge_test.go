package autocomplete

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bastiangx/geoserve/pkg/geocode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func places(prefix string, n int) []geocode.Result {
	out := make([]geocode.Result, n)
	for i := range out {
		out[i] = geocode.Result{ID: fmt.Sprintf("%s.%d", prefix, i), PlaceName: fmt.Sprintf("%s %d", prefix, i)}
	}
	return out
}

type recordingClient struct {
	calls  int
	params []geocode.Params
	n      int // results returned regardless of the requested limit; -1 honours it
	err    error
}

func (c *recordingClient) Forward(ctx context.Context, query string, p geocode.Params) (*geocode.Response, error) {
	c.calls++
	c.params = append(c.params, p)
	if c.err != nil {
		return nil, c.err
	}
	n := c.n
	if n < 0 {
		n = p.Limit
	}
	return &geocode.Response{Query: query, Results: places("remote", n)}, nil
}

func localOf(n int) geocode.LocalGeocoder {
	return func(string) []geocode.Result { return places("local", n) }
}

func TestMergeLocalFirstWithinLimit(t *testing.T) {
	client := &recordingClient{n: -1}
	m := NewMerger(client, localOf(2), 5, map[string]string{"country": "de"}, false)

	set, err := m.Merge(context.Background(), "ber")
	require.NoError(t, err)

	require.Len(t, set.Results, 5)
	assert.Equal(t, 2, set.Local)
	assert.Equal(t, 3, set.Remote)
	assert.Equal(t, geocode.SourceLocal, set.Results[0].Source)
	assert.Equal(t, geocode.SourceLocal, set.Results[1].Source)
	assert.Equal(t, geocode.SourceRemote, set.Results[2].Source)

	require.Len(t, client.params, 1)
	assert.Equal(t, 3, client.params[0].Limit)
	assert.Equal(t, "de", client.params[0].Values["country"])
}

func TestMergeSkipsRemoteWhenBudgetExhausted(t *testing.T) {
	client := &recordingClient{n: -1}
	m := NewMerger(client, localOf(7), 5, nil, false)

	set, err := m.Merge(context.Background(), "ber")
	require.NoError(t, err)

	assert.Zero(t, client.calls)
	assert.Len(t, set.Results, 5)
	assert.Equal(t, 5, set.Local)
}

func TestMergeLocalOnly(t *testing.T) {
	client := &recordingClient{n: -1}
	m := NewMerger(client, localOf(1), 5, nil, true)

	set, err := m.Merge(context.Background(), "ber")
	require.NoError(t, err)
	assert.Zero(t, client.calls)
	assert.Len(t, set.Results, 1)

	m = NewMerger(nil, nil, 5, nil, true)
	set, err = m.Merge(context.Background(), "ber")
	require.NoError(t, err)
	assert.Empty(t, set.Results)
}

func TestMergeTrimsOversizedRemote(t *testing.T) {
	client := &recordingClient{n: 10}
	m := NewMerger(client, localOf(1), 4, nil, false)

	set, err := m.Merge(context.Background(), "ber")
	require.NoError(t, err)
	assert.Len(t, set.Results, 4)
	assert.Equal(t, 3, set.Remote)
}

func TestMergeRemoteError(t *testing.T) {
	boom := errors.New("boom")
	m := NewMerger(&recordingClient{err: boom}, localOf(1), 5, nil, false)

	set, err := m.Merge(context.Background(), "ber")
	require.Error(t, err)
	assert.Empty(t, set.Results)

	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "ber", re.Query)
	assert.Equal(t, 4, re.Limit)
	assert.ErrorIs(t, err, boom)
}

func TestRemoteLimit(t *testing.T) {
	m := NewMerger(nil, nil, 5, nil, false)
	assert.Equal(t, 5, m.RemoteLimit(0))
	assert.Equal(t, 1, m.RemoteLimit(4))
	assert.Equal(t, 0, m.RemoteLimit(5))
	assert.Equal(t, 0, m.RemoteLimit(9))
}
