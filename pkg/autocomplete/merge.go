package autocomplete

import (
	"context"
	"maps"

	"github.com/bastiangx/geoserve/pkg/geocode"
	"github.com/charmbracelet/log"
)

// ResultSet is the merged outcome of one dispatched query.
type ResultSet struct {
	Query   string
	Results []geocode.Result
	Local   int // leading results that came from the local geocoder
	Remote  int
}

// Merger combines local and remote results under one result budget.
// Local results always rank first; the remote call only gets the budget they left.
type Merger struct {
	client    geocode.Client
	local     geocode.LocalGeocoder
	limit     int
	params    map[string]string
	localOnly bool
}

// NewMerger builds a merger. client may be nil when localOnly is set.
func NewMerger(client geocode.Client, local geocode.LocalGeocoder, limit int, params map[string]string, localOnly bool) *Merger {
	return &Merger{
		client:    client,
		local:     local,
		limit:     limit,
		params:    maps.Clone(params),
		localOnly: localOnly,
	}
}

// RemoteLimit is the budget left for the remote call after localCount local results.
func (m *Merger) RemoteLimit(localCount int) int {
	return max(m.limit-localCount, 0)
}

// Merge resolves query. A failed remote call returns a *RemoteError and no results,
// so the caller never installs a partial list.
func (m *Merger) Merge(ctx context.Context, query string) (ResultSet, error) {
	var local []geocode.Result
	if m.local != nil {
		local = m.local(query)
	}
	if len(local) > m.limit {
		local = local[:m.limit]
	}

	set := ResultSet{Query: query, Local: len(local)}
	remoteLimit := m.RemoteLimit(len(local))

	if remoteLimit == 0 || m.localOnly || m.client == nil {
		set.Results = tag(make([]geocode.Result, 0, len(local)), local, geocode.SourceLocal)
		return set, nil
	}

	params := geocode.Params{Limit: remoteLimit, Values: m.params}
	resp, err := m.client.Forward(ctx, query, params.WithLimit(remoteLimit))
	if err != nil {
		return ResultSet{}, &RemoteError{Query: query, Limit: remoteLimit, cause: err}
	}

	remote := resp.Results
	if len(remote) > remoteLimit {
		log.Debugf("remote returned %d results for limit %d, trimming", len(remote), remoteLimit)
		remote = remote[:remoteLimit]
	}

	results := make([]geocode.Result, 0, len(local)+len(remote))
	results = tag(results, local, geocode.SourceLocal)
	results = tag(results, remote, geocode.SourceRemote)

	set.Results = results
	set.Remote = len(remote)
	return set, nil
}

// tag appends src to dst, filling in Source where the producer left it empty.
func tag(dst, src []geocode.Result, source geocode.Source) []geocode.Result {
	for _, r := range src {
		if r.Source == "" {
			r.Source = source
		}
		dst = append(dst, r)
	}
	return dst
}
