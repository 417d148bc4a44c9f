/*
Package gazetteer is a small in-memory place index used as the local geocoder.

Names are normalized and inserted into a Patricia trie together with their alternate
names and every word-boundary suffix, so "york" finds "New York". Lookups walk the
trie subtree under the query prefix and rank the hits.

	g := gazetteer.New(gazetteer.Options{Fuzzy: true})
	if err := g.LoadFile("places.toml"); err != nil { ... }
	results := g.Search("berl", 5)

When a prefix has no hits and fuzzy matching is enabled the query is corrected
against the indexed names (edit distance at most 2) and retried once.
*/
package gazetteer

import (
	"sort"
	"sync"

	"github.com/bastiangx/geoserve/internal/utils"
	"github.com/bastiangx/geoserve/pkg/geocode"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// DefaultMinQuery is the shortest query, in runes, that is looked up.
const DefaultMinQuery = 2

// Options tunes lookups.
type Options struct {
	Fuzzy    bool
	MinQuery int
}

// Gazetteer indexes places for prefix search. Safe for concurrent use.
type Gazetteer struct {
	opts Options

	mu      sync.RWMutex
	trie    *patricia.Trie
	places  []Place
	names   []string // normalized primary names, parallel to places
	fuzzy   *corrector
	maxRank int
}

// New returns an empty gazetteer.
func New(opts Options) *Gazetteer {
	if opts.MinQuery <= 0 {
		opts.MinQuery = DefaultMinQuery
	}
	return &Gazetteer{
		opts:  opts,
		trie:  patricia.NewTrie(),
		fuzzy: newCorrector(),
	}
}

// Add indexes p. Invalid places are rejected.
func (g *Gazetteer) Add(p Place) error {
	if err := p.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	idx := len(g.places)
	g.places = append(g.places, p)

	name := utils.NormalizeQuery(p.Name)
	g.names = append(g.names, name)

	keys := []string{name}
	for _, alt := range p.AltNames {
		if n := utils.NormalizeQuery(alt); n != "" {
			keys = append(keys, n)
		}
	}

	for _, key := range keys {
		g.insert(key, idx)
		g.fuzzy.add(key, p.Rank)
		for _, suffix := range utils.WordSuffixes(key) {
			g.insert(suffix, idx)
		}
	}

	if p.Rank > g.maxRank {
		g.maxRank = p.Rank
	}
	return nil
}

func (g *Gazetteer) insert(key string, idx int) {
	prefix := patricia.Prefix(key)
	if item := g.trie.Get(prefix); item != nil {
		ids := item.([]int)
		for _, existing := range ids {
			if existing == idx {
				return
			}
		}
		g.trie.Set(prefix, append(ids, idx))
		return
	}
	g.trie.Insert(prefix, []int{idx})
}

// Len returns the number of indexed places.
func (g *Gazetteer) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.places)
}

// Places returns a copy of every indexed place in insertion order.
func (g *Gazetteer) Places() []Place {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Place, len(g.places))
	copy(out, g.places)
	return out
}

// Search returns up to limit places matching query as a prefix.
// Exact name matches come first, then higher rank, then name order.
// limit <= 0 means no limit.
func (g *Gazetteer) Search(query string, limit int) []geocode.Result {
	q := utils.NormalizeQuery(query)
	if utils.RuneLen(q) < g.opts.MinQuery || !utils.IsValidQuery(q) {
		return nil
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	hits := g.collect(q)
	if len(hits) == 0 && g.opts.Fuzzy {
		if corrected, ok := g.fuzzy.Correct(q); ok {
			log.Debugf("gazetteer: corrected %q to %q", q, corrected)
			q = corrected
			hits = g.collect(q)
		}
	}
	if len(hits) == 0 {
		return nil
	}

	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		ea, eb := g.names[a] == q, g.names[b] == q
		if ea != eb {
			return ea
		}
		if g.places[a].Rank != g.places[b].Rank {
			return g.places[a].Rank > g.places[b].Rank
		}
		return g.names[a] < g.names[b]
	})

	filter := utils.NewDuplicateFilter()
	var out []geocode.Result
	for _, idx := range hits {
		r := g.places[idx].Result()
		if !filter.ShouldInclude(r.Label()) {
			continue
		}
		if g.maxRank > 0 {
			r.Relevance = float64(g.places[idx].Rank) / float64(g.maxRank)
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// collect returns the distinct place indices stored under prefix q.
func (g *Gazetteer) collect(q string) []int {
	seen := make(map[int]struct{})
	var hits []int

	err := g.trie.VisitSubtree(patricia.Prefix(q), func(_ patricia.Prefix, item patricia.Item) error {
		ids, ok := item.([]int)
		if !ok {
			log.Errorf("gazetteer: unexpected trie item %T", item)
			return nil
		}
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			hits = append(hits, id)
		}
		return nil
	})
	if err != nil {
		log.Errorf("gazetteer: error visiting trie subtree: %v", err)
		return nil
	}
	return hits
}

// Geocoder adapts the gazetteer to geocode.LocalGeocoder, capped at limit results.
func (g *Gazetteer) Geocoder(limit int) geocode.LocalGeocoder {
	return func(query string) []geocode.Result {
		return g.Search(query, limit)
	}
}

// Stats returns counts about the index.
func (g *Gazetteer) Stats() map[string]int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return map[string]int{
		"places":  len(g.places),
		"keys":    len(g.fuzzy.keys),
		"maxRank": g.maxRank,
	}
}
