package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Catalog is a read-only lookup table from item ID to track.
type Catalog struct {
	byItem map[string]Track
	order  []string
}

// New builds a catalog from tracks; the argument order is the listing order.
// Tracks without a RelatedItemID are keyed by their track ID.
func New(tracks ...Track) *Catalog {
	c := &Catalog{byItem: make(map[string]Track, len(tracks))}
	for _, t := range tracks {
		id := t.ItemID()
		if _, dup := c.byItem[id]; !dup {
			c.order = append(c.order, id)
		}
		c.byItem[id] = t
	}
	return c
}

// Resolve returns the track for an item. Absence means the item has no audio, which is not an error.
func (c *Catalog) Resolve(itemID string) mo.Option[Track] {
	t, ok := c.byItem[itemID]
	if !ok {
		return mo.None[Track]()
	}
	return mo.Some(t)
}

// All returns every track in listing order.
func (c *Catalog) All() []Track {
	return lo.Map(c.order, func(id string, _ int) Track {
		return c.byItem[id]
	})
}

// IDs returns every item ID in listing order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of items with audio.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Find matches a free-form query against item IDs, track IDs and titles.
// An exact item ID wins outright; otherwise fuzzy matches are ranked by edit distance to the title.
func (c *Catalog) Find(query string) []Track {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	if t, ok := c.Resolve(query).Get(); ok {
		return []Track{t}
	}

	type ranked struct {
		track Track
		rank  int
	}

	var matches []ranked
	for _, t := range c.All() {
		best := -1
		for _, target := range []string{t.Title, t.ID, strings.ReplaceAll(t.ID, "_", " ")} {
			r := fuzzy.RankMatchNormalizedFold(query, target)
			if r >= 0 && (best < 0 || r < best) {
				best = r
			}
		}
		if best >= 0 {
			matches = append(matches, ranked{track: t, rank: best})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})

	return lo.Map(matches, func(m ranked, _ int) Track {
		return m.track
	})
}
