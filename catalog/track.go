// Package catalog maps scripture items (banis) to playable audio tracks.
package catalog

import (
	"fmt"
	"time"
)

// Track describes one playable recitation. Values are immutable and recreated on every lookup.
type Track struct {
	// ID identifies the recording, e.g. "japji_sahib".
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	TitleGurmukhi string        `json:"title_gurmukhi,omitempty"`
	Artist        string        `json:"artist,omitempty"`
	SourceURL     string        `json:"source_url"`
	KnownDuration time.Duration `json:"known_duration,omitempty"`
	// RelatedItemID is the bani the recording belongs to; it is the key used by Resolve.
	RelatedItemID string `json:"related_item_id,omitempty"`
}

// ItemID returns the scripture item this track plays, falling back to the track ID.
func (t Track) ItemID() string {
	if t.RelatedItemID != "" {
		return t.RelatedItemID
	}
	return t.ID
}

func (t Track) String() string {
	if t.Artist == "" {
		return t.Title
	}
	return fmt.Sprintf("%s - %s", t.Title, t.Artist)
}
