package progress

import (
	"fmt"
	"time"
)

// Reading is how far the reader got through one bani.
type Reading struct {
	BaniID            string    `json:"bani_id"`
	CurrentVerseIndex int       `json:"current_verse_index"`
	TotalVerses       int       `json:"total_verses"`
	LastReadAt        time.Time `json:"last_read_at"`
	CompletedVerses   []string  `json:"completed_verses"`
	BookmarkedVerses  []string  `json:"bookmarked_verses"`
}

// Started reports whether reading went past the first verse.
func (r *Reading) Started() bool {
	return r.CurrentVerseIndex > 0
}

// Completed reports whether the last verse was reached.
func (r *Reading) Completed() bool {
	return r.TotalVerses > 0 && r.CurrentVerseIndex >= r.TotalVerses
}

func (r *Reading) String() string {
	return fmt.Sprintf("%s : %d / %d", r.BaniID, r.CurrentVerseIndex, r.TotalVerses)
}

// Bookmark marks a single verse.
type Bookmark struct {
	VerseID   string    `json:"verse_id"`
	BaniID    string    `json:"bani_id"`
	BaniName  string    `json:"bani_name"`
	VerseText string    `json:"verse_text"`
	CreatedAt time.Time `json:"created_at"`
}

// Listen is the furthest point reached in a recording.
type Listen struct {
	TrackID    string        `json:"track_id"`
	ItemID     string        `json:"item_id"`
	Title      string        `json:"title"`
	Position   time.Duration `json:"position"`
	Duration   time.Duration `json:"duration"`
	Percentage float64       `json:"percentage"`
	ListenedAt time.Time     `json:"listened_at"`
}

// Stats summarizes reading activity.
type Stats struct {
	BanisStarted   int        `json:"banis_started"`
	BanisCompleted int        `json:"banis_completed"`
	VersesRead     int        `json:"verses_read"`
	Bookmarks      int        `json:"bookmarks"`
	RecentlyRead   []*Reading `json:"recently_read"`
}

// Export is a portable backup of reading progress and bookmarks.
type Export struct {
	Progress   map[string]*Reading `json:"progress" jsonschema:"description=Reading progress keyed by bani ID"`
	Bookmarks  []*Bookmark         `json:"bookmarks"`
	ExportedAt time.Time           `json:"exported_at,omitempty"`
}
