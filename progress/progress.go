// Package progress persists reading progress, verse bookmarks and listening history.
package progress

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/gurbani-cli/gurbani/filesystem"
	"github.com/gurbani-cli/gurbani/util"
	"github.com/gurbani-cli/gurbani/where"
	"github.com/invopop/jsonschema"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

const recentlyReadLimit = 5

// now is replaced in tests.
var now = time.Now

// Store keeps the three JSON files. Writes are last-write-wins.
type Store struct {
	mu        sync.Mutex
	progress  *gache.Cache[map[string]*Reading]
	bookmarks *gache.Cache[[]*Bookmark]
	listening *gache.Cache[map[string]*Listen]
}

func newCache[T any](path string) *gache.Cache[T] {
	return gache.New[T](&gache.Options{
		Path:       path,
		FileSystem: &filesystem.GacheFs{},
	})
}

// New returns a store backed by the given files.
func New(progressPath, bookmarksPath, listeningPath string) *Store {
	return &Store{
		progress:  newCache[map[string]*Reading](progressPath),
		bookmarks: newCache[[]*Bookmark](bookmarksPath),
		listening: newCache[map[string]*Listen](listeningPath),
	}
}

var defaultStore = sync.OnceValue(func() *Store {
	return New(where.Progress(), where.Bookmarks(), where.Listening())
})

// Default returns the store under the config directory.
func Default() *Store {
	return defaultStore()
}

func (s *Store) allProgress() (map[string]*Reading, error) {
	cached, expired, err := s.progress.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Reading), nil
	}
	return cached, nil
}

func (s *Store) allBookmarks() ([]*Bookmark, error) {
	cached, expired, err := s.bookmarks.Get()
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, nil
	}
	return cached, nil
}

func (s *Store) allListening() (map[string]*Listen, error) {
	cached, expired, err := s.listening.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Listen), nil
	}
	return cached, nil
}

func blank(baniID string) *Reading {
	return &Reading{
		BaniID:           baniID,
		LastReadAt:       now(),
		CompletedVerses:  []string{},
		BookmarkedVerses: []string{},
	}
}

// reading returns the record for baniID, creating it in all when missing.
func reading(all map[string]*Reading, baniID string) *Reading {
	r, ok := all[baniID]
	if !ok {
		r = blank(baniID)
		all[baniID] = r
	}
	return r
}

// SaveProgress records the verse the reader is on.
func (s *Store) SaveProgress(baniID string, verseIndex, totalVerses int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.allProgress()
	if err != nil {
		return err
	}

	r := reading(all, baniID)
	r.CurrentVerseIndex = verseIndex
	r.TotalVerses = totalVerses
	r.LastReadAt = now()

	return s.progress.Set(all)
}

// GetProgress returns the record for baniID, or an empty one.
func (s *Store) GetProgress(baniID string) (*Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.allProgress()
	if err != nil {
		return nil, err
	}

	if r, ok := all[baniID]; ok {
		return r, nil
	}
	return blank(baniID), nil
}

// AllProgress returns every record keyed by bani ID.
func (s *Store) AllProgress() (map[string]*Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.allProgress()
}

// MarkVerseCompleted adds verseID to the completed verses of baniID once.
func (s *Store) MarkVerseCompleted(baniID, verseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.allProgress()
	if err != nil {
		return err
	}

	r := reading(all, baniID)
	if lo.Contains(r.CompletedVerses, verseID) {
		return nil
	}
	r.CompletedVerses = append(r.CompletedVerses, verseID)

	return s.progress.Set(all)
}

// AddBookmark stores b, replacing any bookmark of the same verse, and records it in the bani's progress.
func (s *Store) AddBookmark(b Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, err := s.allBookmarks()
	if err != nil {
		return err
	}

	b.CreatedAt = now()
	bookmarks = lo.Reject(bookmarks, func(existing *Bookmark, _ int) bool {
		return existing.VerseID == b.VerseID
	})
	bookmarks = append(bookmarks, &b)

	if err := s.bookmarks.Set(bookmarks); err != nil {
		return err
	}

	all, err := s.allProgress()
	if err != nil {
		return err
	}

	r := reading(all, b.BaniID)
	if lo.Contains(r.BookmarkedVerses, b.VerseID) {
		return nil
	}
	r.BookmarkedVerses = append(r.BookmarkedVerses, b.VerseID)

	return s.progress.Set(all)
}

// RemoveBookmark deletes the bookmark of verseID and unlinks it from baniID.
func (s *Store) RemoveBookmark(verseID, baniID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, err := s.allBookmarks()
	if err != nil {
		return err
	}

	bookmarks = lo.Reject(bookmarks, func(b *Bookmark, _ int) bool {
		return b.VerseID == verseID
	})
	if err := s.bookmarks.Set(bookmarks); err != nil {
		return err
	}

	all, err := s.allProgress()
	if err != nil {
		return err
	}

	r := reading(all, baniID)
	r.BookmarkedVerses = lo.Without(r.BookmarkedVerses, verseID)

	return s.progress.Set(all)
}

// Bookmarks returns every bookmark, newest first.
func (s *Store) Bookmarks() ([]*Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sortedBookmarks()
}

func (s *Store) sortedBookmarks() ([]*Bookmark, error) {
	bookmarks, err := s.allBookmarks()
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(bookmarks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted, nil
}

// BookmarksFor returns the bookmarks of one bani, newest first.
func (s *Store) BookmarksFor(baniID string) ([]*Bookmark, error) {
	all, err := s.Bookmarks()
	if err != nil {
		return nil, err
	}

	return lo.Filter(all, func(b *Bookmark, _ int) bool {
		return b.BaniID == baniID
	}), nil
}

// IsBookmarked reports whether verseID has a bookmark.
func (s *Store) IsBookmarked(verseID string) (bool, error) {
	all, err := s.Bookmarks()
	if err != nil {
		return false, err
	}

	return lo.ContainsBy(all, func(b *Bookmark) bool {
		return b.VerseID == verseID
	}), nil
}

// Stats summarizes all reading progress.
func (s *Store) Stats() (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.allProgress()
	if err != nil {
		return Stats{}, err
	}

	bookmarks, err := s.allBookmarks()
	if err != nil {
		return Stats{}, err
	}

	records := lo.Values(all)
	started := lo.Filter(records, func(r *Reading, _ int) bool { return r.Started() })

	sort.SliceStable(started, func(i, j int) bool {
		return started[i].LastReadAt.After(started[j].LastReadAt)
	})

	return Stats{
		BanisStarted:   len(started),
		BanisCompleted: lo.CountBy(records, func(r *Reading) bool { return r.Completed() }),
		VersesRead:     lo.SumBy(records, func(r *Reading) int { return len(r.CompletedVerses) }),
		Bookmarks:      len(bookmarks),
		RecentlyRead:   lo.Slice(started, 0, recentlyReadLimit),
	}, nil
}

// SaveListen records how far a recording was heard, keeping the furthest point.
func (s *Store) SaveListen(trackID, itemID, title string, position, duration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.allListening()
	if err != nil {
		return err
	}

	percentage := util.Percent(position, duration)
	if existing, ok := all[trackID]; ok && existing.Percentage > percentage {
		existing.ListenedAt = now()
		return s.listening.Set(all)
	}

	all[trackID] = &Listen{
		TrackID:    trackID,
		ItemID:     itemID,
		Title:      title,
		Position:   position,
		Duration:   duration,
		Percentage: percentage,
		ListenedAt: now(),
	}

	return s.listening.Set(all)
}

// Listening returns the listening history, most recent first.
func (s *Store) Listening() ([]*Listen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.allListening()
	if err != nil {
		return nil, err
	}

	listens := lo.Values(all)
	sort.SliceStable(listens, func(i, j int) bool {
		return listens[i].ListenedAt.After(listens[j].ListenedAt)
	})
	return listens, nil
}

// Clear deletes all reading progress and bookmarks. Listening history is kept.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.progress.Set(make(map[string]*Reading)); err != nil {
		return err
	}
	return s.bookmarks.Set([]*Bookmark{})
}

// Export returns a backup of progress and bookmarks.
func (s *Store) Export() (*Export, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.allProgress()
	if err != nil {
		return nil, err
	}

	bookmarks, err := s.sortedBookmarks()
	if err != nil {
		return nil, err
	}

	return &Export{
		Progress:   all,
		Bookmarks:  bookmarks,
		ExportedAt: now(),
	}, nil
}

// Import replaces progress and bookmarks with the backup.
func (s *Store) Import(data *Export) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	progress := data.Progress
	if progress == nil {
		progress = make(map[string]*Reading)
	}

	if err := s.progress.Set(progress); err != nil {
		return err
	}
	return s.bookmarks.Set(lo.Filter(data.Bookmarks, func(b *Bookmark, _ int) bool { return b != nil }))
}

// Schema returns the JSON schema of the export format.
func Schema() ([]byte, error) {
	schema := jsonschema.Reflect(&Export{})
	return json.MarshalIndent(schema, "", "  ")
}
