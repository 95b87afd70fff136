package catalog

import "time"

const (
	artist = "Bhai Harjinder Singh"

	japjiURL       = "https://cdn.jsdelivr.net/gh/gurantx/streamsikh@main/Japji-Sahib.mp3"
	placeholderURL = "https://www.soundjay.com/misc/sounds/bell-ringing-05.wav"
)

// defaultTracks is the bundled recitation table, keyed by bani ID.
// Only Japji Sahib has a dedicated recording so far; the others point at a placeholder stream.
var defaultTracks = []Track{
	{ID: "japji_sahib", Title: "Japji Sahib", TitleGurmukhi: "ਜਪੁਜੀ ਸਾਹਿਬ", Artist: artist, SourceURL: japjiURL, KnownDuration: 30 * time.Minute, RelatedItemID: "1"},
	{ID: "jaap_sahib", Title: "Jaap Sahib", TitleGurmukhi: "ਜਾਪੁ ਸਾਹਿਬ", Artist: artist, SourceURL: placeholderURL, KnownDuration: 40 * time.Minute, RelatedItemID: "2"},
	{ID: "tav_prasad_savaiye", Title: "Tav Prasad Savaiye", TitleGurmukhi: "ਤਵ ਪ੍ਰਸਾਦਿ ਸਵਈਏ", Artist: artist, SourceURL: placeholderURL, KnownDuration: 8 * time.Minute, RelatedItemID: "3"},
	{ID: "chaupai_sahib", Title: "Chaupai Sahib", TitleGurmukhi: "ਚੌਪਈ ਸਾਹਿਬ", Artist: artist, SourceURL: placeholderURL, KnownDuration: 10 * time.Minute, RelatedItemID: "4"},
	{ID: "anand_sahib", Title: "Anand Sahib", TitleGurmukhi: "ਆਨੰਦੁ ਸਾਹਿਬ", Artist: artist, SourceURL: placeholderURL, KnownDuration: 20 * time.Minute, RelatedItemID: "5"},
	{ID: "rehras_sahib", Title: "Rehras Sahib", TitleGurmukhi: "ਰਹਰਾਸ ਸਾਹਿਬ", Artist: artist, SourceURL: placeholderURL, KnownDuration: 15 * time.Minute, RelatedItemID: "6"},
	{ID: "kirtan_sohila", Title: "Kirtan Sohila", TitleGurmukhi: "ਕੀਰਤਨ ਸੋਹਿਲਾ", Artist: artist, SourceURL: placeholderURL, KnownDuration: 5 * time.Minute, RelatedItemID: "8"},
	{ID: "sukhmani_sahib", Title: "Sukhmani Sahib", TitleGurmukhi: "ਸੁਖਮਨੀ ਸਾਹਿਬ", Artist: artist, SourceURL: placeholderURL, KnownDuration: time.Hour, RelatedItemID: "10"},
}

// Default returns the bundled catalog.
func Default() *Catalog {
	return New(defaultTracks...)
}
