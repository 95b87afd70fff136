package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Fail Icon = iota + 1
	Success
	Mark
	Question
	Progress
	Play
	Pause
	Buffering
	Stop
	Track
	Nitnem
	Bookmark
	Notice
	Config
)

var icons = map[Icon]*iconDef{
	Fail:      {emoji: "💀", nerd: "", plain: "X", kaomoji: "(×_×)", squares: "🟥"},
	Success:   {emoji: "🎉", nerd: "", plain: "OK", kaomoji: "(ᵔ◡ᵔ)", squares: "🟩"},
	Mark:      {emoji: "✔", nerd: "", plain: "*", kaomoji: "(• ◡•)", squares: "🟪"},
	Question:  {emoji: "🤨", nerd: "", plain: "?", kaomoji: "(¬ ¬)", squares: "🟦"},
	Progress:  {emoji: "👀", nerd: "", plain: "~", kaomoji: "(◔_◔)", squares: "🟨"},
	Play:      {emoji: "▶️", nerd: "", plain: ">", kaomoji: "(>‿◠)", squares: "🟩"},
	Pause:     {emoji: "⏸️", nerd: "", plain: "||", kaomoji: "(-_-)", squares: "🟨"},
	Buffering: {emoji: "⏳", nerd: "", plain: "...", kaomoji: "(._.)", squares: "🟧"},
	Stop:      {emoji: "⏹️", nerd: "", plain: "[]", kaomoji: "(ー_ー)", squares: "🟥"},
	Track:     {emoji: "🎵", nerd: "", plain: "#", kaomoji: "♪(´▽｀)", squares: "🟦"},
	Nitnem:    {emoji: "🙏", nerd: "", plain: "@", kaomoji: "(人◕‿◕)", squares: "🟪"},
	Bookmark:  {emoji: "🔖", nerd: "", plain: "+", kaomoji: "(・ω・)", squares: "🟫"},
	Notice:    {emoji: "🔔", nerd: "", plain: "!", kaomoji: "(°o°)", squares: "🟨"},
	Config:    {emoji: "⚙️", nerd: "", plain: "=", kaomoji: "(⌐■_■)", squares: "⬜"},
}
