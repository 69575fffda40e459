package icon

// Icon identifies a UI symbol.
type Icon int

const (
	Fail Icon = iota + 1
	Success
	Mark
	Progress
	Play
	Pause
	Wait
	Stalled
	Native
	Target
	Report
	Link
	Word
	Sentence
)

var icons = map[Icon]*iconDef{
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "X",
		kaomoji: "(×_×)",
		squares: "🟥",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "OK",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Mark: {
		emoji:   "✅",
		nerd:    "",
		plain:   "*",
		kaomoji: "(•̀ᴗ•́)و",
		squares: "🟨",
	},
	Progress: {
		emoji:   "👾",
		nerd:    "",
		plain:   "@",
		kaomoji: "┬─┬ノ( º _ ºノ)",
		squares: "🟦",
	},
	Play: {
		emoji:   "🔊",
		nerd:    "",
		plain:   ">",
		kaomoji: "♪(´▽｀)",
		squares: "🟩",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "",
		plain:   "||",
		kaomoji: "(-_-) zzZ",
		squares: "🟨",
	},
	Wait: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		kaomoji: "(・_・ヾ",
		squares: "⬜",
	},
	Stalled: {
		emoji:   "🚧",
		nerd:    "",
		plain:   "!",
		kaomoji: "(╥﹏╥)",
		squares: "🟧",
	},
	Native: {
		emoji:   "🏠",
		nerd:    "",
		plain:   "N",
		kaomoji: "(＾▽＾)",
		squares: "⬛",
	},
	Target: {
		emoji:   "🎯",
		nerd:    "",
		plain:   "T",
		kaomoji: "(ง •̀_•́)ง",
		squares: "🟪",
	},
	Report: {
		emoji:   "🚩",
		nerd:    "",
		plain:   "R",
		kaomoji: "(ノಠ益ಠ)ノ",
		squares: "🟥",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "~",
		kaomoji: "(¬‿¬)",
		squares: "🟦",
	},
	Word: {
		emoji:   "📖",
		nerd:    "",
		plain:   "W",
		kaomoji: "φ(．．)",
		squares: "🟫",
	},
	Sentence: {
		emoji:   "💬",
		nerd:    "",
		plain:   "S",
		kaomoji: "(°ロ°)",
		squares: "⬜",
	},
}
