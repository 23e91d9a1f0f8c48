package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Play
	Pause
	Prev
	Next
	Speed
	Book
	Mark
	Lock
	Unlock
	Alert
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "✅",
		nerd:    "\uf00c",
		plain:   "+",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Fail: {
		emoji:   "❌",
		nerd:    "\uf00d",
		plain:   "x",
		kaomoji: "(╯°□°)╯︵ ┻━┻",
		squares: "🟥",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "\uf252",
		plain:   "~",
		kaomoji: "(・_・ヾ",
		squares: "🟦",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "\uf04b",
		plain:   ">",
		kaomoji: "(▶‿▶)",
		squares: "▶",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "\uf04c",
		plain:   "||",
		kaomoji: "(￣o￣) zzZ",
		squares: "⏸",
	},
	Prev: {
		emoji:   "⏮️",
		nerd:    "\uf048",
		plain:   "|<",
		kaomoji: "(←_←)",
		squares: "⏮",
	},
	Next: {
		emoji:   "⏭️",
		nerd:    "\uf051",
		plain:   ">|",
		kaomoji: "(→_→)",
		squares: "⏭",
	},
	Speed: {
		emoji:   "⏩",
		nerd:    "\uf050",
		plain:   "x",
		kaomoji: "ε=ε=┌( >_<)┘",
		squares: "🟨",
	},
	Book: {
		emoji:   "📖",
		nerd:    "\uf02d",
		plain:   "#",
		kaomoji: "φ(．．)",
		squares: "🟪",
	},
	Mark: {
		emoji:   "🔖",
		nerd:    "\uf02e",
		plain:   "*",
		kaomoji: "(•̀ᴗ•́)",
		squares: "🟧",
	},
	Lock: {
		emoji:   "🔒",
		nerd:    "\uf023",
		plain:   "[locked]",
		kaomoji: "(｀ε´)",
		squares: "⬛",
	},
	Unlock: {
		emoji:   "🔓",
		nerd:    "\uf09c",
		plain:   "[unlocked]",
		kaomoji: "(ﾉ◕ヮ◕)ﾉ",
		squares: "⬜",
	},
	Alert: {
		emoji:   "⚠️",
		nerd:    "\uf071",
		plain:   "!",
		kaomoji: "(⊙_⊙)",
		squares: "🟧",
	},
}
