package summary

// SelectIndexMsg moves to a key point. Out of range indices rewind the current one.
type SelectIndexMsg struct {
	Index int
}

// ModeToggleMsg switches between the audio and the text presentation.
type ModeToggleMsg struct{}

// CloseMsg leaves the summary.
type CloseMsg struct{}

// ClosedMsg is emitted once the summary has been torn down.
type ClosedMsg struct{}

type loadedMsg struct {
	seq   int64
	index int
	err   error
}
