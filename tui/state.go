package tui

type state int

const (
	libraryState state = iota
	summaryState
	errorState
)
