package tui

type state int

const (
	loadingState state = iota
	errorState
	pairsState
	historyState
	trainerState
	reportState
)
