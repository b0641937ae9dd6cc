package tui

import "github.com/breeze64/breeze/pkg/breeze/parser"

// dirLoadedMsg carries the entries of a freshly listed directory.
type dirLoadedMsg struct {
	path    string
	entries []parser.Entry
}

// dirErrMsg carries a listing failure.
type dirErrMsg struct {
	path string
	err  error
}
