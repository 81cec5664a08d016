// Package token provides source position types shared by the attribute
// parser, reconciler and generator.
package token

import (
	"fmt"
	gotoken "go/token"
)

// Position represents a location in a source file.
type Position struct {
	Filename string
	Line     int // 1-based line number
	Column   int // 1-based column number
	Offset   int // 0-based byte offset
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// String formats the position as "file:line:col", omitting parts that
// are unknown, mirroring go/token.Position.
func (p Position) String() string {
	s := p.Filename
	if p.IsValid() {
		if s != "" {
			s += ":"
		}
		s += fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	if s == "" {
		s = "-"
	}
	return s
}

// FromGo converts a go/token position.
func FromGo(p gotoken.Position) Position {
	return Position{Filename: p.Filename, Line: p.Line, Column: p.Column, Offset: p.Offset}
}
