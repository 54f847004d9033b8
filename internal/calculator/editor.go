package calculator

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/invoicer/internal/models"
)

var (
	ErrTooManyLines = errors.New("maximum number of lines reached")
	ErrUnknownLine  = errors.New("line not found")
)

// Editor is the ordered list of line items for the invoice being composed.
// Presentation layers render from Lines and write changes back through the
// setters; totals are recomputed on demand.
type Editor struct {
	lines    []models.LineItem
	maxLines int
	seq      int
}

// NewEditor returns an empty editor. maxLines <= 0 means no limit.
func NewEditor(maxLines int) *Editor {
	return &Editor{maxLines: maxLines}
}

// EditorFrom seeds an editor with existing lines, e.g. when reopening a
// draft. Stored IDs are kept; lines without an ID get one. New IDs never
// collide with a stored one.
func EditorFrom(lines []models.LineItem, maxLines int) *Editor {
	e := NewEditor(maxLines)
	for _, l := range lines {
		if n, ok := lineSeq(l.ID); ok && n > e.seq {
			e.seq = n
		}
	}
	for _, l := range lines {
		if l.ID == "" {
			l.ID = e.nextID()
		}
		e.lines = append(e.lines, l)
	}
	return e
}

const linePrefix = "line-"

func lineSeq(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, linePrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	return n, err == nil
}

func (e *Editor) nextID() string {
	for {
		e.seq++
		id := linePrefix + strconv.Itoa(e.seq)
		if e.index(id) < 0 {
			return id
		}
	}
}

// AddLine appends an empty line and returns its ID.
func (e *Editor) AddLine() (string, error) {
	if e.maxLines > 0 && len(e.lines) >= e.maxLines {
		return "", ErrTooManyLines
	}
	id := e.nextID()
	e.lines = append(e.lines, models.LineItem{ID: id})
	return id, nil
}

// RemoveLine deletes the line with the given ID.
func (e *Editor) RemoveLine(id string) error {
	i := e.index(id)
	if i < 0 {
		return ErrUnknownLine
	}
	e.lines = append(e.lines[:i], e.lines[i+1:]...)
	return nil
}

// SetDate sets the session date of a line.
func (e *Editor) SetDate(id string, date time.Time) error {
	i := e.index(id)
	if i < 0 {
		return ErrUnknownLine
	}
	e.lines[i].Date = date
	return nil
}

// SetDescription sets the free-text description of a line.
func (e *Editor) SetDescription(id, description string) error {
	i := e.index(id)
	if i < 0 {
		return ErrUnknownLine
	}
	e.lines[i].Description = description
	return nil
}

// SetAmountText sets a line's amount from raw user input. Text that does not
// parse as a non-negative number is stored as zero.
func (e *Editor) SetAmountText(id, raw string) error {
	i := e.index(id)
	if i < 0 {
		return ErrUnknownLine
	}
	e.lines[i].Amount = ParseAmount(raw)
	return nil
}

// Lines returns a copy of the lines in order.
func (e *Editor) Lines() []models.LineItem {
	out := make([]models.LineItem, len(e.lines))
	copy(out, e.lines)
	return out
}

// Len returns the number of lines.
func (e *Editor) Len() int {
	return len(e.lines)
}

// Totals computes the totals of the current lines.
func (e *Editor) Totals(tax models.TaxSnapshot) Totals {
	return ComputeTotals(e.lines, tax)
}

func (e *Editor) index(id string) int {
	for i := range e.lines {
		if e.lines[i].ID == id {
			return i
		}
	}
	return -1
}

// ParseAmount reads a user-typed amount. A decimal comma is accepted. Empty,
// malformed or negative input yields zero.
func ParseAmount(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "$")
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return sanitize(v)
}
