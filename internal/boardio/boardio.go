// Package boardio implements the textual board-file parser spec §6 treats
// as an external collaborator to the core search engine: it turns an
// input file into a board size, an upper bound, a starting knight square,
// and a target set, and nothing more.
package boardio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/gitrdm/knighttour/pkg/knight"
)

// Input error sentinels (spec §7): missing/unreadable file is the caller's
// concern (os.Open's own error, wrapped by Parse's caller); everything
// about the contents of the file is one of these.
var (
	ErrBadHeader       = errors.New("boardio: malformed header line")
	ErrWrongRowWidth   = errors.New("boardio: row width does not match board size")
	ErrNoKnight        = errors.New("boardio: no starting knight square found")
	ErrDuplicateKnight = errors.New("boardio: more than one starting knight square")
	ErrTooFewRows      = errors.New("boardio: fewer board rows than the declared size")
)

// Board is the parsed contents of an input file (spec §6): board size,
// upper bound on move count, starting knight square, and target set.
type Board struct {
	Size       int
	UpperBound int
	Start      knight.Coordinate
	Targets    *knight.TargetSet
}

// Parse reads an input file per spec §6:
//
//	Line 1: "N upper_bound"
//	Lines 2..N+1: exactly N characters each; '1' marks a target, '3' marks
//	the starting knight square (exactly one), anything else is empty.
func Parse(r io.Reader) (*Board, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		return nil, errors.Wrap(ErrBadHeader, "missing header line")
	}
	size, upperBound, err := parseHeader(scanner.Text())
	if err != nil {
		return nil, err
	}

	var (
		targets    []knight.Coordinate
		start      knight.Coordinate
		foundStart bool
	)

	for row := 0; row < size; row++ {
		if !scanner.Scan() {
			return nil, errors.Wrapf(ErrTooFewRows, "expected %d rows, got %d", size, row)
		}
		line := scanner.Text()
		if len(line) != size {
			return nil, errors.Wrapf(ErrWrongRowWidth, "row %d has width %d, want %d", row, len(line), size)
		}
		for col := 0; col < size; col++ {
			switch line[col] {
			case '1':
				targets = append(targets, knight.Coordinate{Row: row, Col: col})
			case '3':
				if foundStart {
					return nil, errors.Wrapf(ErrDuplicateKnight, "second knight at (%d,%d)", row, col)
				}
				start = knight.Coordinate{Row: row, Col: col}
				foundStart = true
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading board file")
	}
	if !foundStart {
		return nil, ErrNoKnight
	}

	return &Board{
		Size:       size,
		UpperBound: upperBound,
		Start:      start,
		Targets:    knight.NewTargetSet(targets),
	}, nil
}

func parseHeader(line string) (size, upperBound int, err error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, errors.Wrapf(ErrBadHeader, "expected 2 fields, got %d", len(fields))
	}
	size, err = strconv.Atoi(fields[0])
	if err != nil || size <= 0 {
		return 0, 0, errors.Wrapf(ErrBadHeader, "invalid board size %q", fields[0])
	}
	upperBound, err = strconv.Atoi(fields[1])
	if err != nil || upperBound < 0 {
		return 0, 0, errors.Wrapf(ErrBadHeader, "invalid upper bound %q", fields[1])
	}
	return size, upperBound, nil
}

// FormatResult renders the output line of spec §6: the input filename, step
// count, elapsed wall-clock seconds, and the move sequence as parenthesized
// coordinate pairs, with a trailing '*' on any square that was an original
// target.
func FormatResult(fileName string, elapsedSeconds float64, witness *knight.SearchState, originalTargets *knight.TargetSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File=%s, steps=%d, elapsedTime=%g, moves=", fileName, witness.Steps(), elapsedSeconds)
	for _, c := range witness.History() {
		b.WriteString(c.String())
		if originalTargets.Contains(c) {
			b.WriteByte('*')
		}
	}
	return b.String()
}
