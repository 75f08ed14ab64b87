// Package rowlog implements the row-oriented text format used by flag logs.
//
// Cells are single-quote quoted string literals, except cells whose text is
// a pure numeric literal, which are written unquoted. Quoted cells may
// contain commas, quotes (doubled) and newlines, so encode/decode round
// trips are lossless. The codec is pure: it performs no I/O.
package rowlog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/flaglog/flaglog/pkg/model"
)

const quote = '\''

// ErrEmpty is returned when decoding text with no header row.
var ErrEmpty = errors.New("rowlog: empty table")

// EncodeRow encodes one row as a single line (without terminator).
func EncodeRow(cells []string) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		if isNumeric(cell) {
			b.WriteString(cell)
			continue
		}
		b.WriteByte(quote)
		for j := 0; j < len(cell); j++ {
			if cell[j] == quote {
				b.WriteByte(quote)
			}
			b.WriteByte(cell[j])
		}
		b.WriteByte(quote)
	}
	return b.String()
}

// EncodeAll encodes a header and data rows into the full file text.
func EncodeAll(header model.Header, rows []model.Record) string {
	var b strings.Builder
	b.WriteString(EncodeRow(header))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(EncodeRow(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// DecodeAll parses the full file text into a header row and data rows,
// preserving row order. Every data row must match the header cardinality.
func DecodeAll(text string) (model.Header, []model.Record, error) {
	rows, err := DecodeRows(text)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmpty
	}
	header := model.Header(rows[0])
	data := make([]model.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, nil, fmt.Errorf("rowlog: row %d has %d cells, header has %d", i, len(row), len(header))
		}
		data = append(data, model.Record(row))
	}
	return header, data, nil
}

// DecodeRows parses raw rows without header semantics (headerless logs).
func DecodeRows(text string) ([][]string, error) {
	var rows [][]string
	i, n := 0, len(text)
	for i < n {
		var row []string
		for {
			cell, next, err := parseCell(text, i)
			if err != nil {
				return nil, err
			}
			row = append(row, cell)
			i = next
			if i < n && text[i] == ',' {
				i++
				continue
			}
			break
		}
		switch {
		case i >= n:
		case text[i] == '\n':
			i++
		case text[i] == '\r' && i+1 < n && text[i+1] == '\n':
			i += 2
		default:
			return nil, fmt.Errorf("rowlog: unexpected character %q at offset %d", text[i], i)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseCell(text string, i int) (string, int, error) {
	n := len(text)
	if i < n && text[i] == quote {
		var b strings.Builder
		i++
		for {
			if i >= n {
				return "", 0, errors.New("rowlog: unterminated quoted cell")
			}
			c := text[i]
			if c == quote {
				if i+1 < n && text[i+1] == quote {
					b.WriteByte(quote)
					i += 2
					continue
				}
				return b.String(), i + 1, nil
			}
			b.WriteByte(c)
			i++
		}
	}
	start := i
	for i < n && text[i] != ',' && text[i] != '\n' && text[i] != '\r' {
		i++
	}
	return text[start:i], i, nil
}

// isNumeric reports whether the cell text is a pure numeric literal and can
// be written unquoted without changing its decoded value.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
