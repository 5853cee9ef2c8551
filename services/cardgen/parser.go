// Package cardgen turns AI generated markdown tables into flashcards.
package cardgen

import (
	"bytes"
	"errors"
	"strings"

	"studyflow/model"
	"studyflow/utils"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var ErrNoCards = errors.New("no flashcards found in response")

const (
	colFront = iota
	colBack
	colExample
	colTranslation
	numColumns
)

// Header keywords after NormalizeFront folding. Translation is matched first
// since "example translation" also contains "example".
var headerKeywords = [numColumns][]string{
	colFront:       {"front", "term", "word", "question", "mat truoc", "tu vung", "thuat ngu", "cau hoi", "tu"},
	colBack:        {"back", "meaning", "definition", "answer", "mat sau", "dinh nghia", "tra loi", "nghia"},
	colExample:     {"example", "vi du"},
	colTranslation: {"translation", "ban dich", "dich"},
}

var matchOrder = []int{colTranslation, colExample, colFront, colBack}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ParseMarkdownTable extracts cards from the first markdown table in src.
// Rows missing a front or a back are dropped.
func ParseMarkdownTable(src string) ([]model.Flashcard, error) {
	source := []byte(stripFences(src))
	doc := md.Parser().Parse(text.NewReader(source))

	var cards []model.Flashcard
	found := false
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		table, ok := n.(*extast.Table)
		if !ok {
			return ast.WalkContinue, nil
		}
		found = true
		cards = parseTable(table, source)
		return ast.WalkStop, nil
	})
	if err != nil {
		return nil, err
	}
	if !found || len(cards) == 0 {
		return nil, ErrNoCards
	}
	return cards, nil
}

func parseTable(table *extast.Table, source []byte) []model.Flashcard {
	var columns [numColumns]int
	for i := range columns {
		columns[i] = -1
	}

	var rows [][]string
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		cells := rowCells(child, source)
		switch child.(type) {
		case *extast.TableHeader:
			columns = mapHeader(cells)
		case *extast.TableRow:
			rows = append(rows, cells)
		}
	}

	if columns[colFront] < 0 || columns[colBack] < 0 {
		columns = [numColumns]int{0, 1, 2, 3}
	}

	cards := make([]model.Flashcard, 0, len(rows))
	for _, cells := range rows {
		card := model.Flashcard{
			Front:              cell(cells, columns[colFront]),
			Back:               cell(cells, columns[colBack]),
			Example:            cell(cells, columns[colExample]),
			ExampleTranslation: cell(cells, columns[colTranslation]),
		}
		if card.Front == "" || card.Back == "" {
			continue
		}
		cards = append(cards, card)
	}
	return cards
}

func mapHeader(cells []string) [numColumns]int {
	columns := [numColumns]int{-1, -1, -1, -1}
	used := make([]bool, len(cells))
	for _, col := range matchOrder {
		for i, h := range cells {
			if used[i] {
				continue
			}
			if headerMatches(utils.NormalizeFront(h), headerKeywords[col]) {
				columns[col] = i
				used[i] = true
				break
			}
		}
	}
	return columns
}

func headerMatches(header string, keywords []string) bool {
	words := " " + header + " "
	for _, k := range keywords {
		if strings.Contains(words, " "+k+" ") {
			return true
		}
	}
	return false
}

func rowCells(row ast.Node, source []byte) []string {
	var cells []string
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*extast.TableCell); ok {
			cells = append(cells, cellText(c, source))
		}
	}
	return cells
}

func cellText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(v.Value)
		case *ast.AutoLink:
			buf.Write(v.Label(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(buf.String()), " ")
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

// stripFences drops ``` fence lines so a table wrapped in a code block
// still parses as a table.
func stripFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "```") {
			continue
		}
		kept = append(kept, l)
	}
	return strings.Join(kept, "\n")
}

// Dedupe drops candidates whose normalised front already exists in the deck
// or earlier in the batch.
func Dedupe(existing, candidates []model.Flashcard) []model.Flashcard {
	seen := make(map[string]struct{}, len(existing)+len(candidates))
	for _, c := range existing {
		seen[utils.NormalizeFront(c.Front)] = struct{}{}
	}
	out := make([]model.Flashcard, 0, len(candidates))
	for _, c := range candidates {
		key := utils.NormalizeFront(c.Front)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
