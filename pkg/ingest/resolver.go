package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/apex/log"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/innverse/twistats/pkg/textscan"
	"github.com/innverse/twistats/pkg/twidb/twimodel"
)

// Resolution is the outcome of classifying a previously unseen mention.
type Resolution struct {
	// TypeCode is the chosen RefType type code. Empty means no new
	// RefType is wanted.
	TypeCode string
	// Existing attributes the mention to an already stored RefType
	// instead of creating one.
	Existing *twimodel.RefType
	// Skip drops the mention entirely.
	Skip bool
}

// Resolver classifies mentions that can't be attributed automatically.
type Resolver interface {
	ResolveNewRefType(m textscan.Match, chapterTitle string, candidates []twimodel.RefType) (Resolution, error)
}

// AutoResolver skips every unresolved mention. Used by unattended
// builds; skipped mentions get picked up once an operator classifies
// them in an interactive run.
type AutoResolver struct{}

func (AutoResolver) ResolveNewRefType(m textscan.Match, chapterTitle string, _ []twimodel.RefType) (Resolution, error) {
	log.WithFields(log.Fields{
		"text":    m.Text,
		"chapter": chapterTitle,
		"line":    m.LineNumber,
	}).Info("unclassified mention skipped")
	return Resolution{Skip: true}, nil
}

// TerminalResolver prompts the operator on a terminal. Each unresolved
// mention is shown with its context plus fuzzy-matched candidates from
// the existing RefTypes.
type TerminalResolver struct {
	In  io.Reader
	Out io.Writer

	scanner *bufio.Scanner
}

func NewTerminalResolver(in io.Reader, out io.Writer) *TerminalResolver {
	return &TerminalResolver{In: in, Out: out, scanner: bufio.NewScanner(in)}
}

func (r *TerminalResolver) ResolveNewRefType(m textscan.Match, chapterTitle string, candidates []twimodel.RefType) (Resolution, error) {
	r.renderMatch(m, chapterTitle)

	if len(candidates) > 0 {
		r.renderCandidates(candidates)
		fmt.Fprintln(r.Out, "Pick a candidate number, a 2-letter type code to create, or leave blank to skip:")
	} else {
		fmt.Fprintf(r.Out, "Type codes: %s\n", strings.Join(twimodel.RefTypeCodes, " "))
		fmt.Fprintln(r.Out, "Enter a 2-letter type code to create, or leave blank to skip:")
	}

	for {
		fmt.Fprint(r.Out, "> ")
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return Resolution{}, err
			}
			return Resolution{Skip: true}, nil
		}

		answer := strings.TrimSpace(r.scanner.Text())
		if answer == "" {
			return Resolution{Skip: true}, nil
		}

		if n, err := strconv.Atoi(answer); err == nil {
			if n >= 0 && n < len(candidates) {
				return Resolution{Existing: &candidates[n]}, nil
			}
			fmt.Fprintln(r.Out, "No such candidate, try again.")
			continue
		}

		if code := twimodel.MatchRefTypeCode(answer); code != "" {
			return Resolution{TypeCode: code}, nil
		}
		fmt.Fprintf(r.Out, "Unknown type code %q, try again.\n", answer)
	}
}

func (r *TerminalResolver) renderMatch(m textscan.Match, chapterTitle string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.Out)
	t.AppendRow(table.Row{"Text", m.Text})
	t.AppendRow(table.Row{"Chapter", chapterTitle})
	t.AppendRow(table.Row{"Line", m.LineNumber})
	t.AppendRow(table.Row{"Context", m.Context})
	t.Render()
}

func (r *TerminalResolver) renderCandidates(candidates []twimodel.RefType) {
	t := table.NewWriter()
	t.SetOutputMirror(r.Out)
	t.AppendHeader(table.Row{"#", "Name", "Type"})
	for i, c := range candidates {
		t.AppendRow(table.Row{i, c.Name, twimodel.RefTypeNames[c.Type]})
	}
	t.Render()
}

// fuzzyCandidates picks existing RefTypes whose names sit close to the
// matched text. Distance-3 Levenshtein catches pluralization and small
// scraping artifacts without flooding the prompt.
func fuzzyCandidates(text string, refTypes []twimodel.RefType) []twimodel.RefType {
	const maxDistance = 3

	var out []twimodel.RefType
	for _, rt := range refTypes {
		if matchr.Levenshtein(strings.ToLower(text), strings.ToLower(rt.Name)) <= maxDistance {
			out = append(out, rt)
		}
	}
	return out
}
