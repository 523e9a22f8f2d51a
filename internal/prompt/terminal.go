package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"moviefmt/internal/identification"
	"moviefmt/internal/identification/tmdb"
	"moviefmt/internal/parser"
	"moviefmt/internal/services"
	"moviefmt/internal/textutil"
)

// Terminal prompts an operator through a line-oriented reader and writer.
type Terminal struct {
	in       *bufio.Reader
	out      io.Writer
	colorize bool
}

var (
	_ identification.Chooser    = (*Terminal)(nil)
	_ identification.IDPrompter = (*Terminal)(nil)
)

// NewTerminal builds a prompt reading answers from in and writing to out.
// Colors are enabled when out is a terminal.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	colorize := false
	if file, ok := out.(*os.File); ok {
		colorize = IsInteractive(file)
	}
	return &Terminal{in: bufio.NewReader(in), out: out, colorize: colorize}
}

// IsInteractive reports whether file is attached to a terminal.
func IsInteractive(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ChooseCandidate lists every candidate and reads an index. The extra index
// len(candidates) stands for none of the above. Invalid answers re-prompt.
func (t *Terminal) ChooseCandidate(ctx context.Context, folder *parser.Folder, candidates []tmdb.Record) (int, error) {
	fmt.Fprintf(t.out, "\nPossible matches for %s\n", folder.Path)
	fmt.Fprintln(t.out, t.renderCandidates(folder, candidates))
	question := fmt.Sprintf("Select match for %s (%s) [0-%d]: ", folder.Title, folder.Year, len(candidates))
	for {
		line, err := t.ask(ctx, question)
		if err != nil {
			return 0, err
		}
		index, err := strconv.Atoi(line)
		if err != nil || index < 0 || index > len(candidates) {
			fmt.Fprintf(t.out, "Enter a number between 0 and %d.\n", len(candidates))
			continue
		}
		return index, nil
	}
}

// PromptID asks for a TMDB id. A blank answer declines.
func (t *Terminal) PromptID(ctx context.Context, folder *parser.Folder) (int64, bool, error) {
	fmt.Fprintf(t.out, "\nNo TMDB results for %s (%s) at %s\n", folder.Title, folder.Year, folder.Path)
	for {
		line, err := t.ask(ctx, "Enter a TMDB id, or leave blank to skip: ")
		if err != nil {
			return 0, false, err
		}
		if line == "" {
			return 0, false, nil
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(line, "tmdbid-"), 10, 64)
		if err != nil || id <= 0 {
			fmt.Fprintln(t.out, "A TMDB id is a positive number.")
			continue
		}
		return id, true, nil
	}
}

func (t *Terminal) ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(t.out, question)
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
		return "", services.Wrap(services.ErrValidation, "prompt", "read answer", "input closed", err)
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) renderCandidates(folder *parser.Folder, candidates []tmdb.Record) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Title", "Original Title", "Released", "TMDB ID", "Similarity"})
	for i, candidate := range candidates {
		score := max(
			textutil.Similarity(folder.Title, candidate.Title),
			textutil.Similarity(folder.Title, candidate.OriginalTitle),
		)
		similarity := fmt.Sprintf("%.2f", score)
		if t.colorize && score >= 0.999 {
			similarity = text.Colors{text.FgGreen, text.Bold}.Sprint(similarity)
		}
		tw.AppendRow(table.Row{i, candidate.Title, candidate.OriginalTitle, candidate.ReleaseDate, candidate.ID, similarity})
	}
	tw.AppendFooter(table.Row{len(candidates), "None of the above", "", "", "", ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	return tw.Render()
}
