package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/justyntemme/skiff/internal/backend"
	"github.com/justyntemme/skiff/internal/log"
	"github.com/justyntemme/skiff/internal/view"
)

type lsOptions struct {
	view    string
	hidden  bool
	disks   bool
	noColor bool
	width   int
}

func newLsCmd(a *App) *cobra.Command {
	o := lsOptions{}
	cmd := &cobra.Command{
		Use:   "ls [dir]",
		Short: "Print a directory listing the way the window renders it",
		Args:  cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// keep stdout for the listing
			log.SetLevel("warn")
			return a.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runLs(cmd.Context(), a, o, dir, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&o.view, "view", "", "wrap|column (default from config)")
	cmd.Flags().BoolVar(&o.hidden, "hidden", false, "show dot files")
	cmd.Flags().BoolVar(&o.disks, "disks", false, "list mounted disks instead of a directory")
	cmd.Flags().BoolVar(&o.noColor, "no-color", false, "plain output")
	cmd.Flags().IntVar(&o.width, "width", 100, "output width in columns")
	return cmd
}

func runLs(ctx context.Context, a *App, o lsOptions, dir string, out io.Writer) error {
	cfg := a.cfg

	mode, _ := view.ParseMode(cfg.UI.ViewMode)
	if o.view != "" {
		m, ok := view.ParseMode(o.view)
		if !ok {
			return fmt.Errorf("unknown view %q, want wrap or column", o.view)
		}
		mode = m
	}

	providers, err := cloudProviders(ctx, cfg)
	if err != nil {
		return err
	}
	opts := backendOptions(cfg, backend.NewMemorySettings(), providers)
	opts.WatchDebounce = 0
	sys := backend.NewSystem(opts)
	defer sys.Close()

	req := backend.Request{Command: backend.ListDirs}
	switch {
	case o.disks:
		req = backend.Request{Command: backend.ListDisks}
	case dir != "":
		req = backend.Request{Command: backend.GoToDir, Directory: dir}
	}
	resp := sys.Handle(ctx, req)
	if err := resp.Err(); err != nil {
		return err
	}

	var l view.Listing
	if o.disks {
		l = view.RenderDisks(resp.Disks, mode)
	} else {
		l = view.Render(resp.Entries, mode, o.hidden || cfg.UI.ShowHidden)
		l.PathLabel = resp.Dir
	}

	if o.noColor || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	} else {
		lipgloss.SetColorProfile(termenv.ColorProfile())
	}
	_, err = io.WriteString(out, renderListing(l, o.width))
	return err
}

var (
	lsHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6c757d"))
	lsDirStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5f87d7"))
	lsMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a"))
	lsIconStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#d7af5f"))
)

// renderListing prints rows as a table in list mode and as packed cells in
// grid mode, followed by the count line.
func renderListing(l view.Listing, width int) string {
	if width < 40 {
		width = 40
	}
	var b strings.Builder
	if l.PathLabel != "" {
		b.WriteString(lsHeaderStyle.Render(l.PathLabel))
		b.WriteString("\n")
	}
	if l.Mode == view.ModeList {
		renderTable(&b, l, width)
	} else {
		renderCells(&b, l, width)
	}
	b.WriteString(lsMutedStyle.Render(l.CountLabel))
	b.WriteString("\n")
	return b.String()
}

// iconW fits the longest tag, "[spreadsheet]".
const iconW = 13

func iconTag(i view.Icon) string {
	return lsIconStyle.Render(fmt.Sprintf("%-*s", iconW, "["+i.String()+"]"))
}

func styledName(r view.Row) string {
	if r.IsDir {
		return lsDirStyle.Render(r.Name)
	}
	return r.Name
}

// pad cuts s to w terminal cells and pads it with spaces.
func pad(s string, w int) string {
	s = xansi.Truncate(s, w, "…")
	if n := xansi.StringWidth(s); n < w {
		s += strings.Repeat(" ", w-n)
	}
	return s
}

func renderTable(b *strings.Builder, l view.Listing, width int) {
	cols := [3]string{"Name", "Modified", "Size"}
	if l.Disks {
		cols = [3]string{"Disk", "Free", "Capacity"}
	}
	const midW, lastW = 18, 10
	nameW := width - midW - lastW - iconW - 3

	b.WriteString(lsHeaderStyle.Render(pad("", iconW+1) + pad(cols[0], nameW) + " " + pad(cols[1], midW) + " " + cols[2]))
	b.WriteString("\n")
	for _, r := range l.Rows {
		mid, last := r.Modified, r.Size
		if l.Disks {
			mid, last = r.Load, r.Capacity
		}
		b.WriteString(iconTag(r.Icon) + " ")
		b.WriteString(pad(styledName(r), nameW))
		b.WriteString(" " + lsMutedStyle.Render(pad(mid, midW)))
		b.WriteString(" " + lsMutedStyle.Render(last))
		b.WriteString("\n")
	}
}

func renderCells(b *strings.Builder, l view.Listing, width int) {
	const cellW = 36
	perLine := width / cellW
	if perLine < 1 {
		perLine = 1
	}
	for i, r := range l.Rows {
		b.WriteString(pad(iconTag(r.Icon)+" "+styledName(r), cellW))
		if (i+1)%perLine == 0 || i == len(l.Rows)-1 {
			b.WriteString("\n")
		}
	}
}
