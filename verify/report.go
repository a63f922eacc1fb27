package verify

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/bcastnet/bcast"
	"github.com/sarchlab/bcastnet/cgra"
	"github.com/sarchlab/bcastnet/core"
)

// Report bundles what is known about one network configuration.
type Report struct {
	Title        string
	Network      bcast.Network
	Instructions int
	Issues       []Issue
	State        map[cgra.TileLoc]core.TileState
}

// NewReport lints the build and reset programs of a network and attaches the
// device state taken after the build.
func NewReport(
	title string,
	net bcast.Network,
	build, reset bcast.Program,
	state map[cgra.TileLoc]core.TileState,
) *Report {
	issues := Lint(net, build)
	issues = append(issues, Lint(net, reset)...)
	issues = append(issues, CheckRetraction(build, reset)...)

	return &Report{
		Title:        title,
		Network:      net,
		Instructions: len(build),
		Issues:       issues,
		State:        state,
	}
}

// OK tells if the report has no issue.
func (r *Report) OK() bool {
	return len(r.Issues) == 0
}

// WriteReport writes the report as tables.
func (r *Report) WriteReport(w io.Writer) {
	n := r.Network

	fmt.Fprintf(w, "%s: window %s, channels %d/%d, %d tiles, %d instructions\n",
		r.Title, n.Window, n.Channel1, n.Channel2,
		n.Footprint.NumTiles(), r.Instructions)

	if len(r.State) > 0 {
		fmt.Fprintln(w, StateTable(r.State))
	}

	if r.OK() {
		fmt.Fprintln(w, "No lint issues found")
		return
	}

	fmt.Fprintln(w, IssueTable(r.Issues))
}

// StateTable renders the sources and blocked links of every tile.
func StateTable(states map[cgra.TileLoc]core.TileState) string {
	t := table.NewWriter()
	t.SetTitle("Broadcast State")
	t.AppendHeader(table.Row{"Tile", "Module", "Switch", "Channel", "Source", "Blocked"})

	locs := make([]cgra.TileLoc, 0, len(states))
	for loc := range states {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].Col != locs[j].Col {
			return locs[i].Col < locs[j].Col
		}
		return locs[i].Row < locs[j].Row
	})

	for _, loc := range locs {
		s := states[loc]

		for _, src := range s.Sources {
			t.AppendRow(table.Row{
				loc, src.Module.Name(), "", src.Channel,
				fmt.Sprintf("ev%d", src.Event), "",
			})
		}

		for _, l := range s.Links {
			t.AppendRow(table.Row{
				loc, l.Module.Name(), l.Switch.Name(), l.Channel, "", l.Blocked,
			})
		}

		t.AppendSeparator()
	}

	return t.Render()
}

// IssueTable renders lint issues.
func IssueTable(issues []Issue) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("Lint Issues (%d)", len(issues)))
	t.AppendHeader(table.Row{"Type", "Instruction", "Tile", "Message"})

	for _, issue := range issues {
		idx := "-"
		if issue.Index >= 0 {
			idx = fmt.Sprint(issue.Index)
		}

		t.AppendRow(table.Row{issue.Type, idx, issue.Loc, issue.Message})
	}

	return t.Render()
}
