package verify

import (
	"fmt"
	"slices"

	"github.com/sarchlab/bcastnet/bcast"
	"github.com/sarchlab/bcastnet/cgra"
)

type linkTarget struct {
	loc    cgra.TileLoc
	module cgra.Module
	sw     cgra.Switch
	ch     bcast.Channel
	op     bcast.Opcode
}

// Lint checks a build or reset program against the network it claims to
// configure.
//
// STRUCT: every instruction must stay inside the footprint, on a module the
// tile's role carries, on one of the two network channels.
// NETWORK: every block keeps South and West closed, the vertical channel is
// never blocked North on the top tile of a column, and no link or source is
// written twice.
func Lint(net bcast.Network, prog bcast.Program) []Issue {
	var issues []Issue

	if err := net.Validate(); err != nil {
		return append(issues, Issue{
			Type:    IssueStruct,
			Index:   -1,
			Message: err.Error(),
		})
	}

	seen := make(map[linkTarget]int)

	for i, inst := range prog {
		if issue, ok := lintPlacement(net, i, inst); !ok {
			issues = append(issues, issue)
			continue
		}

		key := linkTarget{inst.Loc, inst.Module, inst.Switch, inst.Channel, inst.Op}
		if prev, dup := seen[key]; dup {
			issues = append(issues, Issue{
				Type:    IssueNetwork,
				Index:   i,
				Loc:     inst.Loc,
				Message: fmt.Sprintf("%s repeats instruction %d", inst, prev),
				Details: map[string]interface{}{"prev": prev},
			})
		}
		seen[key] = i

		if inst.Op != bcast.OpBlock {
			continue
		}

		if !inst.Dirs.Has(cgra.South) || !inst.Dirs.Has(cgra.West) {
			issues = append(issues, Issue{
				Type:    IssueNetwork,
				Index:   i,
				Loc:     inst.Loc,
				Message: fmt.Sprintf("%s leaves South or West open", inst),
			})
		}

		top := net.Footprint.Top(net.Window, inst.Loc.Col)
		if inst.Channel == net.Channel1 && inst.Loc.Row == top &&
			inst.Dirs.Has(cgra.North) {
			issues = append(issues, Issue{
				Type:    IssueNetwork,
				Index:   i,
				Loc:     inst.Loc,
				Message: fmt.Sprintf("%s blocks North on the top tile", inst),
				Details: map[string]interface{}{"top": top},
			})
		}
	}

	return issues
}

func lintPlacement(net bcast.Network, i int, inst bcast.Instruction) (Issue, bool) {
	issue := Issue{Type: IssueStruct, Index: i, Loc: inst.Loc}

	if !net.Window.Contains(inst.Loc.Col) {
		issue.Message = fmt.Sprintf("%s outside window %s", inst, net.Window)
		return issue, false
	}

	top := net.Footprint.Top(net.Window, inst.Loc.Col)
	if inst.Loc.Row < 0 || inst.Loc.Row > top {
		issue.Message = fmt.Sprintf("%s above column top %d", inst, top)
		issue.Details = map[string]interface{}{"top": top}
		return issue, false
	}

	role := cgra.ClassifyRow(inst.Loc.Row, net.RowOffset)
	if !slices.Contains(role.Modules(), inst.Module) {
		issue.Message = fmt.Sprintf("%s on a %s tile", inst, role)
		issue.Details = map[string]interface{}{"role": role.Name()}
		return issue, false
	}

	if inst.Channel != net.Channel1 && inst.Channel != net.Channel2 {
		issue.Message = fmt.Sprintf("%s on a foreign channel", inst)
		return issue, false
	}

	return issue, true
}

// CheckRetraction reports every source and every blocked side the build
// program configures that the reset program does not clear.
func CheckRetraction(build, reset bcast.Program) []Issue {
	type sourceKey struct {
		loc    cgra.TileLoc
		module cgra.Module
		ch     bcast.Channel
	}
	type maskKey struct {
		loc    cgra.TileLoc
		module cgra.Module
		sw     cgra.Switch
		ch     bcast.Channel
	}

	sources := make(map[sourceKey]int)
	masks := make(map[maskKey]cgra.DirMask)
	firstWrite := make(map[maskKey]int)

	apply := func(prog bcast.Program) {
		for i, inst := range prog {
			sk := sourceKey{inst.Loc, inst.Module, inst.Channel}
			mk := maskKey{inst.Loc, inst.Module, inst.Switch, inst.Channel}

			switch inst.Op {
			case bcast.OpSetSource:
				sources[sk] = i
			case bcast.OpClearSource:
				delete(sources, sk)
			case bcast.OpBlock:
				if _, ok := masks[mk]; !ok {
					firstWrite[mk] = i
				}
				masks[mk] |= inst.Dirs
			case bcast.OpUnblock:
				masks[mk] &^= inst.Dirs
			}
		}
	}

	apply(build)
	apply(reset)

	var issues []Issue

	for k, i := range sources {
		issues = append(issues, Issue{
			Type:    IssueRetract,
			Index:   i,
			Loc:     k.loc,
			Message: fmt.Sprintf("%s channel %d still sourced", k.module.Name(), k.ch),
		})
	}

	for k, m := range masks {
		if m == cgra.DirNone {
			continue
		}

		issues = append(issues, Issue{
			Type:  IssueRetract,
			Index: firstWrite[k],
			Loc:   k.loc,
			Message: fmt.Sprintf("%s.%s channel %d still blocks [%s]",
				k.module.Name(), k.sw.Name(), k.ch, m),
		})
	}

	slices.SortFunc(issues, func(a, b Issue) int { return a.Index - b.Index })

	return issues
}
