// Package verify checks broadcast configuration programs without a device and
// renders device state for inspection.
package verify

import (
	"fmt"

	"github.com/sarchlab/bcastnet/cgra"
)

// IssueType is the class of a lint issue.
type IssueType string

const (
	IssueStruct  IssueType = "STRUCT"  // Instruction outside the network (tile, module, channel)
	IssueNetwork IssueType = "NETWORK" // Masks or sources that break the broadcast shape
	IssueRetract IssueType = "RETRACT" // Configuration a reset leaves behind
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType
	Index   int // Instruction index or -1
	Loc     cgra.TileLoc
	Message string
	Details map[string]interface{}
}

func (i Issue) String() string {
	if i.Index < 0 {
		return fmt.Sprintf("%s %s: %s", i.Type, i.Loc, i.Message)
	}

	return fmt.Sprintf("%s #%d %s: %s", i.Type, i.Index, i.Loc, i.Message)
}

// Filter returns the issues of one type.
func Filter(issues []Issue, t IssueType) []Issue {
	var out []Issue
	for _, issue := range issues {
		if issue.Type == t {
			out = append(out, issue)
		}
	}

	return out
}
