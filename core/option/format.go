package option

import (
	"fmt"
	"strings"
)

// Format renders an option for logs and the command line
func Format(o *Option) string {
	var sb strings.Builder

	target := o.TargetPhrase()
	fmt.Fprintf(&sb, "%s %q", o.SourceRange(), target.String())
	if src := o.SourcePhrase(); src != nil {
		fmt.Fprintf(&sb, " <- %q", src.String())
	}
	fmt.Fprintf(&sb, " future=%.4f", o.FutureScore())

	if breakdown := o.ScoreBreakdown(); len(breakdown) > 0 {
		fmt.Fprintf(&sb, " scores={%s}", breakdown)
	}
	if reordering := o.ReorderingScore(); reordering != nil {
		fmt.Fprintf(&sb, " reordering[%s]={%s}", o.ReorderingProducer(), reordering)
	}
	if o.DecodeGraphID() != NoDecodeGraph {
		fmt.Fprintf(&sb, " graph=%d", o.DecodeGraphID())
	}
	return sb.String()
}
