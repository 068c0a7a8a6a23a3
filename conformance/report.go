package conformance

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/richinsley/glcontext/graphics"
)

// Print writes one line per step and a summary line. Colors are used only
// when w is a terminal that supports them.
func (r *Report) Print(w io.Writer) {
	out := termenv.NewOutput(w)
	okStr := out.String("ok").Foreground(termenv.ANSIGreen).String()
	failStr := out.String("FAILED").Foreground(termenv.ANSIRed).Bold().String()
	skipStr := out.String("skip").Foreground(termenv.ANSIYellow).String()

	for _, res := range r.Results {
		switch {
		case res.Skipped != "":
			fmt.Fprintf(w, "%s %s/%s (%s)\n", skipStr, r.Backend, res.Name, res.Skipped)
		case res.Err != nil:
			fmt.Fprintf(w, "%s %s/%s: %v\n", failStr, r.Backend, res.Name, res.Err)
		default:
			fmt.Fprintf(w, "%s %s/%s\n", okStr, r.Backend, res.Name)
		}
	}
	if f, failed := r.Failure(); failed {
		fmt.Fprintf(w, "%s %s: failed at %s with %v\n", failStr, r.Backend, f.Name, graphics.KindOf(f.Err))
		return
	}
	fmt.Fprintf(w, "%s %s: %d steps\n", okStr, r.Backend, len(r.Results))
}
