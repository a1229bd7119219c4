package commands

import (
	"fmt"
	"io"

	"go.trai.ch/chtl/internal/app"
	"go.trai.ch/chtl/internal/core/domain"
)

// printReport writes one line per outcome followed by the run's warnings.
func printReport(w io.Writer, r app.EntryReport) {
	_, _ = fmt.Fprintf(w, "%s\n", r.Entry)
	for _, o := range r.Outcomes {
		_, _ = fmt.Fprintf(w, "  %-9s %s", outcomeLabel(o), o.Target)
		if !o.Success {
			_, _ = fmt.Fprintf(w, " (%s)", o.Kind)
			if len(o.Errors) > 0 {
				_, _ = fmt.Fprintf(w, ": %s", o.Errors[0])
			}
		}
		_, _ = fmt.Fprintln(w)
	}
	for _, warning := range r.Warnings {
		_, _ = fmt.Fprintf(w, "  warning   %s\n", warning)
	}
}

func outcomeLabel(o domain.ImportOutcome) string {
	switch {
	case !o.Success:
		return "failed"
	case o.WasCached:
		return "cached"
	case o.WasDuplicate:
		return "duplicate"
	default:
		return "ok"
	}
}

func printStatistics(w io.Writer, s domain.Statistics) {
	_, _ = fmt.Fprintf(w, "total imports:          %d\n", s.TotalImports)
	_, _ = fmt.Fprintf(w, "unique targets:         %d\n", s.UniqueTargets)
	_, _ = fmt.Fprintf(w, "duplicate imports:      %d\n", s.DuplicateImports)
	_, _ = fmt.Fprintf(w, "circular dependencies:  %d\n", s.CircularDependencies)
	_, _ = fmt.Fprintf(w, "cached loads:           %d\n", s.CachedLoads)
	_, _ = fmt.Fprintf(w, "average depth:          %.2f\n", s.AverageDependencyDepth)
}
