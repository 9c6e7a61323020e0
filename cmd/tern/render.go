package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"tern/internal/diag"
	"tern/internal/driver"
	"tern/internal/observ"
	"tern/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan)
	okColor   = color.New(color.FgGreen, color.Bold)
	dimColor  = color.New(color.Faint)
)

func renderResult(w io.Writer, res *driver.Result, files *source.FileSet) {
	if res.CacheHit {
		fmt.Fprintf(w, "%s %s: %d specializations (cached)\n",
			okColor.Sprint("ok"), res.Summary.UnitName, len(res.Summary.Specializations))
		return
	}

	renderBag(w, res.Sema.Bag, files)
	if res.MonoBag != nil {
		renderBag(w, res.MonoBag, files)
	}

	sum := res.Summary
	if sum.ErrorCount > 0 {
		fmt.Fprintf(w, "%s %s: %d error(s)\n", errColor.Sprint("fail"), sum.UnitName, sum.ErrorCount)
		return
	}
	fmt.Fprintf(w, "%s %s: %d functions, %d types specialized\n",
		okColor.Sprint("ok"), sum.UnitName, sum.FuncCount, sum.TypeCount)
}

func renderBag(w io.Writer, bag *diag.Bag, files *source.FileSet) {
	for _, d := range bag.Items() {
		var sev string
		switch d.Severity {
		case diag.SevError:
			sev = errColor.Sprint("error")
		case diag.SevWarning:
			sev = warnColor.Sprint("warning")
		default:
			sev = infoColor.Sprint("info")
		}
		fmt.Fprintf(w, "%s[%s]%s %s\n", sev, d.Code, dimColor.Sprint(formatLoc(files, d.Primary)), d.Message)
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s\n", dimColor.Sprint("note:"), n.Msg)
		}
	}
}

// formatLoc resolves a span to path:line:col when its file is known,
// falling back to raw offsets.
func formatLoc(files *source.FileSet, sp source.Span) string {
	if sp.Empty() {
		return ""
	}
	if files != nil {
		if f := files.Get(sp.File); f != nil {
			if pos, ok := files.Position(sp.File, sp.Start); ok {
				return fmt.Sprintf(" %s:%d:%d", f.Path, pos.Line, pos.Col)
			}
		}
	}
	return fmt.Sprintf(" @%d:%d-%d", sp.File, sp.Start, sp.End)
}

func renderTimings(w io.Writer, rep observ.Report) {
	for _, p := range rep.Phases {
		line := fmt.Sprintf("  %-10s %8.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			line += "  " + dimColor.Sprint(p.Note)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "  %-10s %8.2f ms\n", "total", rep.TotalMS)
}
