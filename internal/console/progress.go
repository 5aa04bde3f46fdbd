package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
)

// Progress draws a download progress bar on a single, redrawn line.
// Update matches binary.ProgressFunc.
type Progress struct {
	mu      sync.Mutex
	w       io.Writer
	label   string
	bar     progress.Model
	lastPct int
	drawn   bool
	done    bool
}

// NewProgress creates a progress bar prefixed with label.
func NewProgress(w io.Writer, label string) *Progress {
	return &Progress{
		w:       w,
		label:   label,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		lastPct: -1,
	}
}

// Update redraws the bar when the whole percentage changes. Calls with an
// unknown total are ignored.
func (p *Progress) Update(downloaded, total int64) {
	if total <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return
	}

	ratio := float64(downloaded) / float64(total)
	if ratio > 1 {
		ratio = 1
	}
	pct := int(ratio * 100)
	if pct == p.lastPct {
		return
	}
	p.lastPct = pct

	fmt.Fprintf(p.w, "\r%s %s %s", p.label, p.bar.ViewAs(ratio), formatBytes(downloaded))
	p.drawn = true

	if downloaded >= total {
		fmt.Fprintln(p.w)
		p.done = true
	}
}

// Finish terminates the bar line if the download ended before 100%.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.drawn && !p.done {
		fmt.Fprintln(p.w)
	}
	p.done = true
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
