package ui

import (
	"fmt"
	"io"
	"strings"
)

// Checkpoint is a fixed step of a deploy as seen by the uploader
type Checkpoint struct {
	Percent int
	Text    string
}

var (
	CheckpointStart     = Checkpoint{Percent: 0, Text: "Mempersiapkan file..."}
	CheckpointUploading = Checkpoint{Percent: 25, Text: "Mengunggah file..."}
	CheckpointDeploying = Checkpoint{Percent: 75, Text: "Mendeploy ke Netlify..."}
	CheckpointSuccess   = Checkpoint{Percent: 100, Text: "Deploy berhasil!"}
)

const progressWidth = 40

// Progress draws a single-line bar that is redrawn in place at each
// checkpoint
type Progress struct {
	w       io.Writer
	current Checkpoint
	done    bool
}

// NewProgress creates a Progress writing to w
func NewProgress(w io.Writer) *Progress {
	return &Progress{w: w}
}

// Update redraws the bar at cp. Reaching 100% ends the line.
func (p *Progress) Update(cp Checkpoint) {
	if p.done {
		return
	}
	p.current = cp

	completed := progressWidth * cp.Percent / 100
	bar := strings.Repeat("█", completed) + strings.Repeat("░", progressWidth-completed)
	fmt.Fprintf(p.w, "\r[%s] %3d%% %s", bar, cp.Percent, cp.Text)

	if cp.Percent >= 100 {
		fmt.Fprintln(p.w)
		p.done = true
	}
}

// Abort ends the bar line without reaching 100%, so that an error message
// starts on its own line
func (p *Progress) Abort() {
	if p.done {
		return
	}
	fmt.Fprintln(p.w)
	p.done = true
}

// Current returns the last drawn checkpoint
func (p *Progress) Current() Checkpoint {
	return p.current
}
