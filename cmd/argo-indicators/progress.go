package main

import (
	"io"
	"math"

	"github.com/schollz/progressbar/v3"
)

// fetchProgress adapts provider progress reports to a terminal progress bar.
// The bar is created on the first report so fast local sources print nothing.
type fetchProgress struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newFetchProgress(w io.Writer) *fetchProgress {
	return &fetchProgress{w: w, bar: nil}
}

// Update implements provider.OnDownloadProgress.
func (p *fetchProgress) Update(current, total float64, message string) {
	if p.bar == nil {
		p.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription(message),
			progressbar.OptionClearOnFinish(),
		)
	}

	percent := 100
	if total > 0 {
		percent = int(math.Min(100, math.Max(0, current/total*100)))
	}

	p.bar.Describe(message)
	_ = p.bar.Set(percent)
}

func (p *fetchProgress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
