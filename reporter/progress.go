package reporter

import (
	"github.com/schollz/progressbar/v3"
	"go-portprobe/models"
	"io"
)

// Progress decorates a Reporter with a progress bar advanced once per result.
type Progress struct {
	Reporter
	w   io.Writer
	bar *progressbar.ProgressBar
}

// WithProgress draws a progress bar on w around r.
func WithProgress(r Reporter, w io.Writer) *Progress {
	return &Progress{Reporter: r, w: w}
}

// Start sizes the bar to the target range and forwards to the wrapped reporter.
func (p *Progress) Start(target models.ScanTarget) {
	p.Reporter.Start(target)
	p.bar = progressbar.NewOptions(target.Range.Len(),
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("[cyan]scanning[reset]"),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// Result forwards res between clearing and advancing the bar.
func (p *Progress) Result(res models.ProbeResult) {
	if p.bar != nil {
		p.bar.Clear()
	}
	p.Reporter.Result(res)
	if p.bar != nil {
		p.bar.Add(1)
	}
}

// Summary finishes the bar and forwards.
func (p *Progress) Summary(s models.ScanSummary) {
	if p.bar != nil {
		p.bar.Finish()
	}
	p.Reporter.Summary(s)
}

// Failure clears the bar and forwards.
func (p *Progress) Failure(err error) {
	if p.bar != nil {
		p.bar.Clear()
	}
	p.Reporter.Failure(err)
}
