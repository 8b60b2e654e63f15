package ui

import (
	"fmt"
	"time"

	"github.com/thomas-vilte/forkdiff/internal/i18n"
	"github.com/thomas-vilte/forkdiff/internal/models"
	"github.com/thomas-vilte/forkdiff/internal/ratelimit"
)

// ForkProgress shows how many forks have been compared and what is left of
// the API quota while a divergence run is in progress.
type ForkProgress struct {
	t       *i18n.Translations
	spinner *SmartSpinner
	now     func() time.Time
}

func NewForkProgress(t *i18n.Translations) *ForkProgress {
	return &ForkProgress{t: t, now: time.Now}
}

func (p *ForkProgress) Start(total int) {
	p.spinner = NewSmartSpinner(p.message(0, total, models.QuotaSnapshot{}))
	p.spinner.Start()
}

func (p *ForkProgress) Update(processed, total int, quota models.QuotaSnapshot) {
	if p.spinner == nil {
		return
	}
	p.spinner.UpdateMessage(p.message(processed, total, quota))
}

// Finish stops the spinner, if one was started, and prints the final quota.
func (p *ForkProgress) Finish(quota models.QuotaSnapshot) {
	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
	}
	_, _ = Dim.Fprintln(ErrOut, p.quota(quota))
}

func (p *ForkProgress) message(processed, total int, quota models.QuotaSnapshot) string {
	return p.t.GetMessage("forks.progress", 0, map[string]interface{}{
		"Processed": processed,
		"Total":     total,
		"Quota":     p.quota(quota),
	})
}

func (p *ForkProgress) quota(quota models.QuotaSnapshot) string {
	return fmt.Sprintf("%s %s", p.t.GetMessage("quota.label", 0, nil), ratelimit.Describe(quota, p.now()))
}
