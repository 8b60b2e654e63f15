package models

import (
	"fmt"
	"time"
)

type (
	// RepositoryRef identifies a repository by owner login and name.
	RepositoryRef struct {
		Owner string `json:"owner" yaml:"owner"`
		Name  string `json:"name" yaml:"name"`
	}

	// Owner is the projected owner of a repository.
	Owner struct {
		Login string `json:"login" yaml:"login"`
	}

	// ForkRecord is the projected view of a repository (the original or one of its forks)
	// together with the divergence markers computed during a run.
	ForkRecord struct {
		FullName         string           `json:"full_name" yaml:"full_name"`
		Name             string           `json:"name" yaml:"name"`
		DefaultBranch    string           `json:"default_branch" yaml:"default_branch"`
		StargazersCount  int              `json:"stargazers_count" yaml:"stargazers_count"`
		Forks            int              `json:"forks" yaml:"forks"`
		OpenIssuesCount  int              `json:"open_issues_count" yaml:"open_issues_count"`
		Size             int              `json:"size" yaml:"size"`
		PushedAt         time.Time        `json:"pushed_at" yaml:"pushed_at"`
		Owner            Owner            `json:"owner" yaml:"owner"`
		DiffFromOriginal DivergenceMarker `json:"diff_from_original,omitempty" yaml:"diff_from_original,omitempty"`
		DiffToOriginal   DivergenceMarker `json:"diff_to_original,omitempty" yaml:"diff_to_original,omitempty"`
	}

	// DivergenceReport is the result of a single engine run. Original is always
	// emitted first by Records. RateLimited counts forks left with zero markers
	// because the API quota ran out during their comparisons.
	DivergenceReport struct {
		Original    ForkRecord    `json:"original" yaml:"original"`
		Forks       []ForkRecord  `json:"forks" yaml:"forks"`
		Processed   int           `json:"processed" yaml:"processed"`
		DedupHits   int           `json:"dedup_hits" yaml:"dedup_hits"`
		RateLimited int           `json:"rate_limited" yaml:"rate_limited"`
		Cancelled   bool          `json:"cancelled" yaml:"cancelled"`
		Quota       QuotaSnapshot `json:"quota" yaml:"quota"`
	}
)

func (r RepositoryRef) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// IsValid reports whether the record has the shape of a repository: an owner and a full name.
func (f *ForkRecord) IsValid() bool {
	return f != nil && f.FullName != "" && f.Owner.Login != ""
}

// BranchRef is the cross-repository ref used by the compare endpoint ("owner:branch").
func (f *ForkRecord) BranchRef() string {
	return fmt.Sprintf("%s:%s", f.Owner.Login, f.DefaultBranch)
}

// HasDivergence reports whether both directional markers were populated.
func (f *ForkRecord) HasDivergence() bool {
	return !f.DiffFromOriginal.IsEmpty() && !f.DiffToOriginal.IsEmpty()
}

// Records returns the original repository followed by the forks, in discovery order.
func (r *DivergenceReport) Records() []ForkRecord {
	records := make([]ForkRecord, 0, len(r.Forks)+1)
	records = append(records, r.Original)
	records = append(records, r.Forks...)
	return records
}
