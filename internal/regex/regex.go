package regex

import "regexp"

var (
	// Repository identifiers
	RepositoryName = regexp.MustCompile(`^[-_\w]+/[-_.\w]+$`)
	GitHubURL      = regexp.MustCompile(`^(?i)https?://(?:www\.)?github\.com/`)

	// Git remote patterns
	SSHRepo    = regexp.MustCompile(`^git@([^:]+):([^/]+)/(.+?)(?:\.git)?$`)
	SSHURLRepo = regexp.MustCompile(`^ssh://(?:[^@/]+@)?([^/:]+)(?::\d+)?/([^/]+)/(.+?)(?:\.git)?$`)
	HTTPSRepo  = regexp.MustCompile(`^https?://(?:[^@/]+@)?([^/]+)/([^/]+)/(.+?)(?:\.git)?/?$`)
)
