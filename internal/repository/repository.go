// Package repository resolves the repository a run is about, either from user
// input or from the remote of a local clone.
package repository

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	domainErrors "github.com/thomas-vilte/forkdiff/internal/errors"
	"github.com/thomas-vilte/forkdiff/internal/models"
	"github.com/thomas-vilte/forkdiff/internal/regex"
)

const DefaultRemote = "origin"

// Normalize strips the decorations users commonly paste around a repository
// name: whitespace, a github.com URL prefix, a ".git" suffix and surrounding slashes.
func Normalize(input string) string {
	repo := strings.Join(strings.Fields(input), "")
	repo = regex.GitHubURL.ReplaceAllString(repo, "")
	repo = strings.TrimSuffix(repo, ".git")
	return strings.Trim(repo, "/")
}

// Parse turns user input into a repository reference.
func Parse(input string) (models.RepositoryRef, error) {
	repo := Normalize(input)
	if !regex.RepositoryName.MatchString(repo) {
		return models.RepositoryRef{}, domainErrors.ErrInvalidRepository.
			WithContext("input", input)
	}

	owner, name, _ := strings.Cut(repo, "/")
	return models.RepositoryRef{Owner: owner, Name: name}, nil
}

// FromGitRemote reads the URL of remote in the git repository containing dir
// and returns the GitHub repository it points to.
func FromGitRemote(dir, remote string) (models.RepositoryRef, error) {
	if remote == "" {
		remote = DefaultRemote
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return models.RepositoryRef{}, domainErrors.ErrNoGitRemote.
			WithError(err).
			WithContext("dir", dir)
	}

	r, err := repo.Remote(remote)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return models.RepositoryRef{}, domainErrors.ErrNoGitRemote.
				WithContext("remote", remote)
		}
		return models.RepositoryRef{}, domainErrors.ErrNoGitRemote.WithError(err)
	}

	for _, url := range r.Config().URLs {
		if ref, ok := ParseRemoteURL(url); ok {
			return ref, nil
		}
	}
	return models.RepositoryRef{}, domainErrors.ErrNoGitRemote.
		WithContext("remote", remote).
		WithContext("urls", strings.Join(r.Config().URLs, ", "))
}

// ParseRemoteURL extracts owner and name from an SSH, ssh:// or HTTPS remote URL.
func ParseRemoteURL(url string) (models.RepositoryRef, bool) {
	url = strings.TrimSpace(url)

	for _, re := range []*regexp.Regexp{regex.SSHRepo, regex.SSHURLRepo, regex.HTTPSRepo} {
		matches := re.FindStringSubmatch(url)
		if len(matches) != 4 {
			continue
		}
		ref := models.RepositoryRef{Owner: matches[2], Name: matches[3]}
		if !regex.RepositoryName.MatchString(ref.String()) {
			return models.RepositoryRef{}, false
		}
		return ref, true
	}
	return models.RepositoryRef{}, false
}
