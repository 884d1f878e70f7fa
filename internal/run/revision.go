package run

import (
	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/modelsite/internal/errors"
)

const shortRevision = 12

// Revision returns the abbreviated HEAD commit of the repository containing
// dir.
func Revision(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", errors.WrapError(err, errors.CategorySource, "open repository").WithPath(dir).Build()
	}
	ref, err := repo.Head()
	if err != nil {
		return "", errors.WrapError(err, errors.CategorySource, "read HEAD").WithPath(dir).Build()
	}
	hash := ref.Hash().String()
	if len(hash) > shortRevision {
		hash = hash[:shortRevision]
	}
	return hash, nil
}
