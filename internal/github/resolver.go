package github

import (
	"context"
	"sync"

	goversion "github.com/hashicorp/go-version"
	"golang.org/x/sync/singleflight"

	vlog "github.com/futureCreator/upptime-ci/internal/log"
)

// ReleaseLister looks up the latest release tag of a repository.
type ReleaseLister interface {
	LatestReleaseTag(ctx context.Context, owner, repo string) (string, error)
}

// Resolver memoizes the latest release tag of one repository. Concurrent
// first callers share a single lookup; once a tag is resolved it is returned
// for the resolver's lifetime. Failed lookups are not cached.
type Resolver struct {
	lister ReleaseLister
	owner  string
	repo   string

	group singleflight.Group
	mu    sync.RWMutex
	tag   string
}

// NewResolver returns a Resolver for the upstream uptime monitor.
func NewResolver(lister ReleaseLister) *Resolver {
	return NewRepoResolver(lister, MonitorOwner, MonitorRepo)
}

// NewRepoResolver returns a Resolver for owner/repo.
func NewRepoResolver(lister ReleaseLister, owner, repo string) *Resolver {
	return &Resolver{lister: lister, owner: owner, repo: repo}
}

// Resolve returns the cached tag, fetching it on first use. The shared lookup
// is detached from any single caller's cancellation; each caller stops
// waiting when its own ctx is done.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if tag, ok := r.cached(); ok {
		return tag, nil
	}

	lookupCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(r.owner+"/"+r.repo, func() (any, error) {
		if tag, ok := r.cached(); ok {
			return tag, nil
		}
		tag, err := r.lister.LatestReleaseTag(lookupCtx, r.owner, r.repo)
		if err != nil {
			return "", err
		}
		if _, verr := goversion.NewVersion(tag); verr != nil {
			vlog.Warn("release tag is not a semantic version", "repo", r.owner+"/"+r.repo, "tag", tag)
		}
		vlog.Debug("resolved release", "repo", r.owner+"/"+r.repo, "tag", tag)

		r.mu.Lock()
		r.tag = tag
		r.mu.Unlock()
		return tag, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (r *Resolver) cached() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tag, r.tag != ""
}

// StaticResolver always returns a fixed tag.
type StaticResolver string

func (s StaticResolver) Resolve(context.Context) (string, error) {
	return string(s), nil
}
