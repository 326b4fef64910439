package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/planboard/internal/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ReplicatedStore mirrors the board between a local store and a remote one.
// Remote is the source of truth on load; saves go to both in parallel and
// succeed when at least one side persisted the document.
type ReplicatedStore struct {
	local  DocumentStore
	remote DocumentStore
	logger *slog.Logger
	loads  singleflight.Group
}

func NewReplicatedStore(local, remote DocumentStore, logger *slog.Logger) *ReplicatedStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ReplicatedStore{local: local, remote: remote, logger: logger}
}

type loadResult struct {
	projects []domain.Project
	ok       bool
}

// Load prefers the remote document and mirrors it locally. On a remote miss
// or failure the local copy is used.
func (s *ReplicatedStore) Load(ctx context.Context) ([]domain.Project, bool, error) {
	v, err, _ := s.loads.Do("load", func() (any, error) {
		projects, ok, err := s.remote.Load(ctx)
		if err == nil && ok {
			if _, mirrorErr := s.local.Save(ctx, projects); mirrorErr != nil {
				s.logger.Warn("replicated_mirror", "error", mirrorErr.Error())
			}
			return loadResult{projects: projects, ok: true}, nil
		}
		if err != nil {
			s.logger.Warn("replicated_remote_load", "error", err.Error())
		}
		projects, ok, localErr := s.local.Load(ctx)
		if localErr != nil {
			return nil, fmt.Errorf("loading local copy: %w", errors.Join(localErr, err))
		}
		return loadResult{projects: projects, ok: ok}, nil
	})
	if err != nil {
		return nil, false, err
	}
	res := v.(loadResult)
	return domain.CloneProjects(res.projects), res.ok, nil
}

// Save writes local and remote concurrently. It fails only when both sides
// fail. Degradation comes from the local side, which is the one with a
// quota; when local fails the remote outcome is returned instead.
func (s *ReplicatedStore) Save(ctx context.Context, projects []domain.Project) (SaveOutcome, error) {
	var (
		localOutcome, remoteOutcome SaveOutcome
		localErr, remoteErr         error
	)
	// A plain Group: one side failing must not cancel the other's write.
	var g errgroup.Group
	g.Go(func() error {
		localOutcome, localErr = s.local.Save(ctx, domain.CloneProjects(projects))
		if localErr != nil {
			return fmt.Errorf("local: %w", localErr)
		}
		return nil
	})
	g.Go(func() error {
		remoteOutcome, remoteErr = s.remote.Save(ctx, domain.CloneProjects(projects))
		if remoteErr != nil {
			return fmt.Errorf("remote: %w", remoteErr)
		}
		return nil
	})
	if err := g.Wait(); err == nil {
		return localOutcome, nil
	}

	switch {
	case localErr != nil && remoteErr != nil:
		return SaveOutcome{}, fmt.Errorf("saving board: %w", errors.Join(localErr, remoteErr))
	case localErr != nil:
		s.logger.Warn("replicated_local_save", "error", localErr.Error())
		remoteOutcome.Notes = append(remoteOutcome.Notes, "local copy not updated: "+localErr.Error())
		return remoteOutcome, nil
	default:
		s.logger.Warn("replicated_remote_save", "error", remoteErr.Error())
		localOutcome.Notes = append(localOutcome.Notes, "remote copy not updated: "+remoteErr.Error())
		return localOutcome, nil
	}
}

// Subscribe listens to remote changes only; the local copy is private.
func (s *ReplicatedStore) Subscribe(fn func([]domain.Project)) func() {
	return s.remote.Subscribe(func(projects []domain.Project) {
		if _, err := s.local.Save(context.Background(), projects); err != nil {
			s.logger.Warn("replicated_mirror", "error", err.Error())
		}
		fn(projects)
	})
}
