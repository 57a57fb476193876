// Package service holds the project lifecycle orchestration: creating a
// project around a freshly submitted alignment job, reconciling stored
// statuses against the alignment service, and gating transcript downloads
// on completion.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/davidarico/subtitle-portal/internal/alignment"
	"github.com/davidarico/subtitle-portal/internal/projects/domain"
	"github.com/davidarico/subtitle-portal/internal/storage"
)

// Store is the slice of the projects repository the service needs.
type Store interface {
	Insert(ctx context.Context, name, thirdPartyID string) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	JobRefs(ctx context.Context, ids []string) ([]domain.JobRef, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
}

// AlignmentAPI is the external alignment-job service.
type AlignmentAPI interface {
	SubmitJob(ctx context.Context, audioURL, transcriptURL, metadata string) (alignment.Job, error)
	JobStatus(ctx context.Context, jobID string) (string, error)
	Transcript(ctx context.Context, jobID string) (json.RawMessage, error)
}

// MediaStore uploads artifacts and returns their public URLs.
type MediaStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type Options struct {
	RefreshWorkers int // concurrent status polls per refresh
	RefreshRPS     int // poll pacing toward the alignment service
}

type Service struct {
	store   Store
	jobs    AlignmentAPI
	media   MediaStore
	workers int
	limiter *rate.Limiter
}

func New(store Store, jobs AlignmentAPI, media MediaStore, opts Options) *Service {
	if opts.RefreshWorkers <= 0 {
		opts.RefreshWorkers = 8
	}
	if opts.RefreshRPS <= 0 {
		opts.RefreshRPS = 10
	}
	return &Service{
		store:   store,
		jobs:    jobs,
		media:   media,
		workers: opts.RefreshWorkers,
		limiter: rate.NewLimiter(rate.Limit(opts.RefreshRPS), opts.RefreshRPS),
	}
}

// Create submits an alignment job for two already-uploaded artifacts and
// records the project. The row is written only after the alignment service
// has accepted the submission with the in-progress status.
func (s *Service) Create(ctx context.Context, name, audioURL, textURL string) (*domain.Project, error) {
	logger := NewLogger(ctx)

	name = strings.TrimSpace(name)
	if name == "" || audioURL == "" || textURL == "" {
		return nil, fmt.Errorf("%w: name, audio url and text url are required", domain.ErrInvalidInput)
	}

	job, err := s.jobs.SubmitJob(ctx, audioURL, textURL, name)
	if err != nil {
		logger.Errorf("create", "submit failed: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrSubmission, err)
	}
	if job.Status != alignment.StatusInProgress {
		return nil, fmt.Errorf("%w: job %s reported status %q at submission", domain.ErrSubmission, job.ID, job.Status)
	}

	p, err := s.store.Insert(ctx, name, job.ID)
	if err != nil {
		// The job was already accepted upstream. There is no cancel step,
		// so the orphaned job id is surfaced for manual reaping.
		logger.Errorf("create", "insert failed, job %s is orphaned: %v", job.ID, err)
		return nil, fmt.Errorf("%w: job %s submitted but not recorded: %v", domain.ErrPersistence, job.ID, err)
	}

	logger.Infof("create", "project %s tracking job %s", p.ID, p.ThirdPartyID)
	return p, nil
}

// Artifact is one uploaded file on its way to object storage.
type Artifact struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// CreateFromFiles is the single-request variant: it pushes both artifacts
// through the storage collaborator first, then creates the project from
// their public URLs.
func (s *Service) CreateFromFiles(ctx context.Context, name string, audio, text Artifact) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" || audio.Body == nil || text.Body == nil {
		return nil, fmt.Errorf("%w: name, audio file and text file are required", domain.ErrInvalidInput)
	}

	audioURL, err := s.media.Upload(ctx, storage.ArtifactKey(name, "audio", audio.Filename), audio.ContentType, audio.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: audio: %v", domain.ErrUpload, err)
	}

	textURL, err := s.media.Upload(ctx, storage.ArtifactKey(name, "text", text.Filename), text.ContentType, text.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: text: %v", domain.ErrUpload, err)
	}

	return s.Create(ctx, name, audioURL, textURL)
}

// List returns every project, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Project, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return items, nil
}

// Refresh polls the alignment service for every requested project and
// writes the mapped status back. Ids with no stored row are omitted from
// the result. Per-project failures are isolated: they surface as an error
// marker on that project's result entry and never abort siblings.
func (s *Service) Refresh(ctx context.Context, ids []string) ([]domain.RefreshResult, error) {
	logger := NewLogger(ctx)

	clean, err := cleanIDs(ids)
	if err != nil {
		return nil, err
	}

	refs, err := s.store.JobRefs(ctx, clean)
	if err != nil {
		return nil, fmt.Errorf("%w: load job refs: %v", domain.ErrPersistence, err)
	}

	// One status poll per project, bounded so large batches stay polite to
	// the alignment service. Wait is the join barrier: no result is read
	// and nothing is written back until every poll has finished.
	results := make([]domain.RefreshResult, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, ref := range refs {
		g.Go(func() error {
			results[i] = s.refreshOne(gctx, ref)
			return nil
		})
	}
	_ = g.Wait()

	// Write-backs are independent: one failing row never rolls back the
	// others, it is just reported on its own entry.
	for i := range results {
		res := &results[i]
		if res.Error != "" {
			continue
		}
		if err := s.store.UpdateStatus(ctx, res.ID, res.Status); err != nil {
			logger.Errorf("refresh", "update %s: %v", res.ID, err)
			res.Error = fmt.Sprintf("update status: %v", err)
		}
	}

	return results, nil
}

func (s *Service) refreshOne(ctx context.Context, ref domain.JobRef) domain.RefreshResult {
	res := domain.RefreshResult{ID: ref.ID}

	if err := s.limiter.Wait(ctx); err != nil {
		res.Error = err.Error()
		return res
	}

	external, err := s.jobs.JobStatus(ctx, ref.ThirdPartyID)
	if err != nil {
		res.Error = fmt.Sprintf("poll job %s: %v", ref.ThirdPartyID, err)
		return res
	}

	status, err := mapStatus(external)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Status = status
	return res
}

// mapStatus translates the alignment service's vocabulary into ours. An
// unrecognized value is an error; it is never written to the store.
func mapStatus(external string) (domain.Status, error) {
	switch external {
	case alignment.StatusInProgress:
		return domain.StatusPending, nil
	case string(domain.StatusCompleted):
		return domain.StatusCompleted, nil
	case string(domain.StatusFailed):
		return domain.StatusFailed, nil
	default:
		return "", fmt.Errorf("unrecognized job status %q", external)
	}
}

func cleanIDs(ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, err := uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("%w: malformed project id %q", domain.ErrInvalidInput, id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		clean = append(clean, id)
	}
	if len(clean) == 0 {
		return nil, fmt.Errorf("%w: no project ids given", domain.ErrInvalidInput)
	}
	return clean, nil
}

// Transcript returns the project and its aligned transcript document,
// untouched. A project in any state other than completed is refused before
// any upstream call is made. Nothing is mutated.
func (s *Service) Transcript(ctx context.Context, id string) (*domain.Project, json.RawMessage, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	if p.Status != domain.StatusCompleted {
		return nil, nil, fmt.Errorf("%w: status is %q", domain.ErrNotReady, p.Status)
	}

	doc, err := s.jobs.Transcript(ctx, p.ThirdPartyID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return p, doc, nil
}
