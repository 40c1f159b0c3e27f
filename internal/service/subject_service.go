package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/repository"
)

// SubjectService manages mata pelajaran.
type SubjectService struct {
	repo repository.SubjectRepository
	log  zerolog.Logger
}

// NewSubjectService creates a new SubjectService.
func NewSubjectService(repo repository.SubjectRepository, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		repo: repo,
		log:  log.With().Str("component", "subject_service").Logger(),
	}
}

// List returns every subject ordered by name.
func (s *SubjectService) List(ctx context.Context) ([]*model.Subject, error) {
	subjects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fromRepo("list subjects", err)
	}
	return subjects, nil
}

// Get returns a single subject.
func (s *SubjectService) Get(ctx context.Context, id int) (*model.Subject, error) {
	subject, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("get subject", err)
	}
	return subject, nil
}

// Create adds a subject with a unique name.
func (s *SubjectService) Create(ctx context.Context, req model.SubjectRequest) (*model.Subject, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidField("nama_mapel", "is required")
	}
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	subject := &model.Subject{Name: name}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, fromRepo("create subject", err)
	}

	s.log.Info().Int("subject_id", subject.ID).Str("name", name).Msg("Subject created")
	return subject, nil
}

// Update renames a subject.
func (s *SubjectService) Update(ctx context.Context, id int, req model.SubjectRequest) (*model.Subject, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidField("nama_mapel", "is required")
	}

	subject, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("update subject", err)
	}
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}

	subject.Name = name
	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, fromRepo("update subject", err)
	}
	return subject, nil
}

// Delete removes a subject that no schedule uses.
func (s *SubjectService) Delete(ctx context.Context, id int) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fromRepo("delete subject", err)
	}

	n, err := s.repo.CountDependents(ctx, id)
	if err != nil {
		return fromRepo("delete subject", err)
	}
	if n > 0 {
		return fmt.Errorf("delete subject %d: %w", id, ErrDependencyExists)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepo("delete subject", err)
	}

	s.log.Info().Int("subject_id", id).Msg("Subject deleted")
	return nil
}

func (s *SubjectService) ensureNameFree(ctx context.Context, name string, selfID int) error {
	existing, err := s.repo.GetByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return fromRepo("check subject name", err)
	case existing.ID != selfID:
		return fmt.Errorf("subject %q: %w", name, ErrConflict)
	}
	return nil
}
