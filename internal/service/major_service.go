package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/repository"
)

type MajorService interface {
	List(ctx context.Context) ([]*model.Major, error)
	Get(ctx context.Context, id int) (*model.Major, error)
	Create(ctx context.Context, name string) (*model.Major, error)
	Update(ctx context.Context, id int, name string) (*model.Major, error)
	Delete(ctx context.Context, id int) error
}

type majorService struct {
	majorRepo repository.MajorRepository
}

func NewMajorService(majorRepo repository.MajorRepository) MajorService {
	return &majorService{majorRepo: majorRepo}
}

func (s *majorService) List(ctx context.Context) ([]*model.Major, error) {
	majors, err := s.majorRepo.List(ctx)
	if err != nil {
		return nil, fromRepo("list majors", err)
	}
	return majors, nil
}

func (s *majorService) Get(ctx context.Context, id int) (*model.Major, error) {
	major, err := s.majorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("get major", err)
	}
	return major, nil
}

func (s *majorService) Create(ctx context.Context, name string) (*model.Major, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidField("nama_jurusan", "is required")
	}
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	major := &model.Major{Name: name}
	if err := s.majorRepo.Create(ctx, major); err != nil {
		return nil, fromRepo("create major", err)
	}
	return major, nil
}

func (s *majorService) Update(ctx context.Context, id int, name string) (*model.Major, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidField("nama_jurusan", "is required")
	}

	major, err := s.majorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("update major", err)
	}
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}

	major.Name = name
	if err := s.majorRepo.Update(ctx, major); err != nil {
		return nil, fromRepo("update major", err)
	}
	return major, nil
}

// Delete refuses while classes or staff still point at the major.
func (s *majorService) Delete(ctx context.Context, id int) error {
	if _, err := s.majorRepo.GetByID(ctx, id); err != nil {
		return fromRepo("delete major", err)
	}

	n, err := s.majorRepo.CountDependents(ctx, id)
	if err != nil {
		return fromRepo("delete major", err)
	}
	if n > 0 {
		return fmt.Errorf("delete major %d: %w", id, ErrDependencyExists)
	}
	return fromRepo("delete major", s.majorRepo.Delete(ctx, id))
}

func (s *majorService) ensureNameFree(ctx context.Context, name string, selfID int) error {
	existing, err := s.majorRepo.GetByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return fromRepo("check major name", err)
	case existing.ID != selfID:
		return fmt.Errorf("major %q: %w", name, ErrConflict)
	}
	return nil
}
