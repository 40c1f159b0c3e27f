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

// PasswordHasher produces stored password hashes.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// StaffService manages teacher, principal and admin accounts.
type StaffService struct {
	staffRepo repository.StaffRepository
	adminRepo repository.AdminRepository
	majorRepo repository.MajorRepository
	hasher    PasswordHasher
	stats     StatsInvalidator
	log       zerolog.Logger
}

// NewStaffService creates a new StaffService. stats is optional.
func NewStaffService(
	staffRepo repository.StaffRepository,
	adminRepo repository.AdminRepository,
	majorRepo repository.MajorRepository,
	hasher PasswordHasher,
	stats StatsInvalidator,
	log zerolog.Logger,
) *StaffService {
	return &StaffService{
		staffRepo: staffRepo,
		adminRepo: adminRepo,
		majorRepo: majorRepo,
		hasher:    hasher,
		stats:     stats,
		log:       log.With().Str("component", "staff_service").Logger(),
	}
}

// List returns every staff account ordered by name.
func (s *StaffService) List(ctx context.Context) ([]*model.Staff, error) {
	staff, err := s.staffRepo.List(ctx)
	if err != nil {
		return nil, fromRepo("list staff", err)
	}
	return staff, nil
}

// Register creates a teacher or principal account. Registering a NIP that
// already exists overwrites that account, password included. created reports
// whether a new account was inserted.
func (s *StaffService) Register(ctx context.Context, req model.RegisterStaffRequest) (staff *model.Staff, created bool, err error) {
	nip := strings.TrimSpace(req.NIP)
	name := strings.TrimSpace(req.FullName)
	switch {
	case nip == "":
		return nil, false, invalidField("nip", "is required")
	case name == "":
		return nil, false, invalidField("nama_lengkap", "is required")
	case req.Password == "":
		return nil, false, invalidField("password", "is required")
	case !req.Role.IsStaff():
		return nil, false, invalidField("role", "must be guru or kepsek")
	}

	_, err = s.staffRepo.GetByNIP(ctx, nip)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		created = true
	default:
		return nil, false, fromRepo("check staff nip", err)
	}

	if req.MajorID != nil {
		if _, err := s.majorRepo.GetByID(ctx, *req.MajorID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, false, invalidField("id_jurusan", "major %d does not exist", *req.MajorID)
			}
			return nil, false, fromRepo("check staff major", err)
		}
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	staff = &model.Staff{
		NIP:          nip,
		FullName:     name,
		PasswordHash: hash,
		Role:         req.Role,
		IsHomeroom:   req.IsHomeroom,
		MajorID:      req.MajorID,
	}
	if created {
		err = s.staffRepo.Create(ctx, staff)
	} else {
		err = s.staffRepo.Update(ctx, staff)
	}
	if err != nil {
		return nil, false, fromRepo("register staff", err)
	}
	invalidateStats(ctx, s.stats)

	s.log.Info().
		Int("staff_id", staff.ID).
		Str("role", string(staff.Role)).
		Bool("created", created).
		Msg("Staff registered")
	return staff, created, nil
}

// CreateAdmin creates an administrator account.
func (s *StaffService) CreateAdmin(ctx context.Context, username, fullName, password string) (*model.Admin, error) {
	username = strings.TrimSpace(username)
	fullName = strings.TrimSpace(fullName)
	if username == "" || fullName == "" || password == "" {
		return nil, fmt.Errorf("create admin: username, name and password are required: %w", ErrInvalidInput)
	}

	if _, err := s.adminRepo.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("admin %q: %w", username, ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fromRepo("check admin username", err)
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.Admin{Username: username, FullName: fullName, PasswordHash: hash}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, fromRepo("create admin", err)
	}
	return admin, nil
}
