package service

import (
	"context"
	"fmt"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/andy/proinvoice/internal/media"
	"github.com/andy/proinvoice/internal/repository"
	"github.com/rs/zerolog"
)

// ProfileService manages the company profile printed on invoices
type ProfileService interface {
	Get(ctx context.Context) (*domain.CompanyProfile, error)
	UpdateIdentity(ctx context.Context, id domain.CompanyIdentity) (*domain.CompanyProfile, error)
	UpdateBanking(ctx context.Context, b domain.CompanyBanking) (*domain.CompanyProfile, error)
	UpdateFooter(ctx context.Context, text string) (*domain.CompanyProfile, error)

	// ImportLogo reads an image file and stores it as a data URL
	ImportLogo(ctx context.Context, path string) (*domain.CompanyProfile, error)
	RemoveLogo(ctx context.Context) (*domain.CompanyProfile, error)
}

type profileService struct {
	repo repository.ProfileRepository
	log  zerolog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(repo repository.ProfileRepository, log zerolog.Logger) ProfileService {
	return &profileService{repo: repo, log: log}
}

func (s *profileService) Get(ctx context.Context) (*domain.CompanyProfile, error) {
	p, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load company profile: %w", err)
	}
	return p, nil
}

func (s *profileService) update(ctx context.Context, section string, fn func(*domain.CompanyProfile)) (*domain.CompanyProfile, error) {
	p, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	fn(p)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save company profile: %w", err)
	}
	s.log.Info().Str("section", section).Msg("company profile updated")
	return p, nil
}

func (s *profileService) UpdateIdentity(ctx context.Context, id domain.CompanyIdentity) (*domain.CompanyProfile, error) {
	return s.update(ctx, "identity", func(p *domain.CompanyProfile) { p.SetIdentity(id) })
}

func (s *profileService) UpdateBanking(ctx context.Context, b domain.CompanyBanking) (*domain.CompanyProfile, error) {
	return s.update(ctx, "banking", func(p *domain.CompanyProfile) { p.SetBanking(b) })
}

func (s *profileService) UpdateFooter(ctx context.Context, text string) (*domain.CompanyProfile, error) {
	return s.update(ctx, "footer", func(p *domain.CompanyProfile) { p.SetFooter(text) })
}

func (s *profileService) ImportLogo(ctx context.Context, path string) (*domain.CompanyProfile, error) {
	dataURL, err := media.LogoFromFile(path)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, "logo", func(p *domain.CompanyProfile) { p.SetLogo(dataURL) })
}

func (s *profileService) RemoveLogo(ctx context.Context) (*domain.CompanyProfile, error) {
	return s.update(ctx, "logo", func(p *domain.CompanyProfile) { p.SetLogo("") })
}
