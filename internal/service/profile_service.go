package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/invoicing"
	"github.com/mmynk/invoicer/pkg/api"
)

// ProfileService implements the ProfileService RPC interface.
type ProfileService struct {
	profiles *invoicing.ProfileCache
}

func NewProfileService(profiles *invoicing.ProfileCache) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// GetProfile returns the saved profile, or none before the first save.
func (s *ProfileService) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.Load(ctx, accountID)
	if err != nil {
		return nil, fail("GetProfile failed", err, "account_id", accountID)
	}
	return connect.NewResponse(&api.GetProfileResponse{Profile: toAPIProfile(p)}), nil
}

// SaveProfile validates and stores the profile. Zero tax rates and empty
// tax labels take their defaults.
func (s *ProfileService) SaveProfile(ctx context.Context, req *connect.Request[api.SaveProfileRequest]) (*connect.Response[api.SaveProfileResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	p := profileFromAPI(req.Msg.Profile)
	switch {
	case p.Name == "":
		return nil, toConnectError(&invoicing.ValidationError{Field: "name", Message: "business name is required"})
	case p.TaxRate1 < 0 || p.TaxRate1 > 100:
		return nil, toConnectError(&invoicing.ValidationError{Field: "tax_rate1", Message: "rate must be between 0 and 100"})
	case p.TaxRate2 < 0 || p.TaxRate2 > 100:
		return nil, toConnectError(&invoicing.ValidationError{Field: "tax_rate2", Message: "rate must be between 0 and 100"})
	}

	if err := s.profiles.Save(ctx, accountID, p); err != nil {
		return nil, fail("SaveProfile failed", err, "account_id", accountID)
	}
	slog.Info("Profile saved", "account_id", accountID, "taxes_enabled", p.TaxesEnabled)
	return connect.NewResponse(&api.SaveProfileResponse{Profile: toAPIProfile(p)}), nil
}
