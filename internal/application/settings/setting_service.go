// Package settings serves the seller profile of the current user
package settings

import (
	"context"
	"time"

	"github.com/billbook/backend/internal/domain/settings"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UpdateSettingRequest changes the seller profile. Omitted fields keep
// their current value.
type UpdateSettingRequest struct {
	CompanyName       *string   `json:"company_name" binding:"omitempty,max=255"`
	SellerAddress     *string   `json:"seller_address"`
	SellerEmail       *string   `json:"seller_email" binding:"omitempty,email"`
	SellerPAN         *string   `json:"seller_pan" binding:"omitempty,max=10"`
	SellerGSTIN       *string   `json:"seller_gstin" binding:"omitempty,max=15"`
	BankAccountHolder *string   `json:"bank_account_holder" binding:"omitempty,max=255"`
	BankName          *string   `json:"bank_name" binding:"omitempty,max=255"`
	AccountNumber     *string   `json:"account_number" binding:"omitempty,max=50"`
	IFSCCode          *string   `json:"ifsc_code" binding:"omitempty,max=11"`
	Branch            *string   `json:"branch" binding:"omitempty,max=255"`
	SWIFTCode         *string   `json:"swift_code" binding:"omitempty,max=11"`
	CompanyCode       *string   `json:"company_code" binding:"omitempty,max=50"`
	HSNCodes          *[]string `json:"hsn_codes"`
	Logo              *string   `json:"logo"`
}

// ApplyTo overlays the set fields on p
func (r UpdateSettingRequest) ApplyTo(p settings.Profile) settings.Profile {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.CompanyName, r.CompanyName)
	set(&p.SellerAddress, r.SellerAddress)
	set(&p.SellerEmail, r.SellerEmail)
	set(&p.SellerPAN, r.SellerPAN)
	set(&p.SellerGSTIN, r.SellerGSTIN)
	set(&p.BankAccountHolder, r.BankAccountHolder)
	set(&p.BankName, r.BankName)
	set(&p.AccountNumber, r.AccountNumber)
	set(&p.IFSCCode, r.IFSCCode)
	set(&p.Branch, r.Branch)
	set(&p.SWIFTCode, r.SWIFTCode)
	set(&p.CompanyCode, r.CompanyCode)
	set(&p.Logo, r.Logo)
	if r.HSNCodes != nil {
		p.HSNCodes = append([]string(nil), (*r.HSNCodes)...)
	}
	return p
}

// SettingResponse represents the seller profile in API responses
type SettingResponse struct {
	ID                uuid.UUID `json:"id"`
	CompanyName       string    `json:"company_name"`
	SellerAddress     string    `json:"seller_address"`
	SellerEmail       string    `json:"seller_email"`
	SellerPAN         string    `json:"seller_pan"`
	SellerGSTIN       string    `json:"seller_gstin"`
	BankAccountHolder string    `json:"bank_account_holder"`
	BankName          string    `json:"bank_name"`
	AccountNumber     string    `json:"account_number"`
	IFSCCode          string    `json:"ifsc_code"`
	Branch            string    `json:"branch"`
	SWIFTCode         string    `json:"swift_code"`
	CompanyCode       string    `json:"company_code"`
	HSNCodes          []string  `json:"hsn_codes"`
	Logo              string    `json:"logo"`
	Version           int       `json:"version"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToSettingResponse converts a domain Setting
func ToSettingResponse(s *settings.Setting) SettingResponse {
	codes := s.HSNCodes
	if codes == nil {
		codes = []string{}
	}
	return SettingResponse{
		ID:                s.ID,
		CompanyName:       s.CompanyName,
		SellerAddress:     s.SellerAddress,
		SellerEmail:       s.SellerEmail,
		SellerPAN:         s.SellerPAN,
		SellerGSTIN:       s.SellerGSTIN,
		BankAccountHolder: s.BankAccountHolder,
		BankName:          s.BankName,
		AccountNumber:     s.AccountNumber,
		IFSCCode:          s.IFSCCode,
		Branch:            s.Branch,
		SWIFTCode:         s.SWIFTCode,
		CompanyCode:       s.CompanyCode,
		HSNCodes:          codes,
		Logo:              s.Logo,
		Version:           s.Version,
		UpdatedAt:         s.UpdatedAt,
	}
}

// Service handles the settings use cases
type Service struct {
	repo   settings.Repository
	logger *zap.Logger
}

// NewService creates a new settings Service
func NewService(repo settings.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Get returns the user's profile, creating an empty one on first access
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*SettingResponse, error) {
	setting, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToSettingResponse(setting)
	return &resp, nil
}

// Update changes the user's profile
func (s *Service) Update(ctx context.Context, userID uuid.UUID, req UpdateSettingRequest) (*SettingResponse, error) {
	setting, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := setting.Update(req.ApplyTo(setting.Profile)); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, setting); err != nil {
		s.logger.Warn("Failed to save settings", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}
	resp := ToSettingResponse(setting)
	return &resp, nil
}

// Delete removes the user's profile
func (s *Service) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.repo.DeleteByUser(ctx, userID)
}
