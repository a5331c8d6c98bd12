// Package settings holds the seller profile printed on every invoice
package settings

import (
	"context"
	"regexp"
	"strings"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var (
	gstinRegex = regexp.MustCompile(`^[0-9]{2}[A-Z0-9]{10}[0-9A-Z]Z[0-9A-Z]$`)
	panRegex   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	ifscRegex  = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
)

// Profile is the editable part of a Setting
type Profile struct {
	CompanyName       string
	SellerAddress     string
	SellerEmail       string
	SellerPAN         string
	SellerGSTIN       string
	BankAccountHolder string
	BankName          string
	AccountNumber     string
	IFSCCode          string
	Branch            string
	SWIFTCode         string
	CompanyCode       string
	HSNCodes          []string
	Logo              string
}

// Setting is the seller profile of a user. A user has at most one.
type Setting struct {
	shared.OwnedAggregateRoot
	Profile
}

// NewSetting creates an empty profile for userID
func NewSetting(userID uuid.UUID) *Setting {
	return &Setting{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		Profile:            Profile{HSNCodes: []string{}},
	}
}

// Update validates and replaces the profile
func (s *Setting) Update(p Profile) error {
	p = p.normalized()
	if err := p.Validate(); err != nil {
		return err
	}
	s.Profile = p
	s.Touch()
	s.IncrementVersion()
	return nil
}

// HasHSNCode reports whether code is one of the seller's HSN/SAC codes
func (s *Setting) HasHSNCode(code string) bool {
	code = strings.TrimSpace(code)
	for _, c := range s.HSNCodes {
		if c == code {
			return true
		}
	}
	return false
}

func (p Profile) normalized() Profile {
	p.CompanyName = strings.TrimSpace(p.CompanyName)
	p.SellerAddress = strings.TrimSpace(p.SellerAddress)
	p.SellerEmail = strings.ToLower(strings.TrimSpace(p.SellerEmail))
	p.SellerPAN = strings.ToUpper(strings.TrimSpace(p.SellerPAN))
	p.SellerGSTIN = strings.ToUpper(strings.TrimSpace(p.SellerGSTIN))
	p.IFSCCode = strings.ToUpper(strings.TrimSpace(p.IFSCCode))
	p.SWIFTCode = strings.ToUpper(strings.TrimSpace(p.SWIFTCode))

	seen := make(map[string]bool, len(p.HSNCodes))
	codes := make([]string, 0, len(p.HSNCodes))
	for _, c := range p.HSNCodes {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		codes = append(codes, c)
	}
	p.HSNCodes = codes
	return p
}

// Validate checks the formats of the Indian tax and bank identifiers.
// Empty fields are allowed.
func (p Profile) Validate() error {
	v := shared.NewValidationError()
	if p.SellerGSTIN != "" && !gstinRegex.MatchString(p.SellerGSTIN) {
		v.Add("seller_gstin", "Invalid GSTIN.")
	}
	if p.SellerPAN != "" && !panRegex.MatchString(p.SellerPAN) {
		v.Add("seller_pan", "Invalid PAN.")
	}
	if p.IFSCCode != "" && !ifscRegex.MatchString(p.IFSCCode) {
		v.Add("ifsc_code", "Invalid IFSC code.")
	}
	for _, c := range p.HSNCodes {
		if len(c) > 10 {
			v.Add("hsn_codes", "HSN/SAC codes cannot exceed 10 characters.")
			break
		}
	}
	return v.OrNil()
}

// Repository persists settings
type Repository interface {
	// FindByUser returns ErrNotFound when the user has no setting yet
	FindByUser(ctx context.Context, userID uuid.UUID) (*Setting, error)

	// GetOrCreate returns the user's setting, inserting an empty one if absent
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*Setting, error)

	// SaveWithLock updates with optimistic locking
	SaveWithLock(ctx context.Context, setting *Setting) error

	// DeleteByUser removes the user's setting
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
