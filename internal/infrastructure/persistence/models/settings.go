package models

import (
	"github.com/billbook/backend/internal/domain/settings"
	"github.com/google/uuid"
)

// SettingModel is the persistence model for seller settings, one row per user
type SettingModel struct {
	AggregateModel
	UserID            uuid.UUID `gorm:"type:char(36);not null;uniqueIndex"`
	CompanyName       string    `gorm:"type:varchar(255)"`
	SellerAddress     string    `gorm:"type:text"`
	SellerEmail       string    `gorm:"type:varchar(255)"`
	SellerPAN         string    `gorm:"column:seller_pan;type:varchar(10)"`
	SellerGSTIN       string    `gorm:"column:seller_gstin;type:varchar(15)"`
	BankAccountHolder string    `gorm:"type:varchar(255)"`
	BankName          string    `gorm:"type:varchar(255)"`
	AccountNumber     string    `gorm:"type:varchar(50)"`
	IFSCCode          string    `gorm:"column:ifsc_code;type:varchar(11)"`
	Branch            string    `gorm:"type:varchar(255)"`
	SWIFTCode         string    `gorm:"column:swift_code;type:varchar(11)"`
	CompanyCode       string    `gorm:"type:varchar(50)"`
	HSNCodes          []string  `gorm:"column:hsn_codes;type:text;serializer:json"`
	Logo              string    `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SettingModel) TableName() string {
	return "settings"
}

// ToDomain converts the persistence model to a domain Setting
func (m *SettingModel) ToDomain() *settings.Setting {
	s := &settings.Setting{
		Profile: settings.Profile{
			CompanyName:       m.CompanyName,
			SellerAddress:     m.SellerAddress,
			SellerEmail:       m.SellerEmail,
			SellerPAN:         m.SellerPAN,
			SellerGSTIN:       m.SellerGSTIN,
			BankAccountHolder: m.BankAccountHolder,
			BankName:          m.BankName,
			AccountNumber:     m.AccountNumber,
			IFSCCode:          m.IFSCCode,
			Branch:            m.Branch,
			SWIFTCode:         m.SWIFTCode,
			CompanyCode:       m.CompanyCode,
			HSNCodes:          m.HSNCodes,
			Logo:              m.Logo,
		},
	}
	s.BaseAggregateRoot = m.ToAggregateRoot()
	s.UserID = m.UserID
	if s.HSNCodes == nil {
		s.HSNCodes = []string{}
	}
	return s
}

// FromDomain populates the persistence model from a domain Setting
func (m *SettingModel) FromDomain(s *settings.Setting) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.UserID = s.UserID
	m.CompanyName = s.CompanyName
	m.SellerAddress = s.SellerAddress
	m.SellerEmail = s.SellerEmail
	m.SellerPAN = s.SellerPAN
	m.SellerGSTIN = s.SellerGSTIN
	m.BankAccountHolder = s.BankAccountHolder
	m.BankName = s.BankName
	m.AccountNumber = s.AccountNumber
	m.IFSCCode = s.IFSCCode
	m.Branch = s.Branch
	m.SWIFTCode = s.SWIFTCode
	m.CompanyCode = s.CompanyCode
	m.HSNCodes = s.HSNCodes
	m.Logo = s.Logo
}
