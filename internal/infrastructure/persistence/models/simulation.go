package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/domain/simulation"
)

// SimulationModel is the persistence model for the Simulation aggregate.
// Inputs and every breakdown line are stored as fixed two-place decimals,
// weight with three.
type SimulationModel struct {
	AggregateModel
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	RecipientEmail string    `gorm:"type:varchar(255)"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductName    string    `gorm:"type:varchar(255);not null"`
	ProductHSCode  string    `gorm:"column:product_hs_code;type:varchar(20)"`

	DeclaredValue   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TransportCost   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	HandlingCost    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	WeightInTons    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	HasUniqueID     bool            `gorm:"not null"`
	CountryOfOrigin string          `gorm:"type:varchar(100)"`
	TransportMode   string          `gorm:"type:varchar(20)"`

	CustomsValue            decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CustomsDuty             decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ExciseDuty              decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	VAT                     decimal.Decimal `gorm:"column:vat;type:decimal(18,2);not null"`
	CommunalSurtax          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ITRoyalty               decimal.Decimal `gorm:"column:it_royalty;type:decimal(18,2);not null"`
	CommunityIntegrationTax decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IntegrationContribution decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	OHADALevy               decimal.Decimal `gorm:"column:ohada_levy;type:decimal(18,2);not null"`
	PurchasePrepayment      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	FacilitationFee         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PhytosanitaryTax        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	AdministrativeFee       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total                   decimal.Decimal `gorm:"type:decimal(18,2);not null"`

	PaymentCode    string     `gorm:"type:varchar(32);not null;uniqueIndex:idx_simulations_payment_code"`
	PaymentMethod  string     `gorm:"type:varchar(10)"`
	IsPaid         bool       `gorm:"not null;index"`
	PaidAt         *time.Time
	ResultNotified bool       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SimulationModel) TableName() string {
	return "simulations"
}

// ToDomain converts the persistence model to a domain Simulation.
func (m *SimulationModel) ToDomain() *simulation.Simulation {
	return &simulation.Simulation{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		RecipientEmail:    m.RecipientEmail,
		ProductID:         m.ProductID,
		ProductName:       m.ProductName,
		ProductHSCode:     m.ProductHSCode,
		Inputs: simulation.Inputs{
			DeclaredValue:   m.DeclaredValue,
			TransportCost:   m.TransportCost,
			HandlingCost:    m.HandlingCost,
			WeightInTons:    m.WeightInTons,
			HasUniqueID:     m.HasUniqueID,
			CountryOfOrigin: m.CountryOfOrigin,
			TransportMode:   simulation.TransportMode(m.TransportMode),
		},
		Breakdown: customs.DutyBreakdown{
			CustomsValue:            m.CustomsValue,
			CustomsDuty:             m.CustomsDuty,
			ExciseDuty:              m.ExciseDuty,
			VAT:                     m.VAT,
			CommunalSurtax:          m.CommunalSurtax,
			ITRoyalty:               m.ITRoyalty,
			CommunityIntegrationTax: m.CommunityIntegrationTax,
			IntegrationContribution: m.IntegrationContribution,
			OHADALevy:               m.OHADALevy,
			PurchasePrepayment:      m.PurchasePrepayment,
			FacilitationFee:         m.FacilitationFee,
			PhytosanitaryTax:        m.PhytosanitaryTax,
			AdministrativeFee:       m.AdministrativeFee,
			Total:                   m.Total,
		},
		PaymentCode:    m.PaymentCode,
		PaymentMethod:  simulation.PaymentMethod(m.PaymentMethod),
		IsPaid:         m.IsPaid,
		PaidAt:         m.PaidAt,
		ResultNotified: m.ResultNotified,
	}
}

// FromDomain populates the persistence model from a domain Simulation.
func (m *SimulationModel) FromDomain(s *simulation.Simulation) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.UserID = s.UserID
	m.RecipientEmail = s.RecipientEmail
	m.ProductID = s.ProductID
	m.ProductName = s.ProductName
	m.ProductHSCode = s.ProductHSCode

	m.DeclaredValue = s.Inputs.DeclaredValue
	m.TransportCost = s.Inputs.TransportCost
	m.HandlingCost = s.Inputs.HandlingCost
	m.WeightInTons = s.Inputs.WeightInTons
	m.HasUniqueID = s.Inputs.HasUniqueID
	m.CountryOfOrigin = s.Inputs.CountryOfOrigin
	m.TransportMode = string(s.Inputs.TransportMode)

	b := s.Breakdown
	m.CustomsValue = b.CustomsValue
	m.CustomsDuty = b.CustomsDuty
	m.ExciseDuty = b.ExciseDuty
	m.VAT = b.VAT
	m.CommunalSurtax = b.CommunalSurtax
	m.ITRoyalty = b.ITRoyalty
	m.CommunityIntegrationTax = b.CommunityIntegrationTax
	m.IntegrationContribution = b.IntegrationContribution
	m.OHADALevy = b.OHADALevy
	m.PurchasePrepayment = b.PurchasePrepayment
	m.FacilitationFee = b.FacilitationFee
	m.PhytosanitaryTax = b.PhytosanitaryTax
	m.AdministrativeFee = b.AdministrativeFee
	m.Total = b.Total

	m.PaymentCode = s.PaymentCode
	m.PaymentMethod = string(s.PaymentMethod)
	m.IsPaid = s.IsPaid
	m.PaidAt = s.PaidAt
	m.ResultNotified = s.ResultNotified
}

// SimulationModelFromDomain creates a new persistence model from a domain Simulation.
func SimulationModelFromDomain(s *simulation.Simulation) *SimulationModel {
	m := &SimulationModel{}
	m.FromDomain(s)
	return m
}
