// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of GORM tags; each model converts to and from its
// domain type with ToDomain and FromDomain.
//
//   - base.go: BaseModel, OwnedModel, AggregateModel, OwnedAggregateModel
//   - invoicing.go: invoices and the per-financial-year sequence counter
//   - banking.go: deposits, buyer/salary/other transactions, bank and partner catalogs
//   - treasury.go: bank accounts and cash entries with soft delete
//   - settings.go, staff.go, identity.go
package models
