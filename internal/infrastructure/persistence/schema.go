package persistence

import (
	"github.com/billbook/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// Models lists every persistence model, in dependency order
func Models() []any {
	return []any{
		&models.UserModel{},
		&models.PasswordResetOTPModel{},
		&models.SettingModel{},
		&models.InvoiceModel{},
		&models.InvoiceSequenceModel{},
		&models.CompanyBillModel{},
		&models.BuyerTransactionModel{},
		&models.SalaryPaymentModel{},
		&models.OtherTransactionModel{},
		&models.BankingDepositModel{},
		&models.BankModel{},
		&models.PartnerModel{},
		&models.BankAccountModel{},
		&models.CashEntryModel{},
		&models.EmployeeModel{},
	}
}

// AutoMigrate creates or updates the schema from the models. Postgres
// deployments use the SQL migrations instead; sqlite and mysql use this.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
