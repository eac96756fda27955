package models

import "gorm.io/gorm"

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&MainOrder{},
		&SubOrder{},
		&PayRecord{},
		&WorkOrder{},
		&UserWallet{},
		&WalletLog{},
		&OrderEvent{},
		&Commodity{},
		&ShoppingCart{},
		&Address{},
	)
}
