package dao

import (
	"Mall/models"

	"gorm.io/gorm"
)

type PayRecord struct {
	Repo[models.PayRecord]
}

func NewPayRecord(db *gorm.DB) *PayRecord {
	return &PayRecord{
		Repo: NewRepo[models.PayRecord](db),
	}
}
