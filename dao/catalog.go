package dao

import (
	"Mall/models"
	"context"

	"gorm.io/gorm"
)

type Commodity struct {
	Repo[models.Commodity]
}

func NewCommodity(db *gorm.DB) *Commodity {
	return &Commodity{
		Repo: NewRepo[models.Commodity](db),
	}
}

type Cart struct {
	Repo[models.ShoppingCart]
}

func NewCart(db *gorm.DB) *Cart {
	return &Cart{
		Repo: NewRepo[models.ShoppingCart](db),
	}
}

func (c *Cart) FindUserItems(ctx context.Context, userID uint64, ids []uint64) ([]*models.ShoppingCart, error) {
	var items []*models.ShoppingCart
	err := c.DB(ctx).Where("user_id = ? AND id IN ?", userID, ids).Order("id ASC").Find(&items).Error
	return items, err
}

func (c *Cart) SoftDelete(ctx context.Context, userID uint64, ids []uint64) (int64, error) {
	res := c.DB(ctx).Where("user_id = ? AND id IN ?", userID, ids).Delete(&models.ShoppingCart{})
	return res.RowsAffected, res.Error
}

type Address struct {
	Repo[models.Address]
}

func NewAddress(db *gorm.DB) *Address {
	return &Address{
		Repo: NewRepo[models.Address](db),
	}
}

// FindUserAddress addressID 为 0 时取默认地址
func (a *Address) FindUserAddress(ctx context.Context, userID, addressID uint64) (*models.Address, error) {
	if addressID > 0 {
		return a.FindByWhere(ctx, "id = ? AND user_id = ?", addressID, userID)
	}
	return a.FindByWhere(ctx, "user_id = ? AND is_default = ?", userID, true)
}
