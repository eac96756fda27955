package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/plugin/soft_delete"
)

// Commodity 商品目录，订单侧只读
type Commodity struct {
	ID           uint64                `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title        string                `gorm:"size:255;not null;column:title" json:"title"`
	Image        string                `gorm:"size:512;default:'';column:image" json:"image"`
	Images       datatypes.JSON        `gorm:"column:images" json:"images"`
	Price        decimal.Decimal       `gorm:"type:decimal(10,2);not null;default:0;column:price" json:"price"`
	Fee          decimal.Decimal       `gorm:"type:decimal(10,2);not null;default:0;column:fee" json:"fee"` // 划线价，不参与计价
	Stock        uint32                `gorm:"default:0;not null;column:stock" json:"stock"`
	DeliveryType int8                  `gorm:"default:0;not null;column:delivery_type" json:"delivery_type"`
	IsShow       bool                  `gorm:"not null;index:idx_commodity_show;column:is_show" json:"is_show"`
	CreateTime   int64                 `gorm:"column:create_time;autoCreateTime" json:"create_time"`
	UpdateTime   int64                 `gorm:"column:update_time;autoUpdateTime" json:"update_time"`
	DeleteTime   soft_delete.DeletedAt `gorm:"column:delete_time;not null;default:0;index" json:"-"`
}

func (Commodity) TableName() string {
	return "commodities"
}

// ShoppingCart 购物车行
type ShoppingCart struct {
	ID          uint64                `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID      uint64                `gorm:"not null;index:idx_cart_user_id;column:user_id" json:"user_id"`
	CommodityID uint64                `gorm:"not null;column:commodity_id" json:"commodity_id"`
	Quantity    uint32                `gorm:"default:1;not null;column:quantity" json:"quantity"`
	Sku         datatypes.JSON        `gorm:"column:sku" json:"sku"`
	CreateTime  int64                 `gorm:"column:create_time;autoCreateTime" json:"create_time"`
	UpdateTime  int64                 `gorm:"column:update_time;autoUpdateTime" json:"update_time"`
	DeleteTime  soft_delete.DeletedAt `gorm:"column:delete_time;not null;default:0;index" json:"-"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}

type Address struct {
	ID         uint64                `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID     uint64                `gorm:"not null;index:idx_address_user_id;column:user_id" json:"user_id"`
	Name       string                `gorm:"size:64;not null;column:name" json:"name"`
	Phone      string                `gorm:"size:20;not null;column:phone" json:"phone"`
	Province   string                `gorm:"size:64;default:'';column:province" json:"province"`
	City       string                `gorm:"size:64;default:'';column:city" json:"city"`
	District   string                `gorm:"size:64;default:'';column:district" json:"district"`
	Address    string                `gorm:"size:255;default:'';column:address" json:"address"`
	IsDefault  bool                  `gorm:"default:false;not null;column:is_default" json:"is_default"`
	CreateTime int64                 `gorm:"column:create_time;autoCreateTime" json:"create_time"`
	UpdateTime int64                 `gorm:"column:update_time;autoUpdateTime" json:"update_time"`
	DeleteTime soft_delete.DeletedAt `gorm:"column:delete_time;not null;default:0;index" json:"-"`
}

func (Address) TableName() string {
	return "addresses"
}

func (a *Address) FullAddress() string {
	return a.Province + a.City + a.District + a.Address
}
