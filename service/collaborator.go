package service

import (
	"Mall/config"
	"Mall/dao"
	"Mall/models"
	"Mall/pkg/log"
	"Mall/pkg/snowflake"
	"Mall/pkg/utils"
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Address 收货信息快照
type Address struct {
	Name     string
	Phone    string
	Province string
	City     string
	District string
	Street   string
}

func (a *Address) Full() string {
	return a.Province + a.City + a.District + a.Street
}

// CommoditySnapshot 下单时刻的商品信息
type CommoditySnapshot struct {
	ID           uint64
	Title        string
	Image        string
	Price        decimal.Decimal
	Fee          decimal.Decimal
	Stock        uint32
	DeliveryType int8
}

type CartItem struct {
	ID          uint64
	CommodityID uint64
	Quantity    uint32
	Sku         json.RawMessage
}

type AddressResolver interface {
	// GetAddress addressID 为 0 时取默认地址
	GetAddress(ctx context.Context, userID, addressID uint64) (*Address, error)
}

type CatalogReader interface {
	// GetCommodity 隐藏或删除的商品返回 ErrCommodityDelisted / ErrCommodityNotFound
	GetCommodity(ctx context.Context, id uint64) (*CommoditySnapshot, error)
}

type CartStore interface {
	GetItems(ctx context.Context, userID uint64, ids []uint64) ([]*CartItem, error)
	SoftDelete(ctx context.Context, userID uint64, ids []uint64) error
}

type SerialGenerator interface {
	NextSerial(ctx context.Context) string
}

// DiscountPolicy 计算优惠金额，不能超过订单总额
type DiscountPolicy interface {
	Discount(ctx context.Context, userID uint64, total decimal.Decimal) decimal.Decimal
}

// PaidCache 支付结果缓存，读写失败都回落到数据库
type PaidCache interface {
	MarkPaid(ctx context.Context, userID, orderID uint64) error
	IsPaid(ctx context.Context, userID, orderID uint64) (bool, error)
}

// RefundHook 售后完成时的退款动作
type RefundHook interface {
	Refund(ctx context.Context, order *models.MainOrder, sub *models.SubOrder, wo *models.WorkOrder) error
}

type AddressStore struct {
	AddressDAO *dao.Address
}

var _ AddressResolver = (*AddressStore)(nil)

func (s *AddressStore) GetAddress(ctx context.Context, userID, addressID uint64) (*Address, error) {
	addr, err := s.AddressDAO.FindUserAddress(ctx, userID, addressID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	return &Address{
		Name:     addr.Name,
		Phone:    addr.Phone,
		Province: addr.Province,
		City:     addr.City,
		District: addr.District,
		Street:   addr.Address,
	}, nil
}

type CatalogStore struct {
	CommodityDAO *dao.Commodity
}

var _ CatalogReader = (*CatalogStore)(nil)

func (s *CatalogStore) GetCommodity(ctx context.Context, id uint64) (*CommoditySnapshot, error) {
	item, err := s.CommodityDAO.FindById(ctx, id)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrCommodityNotFound
		}
		return nil, err
	}
	if !item.IsShow {
		return nil, ErrCommodityDelisted
	}
	return &CommoditySnapshot{
		ID:           item.ID,
		Title:        item.Title,
		Image:        item.Image,
		Price:        item.Price,
		Fee:          item.Fee,
		Stock:        item.Stock,
		DeliveryType: item.DeliveryType,
	}, nil
}

type CartTable struct {
	CartDAO *dao.Cart
}

var _ CartStore = (*CartTable)(nil)

func (s *CartTable) GetItems(ctx context.Context, userID uint64, ids []uint64) ([]*CartItem, error) {
	rows, err := s.CartDAO.FindUserItems(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	items := make([]*CartItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, &CartItem{
			ID:          r.ID,
			CommodityID: r.CommodityID,
			Quantity:    r.Quantity,
			Sku:         json.RawMessage(r.Sku),
		})
	}
	return items, nil
}

// SoftDelete 行数不一致说明购物车已被其他订单占用
func (s *CartTable) SoftDelete(ctx context.Context, userID uint64, ids []uint64) error {
	rows, err := s.CartDAO.SoftDelete(ctx, userID, ids)
	if err != nil {
		return err
	}
	if rows != int64(len(ids)) {
		return ErrCartItemNotFound
	}
	return nil
}

// SnowflakeSerial 前缀 + 时间 + 雪花 ID
type SnowflakeSerial struct {
	Prefix string
}

var _ SerialGenerator = (*SnowflakeSerial)(nil)

func NewSnowflakeSerial(conf *config.OrderConfig) *SnowflakeSerial {
	return &SnowflakeSerial{Prefix: conf.SerialPrefix}
}

func (s *SnowflakeSerial) NextSerial(_ context.Context) string {
	return utils.GenerateOutTradeNo(s.Prefix, snowflake.GenID())
}

type NoDiscount struct{}

func (NoDiscount) Discount(context.Context, uint64, decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

// NoopRefundHook 暂不发起实际退款，只记录日志
type NoopRefundHook struct{}

func (NoopRefundHook) Refund(_ context.Context, order *models.MainOrder, sub *models.SubOrder, wo *models.WorkOrder) error {
	log.L.Info("after sales refund skipped",
		zap.String("order_sn", order.OrderSn),
		zap.Uint64("sub_order_id", sub.ID),
		zap.String("work_order_sn", wo.WorkOrderSn),
		zap.String("amount", wo.RefundAmount.String()))
	return nil
}
