package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"Mall/config"
	"Mall/dao"
	"Mall/models"
	"Mall/pkg/lock"
	"Mall/pkg/paygate"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubGateway struct {
	err   error
	calls []*paygate.UnifyRequest
}

func (g *stubGateway) UnifyOrder(_ context.Context, req *paygate.UnifyRequest) (any, error) {
	g.calls = append(g.calls, req)
	if g.err != nil {
		return nil, g.err
	}
	return map[string]string{"code_url": "weixin://wxpay/" + req.OrderSn}, nil
}

func (g *stubGateway) ParseNotify(context.Context, *http.Request) (*paygate.Notification, error) {
	return nil, errors.New("not used")
}

type published struct {
	topic, key, tag string
	body            []byte
}

type stubPublisher struct {
	mu     sync.Mutex
	failAt int // 第几条开始失败，0 表示不失败
	sent   []published
}

func (p *stubPublisher) Publish(_ context.Context, topic, key, tag string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failAt > 0 && len(p.sent)+1 >= p.failAt {
		return errors.New("broker unavailable")
	}
	p.sent = append(p.sent, published{topic: topic, key: key, tag: tag, body: body})
	return nil
}

type recordingRefund struct {
	subs []uint64
}

func (r *recordingRefund) Refund(_ context.Context, _ *models.MainOrder, sub *models.SubOrder, _ *models.WorkOrder) error {
	r.subs = append(r.subs, sub.ID)
	return nil
}

type memPaidCache struct {
	mu   sync.Mutex
	paid map[string]bool
}

func (m *memPaidCache) key(userID, orderID uint64) string {
	return fmt.Sprintf("%d:%d", userID, orderID)
}

func (m *memPaidCache) MarkPaid(_ context.Context, userID, orderID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paid[m.key(userID, orderID)] = true
	return nil
}

func (m *memPaidCache) IsPaid(_ context.Context, userID, orderID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paid[m.key(userID, orderID)], nil
}

type testEnv struct {
	db   *gorm.DB
	conf *config.OrderConfig

	orderDAO     *dao.Order
	subOrderDAO  *dao.SubOrder
	workOrderDAO *dao.WorkOrder
	walletDAO    *dao.Wallet
	eventDAO     *dao.OrderEvent

	gateway   *stubGateway
	publisher *stubPublisher
	refund    *recordingRefund
	paid      *memPaidCache

	events     *OrderEventService
	wallet     *WalletService
	delivery   *DeliveryService
	orders     *OrderService
	pay        *PayService
	notify     *PayNotifyService
	afterSales *AfterSalesService
	recharge   *RechargeService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 单连接，事务内的所有读写必须走 ctx 中的 tx
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	conf := &config.OrderConfig{
		SerialPrefix: "MO",
		HashSalt:     "test-salt",
		PayWays: []config.PayWayConfig{
			{Way: models.PayWayBalance, Name: "余额支付", Sort: 3, Enabled: true},
			{Way: models.PayWayWechat, Name: "微信支付", Sort: 1, Enabled: true},
			{Way: models.PayWayAlipay, Name: "支付宝", Sort: 2, Enabled: false},
		},
		Recharge: config.RechargeConfig{
			Enabled:     true,
			MinRecharge: decimal.NewFromInt(10),
			Packages: []config.RechargePackage{
				{ID: 1, Name: "充50送10", Money: decimal.NewFromInt(50), GiveMoney: decimal.NewFromInt(10)},
			},
		},
		Relay: config.EventRelay{Spec: "*/10 * * * * *", Batch: 100},
	}

	e := &testEnv{
		db:           db,
		conf:         conf,
		orderDAO:     dao.NewOrder(db),
		subOrderDAO:  dao.NewSubOrder(db),
		workOrderDAO: dao.NewWorkOrder(db),
		walletDAO:    dao.NewWallet(db),
		eventDAO:     dao.NewOrderEvent(db),
		gateway:      &stubGateway{},
		publisher:    &stubPublisher{},
		refund:       &recordingRefund{},
		paid:         &memPaidCache{paid: map[string]bool{}},
	}
	serial := NewSnowflakeSerial(conf)
	locker := lock.NewLocalLocker()

	e.events = &OrderEventService{
		EventDAO:  e.eventDAO,
		Publisher: e.publisher,
		MQ:        &config.RocketMQConfig{OrderTopic: "mall_order_event"},
	}
	e.wallet = &WalletService{DB: db, WalletDAO: e.walletDAO}
	e.delivery = &DeliveryService{DB: db, OrderDAO: e.orderDAO, SubOrderDAO: e.subOrderDAO, Event: e.events}
	e.orders = &OrderService{
		DB:           db,
		OrderDAO:     e.orderDAO,
		SubOrderDAO:  e.subOrderDAO,
		WorkOrderDAO: e.workOrderDAO,
		Address:      &AddressStore{AddressDAO: dao.NewAddress(db)},
		Catalog:      &CatalogStore{CommodityDAO: dao.NewCommodity(db)},
		Cart:         &CartTable{CartDAO: dao.NewCart(db)},
		Serial:       serial,
		Discount:     NoDiscount{},
		Event:        e.events,
	}
	e.pay = &PayService{
		Config:   conf,
		OrderDAO: e.orderDAO,
		Strategies: RegisterStrategies(
			&BalanceStrategy{DB: db, OrderDAO: e.orderDAO, Wallet: e.wallet, Delivery: e.delivery, Event: e.events},
			&GatewayStrategy{Way: models.PayWayWechat, Gateway: e.gateway},
			&GatewayStrategy{Way: models.PayWayAlipay, Gateway: e.gateway},
		),
		Paid: e.paid,
	}
	e.notify = &PayNotifyService{
		DB:           db,
		OrderDAO:     e.orderDAO,
		PayRecordDAO: dao.NewPayRecord(db),
		Wallet:       e.wallet,
		Delivery:     e.delivery,
		Event:        e.events,
		Locker:       locker,
		Paid:         e.paid,
	}
	e.afterSales = &AfterSalesService{
		DB:           db,
		Config:       conf,
		OrderDAO:     e.orderDAO,
		SubOrderDAO:  e.subOrderDAO,
		WorkOrderDAO: e.workOrderDAO,
		Event:        e.events,
		Locker:       locker,
		Refund:       e.refund,
	}
	e.recharge = &RechargeService{
		DB:          db,
		Config:      conf,
		OrderDAO:    e.orderDAO,
		SubOrderDAO: e.subOrderDAO,
		Serial:      serial,
		Event:       e.events,
	}
	return e
}

func (e *testEnv) seedCommodity(t *testing.T, title, price string, stock uint32, deliveryType int8) *models.Commodity {
	t.Helper()
	c := &models.Commodity{
		Title:        title,
		Price:        decimal.RequireFromString(price),
		Fee:          decimal.RequireFromString("10.00"),
		Stock:        stock,
		DeliveryType: deliveryType,
		IsShow:       true,
	}
	require.NoError(t, e.db.Create(c).Error)
	return c
}

func (e *testEnv) seedAddress(t *testing.T, userID uint64) *models.Address {
	t.Helper()
	a := &models.Address{
		UserID:    userID,
		Name:      "张三",
		Phone:     "13800000000",
		Province:  "广东省",
		City:      "深圳市",
		District:  "南山区",
		Address:   "科技园 1 号",
		IsDefault: true,
	}
	require.NoError(t, e.db.Create(a).Error)
	return a
}

func (e *testEnv) seedCart(t *testing.T, userID, commodityID uint64, quantity uint32) *models.ShoppingCart {
	t.Helper()
	c := &models.ShoppingCart{UserID: userID, CommodityID: commodityID, Quantity: quantity}
	require.NoError(t, e.db.Create(c).Error)
	return c
}

func (e *testEnv) seedBalance(t *testing.T, userID uint64, amount string) {
	t.Helper()
	_, err := e.wallet.Credit(context.Background(), &WalletChange{
		UserID:     userID,
		Amount:     decimal.RequireFromString(amount),
		SourceType: models.WalletSourceAdjust,
		SourceSn:   fmt.Sprintf("seed-%d-%s", userID, amount),
		Remark:     "测试入账",
	})
	require.NoError(t, err)
}

func (e *testEnv) balanceOf(t *testing.T, userID uint64) decimal.Decimal {
	t.Helper()
	acc, err := e.wallet.Balance(context.Background(), userID)
	require.NoError(t, err)
	return acc.Balance
}

func (e *testEnv) countEvents(t *testing.T, orderSn, eventType string) int {
	t.Helper()
	events, err := e.eventDAO.ListByOrder(context.Background(), orderSn)
	require.NoError(t, err)
	n := 0
	for _, ev := range events {
		if ev.EventType == eventType {
			n++
		}
	}
	return n
}

func (e *testEnv) findOrder(t *testing.T, id uint64) *models.MainOrder {
	t.Helper()
	o, err := e.orderDAO.FindById(context.Background(), id)
	require.NoError(t, err)
	return o
}

func (e *testEnv) findSub(t *testing.T, id uint64) *models.SubOrder {
	t.Helper()
	s, err := e.subOrderDAO.FindById(context.Background(), id)
	require.NoError(t, err)
	return s
}

// markPaid 模拟渠道回调把订单置为已支付
func (e *testEnv) markPaid(t *testing.T, orderID uint64) {
	t.Helper()
	o := e.findOrder(t, orderID)
	require.NoError(t, e.notify.Handle(context.Background(), o.OrderType, o.OrderSn, "TX"+o.OrderSn))
}
