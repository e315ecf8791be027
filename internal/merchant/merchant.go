// Package merchant implements the dungeon shopkeeper: stock sampled
// per item type from the full catalog, per-visit price perturbation,
// and the buy/sell flows against a character's purse.
package merchant

import (
	"github.com/lawnchairsociety/dungeondelve/internal/catalog"
	"github.com/lawnchairsociety/dungeondelve/internal/config"
	"github.com/lawnchairsociety/dungeondelve/internal/creature"
	"github.com/lawnchairsociety/dungeondelve/internal/dice"
	"github.com/lawnchairsociety/dungeondelve/internal/logger"
)

// restockOrder fixes the sampling order so a seeded roller restocks
// the same shop every time.
var restockOrder = []catalog.ItemType{
	catalog.TypeWeapon,
	catalog.TypeArmor,
	catalog.TypeShield,
	catalog.TypeConsumable,
	catalog.TypeTool,
}

// StockItem is one shelf entry: the item plus the price rolled for it
// at stocking time.
type StockItem struct {
	Item  catalog.Item
	Price int
}

// Merchant runs the shop on a floor. Stock only shrinks through
// purchases; Refresh regenerates it wholesale.
type Merchant struct {
	// Tier is the floor the merchant set up shop on.
	Tier int

	stock   []StockItem
	cfg     config.MerchantConfig
	catalog *catalog.Catalog
	roller  dice.Roller
}

// New creates a merchant for the tier with a freshly rolled stock.
func New(cat *catalog.Catalog, cfg config.MerchantConfig, roller dice.Roller, tier int) *Merchant {
	m := &Merchant{
		Tier:    tier,
		cfg:     cfg,
		catalog: cat,
		roller:  roller,
	}
	m.Refresh()
	return m
}

// Refresh throws out the current stock and rolls a new one: a quota of
// each item type sampled without replacement from the whole catalog,
// plus a chance of one extra item per catalog tier. Prices are
// re-perturbed on every refresh.
func (m *Merchant) Refresh() {
	m.stock = nil

	for _, itemType := range restockOrder {
		quota := m.cfg.RestockCounts[itemType.String()]
		pool := m.catalog.ItemsByTierAndType(m.catalog.MaxTier(), itemType)

		for i := 0; i < quota && len(pool) > 0; i++ {
			idx := m.roller.Intn(len(pool))
			m.addStock(pool[idx])
			pool = append(pool[:idx], pool[idx+1:]...)
		}
	}

	for tier := 1; tier <= m.catalog.MaxTier(); tier++ {
		if m.roller.Float64() >= m.cfg.ExtraItemChance {
			continue
		}
		pool := m.catalog.ItemsOfTier(tier)
		if len(pool) == 0 {
			continue
		}
		m.addStock(pool[m.roller.Intn(len(pool))])
	}

	logger.Info("Merchant restocked", "tier", m.Tier, "items", len(m.stock))
}

// addStock shelves an item at its perturbed price, never below 1.
func (m *Merchant) addStock(item catalog.Item) {
	factor := 1 + m.roller.Uniform(-m.cfg.PriceVariation, m.cfg.PriceVariation)
	price := int(float64(item.Price) * factor)
	if price < 1 {
		price = 1
	}
	m.stock = append(m.stock, StockItem{Item: item, Price: price})
}

// Stock returns a copy of the current shelf contents, so callers can
// iterate it safely while buying mutates the shelf.
func (m *Merchant) Stock() []StockItem {
	out := make([]StockItem, len(m.stock))
	copy(out, m.stock)
	return out
}

// StockByType returns shelf entries of one item type, in shelf order.
func (m *Merchant) StockByType(itemType catalog.ItemType) []StockItem {
	var out []StockItem
	for _, s := range m.stock {
		if s.Item.Type == itemType {
			out = append(out, s)
		}
	}
	return out
}

// AvailableTypes returns the item types currently in stock, in the
// fixed restock order.
func (m *Merchant) AvailableTypes() []catalog.ItemType {
	var out []catalog.ItemType
	for _, itemType := range restockOrder {
		if len(m.StockByType(itemType)) > 0 {
			out = append(out, itemType)
		}
	}
	return out
}

// HasItem reports whether the named item is in stock.
func (m *Merchant) HasItem(name string) bool {
	_, ok := m.findStock(name)
	return ok
}

// PriceOf returns the stocked price of the named item.
func (m *Merchant) PriceOf(name string) (int, bool) {
	idx, ok := m.findStock(name)
	if !ok {
		return 0, false
	}
	return m.stock[idx].Price, true
}

// StockValue sums the stocked prices of everything on the shelf.
func (m *Merchant) StockValue() int {
	total := 0
	for _, s := range m.stock {
		total += s.Price
	}
	return total
}

// CanPurchase reports whether the buyer could afford the named item at
// its stocked price right now.
func (m *Merchant) CanPurchase(buyer *creature.Character, name string) bool {
	price, ok := m.PriceOf(name)
	return ok && buyer.CanAfford(price)
}

// Buy sells one unit of the named item to the buyer at its stocked
// price. An absent item or an unaffordable price leaves everything
// unchanged and returns false.
func (m *Merchant) Buy(buyer *creature.Character, name string) bool {
	idx, ok := m.findStock(name)
	if !ok {
		logger.Debug("Item not in stock", "item", name)
		return false
	}

	entry := m.stock[idx]
	if !buyer.CanAfford(entry.Price) {
		logger.Debug("Buyer cannot afford item",
			"item", name, "price", entry.Price, "money", buyer.Money)
		return false
	}

	buyer.Money -= entry.Price
	buyer.AddItem(entry.Item)
	m.stock = append(m.stock[:idx], m.stock[idx+1:]...)

	logger.Info("Item sold", "item", name, "price", entry.Price, "buyer", buyer.Name)
	return true
}

// Sell buys the named item off the seller for half its base price,
// rounded down but never below 1. Bought-back items do not return to
// the shelf.
func (m *Merchant) Sell(seller *creature.Character, name string) (int, bool) {
	var item catalog.Item
	found := false
	for _, inv := range seller.Inventory {
		if inv.Name == name {
			item = inv
			found = true
			break
		}
	}
	if !found {
		logger.Debug("Seller does not own item", "item", name)
		return 0, false
	}

	price := int(float64(item.Price) * m.cfg.SellPriceRatio)
	if price < 1 {
		price = 1
	}

	seller.RemoveItem(name)
	seller.Money += price

	logger.Info("Item bought back", "item", name, "price", price, "seller", seller.Name)
	return price, true
}

func (m *Merchant) findStock(name string) (int, bool) {
	for i, s := range m.stock {
		if s.Item.Name == name {
			return i, true
		}
	}
	return 0, false
}
