package merchant

import (
	"testing"

	"github.com/lawnchairsociety/dungeondelve/internal/catalog"
	"github.com/lawnchairsociety/dungeondelve/internal/config"
	"github.com/lawnchairsociety/dungeondelve/internal/creature"
	"github.com/lawnchairsociety/dungeondelve/internal/dice"
)

func testCatalog() *catalog.Catalog {
	items := []catalog.Item{
		{Name: "Steel Sword", Type: catalog.TypeWeapon, DamageMin: 2, DamageMax: 6, Price: 100, Tier: 1},
		{Name: "Iron Sword", Type: catalog.TypeWeapon, DamageMin: 3, DamageMax: 8, Price: 120, Tier: 2},
		{Name: "Leather Armor", Type: catalog.TypeArmor, Defense: 2, Price: 50, Tier: 1},
		{Name: "Wooden Shield", Type: catalog.TypeShield, Defense: 1, Price: 30, Tier: 1},
		{Name: "Lesser Health Potion", Type: catalog.TypeConsumable, Price: 15, Tier: 1,
			Effect: catalog.Effect{Kind: catalog.EffectHeal, Amount: 20}},
		{Name: "Torch", Type: catalog.TypeTool, Price: 5, Tier: 1},
		{Name: "Scrap", Type: catalog.TypeTool, Price: 1, Tier: 1},
	}
	tiers := []catalog.TierRecord{
		{Tier: 1, Title: "Novice", Attack: 5, Defense: 3, Health: 50, MinXP: 0},
		{Tier: 2, Title: "Adventurer", Attack: 8, Defense: 5, Health: 80, MinXP: 100},
	}
	return catalog.New(items, nil, tiers)
}

// scriptedRoller feeds predetermined values to code under test.
type scriptedRoller struct {
	floats []float64
	ints   []int
}

func (s *scriptedRoller) D20() int { return 10 }

func (s *scriptedRoller) IntBetween(min, max int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

func (s *scriptedRoller) Intn(n int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

func (s *scriptedRoller) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRoller) Uniform(min, max float64) float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRoller) Shuffle(n int, swap func(i, j int)) {}

func testBuyer(t *testing.T, money int) *creature.Character {
	t.Helper()
	c, err := creature.RestoreCharacter(testCatalog(), "Mira", 30, 1, 0, 50, money, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("RestoreCharacter failed: %v", err)
	}
	return c
}

// weaponOnly stocks a single weapon so scripted draws stay simple.
// The weapon pool sorts to [Iron Sword, Steel Sword]; an Intn of 1
// shelves the Steel Sword. Both extra-item rolls need a scripted miss.
func weaponOnly() config.MerchantConfig {
	cfg := config.DefaultConfig().Merchant
	cfg.RestockCounts = map[string]int{"weapon": 1}
	return cfg
}

func TestRefreshStocksQuotasPerType(t *testing.T) {
	m := New(testCatalog(), config.DefaultConfig().Merchant, dice.NewRoller(7), 1)

	// Full-catalog pools: two weapons, one armor, one shield, one
	// consumable, two tools. Quotas are capped by pool size; each
	// catalog tier may add one extra of any type.
	if got := len(m.StockByType(catalog.TypeWeapon)); got < 2 {
		t.Errorf("weapons stocked = %d, want the full pool of 2", got)
	}
	if got := len(m.StockByType(catalog.TypeArmor)); got < 1 {
		t.Errorf("armor stocked = %d, want at least 1", got)
	}
	if got := len(m.StockByType(catalog.TypeShield)); got < 1 {
		t.Errorf("shields stocked = %d, want at least 1", got)
	}
	if got := len(m.StockByType(catalog.TypeConsumable)); got < 1 {
		t.Errorf("consumables stocked = %d, want at least 1", got)
	}
	if got := len(m.StockByType(catalog.TypeTool)); got < 2 {
		t.Errorf("tools stocked = %d, want the full pool of 2", got)
	}
	if got, want := len(m.Stock()), 7; got < want || got > want+2 {
		t.Errorf("total stock = %d, want between %d and %d", got, want, want+2)
	}

	for _, s := range m.Stock() {
		if s.Price < 1 {
			t.Errorf("%s stocked at %d, want at least 1", s.Item.Name, s.Price)
		}
	}
}

func TestRefreshStocksAboveMerchantTier(t *testing.T) {
	// A floor-one merchant still shelves goods from every catalog
	// tier: the only weapon here is tier 2.
	cat := catalog.New([]catalog.Item{
		{Name: "Iron Sword", Type: catalog.TypeWeapon, DamageMin: 3, DamageMax: 8, Price: 120, Tier: 2},
	}, nil, []catalog.TierRecord{
		{Tier: 1, Title: "Novice", Attack: 5, Defense: 3, Health: 50, MinXP: 0},
		{Tier: 2, Title: "Adventurer", Attack: 8, Defense: 5, Health: 80, MinXP: 100},
	})

	r := &scriptedRoller{ints: []int{0}, floats: []float64{0.0, 1.0, 1.0}}
	m := New(cat, weaponOnly(), r, 1)

	if len(m.Stock()) != 1 {
		t.Fatalf("stocked %d items, want the tier-2 weapon", len(m.Stock()))
	}
	if got := m.Stock()[0].Item; got.Name != "Iron Sword" || got.Tier != 2 {
		t.Errorf("stocked %q (tier %d), want the tier-2 Iron Sword", got.Name, got.Tier)
	}
}

func TestStockPricePerturbedAtBound(t *testing.T) {
	// Variation roll forced to the +20% bound: base 100 shelves at 120.
	r := &scriptedRoller{ints: []int{1}, floats: []float64{0.2, 1.0, 1.0}}
	m := New(testCatalog(), weaponOnly(), r, 1)

	price, ok := m.PriceOf("Steel Sword")
	if !ok {
		t.Fatal("Steel Sword not stocked")
	}
	if price != 120 {
		t.Errorf("stocked price = %d, want 120", price)
	}
}

func TestBuyDebitsAndRemovesStock(t *testing.T) {
	r := &scriptedRoller{ints: []int{1}, floats: []float64{0.2, 1.0, 1.0}}
	m := New(testCatalog(), weaponOnly(), r, 1)
	buyer := testBuyer(t, 200)

	if !m.CanPurchase(buyer, "Steel Sword") {
		t.Fatal("buyer with 200 copper cannot purchase at 120")
	}
	if !m.Buy(buyer, "Steel Sword") {
		t.Fatal("Buy failed")
	}

	if buyer.Money != 80 {
		t.Errorf("money = %d, want 80", buyer.Money)
	}
	if !buyer.HasItem("Steel Sword") {
		t.Error("bought item missing from inventory")
	}
	if m.HasItem("Steel Sword") {
		t.Error("sold item still on the shelf")
	}
}

func TestBuyFailsWithoutFunds(t *testing.T) {
	r := &scriptedRoller{ints: []int{1}, floats: []float64{0.2, 1.0, 1.0}}
	m := New(testCatalog(), weaponOnly(), r, 1)
	buyer := testBuyer(t, 100)

	if m.Buy(buyer, "Steel Sword") {
		t.Fatal("bought a 120-copper item with 100 copper")
	}
	if buyer.Money != 100 || len(buyer.Inventory) != 0 {
		t.Error("failed buy changed the buyer's state")
	}
	if !m.HasItem("Steel Sword") {
		t.Error("failed buy removed stock")
	}
}

func TestBuyUnknownItem(t *testing.T) {
	r := &scriptedRoller{ints: []int{1}, floats: []float64{0.0, 1.0, 1.0}}
	m := New(testCatalog(), weaponOnly(), r, 1)
	buyer := testBuyer(t, 1000)

	if m.Buy(buyer, "Excalibur") {
		t.Error("bought an item the merchant never stocked")
	}
	if buyer.Money != 1000 {
		t.Error("failed buy debited the buyer")
	}
}

func TestSellPaysHalfBasePrice(t *testing.T) {
	cat := testCatalog()
	m := New(cat, weaponOnly(), &scriptedRoller{ints: []int{1}, floats: []float64{0.2, 1.0, 1.0}}, 1)
	seller := testBuyer(t, 0)

	sword, _ := cat.Item("Steel Sword")
	seller.AddItem(sword)

	// Half of the base 100, regardless of the shelf's +20% price.
	price, ok := m.Sell(seller, "Steel Sword")
	if !ok {
		t.Fatal("Sell failed")
	}
	if price != 50 {
		t.Errorf("sell price = %d, want 50", price)
	}
	if seller.Money != 50 {
		t.Errorf("money = %d, want 50", seller.Money)
	}
	if seller.HasItem("Steel Sword") {
		t.Error("sold item still in inventory")
	}
	if len(m.StockByType(catalog.TypeWeapon)) != 1 {
		t.Error("bought-back item appeared on the shelf")
	}
}

func TestSellNeverBelowOne(t *testing.T) {
	cat := testCatalog()
	m := New(cat, weaponOnly(), &scriptedRoller{ints: []int{1}, floats: []float64{0.0, 1.0, 1.0}}, 1)
	seller := testBuyer(t, 0)

	scrap, _ := cat.Item("Scrap")
	seller.AddItem(scrap)

	price, ok := m.Sell(seller, "Scrap")
	if !ok || price != 1 {
		t.Errorf("sell price = %d (ok=%v), want the 1-copper floor", price, ok)
	}
}

func TestSellRequiresOwnership(t *testing.T) {
	m := New(testCatalog(), weaponOnly(), &scriptedRoller{ints: []int{1}, floats: []float64{0.0, 1.0, 1.0}}, 1)
	seller := testBuyer(t, 10)

	if _, ok := m.Sell(seller, "Steel Sword"); ok {
		t.Error("sold an item the seller does not own")
	}
	if seller.Money != 10 {
		t.Error("failed sell credited the seller")
	}
}

func TestBuyThenSellNeverProfits(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 4, 5} {
		m := New(testCatalog(), config.DefaultConfig().Merchant, dice.NewRoller(seed), 2)
		buyer := testBuyer(t, 10000)
		start := buyer.Money

		stock := m.Stock()
		if len(stock) == 0 {
			t.Fatalf("seed %d: merchant stocked nothing", seed)
		}
		name := stock[0].Item.Name
		if !m.Buy(buyer, name) {
			t.Fatalf("seed %d: buy of %q failed", seed, name)
		}
		if _, ok := m.Sell(buyer, name); !ok {
			t.Fatalf("seed %d: sell of %q failed", seed, name)
		}

		if buyer.Money > start {
			t.Errorf("seed %d: round-tripping %q grew money from %d to %d",
				seed, name, start, buyer.Money)
		}
	}
}

func TestRefreshRerollsStock(t *testing.T) {
	m := New(testCatalog(), config.DefaultConfig().Merchant, dice.NewRoller(11), 2)
	buyer := testBuyer(t, 100000)

	for _, s := range m.Stock() {
		m.Buy(buyer, s.Item.Name)
	}
	if len(m.Stock()) != 0 {
		t.Fatal("expected an empty shelf after buying everything")
	}

	m.Refresh()
	if len(m.Stock()) == 0 {
		t.Error("Refresh left the shelf empty")
	}
}
