package itemserial

import "testing"

// bodyField is one value of a hand-built plaintext body.
type bodyField struct {
	value uint64
	bits  int
}

// buildBody packs fields into a plaintext body in wire order.
func buildBody(fields ...bodyField) []byte {
	b := NewBitBuffer(nil)
	for _, f := range fields {
		b.AppendValue(f.value, f.bits)
	}
	return b.Bytes()
}

// pistolBody is a version 0 body: balance 5 (8 bits), inventory 0
// (6 bits), manufacturer 0 (4 bits), level 30, four tail bits.
func pistolBody() []byte {
	return buildBody(
		bodyField{128, 8},
		bodyField{0, 7},
		bodyField{5, 8},
		bodyField{0, 6},
		bodyField{0, 4},
		bodyField{30, 7},
		bodyField{0, 4},
	)
}

// testCatalog returns a catalog with a width change at version 2.
func testCatalog(t testing.TB) *Catalog {
	t.Helper()
	c, err := NewCatalog(
		CategoryTable{
			Name:     CategoryBalance,
			Versions: []VersionWidth{{Version: 0, Bits: 8}, {Version: 2, Bits: 9}},
			Parts: []string{
				"/Game/Gear/Weapons/AR/Balance_AR_COV_01.Balance_AR_COV_01",
				"/Game/Gear/Weapons/SMG/Balance_SM_HYP_01.Balance_SM_HYP_01",
				"/Game/Gear/Shields/Balance_Shield_01.Balance_Shield_01",
				"/Game/Gear/GrenadeMods/Balance_GM_01.Balance_GM_01",
				"pistol_balance",
			},
		},
		CategoryTable{
			Name:     CategoryInventoryData,
			Versions: []VersionWidth{{Version: 0, Bits: 6}},
			Parts: []string{
				"/Game/Gear/Weapons/Pistols/Jakobs/_Shared/_Design/WT_PS_JAK.WT_PS_JAK",
			},
		},
		CategoryTable{
			Name:     CategoryManufacturer,
			Versions: []VersionWidth{{Version: 0, Bits: 4}, {Version: 2, Bits: 5}},
			Parts: []string{
				"/Game/Gear/Manufacturers/_Design/Jakobs.Jakobs",
				"/Game/Gear/Manufacturers/_Design/Maliwan.Maliwan",
			},
		},
	)
	if err != nil {
		t.Fatalf("NewCatalog() error: %v", err)
	}
	return c
}
