// Package testing provides fixtures for itemserial tests: a small catalog
// with a width change, a plaintext body builder, and sealed serials.
package testing

import (
	"testing"

	"github.com/zoobzio/itemserial"
)

// PistolBalance is the balance part at index 5 of Catalog.
const PistolBalance = "pistol_balance"

// Field is one value of a hand-built plaintext body.
type Field struct {
	Value uint64
	Bits  int
}

// Body packs fields into a plaintext body in wire order.
func Body(fields ...Field) []byte {
	b := itemserial.NewBitBuffer(nil)
	for _, f := range fields {
		b.AppendValue(f.Value, f.Bits)
	}
	return b.Bytes()
}

// HeaderBody builds a body with the standard header fields followed by
// tail. Widths are the version 0 widths of Catalog.
func HeaderBody(version, balance, inventory, manufacturer, level uint64, tail ...Field) []byte {
	fields := []Field{
		{128, 8},
		{version, 7},
		{balance, 8},
		{inventory, 6},
		{manufacturer, 4},
		{level, 7},
	}
	return Body(append(fields, tail...)...)
}

// PistolBody is a version 0 body: balance 5, level 30, four tail bits.
func PistolBody() []byte {
	return HeaderBody(0, 5, 0, 0, 30, Field{0, 4})
}

// UnsupportedBody is a body one format version past Catalog.
func UnsupportedBody() []byte {
	return Body(Field{128, 8}, Field{3, 7}, Field{0x3FF, 10})
}

// PistolSerial returns PistolBody sealed with seed.
func PistolSerial(seed int32) []byte {
	return itemserial.Seal(PistolBody(), seed)
}

// PistolText returns PistolSerial wrapped as BL3(...).
func PistolText(seed int32) string {
	return itemserial.EncodeText(PistolSerial(seed))
}

// Catalog returns a catalog covering versions 0 through 2. Balance and
// manufacturer widen at version 2.
func Catalog(t testing.TB) *itemserial.Catalog {
	t.Helper()
	c, err := itemserial.NewCatalog(
		itemserial.CategoryTable{
			Name:     itemserial.CategoryBalance,
			Versions: []itemserial.VersionWidth{{Version: 0, Bits: 8}, {Version: 2, Bits: 9}},
			Parts: []string{
				"/Game/Gear/Weapons/AR/Balance_AR_COV_01.Balance_AR_COV_01",
				"/Game/Gear/Weapons/SMG/Balance_SM_HYP_01.Balance_SM_HYP_01",
				"/Game/Gear/Shields/Balance_Shield_01.Balance_Shield_01",
				"/Game/Gear/GrenadeMods/Balance_GM_01.Balance_GM_01",
				PistolBalance,
			},
		},
		itemserial.CategoryTable{
			Name:     itemserial.CategoryInventoryData,
			Versions: []itemserial.VersionWidth{{Version: 0, Bits: 6}},
			Parts: []string{
				"/Game/Gear/Weapons/Pistols/Jakobs/_Shared/_Design/WT_PS_JAK.WT_PS_JAK",
			},
		},
		itemserial.CategoryTable{
			Name:     itemserial.CategoryManufacturer,
			Versions: []itemserial.VersionWidth{{Version: 0, Bits: 4}, {Version: 2, Bits: 5}},
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
