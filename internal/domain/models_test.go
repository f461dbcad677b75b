package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedicineJSONUsesPersistedShape(t *testing.T) {
	m := Medicine{
		ID:           "m1",
		Name:         "Paracetamol 500mg",
		Category:     "Analgesic",
		Stock:        150,
		Threshold:    50,
		CostPrice:    Money(0.5),
		SellingPrice: Money(2),
		ExpiryDate:   NewDate(2025, time.December, 31),
		Manufacturer: "GSK",
		VendorID:     "v1",
	}

	raw, err := json.Marshal(m)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, "2025-12-31", generic["expiryDate"])
	assert.Equal(t, 0.5, generic["costPrice"])
	assert.Equal(t, "v1", generic["vendorId"])

	var back Medicine
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.SellingPrice.Equal(Money(2)))
	assert.Equal(t, m.ExpiryDate, back.ExpiryDate)
}

func TestDateAcceptsTimestamps(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-06-15T10:30:00Z"`), &d))
	assert.Equal(t, "2024-06-15", d.String())

	assert.Error(t, json.Unmarshal([]byte(`"15/06/2024"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240615`), &d))
}

func TestSaleItemLineTotals(t *testing.T) {
	item := SaleItem{Quantity: 3, PriceAtSale: Money(8.5), CostAtSale: Money(3)}

	assert.Equal(t, "25.50", Format2(item.LineTotal()))
	assert.Equal(t, "9.00", Format2(item.LineCost()))
}
