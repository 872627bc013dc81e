package analytics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColumnsMapsCommonAliases(t *testing.T) {
	table := &Table{
		Headers: []string{"Order Date", "Product", "Qty", "Unit Price"},
	}

	cm, err := ResolveColumns(table)
	require.NoError(t, err)
	assert.Equal(t, 0, cm.Date)
	assert.Equal(t, 1, cm.ItemName)
	assert.Equal(t, 2, cm.Quantity)
	assert.Equal(t, 3, cm.UnitPrice)
	assert.Equal(t, -1, cm.SKU)
}

func TestResolveColumnsCaseAndSeparatorInsensitive(t *testing.T) {
	table := &Table{Headers: []string{"TRANSACTION-DATE", "item name", "Units Sold", "SKU"}}

	cm, err := ResolveColumns(table)
	require.NoError(t, err)
	assert.Equal(t, 0, cm.Date)
	assert.Equal(t, 1, cm.ItemName)
	assert.Equal(t, 2, cm.Quantity)
	assert.Equal(t, 3, cm.SKU)
}

func TestResolveColumnsMissingDate(t *testing.T) {
	table := &Table{Headers: []string{"Product", "Qty"}}

	_, err := ResolveColumns(table)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Contains(t, schemaErr.Missing, "date")
	assert.Contains(t, err.Error(), "date")
}

func TestResolveColumnsMissingProductIdentity(t *testing.T) {
	table := &Table{Headers: []string{"Date", "Qty"}}

	_, err := ResolveColumns(table)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Contains(t, schemaErr.Missing, "sku/itemname")
}

func TestResolveColumnsMissingQuantity(t *testing.T) {
	table := &Table{Headers: []string{"Date", "Product"}}

	_, err := ResolveColumns(table)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Contains(t, schemaErr.Missing, "quantity")
}

func TestSynthesizeSKU(t *testing.T) {
	assert.Equal(t, "COCACOLA500ML", SynthesizeSKU("Coca-Cola 500ml"))
	assert.Equal(t, "", SynthesizeSKU("!!!"))

	long := SynthesizeSKU("A very long product name that keeps going")
	assert.Len(t, long, 20)
}

// Distinct names can truncate to the same SKU. That collision surface is a
// known limitation carried over intentionally, not deduplicated.
func TestSynthesizeSKUCollisionPreserved(t *testing.T) {
	a := SynthesizeSKU("Premium Dark Chocolate Bar 70%")
	b := SynthesizeSKU("Premium Dark Chocolate Bar 85%")
	assert.Equal(t, a, b)
}
