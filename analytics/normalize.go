package analytics

import (
	"log"
	"strings"
)

// columnAliases maps each canonical column concept to the spellings seen in
// common POS export formats. First alias match wins.
var columnAliases = map[string][]string{
	"date": {
		"date", "transaction_date", "sales_date", "order_date", "bill_date",
	},
	"itemname": {
		"product", "item", "product_name", "item_name", "productname", "itemname",
	},
	"sku": {
		"sku", "product_id", "itemcode", "item_code", "product_code", "barcode",
	},
	"quantity": {
		"qty", "quantity", "units", "units_sold", "quantity_sold", "amount_units",
	},
	"unit_price": {
		"unit_price", "price", "selling_price", "rate", "unit_rate",
	},
	"amount": {
		"amount", "total", "sale_amount", "total_amount",
	},
	"store": {
		"store", "shop", "store_name", "shop_name", "branch", "outlet",
	},
}

// NormalizeHeader case-folds a header and collapses whitespace and hyphens
// into underscores, so "Order Date", "order-date" and "ORDER_DATE" all
// compare equal.
func NormalizeHeader(h string) string {
	h = strings.TrimSpace(strings.ToLower(h))
	h = strings.Join(strings.Fields(h), "_")
	return strings.ReplaceAll(h, "-", "_")
}

// ColumnMap records where each canonical concept lives in the raw table.
// An index of -1 means the concept is absent.
type ColumnMap struct {
	Date      int
	SKU       int
	ItemName  int
	Quantity  int
	UnitPrice int
	Amount    int
	Store     int
}

// DetectColumn finds the raw header matching a canonical concept, or -1.
func DetectColumn(headers []string, concept string) int {
	aliases, ok := columnAliases[concept]
	if !ok {
		return -1
	}
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}
	for _, alias := range aliases {
		for i, h := range normalized {
			if h == alias {
				return i
			}
		}
	}
	return -1
}

// ResolveColumns maps the upload's arbitrary headers onto the canonical
// schema {date, sku, itemname, quantity}. It fails with *SchemaError if date
// or quantity is missing, or if neither sku nor itemname can be established.
// A missing sku is synthesized from itemname downstream; a missing itemname
// falls back to the sku value.
func ResolveColumns(t *Table) (ColumnMap, error) {
	cm := ColumnMap{
		Date:      DetectColumn(t.Headers, "date"),
		SKU:       DetectColumn(t.Headers, "sku"),
		ItemName:  DetectColumn(t.Headers, "itemname"),
		Quantity:  DetectColumn(t.Headers, "quantity"),
		UnitPrice: DetectColumn(t.Headers, "unit_price"),
		Amount:    DetectColumn(t.Headers, "amount"),
		Store:     DetectColumn(t.Headers, "store"),
	}

	var missing []string
	if cm.Date < 0 {
		missing = append(missing, "date")
	}
	if cm.Quantity < 0 {
		missing = append(missing, "quantity")
	}
	if cm.SKU < 0 && cm.ItemName < 0 {
		missing = append(missing, "sku/itemname")
	}
	if len(missing) > 0 {
		return cm, &SchemaError{Missing: missing, Found: t.Headers}
	}

	log.Printf("📊 Detected columns - date:%d sku:%d itemname:%d quantity:%d price:%d",
		cm.Date, cm.SKU, cm.ItemName, cm.Quantity, cm.UnitPrice)
	return cm, nil
}

// SynthesizeSKU derives a deterministic SKU from an item name: strip
// non-alphanumerics, upper-case, truncate to 20 characters. Distinct names
// can collide after truncation; collisions are accepted, not deduplicated.
func SynthesizeSKU(itemName string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(itemName) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > 20 {
		s = s[:20]
	}
	return s
}
