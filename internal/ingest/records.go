// Package ingest parses bulk spreadsheet exports of sales and returns into
// typed records and upserts them into the graph store.
package ingest

// Customer is a buyer node.
type Customer struct {
	Code    string
	Name    string
	Phone   *int64
	Address *string
}

// Salesman is a seller node.
type Salesman struct {
	Code *int64
	Name string
}

// Product is an item node with per-unit pricing.
type Product struct {
	Code        *int64
	Name        string
	PriceBig    *float64
	PriceMedium *float64
	PriceSmall  *float64
	BigUnit     *string
	MediumUnit  *string
	SmallUnit   *string
}

// Area is a delivery area node.
type Area struct {
	Name string
}

// Order is an invoice node.
type Order struct {
	InvoiceCode    string
	Date           string
	DiscountAmount *int64
	LineAmount     *int64
}

// Return is a returned-invoice node.
type Return struct {
	ReturnCode     string
	Date           string
	ReturnedAmount *int64
}

// Line carries the per-row quantities attached to the order-product or
// return-product relationship.
type Line struct {
	BatchNumber    string
	BigQuantity    *float64
	MediumQuantity *int64
	SmallQuantity  *int64
}

// SalesRecord is one sales spreadsheet row.
type SalesRecord struct {
	Customer Customer
	Salesman Salesman
	Product  Product
	Area     Area
	Order    Order
	Line     Line
}

// ReturnRecord is one returns spreadsheet row. InvoiceCode links the return
// back to the original order.
type ReturnRecord struct {
	Customer    Customer
	Salesman    Salesman
	Product     Product
	Area        Area
	InvoiceCode string
	Return      Return
	Line        Line
}

// params flattens shared entity fields into statement parameters.
func entityParams(c Customer, s Salesman, p Product, a Area, line Line) map[string]any {
	return map[string]any{
		"customerCode":   c.Code,
		"customerName":   c.Name,
		"phoneNumber":    optInt(c.Phone),
		"address":        optString(c.Address),
		"salesmanCode":   optInt(s.Code),
		"salesmanName":   s.Name,
		"itemCode":       optInt(p.Code),
		"itemName":       p.Name,
		"priceBig":       optFloat(p.PriceBig),
		"priceMedium":    optFloat(p.PriceMedium),
		"priceSmall":     optFloat(p.PriceSmall),
		"bigUnit":        optString(p.BigUnit),
		"mediumUnit":     optString(p.MediumUnit),
		"smallUnit":      optString(p.SmallUnit),
		"area":           a.Name,
		"batchNumber":    line.BatchNumber,
		"bigQuantity":    optFloat(line.BigQuantity),
		"mediumQuantity": optInt(line.MediumQuantity),
		"smallQuantity":  optInt(line.SmallQuantity),
	}
}

// Params returns the statement parameters for a sales upsert.
func (r *SalesRecord) Params() map[string]any {
	params := entityParams(r.Customer, r.Salesman, r.Product, r.Area, r.Line)
	params["invoiceCode"] = r.Order.InvoiceCode
	params["date"] = r.Order.Date
	params["discountAmount"] = optInt(r.Order.DiscountAmount)
	params["lineAmount"] = optInt(r.Order.LineAmount)
	return params
}

// Params returns the statement parameters for a returns upsert.
func (r *ReturnRecord) Params() map[string]any {
	params := entityParams(r.Customer, r.Salesman, r.Product, r.Area, r.Line)
	params["invoiceCode"] = r.InvoiceCode
	params["returnCode"] = r.Return.ReturnCode
	params["date"] = r.Return.Date
	params["lineAmount"] = optInt(r.Return.ReturnedAmount)
	return params
}

func optInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func optFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func optString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
