package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/salesgraph/graphchat-api/internal/graph"
	"github.com/salesgraph/graphchat-api/pkg/logger"
	"github.com/salesgraph/graphchat-api/pkg/metrics"
)

const salesUpsert = `
MERGE (c:Customer {code: $customerCode})
ON CREATE SET c.name = $customerName, c.phone = toInteger($phoneNumber), c.address = $address
MERGE (s:Salesman {code: toInteger($salesmanCode)})
ON CREATE SET s.name = $salesmanName
MERGE (i:Product {code: toInteger($itemCode)})
ON CREATE SET i.name = $itemName, i.priceBig = toInteger($priceBig), i.priceMedium = toInteger($priceMedium), i.priceSmall = toInteger($priceSmall), i.bigUnit = $bigUnit, i.mediumUnit = $mediumUnit, i.smallUnit = $smallUnit
MERGE (a:Area {name: $area})
MERGE (o:Order {invoiceCode: $invoiceCode})
ON CREATE SET o.invoiceDate = datetime($date), o.discountAmount = toInteger($discountAmount), o.lineAmount = toInteger($lineAmount)
MERGE (c)-[:PLACED_ORDER]->(o)
MERGE (s)-[:SOLD_ORDER]->(o)
MERGE (o)-[saleP:CONTAINS_PRODUCT]->(i)
MERGE (o)-[:DELIVERED_IN]->(a)
MERGE (c)-[:LOCATED_IN]->(a)
SET saleP.batchNumber = $batchNumber,
saleP.bigQuantity = toInteger($bigQuantity),
saleP.mediumQuantity = toInteger($mediumQuantity),
saleP.smallQuantity = toInteger($smallQuantity)
`

const returnsUpsert = `
MERGE (c:Customer {code: $customerCode})
ON CREATE SET c.name = $customerName, c.phone = toInteger($phoneNumber), c.address = $address
MERGE (s:Salesman {code: toInteger($salesmanCode)})
ON CREATE SET s.name = $salesmanName
MERGE (i:Product {code: toInteger($itemCode)})
ON CREATE SET i.name = $itemName, i.priceBig = toInteger($priceBig), i.priceMedium = toInteger($priceMedium), i.priceSmall = toInteger($priceSmall), i.bigUnit = $bigUnit, i.mediumUnit = $mediumUnit, i.smallUnit = $smallUnit
MERGE (a:Area {name: $area})
MERGE (o:Order {invoiceCode: $invoiceCode})
MERGE (r:Return {returnCode: $returnCode})
ON CREATE SET r.returnDate = datetime($date), r.returnedAmount = toInteger($lineAmount)
MERGE (c)-[:RETURNED]->(r)
MERGE (r)-[:RETURNED_TO]->(s)
MERGE (r)-[returnedP:RETURNED_PRODUCT]->(i)
MERGE (r)-[:RETURNED_IN]->(a)
MERGE (r)-[:RETURNED_FROM]->(o)
SET returnedP.batchNumber = $batchNumber,
returnedP.bigQuantity = toInteger($bigQuantity),
returnedP.mediumQuantity = toInteger($mediumQuantity),
returnedP.smallQuantity = toInteger($smallQuantity)
`

// Processor streams spreadsheet rows into the graph store.
type Processor struct {
	upserter graph.Upserter
	logger   *logger.Logger
}

// NewProcessor creates a new ingest processor.
func NewProcessor(upserter graph.Upserter, log *logger.Logger) *Processor {
	return &Processor{
		upserter: upserter,
		logger:   log,
	}
}

// Summary reports what an ingest run did.
type Summary struct {
	SalesRows  int `json:"sales_rows"`
	ReturnRows int `json:"return_rows"`
	Skipped    int `json:"skipped"`
}

// Process reads a CSV export and upserts each row. Rows carrying a Return
// Code are treated as returns, rows carrying an Invoice Code as sales;
// anything else is skipped. The first upsert failure aborts the run.
func (p *Processor) Process(ctx context.Context, r io.Reader) (*Summary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	summary := &Summary{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		fields := rowFields{columns: columns, row: row}
		switch {
		case fields.get("Return Code") != "":
			record := parseReturnRecord(fields)
			if err := p.upserter.Upsert(ctx, returnsUpsert, record.Params()); err != nil {
				return summary, err
			}
			metrics.IngestRowsTotal.WithLabelValues("returns").Inc()
			summary.ReturnRows++
		case fields.get("Invoice Code") != "":
			record := parseSalesRecord(fields)
			if err := p.upserter.Upsert(ctx, salesUpsert, record.Params()); err != nil {
				return summary, err
			}
			metrics.IngestRowsTotal.WithLabelValues("sales").Inc()
			summary.SalesRows++
		default:
			summary.Skipped++
		}
	}

	p.logger.Info("spreadsheet processed",
		zap.Int("sales_rows", summary.SalesRows),
		zap.Int("return_rows", summary.ReturnRows),
		zap.Int("skipped", summary.Skipped),
	)

	return summary, nil
}

// rowFields provides header-keyed access to one CSV row.
type rowFields struct {
	columns map[string]int
	row     []string
}

func (f rowFields) get(name string) string {
	i, ok := f.columns[name]
	if !ok || i >= len(f.row) {
		return ""
	}
	return strings.TrimSpace(f.row[i])
}

func (f rowFields) intPtr(name string) *int64 {
	v := f.get(name)
	if v == "" {
		return nil
	}
	// Exports sometimes render integers as "12.0".
	if fv, err := strconv.ParseFloat(v, 64); err == nil {
		n := int64(fv)
		return &n
	}
	return nil
}

func (f rowFields) floatPtr(name string) *float64 {
	v := f.get(name)
	if v == "" {
		return nil
	}
	if fv, err := strconv.ParseFloat(v, 64); err == nil {
		return &fv
	}
	return nil
}

func (f rowFields) stringPtr(name string) *string {
	v := f.get(name)
	if v == "" {
		return nil
	}
	return &v
}

func parseSalesRecord(f rowFields) *SalesRecord {
	return &SalesRecord{
		Customer: parseCustomer(f),
		Salesman: parseSalesman(f),
		Product:  parseProduct(f),
		Area:     Area{Name: f.get("Area")},
		Order: Order{
			InvoiceCode:    f.get("Invoice Code"),
			Date:           parseTimestamp(f.get("Invoice Date"), f.get("Invoice Time")),
			DiscountAmount: f.intPtr("Discount Amount"),
			LineAmount:     f.intPtr("Line Amount"),
		},
		Line: parseLine(f),
	}
}

func parseReturnRecord(f rowFields) *ReturnRecord {
	return &ReturnRecord{
		Customer:    parseCustomer(f),
		Salesman:    parseSalesman(f),
		Product:     parseProduct(f),
		Area:        Area{Name: f.get("Area")},
		InvoiceCode: f.get("Invoice Code"),
		Return: Return{
			ReturnCode:     f.get("Return Code"),
			Date:           parseTimestamp(f.get("Return Date"), f.get("Return Time")),
			ReturnedAmount: f.intPtr("Line Amount"),
		},
		Line: parseLine(f),
	}
}

func parseCustomer(f rowFields) Customer {
	return Customer{
		Code:    f.get("Customer Code"),
		Name:    f.get("Customer Name"),
		Phone:   f.intPtr("Phone number"),
		Address: f.stringPtr("Address"),
	}
}

func parseSalesman(f rowFields) Salesman {
	return Salesman{
		Code: f.intPtr("Salesman Code"),
		Name: f.get("Salesman Name"),
	}
}

func parseProduct(f rowFields) Product {
	return Product{
		Code:        f.intPtr("Item Code"),
		Name:        f.get("Item Name"),
		PriceBig:    f.floatPtr("Price Big"),
		PriceMedium: f.floatPtr("Price Medium"),
		PriceSmall:  f.floatPtr("Price Small"),
		BigUnit:     f.stringPtr("Big Unit"),
		MediumUnit:  f.stringPtr("Medium Unit"),
		SmallUnit:   f.stringPtr("Small Unit"),
	}
}

func parseLine(f rowFields) Line {
	return Line{
		BatchNumber:    f.get("Batch Number"),
		BigQuantity:    f.floatPtr("Big Quantity"),
		MediumQuantity: f.intPtr("Medium Quantity"),
		SmallQuantity:  f.intPtr("Small Quantity"),
	}
}

// parseTimestamp joins a date and time column into an ISO-8601 string the
// graph's datetime() accepts. Unparseable values pass through joined as-is.
func parseTimestamp(date, clock string) string {
	joined := strings.TrimSpace(date + " " + clock)
	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"01/02/2006 15:04:05",
		"01/02/2006 15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, joined); err == nil {
			return t.Format("2006-01-02T15:04:05")
		}
	}
	return joined
}
