package exporter

import (
	"fmt"
	"io"

	"order-analytics/internal/analytics"
	"order-analytics/internal/models"
	"order-analytics/internal/report"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook
const (
	SheetDaily      = "Daily"
	SheetRFM        = "RFM"
	SheetSegments   = "Segments"
	SheetBreakdowns = "Breakdowns"
)

const dateLayout = "2006-01-02"

// Workbook is everything the export writes. Nil parts produce a sheet with
// headers only.
type Workbook struct {
	Daily      *report.Report
	RFM        []models.RFMRecord
	Summary    *analytics.RFMSummary
	Breakdowns *analytics.Breakdowns
}

// Write renders wb as an XLSX document to w
func Write(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetDaily); err != nil {
		return err
	}
	for _, name := range []string{SheetRFM, SheetSegments, SheetBreakdowns} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	writers := []func(*excelize.File, Workbook) error{writeDaily, writeRFM, writeSegments, writeBreakdowns}
	for _, write := range writers {
		if err := write(f, wb); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

type rowWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (rw *rowWriter) write(values ...interface{}) {
	if rw.err != nil {
		return
	}
	rw.row++
	cell, err := excelize.CoordinatesToCellName(1, rw.row)
	if err != nil {
		rw.err = err
		return
	}
	if err := rw.f.SetSheetRow(rw.sheet, cell, &values); err != nil {
		rw.err = fmt.Errorf("sheet %s row %d: %w", rw.sheet, rw.row, err)
	}
}

func writeDaily(f *excelize.File, wb Workbook) error {
	rw := &rowWriter{f: f, sheet: SheetDaily}
	rw.write("date", "order_count", "total_orders")
	if wb.Daily == nil {
		return rw.err
	}
	for _, m := range wb.Daily.Series {
		rw.write(m.Date.Format(dateLayout), m.OrderCount, m.TotalOrders)
	}
	rw.write()
	rw.write("range", wb.Daily.Range.Start.Format(dateLayout), wb.Daily.Range.End.Format(dateLayout))
	rw.write("total", wb.Daily.TotalOrders)
	return rw.err
}

func writeRFM(f *excelize.File, wb Workbook) error {
	rw := &rowWriter{f: f, sheet: SheetRFM}
	rw.write("customer_id", "recency", "frequency", "monetary", "r_score", "f_score", "m_score", "rfm_score", "segment")
	for _, r := range wb.RFM {
		rw.write(r.CustomerID, r.Recency, r.Frequency, r.Monetary, r.RScore, r.FScore, r.MScore, r.RFMScore, r.Segment)
	}
	return rw.err
}

func writeSegments(f *excelize.File, wb Workbook) error {
	rw := &rowWriter{f: f, sheet: SheetSegments}
	rw.write("segment", "customers")
	if wb.Summary == nil {
		return rw.err
	}
	for _, s := range []string{models.SegmentHighValue, models.SegmentMediumValue, models.SegmentLowValue} {
		rw.write(s, wb.Summary.Segments[s])
	}
	rw.write()
	rw.write("rfm_score", "customers")
	for _, c := range wb.Summary.ScoreDistribution {
		rw.write(c.Key, c.Count)
	}
	return rw.err
}

func writeBreakdowns(f *excelize.File, wb Workbook) error {
	rw := &rowWriter{f: f, sheet: SheetBreakdowns}
	if wb.Breakdowns == nil {
		rw.write("payment_type", "total")
		return rw.err
	}
	b := wb.Breakdowns

	rw.write("payment_type", "total")
	for _, p := range b.Payments {
		rw.write(p.PaymentType, p.Total)
	}
	rw.write()
	rw.write("order_status", "rows")
	for _, c := range b.Statuses {
		rw.write(c.Key, c.Count)
	}
	rw.write()
	rw.write("product_id", "rows")
	for _, c := range b.TopProducts {
		rw.write(c.Key, c.Count)
	}
	rw.write()
	rw.write("zip_code_prefix", "rows", "lat", "lng")
	for _, z := range b.TopZipCodes {
		if z.Located {
			rw.write(z.ZipCodePrefix, z.Count, z.Lat, z.Lng)
		} else {
			rw.write(z.ZipCodePrefix, z.Count)
		}
	}
	return rw.err
}
