package backup

import (
    "encoding/csv"
    "fmt"
    "io"

    "github.com/tinoosan/fintrack/internal/ledger"
    "github.com/xuri/excelize/v2"
)

// SheetHeader is the column layout of the CSV and XLSX transaction exports.
var SheetHeader = []string{"Date", "Type", "Category", "Payment Method", "From", "To", "Amount", "Note"}

func sheetRow(t ledger.Transaction) []string {
    return []string{
        t.Date.Format("2006-01-02"),
        string(t.Type),
        t.Category,
        t.PaymentMethod,
        t.TransferFrom,
        t.TransferTo,
        t.Amount.String(),
        t.Note,
    }
}

// WriteCSV writes txs with a header row.
func WriteCSV(w io.Writer, txs []ledger.Transaction) error {
    cw := csv.NewWriter(w)
    if err := cw.Write(SheetHeader); err != nil { return err }
    for _, t := range txs {
        if err := cw.Write(sheetRow(t)); err != nil { return err }
    }
    cw.Flush()
    return cw.Error()
}

const sheetName = "Transactions"

var sheetWidths = []float64{12, 10, 16, 18, 14, 14, 12, 30}

// WriteXLSX writes txs as a single-sheet workbook. Amounts are numeric cells.
func WriteXLSX(w io.Writer, txs []ledger.Transaction) error {
    f := excelize.NewFile()
    defer f.Close()
    if err := f.SetSheetName("Sheet1", sheetName); err != nil { return err }

    for i, h := range SheetHeader {
        cell, _ := excelize.CoordinatesToCellName(i+1, 1)
        if err := f.SetCellValue(sheetName, cell, h); err != nil { return err }
    }
    for r, t := range txs {
        row := sheetRow(t)
        for c, v := range row {
            cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
            var value interface{} = v
            if c == 6 {
                amount, _ := t.Amount.Float64()
                value = amount
            }
            if err := f.SetCellValue(sheetName, cell, value); err != nil { return err }
        }
    }
    for i, width := range sheetWidths {
        col, _ := excelize.ColumnNumberToName(i + 1)
        if err := f.SetColWidth(sheetName, col, col, width); err != nil { return err }
    }
    if err := f.Write(w); err != nil { return fmt.Errorf("write xlsx: %w", err) }
    return nil
}
