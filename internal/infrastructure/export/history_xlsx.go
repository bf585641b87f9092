package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/domain/simulation"
)

// HistorySheet is the name of the worksheet written by BuildHistoryXLSX.
const HistorySheet = "Historique"

// numFmtThousands is the built-in "#,##0.00" number format.
const numFmtThousands = 4

// BuildHistoryXLSX renders one row per simulation with every breakdown line
// as its own column. Amounts are written as numbers.
func BuildHistoryXLSX(sims []simulation.Simulation, currency string) ([]byte, error) {
	currency = currencyOrDefault(currency)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", HistorySheet); err != nil {
		return nil, err
	}

	headers := []string{"Date", "Produit", "Code SH", "Code de paiement", "Statut", "Moyen de paiement"}
	amountsFrom := len(headers) + 1
	for _, line := range (customs.DutyBreakdown{}).Components() {
		headers = append(headers, fmt.Sprintf("%s (%s)", line.Label, currency))
	}
	headers = append(headers, fmt.Sprintf("Total (%s)", currency))

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(HistorySheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i := range sims {
		s := &sims[i]
		row := i + 2
		values := []interface{}{
			s.CreatedAt.Format("2006-01-02 15:04"),
			s.ProductName,
			s.ProductHSCode,
			s.PaymentCode,
			statusLabel(s),
			paymentMethodLabel(s.PaymentMethod),
		}
		for _, line := range s.Breakdown.Components() {
			values = append(values, line.Amount.InexactFloat64())
		}
		values = append(values, s.Breakdown.Total.InexactFloat64())

		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(HistorySheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if len(sims) > 0 {
		style, err := f.NewStyle(&excelize.Style{NumFmt: numFmtThousands})
		if err != nil {
			return nil, err
		}
		first, _ := excelize.CoordinatesToCellName(amountsFrom, 2)
		last, _ := excelize.CoordinatesToCellName(len(headers), len(sims)+1)
		if err := f.SetCellStyle(HistorySheet, first, last, style); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(HistorySheet, "B", "B", 40); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
