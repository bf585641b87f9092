package export

import (
	"bytes"
	"errors"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/simudouane/backend/internal/domain/simulation"
)

// BuildStatementPDF renders the duty statement of one simulation.
func BuildStatementPDF(s *simulation.Simulation, currency string) ([]byte, error) {
	if s == nil {
		return nil, errors.New("export: nil simulation")
	}
	currency = currencyOrDefault(currency)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Relevé de simulation douanière"), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, tr("Relevé de simulation douanière"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	header := [][2]string{
		{"Produit", s.ProductName},
		{"Code SH", s.ProductHSCode},
		{"Code de paiement", s.PaymentCode},
		{"Statut", statusLabel(s)},
		{"Date de simulation", s.CreatedAt.Format("02/01/2006 15:04")},
	}
	if s.Inputs.CountryOfOrigin != "" {
		header = append(header, [2]string{"Pays d'origine", s.Inputs.CountryOfOrigin})
	}
	if s.Inputs.TransportMode != "" {
		header = append(header, [2]string{"Mode de transport", string(s.Inputs.TransportMode)})
	}
	if s.IsPaid {
		header = append(header, [2]string{"Moyen de paiement", paymentMethodLabel(s.PaymentMethod)})
		if s.PaidAt != nil {
			header = append(header, [2]string{"Payée le", s.PaidAt.Format("02/01/2006 15:04")})
		}
	}
	for _, row := range header {
		pdf.CellFormat(50, 6, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, tr("Élément"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 6, tr("Base déclarée"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 6, tr("Montant"), "1", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	inputs := [][2]string{
		{"Valeur déclarée", FormatAmount(s.Inputs.DeclaredValue, currency)},
		{"Coût du transport", FormatAmount(s.Inputs.TransportCost, currency)},
		{"Frais de manutention", FormatAmount(s.Inputs.HandlingCost, currency)},
		{"Poids (tonnes)", s.Inputs.WeightInTons.String()},
	}
	for _, row := range inputs {
		pdf.CellFormat(60, 6, tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, "", "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, tr(row[1]), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(120, 6, tr("Droits et taxes"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 6, tr("Montant"), "1", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, line := range s.Breakdown.Components() {
		pdf.CellFormat(120, 6, tr(line.Label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, tr(FormatAmount(line.Amount, currency)), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(120, 6, tr("Total des droits et taxes (hors valeur)"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, tr(FormatAmount(s.Breakdown.Levies(), currency)), "1", 1, "R", false, 0, "")
	pdf.CellFormat(120, 7, tr("Coût total"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, tr(FormatAmount(s.Breakdown.Total, currency)), "1", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.MultiCell(0, 4, tr("Document généré le "+time.Now().Format("02/01/2006 15:04")+
		". Montants indicatifs calculés selon le barème CEMAC en vigueur."), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
