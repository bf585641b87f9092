package export

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/domain/simulation"
)

func newSimulation(t *testing.T, code string) *simulation.Simulation {
	t.Helper()
	s, err := simulation.NewSimulation(
		simulation.Owner{UserID: uuid.New(), Email: "importer@example.cm"},
		simulation.ProductRef{
			ID:      uuid.New(),
			Name:    "Whisky importé",
			HSCode:  "2208.30.00.00",
			Profile: customs.ProductTariffProfile{TariffSpecies: customs.SpeciesConsumptionGoods, IsAlcoholOrTobacco: true},
		},
		simulation.Inputs{
			DeclaredValue:   decimal.NewFromInt(1000000),
			TransportCost:   decimal.NewFromInt(50000),
			HandlingCost:    decimal.NewFromInt(20000),
			WeightInTons:    decimal.RequireFromString("0.8"),
			CountryOfOrigin: "France",
			TransportMode:   simulation.TransportMaritime,
		},
		customs.NewDefaultCalculator(),
		code,
	)
	require.NoError(t, err)
	return s
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{"grouped with currency", "1234567.5", "FCFA", "1 234 567,50 FCFA"},
		{"small amount", "12.3", "FCFA", "12,30 FCFA"},
		{"zero", "0", "", "0,00"},
		{"rounds half up", "999.995", "", "1 000,00"},
		{"negative", "-2500", "XAF", "-2 500,00 XAF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatAmount(decimal.RequireFromString(tt.amount), tt.currency)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildStatementPDF(t *testing.T) {
	t.Run("unpaid simulation", func(t *testing.T) {
		data, err := BuildStatementPDF(newSimulation(t, "A1B2C3D4E5"), "")
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	})

	t.Run("paid simulation", func(t *testing.T) {
		s := newSimulation(t, "A1B2C3D4E5")
		require.NoError(t, s.ConfirmPayment("A1B2C3D4E5", simulation.PaymentMTNMoMo, time.Now()))

		data, err := BuildStatementPDF(s, "XAF")
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	})

	t.Run("nil simulation", func(t *testing.T) {
		_, err := BuildStatementPDF(nil, "")
		assert.Error(t, err)
	})
}

func TestBuildHistoryXLSX(t *testing.T) {
	first := newSimulation(t, "AAAAAAAAAA")
	second := newSimulation(t, "BBBBBBBBBB")
	require.NoError(t, second.ConfirmPayment("BBBBBBBBBB", simulation.PaymentOrangeMoney, time.Now()))

	data, err := BuildHistoryXLSX([]simulation.Simulation{*first, *second}, "")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(HistorySheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	header := rows[0]
	assert.Equal(t, "Date", header[0])
	assert.Equal(t, "Valeur en douane (FCFA)", header[6])
	assert.Equal(t, "Total (FCFA)", header[len(header)-1])
	assert.Len(t, header, 6+13+1)

	assert.Equal(t, "Whisky importé", rows[1][1])
	assert.Equal(t, "AAAAAAAAAA", rows[1][3])
	assert.Equal(t, "En attente de paiement", rows[1][4])
	assert.Equal(t, "Payée", rows[2][4])
	assert.Equal(t, "Orange Money", rows[2][5])

	totalCell, err := excelize.CoordinatesToCellName(len(header), 2)
	require.NoError(t, err)
	raw, err := f.GetCellValue(HistorySheet, totalCell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatFloat(first.Breakdown.Total.InexactFloat64(), 'f', -1, 64), raw)
}

func TestBuildHistoryXLSX_Empty(t *testing.T) {
	data, err := BuildHistoryXLSX(nil, "XAF")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(HistorySheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Total (XAF)", rows[0][len(rows[0])-1])
}
