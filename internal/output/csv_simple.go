package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/pvgo/internal/domain"
)

// CSVCashFlowFormatter implements the cash-flow table CSV output (one row per year).
type CSVCashFlowFormatter struct{}

func (c CSVCashFlowFormatter) Name() string { return "csv" }

func (c CSVCashFlowFormatter) Format(p *domain.Proposal) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Year", "CalendarYear", "TariffRate", "ConsumptionKwh", "ProductionKwh", "CompensatedKwh",
		"NonCompensableFraction", "CostWithoutSolar", "CompensableEconomy", "NonCompensableResidual",
		"Maintenance", "InverterReplacement", "Investment", "CostWithSolar", "CashFlow", "Cumulative", "Discounted",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, y := range p.CashFlow {
		row := []string{
			strconv.Itoa(y.Year),
			strconv.Itoa(y.CalendarYear),
			y.TariffRate.StringFixed(6),
			y.ConsumptionKwh.StringFixed(2),
			y.ProductionKwh.StringFixed(2),
			y.CompensatedKwh.StringFixed(2),
			y.NonCompensableFraction.String(),
			y.CostWithoutSolar.StringFixed(2),
			y.CompensableEconomy.StringFixed(2),
			y.NonCompensableResidual.StringFixed(2),
			y.Maintenance.StringFixed(2),
			y.InverterReplacement.StringFixed(2),
			y.Investment.StringFixed(2),
			y.CostWithSolar.StringFixed(2),
			y.CashFlow.StringFixed(2),
			y.Cumulative.StringFixed(2),
			y.Discounted.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
