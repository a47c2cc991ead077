package output

import (
	"fmt"

	"github.com/rgehrsitz/pvgo/internal/domain"
)

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = AssumptionLines(domain.DefaultAssumptions())

// AssumptionLines describes the engine assumptions for the proposal footer
func AssumptionLines(a domain.Assumptions) []string {
	f := a.Financial
	return []string{
		fmt.Sprintf("System efficiency: %s%%, sizing correction factor %s",
			a.Sizing.SystemEfficiency.Shift(2).StringFixed(0), a.Sizing.CorrectionFactor.String()),
		fmt.Sprintf("Panel: %d W, %s m²", a.Sizing.PanelWattage, a.Sizing.PanelAreaM2.StringFixed(2)),
		fmt.Sprintf("Tariff inflation: %s%% annually", f.TariffInflationRate.Shift(2).StringFixed(1)),
		fmt.Sprintf("Panel degradation: %s%% annually", f.DegradationRate.Shift(2).StringFixed(1)),
		fmt.Sprintf("Discount rate: %s%% annually", f.DiscountRate.Shift(2).StringFixed(1)),
		fmt.Sprintf("Maintenance: %s%% of the investment per year", f.MaintenanceRatePercent.StringFixed(1)),
		fmt.Sprintf("Inverter replacement in year %d at %s%% of the investment",
			f.InverterReplacementYear, f.InverterReplacementCostFraction.Shift(2).StringFixed(0)),
		"Non-compensable distribution share follows the Law 14.300 transition schedule",
	}
}
