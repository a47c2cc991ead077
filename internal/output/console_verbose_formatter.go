package output

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
)

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ConsoleVerboseFormatter renders the full proposal for the terminal
type ConsoleVerboseFormatter struct {
	Assumptions []string // footer lines; DefaultAssumptions when empty
}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(p *domain.Proposal) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, TitleStyle.Render("SOLAR PV PROPOSAL"))
	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	if p.Name != "" {
		writeField(&buf, "Customer", p.Name)
	}
	writeField(&buf, "Proposal ID", p.ID)
	writeField(&buf, "Date", p.CreatedAt.Format("2006-01-02"))

	if p.IsEstimated() {
		lines := []string{"ESTIMATED VALUES"}
		for _, s := range p.Substitutions {
			lines = append(lines, fmt.Sprintf("%s: %s (%s)", s.Field, s.Value, s.Reason))
		}
		fmt.Fprintln(&buf, WarningStyle.Render(strings.Join(lines, "\n")))
	}

	// System
	fmt.Fprintln(&buf, SectionStyle.Render("SYSTEM"))
	s := p.Sizing
	writeField(&buf, "Location", fmt.Sprintf("%s (%s kWh/m²/day)", p.Irradiance.Location, s.DailyIrradiance.StringFixed(2)))
	writeField(&buf, "Monthly consumption", fmt.Sprintf("%s (%s)", FormatKwh(p.Consumption.Kwh), p.Consumption.Strategy))
	writeField(&buf, "Sizing consumption", FormatKwh(s.ConsumptionWithMarginKwh))
	writeField(&buf, "System power", s.Kwp.StringFixed(2)+" kWp")
	writeField(&buf, "Panels", fmt.Sprintf("%d × %d W", s.PanelCount, s.PanelWattage))
	writeField(&buf, "Roof area", s.AreaM2.StringFixed(2)+" m²")
	writeField(&buf, "Annual production", FormatKwh(s.AnnualProductionKwh))
	if s.ClampedToMinimum {
		writeField(&buf, "Note", "raised to the minimum system size")
	}
	if len(s.MonthlyProductionKwh) == len(monthNames) {
		cells := make([]string, len(monthNames))
		for i, v := range s.MonthlyProductionKwh {
			cells[i] = v.StringFixed(0)
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
			Headers(monthNames...).
			Row(cells...)
		fmt.Fprintln(&buf, t.Render())
	}

	// Tariff
	d := p.TariffDecomposition
	fmt.Fprintln(&buf, SectionStyle.Render(fmt.Sprintf("ELECTRICITY BILL (%s, %s, %d)", d.Distributor, d.ConsumerClass, d.Year)))
	writeField(&buf, "Energy (TE)", FormatCurrency(d.EnergyCharge))
	if !d.SurchargeCharge.IsZero() {
		writeField(&buf, "Surcharge ("+string(d.SurchargeLevel)+")", FormatCurrency(d.SurchargeCharge))
	}
	writeField(&buf, "Distribution (TUSD)", FormatCurrency(d.DistributionCharge))
	writeField(&buf, "  compensable", FormatCurrency(d.CompensableDistribution))
	writeField(&buf, "  non-compensable", FormatCurrency(d.NonCompensableDistribution))
	writeField(&buf, "ICMS", FormatCurrency(d.ICMS))
	writeField(&buf, "PIS", FormatCurrency(d.PIS))
	writeField(&buf, "COFINS", FormatCurrency(d.COFINS))
	writeField(&buf, "Bill total", FormatCurrency(d.GrandTotal))
	writeField(&buf, "Bill reduction", FormatPercentage(d.PercentEconomy))

	// Cost and price
	cb := p.CostBreakdown
	fmt.Fprintln(&buf, SectionStyle.Render("INVESTMENT"))
	writeField(&buf, "Equipment", FormatCurrency(cb.Equipment))
	writeField(&buf, "Transport", FormatCurrency(cb.Transport))
	writeField(&buf, "Installation", FormatCurrency(cb.Installation))
	writeField(&buf, "Grounding", FormatCurrency(cb.Grounding))
	writeField(&buf, "Permitting", FormatCurrency(cb.Permitting))
	writeField(&buf, "Signage", FormatCurrency(cb.Signage))
	writeField(&buf, "General expenses", FormatCurrency(cb.GeneralExpenses))
	writeField(&buf, "Total cost", FormatCurrency(cb.Total))
	sp := p.SalePrice
	writeField(&buf, "Margin", fmt.Sprintf("%s (%s)", FormatPercentage(sp.MarginPercent), FormatCurrency(sp.MarginAmount)))
	writeField(&buf, "Commission", fmt.Sprintf("%s (%s)", FormatPercentage(sp.CommissionPercent), FormatCurrency(sp.CommissionAmount)))
	writeField(&buf, "Sale price", FormatCurrency(sp.Price))
	writeField(&buf, "Price per kWp", FormatCurrency(sp.PricePerKwp))

	// Financials
	f := p.Financials
	fmt.Fprintln(&buf, SectionStyle.Render("RETURN"))
	writeField(&buf, "Monthly savings", FormatCurrency(f.MonthlySavings))
	writeField(&buf, "Annual savings", FormatCurrency(f.AnnualSavings))
	writeField(&buf, "Payback", FormatPayback(f.Payback))
	writeField(&buf, "Net present value", SignedStyle(f.NPV.IsNegative()).Render(FormatCurrency(f.NPV)))
	writeField(&buf, "Total cash flow", FormatCurrency(f.TotalCashFlow))

	if len(p.CashFlow) > 0 {
		fmt.Fprintln(&buf, SectionStyle.Render(fmt.Sprintf("CASH FLOW (%d YEARS)", len(p.CashFlow))))
		fmt.Fprintln(&buf, cashFlowTable(p.CashFlow))
	}

	fmt.Fprintln(&buf, SectionStyle.Render("KEY ASSUMPTIONS"))
	assumptions := c.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}
	for _, a := range assumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}

	return buf.Bytes(), nil
}

func writeField(buf *bytes.Buffer, label, value string) {
	fmt.Fprintln(buf, LabelStyle.Render(label)+ValueStyle.Render(value))
}

func cashFlowTable(years []domain.CashFlowYear) string {
	rows := make([][]string, 0, len(years))
	negative := make(map[int]bool)
	for i, y := range years {
		rows = append(rows, []string{
			strconv.Itoa(y.Year),
			strconv.Itoa(y.CalendarYear),
			y.TariffRate.StringFixed(4),
			y.ProductionKwh.StringFixed(0),
			y.NetSavings().StringFixed(2),
			y.Maintenance.Add(y.InverterReplacement).StringFixed(2),
			y.CashFlow.StringFixed(2),
			y.Cumulative.StringFixed(2),
		})
		negative[i] = y.Cumulative.LessThan(decimal.Zero)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Headers("Year", "Calendar", "R$/kWh", "kWh", "Savings", "O&M", "Cash flow", "Cumulative").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col == 7 {
				return TableCellStyle.Foreground(SignedStyle(negative[row]).GetForeground())
			}
			return TableCellStyle
		})
	return t.Render()
}
