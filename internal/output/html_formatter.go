package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/pvgo/internal/domain"
)

// HTMLFormatter produces a standalone HTML proposal page.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/proposal.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("proposal").Funcs(template.FuncMap{
	"curr":    FormatCurrency,
	"pct":     FormatPercentage,
	"kwh":     FormatKwh,
	"payback": FormatPayback,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(p *domain.Proposal) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.Proposal
		Months      []string
		Assumptions []string
	}{p, monthNames, DefaultAssumptions}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
