package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateQuotePDF renders a commercial offer from quote data using maroto/v2.
// companyName heads the document; generatedDate goes in the footer.
func GenerateQuotePDF(quote QuoteData, companyName, generatedDate string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} / {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addQuoteHeader(m, quote, companyName)
	addQuoteParties(m, quote)
	addQuoteTableHeader(m)
	for _, item := range quote.Items {
		addQuoteItemRow(m, item)
	}
	addQuoteSummary(m, quote)
	addQuoteFooter(m, generatedDate)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate quote PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// addQuoteHeader adds the company name, document title and visit date.
func addQuoteHeader(m core.Maroto, quote QuoteData, companyName string) {
	dark := &props.Color{Red: 15, Green: 23, Blue: 42}
	headerCell := &props.Cell{BackgroundColor: dark}
	white := &props.Color{Red: 255, Green: 255, Blue: 255}
	grey := &props.Color{Red: 148, Green: 163, Blue: 184}

	m.AddRows(
		row.New(10).Add(
			col.New(8).Add(
				text.New(companyName, props.Text{
					Size:  12,
					Style: fontstyle.Bold,
					Align: align.Left,
					Color: white,
				}),
			).WithStyle(headerCell),
			col.New(4).Add(
				text.New("DATE DE VISITE", props.Text{
					Size:  7,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: grey,
				}),
			).WithStyle(headerCell),
		),
		row.New(12).Add(
			col.New(8).Add(
				text.New("OFFRE COMMERCIALE", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Left,
					Color: white,
				}),
			).WithStyle(headerCell),
			col.New(4).Add(
				text.New(quote.VisitDate, props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: white,
				}),
			).WithStyle(headerCell),
		),
	)

	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New("Étude de dimensionnement", props.Text{
					Size:  7,
					Align: align.Left,
					Color: grey,
				}),
			).WithStyle(headerCell),
		),
	)

	m.AddRows(row.New(6))
}

// addQuoteParties adds the recipient block and the installation site.
func addQuoteParties(m core.Maroto, quote QuoteData) {
	labelStyle := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
	rightLabel := labelStyle
	rightLabel.Align = align.Right

	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(text.New("DESTINATAIRE", labelStyle)),
			col.New(6).Add(text.New("LIEU D'INSTALLATION", rightLabel)),
		),
		row.New(7).Add(
			col.New(6).Add(text.New(quote.Name, props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Left})),
			col.New(6).Add(text.New(quote.SiteName, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right})),
		),
		row.New(6).Add(
			col.New(12).Add(text.New(quote.Address, props.Text{
				Size:  8,
				Align: align.Left,
				Color: &props.Color{Red: 100, Green: 100, Blue: 100},
			})),
		),
	)

	m.AddRows(row.New(6))
}

// addQuoteTableHeader adds the column headers of the item table.
func addQuoteTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 241, Green: 245, Blue: 249}
	headerCell := props.Cell{BackgroundColor: headerBg}
	headerText := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 100, Green: 116, Blue: 139},
	}
	headerLeft := headerText
	headerLeft.Align = align.Left

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(text.New("DÉSIGNATION", headerLeft)).WithStyle(&headerCell),
			col.New(2).Add(text.New("QTÉ", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("PUIS. (W)", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("CONSO. (kWh/j)", headerText)).WithStyle(&headerCell),
		),
	)
}

// addQuoteItemRow adds one item. Items excluded from peak power are greyed
// and flagged.
func addQuoteItemRow(m core.Maroto, item QuoteItem) {
	base := props.Text{Size: 8, Align: align.Center}
	name := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left}
	power := base
	var cellStyle *props.Cell

	label := item.Name
	if !item.IncludedInPeakPower {
		label += " (exclu de la puissance crête)"
		power.Color = &props.Color{Red: 180, Green: 180, Blue: 180}
		cellStyle = &props.Cell{BackgroundColor: &props.Color{Red: 248, Green: 250, Blue: 252}}
	}
	kwh := base
	kwh.Style = fontstyle.Bold
	kwh.Color = &props.Color{Red: 37, Green: 99, Blue: 235}

	cols := []core.Col{
		col.New(6).Add(text.New(label, name)),
		col.New(2).Add(text.New(formatQty(float64(item.Quantity)), base)),
		col.New(2).Add(text.New(FormatWatts(item.PowerW), power)),
		col.New(2).Add(text.New(FormatKWh(item.DailyKWh), kwh)),
	}
	if cellStyle != nil {
		for i := range cols {
			cols[i] = cols[i].WithStyle(cellStyle)
		}
	}

	m.AddRows(row.New(8).Add(cols...))
}

// addQuoteSummary adds the daily consumption and peak power totals.
func addQuoteSummary(m core.Maroto, quote QuoteData) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 239, Green: 246, Blue: 255}}
	label := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 96, Green: 165, Blue: 250},
	}
	rightLabel := label
	rightLabel.Align = align.Right

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New("TOTAL CONSOMMATION JOURNALIÈRE", label)).WithStyle(summaryCell),
			col.New(6).Add(text.New("PUISSANCE DE CRÊTE TOTALE", rightLabel)).WithStyle(summaryCell),
		),
		row.New(10).Add(
			col.New(6).Add(text.New(FormatKWh(quote.TotalDailyKWh)+" kWh/jour", props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Align: align.Left,
				Color: &props.Color{Red: 29, Green: 78, Blue: 216},
			})).WithStyle(summaryCell),
			col.New(6).Add(text.New(FormatWatts(quote.TotalMaxW), props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Align: align.Right,
				Color: &props.Color{Red: 30, Green: 58, Blue: 138},
			})).WithStyle(summaryCell),
		),
	)
}

// addQuoteFooter adds the generated-date line at the bottom.
func addQuoteFooter(m core.Maroto, generatedDate string) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Document généré le %s", generatedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}
