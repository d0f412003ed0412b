package report

import (
	"bytes"
	"fmt"

	"github.com/JordanJFranklin/Galesong-sub001/internal/game"
	"github.com/JordanJFranklin/Galesong-sub001/internal/stats"
	"github.com/jung-kurt/gofpdf/v2"
)

const (
	pageW     = 595
	margin    = 40
	rowH      = 16
	fontSize  = 10
	titleSize = 16
)

// DeckSheet returns PDF bytes listing the owned cards, the point budget
// and derived stats.
func DeckSheet(s game.Snapshot) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.CellFormat(0, 24, "Deck Sheet", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", fontSize)
	pdf.CellFormat(0, rowH, fmt.Sprintf("Points: %d used of %d (%d remaining)", s.Used, s.Total, s.Remaining), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, rowH, fmt.Sprintf("Coins: %d", s.Coins), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	cols := []struct {
		title string
		w     float64
	}{
		{"Card", 200}, {"Tier", 90}, {"Cost", 50}, {"Sell", 50}, {"Owned", 50}, {"Equipped", 75},
	}
	pdf.SetFont("Helvetica", "B", fontSize)
	pdf.SetFillColor(225, 225, 235)
	for _, c := range cols {
		pdf.CellFormat(c.w, rowH, c.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", fontSize)
	for _, h := range s.Inventory {
		eq := ""
		if h.Equipped {
			eq = "yes"
		}
		vals := []string{
			h.Card.Name,
			h.Card.Tier.String(),
			fmt.Sprint(h.Card.PointCost),
			fmt.Sprint(h.Card.SellPrice()),
			fmt.Sprint(h.Stack),
			eq,
		}
		for i, v := range vals {
			pdf.CellFormat(cols[i].w, rowH, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(12)
	pdf.SetFont("Helvetica", "B", fontSize+2)
	pdf.CellFormat(0, rowH, "Stats", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", fontSize)
	for _, k := range stats.Kinds() {
		pdf.CellFormat(pageW-2*margin, rowH, fmt.Sprintf("%s: %.2f", k, s.Stats[k]), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
