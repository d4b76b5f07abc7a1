package service

import "github.com/presmtech/storefront/gangsheet/pkg/model"

const (
	unitsPerInch = 72.0
	nestPadding  = 5.0
)

// nestDesigns lays designs out left to right in shelf rows, wrapping when a
// design would cross the right edge. Designs that would cross the bottom edge
// are dropped; the relative order of the survivors is preserved.
func nestDesigns(designs []model.Design, widthInches, heightInches float64) []model.Design {
	sheetWidth := widthInches * unitsPerInch
	sheetHeight := heightInches * unitsPerInch

	nested := []model.Design{}
	x, y := nestPadding, nestPadding
	rowHeight := 0.0
	for _, design := range designs {
		if x+design.Width+nestPadding > sheetWidth {
			x = nestPadding
			y += rowHeight + nestPadding
			rowHeight = 0
		}
		if y+design.Height+nestPadding > sheetHeight {
			continue
		}
		design.X = x
		design.Y = y
		nested = append(nested, design)
		x += design.Width + nestPadding
		if design.Height > rowHeight {
			rowHeight = design.Height
		}
	}
	return nested
}
