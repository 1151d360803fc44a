package ledger

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/contract-matcher/internal/domain/contract"
)

const (
	// AttachmentMarker prefixes the filename shown in the attachment cell.
	AttachmentMarker = "📎"

	hyperlinkColor     = "0563C1"
	hyperlinkUnderline = "single"
)

// DisplayText is what the attachment cell shows for entry.
func DisplayText(entry contract.AttachmentEntry) string {
	return AttachmentMarker + " " + entry.Filename
}

// Apply writes each mutation into the contract number and attachment columns of its row.
// All mutations are validated before the first write; cells outside those two
// columns, and rows without a mutation, are never touched.
func (w *Workbook) Apply(mutations []contract.Mutation) error {
	dataRows := len(w.rows) - 1
	for _, m := range mutations {
		if m.Row < 1 || m.Row > dataRows {
			return fmt.Errorf("mutation targets row %d outside ledger rows 1..%d", m.Row, dataRows)
		}
		if m.Entry.RelativePath == "" {
			return fmt.Errorf("mutation for row %d has no link target", m.Row)
		}
	}

	for _, m := range mutations {
		if err := w.apply(m); err != nil {
			return fmt.Errorf("row %d: %w", m.Row, err)
		}
	}
	return nil
}

func (w *Workbook) apply(m contract.Mutation) error {
	numberCell, err := cell(m.Row, w.cols.ContractNumber)
	if err != nil {
		return err
	}
	attachmentCell, err := cell(m.Row, w.cols.Attachment)
	if err != nil {
		return err
	}

	if err := w.file.SetCellValue(w.sheet, numberCell, m.Entry.ContractNumber); err != nil {
		return fmt.Errorf("failed to write contract number: %w", err)
	}

	display := DisplayText(m.Entry)
	if err := w.file.SetCellValue(w.sheet, attachmentCell, display); err != nil {
		return fmt.Errorf("failed to write attachment: %w", err)
	}

	tooltip := m.Entry.RelativePath
	if err := w.file.SetCellHyperLink(w.sheet, attachmentCell, m.Entry.RelativePath, "External",
		excelize.HyperlinkOpts{Display: &display, Tooltip: &tooltip}); err != nil {
		return fmt.Errorf("failed to link attachment: %w", err)
	}

	styleID, err := w.hyperlinkStyle(attachmentCell)
	if err != nil {
		return err
	}
	if err := w.file.SetCellStyle(w.sheet, attachmentCell, attachmentCell, styleID); err != nil {
		return fmt.Errorf("failed to style attachment: %w", err)
	}
	return nil
}

// hyperlinkStyle returns a variant of the cell's current style with hyperlink font
// colour and underline, so borders, fills and alignment survive.
func (w *Workbook) hyperlinkStyle(ref string) (int, error) {
	base, err := w.file.GetCellStyle(w.sheet, ref)
	if err != nil {
		return 0, fmt.Errorf("failed to read style of %s: %w", ref, err)
	}
	if id, ok := w.linkStyles[base]; ok {
		return id, nil
	}

	style, err := w.file.GetStyle(base)
	if err != nil {
		return 0, fmt.Errorf("failed to load style %d: %w", base, err)
	}
	if style.Font == nil {
		style.Font = &excelize.Font{}
	}
	// Theme and indexed colours take precedence over rgb in spreadsheet apps.
	style.Font.Color = hyperlinkColor
	style.Font.ColorTheme = nil
	style.Font.ColorIndexed = 0
	style.Font.ColorTint = 0
	style.Font.Underline = hyperlinkUnderline

	id, err := w.file.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("failed to create hyperlink style: %w", err)
	}
	w.linkStyles[base] = id
	return id, nil
}
