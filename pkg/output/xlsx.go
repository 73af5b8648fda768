package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fbts/job-offer/internal/offer"
	"github.com/xuri/excelize/v2"
)

const maxSheetNameLength = 31

// XLSX builds a workbook with one sheet per prepared offer. The caller must
// Close the returned file.
func XLSX(results []*offer.Prepared) (*excelize.File, error) {
	f := excelize.NewFile()

	styles, err := newSheetStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	used := make(map[string]bool)
	defaultSheet := f.GetSheetName(0)
	for i, result := range results {
		name := sheetName(result.Offer.Title(), used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
		if err := writeOfferSheet(f, name, result, styles); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteXLSX writes the workbook for results to w.
func WriteXLSX(w io.Writer, results []*offer.Prepared) error {
	f, err := XLSX(results)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes the workbook for results to path.
func SaveXLSX(path string, results []*offer.Prepared) error {
	f, err := XLSX(results)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

type sheetStyles struct {
	title  int
	header int
	money  int
	total  int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return s, fmt.Errorf("create title style: %w", err)
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Border: thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create header style: %w", err)
	}
	if s.money, err = f.NewStyle(&excelize.Style{NumFmt: 4, Border: thinBorders()}); err != nil {
		return s, fmt.Errorf("create money style: %w", err)
	}
	if s.total, err = f.NewStyle(&excelize.Style{NumFmt: 4, Font: &excelize.Font{Bold: true}}); err != nil {
		return s, fmt.Errorf("create total style: %w", err)
	}
	return s, nil
}

func writeOfferSheet(f *excelize.File, sheet string, result *offer.Prepared, styles sheetStyles) error {
	o := &result.Offer
	row := 1
	set := func(col string, value interface{}) error {
		if s, ok := value.(string); ok {
			value = sanitizeExcelCell(s)
		}
		return f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), value)
	}

	if err := set("A", o.Title()); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", styles.title); err != nil {
		return err
	}
	row++
	if details := offerDetails(o); details != "" {
		if err := set("A", details); err != nil {
			return err
		}
		row++
	}
	row++

	for i, h := range []string{"Component", "Abbr", "Table", "Monthly", "Yearly", "Not in total"} {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := set(col, h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), styles.header); err != nil {
		return err
	}
	row++

	for _, line := range result.Summary.Lines() {
		notInTotal := ""
		if line.DoNotIncludeInTotal {
			notInTotal = "Yes"
		}
		for col, value := range map[string]interface{}{
			"A": line.Component,
			"B": line.Abbr,
			"C": string(line.Table),
			"D": line.Amount,
			"E": line.Yearly,
			"F": notInTotal,
		} {
			if err := set(col, value); err != nil {
				return err
			}
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("D%d", row), fmt.Sprintf("E%d", row), styles.money); err != nil {
			return err
		}
		row++
	}
	row++

	t := result.Summary.Totals
	for _, total := range []struct {
		label  string
		period offer.Period
	}{
		{"Gross", t.Gross},
		{"Deductions", t.Deductions},
		{"Net pay", t.Net},
		{"Employer contribution", t.EmployerContribution},
		{"Cost to company", t.CTC},
	} {
		if err := set("C", total.label); err != nil {
			return err
		}
		if err := set("D", total.period.Monthly); err != nil {
			return err
		}
		if err := set("E", total.period.Annual); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("E%d", row), styles.total); err != nil {
			return err
		}
		row++
	}
	row++
	if err := set("A", "Annual CTC in words: "+result.CTCInWords); err != nil {
		return err
	}

	for _, col := range []struct {
		name  string
		width float64
	}{{"A", 32}, {"B", 10}, {"C", 22}, {"D", 16}, {"E", 16}, {"F", 12}} {
		if err := f.SetColWidth(sheet, col.name, col.name, col.width); err != nil {
			return fmt.Errorf("set col width %s: %w", col.name, err)
		}
	}
	return nil
}

// sheetName derives a unique, Excel-safe sheet name from title.
func sheetName(title string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.Trim(title, "'"))
	if name == "" {
		name = "Job Offer"
	}
	name = truncateRunes(name, maxSheetNameLength)

	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncateRunes(name, maxSheetNameLength-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

// sanitizeExcelCell prefixes text Excel would treat as a formula.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
