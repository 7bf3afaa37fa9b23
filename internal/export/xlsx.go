package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prospect-cli/internal/model"
)

// SheetName is the worksheet prospects are written to.
const SheetName = "Prospects"

// WriteXLSX saves prospects as a single-sheet workbook at path.
func WriteXLSX(path string, prospects []model.Prospect) error {
	f, err := buildWorkbook(prospects)
	if err != nil {
		return err
	}
	return eris.Wrapf(f.Save(path), "export: save xlsx %s", path)
}

func buildWorkbook(prospects []model.Prospect) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return nil, eris.Wrap(err, "export: add sheet")
	}

	addRow(sheet, Columns)
	for _, p := range prospects {
		addRow(sheet, Row(p))
	}
	return f, nil
}

func addRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, v := range cells {
		row.AddCell().SetString(v)
	}
}
