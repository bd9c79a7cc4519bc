package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Read loads the first worksheet of an xlsx file into raw string rows.
func Read(r io.Reader) ([][]string, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir archivo: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("el archivo no contiene hojas")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheets[0], err)
	}
	return rows, nil
}
