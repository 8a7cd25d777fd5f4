package shopping

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	FormatText = "txt"
	FormatXLSX = "xlsx"

	sheetName  = "Список покупок"
	timeLayout = "02-01-2006 15:04"
)

// Filename возвращает имя файла для выгрузки в заданном формате.
func Filename(format string) string {
	return "shopping_list." + format
}

func (r *Report) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Список покупок на %s\n", r.GeneratedAt.Format(timeLayout))
	fmt.Fprint(bw, "\nРецепты:\n")
	for _, rc := range r.Recipes {
		fmt.Fprintf(bw, "- %s (Автор: %s)\n", rc.Name, rc.Author)
	}
	fmt.Fprint(bw, "\nИнгредиенты:\n")
	for i, it := range r.Ingredients {
		fmt.Fprintf(bw, "%d. %s (%s) — %d\n", i+1, it.Name, it.MeasurementUnit, it.Total)
	}
	return bw.Flush()
}

func (r *Report) Text() string {
	var buf bytes.Buffer
	_ = r.WriteText(&buf)
	return buf.String()
}

// XLSX — тот же отчёт книгой Excel: заголовок, таблица рецептов, таблица ингредиентов.
func (r *Report) XLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheetName); err != nil {
		return nil, err
	}

	row := 1
	put := func(values ...interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(sheetName, cell, &values)
	}

	if err := put("Список покупок на " + r.GeneratedAt.Format(timeLayout)); err != nil {
		return nil, err
	}
	row++

	if err := put("Рецепт", "Автор"); err != nil {
		return nil, err
	}
	for _, rc := range r.Recipes {
		if err := put(rc.Name, rc.Author); err != nil {
			return nil, err
		}
	}
	row++

	if err := put("№", "Ингредиент", "Ед. изм.", "Количество"); err != nil {
		return nil, err
	}
	for i, it := range r.Ingredients {
		if err := put(i+1, it.Name, it.MeasurementUnit, it.Total); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 40)
	_ = f.SetColWidth(sheetName, "B", "B", 30)

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
