package ingredients

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"
)

type jsonItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// Parse разбирает файл справочника ингредиентов. Формат определяется по расширению:
// .json — массив {"name", "measurement_unit"}; .xlsx — первый лист, колонки name / measurement_unit
// (первая строка — заголовок). Пустые и повторяющиеся строки отбрасываются.
func Parse(filename string, data []byte) ([]Ingredient, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return parseJSON(data)
	case ".xlsx":
		return parseXLSX(data)
	default:
		return nil, fmt.Errorf("unsupported ingredients file %q", filename)
	}
}

func parseJSON(data []byte) ([]Ingredient, error) {
	var raw []jsonItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	out := make([]Ingredient, 0, len(raw))
	for _, it := range raw {
		out = append(out, Ingredient{Name: it.Name, MeasurementUnit: it.MeasurementUnit})
	}
	return normalize(out), nil
}

func parseXLSX(data []byte) ([]Ingredient, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// ищем колонки по заголовку, по умолчанию A/B
	nameCol, unitCol := 0, 1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name":
			nameCol = i
		case "measurement_unit":
			unitCol = i
		}
	}

	out := make([]Ingredient, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, Ingredient{Name: cell(row, nameCol), MeasurementUnit: cell(row, unitCol)})
	}
	return normalize(out), nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func normalize(items []Ingredient) []Ingredient {
	type key struct{ name, unit string }
	seen := make(map[key]struct{}, len(items))
	out := make([]Ingredient, 0, len(items))
	for _, it := range items {
		it.Name = strings.TrimSpace(it.Name)
		it.MeasurementUnit = strings.TrimSpace(it.MeasurementUnit)
		if it.Name == "" || it.MeasurementUnit == "" {
			continue
		}
		k := key{it.Name, it.MeasurementUnit}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}
