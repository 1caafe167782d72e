package catalog

import (
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"voiceorder/internal/model"
)

// Mapping describes where variant data lives inside a supplier's price-list
// spreadsheet. Column indexes are zero-based.
type Mapping struct {
	Sheet    int `yaml:"sheet"`
	SkipRows int `yaml:"skip_rows"`
	Columns  struct {
		ArticleID      int `yaml:"article_id"`
		VariantID      int `yaml:"variant_id"`
		PackageContent int `yaml:"package_content"`
		MultipleQty    int `yaml:"multiple_qty"`
	} `yaml:"columns"`
}

// DefaultMapping matches the layout most suppliers use: article code,
// variant code, package content, package size, one header row.
func DefaultMapping() Mapping {
	var m Mapping
	m.SkipRows = 1
	m.Columns.ArticleID = 0
	m.Columns.VariantID = 1
	m.Columns.PackageContent = 2
	m.Columns.MultipleQty = 3
	return m
}

// LoadMapping reads a yaml mapping descriptor from disk.
func LoadMapping(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Mapping{}, eris.Wrap(err, "catalog: read mapping")
	}
	m := DefaultMapping()
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Mapping{}, eris.Wrap(err, "catalog: decode mapping")
	}
	return m, nil
}

// ReadVariants parses a price-list XLSX into article-variant rows. Rows
// without an article id or with a non-positive package size are skipped and
// counted, not fatal: supplier exports routinely carry footer and note rows.
func ReadVariants(path string, mapping Mapping) ([]model.ArticleVariant, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: open xlsx")
	}
	if mapping.Sheet < 0 || mapping.Sheet >= len(f.Sheets) {
		return nil, eris.Errorf("catalog: sheet %d out of range", mapping.Sheet)
	}
	sheet := f.Sheets[mapping.Sheet]

	maxCol := mapping.Columns.ArticleID
	for _, c := range []int{mapping.Columns.VariantID, mapping.Columns.PackageContent, mapping.Columns.MultipleQty} {
		if c > maxCol {
			maxCol = c
		}
	}

	var (
		out     []model.ArticleVariant
		skipped int
	)
	for i, row := range sheet.Rows {
		if i < mapping.SkipRows {
			continue
		}
		cells := rowStrings(row)
		if len(cells) <= maxCol {
			skipped++
			continue
		}
		articleID := strings.TrimSpace(cells[mapping.Columns.ArticleID])
		variantID := strings.TrimSpace(cells[mapping.Columns.VariantID])
		qty, err := strconv.Atoi(strings.TrimSpace(cells[mapping.Columns.MultipleQty]))
		if articleID == "" || variantID == "" || err != nil || qty <= 0 {
			skipped++
			continue
		}
		out = append(out, model.ArticleVariant{
			ArticleID: articleID,
			Variant: model.PackageVariant{
				ID:             variantID,
				PackageContent: strings.TrimSpace(cells[mapping.Columns.PackageContent]),
				MultipleQty:    qty,
			},
		})
	}

	zap.L().Info("price list parsed",
		zap.String("path", path),
		zap.Int("variants", len(out)),
		zap.Int("skipped", skipped),
	)
	return out, nil
}

func rowStrings(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		out[i] = cell.String()
	}
	return out
}
