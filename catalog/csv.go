package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rushteam/animerec/core"
)

// 数据集 CSV 的列名。
const (
	ColumnTitle        = "Anime"
	ColumnCategoryTags = "Genre_Tags"
	ColumnSegment      = "Segment_Editorial"
	ColumnPublicRating = "Note_Globale"
	ColumnStudio       = "Studio"
	ColumnEpisodes     = "Nb_Episodes"

	// 质量分按优先级取第一列存在的列，整个数据集只解析一次
	ColumnQualityComplex = "Score_Complexe"
	ColumnQualityExpert  = "Score_Expert"
)

// QualityColumns 是质量分候选列，按优先级排列
var QualityColumns = []string{ColumnQualityComplex, ColumnQualityExpert}

// LoadCSV 从文件加载数据集。
func LoadCSV(path string, opts ...Option) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return ReadCSV(f, opts...)
}

// ReadCSV 读取带表头的数据集 CSV 并构建 Catalog。
//
// 清洗规则：
//   - 标题为空的行被跳过
//   - 质量分必须是数字；Note_Globale / Nb_Episodes 为空时记为 0
//   - 其余列缺失时视为空字符串
func ReadCSV(r io.Reader, opts ...Option) (*Catalog, error) {
	o := newOptions(opts)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, invalidDataset("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexHeader(header)

	titleIdx, ok := cols[ColumnTitle]
	if !ok {
		return nil, invalidDataset(fmt.Sprintf("missing column %q", ColumnTitle))
	}
	qualityColumn, err := resolveQualityColumn(cols, o.qualityColumn)
	if err != nil {
		return nil, err
	}
	o.qualityColumn = qualityColumn
	qualityIdx := cols[qualityColumn]

	var animes []core.Anime
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		title := strings.TrimSpace(field(record, titleIdx))
		if title == "" {
			continue
		}

		quality, err := parseFloat(field(record, qualityIdx))
		if err != nil {
			return nil, invalidDataset(fmt.Sprintf("line %d: column %s: %v", line, qualityColumn, err))
		}
		rating, err := parseOptionalFloat(fieldByName(record, cols, ColumnPublicRating))
		if err != nil {
			return nil, invalidDataset(fmt.Sprintf("line %d: column %s: %v", line, ColumnPublicRating, err))
		}
		episodes, err := parseOptionalFloat(fieldByName(record, cols, ColumnEpisodes))
		if err != nil {
			return nil, invalidDataset(fmt.Sprintf("line %d: column %s: %v", line, ColumnEpisodes, err))
		}

		animes = append(animes, core.Anime{
			Title:            title,
			CategoryTags:     fieldByName(record, cols, ColumnCategoryTags),
			QualityScore:     quality,
			EditorialSegment: strings.TrimSpace(fieldByName(record, cols, ColumnSegment)),
			PublicRating:     rating,
			Studio:           strings.TrimSpace(fieldByName(record, cols, ColumnStudio)),
			EpisodeCount:     int(episodes),
		})
	}

	return New(animes, func(dst *options) { *dst = *o }), nil
}

// resolveQualityColumn 为整个数据集选出唯一的质量分列。
func resolveQualityColumn(cols map[string]int, override string) (string, error) {
	if override != "" {
		if _, ok := cols[override]; !ok {
			return "", invalidDataset(fmt.Sprintf("quality column %q not in header", override))
		}
		return override, nil
	}
	for _, name := range QualityColumns {
		if _, ok := cols[name]; ok {
			return name, nil
		}
	}
	return "", invalidDataset(fmt.Sprintf("missing quality column (one of %v)", QualityColumns))
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, ok := cols[h]; !ok {
			cols[h] = i
		}
	}
	return cols
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func fieldByName(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok {
		return ""
	}
	return field(record, idx)
}

// parseFloat 只接受有限数值，NaN / Inf 视为非法。
func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", strings.TrimSpace(s))
	}
	return f, nil
}

func parseOptionalFloat(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return parseFloat(s)
}

func invalidDataset(msg string) error {
	return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: "+msg)
}
