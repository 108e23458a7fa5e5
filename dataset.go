// dataset.go
package main

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/epivizor/linelist_analyzer/domain/models"
)

// Dataset is an in-memory line list: one row per sample, loosely typed cell
// values addressed by column name. nil cells are missing values.
type Dataset struct {
	Columns []string
	Rows    []map[string]interface{}

	// optional hierarchy level display names parsed from the field mapping,
	// level index -> name
	HsLevelNames map[int]string
}

func NewDataset(columns []string) *Dataset {
	return &Dataset{Columns: columns, Rows: []map[string]interface{}{}}
}

func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// HierarchyColumns returns the hs_level_N columns in level order
func (d *Dataset) HierarchyColumns() []string {
	cols := []string{}
	for level := 0; ; level++ {
		name := fmt.Sprintf("hs_level_%d", level)
		if !d.HasColumn(name) {
			break
		}
		cols = append(cols, name)
	}
	return cols
}

// Copy returns an independent deep copy. Every analysis call works on a
// copy because bucketing and collapsing mutate cells in place.
func (d *Dataset) Copy() *Dataset {
	cp := &Dataset{
		Columns: append([]string{}, d.Columns...),
		Rows:    make([]map[string]interface{}, len(d.Rows)),
	}
	if d.HsLevelNames != nil {
		cp.HsLevelNames = make(map[int]string, len(d.HsLevelNames))
		for k, v := range d.HsLevelNames {
			cp.HsLevelNames[k] = v
		}
	}
	for i, row := range d.Rows {
		nr := make(map[string]interface{}, len(row))
		for k, v := range row {
			nr[k] = v
		}
		cp.Rows[i] = nr
	}
	return cp
}

// isMissing reports whether a cell holds no usable value
func isMissing(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func valueToString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprint(v)
	}
}

var dateLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
}

// parseDateValue coerces a cell to a date. Unparsable cells become missing
// on the caller's side, never a request failure.
func parseDateValue(v interface{}) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	s := strings.TrimSpace(valueToString(v))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseFloatValue(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	}
	s := strings.TrimSpace(valueToString(v))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var hsLevelNamesRe = regexp.MustCompile(`.+\[(.+)\]$`)

// ApplyFieldMapping renames observed columns to the expected semantic field
// names from the validation screen. Mappings with the value "notselected"
// drop the expected field entirely; renames that collide with an existing
// column get a numeric suffix so column names stay unique.
func (d *Dataset) ApplyFieldMapping(exp2obs map[string]string) []string {
	warnings := []string{}
	obs2exp := map[string]string{}
	for expected, observed := range exp2obs {
		if observed == "" || observed == "notselected" {
			continue
		}
		// hierarchical_subtype mapping may carry level names: col[l0,l1,...]
		colName := observed
		if expected == "hierarchical_subtype" {
			if m := hsLevelNamesRe.FindStringSubmatch(observed); m != nil {
				colName = strings.TrimSuffix(observed, "["+m[1]+"]")
				d.HsLevelNames = map[int]string{}
				for i, name := range strings.Split(m[1], ",") {
					d.HsLevelNames[i] = strings.TrimSpace(name)
				}
			}
		}
		obs2exp[colName] = expected
	}

	renamed := map[string]string{}
	seen := map[string]bool{}
	newColumns := make([]string, 0, len(d.Columns))
	for _, col := range d.Columns {
		name := col
		if expected, ok := obs2exp[col]; ok {
			name = expected
		}
		counter := 1
		for seen[name] {
			suffixed := fmt.Sprintf("%s_%d", name, counter)
			counter++
			if !seen[suffixed] {
				warnings = append(warnings,
					fmt.Sprintf("duplicated column name %q after field mapping, renamed to %q", name, suffixed))
				name = suffixed
			}
		}
		seen[name] = true
		if name != col {
			renamed[col] = name
		}
		newColumns = append(newColumns, name)
	}
	d.Columns = newColumns
	if len(renamed) == 0 {
		return warnings
	}
	for _, row := range d.Rows {
		for old, now := range renamed {
			if v, ok := row[old]; ok {
				row[now] = v
				delete(row, old)
			}
		}
	}
	return warnings
}

// ExpandHierarchicalSubtype splits the hierarchical_subtype column into
// hs_level_0..N-1 columns in top-down order, first component being the most
// relaxed level. Ragged short paths are padded with "N/A"; fully missing
// rows stay missing on every level.
func (d *Dataset) ExpandHierarchicalSubtype(delimiter string) error {
	if !d.HasColumn("hierarchical_subtype") || d.HasColumn("hs_level_0") {
		return nil
	}
	maxLevels := 0
	for _, row := range d.Rows {
		v := row["hierarchical_subtype"]
		if isMissing(v) {
			continue
		}
		n := len(strings.Split(valueToString(v), delimiter))
		if n > maxLevels {
			maxLevels = n
		}
	}
	if maxLevels == 0 {
		return fmt.Errorf("hierarchical_subtype could not be split using delimiter %q", delimiter)
	}
	log.Printf("expanding hierarchical_subtype into %d hs_level columns", maxLevels)

	levelColumns := make([]string, maxLevels)
	for i := range levelColumns {
		levelColumns[i] = fmt.Sprintf("hs_level_%d", i)
	}
	d.Columns = append(d.Columns, levelColumns...)
	for _, row := range d.Rows {
		v := row["hierarchical_subtype"]
		if isMissing(v) {
			continue
		}
		parts := strings.Split(valueToString(v), delimiter)
		for i, col := range levelColumns {
			if i < len(parts) {
				row[col] = parts[i]
			} else {
				row[col] = "N/A"
			}
		}
	}
	return nil
}

// Group is one independently filtered subset of the source dataset.
// Group #1 is the primary selection, group #2 the optional comparison.
type Group struct {
	Name string
	Data *Dataset
}

// --- dataset registry ---

// Datasets are held in memory behind uuid handles; every analyze call copies
// before mutating, so concurrent requests on the same handle stay isolated.
type datasetEntry struct {
	data  *Dataset
	added time.Time
}

type DatasetRegistry struct {
	mu      sync.Mutex
	entries map[string]datasetEntry
}

func NewDatasetRegistry() *DatasetRegistry {
	return &DatasetRegistry{entries: map[string]datasetEntry{}}
}

func (r *DatasetRegistry) Put(d *Dataset) string {
	handle := uuid.NewV4().String()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[handle] = datasetEntry{data: d, added: time.Now()}
	return handle
}

func (r *DatasetRegistry) Get(handle string) (*Dataset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[handle]
	if !ok {
		return nil, false
	}
	return e.data, true
}

// Cleanup drops datasets older than maxAge and returns how many were removed
func (r *DatasetRegistry) Cleanup(maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for handle, e := range r.entries {
		if time.Since(e.added) > maxAge {
			delete(r.entries, handle)
			removed++
		}
	}
	return removed
}

// UploadMetadata computes the validation screen payload: observed columns,
// per-column filled/unique/missing counts and missing percentages.
func (d *Dataset) UploadMetadata() *models.UploadMetadata {
	meta := &models.UploadMetadata{
		Rows:            len(d.Rows),
		Columns:         append([]string{}, d.Columns...),
		ObservedCounts:  map[string]int{},
		UniqueCounts:    map[string]int{},
		MissingCounts:   map[string]int{},
		MissingPercents: map[string]string{},
	}
	for _, col := range d.Columns {
		uniq := map[string]bool{}
		observed := 0
		for _, row := range d.Rows {
			v := row[col]
			if isMissing(v) {
				continue
			}
			observed++
			uniq[valueToString(v)] = true
		}
		meta.ObservedCounts[col] = observed
		meta.UniqueCounts[col] = len(uniq)
		meta.MissingCounts[col] = len(d.Rows) - observed
		if observed > 0 && len(d.Rows) > observed {
			pct := float64(len(d.Rows)-observed) / float64(observed) * 100
			meta.MissingPercents[col] = fmt.Sprintf("%.3f%% missing values", pct)
		}
	}
	return meta
}
