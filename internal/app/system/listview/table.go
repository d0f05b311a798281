package listview

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/dalemusser/institutehub/internal/app/system/paging"
	"github.com/dalemusser/institutehub/internal/domain/models"
)

// Column is one table column backed by a record field.
type Column struct {
	Key   string
	Label string
}

// TableRow is one row of cells in column order.
type TableRow struct {
	ID        models.ID
	Cells     []string
	DeleteURL string
}

// Header is a column heading with the link that sorts by it.
type Header struct {
	Column
	SortURL string
	Sorted  bool
	Desc    bool
}

// TableOptions control search, sort and paging for a read-mostly table.
type TableOptions struct {
	BasePath string
	Columns  []Column
	Query    string
	SortKey  string // defaults to DefaultSort
	Desc     bool
	Start    int
	PageSize int
	Delete   bool // rows get a delete intent
}

// DefaultSort is the column used when none is requested.
const DefaultSort = "createdAt"

// Table is a filtered, sorted page of records.
type Table struct {
	Headers []Header
	Rows    []TableRow
	Query   string
	SortKey string
	Desc    bool
	Range   paging.Range
	PrevURL string
	NextURL string
}

// BuildTable filters items by a case-insensitive substring over every field,
// sorts by one column and returns the requested page.
func BuildTable[R models.Record](items []R, o TableOptions) Table {
	sortKey := o.SortKey
	if !hasColumn(o.Columns, sortKey) && sortKey != DefaultSort {
		sortKey = DefaultSort
	}

	type entry struct {
		id   models.ID
		vals map[string]string
	}
	q := strings.ToLower(strings.TrimSpace(o.Query))
	matched := make([]entry, 0, len(items))
	for _, it := range items {
		vals := it.FieldValues()
		if q != "" && !matches(vals, q) {
			continue
		}
		matched = append(matched, entry{id: it.RecordID(), vals: vals})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a := strings.ToLower(matched[i].vals[sortKey])
		b := strings.ToLower(matched[j].vals[sortKey])
		if o.Desc {
			return a > b
		}
		return a < b
	})

	page, rng := paging.Window(matched, o.Start, o.PageSize)

	t := Table{Query: o.Query, SortKey: sortKey, Desc: o.Desc, Range: rng}
	for _, c := range o.Columns {
		desc := false
		if c.Key == sortKey {
			desc = !o.Desc
		}
		t.Headers = append(t.Headers, Header{
			Column:  c,
			SortURL: o.BasePath + "?" + tableQuery(o.Query, c.Key, desc, 0),
			Sorted:  c.Key == sortKey,
			Desc:    c.Key == sortKey && o.Desc,
		})
	}
	for _, e := range page {
		row := TableRow{ID: e.id}
		for _, c := range o.Columns {
			row.Cells = append(row.Cells, e.vals[c.Key])
		}
		if o.Delete && e.id != "" {
			row.DeleteURL = o.BasePath + "/" + url.PathEscape(e.id.String()) + "/delete"
		}
		t.Rows = append(t.Rows, row)
	}
	if rng.HasPrev {
		t.PrevURL = o.BasePath + "?" + tableQuery(o.Query, sortKey, o.Desc, rng.PrevStart)
	}
	if rng.HasNext {
		t.NextURL = o.BasePath + "?" + tableQuery(o.Query, sortKey, o.Desc, rng.NextStart)
	}
	return t
}

func matches(vals map[string]string, q string) bool {
	for _, v := range vals {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

func hasColumn(cols []Column, key string) bool {
	for _, c := range cols {
		if c.Key == key {
			return true
		}
	}
	return false
}

func tableQuery(q, sortKey string, desc bool, start int) string {
	v := url.Values{}
	if q != "" {
		v.Set("q", q)
	}
	v.Set("sort", sortKey)
	dir := "asc"
	if desc {
		dir = "desc"
	}
	v.Set("dir", dir)
	if start > 1 {
		v.Set("start", strconv.Itoa(start))
	}
	return v.Encode()
}
