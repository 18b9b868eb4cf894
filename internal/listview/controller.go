// Package listview holds the state machine behind every paged, searchable
// table: full dataset, filtered view and current page slice.
package listview

import (
	"reflect"
	"strings"

	"github.com/noah-isme/intranet-portal-client/internal/models"
)

const (
	// FieldAll matches a keyword against every searchable field.
	FieldAll = "ALL"

	DefaultPageSize = 10
)

// DefaultSearchFields are OR-ed together when a filter targets FieldAll.
var DefaultSearchFields = []string{models.FieldTitle, models.FieldDepartment, models.FieldAuthor}

// FilterSpec is the search input owned by the view.
type FilterSpec struct {
	Keyword string
	Field   string
}

// Page is the snapshot handed to page listeners.
type Page[T models.Record] struct {
	Records []T
	Index   int
	Count   int
	Size    int
	Total   int
}

// FirstRow is the 1-based row number of Records[0].
func (p Page[T]) FirstRow() int {
	return p.Index*p.Size + 1
}

// Option customises a Controller.
type Option func(*options)

type options struct {
	pageSize     int
	searchFields []string
}

// WithPageSize sets the initial page size; non-positive values are ignored.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithSearchFields replaces the fields consulted for FieldAll.
func WithSearchFields(fields ...string) Option {
	return func(o *options) {
		if len(fields) > 0 {
			o.searchFields = append([]string(nil), fields...)
		}
	}
}

// Controller owns PageState for one list view. It is not safe for
// concurrent use; drive it from the event loop.
type Controller[T models.Record] struct {
	pageSize     int
	pageIndex    int
	full         []T
	filtered     []T
	filter       FilterSpec
	searchFields []string

	listeners map[int]func(Page[T])
	nextID    int
}

// NewController returns an empty controller with a single empty page.
func NewController[T models.Record](opts ...Option) *Controller[T] {
	o := options{pageSize: DefaultPageSize, searchFields: DefaultSearchFields}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T]{
		pageSize:     o.pageSize,
		searchFields: o.searchFields,
		filter:       FilterSpec{Field: FieldAll},
		listeners:    make(map[int]func(Page[T])),
	}
}

// OnPageChanged registers listener and returns a func that removes it.
// Listeners fire after every state change.
func (c *Controller[T]) OnPageChanged(listener func(Page[T])) func() {
	id := c.nextID
	c.nextID++
	c.listeners[id] = listener
	return func() { delete(c.listeners, id) }
}

// SetDataset replaces the full dataset, reapplies the current filter and
// returns to the first page.
func (c *Controller[T]) SetDataset(records []T) {
	c.full = append([]T(nil), records...)
	c.refilter()
}

// ApplyFilter recomputes the filtered view and returns to the first page.
func (c *Controller[T]) ApplyFilter(spec FilterSpec) {
	if spec.Field == "" {
		spec.Field = FieldAll
	}
	c.filter = spec
	c.refilter()
}

// Filter returns the active filter.
func (c *Controller[T]) Filter() FilterSpec {
	return c.filter
}

// SetPageSize changes the page size when n is positive and different,
// keeping the current page where it still exists.
func (c *Controller[T]) SetPageSize(n int) {
	if n <= 0 || n == c.pageSize {
		return
	}
	c.pageSize = n
	c.clamp()
	c.notify()
}

// ResizeViewport derives the page size from the host view's height.
func (c *Controller[T]) ResizeViewport(height, rowHeight int) {
	c.SetPageSize(RowsFor(height, rowHeight))
}

// RowsFor returns floor(height/rowHeight), at least 1, or DefaultPageSize
// while the viewport is unmeasured.
func RowsFor(height, rowHeight int) int {
	if height <= 0 || rowHeight <= 0 {
		return DefaultPageSize
	}
	rows := height / rowHeight
	if rows < 1 {
		return 1
	}
	return rows
}

// GoToPage moves to page i, clamped into [0, PageCount).
func (c *Controller[T]) GoToPage(i int) {
	c.pageIndex = i
	c.clamp()
	c.notify()
}

func (c *Controller[T]) NextPage() { c.GoToPage(c.pageIndex + 1) }

func (c *Controller[T]) PrevPage() { c.GoToPage(c.pageIndex - 1) }

// CurrentPageSlice returns the records shown on the current page.
func (c *Controller[T]) CurrentPageSlice() []T {
	start := c.pageIndex * c.pageSize
	if start >= len(c.filtered) {
		return []T{}
	}
	end := start + c.pageSize
	if end > len(c.filtered) {
		end = len(c.filtered)
	}
	return append([]T(nil), c.filtered[start:end]...)
}

// RowNumber is the continuous 1-based display number of the record at
// indexInPage on the current page.
func (c *Controller[T]) RowNumber(indexInPage int) int {
	return c.pageIndex*c.pageSize + indexInPage + 1
}

// RemoveRecord drops one occurrence of record from both datasets and clamps
// the page index. An identical record is preferred; otherwise the first
// record with the same non-empty id goes.
func (c *Controller[T]) RemoveRecord(record T) {
	c.full = without(c.full, record)
	c.filtered = without(c.filtered, record)
	c.clamp()
	c.notify()
}

// PageCount is max(1, ceil(len(filtered)/pageSize)).
func (c *Controller[T]) PageCount() int {
	if len(c.filtered) == 0 {
		return 1
	}
	return (len(c.filtered) + c.pageSize - 1) / c.pageSize
}

func (c *Controller[T]) PageIndex() int { return c.pageIndex }

func (c *Controller[T]) PageSize() int { return c.pageSize }

// Filtered returns a copy of the filtered dataset.
func (c *Controller[T]) Filtered() []T {
	return append([]T(nil), c.filtered...)
}

// Len is the size of the full dataset.
func (c *Controller[T]) Len() int { return len(c.full) }

// Current returns the page snapshot listeners receive.
func (c *Controller[T]) Current() Page[T] {
	return Page[T]{
		Records: c.CurrentPageSlice(),
		Index:   c.pageIndex,
		Count:   c.PageCount(),
		Size:    c.pageSize,
		Total:   len(c.filtered),
	}
}

func (c *Controller[T]) refilter() {
	c.filtered = c.filtered[:0:0]
	for _, r := range c.full {
		if c.matches(r) {
			c.filtered = append(c.filtered, r)
		}
	}
	c.pageIndex = 0
	c.notify()
}

func (c *Controller[T]) matches(r T) bool {
	keyword := strings.ToLower(c.filter.Keyword)
	if keyword == "" {
		return true
	}
	if c.filter.Field != FieldAll {
		return strings.Contains(strings.ToLower(r.FieldValue(c.filter.Field)), keyword)
	}
	for _, field := range c.searchFields {
		if strings.Contains(strings.ToLower(r.FieldValue(field)), keyword) {
			return true
		}
	}
	return false
}

func (c *Controller[T]) clamp() {
	last := c.PageCount() - 1
	if c.pageIndex > last {
		c.pageIndex = last
	}
	if c.pageIndex < 0 {
		c.pageIndex = 0
	}
}

func (c *Controller[T]) notify() {
	if len(c.listeners) == 0 {
		return
	}
	page := c.Current()
	for _, l := range c.listeners {
		l(page)
	}
}

func without[T models.Record](records []T, record T) []T {
	i := indexOf(records, record)
	if i < 0 {
		return records
	}
	out := make([]T, 0, len(records)-1)
	out = append(out, records[:i]...)
	return append(out, records[i+1:]...)
}

func indexOf[T models.Record](records []T, record T) int {
	for i, r := range records {
		if reflect.DeepEqual(r, record) {
			return i
		}
	}
	id := record.RecordID()
	if id == "" {
		return -1
	}
	for i, r := range records {
		if r.RecordID() == id {
			return i
		}
	}
	return -1
}
