package controllers

import (
	"html/template"
	"net/url"
	"strconv"
	"time"

	"bookstore-web/models"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// paginationWindow is the number of page links shown around the current page.
const paginationWindow = 5

var vnPrinter = message.NewPrinter(language.Vietnamese)

// FormatPrice renders an amount in dong, e.g. "120.000 ₫".
func FormatPrice(d decimal.Decimal) string {
	return vnPrinter.Sprintf("%d", d.Round(0).IntPart()) + " ₫"
}

func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}

func timeAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// statusClass is the badge colour of an order status.
func statusClass(s models.OrderStatus) string {
	switch s {
	case models.OrderPending:
		return "badge-warning"
	case models.OrderConfirmed:
		return "badge-info"
	case models.OrderShipped:
		return "badge-primary"
	case models.OrderDelivered:
		return "badge-success"
	case models.OrderCancelled:
		return "badge-danger"
	default:
		return "badge-muted"
	}
}

// PageURL returns the current query string with page replaced.
func PageURL(query url.Values, page int) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return "?"
	}
	return "?" + q.Encode()
}

var sortLabels = map[string]string{
	models.SortDefault:   "Featured",
	models.SortPriceAsc:  "Price: low to high",
	models.SortPriceDesc: "Price: high to low",
	models.SortTitleAsc:  "Title: A to Z",
	models.SortTitleDesc: "Title: Z to A",
	models.SortLatest:    "Newest first",
}

func sortLabel(key string) string {
	if l, ok := sortLabels[key]; ok {
		return l
	}
	return key
}

// Pager feeds the pagination partial.
type Pager struct {
	Current int
	Total   int
	Pages   []int
	query   url.Values
}

func newPager(current, total int, query url.Values) Pager {
	return Pager{
		Current: current,
		Total:   total,
		Pages:   models.PageWindow(current, total, paginationWindow),
		query:   query,
	}
}

func (p Pager) URL(page int) string { return PageURL(p.query, page) }
func (p Pager) HasPrev() bool       { return p.Current > 1 }
func (p Pager) HasNext() bool       { return p.Current < p.Total }

// fieldError looks up the validation message of one form field.
func fieldError(errs map[string]string, field string) string {
	return errs[field]
}

// TemplateFuncs are the helpers available to every page.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"price":       FormatPrice,
		"bytes":       formatBytes,
		"date":        formatDate,
		"datetime":    formatDateTime,
		"ago":         timeAgo,
		"statusLabel": func(s models.OrderStatus) string { return s.Label() },
		"statusClass": statusClass,
		"pageURL":     PageURL,
		"pager":       newPager,
		"fieldError":  fieldError,
		"sortLabel":   sortLabel,
		"add":         func(a, b int) int { return a + b },
		"sub":         func(a, b int) int { return a - b },
		"comma":       func(n int64) string { return humanize.Comma(n) },
	}
}
