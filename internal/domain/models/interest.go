package models

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// Interest is one subscriber's filter plus delivery address. Interests are
// written by the app tier; this service only reads them. Filter sets are
// stored as comma-joined columns.
type Interest struct {
	ID        int
	PushToken string
	Companies string
	Roles     string
	Keywords  string
	Active    bool
	CreatedAt time.Time
}

func NewInterest(pushToken string, companies, roles, keywords []string) *Interest {
	return &Interest{
		PushToken: pushToken,
		Companies: strings.Join(companies, ","),
		Roles:     strings.Join(roles, ","),
		Keywords:  strings.Join(keywords, ","),
		Active:    true,
	}
}

func (i *Interest) CompaniesAsArray() []string {
	return splitList(i.Companies)
}

func (i *Interest) RolesAsArray() []string {
	return splitList(i.Roles)
}

func (i *Interest) KeywordsAsArray() []string {
	return splitList(i.Keywords)
}

// Matches reports whether the record passes this interest's filter.
// All three sets empty is an open filter and matches everything. A non-empty
// companies set requires a case-insensitive substring hit against the record
// source; a non-empty roles/keywords union requires one against the title.
func (i *Interest) Matches(record Record) bool {

	companies := i.CompaniesAsArray()
	terms := append(i.RolesAsArray(), i.KeywordsAsArray()...)

	if len(companies) == 0 && len(terms) == 0 {
		return true
	}

	if len(companies) > 0 && !anySubstring(record.Source, companies) {
		return false
	}

	if len(terms) > 0 && !anySubstring(record.Title, terms) {
		return false
	}

	return true
}

func splitList(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return lo.FilterMap(strings.Split(joined, ","), func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
}

func anySubstring(haystack string, needles []string) bool {
	haystack = strings.ToLower(haystack)
	for _, needle := range needles {
		if strings.Contains(haystack, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}
