package parser

import (
	"strings"

	"github.com/Chandru1806/MCA/internal/models"
)

// dateGroup is the text accumulated under one date token.
type dateGroup struct {
	date  string
	parts []string
}

func filterNoise(lines []string) []string {
	var out []string
	for _, ln := range lines {
		if !isNoise(ln) {
			out = append(out, strings.TrimSpace(ln))
		}
	}
	return out
}

// groupByDate starts a new group at every date-led line and appends other
// lines to the open group. Lines before the first date are dropped.
func groupByDate(lines []string) []dateGroup {
	var groups []dateGroup
	var cur *dateGroup
	for _, ln := range lines {
		if startsWithDate(ln) {
			if cur != nil {
				groups = append(groups, *cur)
			}
			date, rest := splitDate(ln)
			cur = &dateGroup{date: date}
			if rest != "" {
				cur.parts = append(cur.parts, rest)
			}
			continue
		}
		if cur != nil {
			cur.parts = append(cur.parts, ln)
		}
	}
	if cur != nil {
		groups = append(groups, *cur)
	}
	return groups
}

// finalizeGroup reads the trailing amounts of a group. Three amounts are
// withdrawal, deposit and balance; two are an amount and the balance; one
// is the balance alone. Every group yields exactly one row.
func finalizeGroup(g dateGroup, prevBalance string, clean func(string) string) models.RawRow {
	tokens := strings.Fields(strings.Join(g.parts, " "))
	nums, start, end := trailingAmounts(tokens, 3)
	narr := strings.Join(append(append([]string{}, tokens[:start]...), tokens[end:]...), " ")
	if clean != nil {
		narr = clean(narr)
	}

	row := models.RawRow{Date: g.date}
	switch len(nums) {
	case 3:
		row.Debit, row.Credit, row.Balance = nums[0], nums[1], nums[2]
	case 2:
		row.Balance = nums[1]
		row.Debit, row.Credit = placeAmount(narr, nums[0], nums[1], prevBalance)
	case 1:
		row.Balance = nums[0]
	}

	row.Narration, row.Reference = splitReference(narr)
	return row
}
