package panel

import (
	"regexp"

	"boardpharma/domain/panel"
)

// DetectGroups discovers group names for one entity kind by matching
// firm-year column names against the cumulative-added prefix template.
// Group names keep whatever characters the source column carries.
func DetectGroups(columns []string, entity panel.Entity) []string {
	pat := regexp.MustCompile(`^cum_` + regexp.QuoteMeta(string(entity)) + `_n_added_(.+)$`)
	var groups []string
	for _, c := range columns {
		if m := pat.FindStringSubmatch(c); m != nil {
			groups = append(groups, m[1])
		}
	}
	return groups
}
