package normalizer

import (
	"strings"

	"pesertagen/internal/models"
)

// Group partitions records by JENIS_TES. Groups appear in first-seen key
// order, rows keep their relative order, and blank keys form their own group.
func Group(records []models.OutputRecord) []models.OutputGroup {
	index := make(map[string]int)

	var groups []models.OutputGroup

	for _, rec := range records {
		key := strings.TrimSpace(rec.JenisTes)

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, models.OutputGroup{Key: key})
		}

		groups[i].Rows = append(groups[i].Rows, rec.ParticipantRow)
	}

	return groups
}

// IsDegenerate reports whether the records carry no usable JENIS_TES value.
func IsDegenerate(records []models.OutputRecord) bool {
	for _, rec := range records {
		if strings.TrimSpace(rec.JenisTes) != "" {
			return false
		}
	}

	return true
}
