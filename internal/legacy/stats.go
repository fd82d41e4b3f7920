package legacy

import (
	"context"
	"fmt"
	"io"
	"sort"

	"gorm.io/gorm"
)

// StatsTables are the tables reported after a migration.
var StatsTables = []string{
	"users", "posts", "likes", "reposts", "comments",
	"follows", "messages", "notifications", "marketplace",
}

// Stats maps table name to row count.
type Stats map[string]int64

func CollectStats(ctx context.Context, db *gorm.DB) (Stats, error) {
	stats := make(Stats, len(StatsTables))
	for _, table := range StatsTables {
		var n int64
		if err := db.WithContext(ctx).Table(table).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		stats[table] = n
	}
	return stats, nil
}

// Print writes one "table: count" line per table in name order.
func (s Stats) Print(w io.Writer) {
	tables := make([]string, 0, len(s))
	for t := range s {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		fmt.Fprintf(w, "   %s: %d\n", t, s[t])
	}
}
