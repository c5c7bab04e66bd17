package fixture

import (
	"sort"
	"strings"
	"time"
)

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func sortByCreatedDesc[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}
