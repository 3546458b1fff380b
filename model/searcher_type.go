package model

import (
	"fmt"
	"strings"
)

// SearcherType names one of the matching strategies an index can serve.
type SearcherType string

const (
	SearcherTypeFuzzy     SearcherType = "fuzzy"
	SearcherTypeSubstring SearcherType = "substring"
	SearcherTypePrefix    SearcherType = "prefix"
)

// AllSearcherTypes lists the strategies in the order the entity layer queries them.
var AllSearcherTypes = []SearcherType{SearcherTypePrefix, SearcherTypeSubstring, SearcherTypeFuzzy}

// ParseSearcherType converts user input (config files, HTTP bodies) into a SearcherType.
func ParseSearcherType(s string) (SearcherType, error) {
	switch SearcherType(strings.ToLower(strings.TrimSpace(s))) {
	case SearcherTypeFuzzy:
		return SearcherTypeFuzzy, nil
	case SearcherTypeSubstring:
		return SearcherTypeSubstring, nil
	case SearcherTypePrefix:
		return SearcherTypePrefix, nil
	}
	return "", fmt.Errorf("unknown searcher type '%s'", s)
}

// ContainsSearcherType reports whether t is part of types.
func ContainsSearcherType(types []SearcherType, t SearcherType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// SortOrder decides how matches with equal quality are ordered.
type SortOrder string

const (
	// SortOrderQualityAndIndex keeps the engine order: quality descending, then insertion order.
	SortOrderQualityAndIndex SortOrder = "qualityAndIndex"
	// SortOrderQualityAndMatchedString orders ties by a natural comparison of the matched strings.
	SortOrderQualityAndMatchedString SortOrder = "qualityAndMatchedString"
)

// ParseSortOrder converts user input into a SortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case strings.ToLower(string(SortOrderQualityAndIndex)), "quality_and_index":
		return SortOrderQualityAndIndex, nil
	case strings.ToLower(string(SortOrderQualityAndMatchedString)), "quality_and_matched_string":
		return SortOrderQualityAndMatchedString, nil
	}
	return "", fmt.Errorf("unknown sort order '%s'", s)
}
