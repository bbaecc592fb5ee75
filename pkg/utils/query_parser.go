package utils

import (
	"net/url"
	"strconv"
	"strings"

	"customer-portal/pkg/types"
)

// ParseFilterFromQuery turns list-endpoint query parameters into a Filter.
// Supported shapes: search=..., sort[col]=asc|desc, filter[col]=v1,v2,
// limit=, offset=, page= (page wins only when offset is absent).
func ParseFilterFromQuery(query url.Values) types.Filter {
	f := types.Filter{
		Sort:           make(map[string]string),
		Filter:         make(map[string]interface{}),
		Limit:          20,
		Offset:         0,
		WithPagination: true,
	}

	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			f.Filter[key[7:len(key)-1]] = values[0]
		}
		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			dir := strings.ToLower(values[0])
			if dir != "desc" {
				dir = "asc"
			}
			f.Sort[key[5:len(key)-1]] = dir
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 200 {
			f.Limit = l
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			f.Offset = o
		}
	}
	if pageStr := query.Get("page"); pageStr != "" && f.Offset == 0 {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			f.Offset = (p - 1) * f.Limit
		}
	}
	if search := query.Get("search"); search != "" {
		f.Search = search
	}
	return f
}
