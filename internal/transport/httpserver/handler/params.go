package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func parseDateParam(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseDateField(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", value)
}

func parseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

// parsePagination maps page/page_size query values onto limit/offset.
func parsePagination(pageValue, pageSizeValue string) (page, pageSize, limit, offset int, err error) {
	page, err = parseIntParam(pageValue, 1)
	if err != nil || page == 0 {
		return 0, 0, 0, 0, fmt.Errorf("invalid page")
	}
	pageSize, err = parseIntParam(pageSizeValue, defaultPageSize)
	if err != nil || pageSize == 0 {
		return 0, 0, 0, 0, fmt.Errorf("invalid page size")
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize, pageSize, (page - 1) * pageSize, nil
}
