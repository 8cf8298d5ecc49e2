package utils

import (
	"rentalChat/internal/errs"
	"strconv"
	"time"
)

func StrToTime(value string) (*time.Time, error) {
	layout := "2006-01-02 15:04:05"
	result, err := time.Parse(layout, value)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ParseID parses a positive numeric identifier from a path parameter.
func ParseID(value string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.ErrInvalidParams
	}
	return uint(id), nil
}
