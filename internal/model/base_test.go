package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateOf(t *testing.T) {
	ts := time.Date(2026, 3, 2, 18, 45, 12, 999, time.UTC)
	day := DateOf(ts)

	assert.Equal(t, 2026, day.Year())
	assert.Equal(t, time.March, day.Month())
	assert.Equal(t, 2, day.Day())
	assert.Equal(t, 0, day.Hour())
	assert.Equal(t, 0, day.Nanosecond())
	assert.Equal(t, time.UTC, day.Location())
}

func TestDateOfKeepsLocation(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	ts := time.Date(2026, 3, 2, 0, 30, 0, 0, loc)
	day := DateOf(ts)

	// 按本地日历日截断，不换算到 UTC
	assert.Equal(t, 2, day.Day())
	assert.Equal(t, loc, day.Location())
}
