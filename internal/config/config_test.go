package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("STUDIO_DB_PASSWORD", "secret")

	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db"
password = "${STUDIO_DB_PASSWORD}"
dbname = "studio"

[calendar]
timezone = "Europe/Berlin"
slot_granularity_minutes = 15

[[calendar.hours]]
weekday = "monday"
open = "09:00"
close = "18:00"

[billing]
tax_rate = "0.2"
due_days = 30
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 15, cfg.Calendar.SlotGranularityMinutes)
	assert.Equal(t, 1, cfg.Calendar.LeadDays)
	assert.Equal(t, 24, cfg.Calendar.CancellationWindowHours)
	require.Len(t, cfg.Calendar.Hours, 1)
	assert.Equal(t, "18:00", cfg.Calendar.Hours[0].Close)
	assert.Equal(t, 30, cfg.Billing.DueDays)

	rate, err := cfg.Billing.TaxRateDecimal()
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.2")))
	assert.Contains(t, cfg.Database.DSN(), "dbname=studio")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "неизвестный часовой пояс", content: "[calendar]\ntimezone = \"Mars/Olympus\"\n"},
		{name: "нулевая гранулярность", content: "[calendar]\nslot_granularity_minutes = 0\n"},
		{name: "ставка больше единицы", content: "[billing]\ntax_rate = \"1.5\"\n"},
		{name: "ставка не число", content: "[billing]\ntax_rate = \"abc\"\n"},
		{name: "ставка точнее четырех знаков", content: "[billing]\ntax_rate = \"0.08875\"\n"},
		{name: "открытие позже закрытия", content: "[[calendar.hours]]\nweekday = \"monday\"\nopen = \"18:00\"\nclose = \"09:00\"\n"},
		{name: "неизвестный день недели", content: "[[calendar.hours]]\nweekday = \"funday\"\nopen = \"09:00\"\nclose = \"10:00\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_TaxRateAtStoredPrecision(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[billing]\ntax_rate = \"0.0888\"\n"))
	require.NoError(t, err)

	rate, err := cfg.Billing.TaxRateDecimal()
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.0888")))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestParseWeekday(t *testing.T) {
	wd, ok := ParseWeekday(" Monday ")
	assert.True(t, ok)
	assert.Equal(t, "Monday", wd.String())

	_, ok = ParseWeekday("someday")
	assert.False(t, ok)
}

func TestCalendarConfig_Rules(t *testing.T) {
	cfg := CalendarConfig{
		Timezone:                "UTC",
		SlotGranularityMinutes:  30,
		LeadDays:                2,
		CancellationWindowHours: 12,
		Hours: []DayHoursConfig{
			{Weekday: "monday", Open: "09:00", Close: "18:00"},
			{Weekday: "saturday", Open: "10:00", Close: "14:00"},
		},
	}

	rules, err := cfg.Rules()
	require.NoError(t, err)
	assert.Equal(t, 30, rules.SlotGranularityMinutes)
	assert.Equal(t, 2, rules.LeadDays)
	assert.Equal(t, 12*time.Hour, rules.CancellationWindow)
	assert.Equal(t, []time.Weekday{time.Monday, time.Saturday}, rules.Hours.Weekdays())
	assert.Equal(t, "18:00", rules.Hours[time.Monday].Close.String())

	_, ok := rules.Hours[time.Sunday]
	assert.False(t, ok, "weekday without hours is closed")
}
