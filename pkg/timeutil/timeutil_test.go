package timeutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("24.12.1999")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 1999, Month: time.December, Day: 24}, d)
	assert.Equal(t, "24.12.1999", d.String())

	for _, raw := range []string{"", "1999-12-24", "32.01.2000", "00.01.2000", "24.13.1999", "24.12.99"} {
		_, err := ParseDate(raw)
		assert.Error(t, err, raw)
	}
}

func TestDateOf_IgnoresTimeOfDay(t *testing.T) {
	d := DateOf(time.Date(2020, time.February, 29, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, NewDate(2020, time.February, 29), d)
	assert.Equal(t, time.Date(2020, time.February, 29, 0, 0, 0, 0, time.UTC), d.Time())
}

func TestNewDate_Normalizes(t *testing.T) {
	assert.Equal(t, Date{Year: 2021, Month: time.March, Day: 3}, NewDate(2021, time.February, 31))
}

func TestDate_Zero(t *testing.T) {
	var d Date
	assert.True(t, d.IsZero())
	assert.Equal(t, "", d.String())
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		When Date `json:"when"`
	}

	out, err := json.Marshal(wrapper{When: NewDate(2000, time.January, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"when":"01.01.2000"}`, string(out))

	var back wrapper
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, NewDate(2000, time.January, 1), back.When)

	assert.Error(t, json.Unmarshal([]byte(`{"when":"2000-01-01"}`), &back))
}
