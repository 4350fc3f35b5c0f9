package timefmt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "valid", input: "15/03/2025", want: Date{Year: 2025, Month: time.March, Day: 15}},
		{name: "leap day", input: "29/02/2024", want: Date{Year: 2024, Month: time.February, Day: 29}},
		{name: "rejects US order", input: "03/15/2025", wantErr: true},
		{name: "rejects ISO", input: "2025-03-15", wantErr: true},
		{name: "rejects nonexistent day", input: "31/02/2025", wantErr: true},
		{name: "rejects garbage", input: "soon", wantErr: true},
		{name: "rejects empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateString(t *testing.T) {
	d := Date{Year: 2025, Month: time.March, Day: 5}
	assert.Equal(t, "05/03/2025", d.String())
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{name: "morning", input: "09:00", want: 540},
		{name: "midnight", input: "00:00", want: 0},
		{name: "last minute", input: "23:59", want: 1439},
		{name: "rejects out-of-range hour", input: "24:00", wantErr: true},
		{name: "rejects out-of-range minute", input: "09:60", wantErr: true},
		{name: "rejects 12h clock", input: "9:00 PM", wantErr: true},
		{name: "rejects garbage", input: "nine", wantErr: true},
		{name: "rejects empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDayString(t *testing.T) {
	assert.Equal(t, "09:05", TimeOfDay(545).String())
	assert.Equal(t, "00:00", TimeOfDay(0).String())
	assert.Equal(t, "23:59", TimeOfDay(1439).String())
}

func TestDateJSONRoundTrip(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"01/12/2025"`), &d))
	assert.Equal(t, Date{Year: 2025, Month: time.December, Day: 1}, d)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"01/12/2025"`, string(out))

	require.Error(t, json.Unmarshal([]byte(`"12-01-2025"`), &d))
}

func TestTimeOfDayJSONRoundTrip(t *testing.T) {
	var tod TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"14:30"`), &tod))
	assert.Equal(t, TimeOfDay(870), tod)

	out, err := json.Marshal(tod)
	require.NoError(t, err)
	assert.Equal(t, `"14:30"`, string(out))

	require.Error(t, json.Unmarshal([]byte(`"2pm"`), &tod))
}
