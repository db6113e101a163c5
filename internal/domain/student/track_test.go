package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProgram(t *testing.T) {
	tests := []struct {
		raw     string
		want    Program
		wantErr bool
	}{
		{"Informatyka", ComputerScience, false},
		{"Sztuka Nowych Mediów", NewMediaArt, false},
		{"Informatyka dzienne", ComputerScience, false},
		{"Studia: Sztuka Nowych Mediów (2020)", NewMediaArt, false},
		{"informatyka", ProgramUnknown, true},
		{"Matematyka", ProgramUnknown, true},
		{"Sztuka", ProgramUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseProgram(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownProgram)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProgram_Labels(t *testing.T) {
	assert.Equal(t, []Program{ComputerScience, NewMediaArt}, Programs())
	assert.Equal(t, "Informatyka", ComputerScience.Label())
	assert.Equal(t, "Sztuka Nowych Mediów", NewMediaArt.String())
	assert.False(t, ProgramUnknown.IsValid())
	assert.Equal(t, "Program(0)", ProgramUnknown.String())
}

func TestModeSet_Parse(t *testing.T) {
	modes := DefaultModes()

	m, err := modes.Parse("Dzienne")
	require.NoError(t, err)
	assert.Equal(t, FullTime, m)

	m, err = modes.Parse("Zaoczne")
	require.NoError(t, err)
	assert.Equal(t, PartTime, m)

	for _, raw := range []string{"dzienne", "Dzienne ", "Wieczorowe", "Internetowe"} {
		_, err := modes.Parse(raw)
		assert.ErrorIs(t, err, ErrUnknownMode, raw)
	}
}

func TestModeSet_WithOnline(t *testing.T) {
	base := DefaultModes()
	online := base.WithOnline()

	assert.False(t, base.Contains(Online))
	assert.True(t, online.Contains(Online))
	assert.Equal(t, online, online.WithOnline())

	m, err := online.Parse("Internetowe")
	require.NoError(t, err)
	assert.Equal(t, Online, m)
}

func TestStudyTrack(t *testing.T) {
	track := StudyTrack{Program: ComputerScience, Mode: PartTime}
	assert.True(t, track.IsValid())
	assert.Equal(t, "Informatyka Zaoczne", track.String())
	assert.Equal(t, track, StudyTrack{Program: ComputerScience, Mode: PartTime})

	assert.False(t, StudyTrack{Program: ComputerScience}.IsValid())
}
