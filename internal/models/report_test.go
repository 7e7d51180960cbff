package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReport_Normalize_StatusDefaults(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", StatusPending},
		{"  ", StatusPending},
		{"Pendiente", StatusPending},
		{"pending", StatusPending},
		{"COMPLETADO", StatusCompleted},
		{"completed", StatusCompleted},
		{"en proceso", "en proceso"}, // unrecognized, kept verbatim
	}

	for _, tc := range cases {
		r := Report{Estado: tc.in}
		r.Normalize()
		assert.Equal(t, tc.want, r.Estado, "estado %q", tc.in)
	}
}

func TestReport_StatusChecksCaseInsensitive(t *testing.T) {
	r := Report{Estado: "PENDIENTE"}
	assert.True(t, r.IsPending())
	assert.False(t, r.IsCompleted())
}

func TestLocation_Valid(t *testing.T) {
	assert.True(t, Location{Latitud: 20.5887, Longitud: -87.3187}.Valid())
	assert.False(t, Location{Latitud: 91, Longitud: 0}.Valid())
	assert.False(t, Location{Latitud: 0, Longitud: -181}.Valid())
}

func TestFormatFecha(t *testing.T) {
	assert.Empty(t, FormatFecha(nil))

	ts := time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "15/03/2024 06:30 PM", FormatFecha(&ts))
}
