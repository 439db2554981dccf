package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoint_Validate(t *testing.T) {
	tests := []struct {
		name    string
		point   Point
		wantErr error
	}{
		{name: "valid", point: At("a", 48.85, 2.35, "Paris")},
		{name: "empty id", point: At("", 1, 1, ""), wantErr: ErrEmptyPointID},
		{name: "missing coordinates", point: Point{ID: "x"}, wantErr: ErrMissingCoordinates},
		{name: "latitude out of range", point: At("x", 91, 0, ""), wantErr: ErrInvalidCoordinates},
		{name: "longitude out of range", point: At("x", 0, -180.5, ""), wantErr: ErrInvalidCoordinates},
		{name: "NaN", point: At("x", math.NaN(), 0, ""), wantErr: ErrInvalidCoordinates},
		{name: "infinite", point: At("x", 0, math.Inf(1), ""), wantErr: ErrInvalidCoordinates},
		{name: "boundary values", point: At("x", -90, 180, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.point.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPoint_Clone(t *testing.T) {
	orig := At("a", 10, 20, "label")
	clone := orig.Clone()

	orig.Position.Lat = 99
	require.Equal(t, 10.0, clone.Position.Lat)
	require.Equal(t, "a", clone.ID)

	empty := Point{ID: "b"}
	require.Nil(t, empty.Clone().Position)
}

func TestTheme(t *testing.T) {
	t.Run("parse", func(t *testing.T) {
		th, err := ParseTheme("dark")
		require.NoError(t, err)
		require.Equal(t, ThemeDark, th)

		th, err = ParseTheme("")
		require.NoError(t, err)
		require.Equal(t, ThemeNormal, th)

		_, err = ParseTheme("sepia")
		require.ErrorIs(t, err, ErrUnknownTheme)
	})

	t.Run("text round trip", func(t *testing.T) {
		var th Theme
		require.NoError(t, th.UnmarshalText([]byte("dark")))
		require.Equal(t, ThemeDark, th)

		out, err := th.MarshalText()
		require.NoError(t, err)
		require.Equal(t, "dark", string(out))
	})

	t.Run("icon variant follows theme", func(t *testing.T) {
		require.Equal(t, "pin-normal", IconFor(ThemeNormal).Variant)
		require.Equal(t, "pin-dark", IconFor(ThemeDark).Variant)
	})
}

func TestBounds_Center(t *testing.T) {
	b := Bounds{South: 10, West: 20, North: 30, East: 40}
	require.Equal(t, LatLng{Lat: 20, Lng: 30}, b.Center())
}
