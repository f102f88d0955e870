package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListResolves(t *testing.T) {
	ids := List()
	require.Len(t, ids, 5)
	require.Equal(t, DefaultModel, ids[0])
	for _, id := range ids {
		d, ok := Describe(id)
		require.True(t, ok, id)
		require.Equal(t, id, d.ID)
		require.NotEmpty(t, d.DisplayName)
		require.NotEmpty(t, d.Capabilities)
	}
}

func TestListReturnsCopy(t *testing.T) {
	ids := List()
	ids[0] = "mutated"
	require.Equal(t, DefaultModel, List()[0])

	d, _ := Describe("gemini-pro")
	d.Capabilities[0] = "mutated"
	again, _ := Describe("gemini-pro")
	require.Equal(t, "text", again.Capabilities[0])
}

func TestDescribeExactMatch(t *testing.T) {
	_, ok := Describe("Gemini-Pro")
	require.False(t, ok)
	_, ok = Describe("gemini")
	require.False(t, ok)
	_, ok = Describe("")
	require.False(t, ok)
}

func TestSelect(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1", "gemini-1.5-pro-latest", false},
		{"5", "gemini-pro-vision", false},
		{" 2 ", "gemini-1.5-flash-latest", false},
		{"0", "", true},
		{"6", "", true},
		{"99999999999999999999", "", true},
		{"", "", true},
		{"gemini-2.0-flash", "gemini-2.0-flash", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Select(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSelection)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
