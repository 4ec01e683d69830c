package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silverbeer/swimcuttimes/models"
)

func TestParseSplitsString(t *testing.T) {
	t.Run("typical 200 with minute-form last split", func(t *testing.T) {
		splits, err := ParseSplitsString("50:28.27;100:58.44;150:1:29.19", 200, 12155)
		require.NoError(t, err)
		require.Len(t, splits, 3)

		assert.Equal(t, []models.Split{
			{Distance: 50, TimeCentiseconds: 2827},
			{Distance: 100, TimeCentiseconds: 5844},
			{Distance: 150, TimeCentiseconds: 8919},
		}, splits)
	})

	t.Run("empty input yields no splits", func(t *testing.T) {
		splits, err := ParseSplitsString("", 200, 12000)
		require.NoError(t, err)
		assert.Empty(t, splits)

		splits, err = ParseSplitsString("   ", 200, 12000)
		require.NoError(t, err)
		assert.Empty(t, splits)
	})

	t.Run("blank entries between semicolons are skipped", func(t *testing.T) {
		splits, err := ParseSplitsString("50:28.27;;100:58.44;", 200, 12155)
		require.NoError(t, err)
		assert.Len(t, splits, 2)
	})

	tests := []struct {
		name      string
		input     string
		distance  int
		finalTime int
		wantErr   error
	}{
		{
			name:  "missing colon",
			input: "50 28.27", distance: 200, finalTime: 12155,
			wantErr: ErrInvalidSplitFormat,
		},
		{
			name:  "non numeric distance",
			input: "fifty:28.27", distance: 200, finalTime: 12155,
			wantErr: ErrInvalidSplitDistance,
		},
		{
			name:  "bad split time",
			input: "50:28", distance: 200, finalTime: 12155,
			wantErr: ErrInvalidTimeFormat,
		},
		{
			name:  "non monotonic times",
			input: "50:30.00;100:29.99", distance: 200, finalTime: 12155,
			wantErr: ErrSplitsNotMonotonic,
		},
		{
			name:  "duplicate distance collapses to equal times",
			input: "50:28.27;50:28.27", distance: 200, finalTime: 12155,
			wantErr: ErrSplitsNotMonotonic,
		},
		{
			name:  "split distance at event distance",
			input: "50:28.27;200:1:55.00", distance: 200, finalTime: 12155,
			wantErr: ErrSplitExceedsEventDistance,
		},
		{
			name:  "split slower than final time",
			input: "50:1:05.00", distance: 100, finalTime: 5945,
			wantErr: ErrSplitExceedsFinalTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSplitsString(tt.input, tt.distance, tt.finalTime)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFormatSplits(t *testing.T) {
	splits := []models.Split{
		{Distance: 150, TimeCentiseconds: 8919},
		{Distance: 50, TimeCentiseconds: 2827},
		{Distance: 100, TimeCentiseconds: 5844},
	}
	assert.Equal(t, "50:28.27;100:58.44;150:1:29.19", FormatSplits(splits))
	assert.Equal(t, "", FormatSplits(nil))
}

// Splits that pass validation survive a format/parse round trip unchanged
// (sorted by distance).
func TestSplitsRoundTrip(t *testing.T) {
	original, err := ParseSplitsString("50:28.27;100:58.44;150:1:29.19", 200, 12155)
	require.NoError(t, err)

	back, err := ParseSplitsString(FormatSplits(original), 200, 12155)
	require.NoError(t, err)
	assert.Equal(t, original, back)
}
