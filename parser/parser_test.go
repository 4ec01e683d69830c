package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silverbeer/swimcuttimes/models"
)

func TestParseTimeString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr error
	}{
		{name: "seconds form", input: "59.45", want: 5945},
		{name: "minutes form", input: "1:23.45", want: 8345},
		{name: "double digit minutes", input: "12:34.56", want: 75456},
		{name: "single digit fraction is tenths", input: "25.9", want: 2590},
		{name: "leading and trailing whitespace", input: "  57.65 ", want: 5765},
		{name: "single digit seconds in minutes form", input: "1:5.30", want: 6530},
		{name: "seconds >= 60 in minutes form", input: "1:65.00", wantErr: ErrInvalidSeconds},
		{name: "no fraction", input: "59", wantErr: ErrInvalidTimeFormat},
		{name: "hours form rejected", input: "1:02:03.45", wantErr: ErrInvalidTimeFormat},
		{name: "three digit fraction rejected", input: "59.456", wantErr: ErrInvalidTimeFormat},
		{name: "empty", input: "", wantErr: ErrInvalidTimeFormat},
		{name: "garbage", input: "fast", wantErr: ErrInvalidTimeFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeString(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatCentiseconds(t *testing.T) {
	tests := []struct {
		cs   int
		want string
	}{
		{5945, "59.45"},
		{8345, "1:23.45"},
		{75456, "12:34.56"},
		{2590, "25.90"},
		{6000, "1:00.00"},
		{5, "0.05"},
		{6530, "1:05.30"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCentiseconds(tt.cs))
	}
}

// Formatting then re-parsing must reproduce the same centisecond value.
func TestTimeRoundTrip(t *testing.T) {
	inputs := []string{"59.45", "1:23.45", "12:34.56", "25.9", "0.05", "9:59.99"}
	for _, in := range inputs {
		cs, err := ParseTimeString(in)
		require.NoError(t, err, in)

		back, err := ParseTimeString(FormatCentiseconds(cs))
		require.NoError(t, err, in)
		assert.Equal(t, cs, back, in)
	}
}

func TestParseEventString(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		defaultCourse models.Course
		wantDistance  int
		wantStroke    models.Stroke
		wantCourse    models.Course
		wantErr       error
	}{
		{
			name:         "full event string",
			input:        "100 Free SCY",
			wantDistance: 100, wantStroke: models.StrokeFreestyle, wantCourse: models.CourseSCY,
		},
		{
			name:  "default course applied",
			input: "50 Back", defaultCourse: models.CourseSCY,
			wantDistance: 50, wantStroke: models.StrokeBackstroke, wantCourse: models.CourseSCY,
		},
		{
			name:         "long stroke name",
			input:        "200 Butterfly LCM",
			wantDistance: 200, wantStroke: models.StrokeButterfly, wantCourse: models.CourseLCM,
		},
		{
			name:         "two letter stroke code",
			input:        "100 BR scm",
			wantDistance: 100, wantStroke: models.StrokeBreaststroke, wantCourse: models.CourseSCM,
		},
		{
			name:         "medley alias",
			input:        "400 Medley LCM",
			wantDistance: 400, wantStroke: models.StrokeIM, wantCourse: models.CourseLCM,
		},
		{
			name:         "meters alias defaults to long course",
			input:        "1500 Free meters",
			wantDistance: 1500, wantStroke: models.StrokeFreestyle, wantCourse: models.CourseLCM,
		},
		{name: "no course no default", input: "100 Free", wantErr: ErrMissingCourse},
		{name: "bad distance token", input: "ten Free SCY", wantErr: ErrInvalidDistance},
		{name: "distance not in fixed set", input: "300 Free SCY", wantErr: ErrInvalidDistance},
		{name: "unknown stroke", input: "100 Doggy SCY", wantErr: ErrInvalidStroke},
		{name: "unknown course", input: "100 Free SCYX", wantErr: ErrInvalidCourse},
		{name: "single token", input: "100", wantErr: ErrInvalidEventFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			distance, stroke, course, err := ParseEventString(tt.input, tt.defaultCourse)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDistance, distance)
			assert.Equal(t, tt.wantStroke, stroke)
			assert.Equal(t, tt.wantCourse, course)
		})
	}
}

func TestParseStroke(t *testing.T) {
	stroke, err := ParseStroke(" Fly ")
	require.NoError(t, err)
	assert.Equal(t, models.StrokeButterfly, stroke)

	_, err = ParseStroke("sidestroke")
	assert.ErrorIs(t, err, ErrInvalidStroke)
}

func TestParseCourse(t *testing.T) {
	course, err := ParseCourse("YARDS")
	require.NoError(t, err)
	assert.Equal(t, models.CourseSCY, course)

	_, err = ParseCourse("pool")
	assert.ErrorIs(t, err, ErrInvalidCourse)
}
