package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silverbeer/swimcuttimes/models"
)

func TestReadRosterCSV(t *testing.T) {
	csv := "\uFEFFfirst_name,last_name,date_of_birth,gender,usa_swimming_id\n" +
		"Katie,Ledecky,1997-03-17,F,USA123456\n" +
		"Caeleb,Dressel,1996-08-16,M,\n"

	rows, result, err := ReadRosterCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, result.Valid())

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Katie", rows[0].FirstName)
	assert.Equal(t, models.GenderFemale, rows[0].Gender)
	require.NotNil(t, rows[0].USASwimmingID)
	assert.Equal(t, "USA123456", *rows[0].USASwimmingID)

	assert.Equal(t, 3, rows[1].Line)
	assert.Nil(t, rows[1].USASwimmingID)
}

func TestReadRosterCSV_badFieldsDropRow(t *testing.T) {
	csv := "first_name,last_name,date_of_birth,gender\n" +
		"Katie,Ledecky,17-03-1997,F\n" +
		"Caeleb,Dressel,1996-08-16,X\n" +
		"Regan,Smith,2002-02-09,F\n"

	rows, result, err := ReadRosterCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Regan", rows[0].FirstName)

	errs := result.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, 2, errs[0].Row)
	assert.Equal(t, "date_of_birth", errs[0].Field)
	assert.Equal(t, 3, errs[1].Row)
	assert.Equal(t, "gender", errs[1].Field)
}

func TestReadMeetsCSV_defaults(t *testing.T) {
	csv := "name,location,city,state,country,start_date,end_date,course,lanes,indoor,sanctioning_body,meet_type\n" +
		"Winter Classic,Aquatic Center,Austin,TX,,2025-12-05,2025-12-07,SCY,,,USA Swimming,invitational\n"

	rows, result, err := ReadMeetsCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.True(t, result.Valid())
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "USA", row.Country)
	assert.Equal(t, 8, row.Lanes)
	assert.True(t, row.Indoor)
	assert.Equal(t, models.CourseSCY, row.Course)
	assert.Equal(t, models.MeetTypeInvitational, row.MeetType)
	require.NotNil(t, row.EndDate)
	assert.Equal(t, "2025-12-07", row.EndDate.Format("2006-01-02"))
}

func TestReadMeetsCSV_badLanes(t *testing.T) {
	csv := "name,location,city,start_date,course,lanes,sanctioning_body,meet_type\n" +
		"Winter Classic,Aquatic Center,Austin,2025-12-05,SCY,7,USA Swimming,dual\n"

	rows, result, err := ReadMeetsCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, rows)

	errs := result.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "lanes", errs[0].Field)
}

func TestReadTimesCSV(t *testing.T) {
	csv := "swimmer_first_name,swimmer_last_name,usa_swimming_id,distance,stroke,course,meet_name,time,splits,swim_date,team_name,round,lane,place,official,dq,dq_reason\n" +
		"Katie,Ledecky,USA123456,200,Free,SCY,Winter Classic,1:41.55,50:24.00;100:50.10;150:1:16.01,2025-12-06,Gator Swim Club,finals,4,1,,,\n" +
		"Caeleb,Dressel,,50,FR,scy,Winter Classic,18.90,,2025-12-06,Gator Swim Club,prelims,,,yes,true,false start\n"

	rows, result, err := ReadTimesCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.True(t, result.Valid())
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, 200, first.Distance)
	assert.Equal(t, models.StrokeFreestyle, first.Stroke)
	assert.Equal(t, models.CourseSCY, first.Course)
	assert.Equal(t, "1:41.55", first.Time)
	require.NotNil(t, first.Round)
	assert.Equal(t, models.RoundFinals, *first.Round)
	require.NotNil(t, first.Lane)
	assert.Equal(t, 4, *first.Lane)
	assert.True(t, first.Official, "empty official cell defaults to true")
	assert.False(t, first.DQ, "empty dq cell defaults to false")

	second := rows[1]
	assert.Equal(t, models.StrokeFreestyle, second.Stroke, "2-letter stroke code")
	assert.True(t, second.DQ)
	require.NotNil(t, second.DQReason)
	assert.Equal(t, "false start", *second.DQReason)
}

func TestReadTimesCSV_fieldErrors(t *testing.T) {
	csv := "swimmer_first_name,swimmer_last_name,distance,stroke,course,meet_name,time,swim_date,team_name,lane\n" +
		"Katie,Ledecky,175,Free,SCY,Winter Classic,1:41.55,2025-12-06,Gators,4\n" +
		"Katie,Ledecky,200,Doggy,SCY,Winter Classic,1:41.55,2025-12-06,Gators,4\n" +
		"Katie,Ledecky,200,Free,SCY,Winter Classic,1:41.55,2025-12-06,Gators,11\n"

	rows, result, err := ReadTimesCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, rows)

	errs := result.Errors()
	require.Len(t, errs, 3)
	assert.Equal(t, "distance", errs[0].Field)
	assert.Equal(t, "stroke", errs[1].Field)
	assert.Equal(t, "lane", errs[2].Field)
}

func TestParseBool(t *testing.T) {
	assert.True(t, parseBool("true", false))
	assert.True(t, parseBool("1", false))
	assert.True(t, parseBool("YES", false))
	assert.False(t, parseBool("no", true))
	assert.False(t, parseBool("0", true))
	assert.True(t, parseBool("", true))
	assert.False(t, parseBool("", false))
}
