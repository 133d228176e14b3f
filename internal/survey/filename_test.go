package survey

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 19, 15, 30, 0, 0, time.UTC)

func TestDateFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
		wantOK   bool
	}{
		{name: "six digit, two digit year", filename: "Berowra Creek 150509.xls", want: "15/5/2009", wantOK: true},
		{name: "eight digit, four digit year", filename: "Berowra 15052009Species List.xls", want: "15/5/2009", wantOK: true},
		{name: "eight digit preferred over six", filename: "01012001 150509.xls", want: "1/1/2001", wantOK: true},
		{name: "eight digit rolls over", filename: "Survey 31022009.xls", want: "3/3/2009", wantOK: true},
		{name: "today is allowed", filename: "Survey 19102026.xlsx", want: "19/10/2026", wantOK: true},
		{name: "directory digits ignored", filename: "/surveys/20240101/Berowra Creek.xls", wantOK: false},
		{name: "no digits", filename: "Berowra Creek.xls", wantOK: false},
		{name: "five digits", filename: "Berowra 15059.xls", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, ok, err := DateFromFilename(tt.filename, fixedNow)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, FormatDate(date))
			}
		})
	}
}

func TestDateFromFilename_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  error
	}{
		{name: "two digit year before 1990", filename: "Survey 010189.xls", wantErr: ErrDateTooEarly},
		{name: "four digit year before 1990", filename: "Survey 01011985.xls", wantErr: ErrDateTooEarly},
		{name: "tomorrow", filename: "Survey 20102026.xls", wantErr: ErrDateInFuture},
		{name: "two digit future year", filename: "Survey 010130.xls", wantErr: ErrDateInFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := DateFromFilename(tt.filename, fixedNow)
			require.Error(t, err)
			assert.False(t, ok)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestDateFromFilename_InvalidShortDate(t *testing.T) {
	_, ok, err := DateFromFilename("Survey 310209.xls", fixedNow)
	require.Error(t, err)
	assert.False(t, ok)
	assert.False(t, errors.Is(err, ErrDateTooEarly))
	assert.Contains(t, err.Error(), "310209")
}

func TestDateFromFilename_ErrorMessages(t *testing.T) {
	_, _, err := DateFromFilename("Survey 010189.xls", fixedNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Date is too early")

	_, _, err = DateFromFilename("Survey 01012030.xls", fixedNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Date is in the future")
}

func TestLocationCandidate(t *testing.T) {
	assert.Equal(t, "Las Vegas", LocationCandidate("/tmp/surveys/Las Vegas.xlsx"))
	assert.Equal(t, "Berowra Creek 150509", LocationCandidate("Berowra Creek 150509.xls"))
	assert.Equal(t, "Lane Cove", LocationCandidate("Lane Cove"))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "21/6/2009", FormatDate(time.Date(2009, time.June, 21, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "1/12/1999", FormatDate(time.Date(1999, time.December, 1, 0, 0, 0, 0, time.UTC)))
}
