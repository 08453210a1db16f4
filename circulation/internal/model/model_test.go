package model

import (
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func TestCopyRecord_JSON(t *testing.T) {
	t.Parallel()
	checkedIn := time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)
	rec := CopyRecord{CopyID: "C1", CheckedInOn: checkedIn}

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	require.JSONEq(t, `{"copyId":"C1","expiresOn":"0001-01-01T00:00:00Z","renewCount":0,"checkedInOn":"2024-04-05T00:00:00Z"}`, string(raw))

	var got CopyRecord
	require.NoError(t, json.Unmarshal(raw, &got))
	require.True(t, got.ExpiresOn.IsZero())
	require.True(t, checkedIn.Equal(got.CheckedInOn))
}

func TestDate_JSON(t *testing.T) {
	t.Parallel()
	resp := LoanResponse{
		CopyID:     "C1",
		ExpiresOn:  NewDate(time.Date(2024, 3, 31, 18, 30, 0, 0, time.UTC)),
		RenewsLeft: 1,
	}

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	require.JSONEq(t, `{"copyId":"C1","expiresOn":"2024-03-31","renewsLeft":1}`, string(raw))

	var got LoanResponse
	require.NoError(t, json.Unmarshal(raw, &got))
	require.True(t, resp.ExpiresOn.Equal(got.ExpiresOn.Time))

	require.Error(t, json.Unmarshal([]byte(`{"expiresOn":"31/03/2024"}`), &got))
}
