package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionRequestWireFormat(t *testing.T) {
	req := &CompletionRequest{
		Model: "gpt-4",
		Messages: []CompletionMessage{
			{Role: RoleSystem, Content: "be brief"},
			{Role: RoleUser, Content: "hello"},
		},
		Temperature: 0.7,
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"model": "gpt-4",
		"messages": [
			{"role": "system", "content": "be brief"},
			{"role": "user", "content": "hello"}
		],
		"temperature": 0.7
	}`, string(data))
}

func TestCompletionResponseDecoding(t *testing.T) {
	body := `{"id":"cmpl-1","choices":[{"index":0,"message":{"role":"assistant","content":"Hi there"},"finish_reason":"stop"}]}`

	var resp CompletionResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "Hi there", resp.Choices[0].Message.Content)
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
}

func TestBookingResponseShape(t *testing.T) {
	resp := BookingResponse{
		Message: "Settlement successfully booked.",
		Details: SettlementRequest{Account: "ACC1", Date: "2024-01-01"},
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"message":"Settlement successfully booked.","details":{"account":"ACC1","date":"2024-01-01"}}`,
		string(data))
}

func TestChatRequestUserIDOptional(t *testing.T) {
	var req ChatRequest
	require.NoError(t, json.Unmarshal([]byte(`{"message":"hi"}`), &req))
	assert.Equal(t, "hi", req.Message)
	assert.Empty(t, req.UserID)

	require.NoError(t, json.Unmarshal([]byte(`{"message":"hi","userId":"u-7"}`), &req))
	assert.Equal(t, "u-7", req.UserID)
}

func TestStatementQueryID(t *testing.T) {
	testCases := []struct {
		name  string
		query StatementQuery
		want  string
	}{
		{name: "userId", query: StatementQuery{UserID: "42"}, want: "42"},
		{name: "user_id alias", query: StatementQuery{LegacyUserID: "7"}, want: "7"},
		{name: "userId wins", query: StatementQuery{UserID: "42", LegacyUserID: "7"}, want: "42"},
		{name: "neither", query: StatementQuery{}, want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.query.ID())
		})
	}
}
