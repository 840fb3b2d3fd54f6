package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"power-team-radar/internal/logger"
	"power-team-radar/internal/pipeline"
)

type fakeSearcher struct {
	got pipeline.SearchRequest
	err error
}

func (f *fakeSearcher) Search(_ context.Context, req pipeline.SearchRequest) (*pipeline.SearchResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &pipeline.SearchResponse{Items: []pipeline.Opportunity{{ID: "opp_1", Title: "Health talk"}}}, nil
}

func TestHandle(t *testing.T) {
	fs := &fakeSearcher{}
	h := &handler{search: fs, log: logger.NewNop()}

	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Body:       `{"locations":["Penang"],"limit":1}`,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, []string{"Penang"}, fs.got.Locations)

	var out pipeline.SearchResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	require.Len(t, out.Items, 1)
	assert.Equal(t, "opp_1", out.Items[0].ID)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		ev     events.APIGatewayProxyRequest
		err    error
		status int
	}{
		{"get", events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet}, nil, http.StatusMethodNotAllowed},
		{"bad json", events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: "{"}, nil, http.StatusBadRequest},
		{"search failure", events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost}, errors.New("search: context canceled"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &handler{search: &fakeSearcher{err: tt.err}, log: logger.NewNop()}
			resp, err := h.Handle(context.Background(), tt.ev)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandle_EmptyBodyUsesDefaults(t *testing.T) {
	fs := &fakeSearcher{}
	h := &handler{search: fs, log: logger.NewNop()}

	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: "post"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, fs.got.Industries)
}
