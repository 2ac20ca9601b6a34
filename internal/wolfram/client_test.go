package wolfram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const sampleResult = `<?xml version='1.0' encoding='UTF-8'?>
<queryresult success='true' error='false' numpods='3'>
 <pod title='Input interpretation' id='Input' position='100'>
  <subpod title=''><plaintext>6 times 7</plaintext></subpod>
 </pod>
 <pod title='Result' id='Result' position='200'>
  <subpod title=''><plaintext>42</plaintext></subpod>
 </pod>
 <pod title='Number name' id='NumberName' position='300' async='https://example.invalid/async'>
 </pod>
</queryresult>`

func TestQueryURL(t *testing.T) {
	c := NewClient(Config{AppID: "APP-123", BaseURL: "https://api.example.com/v2"}, nil, nil)

	u, err := url.Parse(c.QueryURL("what is pi"))
	require.NoError(t, err)

	assert.Equal(t, "/v2/query", u.Path)
	q := u.Query()
	assert.Equal(t, "what is pi", q.Get("input"))
	assert.Equal(t, "APP-123", q.Get("appid"))
	assert.Equal(t, "true", q.Get("async"))
	assert.Equal(t, "true", q.Get("reinterpret"))
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient(Config{AppID: "x"}, nil, nil)
	assert.Equal(t, DefaultBaseURL+"query", c.endpoint)
}

func TestQuery_Success(t *testing.T) {
	var gotInput string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/query", r.URL.Path)
		gotInput = r.URL.Query().Get("input")
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(sampleResult))
	}))
	defer server.Close()

	c := NewClient(Config{AppID: "id", BaseURL: server.URL}, server.Client(), zaptest.NewLogger(t))
	result, err := c.Query(context.Background(), "6 * 7")
	require.NoError(t, err)

	assert.Equal(t, "6 * 7", gotInput)
	assert.True(t, result.Success)
	require.Len(t, result.Pods, 3)
	assert.Equal(t, "Result", result.Pods[1].Title)

	text, ok := result.Pods[1].Plaintext()
	assert.True(t, ok)
	assert.Equal(t, "42", text)

	_, ok = result.Pods[2].Plaintext()
	assert.False(t, ok)
}

func TestQuery_TransportErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       "boom",
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "forbidden",
			status:     http.StatusForbidden,
			body:       "",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "malformed xml",
			status:     http.StatusOK,
			body:       "<queryresult><pod title='Result'>",
			wantStatus: http.StatusOK,
		},
		{
			name:       "error result",
			status:     http.StatusOK,
			body:       `<queryresult success='false' error='true'><error><code>1</code><msg>Invalid appid</msg></error></queryresult>`,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient(Config{AppID: "id", BaseURL: server.URL}, server.Client(), zaptest.NewLogger(t))
			_, err := c.Query(context.Background(), "anything")
			require.Error(t, err)

			var te *TransportError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.wantStatus, te.StatusCode)
		})
	}
}

func TestQuery_ErrorResultMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<queryresult success='false' error='true'><error><code>1</code><msg>Invalid appid</msg></error></queryresult>`))
	}))
	defer server.Close()

	c := NewClient(Config{AppID: "bad", BaseURL: server.URL}, server.Client(), nil)
	_, err := c.Query(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid appid")
}

func TestQuery_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := server.URL
	server.Close()

	c := NewClient(Config{AppID: "id", BaseURL: base}, nil, nil)
	_, err := c.Query(context.Background(), "x")

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "get", te.Op)
	assert.Zero(t, te.StatusCode)
}

func TestQuery_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleResult))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(Config{AppID: "id", BaseURL: server.URL}, server.Client(), nil)
	_, err := c.Query(ctx, "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
