package api

import (
	"io"
	"net/url"
	"strconv"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/bogdanfinn/tls-client/bandwidth"
)

// MockResponseBody is a ReadCloser that simulates reading response data.
// When FailWith is set it is returned once data is exhausted instead of io.EOF.
type MockResponseBody struct {
	data     []byte
	pos      int
	FailWith error
	Closed   bool
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data, pos: 0}
}

// Read implements the io.Reader interface
func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		if m.FailWith != nil {
			return 0, m.FailWith
		}
		return 0, io.EOF
	}
	n = copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

// Close implements the io.Closer interface
func (m *MockResponseBody) Close() error {
	m.Closed = true
	return nil
}

// MockHttpClient is a mock implementation of tls_client.HttpClient for testing
type MockHttpClient struct {
	Response *fhttp.Response
	Err      error
	DoFunc   func(req *fhttp.Request) (*fhttp.Response, error)

	Requests   []*fhttp.Request
	Bodies     []string
	IdleClosed bool
}

func (m *MockHttpClient) GetCookies(u *url.URL) []*fhttp.Cookie           { return nil }
func (m *MockHttpClient) SetCookies(u *url.URL, cookies []*fhttp.Cookie)  {}
func (m *MockHttpClient) SetCookieJar(jar fhttp.CookieJar)                {}
func (m *MockHttpClient) GetCookieJar() fhttp.CookieJar                   { return nil }
func (m *MockHttpClient) SetProxy(proxyUrl string) error                  { return nil }
func (m *MockHttpClient) GetProxy() string                                { return "" }
func (m *MockHttpClient) SetFollowRedirect(followRedirect bool)           {}
func (m *MockHttpClient) GetFollowRedirect() bool                         { return false }
func (m *MockHttpClient) CloseIdleConnections()                           { m.IdleClosed = true }
func (m *MockHttpClient) GetBandwidthTracker() bandwidth.BandwidthTracker { return nil }

// Do implements the tls_client.HttpClient interface and records the request
func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.Requests = append(m.Requests, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.Bodies = append(m.Bodies, string(data))
	} else {
		m.Bodies = append(m.Bodies, "")
	}
	if m.DoFunc != nil {
		return m.DoFunc(req)
	}
	return m.Response, m.Err
}

func (m *MockHttpClient) Get(url string) (*fhttp.Response, error) {
	return m.Response, m.Err
}

func (m *MockHttpClient) Head(url string) (*fhttp.Response, error) {
	return m.Response, m.Err
}

func (m *MockHttpClient) Post(url, contentType string, body io.Reader) (*fhttp.Response, error) {
	return m.Response, m.Err
}

// NewMockHttpClient creates a new MockHttpClient with a canned response
func NewMockHttpClient(body []byte, statusCode int) *MockHttpClient {
	return &MockHttpClient{
		Response: newMockResponse(body, statusCode),
	}
}

// NewMockHttpClientWithError creates a new MockHttpClient that returns an error
func NewMockHttpClientWithError(err error) *MockHttpClient {
	return &MockHttpClient{
		Response: nil,
		Err:      err,
	}
}

func newMockResponse(body []byte, statusCode int) *fhttp.Response {
	return &fhttp.Response{
		StatusCode: statusCode,
		Body:       NewMockResponseBody(body),
		Header:     make(fhttp.Header),
	}
}

// sseBody renders chunks as an SSE body the way the backend frames them
func sseBody(chunks ...string) []byte {
	var out []byte
	for _, c := range chunks {
		out = append(out, []byte("data: "+c+"\r\n\r\n")...)
	}
	return out
}

// textChunk is a minimal streamed GenerateContentResponse
func textChunk(text string) string {
	return `{"candidates":[{"content":{"role":"model","parts":[{"text":` + strconv.Quote(text) + `}]}}]}`
}
