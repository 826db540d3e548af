package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sliderx/slidepdf/config"
	"github.com/sliderx/slidepdf/internal/pdftest"
	"github.com/sliderx/slidepdf/slides"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig() config.Config {
	return config.Config{
		Addr:            "127.0.0.1:0",
		LogLevel:        "debug",
		MaxBodyBytes:    1 << 20,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: time.Second,
	}
}

const scenarioBody = `{
  "projectId": "demo-1",
  "slide1": {"title": "THE PROBLEM", "visual": "Icon showing confused business owner looking at complex dashboard",
             "sentence": "Small businesses waste hours trying to understand their data instead of growing their business."},
  "slide2": {"title": "THE SOLUTION", "visual": "Clean dashboard with AI assistant icon providing insights",
             "sentence": "Our AI translates complex data into plain English insights and actionable recommendations."},
  "slide3": {"title": "THE ASK", "visual": "Growth chart with funding milestone marker",
             "sentence": "We're raising $500K to bring accessible AI analytics to 5,000 small businesses."}
}`

type fixture struct {
	server   *Server
	spans    *tracetest.SpanRecorder
	logs     *observer.ObservedLogs
	provider *sdktrace.TracerProvider
}

func newFixture(t *testing.T, cfg config.Config, opts ...Option) *fixture {
	t.Helper()
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	core, logs := observer.New(zap.DebugLevel)
	opts = append([]Option{WithTracerProvider(tp)}, opts...)
	return &fixture{
		server:   New(cfg, zap.New(core), opts...),
		spans:    spans,
		logs:     logs,
		provider: tp,
	}
}

func (f *fixture) do(method, path, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Detail
}

func TestHealth(t *testing.T) {
	f := newFixture(t, testConfig())
	rec := f.do(http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`{"status":"healthy","service":"SlideRx PDF Services","endpoints":{"extract":"/extract-text","generate":"/generate-pdf"}}`,
		rec.Body.String())
}

func TestGeneratePDF(t *testing.T) {
	f := newFixture(t, testConfig())
	rec := f.do(http.MethodPost, "/generate-pdf", scenarioBody, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="SlideRx_demo-1_Condensed.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, fmt.Sprint(rec.Body.Len()), rec.Header().Get("Content-Length"))

	doc, err := pdftest.Parse(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, doc.Pages, 3)
	for i, page := range doc.Pages {
		text := page.Text()
		require.NotEmpty(t, text)
		assert.Equal(t, fmt.Sprintf("Slide %d of 3", i+1), text[len(text)-1])
	}
	assert.Equal(t, "THE ASK", doc.Pages[2].Text()[0])

	req, err := slides.DecodeJSON(strings.NewReader(scenarioBody))
	require.NoError(t, err)
	want, err := slides.Render(req.Deck)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(want.Bytes(), rec.Body.Bytes()), "HTTP output differs from library output")
}

func TestGeneratePDFSpan(t *testing.T) {
	f := newFixture(t, testConfig())
	rec := f.do(http.MethodPost, "/generate-pdf", scenarioBody, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var render sdktrace.ReadOnlySpan
	for _, s := range f.spans.Ended() {
		if s.Name() == "slides.render" {
			render = s
		}
	}
	require.NotNil(t, render, "slides.render span not recorded")

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range render.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "demo-1", attrs["sliderx.project_id"].AsString())
	assert.Equal(t, int64(3), attrs["sliderx.pages"].AsInt64())
	assert.Equal(t, int64(2), attrs["sliderx.warnings"].AsInt64())
	assert.True(t, render.Parent().IsValid(), "render span should be a child of the HTTP span")
}

func TestGeneratePDFShapeErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		mention string
	}{
		{"empty body", "", "invalid deck"},
		{"malformed", "{", "invalid deck"},
		{"missing slide", `{"projectId": "x", "slide1": {"title": "", "visual": "", "sentence": ""}}`, "slide2"},
		{"missing field", strings.Replace(scenarioBody, `"visual": "Clean dashboard with AI assistant icon providing insights",`, "", 1), "slide2.visual"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, testConfig())
			rec := f.do(http.MethodPost, "/generate-pdf", tt.body, nil)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, decodeDetail(t, rec), tt.mention)
		})
	}
}

func TestGeneratePDFRenderFailure(t *testing.T) {
	f := newFixture(t, testConfig())
	body := strings.Replace(scenarioBody, `"THE ASK"`, `"要求"`, 1)
	rec := f.do(http.MethodPost, "/generate-pdf", body, nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	detail := decodeDetail(t, rec)
	assert.True(t, strings.HasPrefix(detail, "PDF generation failed: "), detail)
	assert.Contains(t, detail, "unsupported glyph")

	var failed sdktrace.ReadOnlySpan
	for _, s := range f.spans.Ended() {
		if s.Name() == "slides.render" {
			failed = s
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, codes.Error, failed.Status().Code)

	assert.Equal(t, 1, f.logs.FilterMessage("PDF generation failed").Len())
}

func TestGeneratePDFBodyLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBodyBytes = 64
	f := newFixture(t, cfg)

	rec := f.do(http.MethodPost, "/generate-pdf", scenarioBody, nil)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, decodeDetail(t, rec), "64 bytes")
}

// upload builds a multipart body with data in the given field.
func upload(t *testing.T, field string, data []byte) (string, http.Header) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, "deck.pdf")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf.String(), http.Header{"Content-Type": {mw.FormDataContentType()}}
}

func TestExtractText(t *testing.T) {
	req, err := slides.DecodeJSON(strings.NewReader(scenarioBody))
	require.NoError(t, err)
	doc, err := slides.Render(req.Deck)
	require.NoError(t, err)

	f := newFixture(t, testConfig())
	body, header := upload(t, "file", doc.Bytes())
	rec := f.do(http.MethodPost, "/extract-text", body, header)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp extractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Equal(t, 3, resp.PageCount)
	require.Len(t, resp.Slides, 3)

	contents := []slides.SlideContent{req.Deck.Problem, req.Deck.Solution, req.Deck.Ask}
	texts := make([]string, 3)
	for i, c := range contents {
		want := strings.Join([]string{
			c.Title, "VISUAL:", c.Visual, c.Sentence, fmt.Sprintf("Slide %d of 3", i+1),
		}, "\n\n")
		assert.Equal(t, i+1, resp.Slides[i].Number)
		assert.Equal(t, want, resp.Slides[i].Text)
		texts[i] = want
	}
	assert.Equal(t, strings.Join(texts, "\n\n"), resp.FullText)

	var extract sdktrace.ReadOnlySpan
	for _, s := range f.spans.Ended() {
		if s.Name() == "pdf.extract" {
			extract = s
		}
	}
	require.NotNil(t, extract, "pdf.extract span not recorded")
}

func TestExtractTextErrors(t *testing.T) {
	f := newFixture(t, testConfig())

	body, header := upload(t, "file", []byte("this is not a pdf"))
	rec := f.do(http.MethodPost, "/extract-text", body, header)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "PDF extraction failed: not a PDF file", decodeDetail(t, rec))
	assert.Equal(t, 1, f.logs.FilterMessage("PDF extraction failed").Len())

	rec = f.do(http.MethodPost, "/extract-text", "plain body", http.Header{"Content-Type": {"text/plain"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.HasPrefix(decodeDetail(t, rec), "PDF extraction failed: "))

	body, header = upload(t, "other", []byte("%PDF-1.4"))
	rec = f.do(http.MethodPost, "/extract-text", body, header)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "file: field required", decodeDetail(t, rec))
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t, testConfig())
	assert.Equal(t, http.StatusMethodNotAllowed, f.do(http.MethodGet, "/generate-pdf", "", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, f.do(http.MethodPost, "/health", "", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, f.do(http.MethodGet, "/extract-text", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/nope", "", nil).Code)
}

func TestRequestID(t *testing.T) {
	f := newFixture(t, testConfig())

	rec := f.do(http.MethodGet, "/health", "", nil)
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)

	rec = f.do(http.MethodGet, "/health", "", http.Header{RequestIDHeader: {"client-id-1"}})
	assert.Equal(t, "client-id-1", rec.Header().Get(RequestIDHeader))

	rec = f.do(http.MethodGet, "/health", "", http.Header{RequestIDHeader: {strings.Repeat("x", 500)}})
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestRequestLogging(t *testing.T) {
	f := newFixture(t, testConfig())
	f.do(http.MethodGet, "/health", "", http.Header{RequestIDHeader: {"log-me"}})

	entries := f.logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/health", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "log-me", fields["request_id"])
}

func TestOverflowWarningsLogged(t *testing.T) {
	f := newFixture(t, testConfig())
	rec := f.do(http.MethodPost, "/generate-pdf", scenarioBody, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The first two sentences are wider than the page.
	assert.Equal(t, 2, f.logs.FilterMessage("layout overflow").Len())
}

func TestServeShutdown(t *testing.T) {
	f := newFixture(t, testConfig())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.server.Serve(ctx, ln) }()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post("http://"+ln.Addr().String()+"/generate-pdf", "application/json", strings.NewReader(scenarioBody))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-1.4")))
	client.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestListenAndServeBadAddr(t *testing.T) {
	cfg := testConfig()
	cfg.Addr = "256.0.0.1:-1"
	f := newFixture(t, cfg)

	err := f.server.ListenAndServe(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
}
