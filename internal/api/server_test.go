package api

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docxmd/internal/config"
	"github.com/dgallion1/docxmd/internal/pipeline"
)

const testAPIKey = "test-key"

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

const expectedMarkdown = "# Summary\n" +
	"1. First point\n" +
	"2. Second point\n\n" +
	"> **[comment #4]** Bob (2024-06-01)\n" +
	"> **original**: Second point\n" +
	"> **comment**: Expand\n"

func sampleDocx(t *testing.T) []byte {
	t.Helper()
	parts := map[string]string{
		"word/document.xml": `<w:document ` + wordNS + `><w:body>
			<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Summary</w:t></w:r></w:p>
			<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:t>First point</w:t></w:r></w:p>
			<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr>
				<w:commentRangeStart w:id="4"/><w:r><w:t>Second point</w:t></w:r><w:commentRangeEnd w:id="4"/>
			</w:p>
		</w:body></w:document>`,
		"word/comments.xml": `<w:comments ` + wordNS + `>
			<w:comment w:id="4" w:author="Bob" w:date="2024-06-01T08:00:00Z"><w:p><w:r><w:t>Expand</w:t></w:r></w:p></w:comment>
		</w:comments>`,
		"word/numbering.xml": `<w:numbering ` + wordNS + `>
			<w:abstractNum w:abstractNumId="0"><w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="decimal"/></w:lvl></w:abstractNum>
			<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
		</w:numbering>`,
		"word/styles.xml": `<w:styles ` + wordNS + `>
			<w:style w:styleId="Heading1"><w:name w:val="heading 1"/></w:style>
		</w:styles>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(w, body); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type upload struct {
	field, filename string
	data            []byte
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(f.data); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	return req
}

func authedGet(path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	return req
}

func testConfig() config.Config {
	return config.Config{
		APIKey:         testAPIKey,
		WorkerCount:    2,
		MaxQueueSize:   8,
		MaxUploadBytes: 1 << 20,
		JobTTL:         time.Hour,
		ResultCacheTTL: time.Hour,
	}
}

// newTestServer returns a server; started controls whether workers run.
func newTestServer(t *testing.T, cfg config.Config, started bool) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(cfg, log)
	if started {
		orch.Start(t.Context())
		t.Cleanup(orch.Stop)
	}
	return NewServer(orch, log, cfg)
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, testConfig(), false)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}

func TestAuth(t *testing.T) {
	s := newTestServer(t, testConfig(), false)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/stats/convert", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without credentials, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stats/convert", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	if rec := serve(s, req); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a wrong key, got %d", rec.Code)
	}

	if rec := serve(s, authedGet("/api/stats/convert")); rec.Code != http.StatusOK {
		t.Errorf("expected 200 with the right key, got %d", rec.Code)
	}
}

func TestConvert_Markdown(t *testing.T) {
	s := newTestServer(t, testConfig(), false)
	data := sampleDocx(t)

	rec := serve(s, multipartRequest(t, "/api/convert", nil, upload{"file", "report.docx", data}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/markdown; charset=utf-8" {
		t.Errorf("unexpected content type %q", ct)
	}
	if rec.Body.String() != expectedMarkdown {
		t.Errorf("unexpected markdown:\n%s", rec.Body.String())
	}
	if rec.Header().Get("X-Docxmd-Cache") != "miss" {
		t.Errorf("expected cache miss on first conversion")
	}
	if rec.Header().Get("X-Docxmd-Doc-Id") != pipeline.DocID(data) {
		t.Errorf("unexpected doc id header %q", rec.Header().Get("X-Docxmd-Doc-Id"))
	}

	rec = serve(s, multipartRequest(t, "/api/convert", nil, upload{"file", "report.docx", data}))
	if rec.Header().Get("X-Docxmd-Cache") != "hit" {
		t.Errorf("expected cache hit on repeat conversion")
	}
}

func TestConvert_Options(t *testing.T) {
	s := newTestServer(t, testConfig(), false)
	rec := serve(s, multipartRequest(t, "/api/convert", map[string]string{"labels": "zh"}, upload{"file", "report.docx", sampleDocx(t)}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "> **[批注 #4]** Bob (2024-06-01)") {
		t.Errorf("expected Chinese labels:\n%s", rec.Body.String())
	}

	rec = serve(s, multipartRequest(t, "/api/convert", map[string]string{"ordinals": "hex"}, upload{"file", "report.docx", sampleDocx(t)}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown ordinals, got %d", rec.Code)
	}
}

func TestConvert_HTML(t *testing.T) {
	s := newTestServer(t, testConfig(), false)
	rec := serve(s, multipartRequest(t, "/api/convert", map[string]string{"format": "html"}, upload{"file", "report.docx", sampleDocx(t)}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("unexpected content type %q", ct)
	}
	for _, want := range []string{"<title>report</title>", "<h1>Summary</h1>", "<blockquote>"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("expected %q in page:\n%s", want, rec.Body.String())
		}
	}
}

func TestConvert_Errors(t *testing.T) {
	cfg := testConfig()
	s := newTestServer(t, cfg, false)

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"missing file", multipartRequest(t, "/api/convert", nil), http.StatusBadRequest},
		{"unsupported extension", multipartRequest(t, "/api/convert", nil, upload{"file", "notes.txt", []byte("hi")}), http.StatusBadRequest},
		{"unknown format", multipartRequest(t, "/api/convert", map[string]string{"format": "pdf"}, upload{"file", "a.docx", sampleDocx(t)}), http.StatusBadRequest},
		{"not a zip", multipartRequest(t, "/api/convert", nil, upload{"file", "a.docx", []byte("plain text")}), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		rec := serve(s, tt.req)
		if rec.Code != tt.status {
			t.Errorf("%s: expected %d, got %d: %s", tt.name, tt.status, rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("%s: expected JSON error, got %q", tt.name, ct)
		}
	}
}

func TestConvert_TooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUploadBytes = 64
	s := newTestServer(t, cfg, false)

	rec := serve(s, multipartRequest(t, "/api/convert", nil, upload{"file", "a.docx", sampleDocx(t)}))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBatchConvert(t *testing.T) {
	s := newTestServer(t, testConfig(), true)

	rec := serve(s, multipartRequest(t, "/api/convert/batch", nil,
		upload{"files", "report.docx", sampleDocx(t)},
		upload{"files", "notes.txt", []byte("x")},
	))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Jobs []map[string]any `json:"jobs"`
	}
	decodeJSON(t, rec, &resp)
	if len(resp.Jobs) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp.Jobs))
	}
	if resp.Jobs[1]["error"] == nil {
		t.Errorf("expected unsupported file to report an error, got %v", resp.Jobs[1])
	}
	jobID, _ := resp.Jobs[0]["job_id"].(string)
	if jobID == "" {
		t.Fatalf("expected a job id, got %v", resp.Jobs[0])
	}
	if resp.Jobs[0]["poll_url"] != "/api/jobs/"+jobID {
		t.Errorf("unexpected poll url %v", resp.Jobs[0]["poll_url"])
	}

	deadline := time.Now().Add(5 * time.Second)
	var snap pipeline.JobSnapshot
	for time.Now().Before(deadline) {
		rec := serve(s, authedGet("/api/jobs/"+jobID))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for job status, got %d", rec.Code)
		}
		decodeJSON(t, rec, &snap)
		if snap.Status.Done() {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if snap.Status != pipeline.StatusCompleted {
		t.Fatalf("expected completed, got %q (%s)", snap.Status, snap.Error)
	}

	rec = serve(s, authedGet("/api/jobs/"+jobID+"/result"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for result, got %d", rec.Code)
	}
	if rec.Body.String() != expectedMarkdown {
		t.Errorf("expected batch result to match synchronous conversion:\n%s", rec.Body.String())
	}
}

func TestJobEndpoints_PendingAndMissing(t *testing.T) {
	s := newTestServer(t, testConfig(), false)

	rec := serve(s, multipartRequest(t, "/api/convert/batch", nil, upload{"files", "report.docx", sampleDocx(t)}))
	var resp struct {
		Jobs []map[string]any `json:"jobs"`
	}
	decodeJSON(t, rec, &resp)
	jobID, _ := resp.Jobs[0]["job_id"].(string)

	if rec := serve(s, authedGet("/api/jobs/"+jobID+"/result")); rec.Code != http.StatusConflict {
		t.Errorf("expected 409 while queued, got %d", rec.Code)
	}
	if rec := serve(s, authedGet("/api/jobs/nope")); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown job, got %d", rec.Code)
	}
	if rec := serve(s, authedGet("/api/jobs/nope/result")); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown job result, got %d", rec.Code)
	}
}

func TestConvertStats(t *testing.T) {
	s := newTestServer(t, testConfig(), false)
	serve(s, multipartRequest(t, "/api/convert", nil, upload{"file", "report.docx", sampleDocx(t)}))

	rec := serve(s, authedGet("/api/stats/convert"))
	var resp struct {
		Stats         pipeline.StatsSnapshot `json:"stats"`
		QueueDepth    int                    `json:"queue_depth"`
		CachedResults int                    `json:"cached_results"`
	}
	decodeJSON(t, rec, &resp)
	if resp.Stats.Count != 1 || resp.CachedResults != 1 || resp.QueueDepth != 0 {
		t.Errorf("unexpected stats %+v", resp)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"report.docx", "report.docx"},
		{"../../etc/passwd.docx", "passwd.docx"},
		{`C:\Users\a\b.docx`, "C:_Users_a_b.docx"},
		{"", "unnamed"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
