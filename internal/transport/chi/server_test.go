package chi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/searchbridge/searchbridge"
	"github.com/searchbridge/searchbridge/capability"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	providers := make(map[string]*searchbridge.Provider)
	for _, name := range searchbridge.Providers() {
		p, err := searchbridge.NewProvider(name)
		if err != nil {
			t.Fatalf("NewProvider(%q): %v", name, err)
		}
		providers[name] = p
	}

	srv := NewServer(providers, zap.NewNop())
	r := chi.NewRouter()
	srv.Routes(r)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	rr := doJSON(t, newTestRouter(t), "GET", "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestListProviders(t *testing.T) {
	rr := doJSON(t, newTestRouter(t), "GET", "/v1/providers", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp map[string][]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp["providers"]) != 5 {
		t.Errorf("providers = %v, want five", resp["providers"])
	}
}

func TestGetCapabilities(t *testing.T) {
	rr := doJSON(t, newTestRouter(t), "GET", "/v1/providers/algolia/capabilities", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var matrix capability.Matrix
	if err := json.NewDecoder(rr.Body).Decode(&matrix); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if matrix.ProviderName != "algolia" {
		t.Errorf("provider = %q, want algolia", matrix.ProviderName)
	}
	if matrix.Advanced.TypoTolerance != capability.Native {
		t.Errorf("typo tolerance = %v, want native", matrix.Advanced.TypoTolerance)
	}
}

func TestGetCapabilities_UnknownProvider(t *testing.T) {
	rr := doJSON(t, newTestRouter(t), "GET", "/v1/providers/solr/capabilities", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Code != codeProviderNotFound {
		t.Errorf("code = %q, want %q", errResp.Code, codeProviderNotFound)
	}
}

func TestCheckQuery_FullySupported(t *testing.T) {
	q := "shoes"
	body := queryRequest{Q: &q, Facets: []string{"brand"}}

	rr := doJSON(t, newTestRouter(t), "POST", "/v1/providers/typesense/check", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var report struct {
		FullySupported   bool `json:"is_fully_supported"`
		RequiresFallback bool `json:"requires_fallback"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !report.FullySupported || report.RequiresFallback {
		t.Errorf("report = %+v, typesense facets are native", report)
	}
}

func TestCheckQuery_PerformanceLimit(t *testing.T) {
	q := strings.Repeat("a", 600)
	body := queryRequest{Q: &q}

	// Algolia caps queries at 512 bytes.
	rr := doJSON(t, newTestRouter(t), "POST", "/v1/providers/algolia/check", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var report struct {
		FullySupported bool `json:"is_fully_supported"`
		Issues         []struct {
			Kind      string `json:"kind"`
			Parameter string `json:"parameter"`
			Requested string `json:"requested"`
			Limit     string `json:"limit"`
		} `json:"issues"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.FullySupported {
		t.Fatal("600-byte query against a 512-byte limit should not be fully supported")
	}
	if len(report.Issues) != 1 || report.Issues[0].Kind != "performance_limit" {
		t.Fatalf("issues = %+v", report.Issues)
	}
	if report.Issues[0].Parameter != "query_length" ||
		report.Issues[0].Requested != "600" || report.Issues[0].Limit != "512" {
		t.Errorf("issue = %+v", report.Issues[0])
	}
}

func TestCheckQuery_InvalidBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("POST", "/v1/providers/algolia/check", strings.NewReader("{broken"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestCheckQuery_InvalidQuery(t *testing.T) {
	q := "x"
	body := queryRequest{Q: &q, Filters: []string{"   "}}

	rr := doJSON(t, newTestRouter(t), "POST", "/v1/providers/algolia/check", body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rr.Code, rr.Body.String())
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Code != codeValidationFailed {
		t.Errorf("code = %q, want %q", errResp.Code, codeValidationFailed)
	}
}

func TestProcessResults_FillsDefaults(t *testing.T) {
	q := "lamp"
	content := `{"room": "kitchen"}`
	body := processRequest{
		Query: queryRequest{Q: &q},
		Results: resultsPayload{
			Hits: []hitPayload{{ID: "1", Content: &content}},
		},
	}

	rr := doJSON(t, newTestRouter(t), "POST", "/v1/providers/meilisearch/process", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var resp resultsPayload
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total == nil || *resp.Total != 1 {
		t.Errorf("total = %v, want 1", resp.Total)
	}
	if resp.TookMS == nil || *resp.TookMS != 0 {
		t.Errorf("took_ms = %v, want 0", resp.TookMS)
	}
	if len(resp.Hits) != 1 || resp.Hits[0].ID != "1" {
		t.Errorf("hits = %+v", resp.Hits)
	}
}

func TestProcessResults_UnknownProvider(t *testing.T) {
	q := "x"
	body := processRequest{Query: queryRequest{Q: &q}}

	rr := doJSON(t, newTestRouter(t), "POST", "/v1/providers/sphinx/process", body)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}
