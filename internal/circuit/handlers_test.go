package circuit

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"circuit-calculator/internal/observability"
	"circuit-calculator/internal/testutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	observability.Logger = zap.NewNop()
	if err := InitMetrics(); err != nil {
		t.Fatalf("initializing metrics: %v", err)
	}

	r := chi.NewRouter()
	r.Use(observability.RequestIDMiddleware)
	RegisterRoutes(r)
	return r
}

func TestSolveSeries(t *testing.T) {
	router := newTestRouter(t)

	w := testutil.PostJSON(router, "/circuit/solve", `{"topology":"series","source_voltage":12,"resistances":[100,200]}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp SolveResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)

	if resp.Topology != "series" {
		t.Fatalf("expected topology series, got %q", resp.Topology)
	}
	if resp.TotalResistance != 300 {
		t.Fatalf("expected total resistance 300, got %v", resp.TotalResistance)
	}
	if resp.TotalCurrent != 12.0/300.0 {
		t.Fatalf("expected total current %v, got %v", 12.0/300.0, resp.TotalCurrent)
	}
	if len(resp.Components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(resp.Components))
	}
	if resp.Components[0].Index != 1 || resp.Components[1].Index != 2 {
		t.Fatalf("expected 1-based indexes, got %d and %d", resp.Components[0].Index, resp.Components[1].Index)
	}
	if resp.Display.TotalResistance != "300.0 Ω" {
		t.Fatalf("unexpected total resistance display %q", resp.Display.TotalResistance)
	}
	if resp.Display.TotalCurrent != "40.00 mA" {
		t.Fatalf("unexpected total current display %q", resp.Display.TotalCurrent)
	}
	if resp.Components[0].Display.Voltage != "4.000 V" {
		t.Fatalf("unexpected R1 voltage display %q", resp.Components[0].Display.Voltage)
	}
}

func TestSolveParallelAcceptsFormText(t *testing.T) {
	router := newTestRouter(t)

	w := testutil.PostJSON(router, "/circuit/solve", `{"topology":"Paralelo","source_voltage":" 10 ","resistances":["10","1e1"]}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp SolveResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)

	if resp.Topology != "parallel" {
		t.Fatalf("expected topology parallel, got %q", resp.Topology)
	}
	if resp.TotalResistance != 5 || resp.TotalCurrent != 2 {
		t.Fatalf("expected RT=5 and IT=2, got RT=%v IT=%v", resp.TotalResistance, resp.TotalCurrent)
	}
	for _, c := range resp.Components {
		if c.Voltage != 10 || c.Current != 1 {
			t.Fatalf("R%d: expected V=10 I=1, got V=%v I=%v", c.Index, c.Voltage, c.Current)
		}
	}
}

func TestSolveRejectsCircuit(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name      string
		body      string
		wantCode  string
		wantIndex int
	}{
		{
			name:     "unknown topology",
			body:     `{"topology":"mesh","source_voltage":12,"resistances":[100]}`,
			wantCode: "invalid_topology",
		},
		{
			name:     "numeric topology",
			body:     `{"topology":5,"source_voltage":12,"resistances":[100]}`,
			wantCode: "invalid_topology",
		},
		{
			name:     "null topology",
			body:     `{"topology":null,"source_voltage":12,"resistances":[100]}`,
			wantCode: "invalid_topology",
		},
		{
			name:     "missing resistances",
			body:     `{"topology":"series","source_voltage":12}`,
			wantCode: "empty_resistance_list",
		},
		{
			name:     "resistances not an array",
			body:     `{"topology":"series","source_voltage":12,"resistances":"100,200"}`,
			wantCode: "empty_resistance_list",
		},
		{
			name:     "eleven resistors",
			body:     `{"topology":"series","source_voltage":12,"resistances":[1,1,1,1,1,1,1,1,1,1,1]}`,
			wantCode: "too_many_components",
		},
		{
			name:      "resistance below minimum",
			body:      `{"topology":"series","source_voltage":12,"resistances":[100,0.001,0]}`,
			wantCode:  "invalid_resistance",
			wantIndex: 2,
		},
		{
			name:      "resistance with trailing garbage",
			body:      `{"topology":"parallel","source_voltage":12,"resistances":["12abc"]}`,
			wantCode:  "invalid_resistance",
			wantIndex: 1,
		},
		{
			name:     "zero voltage",
			body:     `{"topology":"series","source_voltage":0,"resistances":[100]}`,
			wantCode: "invalid_source_voltage",
		},
		{
			name:     "hex float voltage",
			body:     `{"topology":"series","source_voltage":"0x1p4","resistances":[100]}`,
			wantCode: "invalid_source_voltage",
		},
		{
			name:      "hex float resistance",
			body:      `{"topology":"series","source_voltage":12,"resistances":[100,"-0x10p0"]}`,
			wantCode:  "invalid_resistance",
			wantIndex: 2,
		},
		{
			name:     "boolean voltage",
			body:     `{"topology":"series","source_voltage":true,"resistances":[100]}`,
			wantCode: "invalid_source_voltage",
		},
		{
			name:     "overflowing total",
			body:     `{"topology":"series","source_voltage":1,"resistances":[1e308,1e308]}`,
			wantCode: "computation_error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := testutil.PostJSON(router, "/circuit/solve", tc.body)
			testutil.CheckResponseCode(t, http.StatusUnprocessableEntity, w.Code)

			var resp ErrorResponse
			testutil.DecodeJSONBody(t, w.Body, &resp)

			if resp.Code != tc.wantCode {
				t.Fatalf("expected code %q, got %q (%s)", tc.wantCode, resp.Code, resp.Error)
			}
			if resp.Index != tc.wantIndex {
				t.Fatalf("expected index %d, got %d", tc.wantIndex, resp.Index)
			}
			if resp.Error == "" {
				t.Fatal("expected a human-readable message")
			}
		})
	}
}

func TestSolveInvalidBody(t *testing.T) {
	router := newTestRouter(t)

	w := testutil.PostJSON(router, "/circuit/solve", `{"topology":`)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

	testutil.CheckErrorCode(t, w.Body, "invalid_request_body")
}

func TestSolveBodyTooLarge(t *testing.T) {
	observability.Logger = zap.NewNop()
	if err := InitMetrics(); err != nil {
		t.Fatalf("initializing metrics: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestSize(16))
	RegisterRoutes(r)

	w := testutil.PostJSON(r, "/circuit/solve", `{"topology":"series","source_voltage":12,"resistances":[100,200]}`)
	testutil.CheckResponseCode(t, http.StatusRequestEntityTooLarge, w.Code)

	testutil.CheckErrorCode(t, w.Body, "body_too_large")
}

func TestBatch(t *testing.T) {
	router := newTestRouter(t)

	body := `{"circuits":[
		{"topology":"series","source_voltage":12,"resistances":[100,200]},
		{"topology":"parallel","source_voltage":12,"resistances":[100,0]},
		{"topology":"parallel","source_voltage":10,"resistances":[10,10]}
	]}`

	w := testutil.PostJSON(router, "/circuit/batch", body)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp BatchResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)

	if resp.Succeeded != 2 || resp.Failed != 1 {
		t.Fatalf("expected 2 succeeded and 1 failed, got %d and %d", resp.Succeeded, resp.Failed)
	}
	if len(resp.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(resp.Items))
	}

	for i, item := range resp.Items {
		if item.Index != i {
			t.Fatalf("item %d: unexpected index %d", i, item.Index)
		}
	}

	if resp.Items[0].Result == nil || resp.Items[0].Error != nil {
		t.Fatalf("item 0: expected result only, got %+v", resp.Items[0])
	}
	if resp.Items[1].Error == nil || resp.Items[1].Result != nil {
		t.Fatalf("item 1: expected error only, got %+v", resp.Items[1])
	}
	if resp.Items[1].Error.Code != "invalid_resistance" || resp.Items[1].Error.Index != 2 {
		t.Fatalf("item 1: expected invalid_resistance at R2, got %+v", resp.Items[1].Error)
	}
	if resp.Items[2].Result == nil || resp.Items[2].Result.TotalResistance != 5 {
		t.Fatalf("item 2: expected RT=5, got %+v", resp.Items[2])
	}
}

func TestBatchSizeLimits(t *testing.T) {
	router := newTestRouter(t)

	circuit := `{"topology":"series","source_voltage":1,"resistances":[1]}`
	tooMany := `{"circuits":[` + strings.TrimSuffix(strings.Repeat(circuit+",", MaxBatchSize+1), ",") + `]}`
	atLimit := `{"circuits":[` + strings.TrimSuffix(strings.Repeat(circuit+",", MaxBatchSize), ",") + `]}`

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "empty", body: `{"circuits":[]}`, status: http.StatusBadRequest},
		{name: "missing", body: `{}`, status: http.StatusBadRequest},
		{name: "over limit", body: tooMany, status: http.StatusBadRequest},
		{name: "at limit", body: atLimit, status: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := testutil.PostJSON(router, "/circuit/batch", tc.body)
			testutil.CheckResponseCode(t, tc.status, w.Code)

			if tc.status == http.StatusBadRequest {
				testutil.CheckErrorCode(t, w.Body, "invalid_batch_size")
			}
		})
	}
}

func TestValidateAggregatesFieldErrors(t *testing.T) {
	router := newTestRouter(t)

	w := testutil.PostJSON(router, "/circuit/validate", `{"topology":"triangle","source_voltage":"-1","resistances":[1,"x",0.001]}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp ValidateResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)

	if resp.Valid {
		t.Fatal("expected valid=false")
	}

	want := []struct{ field, code string }{
		{"topology", "invalid_topology"},
		{"resistances[2]", "invalid_resistance"},
		{"resistances[3]", "invalid_resistance"},
		{"source_voltage", "invalid_source_voltage"},
	}
	if len(resp.Errors) != len(want) {
		t.Fatalf("expected %d field errors, got %+v", len(want), resp.Errors)
	}
	for i, fe := range resp.Errors {
		if fe.Field != want[i].field || fe.Code != want[i].code {
			t.Fatalf("error %d: expected %s/%s, got %s/%s", i, want[i].field, want[i].code, fe.Field, fe.Code)
		}
	}
}

func TestValidateCountErrors(t *testing.T) {
	router := newTestRouter(t)

	w := testutil.PostJSON(router, "/circuit/validate", `{"topology":"series","source_voltage":5,"resistances":[]}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp ValidateResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)

	if resp.Valid || len(resp.Errors) != 1 || resp.Errors[0].Field != "resistances" {
		t.Fatalf("expected a single resistances error, got %+v", resp)
	}
	if resp.Errors[0].Code != "empty_resistance_list" {
		t.Fatalf("expected empty_resistance_list, got %q", resp.Errors[0].Code)
	}
}

func TestValidateValidCircuit(t *testing.T) {
	router := newTestRouter(t)

	w := testutil.PostJSON(router, "/circuit/validate", `{"topology":"series","source_voltage":5,"resistances":[0.01,10]}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	if body := w.Body.String(); !strings.Contains(body, `"errors":[]`) {
		t.Fatalf("expected an empty errors array, got %s", body)
	}
}

func TestSchematic(t *testing.T) {
	router := newTestRouter(t)

	body := `{"topology":"series","source_voltage":12,"resistances":[100,200]}`

	t.Run("svg by default", func(t *testing.T) {
		w := testutil.PostJSON(router, "/circuit/schematic", body)
		testutil.CheckResponseCode(t, http.StatusOK, w.Code)

		if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
			t.Fatalf("expected image/svg+xml, got %q", ct)
		}
		if cd := w.Header().Get("Content-Disposition"); cd != "" {
			t.Fatalf("did not expect Content-Disposition for SVG, got %q", cd)
		}
		if !strings.Contains(w.Body.String(), "<svg") {
			t.Fatal("expected an SVG document")
		}
	})

	t.Run("png attachment", func(t *testing.T) {
		w := testutil.PostJSON(router, "/circuit/schematic?format=png", body)
		testutil.CheckResponseCode(t, http.StatusOK, w.Code)

		if ct := w.Header().Get("Content-Type"); ct != "image/png" {
			t.Fatalf("expected image/png, got %q", ct)
		}
		if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="schematic_series.png"` {
			t.Fatalf("unexpected Content-Disposition %q", cd)
		}
		if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
			t.Fatal("expected a PNG signature")
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		w := testutil.PostJSON(router, "/circuit/schematic?format=gif", body)
		testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

		testutil.CheckErrorCode(t, w.Body, "invalid_format")
	})

	t.Run("rejected circuit", func(t *testing.T) {
		w := testutil.PostJSON(router, "/circuit/schematic", `{"topology":"series","source_voltage":-3,"resistances":[100]}`)
		testutil.CheckResponseCode(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestLimits(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/circuit/limits", nil)
	w := testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp LimitsResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)

	if resp.MaxComponents != 10 || resp.MinResistance != 0.01 {
		t.Fatalf("unexpected limits %+v", resp)
	}
	if len(resp.Topologies) != 2 || resp.Topologies[0] != "series" || resp.Topologies[1] != "parallel" {
		t.Fatalf("unexpected topologies %v", resp.Topologies)
	}
}

// failingWriter accepts headers but fails every body write.
type failingWriter struct {
	*httptest.ResponseRecorder
}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestSchematicLogsFailedWrite(t *testing.T) {
	router := newTestRouter(t)

	core, logs := observer.New(zap.WarnLevel)
	observability.Logger = zap.New(core)
	t.Cleanup(func() { observability.Logger = zap.NewNop() })

	req := httptest.NewRequest(http.MethodPost, "/circuit/schematic",
		strings.NewReader(`{"topology":"parallel","source_voltage":5,"resistances":[10,20]}`))
	w := failingWriter{httptest.NewRecorder()}
	router.ServeHTTP(w, req)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	entries := logs.FilterMessage("writing schematic failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 write failure log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["format"] != "svg" {
		t.Fatalf("expected format svg, got %#v", fields["format"])
	}
	if fields["error"] != "connection reset" {
		t.Fatalf("expected error field, got %#v", fields["error"])
	}
}
