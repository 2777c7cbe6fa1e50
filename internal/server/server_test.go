package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	logs "github.com/danmuck/stagectl/internal/logging"
	"github.com/danmuck/stagectl/internal/stage"
	"github.com/danmuck/stagectl/internal/stage/pxe"
	"github.com/danmuck/stagectl/internal/stage/pxm"
	"github.com/danmuck/stagectl/internal/testutil/testlog"
)

func testStage(name string) *stage.Stage {
	m := &pxm.Map{Width: 3, Height: 2, Tiles: []byte{0, 1, 0, 1, 0, 1}}
	m.Attrib[1] = 0x41
	return &stage.Stage{
		Name: name,
		Map:  m,
		Entities: []pxe.Entity{
			{ID: pxe.BaseID, X: 16, Y: 16, Type: 5, EventNum: 200},
		},
	}
}

func serve(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	s.HTTPRouter().ServeHTTP(rr, req)
	return rr
}

func TestStageListAndSummary(t *testing.T) {
	testlog.Start(t)

	s := New("preview-a", nil, []*stage.Stage{testStage("cave01"), testStage("weed")})
	s.RegisterRoutes()

	rr := serve(t, s, http.MethodGet, "/stages")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var listing struct {
		Stages []string `json:"stages"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(listing.Stages) != 2 || listing.Stages[0] != "cave01" {
		t.Fatalf("unexpected stage listing: %#v", listing.Stages)
	}

	rr = serve(t, s, http.MethodGet, "/stages/cave01")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["width"] != float64(3) || body["height"] != float64(2) {
		t.Fatalf("unexpected summary: %#v", body)
	}
	if body["entities"] != float64(1) || body["attrib_defined"] != float64(1) {
		t.Fatalf("unexpected summary: %#v", body)
	}
	logs.Logf("server/http: GET /stages/cave01 status=%d", rr.Code)
}

func TestUnknownStageReturns404(t *testing.T) {
	s := New("preview-a", nil, []*stage.Stage{testStage("cave01")})
	s.RegisterRoutes()

	for _, path := range []string{"/stages/nope", "/stages/nope/entities"} {
		if rr := serve(t, s, http.MethodGet, path); rr.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rr.Code)
		}
	}
}

func TestStageEntitiesEndpoint(t *testing.T) {
	s := New("preview-a", nil, []*stage.Stage{testStage("cave01")})
	s.RegisterRoutes()

	rr := serve(t, s, http.MethodGet, "/stages/cave01/entities")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var body struct {
		Stage    string       `json:"stage"`
		Entities []pxe.Entity `json:"entities"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Stage != "cave01" || len(body.Entities) != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Entities[0].ID != pxe.BaseID || body.Entities[0].EventNum != 200 {
		t.Fatalf("entity fields mangled: %+v", body.Entities[0])
	}
}

func TestHealthAndReady(t *testing.T) {
	s := New("preview-a", nil, nil)
	s.RegisterRoutes()

	for _, path := range []string{"/health", "/ready"} {
		if rr := serve(t, s, http.MethodGet, path); rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rr.Code)
		}
	}
}
