package kernel

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const cannedVectorTable = `*******************************************************************************
Target body name: Earth (399)                     {source: DE441}
Center body name: Solar System Barycenter (0)     {source: DE441}
Output units    : AU-D
*******************************************************************************
$$SOE
2460000.500000000 = A.D. 2023-Feb-25 00:00:00.0000 TDB
 -9.123456789012345E-01  3.876543210987654E-01  1.680123456789012E-01
 -7.123456789012345E-03 -1.456789012345678E-02 -6.312345678901234E-03
2460001.500000000 = A.D. 2023-Feb-26 00:00:00.0000 TDB
 -9.193456789012345E-01  3.730543210987654E-01  1.617123456789012E-01
 -6.923456789012345E-03 -1.466789012345678E-02 -6.352345678901234E-03
$$EOE
*******************************************************************************
`

func TestParseVectorTable(t *testing.T) {
	samples, err := parseVectorTable(cannedVectorTable)
	if err != nil {
		t.Fatalf("parseVectorTable() error = %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("len(samples) = %d, want 2", len(samples))
	}
	if samples[0].TDB != 2460000.5 || samples[1].TDB != 2460001.5 {
		t.Errorf("epochs = %v, %v, want 2460000.5, 2460001.5", samples[0].TDB, samples[1].TDB)
	}
	if got := samples[0].Pos.X; math.Abs(got-(-0.9123456789012345)) > 1e-15 {
		t.Errorf("Pos.X = %v, want -0.9123456789012345", got)
	}
	if got := samples[0].Vel.Z; math.Abs(got-(-6.312345678901234e-03)) > 1e-18 {
		t.Errorf("Vel.Z = %v, want -6.312345678901234e-03", got)
	}
	if got := samples[1].Vel.Y; math.Abs(got-(-1.466789012345678e-02)) > 1e-17 {
		t.Errorf("second Vel.Y = %v, want -1.466789012345678e-02", got)
	}
}

func TestParseVectorTableErrors(t *testing.T) {
	tests := []struct {
		name   string
		result string
	}{
		{"no markers", "no ephemeris here"},
		{"end before start", "$$EOE\ndata\n$$SOE"},
		{"empty block", "$$SOE\n$$EOE"},
		{"truncated record", "$$SOE\n2460000.5 = A.D. 2023-Feb-25 00:00:00.0000 TDB\n 1.0 2.0 3.0\n$$EOE"},
		{"bad component", "$$SOE\n2460000.5 = A.D. 2023-Feb-25 00:00:00.0000 TDB\n 1.0 two 3.0\n 0.1 0.2 0.3\n$$EOE"},
		{"wrong component count", "$$SOE\n2460000.5 = A.D. 2023-Feb-25 00:00:00.0000 TDB\n 1.0 2.0\n 0.1 0.2 0.3\n$$EOE"},
		{"epoch inside record", "$$SOE\n2460000.5 = A.D. 2023-Feb-25 00:00:00.0000 TDB\n 1.0 2.0 3.0\n2460001.5 = A.D. 2023-Feb-26 00:00:00.0000 TDB\n 0.1 0.2 0.3\n 0.4 0.5 0.6\n$$EOE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseVectorTable(tt.result); err == nil {
				t.Errorf("parseVectorTable(%q) expected error", tt.name)
			}
		})
	}
}

func TestStateVectorsViaLocalServer(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		var resp horizonsResponse
		resp.Signature.Version = "1.2"
		resp.Signature.Source = "NASA/JPL Horizons API"
		resp.Result = cannedVectorTable
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewHorizonsClient(server.URL, 5*time.Second)
	samples, err := client.StateVectors(context.Background(), NAIFEarth, []float64{2460000.5, 2460001.5})
	if err != nil {
		t.Fatalf("StateVectors() error = %v", err)
	}
	if len(samples) != 2 {
		t.Errorf("len(samples) = %d, want 2", len(samples))
	}

	if got := gotQuery["COMMAND"]; got != "'399'" {
		t.Errorf("COMMAND = %q, want %q", got, "'399'")
	}
	if got := gotQuery["CENTER"]; got != "'500@0'" {
		t.Errorf("CENTER = %q, want %q", got, "'500@0'")
	}
	if got := gotQuery["TLIST"]; !strings.Contains(got, "2460000.500000000 2460001.500000000") {
		t.Errorf("TLIST = %q, want both epochs space-joined", got)
	}
	if got := gotQuery["EPHEM_TYPE"]; got != "'VECTORS'" {
		t.Errorf("EPHEM_TYPE = %q, want %q", got, "'VECTORS'")
	}
}

func TestStateVectorsServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(horizonsResponse{Error: "Cannot interpret agency spacecraft request"})
	}))
	defer server.Close()

	client := NewHorizonsClient(server.URL, 5*time.Second)
	if _, err := client.StateVectors(context.Background(), NAIFEarth, []float64{2460000.5}); err == nil {
		t.Error("expected error from service-reported failure")
	}
}

func TestStateVectorsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewHorizonsClient(server.URL, 5*time.Second)
	if _, err := client.StateVectors(context.Background(), NAIFEarth, []float64{2460000.5}); err == nil {
		t.Error("expected error from HTTP 503")
	}
}

func TestStateVectorsRejectsEmptyEpochs(t *testing.T) {
	client := NewHorizonsClient("", 0)
	if _, err := client.StateVectors(context.Background(), NAIFEarth, nil); err == nil {
		t.Error("expected error for empty epoch list")
	}
}

func TestStateVectorsLiveService(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	client := NewHorizonsClient("", 0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	samples, err := client.StateVectors(ctx, NAIFEarth, []float64{2460000.5, 2460001.5})
	if err != nil {
		t.Skipf("horizons unreachable: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("len(samples) = %d, want 2", len(samples))
	}
	for _, s := range samples {
		r := s.Pos.Norm()
		if r < 0.95 || r > 1.05 {
			t.Errorf("Earth barycentric distance = %v AU, want near 1", r)
		}
		speed := s.Vel.Norm()
		if speed < 0.015 || speed > 0.020 {
			t.Errorf("Earth speed = %v AU/day, want near 0.0172", speed)
		}
	}
}
