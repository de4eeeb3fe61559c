package kernel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
)

// DefaultHorizonsURL is the JPL Horizons API endpoint.
const DefaultHorizonsURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

// DefaultHorizonsTimeout bounds a single Horizons request.
const DefaultHorizonsTimeout = 30 * time.Second

// HorizonsClient fetches barycentric state vectors from the JPL
// Horizons system.
type HorizonsClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHorizonsClient creates a client. An empty baseURL selects the
// public JPL endpoint; a zero timeout selects the default.
func NewHorizonsClient(baseURL string, timeout time.Duration) *HorizonsClient {
	if baseURL == "" {
		baseURL = DefaultHorizonsURL
	}
	if timeout <= 0 {
		timeout = DefaultHorizonsTimeout
	}
	return &HorizonsClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// StateSample is one epoch of a Horizons vector table: barycentric
// position in AU and velocity in AU/day, ICRF axes, at a TDB Julian
// date.
type StateSample struct {
	TDB float64
	Pos astro.Vec3
	Vel astro.Vec3
}

// horizonsResponse is the JSON envelope around the classic text
// report.
type horizonsResponse struct {
	Signature struct {
		Version string `json:"version"`
		Source  string `json:"source"`
	} `json:"signature"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

// StateVectors queries barycentric states for one body at the given
// TDB Julian dates. Epochs go up as a TLIST, so callers control the
// exact sampling, which the arc fitter depends on.
func (c *HorizonsClient) StateVectors(ctx context.Context, id ephem.BodyID, epochs []float64) ([]StateSample, error) {
	if len(epochs) == 0 {
		return nil, fmt.Errorf("horizons query for body %d: no epochs", id)
	}

	jds := make([]string, len(epochs))
	for i, jd := range epochs {
		jds[i] = strconv.FormatFloat(jd, 'f', 9, 64)
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("COMMAND", fmt.Sprintf("'%d'", id))
	params.Set("OBJ_DATA", "'NO'")
	params.Set("MAKE_EPHEM", "'YES'")
	params.Set("EPHEM_TYPE", "'VECTORS'")
	// 500@0 is the solar-system barycenter.
	params.Set("CENTER", "'500@0'")
	params.Set("REF_PLANE", "'FRAME'")
	params.Set("REF_SYSTEM", "'ICRF'")
	// VEC_TABLE 2 carries position and velocity.
	params.Set("VEC_TABLE", "'2'")
	params.Set("VEC_LABELS", "'NO'")
	params.Set("CSV_FORMAT", "'NO'")
	params.Set("OUT_UNITS", "'AU-D'")
	params.Set("TLIST_TYPE", "'JD'")
	params.Set("TLIST", "'"+strings.Join(jds, " ")+"'")

	reqURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building horizons request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying horizons for body %d: %w", id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading horizons response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("horizons returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var envelope horizonsResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding horizons response: %w", err)
	}
	if envelope.Error != "" {
		return nil, fmt.Errorf("horizons rejected query for body %d: %s", id, envelope.Error)
	}

	samples, err := parseVectorTable(envelope.Result)
	if err != nil {
		return nil, fmt.Errorf("parsing horizons vectors for body %d: %w", id, err)
	}
	return samples, nil
}

// parseVectorTable extracts epochs, positions, and velocities from the
// text between the $$SOE and $$EOE markers. Each record is three
// lines: the epoch, the position components, the velocity components.
func parseVectorTable(result string) ([]StateSample, error) {
	startIdx := strings.Index(result, "$$SOE")
	endIdx := strings.Index(result, "$$EOE")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("no ephemeris data found in response")
	}

	var samples []StateSample
	var current *StateSample
	havePos := false

	for _, line := range strings.Split(result[startIdx+len("$$SOE"):endIdx], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, "= A.D.") || strings.Contains(line, "= B.C.") {
			if current != nil {
				return nil, fmt.Errorf("epoch line before record at JD %v completed", current.TDB)
			}
			fields := strings.Fields(line)
			jd, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return nil, fmt.Errorf("parsing epoch from %q: %w", line, err)
			}
			current = &StateSample{TDB: jd}
			havePos = false
			continue
		}
		if current == nil {
			continue // header noise before the first epoch
		}
		vec, err := parseVec3(line)
		if err != nil {
			return nil, err
		}
		if !havePos {
			current.Pos = vec
			havePos = true
		} else {
			current.Vel = vec
			samples = append(samples, *current)
			current = nil
		}
	}
	if current != nil {
		return nil, fmt.Errorf("record at JD %v truncated", current.TDB)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("no state vectors between markers")
	}
	return samples, nil
}

func parseVec3(line string) (astro.Vec3, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return astro.Vec3{}, fmt.Errorf("expected 3 components in %q, got %d", line, len(fields))
	}
	var out [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return astro.Vec3{}, fmt.Errorf("parsing component %q: %w", f, err)
		}
		out[i] = v
	}
	return astro.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
