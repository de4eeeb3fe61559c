package report

// Carrier frequencies routinely used on deep-space links, in MHz.
const (
	FreqSBand  = 2295.0  // S-band downlink (~2.3 GHz)
	FreqXBand  = 8420.0  // X-band downlink (~8.4 GHz)
	FreqKaBand = 32000.0 // Ka-band downlink (~32 GHz)
)

const speedOfLightKmS = 299792.458

// DopplerExport is the expected carrier shift on one band.
type DopplerExport struct {
	Band       string  `json:"band"`
	CarrierMHz float64 `json:"carrier_mhz"`
	ShiftHz    float64 `json:"shift_hz"`
}

// DopplerShiftHz returns the non-relativistic first-order carrier
// shift for a line-of-sight velocity. Receding targets shift the
// carrier down.
func DopplerShiftHz(radialKmS, carrierMHz float64) float64 {
	return -radialKmS / speedOfLightKmS * carrierMHz * 1e6
}

func dopplerRows(radialKmS float64) []DopplerExport {
	bands := []struct {
		name string
		mhz  float64
	}{
		{"S", FreqSBand},
		{"X", FreqXBand},
		{"Ka", FreqKaBand},
	}
	rows := make([]DopplerExport, 0, len(bands))
	for _, b := range bands {
		rows = append(rows, DopplerExport{
			Band:       b.name,
			CarrierMHz: b.mhz,
			ShiftHz:    DopplerShiftHz(radialKmS, b.mhz),
		})
	}
	return rows
}
