package wxcalc

// MaxAQI is the top of the US EPA scale. Concentrations beyond the last
// breakpoint are reported at this value.
const MaxAQI = 500

type breakpoint struct {
	concLo, concHi uint16
	aqiLo, aqiHi   uint16
}

// EPA breakpoints for 24 h PM2.5 and PM10 in µg/m³.
var (
	pm25Breakpoints = []breakpoint{
		{0, 12, 0, 50},
		{13, 35, 51, 100},
		{36, 55, 101, 150},
		{56, 150, 151, 200},
		{151, 250, 201, 300},
		{251, 500, 301, 500},
	}
	pm10Breakpoints = []breakpoint{
		{0, 54, 0, 50},
		{55, 154, 51, 100},
		{155, 254, 101, 150},
		{255, 354, 151, 200},
		{355, 424, 201, 300},
		{425, 604, 301, 500},
	}
)

func subIndex(conc uint16, table []breakpoint) uint16 {
	for _, bp := range table {
		if conc >= bp.concLo && conc <= bp.concHi {
			// integer interpolation, truncating toward the lower AQI
			num := uint32(conc-bp.concLo) * uint32(bp.aqiHi-bp.aqiLo)
			return uint16(num/uint32(bp.concHi-bp.concLo)) + bp.aqiLo
		}
	}
	return MaxAQI
}

// AQI returns the air quality index for PM2.5 and PM10 concentrations: the
// larger of the two sub-indices.
func AQI(pm25, pm10 uint16) uint16 {
	return max(subIndex(pm25, pm25Breakpoints), subIndex(pm10, pm10Breakpoints))
}

// AQICategory names the EPA health category for an AQI value.
func AQICategory(aqi uint16) string {
	switch {
	case aqi <= 50:
		return "Good"
	case aqi <= 100:
		return "Moderate"
	case aqi <= 150:
		return "Unhealthy for sensitive groups"
	case aqi <= 200:
		return "Unhealthy"
	case aqi <= 300:
		return "Very unhealthy"
	default:
		return "Hazardous"
	}
}
