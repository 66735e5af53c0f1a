// Package wxcalc holds closed-form meteorological formulas used to annotate
// station readings. Temperatures are in °C, pressures in hPa, wind in km/h
// and humidity in percent unless a function says otherwise.
package wxcalc

import "math"

// CelsiusToFahrenheit converts a Celsius temperature to Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 {
	return c*1.8 + 32.0
}

// FahrenheitToCelsius converts a Fahrenheit temperature to Celsius.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32.0) / 1.8
}

// International standard atmosphere constants.
const (
	isaHeight   = 44330.0
	isaExponent = 5.255
)

// SeaLevelPressure reduces station pressure to sea level for a station
// altitude in metres.
func SeaLevelPressure(pressure, altitude float64) float64 {
	return pressure / math.Pow(1.0-altitude/isaHeight, isaExponent)
}

// Altitude estimates altitude in metres from station pressure and the
// current sea-level pressure.
func Altitude(pressure, seaLevelPressure float64) float64 {
	return isaHeight * (1.0 - math.Pow(pressure/seaLevelPressure, 1.0/isaExponent))
}

// DewPoint calculates the dew point from temperature and relative humidity
// using the NOAA saturation vapour pressure approximation. Air with no
// humidity has no dew point and yields NaN.
func DewPoint(temp, humidity float64) float64 {
	if humidity <= 0 {
		return math.NaN()
	}
	ratio := 373.15 / (273.15 + temp)
	rhs := -7.90298 * (ratio - 1.0)
	rhs += 5.02808 * math.Log10(ratio)
	rhs += -1.3816e-7 * (math.Pow(10.0, 11.344*(1.0-1.0/ratio)) - 1.0)
	rhs += 8.1328e-3 * (math.Pow(10.0, -3.49149*(ratio-1.0)) - 1.0)
	rhs += math.Log10(1013.246)

	// vapour pressure in kPa
	vp := math.Pow(10.0, rhs-3.0) * humidity

	t := math.Log(vp / 0.61078)
	return (241.88 * t) / (17.558 - t)
}

// HeatIndex returns the apparent temperature for hot weather using the
// Rothfusz regression and the NWS low/high humidity adjustments.
func HeatIndex(temp, humidity float64) float64 {
	t := CelsiusToFahrenheit(temp)
	rh := humidity

	hi := -42.379 + 2.04901523*t + 10.14333127*rh -
		0.22475541*t*rh - 0.00683783*t*t - 0.05481717*rh*rh +
		0.00122874*t*t*rh + 0.00085282*t*rh*rh - 0.00000199*t*t*rh*rh

	switch {
	case rh < 13.0 && t > 80.0 && t < 112.0:
		hi -= ((13.0 - rh) / 4.0) * math.Sqrt((17.0-math.Abs(t-95.0))/17.0)
	case rh > 85.0 && t > 80.0 && t < 87.0:
		hi += ((rh - 85.0) / 10.0) * ((87.0 - t) / 5.0)
	case hi < 80.0:
		hi = 0.5 * (t + 61.0 + (t-68.0)*1.2 + rh*0.094)
	}
	return FahrenheitToCelsius(hi)
}

// Humidex is the Environment Canada humidity index.
func Humidex(temp, dewPoint float64) float64 {
	e := 6.11 * math.Exp(5417.7530*(1.0/273.16-1.0/(273.15+dewPoint)))
	return temp + 0.5555*(e-10.0)
}

// WindChill is the Environment Canada wind chill index for a wind speed in
// km/h. Outside the formula's range (above 10°C or below 4.8 km/h) the air
// temperature is returned.
func WindChill(temp, windSpeed float64) float64 {
	if temp > 10.0 || windSpeed < 4.8 {
		return temp
	}
	v := math.Pow(windSpeed, 0.16)
	return 13.12 + 0.6215*temp - 11.37*v + 0.3965*temp*v
}

// Comfort rates a heat index in °C.
type Comfort uint8

const (
	ComfortUnrated Comfort = iota
	ComfortUncomfortable
	ComfortComfortable
	ComfortSomeDiscomfort
	ComfortHot
	ComfortGreatDiscomfort
	ComfortDangerous
)

var comfortNames = [...]string{
	"Unrated",
	"Uncomfortable",
	"Comfortable",
	"Some discomfort",
	"Hot feeling",
	"Great discomfort; avoid exertion",
	"Dangerous; probable heat stroke",
}

func (c Comfort) String() string {
	if int(c) >= len(comfortNames) {
		return comfortNames[ComfortUnrated]
	}
	return comfortNames[c]
}

// ComfortLevel maps a heat index to a comfort rating. Heat indices below
// 20°C are unrated.
func ComfortLevel(heatIndex float64) Comfort {
	switch {
	case heatIndex > 45.0:
		return ComfortDangerous
	case heatIndex > 39.0:
		return ComfortGreatDiscomfort
	case heatIndex > 29.0:
		return ComfortHot
	case heatIndex > 26.0:
		return ComfortSomeDiscomfort
	case heatIndex > 23.0:
		return ComfortComfortable
	case heatIndex >= 20.0:
		return ComfortUncomfortable
	default:
		return ComfortUnrated
	}
}
