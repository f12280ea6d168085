package weather

import "time"

// Snapshot is the display-ready weather view: current conditions plus up to
// seven daily forecast entries ordered by date ascending.
type Snapshot struct {
	Current  Current         `json:"current"`
	Forecast []DailyForecast `json:"forecast"`
	Location string          `json:"location"`
}

type Current struct {
	Temperature    int             `json:"temperature"`
	FeelsLike      int             `json:"feelsLike"`
	Condition      string          `json:"condition"`
	Description    string          `json:"description"`
	Icon           string          `json:"icon"`
	High           int             `json:"high"`
	Low            int             `json:"low"`
	Humidity       int             `json:"humidity"`
	WindSpeed      float64         `json:"windSpeed"`
	WindDeg        int             `json:"windDeg"`
	Sunrise        int64           `json:"sunrise,omitempty"`
	Sunset         int64           `json:"sunset,omitempty"`
	ExpectedPrecip *ExpectedPrecip `json:"expectedPrecip"`
}

// ExpectedPrecip mirrors today's forecast entry on the current conditions so
// the display can show precipitation odds without scanning the forecast.
type ExpectedPrecip struct {
	Pop           *int     `json:"pop"`
	Precipitation *float64 `json:"precipitation"`
}

// DailyForecast is one calendar day reduced from 3-hour-resolution samples.
type DailyForecast struct {
	Date          time.Time `json:"date"`
	DayName       string    `json:"dayName"`
	High          int       `json:"high"`
	Low           int       `json:"low"`
	Condition     string    `json:"condition"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	Pop           *int      `json:"pop"`
	Precipitation *float64  `json:"precipitation"`
}

// Wire types for the provider's current-conditions and 5-day/3-hour
// forecast endpoints.

type conditionInfo struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type currentResponse struct {
	Name    string          `json:"name"`
	Weather []conditionInfo `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMax   float64 `json:"temp_max"`
		TempMin   float64 `json:"temp_min"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
}

type forecastResponse struct {
	List []forecastSample `json:"list"`
}

type forecastSample struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []conditionInfo `json:"weather"`
	Pop     *float64        `json:"pop"`
	Rain    *accumulation   `json:"rain"`
	Snow    *accumulation   `json:"snow"`
}

type accumulation struct {
	ThreeHour *float64 `json:"3h"`
	OneHour   *float64 `json:"1h"`
}

// mm returns the accumulated precipitation in millimeters, preferring the
// 3-hour bucket when both are present.
func (a *accumulation) mm() float64 {
	if a == nil {
		return 0
	}
	if a.ThreeHour != nil {
		return *a.ThreeHour
	}
	if a.OneHour != nil {
		return *a.OneHour
	}
	return 0
}
