package weather

import (
	"math"
	"time"
)

const maxForecastDays = 7

type dayAccum struct {
	date         time.Time
	temps        []float64
	conditions   []string
	descriptions []string
	icons        []string
	pops         []float64
	rainMm       float64
	snowMm       float64
}

// reduceForecast groups 3-hour samples by local calendar day and collapses
// each day to one entry: high/low are the max/min sample temperatures,
// condition/description/icon come from the temporally middle sample (a
// representative, not an average), pop is the day's maximum as a 0-100
// percentage, precipitation is the day's summed accumulation. Snow is
// reported as approximate centimeters (mm/10) when the representative
// condition is Snow; everything else stays in millimeters.
func reduceForecast(samples []forecastSample) []DailyForecast {
	if len(samples) == 0 {
		return []DailyForecast{}
	}

	days := make([]*dayAccum, 0, maxForecastDays+1)
	index := make(map[string]*dayAccum)

	for _, sample := range samples {
		ts := time.Unix(sample.Dt, 0).In(time.Local)
		key := ts.Format("2006-01-02")

		day, ok := index[key]
		if !ok {
			day = &dayAccum{date: ts}
			index[key] = day
			days = append(days, day)
		}

		day.temps = append(day.temps, sample.Main.Temp)
		if len(sample.Weather) > 0 {
			day.conditions = append(day.conditions, sample.Weather[0].Main)
			day.descriptions = append(day.descriptions, sample.Weather[0].Description)
			day.icons = append(day.icons, sample.Weather[0].Icon)
		} else {
			day.conditions = append(day.conditions, "")
			day.descriptions = append(day.descriptions, "")
			day.icons = append(day.icons, "")
		}
		if sample.Pop != nil {
			day.pops = append(day.pops, *sample.Pop)
		}
		day.rainMm += sample.Rain.mm()
		day.snowMm += sample.Snow.mm()
	}

	if len(days) > maxForecastDays {
		days = days[:maxForecastDays]
	}

	out := make([]DailyForecast, 0, len(days))
	for _, day := range days {
		out = append(out, day.collapse())
	}

	return out
}

func (d *dayAccum) collapse() DailyForecast {
	mid := len(d.conditions) / 2
	condition := d.conditions[mid]
	description := d.descriptions[mid]
	if description == "" {
		description = condition
	}

	var pop *int
	if len(d.pops) > 0 {
		maxPop := d.pops[0]
		for _, p := range d.pops[1:] {
			if p > maxPop {
				maxPop = p
			}
		}
		v := int(math.Round(maxPop * 100))
		pop = &v
	}

	var rain, snow *float64
	if d.rainMm > 0 {
		v := round1(d.rainMm)
		rain = &v
	}
	if d.snowMm > 0 {
		v := round1(d.snowMm)
		snow = &v
	}

	precipitation := rain
	if condition == "Snow" && snow != nil {
		v := round1(*snow / 10)
		precipitation = &v
	}

	return DailyForecast{
		Date:          d.date,
		DayName:       d.date.Format("Mon"),
		High:          int(math.Round(maxOf(d.temps))),
		Low:           int(math.Round(minOf(d.temps))),
		Condition:     condition,
		Description:   description,
		Icon:          d.icons[mid],
		Pop:           pop,
		Precipitation: precipitation,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func maxOf(vs []float64) float64 {
	out := vs[0]
	for _, v := range vs[1:] {
		if v > out {
			out = v
		}
	}
	return out
}

func minOf(vs []float64) float64 {
	out := vs[0]
	for _, v := range vs[1:] {
		if v < out {
			out = v
		}
	}
	return out
}
