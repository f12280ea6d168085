package weather

import (
	"testing"
	"time"
)

func sample(t time.Time, temp float64) forecastSample {
	var s forecastSample
	s.Dt = t.Unix()
	s.Main.Temp = temp
	s.Weather = []conditionInfo{{Main: "Clouds", Description: "scattered clouds", Icon: "03d"}}
	return s
}

func day(offset int, hour int) time.Time {
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.Local)
	return base.AddDate(0, 0, offset).Add(time.Duration(hour) * time.Hour)
}

func TestDailyGroupingOrderAndCap(t *testing.T) {
	samples := make([]forecastSample, 0)
	for offset := 0; offset < 9; offset++ {
		samples = append(samples, sample(day(offset, 9), 20))
		samples = append(samples, sample(day(offset, 15), 25))
	}

	daily := reduceForecast(samples)

	if len(daily) != 7 {
		t.Fatalf("Expected forecast capped at 7 days, got: %d", len(daily))
	}

	for i := 1; i < len(daily); i++ {
		if !daily[i].Date.After(daily[i-1].Date) {
			t.Errorf("Expected ascending dates, got %v before %v", daily[i-1].Date, daily[i].Date)
		}
	}
}

func TestHighLowFromSampleExtremes(t *testing.T) {
	samples := []forecastSample{
		sample(day(0, 6), 11.4),
		sample(day(0, 12), 24.6),
		sample(day(0, 18), 17.0),
	}

	daily := reduceForecast(samples)
	if len(daily) != 1 {
		t.Fatalf("Expected 1 day, got: %d", len(daily))
	}

	if daily[0].High != 25 {
		t.Errorf("Expected high 25 (rounded 24.6), got: %d", daily[0].High)
	}
	if daily[0].Low != 11 {
		t.Errorf("Expected low 11 (rounded 11.4), got: %d", daily[0].Low)
	}
}

func TestRepresentativeMiddleSample(t *testing.T) {
	morning := sample(day(0, 6), 10)
	morning.Weather[0].Main = "Clear"
	morning.Weather[0].Icon = "01d"

	noon := sample(day(0, 12), 20)
	noon.Weather[0].Main = "Rain"
	noon.Weather[0].Description = "light rain"
	noon.Weather[0].Icon = "10d"

	evening := sample(day(0, 18), 15)
	evening.Weather[0].Main = "Clear"
	evening.Weather[0].Icon = "01n"

	daily := reduceForecast([]forecastSample{morning, noon, evening})

	// Middle of three samples is index 1
	if daily[0].Condition != "Rain" {
		t.Errorf("Expected middle sample condition, got: %q", daily[0].Condition)
	}
	if daily[0].Description != "light rain" {
		t.Errorf("Expected middle sample description, got: %q", daily[0].Description)
	}
	if daily[0].Icon != "10d" {
		t.Errorf("Expected middle sample icon, got: %q", daily[0].Icon)
	}
}

func TestPopIsDayMaximumPercentage(t *testing.T) {
	a := sample(day(0, 6), 10)
	pop1 := 0.2
	a.Pop = &pop1

	b := sample(day(0, 12), 12)
	pop2 := 0.85
	b.Pop = &pop2

	daily := reduceForecast([]forecastSample{a, b})

	if daily[0].Pop == nil || *daily[0].Pop != 85 {
		t.Errorf("Expected pop 85, got: %v", daily[0].Pop)
	}
}

func TestPopNilWithoutSamples(t *testing.T) {
	daily := reduceForecast([]forecastSample{sample(day(0, 6), 10)})

	if daily[0].Pop != nil {
		t.Errorf("Expected nil pop when no sample reports it, got: %v", *daily[0].Pop)
	}
}

func TestRainAccumulationSummed(t *testing.T) {
	a := sample(day(0, 6), 10)
	r1 := 1.25
	a.Rain = &accumulation{ThreeHour: &r1}

	b := sample(day(0, 12), 12)
	r2 := 2.5
	b.Rain = &accumulation{ThreeHour: &r2}

	daily := reduceForecast([]forecastSample{a, b})

	if daily[0].Precipitation == nil {
		t.Fatal("Expected precipitation to be reported")
	}
	if *daily[0].Precipitation != 3.8 {
		t.Errorf("Expected 3.8 mm (3.75 rounded to one decimal), got: %v", *daily[0].Precipitation)
	}
}

func TestPrecipitationNilWhenZero(t *testing.T) {
	daily := reduceForecast([]forecastSample{sample(day(0, 6), 10)})

	if daily[0].Precipitation != nil {
		t.Errorf("Expected nil precipitation for a dry day, got: %v", *daily[0].Precipitation)
	}
}

func TestSnowReportedAsCentimeters(t *testing.T) {
	// All samples report snow; the representative condition becomes Snow
	// and the summed liquid equivalent is reported as approximate cm.
	samples := make([]forecastSample, 0, 3)
	for _, hour := range []int{6, 12, 18} {
		s := sample(day(0, hour), -5)
		s.Weather[0].Main = "Snow"
		s.Weather[0].Description = "light snow"
		amount := 5.0
		s.Snow = &accumulation{ThreeHour: &amount}
		samples = append(samples, s)
	}

	daily := reduceForecast(samples)

	if daily[0].Condition != "Snow" {
		t.Fatalf("Expected Snow condition, got: %q", daily[0].Condition)
	}
	if daily[0].Precipitation == nil {
		t.Fatal("Expected precipitation to be reported")
	}
	// 15 mm summed, divided by 10
	if *daily[0].Precipitation != 1.5 {
		t.Errorf("Expected 1.5 cm, got: %v", *daily[0].Precipitation)
	}
}

func TestOneHourBucketFallback(t *testing.T) {
	s := sample(day(0, 6), 10)
	amount := 0.4
	s.Rain = &accumulation{OneHour: &amount}

	daily := reduceForecast([]forecastSample{s})

	if daily[0].Precipitation == nil || *daily[0].Precipitation != 0.4 {
		t.Errorf("Expected 1h bucket fallback of 0.4 mm, got: %v", daily[0].Precipitation)
	}
}
