package weather

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"sync"

	"wallboard/app/config"
	"wallboard/app/fetch"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

type Adapter struct {
	client   *fetch.Client
	apiKey   string
	location config.Location
	baseURL  string
}

func NewAdapter(client *fetch.Client, apiKey string, location config.Location) *Adapter {
	return &Adapter{
		client:   client,
		apiKey:   apiKey,
		location: location,
		baseURL:  defaultBaseURL,
	}
}

// Snapshot fetches current conditions and the 3-hour forecast concurrently.
// A forecast failure degrades to an empty forecast; a current-conditions
// failure fails the whole call.
func (a *Adapter) Snapshot(ctx context.Context) (*Snapshot, error) {
	if a.apiKey == "" || a.location.City == "" {
		return nil, &config.ConfigError{Field: "weather", Message: "API key and city are required"}
	}

	var (
		wg          sync.WaitGroup
		current     currentResponse
		currentErr  error
		forecast    forecastResponse
		forecastErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		currentErr = a.client.JSON(ctx, a.endpoint("weather"), nil, &current)
	}()
	go func() {
		defer wg.Done()
		forecastErr = a.client.JSON(ctx, a.endpoint("forecast"), nil, &forecast)
	}()
	wg.Wait()

	if currentErr != nil {
		return nil, fmt.Errorf("failed to fetch current conditions: %w", currentErr)
	}
	if forecastErr != nil {
		slog.Warn("Forecast fetch failed, continuing without forecast", "error", forecastErr)
		forecast.List = nil
	}

	daily := reduceForecast(forecast.List)

	snapshot := &Snapshot{
		Current:  buildCurrent(current, daily),
		Forecast: daily,
		Location: fmt.Sprintf("%s, %s", current.Name, current.Sys.Country),
	}

	return snapshot, nil
}

func buildCurrent(resp currentResponse, daily []DailyForecast) Current {
	out := Current{
		Temperature: int(math.Round(resp.Main.Temp)),
		FeelsLike:   int(math.Round(resp.Main.FeelsLike)),
		High:        int(math.Round(resp.Main.TempMax)),
		Low:         int(math.Round(resp.Main.TempMin)),
		Humidity:    resp.Main.Humidity,
		Sunrise:     resp.Sys.Sunrise,
		Sunset:      resp.Sys.Sunset,
	}

	if len(resp.Weather) > 0 {
		out.Condition = resp.Weather[0].Main
		out.Description = resp.Weather[0].Description
		out.Icon = resp.Weather[0].Icon
	}

	if resp.Wind != nil {
		out.WindSpeed = resp.Wind.Speed
		out.WindDeg = resp.Wind.Deg
	}

	if len(daily) > 0 {
		out.ExpectedPrecip = &ExpectedPrecip{
			Pop:           daily[0].Pop,
			Precipitation: daily[0].Precipitation,
		}
	}

	return out
}

func (a *Adapter) endpoint(path string) string {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("%s,%s", a.location.City, a.location.Country))
	q.Set("appid", a.apiKey)
	q.Set("units", "metric")
	return fmt.Sprintf("%s/%s?%s", a.baseURL, path, q.Encode())
}
