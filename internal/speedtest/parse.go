package speedtest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"network-quality/internal/models"
)

const bitsPerMegabit = 1_000_000

type result struct {
	Ping     *float64 `json:"ping"`
	Download *float64 `json:"download"` // bits/s
	Upload   *float64 `json:"upload"`   // bits/s
	Server   *server  `json:"server"`
}

type server struct {
	Name    *string `json:"name"`
	Country *string `json:"country"`
}

// parseResult decodes the utility's JSON output and checks required fields
func parseResult(output []byte) (result, error) {
	var res result
	if err := json.Unmarshal(output, &res); err != nil {
		return result{}, fmt.Errorf("decode speed test output: %w", err)
	}
	switch {
	case res.Ping == nil:
		return result{}, errors.New("speed test output has no ping")
	case res.Download == nil:
		return result{}, errors.New("speed test output has no download")
	case res.Upload == nil:
		return result{}, errors.New("speed test output has no upload")
	case res.Server == nil:
		return result{}, errors.New("speed test output has no server")
	case res.Server.Name == nil:
		return result{}, errors.New("speed test output has no server name")
	case res.Server.Country == nil:
		return result{}, errors.New("speed test output has no server country")
	}
	return res, nil
}

func (res result) record(ts time.Time) models.Record {
	return models.Record{
		Timestamp:      ts,
		PingMs:         round2(*res.Ping),
		DownloadMbps:   round2(*res.Download / bitsPerMegabit),
		UploadMbps:     round2(*res.Upload / bitsPerMegabit),
		ServerName:     *res.Server.Name,
		ServerLocation: fmt.Sprintf("%s, %s", *res.Server.Country, *res.Server.Name),
		Status:         models.StatusSuccess,
	}
}

// round2 rounds the exact binary value to two decimals, ties to even
func round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}
