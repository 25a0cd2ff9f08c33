package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Location is a place record assigned by the weather provider. Key is opaque and
// only ever taken from a provider response.
type Location struct {
	Key           string  `json:"Key"`
	LocalizedName string  `json:"LocalizedName"`
	Country       Country `json:"Country"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s, %s", l.LocalizedName, l.Country.ID)
}

// Country decodes both "ID" and "Id" since field matching is case-insensitive.
type Country struct {
	ID string `json:"ID"`
}

type Forecast struct {
	Headline Headline `json:"Headline"`
}

// Headline carries the summary for the current period. The provider names the
// field "Text"; "Overview" is accepted as well.
type Headline struct {
	Overview string
}

func (h *Headline) UnmarshalJSON(data []byte) error {
	var raw struct {
		Text     *string `json:"Text"`
		Overview *string `json:"Overview"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.Text != nil:
		h.Overview = *raw.Text
	case raw.Overview != nil:
		h.Overview = *raw.Overview
	default:
		return errors.New("headline has neither Text nor Overview")
	}

	return nil
}

// Report is the result of one successful lookup.
type Report struct {
	Location Location
	Forecast Forecast
}

func (r Report) String() string {
	return fmt.Sprintf("%s in %s", r.Forecast.Headline.Overview, r.Location)
}

type Platform string

const (
	Discord  Platform = "discord"
	Telegram Platform = "telegram"
	Terminal Platform = "terminal"
)

// Interaction is one inbound invocation of a command. It lives for a single dispatch.
type Interaction struct {
	ID        string
	Platform  Platform
	Command   string
	Argument  string
	ChannelID string
	Username  string
}
