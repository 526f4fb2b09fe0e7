package domain

import (
	"fmt"
	"strings"
)

type ActivityType int

const (
	ActivityPlaying   ActivityType = 0
	ActivityStreaming ActivityType = 1
	ActivityListening ActivityType = 2
	ActivityWatching  ActivityType = 3
	ActivityCustom    ActivityType = 4
	ActivityCompeting ActivityType = 5
)

var activityNames = map[string]ActivityType{
	"playing":   ActivityPlaying,
	"streaming": ActivityStreaming,
	"listening": ActivityListening,
	"watching":  ActivityWatching,
	"custom":    ActivityCustom,
	"competing": ActivityCompeting,
}

func ParseActivityType(raw string) (ActivityType, error) {
	if t, ok := activityNames[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unsupported activity type %q", raw)
}

type PresenceStatus string

const (
	StatusOnline    PresenceStatus = "online"
	StatusDND       PresenceStatus = "dnd"
	StatusIdle      PresenceStatus = "idle"
	StatusInvisible PresenceStatus = "invisible"
	StatusOffline   PresenceStatus = "offline"
)

func ParsePresenceStatus(raw string) (PresenceStatus, error) {
	status := PresenceStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case "":
		return StatusOnline, nil
	case StatusOnline, StatusDND, StatusIdle, StatusInvisible, StatusOffline:
		return status, nil
	default:
		return "", fmt.Errorf("unsupported presence status %q", raw)
	}
}

type Activity struct {
	Name  string       `json:"name"`
	Type  ActivityType `json:"type"`
	State string       `json:"state,omitempty"`
	Emoji *Emoji       `json:"emoji,omitempty"`
}

// PresenceUpdate is the payload of gateway op 3.
type PresenceUpdate struct {
	Since      *int64         `json:"since"`
	Status     PresenceStatus `json:"status"`
	AFK        bool           `json:"afk"`
	Activities []Activity     `json:"activities"`
}
