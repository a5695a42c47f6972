package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"clock-radio/internal/domain"
)

type actionKind int

const (
	actSnooze actionKind = iota + 1
	actCancelSnooze
	actDiscard
	actCancelDiscard
	actSave
	actTick
	actSwitchProfile
	actSetSnoozeDuration
	actSetTimetable
	actNewPlaylist
	actRenamePlaylist
	actDeletePlaylist
	actAddItem
	actRemoveItem
)

var errUnknownAction = errors.New("unknown action")

// action is one parsed override request. Only the fields its kind needs are set.
type action struct {
	kind      actionKind
	name      string
	target    string
	item      string
	snooze    time.Duration
	timetable domain.Timetable
}

const maxBodyBytes = 1 << 20

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

type namePayload struct {
	Name string `json:"name"`
}

type itemPayload struct {
	Item string `json:"item"`
}

type snoozePayload struct {
	Seconds int `json:"seconds"`
}

func parseSwitchProfile(r *http.Request) (action, error) {
	var p namePayload
	if err := decodeBody(r, &p); err != nil {
		return action{}, err
	}
	return action{kind: actSwitchProfile, name: p.Name}, nil
}

func parseSnoozeDuration(r *http.Request) (action, error) {
	var p snoozePayload
	if err := decodeBody(r, &p); err != nil {
		return action{}, err
	}
	return action{kind: actSetSnoozeDuration, snooze: time.Duration(p.Seconds) * time.Second}, nil
}

func parseSetTimetable(r *http.Request) (action, error) {
	var p timetablePayload
	if err := decodeBody(r, &p); err != nil {
		return action{}, err
	}
	tt, err := p.toDomain()
	if err != nil {
		return action{}, err
	}
	return action{kind: actSetTimetable, name: pathParam(r, "profile"), timetable: tt}, nil
}

func parseNewPlaylist(r *http.Request) (action, error) {
	var p namePayload
	if err := decodeBody(r, &p); err != nil {
		return action{}, err
	}
	return action{kind: actNewPlaylist, name: p.Name}, nil
}

func parseRenamePlaylist(r *http.Request) (action, error) {
	var p namePayload
	if err := decodeBody(r, &p); err != nil {
		return action{}, err
	}
	return action{kind: actRenamePlaylist, name: pathParam(r, "playlist"), target: p.Name}, nil
}

func parseDeletePlaylist(r *http.Request) (action, error) {
	return action{kind: actDeletePlaylist, name: pathParam(r, "playlist")}, nil
}

func parseItem(kind actionKind) func(*http.Request) (action, error) {
	return func(r *http.Request) (action, error) {
		var p itemPayload
		if err := decodeBody(r, &p); err != nil {
			return action{}, err
		}
		return action{kind: kind, name: pathParam(r, "playlist"), item: p.Item}, nil
	}
}
