package pubsub

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/dropwatch/internal/domain"
)

const (
	typeListen    = "LISTEN"
	typePing      = "PING"
	typePong      = "PONG"
	typeResponse  = "RESPONSE"
	typeMessage   = "MESSAGE"
	typeReconnect = "RECONNECT"
)

type listenData struct {
	Topics    []string `json:"topics"`
	AuthToken string   `json:"auth_token,omitempty"`
}

type outgoing struct {
	Type  string      `json:"type"`
	Nonce string      `json:"nonce,omitempty"`
	Data  *listenData `json:"data,omitempty"`
}

type incoming struct {
	Type  string `json:"type"`
	Nonce string `json:"nonce"`
	Error string `json:"error"`
	Data  struct {
		Topic   string `json:"topic"`
		Message string `json:"message"`
	} `json:"data"`
}

type playbackMessage struct {
	Type    string `json:"type"`
	Viewers int    `json:"viewers"`
}

type dropMessage struct {
	Type string `json:"type"`
	Data struct {
		DropID              string `json:"drop_id"`
		DropInstanceID      string `json:"drop_instance_id"`
		CurrentProgressMin  int    `json:"current_progress_min"`
		RequiredProgressMin int    `json:"required_progress_min"`
	} `json:"data"`
}

func parseTopic(raw string) (domain.Topic, error) {
	idx := strings.LastIndexByte(raw, '.')
	if idx <= 0 || idx == len(raw)-1 {
		return domain.Topic{}, fmt.Errorf("malformed topic %q", raw)
	}
	target, err := strconv.ParseInt(raw[idx+1:], 10, 64)
	if err != nil {
		return domain.Topic{}, fmt.Errorf("malformed topic %q: %w", raw, err)
	}
	return domain.Topic{Kind: raw[:idx], Target: target}, nil
}

// decodeEvent turns the inner message of a MESSAGE frame into a domain event.
// ok is false for message types nobody consumes.
func decodeEvent(topic domain.Topic, payload string) (domain.Event, bool, error) {
	switch topic.Kind {
	case domain.TopicVideoPlayback:
		var msg playbackMessage
		if err := json.Unmarshal([]byte(payload), &msg); err != nil {
			return domain.Event{}, false, fmt.Errorf("decode %s message: %w", topic, err)
		}
		switch msg.Type {
		case domain.EventStreamUp, domain.EventStreamDown, domain.EventViewCount:
			return domain.Event{Topic: topic, Type: msg.Type, Viewers: msg.Viewers}, true, nil
		}
		return domain.Event{}, false, nil
	case domain.TopicUserDropEvents:
		var msg dropMessage
		if err := json.Unmarshal([]byte(payload), &msg); err != nil {
			return domain.Event{}, false, fmt.Errorf("decode %s message: %w", topic, err)
		}
		switch msg.Type {
		case domain.EventDropProgress, domain.EventDropClaim:
			return domain.Event{
				Topic:           topic,
				Type:            msg.Type,
				DropID:          msg.Data.DropID,
				DropInstanceID:  msg.Data.DropInstanceID,
				CurrentMinutes:  msg.Data.CurrentProgressMin,
				RequiredMinutes: msg.Data.RequiredProgressMin,
			}, true, nil
		}
		return domain.Event{}, false, nil
	}
	return domain.Event{}, false, nil
}
