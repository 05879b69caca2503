package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/tinywideclouds/go-push-bridge/pkg/dispatch"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

type sendRequest struct {
	UserID  string
	Token   push.Token
	Message dispatch.Message
}

func parseArgs(args []string) (*sendRequest, error) {
	fs := flag.NewFlagSet("pushsend", flag.ContinueOnError)
	var (
		userID   = fs.String("user", "", "send to every device registered for this user")
		token    = fs.String("token", "", "send to a single raw token")
		tokType  = fs.String("type", string(push.TokenTypeAndroidFCM), "token type of -token: ios, ios-dev or android-fcm")
		appID    = fs.String("app-id", "", "bundle id or package name of -token")
		title    = fs.String("title", "", "notification title")
		body     = fs.String("message", "", "notification body; omit for a data only push")
		sound    = fs.String("sound", "", "sound name without extension")
		badge    = fs.Int("badge", -1, "badge count; negative leaves it unset")
		channel  = fs.String("channel", "", "android notification channel")
		dataPair = fs.String("data", "", "comma separated key=value data")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if (*userID == "") == (*token == "") {
		return nil, errors.New("exactly one of -user or -token is required")
	}

	req := &sendRequest{
		UserID: *userID,
		Message: dispatch.Message{
			Title:     *title,
			Body:      *body,
			Sound:     *sound,
			ChannelID: *channel,
		},
	}
	if *badge >= 0 {
		req.Message.Badge = push.IntPtr(*badge)
	}
	if *token != "" {
		switch t := push.TokenType(*tokType); t {
		case push.TokenTypeIOS, push.TokenTypeIOSDev, push.TokenTypeAndroidFCM:
			req.Token = push.Token{Type: t, Token: *token, ID: *appID}
		default:
			return nil, fmt.Errorf("unknown token type %q", *tokType)
		}
	}

	data, err := parseData(*dataPair)
	if err != nil {
		return nil, err
	}
	req.Message.Data = data
	return req, nil
}

func parseData(raw string) (map[string]string, error) {
	if raw == "" {
		return nil, nil
	}
	data := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid data pair %q", pair)
		}
		data[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return data, nil
}
