package center

import (
	"github.com/tinywideclouds/go-push-bridge/pkg/native"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

// FromDelivered converts a notification reported by the iOS notification
// center. The aps dictionary is removed from the data payload.
func FromDelivered(d native.DeliveredNotification) push.Notification {
	n := push.Notification{
		ID:       d.Identifier,
		Date:     int64(d.Date * 1000),
		Title:    d.Title,
		Subtitle: d.Subtitle,
		Body:     d.Body,
		Sound:    d.Sound,
		Category: d.CategoryIdentifier,
		ThreadID: d.ThreadIdentifier,
		Data:     StripAPS(d.UserInfo),
	}
	if d.Badge != nil && *d.Badge != 0 {
		n.Badge = push.IntPtr(*d.Badge)
	}
	return n
}

// FromExisting converts a notification listed from the Android tray.
func FromExisting(e native.ExistingNotification) push.Notification {
	n := push.Notification{
		ID:        e.ID,
		Date:      e.PostTime * 1000,
		Title:     e.Title,
		Subtitle:  e.Subtext,
		Body:      e.Body,
		Color:     e.Color,
		Ongoing:   push.BoolPtr(e.Ongoing),
		ChannelID: e.ChannelID,
		Data:      e.Data,
	}
	if e.Number != 0 {
		n.Badge = push.IntPtr(e.Number)
	}
	return n
}

// StripAPS copies userInfo without its aps key.
func StripAPS(userInfo map[string]any) map[string]any {
	data := make(map[string]any, len(userInfo))
	for k, v := range userInfo {
		if k == "aps" {
			continue
		}
		data[k] = v
	}
	return data
}

func iosArgs(id string, n push.Notification) native.NotificationArgs {
	args := native.NotificationArgs{
		ID:                 id,
		Title:              n.Title,
		Subtitle:           n.Subtitle,
		Body:               n.Body,
		Badge:              n.Badge,
		CategoryIdentifier: n.Category,
		ThreadIdentifier:   n.ThreadID,
		UserInfo:           n.Data,
	}
	if n.Sound != "" {
		args.Sound = n.Sound + ".aiff"
	}

	o := n.IOS
	if o == nil {
		return args
	}
	if o.Title != "" {
		args.Title = o.Title
	}
	if o.Subtitle != "" {
		args.Subtitle = o.Subtitle
	}
	if o.Body != "" {
		args.Body = o.Body
	}
	if o.Badge != nil {
		args.Badge = o.Badge
	}
	if o.Sound != "" {
		args.Sound = o.Sound
	}
	if o.CategoryIdentifier != "" {
		args.CategoryIdentifier = o.CategoryIdentifier
	}
	if o.ThreadIdentifier != "" {
		args.ThreadIdentifier = o.ThreadIdentifier
	}
	if o.UserInfo != nil {
		args.UserInfo = o.UserInfo
	}
	return args
}

func androidArgs(n push.Notification) native.AndroidNotification {
	ongoing := n.Ongoing != nil && *n.Ongoing
	args := native.AndroidNotification{
		ChannelID:  n.ChannelID,
		Title:      n.Title,
		Body:       n.Body,
		Subtext:    n.Subtitle,
		SmallIcon:  n.Icon,
		Sound:      n.Sound,
		Ongoing:    n.Ongoing,
		AutoCancel: push.BoolPtr(!ongoing),
		Number:     n.Badge,
		GroupKey:   n.ThreadID,
		Data:       n.Data,
	}

	o := n.Android
	if o == nil {
		return args
	}
	setString(&args.ChannelID, o.ChannelID)
	setString(&args.Title, o.Title)
	setString(&args.Body, o.Body)
	setString(&args.Category, o.Category)
	setString(&args.Ticker, o.Ticker)
	setString(&args.Subtext, o.Subtext)
	setString(&args.Sound, o.Sound)
	setString(&args.GroupKey, o.GroupKey)
	setString(&args.SmallIcon, o.SmallIcon)
	if o.Vibrate != nil {
		args.Vibrate = o.Vibrate
	}
	if o.Priority != nil {
		args.Priority = o.Priority
	}
	if o.Number != nil {
		args.Number = o.Number
	}
	if o.Colorized != nil {
		args.Colorized = o.Colorized
	}
	if o.Visibility != nil {
		args.Visibility = o.Visibility
	}
	if o.Ongoing != nil {
		args.Ongoing = o.Ongoing
	}
	if o.Lights != nil {
		args.Lights = o.Lights
	}
	if o.AutoCancel != nil {
		args.AutoCancel = o.AutoCancel
	}
	if o.FullScreen != nil {
		args.FullScreen = o.FullScreen
	}
	if o.TurnScreenOn != nil {
		args.TurnScreenOn = o.TurnScreenOn
	}
	if o.Actions != nil {
		args.Actions = o.Actions
	}
	if o.Data != nil {
		args.Data = o.Data
	}
	return args
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
