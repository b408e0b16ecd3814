package notify

import (
	"github.com/google/uuid"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

// route lists the fields a screen needs from notification data.
type route struct {
	required []string
	extra    model.Params
}

var routes = map[model.Screen]route{
	model.ScreenPropertyDetail:     {required: []string{model.KeyPropertyID}},
	model.ScreenRoomDetail:         {required: []string{model.KeyRoomID}},
	model.ScreenTenantDocuments:    {required: []string{model.KeyTenantID}},
	model.ScreenTransactionDetails: {required: []string{model.KeyTenantID, model.KeyRoomID}, extra: model.Params{"previousReading": 0}},
}

// Resolve maps notification data to a navigation target. Unknown screens and
// missing fields yield ok=false.
func Resolve(data map[string]string) (model.Target, bool) {
	screen := model.Screen(data[model.KeyScreen])
	r, ok := routes[screen]
	if !ok {
		return model.Target{}, false
	}

	params := make(model.Params, len(r.required)+len(r.extra))
	for _, key := range r.required {
		v := data[key]
		if v == "" {
			return model.Target{}, false
		}
		params[key] = v
	}
	for k, v := range r.extra {
		params[k] = v
	}
	return model.Target{Screen: screen, Params: params}, true
}

// Render builds the local notification for a data-only message. Display
// hints are consumed; every other key is kept as data.
func Render(msg model.Message) model.Notification {
	n := model.Notification{
		ID:        msg.ID,
		Title:     msg.Data[model.KeyTitle],
		Body:      msg.Data[model.KeyBody],
		ChannelID: msg.Data[model.KeyChannelID],
		Data:      make(map[string]string, len(msg.Data)),
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Title == "" {
		n.Title = model.DefaultNotificationTitle
	}
	if n.Body == "" {
		n.Body = model.DefaultNotificationBody
	}
	if n.ChannelID == "" {
		n.ChannelID = model.DefaultChannelID
	}
	for k, v := range msg.Data {
		switch k {
		case model.KeyTitle, model.KeyBody, model.KeyChannelID:
		default:
			n.Data[k] = v
		}
	}
	return n
}

// EventFrom normalizes a tapped notification into the dispatcher's event.
func EventFrom(n model.Notification, source model.Source) model.Event {
	data := make(map[string]string, len(n.Data))
	for k, v := range n.Data {
		data[k] = v
	}
	return model.Event{ID: n.ID, Title: n.Title, Body: n.Body, Data: data, Source: source}
}
