package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

func TestHandleNotReadyDropsCalls(t *testing.T) {
	h := NewHandle()

	assert.False(t, h.IsReady())
	assert.False(t, h.Navigate(model.ScreenRoomDetail, model.Params{"roomId": "r1"}))
	assert.False(t, h.Reset([]model.Route{{Name: model.ScreenLogin}}))

	// attaching later must not replay anything
	stack := NewStack(model.ScreenProperties)
	h.Attach(stack)
	require.True(t, h.IsReady())
	assert.Equal(t, []model.Route{{Name: model.ScreenProperties}}, stack.Routes())
}

func TestHandleNavigateAndReset(t *testing.T) {
	h := NewHandle()
	stack := NewStack(model.ScreenProperties)
	h.Attach(stack)

	require.True(t, h.Navigate(model.ScreenRoomDetail, model.Params{"roomId": "r1"}))
	assert.Equal(t, model.Route{Name: model.ScreenRoomDetail, Params: model.Params{"roomId": "r1"}}, stack.Current())
	assert.Len(t, stack.Routes(), 2)

	require.True(t, h.Reset([]model.Route{{Name: model.ScreenLogin}}))
	assert.Equal(t, []model.Route{{Name: model.ScreenLogin}}, stack.Routes())

	h.Detach()
	assert.False(t, h.IsReady())
	assert.False(t, h.Navigate(model.ScreenProperties, nil))
	assert.Equal(t, []model.Route{{Name: model.ScreenLogin}}, stack.Routes())
}

func TestStackBack(t *testing.T) {
	stack := NewStack(model.ScreenProperties)
	assert.False(t, stack.Back(), "root must not be popped")

	stack.Navigate(model.ScreenPropertyDetail, model.Params{"propertyId": "p1"})
	var tops []model.Screen
	stack.OnChange = func(top model.Route) { tops = append(tops, top.Name) }

	assert.True(t, stack.Back())
	assert.Equal(t, model.ScreenProperties, stack.Current().Name)
	assert.Equal(t, []model.Screen{model.ScreenProperties}, tops)
}

func TestStackCopiesParams(t *testing.T) {
	stack := NewStack(model.ScreenProperties)
	params := model.Params{"roomId": "r1"}
	stack.Navigate(model.ScreenRoomDetail, params)
	params["roomId"] = "mutated"

	assert.Equal(t, "r1", stack.Current().Params["roomId"])
}

func TestInitialRoute(t *testing.T) {
	anon := model.Session{Status: model.StatusSucceeded}
	signedIn := model.Session{Status: model.StatusSucceeded, User: &model.User{Token: "t", Username: "alice"}}

	assert.Equal(t, model.ScreenLogin, InitialRoute(anon))
	assert.Equal(t, model.ScreenProperties, InitialRoute(signedIn))
}
