package host

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yoshiyuki1026/smtd/internal/game"
	"github.com/Yoshiyuki1026/smtd/internal/model"
	"github.com/Yoshiyuki1026/smtd/internal/store"
)

type apiForTest struct {
	t   *testing.T
	h   *Host
	mux *http.ServeMux
	clk *game.FakeClock
}

func newAPIForTest(t *testing.T) *apiForTest {
	t.Helper()
	clk := game.NewFakeClock(time.Date(2026, 1, 1, 9, 0, 0, 0, jst))
	h := newHostForTest(t, store.NewMemory(), clk)
	mux := http.NewServeMux()
	h.Routes(mux)
	return &apiForTest{t: t, h: h, mux: mux, clk: clk}
}

func (a *apiForTest) call(method, path, body string) (int, Result) {
	a.t.Helper()
	rr := httptest.NewRecorder()
	a.mux.ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))

	var res Result
	if rr.Code == http.StatusOK {
		require.NoError(a.t, json.Unmarshal(rr.Body.Bytes(), &res), rr.Body.String())
	}
	return rr.Code, res
}

func TestAPI_TaskFlow(t *testing.T) {
	api := newAPIForTest(t)

	code, res := api.call(http.MethodPost, "/api/tasks", `{"title":"Buy milk"}`)
	require.Equal(t, http.StatusOK, code)
	require.True(t, res.Changed)
	require.NotNil(t, res.Task)
	id := res.Task.ID
	assert.False(t, res.Task.Focused)

	_, res = api.call(http.MethodPost, "/api/tasks/"+string(id)+"/focus", "")
	assert.True(t, res.Changed)
	assert.Equal(t, 1, res.State.FocusedCount)

	_, res = api.call(http.MethodPost, "/api/tasks/"+string(id)+"/complete", "")
	require.True(t, res.Changed)
	require.NotNil(t, res.Reward)
	assert.Equal(t, 1500, res.Reward.Points)
	assert.True(t, res.Reward.IsDailyStrike)
	assert.Equal(t, 1, res.State.GameState.TotalStones)
	require.NotNil(t, res.State.LastReward)

	_, res = api.call(http.MethodPost, "/api/reward/clear", "")
	assert.True(t, res.Changed)
	assert.Nil(t, res.State.LastReward)
}

func TestAPI_DirectAddAndSlots(t *testing.T) {
	api := newAPIForTest(t)

	for range 4 {
		code, _ := api.call(http.MethodPost, "/api/tasks", `{"title":"x","direct":true}`)
		require.Equal(t, http.StatusOK, code)
	}
	rr := httptest.NewRecorder()
	api.mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	var st State
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.Equal(t, 3, st.FocusedCount)
	assert.Len(t, st.Tasks, 4)
}

func TestAPI_SettingsDriveAutoAdd(t *testing.T) {
	api := newAPIForTest(t)

	_, res := api.call(http.MethodPut, "/api/settings", `{"directAddDefault":true,"navigatorMode":"B"}`)
	assert.True(t, res.Changed)
	assert.Equal(t, model.NavigatorB, res.State.NavigatorMode)

	_, res = api.call(http.MethodPost, "/api/tasks", `{"title":"auto"}`)
	require.NotNil(t, res.Task)
	assert.True(t, res.Task.Focused)

	_, res = api.call(http.MethodPut, "/api/settings", `{"navigatorMode":"Z"}`)
	assert.False(t, res.Changed)
	assert.Equal(t, model.NavigatorB, res.State.NavigatorMode)
}

func TestAPI_InvalidIDsAreNoops(t *testing.T) {
	api := newAPIForTest(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/tasks/nope/focus"},
		{http.MethodPost, "/api/tasks/nope/complete"},
		{http.MethodDelete, "/api/tasks/nope"},
		{http.MethodPost, "/api/blackhole/nope/archive"},
		{http.MethodDelete, "/api/blackhole/nope"},
	} {
		code, res := api.call(tc.method, tc.path, "")
		assert.Equal(t, http.StatusOK, code, tc.path)
		assert.False(t, res.Changed, tc.path)
	}

	code, res := api.call(http.MethodPost, "/api/tasks", `{"title":"   "}`)
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, res.Changed)
}

func TestAPI_BadInput(t *testing.T) {
	api := newAPIForTest(t)

	code, _ := api.call(http.MethodPost, "/api/tasks", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.call(http.MethodPost, "/api/tasks/x/explode", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = api.call(http.MethodPost, "/api/rebirth", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAPI_Reorder(t *testing.T) {
	api := newAPIForTest(t)

	_, a := api.call(http.MethodPost, "/api/tasks", `{"title":"a"}`)
	_, b := api.call(http.MethodPost, "/api/tasks", `{"title":"b"}`)

	_, res := api.call(http.MethodPost, "/api/tasks/"+string(b.Task.ID)+"/reorder", `{"targetId":"`+string(a.Task.ID)+`"}`)
	assert.True(t, res.Changed)
	require.Len(t, res.State.Tasks, 2)
	assert.Equal(t, "b", res.State.Tasks[0].Title)
}

func TestAPI_BlackHoleAndRebirth(t *testing.T) {
	api := newAPIForTest(t)

	_, keep := api.call(http.MethodPost, "/api/blackhole", `{"content":"keep"}`)
	require.NotNil(t, keep.Item)
	_, conv := api.call(http.MethodPost, "/api/blackhole", `{"content":"do it"}`)
	require.NotNil(t, conv.Item)

	_, res := api.call(http.MethodPost, "/api/blackhole/"+string(keep.Item.ID)+"/archive", "")
	assert.True(t, res.Changed)

	_, res = api.call(http.MethodPost, "/api/blackhole/"+string(conv.Item.ID)+"/convert", "")
	require.True(t, res.Changed)
	require.NotNil(t, res.Task)
	assert.Equal(t, "do it", res.Task.Title)

	_, res = api.call(http.MethodPost, "/api/breakthrough", `{"title":"taxes"}`)
	require.True(t, res.Changed)
	assert.Equal(t, model.ContextBreakthrough, res.State.LastInteraction.Context)

	_, res = api.call(http.MethodPost, "/api/rebirth", `{"confirm":true}`)
	assert.True(t, res.Changed)
	assert.Empty(t, res.State.Tasks)
	assert.Equal(t, 1, res.State.GameState.RebirthCount)
	require.Len(t, res.State.BlackHole, 1)
	assert.Equal(t, "keep", res.State.BlackHole[0].Content)
}

func TestAPI_SessionFocusRollsOver(t *testing.T) {
	api := newAPIForTest(t)

	_, res := api.call(http.MethodPost, "/api/session/focus", "")
	assert.False(t, res.Changed)

	api.clk.Advance(24 * time.Hour)
	_, res = api.call(http.MethodPost, "/api/session/focus", "")
	assert.True(t, res.Changed)
	require.NotNil(t, res.Rollover)
	assert.Equal(t, "2026-01-02", res.Rollover.To)

	_, res = api.call(http.MethodPost, "/api/session/focus", "")
	assert.False(t, res.Changed)
}

func TestAPI_CompleteAfterMidnightRollsOverFirst(t *testing.T) {
	api := newAPIForTest(t)

	_, res := api.call(http.MethodPost, "/api/tasks", `{"title":"a","direct":true}`)
	idA := string(res.Task.ID)
	_, res = api.call(http.MethodPost, "/api/tasks", `{"title":"b","direct":true}`)
	idB := string(res.Task.ID)

	api.clk.Advance(24 * time.Hour)
	_, res = api.call(http.MethodPost, "/api/tasks/"+idA+"/complete", "")
	require.NotNil(t, res.Reward)
	assert.True(t, res.Reward.IsDailyStrike)
	assert.Equal(t, "2026-01-02", res.State.GameState.TodayDate)

	_, res = api.call(http.MethodPost, "/api/session/focus", "")
	assert.False(t, res.Changed)

	_, res = api.call(http.MethodPost, "/api/tasks/"+idB+"/complete", "")
	require.NotNil(t, res.Reward)
	assert.False(t, res.Reward.IsDailyStrike)
	assert.Equal(t, 1, res.State.GameState.Streak)
}
