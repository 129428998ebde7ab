package navigator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yoshiyuki1026/smtd/internal/model"
)

type fakeState struct {
	mode   model.NavigatorMode
	recent []model.Completion
}

func (s fakeState) NavigatorMode() model.NavigatorMode { return s.mode }

func (s fakeState) RecentCompletions(int) []model.Completion { return s.recent }

func postSpeak(t *testing.T, h *Handler, body string) (*httptest.ResponseRecorder, speakResponse) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.Speak(rr, httptest.NewRequest(http.MethodPost, "/api/navigator", strings.NewReader(body)))
	var out speakResponse
	if rr.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	}
	return rr, out
}

func TestHandler_DefaultsFromState(t *testing.T) {
	gen := &fakeGenerator{text: "悪くない。"}
	svc, _ := newServiceForTest(t, gen)
	state := fakeState{
		mode:   model.NavigatorB,
		recent: []model.Completion{{Title: "Buy milk", CompletedAt: time.Now()}},
	}
	h := NewHandler(svc, state)

	rr, out := postSpeak(t, h, `{"mode":"standard","context":"success"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, model.NavigatorB, out.Navigator)
	assert.Equal(t, "悪くない。", out.Line)
	assert.Equal(t, SourceGenerated, out.Source)
	assert.Equal(t, Boss.System, gen.system)
	assert.Contains(t, gen.prompt, "- Buy milk")
}

func TestHandler_EmptyContextIsGreeting(t *testing.T) {
	svc, _ := newServiceForTest(t, nil)
	h := NewHandler(svc, fakeState{mode: model.NavigatorA})

	rr, out := postSpeak(t, h, `{}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, model.ContextIgnition, out.Context)
	assert.Equal(t, SourceFallback, out.Source)
}

func TestHandler_BadInput(t *testing.T) {
	svc, _ := newServiceForTest(t, nil)
	h := NewHandler(svc, nil)

	rr, _ := postSpeak(t, h, `{"mode":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = postSpeak(t, h, `{"mode":"standard","context":"dance"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid mode or context")
}
