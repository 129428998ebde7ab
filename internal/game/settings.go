package game

import "github.com/Yoshiyuki1026/smtd/internal/model"

// SetNavigatorMode switches persona. Unknown modes are ignored.
func (e *Engine) SetNavigatorMode(mode model.NavigatorMode) bool {
	if !mode.Valid() || mode == e.navigator {
		return false
	}
	e.navigator = mode
	e.commit(e.event(EventSettingsChanged, nil))
	return true
}

func (e *Engine) SetDirectAddDefault(on bool) bool {
	if e.ui.DirectAddDefault == on {
		return false
	}
	e.ui.DirectAddDefault = on
	e.commit(e.event(EventSettingsChanged, nil))
	return true
}
