// Package session holds the editing state machine of a single user session.
//
// Transitions are pure functions over model.SessionState:
//
//	Empty --Loaded--> Ready --Dispatch--> Loading --Succeeded--> Ready
//	                                              --Failed-----> Failed
//	Failed --Dispatch--> Loading, any --Empty--> Empty
package session

import (
	"github.com/UnendingLoop/NanoEdit/internal/model"
)

func Empty() model.SessionState {
	return model.SessionState{Phase: model.PhaseEmpty}
}

// Loaded replaces the state wholesale with a fresh original.
func Loaded(original model.ImagePayload) model.SessionState {
	if original == "" {
		return Empty()
	}
	return model.SessionState{Phase: model.PhaseReady, Original: original}
}

// Dispatch moves to Loading. ok is false when there is nothing to edit or a
// call is already in flight; s is then returned unchanged.
func Dispatch(s model.SessionState) (next model.SessionState, ok bool) {
	if !s.HasOriginal() || s.IsLoading() {
		return s, false
	}
	s.Phase = model.PhaseLoading
	s.Err = nil
	return s, true
}

func Succeeded(s model.SessionState, processed model.ImagePayload) model.SessionState {
	s.Phase = model.PhaseReady
	s.Processed = processed
	s.Err = nil
	return s
}

// Failed keeps the previous processed image.
func Failed(s model.SessionState, err *model.EditError) model.SessionState {
	s.Phase = model.PhaseFailed
	s.Err = err
	return s
}

// Render derives what the page shows from the state and pending prompt.
func Render(s model.SessionState, prompt string) model.View {
	v := model.View{
		Phase:           s.Phase,
		Original:        s.Original,
		Processed:       s.Processed,
		IsLoading:       s.IsLoading(),
		Error:           s.ErrorMessage(),
		Prompt:          prompt,
		CanSubmitPrompt: s.HasOriginal() && !s.IsLoading() && canSubmit(prompt),
		ResultLabel:     model.LabelPending,
	}
	if s.Err != nil {
		v.ErrorKind = s.Err.Kind
	}
	if s.Processed != "" {
		v.ResultLabel = model.LabelResult
		v.DownloadName = model.DownloadName
	}
	return v
}
