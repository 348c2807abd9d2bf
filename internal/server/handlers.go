package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	apperrors "dealer-dashboard/internal/common/errors"
	"dealer-dashboard/internal/listctrl"
	"dealer-dashboard/internal/models"
	"dealer-dashboard/internal/notify"
	"dealer-dashboard/internal/otp"
)

// listView is the JSON shape both table pages render from.
type listView[E listctrl.Entity] struct {
	Items         []E                   `json:"items"`
	Window        listctrl.PageWindow   `json:"window"`
	Label         string                `json:"label"`
	Pages         []listctrl.PageButton `json:"pages"`
	Meta          *models.PageMeta      `json:"meta,omitempty"`
	Mode          listctrl.ModalMode    `json:"mode"`
	Selected      *E                    `json:"selected,omitempty"`
	Notifications []notify.Notification `json:"notifications"`
}

func renderList[E listctrl.Entity](c *listctrl.Controller[E], n *notify.Notifier) listView[E] {
	w := c.Window()
	return listView[E]{
		Items:         c.PageItems(),
		Window:        w,
		Label:         w.Label(),
		Pages:         w.Buttons(),
		Meta:          c.Meta(),
		Mode:          c.Mode(),
		Selected:      c.Selected(),
		Notifications: n.Drain(),
	}
}

// pageParam reads the requested page from the query string, zero when
// absent or unparseable. Out-of-range values are clamped downstream.
func pageParam(r *http.Request) int {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 0
	}
	p, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return p
}

func (s *Server) handleDealersPage(w http.ResponseWriter, r *http.Request) {
	if err := s.dealers.Load(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	if p := pageParam(r); p != 0 {
		s.dealers.GoToPage(p)
	}
	writeJSON(w, http.StatusOK, renderList(s.dealers, s.notifier))
}

func (s *Server) handleSubmissionsPage(w http.ResponseWriter, r *http.Request) {
	if err := s.submissions.Load(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	if p := pageParam(r); p != 0 {
		s.submissions.GoToPage(p)
	}
	writeJSON(w, http.StatusOK, renderList(s.submissions, s.notifier))
}

// handleDealerModal drives the modal state machine: action is one of
// view, add, edit or close, with id naming the row for view and edit.
func (s *Server) handleDealerModal(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, apperrors.NewFormValidationError("malformed form body"))
		return
	}
	if err := modalAction(s.dealers, "dealer", r.PostForm.Get("action"), r.PostForm.Get("id")); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderList(s.dealers, s.notifier))
}

func (s *Server) handleSubmissionModal(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, apperrors.NewFormValidationError("malformed form body"))
		return
	}
	action := r.PostForm.Get("action")
	if action == "add" || action == "edit" {
		s.writeError(w, apperrors.NewFormValidationError("submissions are view and delete only"))
		return
	}
	if err := modalAction(s.submissions, "submission", action, r.PostForm.Get("id")); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderList(s.submissions, s.notifier))
}

func modalAction[E listctrl.Entity](c *listctrl.Controller[E], resource, action, id string) error {
	switch action {
	case "add":
		c.OpenAdd()
	case "view", "edit":
		entity, ok := c.Find(id)
		if !ok {
			return apperrors.NewResourceMissingError(resource, id)
		}
		if action == "view" {
			c.OpenView(entity)
		} else {
			c.OpenEdit(entity)
		}
	case "close":
		c.CloseModal()
	default:
		return apperrors.NewFormValidationError("unknown modal action " + strconv.Quote(action))
	}
	return nil
}

// handleDealerSubmit routes the open form to create or update depending
// on the modal mode. Validation and backend failures keep the modal open
// with the draft intact; the response reflects that state.
func (s *Server) handleDealerSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, apperrors.NewFormValidationError("malformed form body"))
		return
	}
	err := s.dealers.Submit(r.Context(), r.PostForm)
	view := renderList(s.dealers, s.notifier)
	if err != nil {
		se := apperrors.AsStandard(err)
		writeJSON(w, statusFor(se), map[string]interface{}{
			"success": false,
			"message": se.UserMessage(),
			"draft":   s.dealers.Draft(),
			"view":    view,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "view": view})
}

func (s *Server) handleDealerDelete(w http.ResponseWriter, r *http.Request) {
	deleteEntity(s, w, r, s.dealers, "dealer")
}

func (s *Server) handleSubmissionDelete(w http.ResponseWriter, r *http.Request) {
	deleteEntity(s, w, r, s.submissions, "submission")
}

// deleteEntity requires the confirmed query flag, mirroring the
// confirmation dialog: without it the request is acknowledged and
// nothing is deleted.
func deleteEntity[E listctrl.Entity](s *Server, w http.ResponseWriter, r *http.Request, c *listctrl.Controller[E], resource string) {
	id := mux.Vars(r)["id"]
	entity, ok := c.Find(id)
	if !ok {
		s.writeError(w, apperrors.NewResourceMissingError(resource, id))
		return
	}

	confirmed := r.URL.Query().Get("confirmed") == "true"
	if err := c.Delete(r.Context(), entity, confirmed); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"confirmed": confirmed,
		"view":      renderList(c, s.notifier),
	})
}

// handleOverview combines the aggregate totals with the five most recent
// dealers, both read through the query cache.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	totals := s.fetchOverview(r.Context())
	if !totals.Success {
		s.writeError(w, totals.Err)
		return
	}

	if err := s.dealers.Load(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	latest := s.dealers.Head(5)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"stats":         totals.Data,
		"latestDealers": latest,
		"notifications": s.notifier.Drain(),
	})
}

// flowView is the JSON shape the reset screens render from.
type flowView struct {
	State         otp.State             `json:"state"`
	Params        string                `json:"params"`
	Boxes         []string              `json:"boxes"`
	Focus         int                   `json:"focus"`
	LastError     string                `json:"lastError,omitempty"`
	Notifications []notify.Notification `json:"notifications"`
}

func (s *Server) renderFlow(f *otp.Flow) flowView {
	return flowView{
		State:         f.State(),
		Params:        f.Params().Encode(),
		Boxes:         f.Boxes(),
		Focus:         f.FocusIndex(),
		LastError:     f.LastError(),
		Notifications: s.notifier.Drain(),
	}
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, apperrors.NewFormValidationError("malformed form body"))
		return
	}
	flow := s.newFlow(r)
	out := flow.RequestCode(r.Context(), r.PostForm.Get("email"))
	s.writeOutcome(w, flow, out)
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, apperrors.NewFormValidationError("malformed form body"))
		return
	}
	flow := s.newFlow(r)
	for i := 0; ; i++ {
		name := "digit" + strconv.Itoa(i)
		if !r.PostForm.Has(name) {
			break
		}
		flow.SetDigit(i, r.PostForm.Get(name))
	}
	out := flow.Verify(r.Context())
	s.writeOutcome(w, flow, out)
}

func (s *Server) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	flow := s.newFlow(r)
	out := flow.Resend(r.Context())
	s.writeOutcome(w, flow, out)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, apperrors.NewFormValidationError("malformed form body"))
		return
	}
	flow := s.newFlow(r)
	out := flow.ResetPassword(r.Context(), r.PostForm.Get("newPassword"))
	s.writeOutcome(w, flow, out)
}

func (s *Server) writeOutcome(w http.ResponseWriter, flow *otp.Flow, out otp.Outcome) {
	status := http.StatusOK
	if !out.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]interface{}{
		"success": out.Success,
		"message": out.Message,
		"nav":     out.Nav,
		"delayMs": out.Delay.Milliseconds(),
		"flow":    s.renderFlow(flow),
	})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	se := apperrors.AsStandard(err)
	s.logger.Warn("request failed", map[string]interface{}{
		"code":  string(se.Code),
		"error": se.Error(),
	})
	writeJSON(w, statusFor(se), map[string]interface{}{
		"success": false,
		"message": se.UserMessage(),
		"code":    se.Code,
	})
}

func statusFor(se *apperrors.StandardError) int {
	switch se.Kind {
	case apperrors.KindValidation, apperrors.KindPrecondition:
		return http.StatusUnprocessableEntity
	case apperrors.KindNetwork:
		return http.StatusBadGateway
	default:
		if se.Code == apperrors.ErrCodeResourceMissing {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
