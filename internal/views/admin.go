package views

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/router-for-me/ModelMarket/internal/catalog"
	"github.com/router-for-me/ModelMarket/internal/market"
	log "github.com/sirupsen/logrus"
)

// Admin status filter values.
const (
	FilterPending  = "pending"
	FilterApproved = "approved"
	FilterRejected = "rejected"
	FilterAll      = "all"
)

// RejectionReasonMessage is the notice shown when a rejection has no reason.
const RejectionReasonMessage = "Please provide a rejection reason."

// ErrRejectionReasonRequired is returned when a rejection is requested without a reason.
var ErrRejectionReasonRequired = errors.New("views: rejection reason required")

// StatusFilterOptions lists the admin filter values in display order.
func StatusFilterOptions() []string {
	return []string{FilterPending, FilterApproved, FilterRejected, FilterAll}
}

// ValidStatusFilter reports whether filter is one of StatusFilterOptions.
func ValidStatusFilter(filter string) bool {
	return slices.Contains(StatusFilterOptions(), filter)
}

// StatusFilterChanged selects a new admin filter.
type StatusFilterChanged struct{ Status string }

// ReasonChanged records the rejection reason text typed for a record.
type ReasonChanged struct {
	ID     string
	Reason string
}

// UpdateStarted marks a record as in flight.
type UpdateStarted struct{ ID string }

// UpdateFinished clears the in-flight mark and posts Notice.
type UpdateFinished struct {
	ID     string
	Notice Notice
}

// NoticeAdded posts a notice.
type NoticeAdded struct{ Notice Notice }

func (StatusFilterChanged) isEvent() {}
func (ReasonChanged) isEvent()       {}
func (UpdateStarted) isEvent()       {}
func (UpdateFinished) isEvent()      {}
func (NoticeAdded) isEvent()         {}

// AdminState is a snapshot of the moderation view.
type AdminState struct {
	StatusFilter string
	Models       []market.Model
	Loading      bool
	Reasons      map[string]string
	Updating     map[string]struct{}
	Notices      []Notice
	Gen          Generation
}

// NewAdminState returns the initial admin state, filtered to pending records.
func NewAdminState() AdminState {
	return AdminState{StatusFilter: FilterPending, Loading: true}
}

// IsUpdating reports whether id has an update in flight.
func (s AdminState) IsUpdating(id string) bool {
	_, ok := s.Updating[id]
	return ok
}

// ReduceAdmin applies ev to s.
func ReduceAdmin(s AdminState, ev Event) AdminState {
	switch e := ev.(type) {
	case FetchStarted:
		s.Gen++
		s.Loading = true
	case FetchSucceeded:
		if e.Gen != s.Gen {
			return s
		}
		s.Models = slices.Clone(e.Models)
		s.Loading = false
	case FetchFailed:
		if e.Gen != s.Gen {
			return s
		}
		s.Loading = false
		s.Notices = appendNotice(s.Notices, ErrorNotice(e.Message))
	case StatusFilterChanged:
		s.StatusFilter = e.Status
	case ReasonChanged:
		reasons := maps.Clone(s.Reasons)
		if reasons == nil {
			reasons = make(map[string]string)
		}
		reasons[e.ID] = e.Reason
		s.Reasons = reasons
	case UpdateStarted:
		updating := maps.Clone(s.Updating)
		if updating == nil {
			updating = make(map[string]struct{})
		}
		updating[e.ID] = struct{}{}
		s.Updating = updating
	case UpdateFinished:
		updating := maps.Clone(s.Updating)
		delete(updating, e.ID)
		s.Updating = updating
		s.Notices = appendNotice(s.Notices, e.Notice)
	case NoticeAdded:
		s.Notices = appendNotice(s.Notices, e.Notice)
	case NoticeDismissed:
		s.Notices = dismiss(s.Notices, e.ID)
	}
	return s
}

// AdminRow is one moderation record as rendered.
type AdminRow struct {
	Model       market.Model `json:"model"`
	StatusLabel string       `json:"status_label"`
	StatusBadge string       `json:"status_badge"`
	UploadedBy  string       `json:"uploaded_by"`
	CreatedAt   string       `json:"created_at"`
	Reason      string       `json:"reason,omitempty"`
	Updating    bool         `json:"updating"`
}

// AdminView is the rendered moderation page.
type AdminView struct {
	StatusFilter string     `json:"status_filter"`
	Options      []string   `json:"options"`
	Loading      bool       `json:"loading"`
	Rows         []AdminRow `json:"rows"`
	Notices      []Notice   `json:"notices,omitempty"`
}

// View renders s.
func (s AdminState) View() AdminView {
	rows := make([]AdminRow, 0, len(s.Models))
	for _, m := range s.Models {
		rows = append(rows, AdminRow{
			Model:       m,
			StatusLabel: catalog.StatusLabel(m.Status),
			StatusBadge: catalog.BadgeVariant(m.Status),
			UploadedBy:  m.UploadedBy.DisplayName(),
			CreatedAt:   catalog.FormatDate(m.CreatedAt.Time),
			Reason:      s.Reasons[m.ID],
			Updating:    s.IsUpdating(m.ID),
		})
	}
	return AdminView{
		StatusFilter: s.StatusFilter,
		Options:      StatusFilterOptions(),
		Loading:      s.Loading,
		Rows:         rows,
		Notices:      s.Notices,
	}
}

// AdminClient is the backend surface the moderation view uses.
type AdminClient interface {
	ListPendingModels(ctx context.Context, params market.PageParams) (*market.Envelope[market.ModelList], error)
	ListAdminModels(ctx context.Context, params market.AdminListParams) (*market.Envelope[market.ModelList], error)
	UpdateModelStatus(ctx context.Context, id string, status market.Status, reason string) (*market.Envelope[market.ModelData], error)
}

// Admin drives the moderation view.
type Admin struct {
	client AdminClient

	mu    sync.Mutex
	state AdminState
}

// NewAdmin constructs an Admin controller.
func NewAdmin(client AdminClient) *Admin {
	return &Admin{client: client, state: NewAdminState()}
}

// State returns the current snapshot.
func (a *Admin) State() AdminState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Dispatch applies ev and returns the new snapshot.
func (a *Admin) Dispatch(ev Event) AdminState {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = ReduceAdmin(a.state, ev)
	return a.state
}

// Load issues exactly one list fetch for the current filter. A failed fetch is
// posted as a notice and also returned.
func (a *Admin) Load(ctx context.Context) (AdminState, error) {
	started := a.Dispatch(FetchStarted{})
	gen, filter := started.Gen, started.StatusFilter

	var (
		env *market.Envelope[market.ModelList]
		err error
	)
	if filter == FilterPending {
		env, err = a.client.ListPendingModels(ctx, market.PageParams{})
	} else {
		env, err = a.client.ListAdminModels(ctx, market.AdminListParams{Status: filter})
	}
	if err != nil {
		log.WithError(err).Warnf("views: admin fetch (%s) failed", filter)
		return a.Dispatch(FetchFailed{Gen: gen, Message: err.Error()}), err
	}
	return a.Dispatch(FetchSucceeded{Gen: gen, Models: env.Data.Models}), nil
}

// SetStatusFilter switches the filter and refetches. An unchanged filter is a no-op.
func (a *Admin) SetStatusFilter(ctx context.Context, filter string) (AdminState, error) {
	if a.State().StatusFilter == filter {
		return a.State(), nil
	}
	a.Dispatch(StatusFilterChanged{Status: filter})
	return a.Load(ctx)
}

// SetReason records the rejection reason text for id.
func (a *Admin) SetReason(id, reason string) AdminState {
	return a.Dispatch(ReasonChanged{ID: id, Reason: reason})
}

// RequestStatus moves record id to status. A rejection without reason text makes
// no call and returns ErrRejectionReasonRequired. A successful update refetches the
// list; a failed refetch only shows up as a notice.
func (a *Admin) RequestStatus(ctx context.Context, id string, status market.Status) (AdminState, error) {
	reason := ""
	if status == market.StatusRejected {
		reason = a.State().Reasons[id]
		if strings.TrimSpace(reason) == "" {
			return a.Dispatch(NoticeAdded{Notice: ErrorNotice(RejectionReasonMessage)}), ErrRejectionReasonRequired
		}
	}

	a.Dispatch(UpdateStarted{ID: id})
	if _, err := a.client.UpdateModelStatus(ctx, id, status, reason); err != nil {
		log.WithError(err).Warnf("views: update status of %s failed", id)
		return a.Dispatch(UpdateFinished{ID: id, Notice: ErrorNotice(err.Error())}), err
	}
	a.Dispatch(UpdateFinished{ID: id, Notice: SuccessNotice(fmt.Sprintf("Model %s successfully!", status))})
	state, _ := a.Load(ctx)
	return state, nil
}
