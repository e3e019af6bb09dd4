package analyzer

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/helmcode/profile-comparator/pkg/gateway"
	"github.com/helmcode/profile-comparator/pkg/model"
	"github.com/helmcode/profile-comparator/pkg/store"
)

var (
	// ErrBusy is returned when Submit is called while another submission is in flight.
	ErrBusy = eris.New("an analysis is already in progress")
	// ErrEmptyBusinessName rejects a submission without a business to analyze.
	ErrEmptyBusinessName = eris.New("business name is required")
)

// MsgEmptyBusinessName is what the store records for ErrEmptyBusinessName.
const MsgEmptyBusinessName = "Please enter a business name."

// View is a screen the workflow can send the user to.
type View string

const (
	ViewHome    View = "home"
	ViewResults View = "results"
)

// Navigator moves the user between views.
type Navigator interface {
	Navigate(View)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(View)

func (f NavigatorFunc) Navigate(v View) { f(v) }

type Option func(*Analyzer)

func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		a.log = l
	}
}

// Analyzer runs one analysis request end to end: pick the backend call,
// record the outcome in the store and navigate on success.
type Analyzer struct {
	gw    gateway.Gateway
	store *store.Store
	nav   Navigator
	log   *zap.Logger

	processing atomic.Bool
}

func New(gw gateway.Gateway, st *store.Store, nav Navigator, opts ...Option) *Analyzer {
	if nav == nil {
		nav = NavigatorFunc(func(View) {})
	}
	a := &Analyzer{
		gw:    gw,
		store: st,
		nav:   nav,
		log:   zap.L(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With(zap.String("session_id", st.SessionID()))
	return a
}

// IsProcessing reports whether a submission is in flight.
func (a *Analyzer) IsProcessing() bool {
	return a.processing.Load()
}

// Submit analyzes in.BusinessName, or compares it with the first competitor
// when any are given. The outcome is always written to the store; the
// returned error is the same failure, for callers that want it.
func (a *Analyzer) Submit(ctx context.Context, in model.SearchInput) error {
	if !a.processing.CompareAndSwap(false, true) {
		a.log.Warn("submission rejected, another is in flight", zap.String("business", in.BusinessName))
		return ErrBusy
	}
	defer a.processing.Store(false)

	in = in.Clone()

	a.store.ClearError()
	a.store.SetLoading(true)
	defer a.store.SetLoading(false)
	a.store.RecordSearch(in)

	if in.BusinessName == "" {
		a.store.RecordError(MsgEmptyBusinessName)
		return ErrEmptyBusinessName
	}

	log := a.log.With(zap.String("business", in.BusinessName))

	var (
		result *model.AnalysisResult
		err    error
	)
	if in.HasCompetitors() {
		competitor := in.CompetitorNames[0]
		if len(in.CompetitorNames) > 1 {
			log.Info("only the first competitor is compared",
				zap.String("competitor", competitor),
				zap.Strings("ignored", in.CompetitorNames[1:]),
			)
		}
		log.Info("running comparison", zap.String("competitor", competitor))
		result, err = a.gw.CompareBusinesses(ctx, in.BusinessName, competitor)
	} else {
		log.Info("running analysis")
		result, err = a.gw.AnalyzeBusiness(ctx, in.BusinessName)
	}

	if err == nil && result == nil {
		err = &gateway.Error{Kind: gateway.KindGeneric, Message: gateway.MsgGenericError, Cause: eris.New("gateway returned no result")}
	}
	if err != nil {
		msg := failureMessage(err)
		log.Error("analysis failed", zap.String("message", msg), zap.Error(err))
		a.store.RecordError(msg)
		return err
	}

	if result.IsComparison() {
		result.SelectedCompetitors = append([]string(nil), in.CompetitorNames...)
	}
	a.store.RecordResult(result)
	log.Info("analysis recorded", zap.String("result_type", string(result.Type)))
	a.nav.Navigate(ViewResults)
	return nil
}

// Retry resubmits the last search unchanged. Without one it does nothing.
func (a *Analyzer) Retry(ctx context.Context) error {
	in, ok := a.store.LastSearch()
	if !ok {
		return nil
	}
	a.log.Info("retrying last search", zap.String("business", in.BusinessName))
	return a.Submit(ctx, in)
}

// ClearError drops the recorded error. The last result and search stay.
func (a *Analyzer) ClearError() {
	a.store.ClearError()
}

// failureMessage never re-classifies: gateway errors already carry the text.
func failureMessage(err error) string {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	return gateway.MsgGenericError
}
