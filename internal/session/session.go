package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"survey-app/internal/config"
	"survey-app/internal/metrics"
	"survey-app/internal/models"

	"github.com/rs/zerolog/log"
)

// ErrSpeciesRequired blocks a submission without a species name.
var ErrSpeciesRequired = errors.New("session: species name is required")

// RecordStore is the part of the record store a session needs.
type RecordStore interface {
	Load(ctx context.Context, project string) ([]models.Record, error)
	Append(ctx context.Context, project string, record models.Record) error
}

// Projects selects the active partition.
type Projects interface {
	Current() string
	Select(ctx context.Context, name string) (string, error)
}

// OverlaySource provides the cached road overlay, nil when none was downloaded.
type OverlaySource interface {
	Get(ctx context.Context) (*models.FeatureCollection, error)
}

// Form is a record submission from the form controller. Empty optional
// fields fall back to the last used value or the current time.
type Form struct {
	Species   string `json:"species"`
	Method    string `json:"method"`
	Collector string `json:"collector"`
	Notes     string `json:"notes"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

// Prefill is what the form shows before the user types anything.
type Prefill struct {
	Coordinate models.Coordinate `json:"coordinate"`
	Method     models.Method     `json:"method"`
	Collector  string            `json:"collector"`
	Notes      string            `json:"notes"`
	Methods    []models.Method   `json:"methods"`
}

// Session is the explicit context of one user's survey session: the active
// project, the location state and the last used form values. Events are
// processed one at a time.
type Session struct {
	store    RecordStore
	projects Projects
	overlay  OverlaySource
	defaults config.Defaults
	now      func() time.Time

	mu        sync.Mutex
	opened    bool
	project   string
	state     State
	collector string
	method    models.Method
	notes     string
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now for date and time stamping.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session. Open must run before the first event.
func New(store RecordStore, projects Projects, overlay OverlaySource, defaults config.Defaults, opts ...Option) *Session {
	s := &Session{
		store:     store,
		projects:  projects,
		overlay:   overlay,
		defaults:  defaults,
		now:       time.Now,
		collector: defaults.Collector,
		method:    defaults.Method,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open selects the registry's current project and seeds the canonical
// coordinate from it. Calling Open again has no effect. A project whose
// partition cannot be read still opens, seeded from the defaults, and the
// read error is returned so the caller can report it.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opened {
		return nil
	}
	err := s.switchProject(ctx, s.projects.Current())
	if s.project != "" {
		s.opened = true
	}
	return err
}

// SwitchProject makes name active (or the first project if name is unknown)
// and reseeds the coordinate from its records. A partition that cannot be
// read still becomes active so it can be replaced; the read error is
// returned alongside its name.
func (s *Session) SwitchProject(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.switchProject(ctx, name)
	if s.project != "" {
		s.opened = true
	}
	return s.project, err
}

func (s *Session) switchProject(ctx context.Context, name string) error {
	selected, err := s.projects.Select(ctx, name)
	if err != nil {
		return fmt.Errorf("session: failed to select project: %w", err)
	}
	s.project = selected

	records, err := s.store.Load(ctx, selected)
	if err != nil {
		s.state = Initialize(nil, s.defaults)
		log.Warn().Err(err).Str("project", selected).
			Str("coordinate", s.state.Coordinate.String()).Msg("session project selected with unreadable records")
		return fmt.Errorf("session: failed to load project %s: %w", selected, err)
	}

	s.state = Initialize(records, s.defaults)
	log.Info().Str("project", selected).Int("records", len(records)).
		Str("coordinate", s.state.Coordinate.String()).Msg("session project selected")
	return nil
}

// Project returns the active project.
func (s *Session) Project() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == "" {
		return s.projects.Current()
	}
	return s.project
}

// State returns a copy of the current location state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch feeds one event through Reduce and returns the new state and
// whether the map must be redrawn.
func (s *Session) Dispatch(ctx context.Context, ev Event) (State, bool, error) {
	if err := s.Open(ctx); err != nil {
		return State{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.state
	next, redraw := Reduce(s.state, ev, s.defaults)
	s.state = next

	changed := next != before
	metrics.LocationEvents.WithLabelValues(ev.Kind(), strconv.FormatBool(changed)).Inc()
	log.Debug().Str("event", ev.Kind()).Bool("changed", changed).Bool("redraw", redraw).
		Str("coordinate", next.Coordinate.String()).Msg("location event")

	return next, redraw, nil
}

// Render builds the map view for the current state. A failing overlay read
// is logged and the view is returned without it.
func (s *Session) Render(ctx context.Context, tiles string) (models.MapView, error) {
	if err := s.Open(ctx); err != nil {
		return models.MapView{}, err
	}

	s.mu.Lock()
	s.state = guardState(s.state, s.defaults)
	project, center := s.project, s.state.Coordinate
	s.mu.Unlock()

	records, err := s.store.Load(ctx, project)
	if err != nil {
		return models.MapView{}, fmt.Errorf("session: failed to load records: %w", err)
	}

	if tiles != models.TilesNone {
		tiles = models.TilesOSM
	}
	view := models.MapView{
		Project: project,
		Center:  center,
		Zoom:    s.defaults.Zoom,
		Tiles:   tiles,
		Markers: Markers(records),
	}

	if s.overlay != nil {
		fc, err := s.overlay.Get(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("road overlay unavailable")
		} else {
			view.Overlay = fc
		}
	}
	return view, nil
}

// Markers returns a marker per record whose coordinate is set.
func Markers(records []models.Record) []models.Marker {
	markers := make([]models.Marker, 0, len(records))
	for _, r := range records {
		if !r.Coordinate().IsSet() {
			continue
		}
		markers = append(markers, models.Marker{
			Position: r.Coordinate(),
			Species:  r.Species,
			Date:     r.Date,
			Popup:    fmt.Sprintf("%s (%s)", r.Species, r.Date),
		})
	}
	return markers
}

// Prefill returns the values the form starts with.
func (s *Session) Prefill(ctx context.Context) (Prefill, error) {
	if err := s.Open(ctx); err != nil {
		return Prefill{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return Prefill{
		Coordinate: Guard(s.state.Coordinate, s.defaults),
		Method:     s.method,
		Collector:  s.collector,
		Notes:      s.notes,
		Methods:    models.Methods,
	}, nil
}

// Submit appends a record at the canonical coordinate as it is right now.
func (s *Session) Submit(ctx context.Context, form Form) (models.Record, error) {
	if err := s.Open(ctx); err != nil {
		return models.Record{}, err
	}

	species := strings.TrimSpace(form.Species)
	if species == "" {
		metrics.SubmissionsRejected.Inc()
		return models.Record{}, ErrSpeciesRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = guardState(s.state, s.defaults)
	coord := s.state.Coordinate

	collector := strings.TrimSpace(form.Collector)
	if collector == "" {
		collector = s.collector
	}
	method := models.ParseMethod(form.Method, s.method)

	date, clock := models.Stamp(s.now())
	if form.Date != "" {
		if _, err := time.Parse(models.DateLayout, form.Date); err == nil {
			date = form.Date
		} else {
			log.Warn().Str("date", form.Date).Msg("ignoring unparseable date, using today")
		}
	}
	if form.Time != "" {
		if _, err := models.ParseTimeOfDay(form.Time); err == nil {
			clock = form.Time
		} else {
			log.Warn().Str("time", form.Time).Msg("ignoring unparseable time, using now")
		}
	}

	record := models.Record{
		Date:      date,
		Time:      clock,
		Lat:       coord.Lat,
		Lon:       coord.Lon,
		Species:   species,
		Method:    method,
		Collector: collector,
		Notes:     form.Notes,
	}

	if err := s.store.Append(ctx, s.project, record); err != nil {
		return models.Record{}, fmt.Errorf("session: failed to save record: %w", err)
	}

	s.collector = collector
	s.method = method
	s.notes = form.Notes
	metrics.RecordsWritten.WithLabelValues("append").Inc()
	log.Info().Str("project", s.project).Str("species", species).
		Str("coordinate", coord.String()).Msg("record saved")

	return record, nil
}
