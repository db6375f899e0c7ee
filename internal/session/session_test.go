package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"survey-app/internal/models"
	"survey-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 6, 1, 21, 30, 15, 0, time.Local)

type stubOverlay struct {
	fc  *models.FeatureCollection
	err error
}

func (o stubOverlay) Get(ctx context.Context) (*models.FeatureCollection, error) {
	return o.fc, o.err
}

func newTestSession(t *testing.T, overlay OverlaySource) (*Session, *repository.CSVStore, *repository.ProjectRegistry) {
	t.Helper()
	store, err := repository.NewCSVStore(t.TempDir())
	require.NoError(t, err)
	registry := repository.NewProjectRegistry(store, testDefaults.Project)
	sess := New(store, registry, overlay, testDefaults, WithClock(func() time.Time { return fixedNow }))
	return sess, store, registry
}

func TestSession_SubmitIntoEmptyProject(t *testing.T) {
	ctx := context.Background()
	sess, store, _ := newTestSession(t, nil)
	require.NoError(t, sess.Open(ctx))

	_, _, err := sess.Dispatch(ctx, ManualInput{Point: models.Coordinate{Lat: 35.0, Lon: 139.0}})
	require.NoError(t, err)

	record, err := sess.Submit(ctx, Form{Species: "Actias luna", Method: "Light trap"})
	require.NoError(t, err)

	records, err := store.Load(ctx, "default")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record, records[0])
	assert.Equal(t, models.Record{
		Date:      "2026-06-01",
		Time:      "21:30:15",
		Lat:       35.0,
		Lon:       139.0,
		Species:   "Actias luna",
		Method:    models.MethodLightTrap,
		Collector: "M. Yamaguchi",
	}, records[0])
}

func TestSession_OpenSeedsFromLastRecord(t *testing.T) {
	ctx := context.Background()
	sess, store, _ := newTestSession(t, nil)
	require.NoError(t, store.Append(ctx, "default", models.Record{
		Date: "2026-05-30", Time: "20:00:00", Lat: 35.0, Lon: 139.0, Species: "Attacus atlas",
	}))

	require.NoError(t, sess.Open(ctx))
	assert.Equal(t, models.Coordinate{Lat: 35.0, Lon: 139.0}, sess.State().Coordinate)

	prefill, err := sess.Prefill(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Coordinate{Lat: 35.0, Lon: 139.0}, prefill.Coordinate)
	assert.Equal(t, models.MethodLightTrap, prefill.Method)
	assert.Equal(t, models.Methods, prefill.Methods)
}

func TestSession_ClickThenSubmit(t *testing.T) {
	ctx := context.Background()
	sess, _, _ := newTestSession(t, nil)

	state, redraw, err := sess.Dispatch(ctx, MapClick{Point: models.Coordinate{Lat: 36.0, Lon: 140.0}})
	require.NoError(t, err)
	assert.True(t, redraw)
	assert.Equal(t, models.Coordinate{Lat: 36.0, Lon: 140.0}, state.Coordinate)

	// the redraw reports the same point back
	_, redraw, err = sess.Dispatch(ctx, MapRecenter{Point: models.Coordinate{Lat: 36.0, Lon: 140.0}})
	require.NoError(t, err)
	assert.False(t, redraw)

	record, err := sess.Submit(ctx, Form{Species: "Papilio xuthus"})
	require.NoError(t, err)
	assert.Equal(t, 36.0, record.Lat)
	assert.Equal(t, 140.0, record.Lon)
}

func TestSession_ManualZeroResetsBeforeRender(t *testing.T) {
	ctx := context.Background()
	sess, _, _ := newTestSession(t, nil)

	state, redraw, err := sess.Dispatch(ctx, ManualInput{Point: models.Coordinate{Lat: 35.2, Lon: 0}})
	require.NoError(t, err)
	assert.False(t, redraw)
	assert.Equal(t, tokyo, state.Coordinate)

	view, err := sess.Render(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, tokyo, view.Center)
	assert.Equal(t, models.TilesOSM, view.Tiles)
	assert.Equal(t, 18, view.Zoom)
}

func TestSession_SubmitRequiresSpecies(t *testing.T) {
	ctx := context.Background()
	sess, store, _ := newTestSession(t, nil)

	_, err := sess.Submit(ctx, Form{Species: "   "})
	assert.ErrorIs(t, err, ErrSpeciesRequired)

	records, err := store.Load(ctx, "default")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSession_SubmitRemembersLastValues(t *testing.T) {
	ctx := context.Background()
	sess, _, _ := newTestSession(t, nil)

	_, err := sess.Submit(ctx, Form{Species: "a", Method: "bait TRAP", Collector: "K. Sato", Notes: "ridge"})
	require.NoError(t, err)

	record, err := sess.Submit(ctx, Form{Species: "b", Method: "unknown method"})
	require.NoError(t, err)
	assert.Equal(t, models.MethodBaitTrap, record.Method)
	assert.Equal(t, "K. Sato", record.Collector)

	prefill, err := sess.Prefill(ctx)
	require.NoError(t, err)
	assert.Equal(t, "K. Sato", prefill.Collector)
	assert.Empty(t, prefill.Notes)
}

func TestSession_SubmitDateOverrides(t *testing.T) {
	ctx := context.Background()
	sess, _, _ := newTestSession(t, nil)

	record, err := sess.Submit(ctx, Form{Species: "a", Date: "2026-05-01", Time: "19:45"})
	require.NoError(t, err)
	assert.Equal(t, "2026-05-01", record.Date)
	assert.Equal(t, "19:45", record.Time)

	record, err = sess.Submit(ctx, Form{Species: "a", Date: "yesterday", Time: "late"})
	require.NoError(t, err)
	assert.Equal(t, "2026-06-01", record.Date)
	assert.Equal(t, "21:30:15", record.Time)
}

func TestSession_SwitchProject(t *testing.T) {
	ctx := context.Background()
	sess, store, registry := newTestSession(t, nil)

	_, err := registry.Create(ctx, "beetles")
	require.NoError(t, err)
	_, err = registry.Create(ctx, "moths")
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, "moths", models.Record{
		Date: "2026-05-30", Time: "20:00:00", Lat: 34.5, Lon: 135.5, Species: "Actias luna",
	}))

	selected, err := sess.SwitchProject(ctx, "moths")
	require.NoError(t, err)
	assert.Equal(t, "moths", selected)
	assert.Equal(t, models.Coordinate{Lat: 34.5, Lon: 135.5}, sess.State().Coordinate)

	selected, err = sess.SwitchProject(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, "beetles", selected)
	assert.Equal(t, "beetles", sess.Project())
	assert.Equal(t, tokyo, sess.State().Coordinate)

	record, err := sess.Submit(ctx, Form{Species: "Carabus blaptoides"})
	require.NoError(t, err)
	beetles, err := store.Load(ctx, "beetles")
	require.NoError(t, err)
	assert.Equal(t, []models.Record{record}, beetles)
}

func TestSession_RenderMarkersAndOverlay(t *testing.T) {
	ctx := context.Background()
	fc := models.NewFeatureCollection([]models.Feature{
		models.NewLineFeature([]models.Coordinate{{Lat: 35.0, Lon: 139.0}, {Lat: 35.1, Lon: 139.1}}, nil),
	})
	sess, store, _ := newTestSession(t, stubOverlay{fc: fc})
	require.NoError(t, store.Overwrite(ctx, "default", []models.Record{
		{Date: "2026-05-30", Time: "20:00:00", Lat: 35.0, Lon: 139.0, Species: "Actias luna"},
		{Date: "2026-05-30", Time: "20:10:00", Species: "unplaced"},
	}))

	view, err := sess.Render(ctx, models.TilesNone)
	require.NoError(t, err)
	assert.Equal(t, "default", view.Project)
	assert.Equal(t, models.TilesNone, view.Tiles)
	require.Len(t, view.Markers, 1)
	assert.Equal(t, "Actias luna (2026-05-30)", view.Markers[0].Popup)
	assert.Equal(t, fc, view.Overlay)
}

func TestSession_RenderWithoutOverlay(t *testing.T) {
	sess, _, _ := newTestSession(t, stubOverlay{err: errors.New("overlay file is not valid GeoJSON")})

	view, err := sess.Render(context.Background(), "osm")
	require.NoError(t, err)
	assert.Nil(t, view.Overlay)
	assert.Empty(t, view.Markers)
}

func TestSession_OpenCorruptPartition(t *testing.T) {
	ctx := context.Background()
	sess, store, _ := newTestSession(t, nil)
	require.NoError(t, writeRaw(store.Path("default"), "no,header\nhere\n"))

	err := sess.Open(ctx)
	assert.ErrorIs(t, err, repository.ErrCorruptData)
	assert.Equal(t, "default", sess.Project())
	assert.Equal(t, tokyo, sess.State().Coordinate)

	// the session stays open on the unreadable project
	require.NoError(t, sess.Open(ctx))
	_, err = sess.Render(ctx, models.TilesNone)
	assert.ErrorIs(t, err, repository.ErrCorruptData)

	require.NoError(t, store.Overwrite(ctx, "default", nil))
	record, err := sess.Submit(ctx, Form{Species: "Actias luna"})
	require.NoError(t, err)
	records, err := store.Load(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, []models.Record{record}, records)
}

func TestSession_SwitchToCorruptProject(t *testing.T) {
	ctx := context.Background()
	sess, store, registry := newTestSession(t, nil)

	_, err := registry.Create(ctx, "a")
	require.NoError(t, err)
	_, err = registry.Create(ctx, "b")
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, "a", models.Record{
		Date: "2026-05-30", Time: "20:00:00", Lat: 34.5, Lon: 135.5, Species: "Actias luna",
	}))
	_, err = sess.SwitchProject(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, writeRaw(store.Path("b"), "date,time,lat,lon,species\n2026-05-30,20:00:00,north,135.5,x\n"))

	selected, err := sess.SwitchProject(ctx, "b")
	assert.ErrorIs(t, err, repository.ErrCorruptData)
	assert.Equal(t, "b", selected)
	assert.Equal(t, "b", sess.Project())
	assert.Equal(t, "b", registry.Current())
	assert.Equal(t, tokyo, sess.State().Coordinate)

	replacement := []models.Record{
		{Date: "2026-05-30", Time: "20:00:00", Lat: 34.6, Lon: 135.6, Species: "Attacus atlas"},
	}
	require.NoError(t, store.Overwrite(ctx, "b", replacement))

	record, err := sess.Submit(ctx, Form{Species: "Carabus blaptoides"})
	require.NoError(t, err)
	b, err := store.Load(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, append(replacement, record), b)

	a, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, a, 1)
}
