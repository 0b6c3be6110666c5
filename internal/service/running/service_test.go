package running

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/internal/domain/types"
	"github.com/Temutjin2k/running-app/pkg/logger"
)

const trackGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{"type":"Feature","geometry":{"type":"LineString","coordinates":[[126.9779,37.5663],[126.9800,37.5600],[127.0276,37.4979]]}}
	]
}`

func newRequest(t *testing.T, userID uuid.UUID, sessionID, geojson string) *models.RunningDataRequest {
	t.Helper()

	req := &models.RunningDataRequest{
		SessionID:  sessionID,
		UserID:     userID,
		RawGeoJSON: json.RawMessage(geojson),
	}
	if err := json.Unmarshal([]byte(geojson), &req.GeoJSON); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return req
}

func TestSaveRunningData_Success(t *testing.T) {
	repo := newFakeSessionRepo()
	sink := &fakeSink{}
	svc := New(repo, logger.Discard(), WithPublisher(sink))

	userID := uuid.New()
	start := time.Date(2026, 4, 1, 6, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)
	req := newRequest(t, userID, "run-1", trackGeoJSON)
	req.StartedAt, req.EndedAt = &start, &end

	resp, err := svc.SaveRunningData(context.Background(), req)
	if err != nil {
		t.Fatalf("SaveRunningData: %v", err)
	}
	if !resp.IsSuccess() {
		t.Fatalf("status = %s (%s)", resp.Status, resp.Message)
	}
	if resp.SessionID != "run-1" || resp.FeatureCount != 1 || resp.CoordinateCount != 3 {
		t.Fatalf("response = %+v", resp)
	}

	stored, _ := repo.GetByUserAndSessionID(context.Background(), userID, "run-1")
	if stored == nil || stored.Summary == nil {
		t.Fatal("session with a track must be stored with a derived summary")
	}
	if stored.Summary.DurationSeconds != 2700 {
		t.Errorf("duration = %d", stored.Summary.DurationSeconds)
	}
	if string(stored.GeoJSON) != trackGeoJSON {
		t.Error("geojson must be stored as received")
	}

	if len(sink.events) != 1 || sink.events[0].Type != types.EventSessionSaved || sink.events[0].SessionID != "run-1" {
		t.Fatalf("events = %+v", sink.events)
	}
}

func TestSaveRunningData_ClientSummaryWins(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := New(repo, logger.Discard())

	userID := uuid.New()
	req := newRequest(t, userID, "run-2", trackGeoJSON)
	req.Summary = &models.SessionSummary{DistanceKm: 10, DurationSeconds: 3000}

	if resp, err := svc.SaveRunningData(context.Background(), req); err != nil || !resp.IsSuccess() {
		t.Fatalf("resp = %+v err = %v", resp, err)
	}

	stored, _ := repo.GetByUserAndSessionID(context.Background(), userID, "run-2")
	if stored.Summary.DistanceKm != 10 {
		t.Errorf("distance = %v, client value must be kept", stored.Summary.DistanceKm)
	}
	if stored.Summary.AvgPaceSecPerKm != 300 || stored.Summary.AvgSpeedKmh != 12 {
		t.Errorf("rates = %v / %v", stored.Summary.AvgPaceSecPerKm, stored.Summary.AvgSpeedKmh)
	}
	if stored.Summary.PointCount != 3 {
		t.Errorf("points = %d", stored.Summary.PointCount)
	}
}

func TestSaveRunningData_NoSummaryForPoints(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := New(repo, logger.Discard())

	userID := uuid.New()
	req := newRequest(t, userID, "run-3", `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[127,37]}}]}`)

	if resp, err := svc.SaveRunningData(context.Background(), req); err != nil || !resp.IsSuccess() {
		t.Fatalf("resp = %+v err = %v", resp, err)
	}

	_, err := svc.GetSessionSummary(context.Background(), userID, "run-3")
	if !errors.Is(err, types.ErrSummaryNotFound) {
		t.Fatalf("err = %v, want ErrSummaryNotFound", err)
	}
}

func TestSaveRunningData_BusinessFailures(t *testing.T) {
	start := time.Date(2026, 4, 1, 6, 0, 0, 0, time.UTC)
	before := start.Add(-time.Minute)

	tests := []struct {
		name    string
		geojson string
		mutate  func(*models.RunningDataRequest)
		wantMsg string
	}{
		{
			name:    "no features",
			geojson: `{"type":"FeatureCollection","features":[]}`,
			wantMsg: "at least one feature",
		},
		{
			name:    "missing geometry",
			geojson: `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":null}]}`,
			wantMsg: "no geometry",
		},
		{
			name:    "unsupported geometry",
			geojson: `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Circle","coordinates":[1,1]}}]}`,
			wantMsg: "unsupported geometry",
		},
		{
			name:    "malformed coordinates",
			geojson: `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"LineString","coordinates":[1,1]}}]}`,
			wantMsg: "malformed geometry",
		},
		{
			name:    "latitude out of range",
			geojson: `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[127,95]}}]}`,
			wantMsg: "out of range",
		},
		{
			name:    "ended before started",
			geojson: trackGeoJSON,
			mutate: func(r *models.RunningDataRequest) {
				r.StartedAt, r.EndedAt = &start, &before
			},
			wantMsg: "ended_at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeSessionRepo()
			sink := &fakeSink{}
			svc := New(repo, logger.Discard(), WithPublisher(sink), WithNotifier(sink))

			req := newRequest(t, uuid.New(), "run", tt.geojson)
			if tt.mutate != nil {
				tt.mutate(req)
			}

			resp, err := svc.SaveRunningData(context.Background(), req)
			if err != nil {
				t.Fatalf("business failure must not be an error: %v", err)
			}
			if resp.Status != types.StatusError {
				t.Fatalf("status = %s", resp.Status)
			}
			if !strings.Contains(resp.Message, tt.wantMsg) {
				t.Fatalf("message = %q, want it to mention %q", resp.Message, tt.wantMsg)
			}
			if len(repo.sessions) != 0 || len(sink.events) != 0 {
				t.Fatal("rejected session must not be stored or announced")
			}
		})
	}
}

func TestSaveRunningData_Duplicate(t *testing.T) {
	svc := New(newFakeSessionRepo(), logger.Discard())
	userID := uuid.New()

	if resp, _ := svc.SaveRunningData(context.Background(), newRequest(t, userID, "run-1", trackGeoJSON)); !resp.IsSuccess() {
		t.Fatalf("first save failed: %s", resp.Message)
	}

	resp, err := svc.SaveRunningData(context.Background(), newRequest(t, userID, "run-1", trackGeoJSON))
	if err != nil {
		t.Fatalf("duplicate must be a business failure: %v", err)
	}
	if resp.Status != types.StatusError || !strings.Contains(resp.Message, "already exists") {
		t.Fatalf("resp = %+v", resp)
	}

	other, _ := svc.SaveRunningData(context.Background(), newRequest(t, uuid.New(), "run-1", trackGeoJSON))
	if !other.IsSuccess() {
		t.Fatal("session ids are unique per user only")
	}
}

func TestSaveRunningData_InfrastructureError(t *testing.T) {
	repo := newFakeSessionRepo()
	repo.createErr = errors.New("connection refused")
	svc := New(repo, logger.Discard())

	resp, err := svc.SaveRunningData(context.Background(), newRequest(t, uuid.New(), "run-1", trackGeoJSON))
	if err == nil || resp != nil {
		t.Fatalf("resp = %+v err = %v, want error", resp, err)
	}
}

func TestSaveRunningData_EventFailureDoesNotFailSave(t *testing.T) {
	sink := &fakeSink{err: errBroker}
	feed := &fakeSink{err: types.ErrFeedNotConnected}
	svc := New(newFakeSessionRepo(), logger.Discard(), WithPublisher(sink), WithNotifier(feed))

	resp, err := svc.SaveRunningData(context.Background(), newRequest(t, uuid.New(), "run-1", trackGeoJSON))
	if err != nil || !resp.IsSuccess() {
		t.Fatalf("resp = %+v err = %v", resp, err)
	}
	if len(sink.events) != 1 || len(feed.events) != 1 {
		t.Fatal("both sinks must be attempted")
	}
}

func TestGetUserSessions(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := New(repo, logger.Discard())
	userID := uuid.New()

	for _, id := range []string{"a", "b", "c"} {
		if resp, _ := svc.SaveRunningData(context.Background(), newRequest(t, userID, id, trackGeoJSON)); !resp.IsSuccess() {
			t.Fatalf("save %s: %s", id, resp.Message)
		}
	}
	_, _ = svc.SaveRunningData(context.Background(), newRequest(t, uuid.New(), "other", trackGeoJSON))

	got, err := svc.GetUserSessions(context.Background(), userID, 2)
	if err != nil {
		t.Fatalf("GetUserSessions: %v", err)
	}
	if len(got) != 2 || got[0].SessionID != "c" || got[1].SessionID != "b" {
		t.Fatalf("sessions = %v, want newest two", sessionIDs(got))
	}

	if _, _ = svc.GetUserSessions(context.Background(), userID, 0); repo.lastLimit != DefaultListLimit {
		t.Errorf("limit 0 -> %d, want default", repo.lastLimit)
	}
	if _, _ = svc.GetUserSessions(context.Background(), userID, 1000); repo.lastLimit != MaxListLimit {
		t.Errorf("limit 1000 -> %d, want max", repo.lastLimit)
	}
}

func TestGetSessionData(t *testing.T) {
	svc := New(newFakeSessionRepo(), logger.Discard())
	owner := uuid.New()
	_, _ = svc.SaveRunningData(context.Background(), newRequest(t, owner, "run-1", trackGeoJSON))

	s, err := svc.GetSessionData(context.Background(), owner, "run-1")
	if err != nil || s == nil {
		t.Fatalf("s = %v err = %v", s, err)
	}

	s, err = svc.GetSessionData(context.Background(), uuid.New(), "run-1")
	if err != nil || s != nil {
		t.Fatalf("other user must not see the session, got %v err = %v", s, err)
	}

	if _, err := svc.GetSessionSummary(context.Background(), owner, "missing"); !errors.Is(err, types.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func sessionIDs(sessions []*models.RunningSession) []string {
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.SessionID)
	}
	return ids
}
