package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kindredhq/kindred/internal/domain/entity"
	"github.com/kindredhq/kindred/internal/domain/recommendation"
	"github.com/kindredhq/kindred/internal/repository/output"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo := output.New(t.TempDir())
	results := map[string]map[entity.Type][]recommendation.Recommendation{
		"u1": {
			entity.Event: {
				recommendation.New("u1", "e1", entity.Event, 0.9,
					[]string{recommendation.ReasonTextSimilarity, recommendation.ReasonCityMatch}),
			},
			entity.Job: {
				recommendation.New("u1", "j1", entity.Job, 0.5, []string{recommendation.ReasonTextSimilarity}),
			},
		},
		"u2": {
			entity.Event: {
				recommendation.New("u2", "e1", entity.Event, 0.3, []string{recommendation.ReasonPopularity}),
			},
		},
	}
	if err := repo.Write(results); err != nil {
		t.Fatalf("Write: %v", err)
	}

	ts := httptest.NewServer(NewServer(repo, zap.NewNop()).Router())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestListUsers(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Users []string `json:"users"`
	}
	if status := get(t, ts.URL+"/api/v1/users", &body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if len(body.Users) != 2 || body.Users[0] != "u1" || body.Users[1] != "u2" {
		t.Errorf("users = %v, want [u1 u2]", body.Users)
	}
}

func TestUserRecommendations(t *testing.T) {
	ts := newTestServer(t)

	var body output.UserRecommendations
	if status := get(t, ts.URL+"/api/v1/users/u1/recommendations", &body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body.UserID != "u1" {
		t.Errorf("user_id = %q", body.UserID)
	}
	if len(body.Recommendations.Events) != 1 || body.Recommendations.Events[0].ItemID != "e1" {
		t.Errorf("events = %+v", body.Recommendations.Events)
	}
	if body.Recommendations.Posts == nil {
		t.Error("empty post list should decode as [], not null")
	}
}

func TestUserRecommendations_UnknownUser(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Code string `json:"code"`
	}
	if status := get(t, ts.URL+"/api/v1/users/ghost/recommendations", &body); status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if body.Code != "not_found" {
		t.Errorf("code = %q, want not_found", body.Code)
	}
}

func TestTypeRecommendations(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"events", "event"} {
		var body struct {
			Recommendations []output.Entry `json:"recommendations"`
		}
		if status := get(t, ts.URL+"/api/v1/recommendations/"+path, &body); status != http.StatusOK {
			t.Fatalf("status for %s = %d", path, status)
		}
		// Flat list ordered by user id then rank.
		if len(body.Recommendations) != 2 {
			t.Fatalf("entries for %s = %d, want 2", path, len(body.Recommendations))
		}
		if body.Recommendations[0].UserID != "u1" || body.Recommendations[1].UserID != "u2" {
			t.Errorf("order for %s = %s, %s", path,
				body.Recommendations[0].UserID, body.Recommendations[1].UserID)
		}
	}
}

func TestTypeRecommendations_UnknownType(t *testing.T) {
	ts := newTestServer(t)

	if status := get(t, ts.URL+"/api/v1/recommendations/movies", nil); status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	// Users are served by a dedicated route, not the type listing.
	if status := get(t, ts.URL+"/api/v1/recommendations/users", nil); status != http.StatusNotFound {
		t.Errorf("users status = %d, want 404", status)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]string
	if status := get(t, ts.URL+"/healthz", &body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["status"] != "ok" {
		t.Errorf("status body = %v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	if status := get(t, ts.URL+"/metrics", nil); status != http.StatusOK {
		t.Errorf("status = %d", status)
	}
}
