package loki

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewClient_RequiresURL(t *testing.T) {
	if _, err := NewClient(" "); err == nil {
		t.Fatal("NewClient should reject an empty URL")
	}
}

func TestPushEventJSON(t *testing.T) {
	var got PushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/loki/api/v1/push" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL + "/")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	raw := []byte(`{"id":"e1","event_type":"donor.registered","source":"api server","created_at":"2024-03-15T10:00:00Z"}`)
	if err := c.PushEventJSON(context.Background(), raw); err != nil {
		t.Fatalf("PushEventJSON: %v", err)
	}

	ts := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC).UnixNano()
	want := PushRequest{Streams: []Stream{{
		Stream: map[string]string{"job": Job, "event_type": "donor.registered", "source": "api_server"},
		Values: [][]string{{strconv.FormatInt(ts, 10), string(raw)}},
	}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("push body mismatch (-want +got):\n%s", diff)
	}
}

func TestPush_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()
	c, _ := NewClient(srv.URL)
	if err := c.PushEventJSON(context.Background(), []byte("not json")); err == nil {
		t.Fatal("expected error on 400")
	}
}
