// internal/store/remote_test.go
package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/notify"
)

func newTestRemote(t *testing.T, handler http.HandlerFunc) (*Remote[testRecord, testPatch], *notify.Feed) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	feed := notify.NewFeed(nil)
	cfg := RemoteConfig{BaseURL: srv.URL, AppID: "app-123", APIKey: "key-456"}
	client := NewRemote[testRecord, testPatch](cfg, "widget_c", "widgets", []string{"Id", "Name"}, nil, feed)
	return client, feed
}

func TestRemote_ListSendsCredentialsAndFieldSelection(t *testing.T) {
	var gotPath, gotAppID, gotAPIKey string
	client, feed := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAppID = r.Header.Get("X-App-Id")
		gotAPIKey = r.Header.Get("X-Api-Key")
		w.Write([]byte(`{"success":true,"data":[{"Id":"1","Name":"one"},{"Id":"2","Name":"two"}]}`))
	})

	got, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Name)
	assert.Equal(t, "/widget_c/fetch", gotPath)
	assert.Equal(t, "app-123", gotAppID)
	assert.Equal(t, "key-456", gotAPIKey)
	assert.Empty(t, feed.Drain())
}

func TestRemote_ListFailSoftOnServerError(t *testing.T) {
	client, feed := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	got, err := client.List(context.Background())
	require.NoError(t, err, "transport failures never propagate")
	assert.Empty(t, got)

	notifications := feed.Drain()
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.LevelError, notifications[0].Level)
	assert.Contains(t, notifications[0].Message, "widgets")
}

func TestRemote_ListFailSoftOnServerReportedFailure(t *testing.T) {
	client, feed := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"quota exceeded"}`))
	})

	got, err := client.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Len(t, feed.Drain(), 1)
}

func TestRemote_GetByIDNotFound(t *testing.T) {
	client, feed := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":null}`))
	})

	_, err := client.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, feed.Drain(), "not-found is recoverable, not a failure")
}

func TestRemote_GetByID404(t *testing.T) {
	client, feed := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, feed.Drain())
}

func TestRemote_CreateEchoesStoredRecord(t *testing.T) {
	client, feed := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"success":true,"results":[{"success":true,"data":{"Id":"9","Name":"stored"}}]}`))
	})

	got, err := client.Create(context.Background(), testRecord{Name: "stored"})
	require.NoError(t, err)
	assert.Equal(t, "9", got.ID)
	assert.Equal(t, "stored", got.Name)
	assert.Empty(t, feed.Drain())
}

func TestRemote_CreatePartialBatchFailure(t *testing.T) {
	client, feed := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"results":[{"success":false,"message":"rejected","errors":[{"fieldLabel":"Name","message":"too long"}]}]}`))
	})

	got, err := client.Create(context.Background(), testRecord{Name: "bad"})
	require.NoError(t, err, "per-record failure converts to a null result")
	assert.Empty(t, got.ID)

	notifications := feed.Drain()
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.LevelError, notifications[0].Level)
}

func TestRemote_UpdateSendsOnlySetFields(t *testing.T) {
	var gotBody map[string]any
	client, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, decodeJSON(r, &gotBody))
		w.Write([]byte(`{"success":true,"results":[{"success":true,"data":{"Id":"1","Name":"after"}}]}`))
	})

	name := "after"
	got, err := client.Update(context.Background(), "1", testPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)

	records, ok := gotBody["records"].([]any)
	require.True(t, ok)
	require.Len(t, records, 1)
	fields, ok := records[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1", fields["Id"])
	assert.Equal(t, "after", fields["Name"])
	_, present := fields["tags_c"]
	assert.False(t, present, "unset patch fields stay off the wire")
}

func TestRemote_DeleteReportsWasFound(t *testing.T) {
	client, feed := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"results":[{"success":true}]}`))
	})

	found, err := client.Delete(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, feed.Drain())
}

func TestRemote_DeleteMissingIsFalseNotError(t *testing.T) {
	client, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"results":[{"success":false,"message":"record does not exist"}]}`))
	})

	found, err := client.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}
