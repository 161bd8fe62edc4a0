package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/app/orch"
	"github.com/dkeye/Meet/internal/config"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type recordingConn struct{ frames []core.Frame }

func (c *recordingConn) TrySend(f core.Frame) error {
	c.frames = append(c.frames, f)
	return nil
}

func (c *recordingConn) Close() {}

func setup(t *testing.T) (*gin.Engine, *orch.Orchestrator) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rooms := app.NewRoomManager()
	o := orch.New(app.NewRegistry(), rooms, app.NewChannels(), app.NewJoinPolicy(rooms, 15*time.Minute))
	cfg := &config.Config{Mode: "test", WriteWait: time.Second, SendBuffer: 8}
	return SetupRouter(context.Background(), cfg, o), o
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Healthz(t *testing.T) {
	r, _ := setup(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/healthz", nil).Code)
}

func TestRouter_Eligibility(t *testing.T) {
	req := require.New(t)
	r, o := setup(t)
	start := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)

	// Given the meeting is past its deadline and empty
	w := do(r, http.MethodPost, "/api/meetings/m1/eligibility", gin.H{"startTime": start, "passwordProtected": true})
	req.Equal(http.StatusOK, w.Code)
	var d app.JoinDecision
	req.NoError(json.Unmarshal(w.Body.Bytes(), &d))
	req.False(d.Joinable)
	req.True(d.PasswordRequired)
	req.True(start.Add(15 * time.Minute).Equal(d.Deadline))

	// When someone is still in the call
	_, err := o.Connect("c1", "alice", &recordingConn{})
	req.NoError(err)
	req.NoError(o.Join("c1", "m1", domain.RoleParticipant))

	// Then it is joinable
	w = do(r, http.MethodPost, "/api/meetings/m1/eligibility", gin.H{"startTime": start})
	req.NoError(json.Unmarshal(w.Body.Bytes(), &d))
	req.True(d.Joinable)
	req.Equal(1, d.Occupants)
}

func TestRouter_Eligibility_Missing_Start(t *testing.T) {
	r, _ := setup(t)
	w := do(r, http.MethodPost, "/api/meetings/m1/eligibility", gin.H{"passwordProtected": true})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Notifications(t *testing.T) {
	req := require.New(t)
	r, o := setup(t)
	body := gin.H{
		"id":        "n1",
		"createdAt": time.Now().UTC(),
		"message":   "Bob sent you a friend request",
		"type":      "friendshipRequest",
		"user":      gin.H{"id": "alice", "name": "Alice", "email": "alice@example.com"},
	}

	w := do(r, http.MethodPost, "/api/users/alice/notifications", body)
	req.Equal(http.StatusOK, w.Code)
	req.JSONEq(`{"delivered":false}`, w.Body.String())

	conn := &recordingConn{}
	_, err := o.Connect("c1", "alice", conn)
	req.NoError(err)

	w = do(r, http.MethodPost, "/api/users/alice/notifications", body)
	req.Equal(http.StatusOK, w.Code)
	req.JSONEq(`{"delivered":true}`, w.Body.String())
	req.Len(conn.frames, 1)
}

func TestRouter_Notifications_Invalid_Type(t *testing.T) {
	r, _ := setup(t)
	w := do(r, http.MethodPost, "/api/users/alice/notifications", gin.H{
		"id": "n1", "createdAt": time.Now().UTC(), "message": "x", "type": "spam",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Rooms(t *testing.T) {
	req := require.New(t)
	r, o := setup(t)
	_, err := o.Connect("c1", "alice", &recordingConn{})
	req.NoError(err)
	req.NoError(o.Join("c1", "m1", domain.RoleInterpreter))

	w := do(r, http.MethodGet, "/api/rooms", nil)
	req.Equal(http.StatusOK, w.Code)
	req.JSONEq(`{"rooms":[{"meeting":"m1","member_count":1}]}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/rooms/m1/members", nil)
	req.Equal(http.StatusOK, w.Code)
	req.JSONEq(`{"meeting":"m1","members":[{"channel":"c1","role":"interpreter"}]}`, w.Body.String())
}
