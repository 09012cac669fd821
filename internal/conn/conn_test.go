package conn_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/tobsdb/pdb/internal/auth"
	. "github.com/tobsdb/pdb/internal/conn"
	"github.com/tobsdb/pdb/internal/storage"
	"gotest.tools/assert"
)

func newTestServer(t *testing.T, user *auth.User) *httptest.Server {
	t.Helper()
	engine := NewEngine(storage.NewMemoryProvider(), nil)
	srv := httptest.NewServer(NewServer(engine, user).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func wsUrl(srv *httptest.Server, username, password string) string {
	q := url.Values{}
	q.Set("username", username)
	q.Set("password", password)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/?" + q.Encode()
}

func send(t *testing.T, c *websocket.Conn, req WsRequest) Response {
	t.Helper()
	assert.NilError(t, c.WriteJSON(req))
	var res Response
	assert.NilError(t, c.ReadJSON(&res))
	return res
}

func TestServer(t *testing.T) {
	admin, err := auth.NewUser("admin", "secret", auth.UserRoleAdmin)
	assert.NilError(t, err)

	t.Run("health", func(t *testing.T) {
		srv := newTestServer(t, admin)
		res, err := http.Get(srv.URL + "/health")
		assert.NilError(t, err)
		defer res.Body.Close()
		body, _ := io.ReadAll(res.Body)
		assert.Equal(t, res.StatusCode, http.StatusOK)
		assert.Equal(t, string(body), "ok")
	})

	t.Run("executes commands", func(t *testing.T) {
		srv := newTestServer(t, admin)
		c, _, err := websocket.DefaultDialer.Dial(wsUrl(srv, "admin", "secret"), nil)
		assert.NilError(t, err)
		defer c.Close()

		res := send(t, c, WsRequest{Command: "create_table users name:str", ReqId: 7})
		assert.Equal(t, res.Status, http.StatusCreated)
		assert.Equal(t, res.ReqId, 7)

		res = send(t, c, WsRequest{Command: `insert into users values ("Ann")`, ReqId: 8})
		assert.Equal(t, res.Message, `Row with ID=1 added to table "users"`)
		assert.Equal(t, res.ReqId, 8)

		res = send(t, c, WsRequest{Command: "select from users"})
		assert.DeepEqual(t, res.Columns, []string{"ID", "name"})
		assert.Equal(t, len(res.Data.([]any)), 1)

		res = send(t, c, WsRequest{Command: "select users"})
		assert.Equal(t, res.Status, http.StatusBadRequest)
	})

	t.Run("destructive commands need confirm", func(t *testing.T) {
		srv := newTestServer(t, admin)
		c, _, err := websocket.DefaultDialer.Dial(wsUrl(srv, "admin", "secret"), nil)
		assert.NilError(t, err)
		defer c.Close()

		send(t, c, WsRequest{Command: "create_table users name:str"})
		res := send(t, c, WsRequest{Command: "drop_table users"})
		assert.Equal(t, res.Message, MessageCancelled)

		res = send(t, c, WsRequest{Command: "drop_table users", Confirm: true})
		assert.Equal(t, res.Message, `Table "users" dropped`)
	})

	t.Run("bad credentials", func(t *testing.T) {
		srv := newTestServer(t, admin)
		_, res, err := websocket.DefaultDialer.Dial(wsUrl(srv, "admin", "wrong"), nil)
		assert.Equal(t, err, websocket.ErrBadHandshake)
		assert.Equal(t, res.StatusCode, http.StatusUnauthorized)
	})

	t.Run("second session is rejected", func(t *testing.T) {
		srv := newTestServer(t, admin)
		c, _, err := websocket.DefaultDialer.Dial(wsUrl(srv, "admin", "secret"), nil)
		assert.NilError(t, err)
		defer c.Close()

		_, res, err := websocket.DefaultDialer.Dial(wsUrl(srv, "admin", "secret"), nil)
		assert.Assert(t, err != nil)
		assert.Equal(t, res.StatusCode, http.StatusServiceUnavailable)
	})

	t.Run("role clearance", func(t *testing.T) {
		reader, err := auth.NewUser("reader", "pass", auth.UserRoleReadOnly)
		assert.NilError(t, err)
		srv := newTestServer(t, reader)
		c, _, err := websocket.DefaultDialer.Dial(wsUrl(srv, "reader", "pass"), nil)
		assert.NilError(t, err)
		defer c.Close()

		res := send(t, c, WsRequest{Command: "create_table users name:str"})
		assert.Equal(t, res.Status, http.StatusForbidden)

		res = send(t, c, WsRequest{Command: "list_tables"})
		assert.Equal(t, res.Status, http.StatusOK)
	})
}
