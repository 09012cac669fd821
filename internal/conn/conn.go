package conn

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tobsdb/pdb/internal/auth"
	"github.com/tobsdb/pdb/internal/command"
	"github.com/tobsdb/pdb/pkg"
)

type WsRequest struct {
	Command string `json:"command"`
	// must be true for drop_table and delete
	Confirm bool `json:"confirm"`
	ReqId   int  `json:"__tdb_client_req_id__"` // used in tdb clients
}

var Upgrader = websocket.Upgrader{
	WriteBufferSize: 1024 * 10,
	ReadBufferSize:  1024 * 10,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server exposes an Engine over websockets. Only one session runs at a time.
type Server struct {
	engine *Engine
	// nil disables auth
	user *auth.User

	session sync.Mutex
}

func NewServer(engine *Engine, user *auth.User) *Server {
	return &Server{engine: engine, user: user}
}

func (s *Server) GetLocker() *sync.Mutex { return &s.session }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", s.HandleConnection)
	return mux
}

// Listen serves until ctx is cancelled.
func (s *Server) Listen(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serve_err := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			serve_err <- err
		}
		close(serve_err)
	}()

	pkg.InfoLog("pdb listening on", addr)
	select {
	case err := <-serve_err:
		return err
	case <-ctx.Done():
	}

	pkg.DebugLog("Shutting down...")
	shutdown_ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdown_ctx)
}

func HttpError(w http.ResponseWriter, status int, err string) {
	pkg.InfoLog("http error:", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(NewErrorResponse(status, err).Marshal())
}

func (s *Server) validate(r *http.Request) bool {
	if s.user == nil {
		return true
	}
	q := r.URL.Query()
	return s.user.ValidateUser(q.Get("username"), q.Get("password"))
}

func (s *Server) HandleConnection(w http.ResponseWriter, r *http.Request) {
	if !s.validate(r) {
		HttpError(w, http.StatusUnauthorized, "connection unauthorized")
		return
	}

	served := pkg.TryLockWrap(s, func() {
		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			pkg.ErrorLog(err)
			return
		}
		defer conn.Close()

		session_id := uuid.New().String()
		pkg.InfoLog("New session", session_id, "from", r.RemoteAddr)
		defer pkg.InfoLog("Session closed", session_id)

		s.serveSession(r.Context(), conn, session_id)
	})
	if !served {
		HttpError(w, http.StatusServiceUnavailable, "busy")
	}
}

func (s *Server) serveSession(ctx context.Context, conn *websocket.Conn, session_id string) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				pkg.ErrorLog("unexpected close", err)
			} else {
				pkg.DebugLog("connection closed", err)
			}
			return
		}

		var req WsRequest
		var res Response
		var cmd *command.Command
		if err := json.Unmarshal(message, &req); err != nil {
			res = NewErrorResponse(http.StatusBadRequest, err.Error())
		} else if cmd, err = command.Parse(req.Command); err != nil {
			res = errorResponse(err)
		} else if !userHasClearance(s.user, cmd.Action) {
			res = NewErrorResponse(http.StatusForbidden, auth.InsufficientPermissions.Error())
		} else {
			pkg.DebugLog(session_id, "running", cmd.Raw)
			confirmed := req.Confirm
			res = s.engine.ExecuteWith(ctx, cmd, ConfirmFunc(func(command.Action, string) bool { return confirmed }))
		}
		res.ReqId = req.ReqId

		if err := conn.WriteJSON(res); err != nil {
			pkg.ErrorLog("writing response", err)
			return
		}

		if cmd != nil && cmd.Action == command.ActionExit {
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Bye"))
			return
		}
	}
}
