// Go client for a pdb server started with --serve.
//
// Usage:
//
//	c, err := client.NewClient("ws://localhost:7085", client.ClientOptions{
//		Username: "admin",
//		Password: "secret",
//	})
//	if err != nil {
//		...
//	}
//	defer c.Disconnect()
//
//	res, err := c.Insert("users", "Ann", 30)
//	res, err = c.Select("users", client.Where("age", 30))
package client

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	ws "github.com/gorilla/websocket"
	"github.com/tobsdb/pdb/pkg"
)

type ClientOptions struct {
	Username string
	Password string
}

// Client sends command lines over a single websocket connection.
// Requests are serialized and every response is matched to its request id.
type Client struct {
	conn *ws.Conn
	// The formatted connection url of the pdb server
	Url    *url.URL
	req_id int
	locker sync.Mutex
}

func NewClient(url_str string, options ClientOptions) (*Client, error) {
	u, err := url.Parse(url_str)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("username", options.Username)
	q.Set("password", options.Password)
	u.RawQuery = q.Encode()

	return &Client{Url: u}, nil
}

func (c *Client) GetLocker() *sync.Mutex { return &c.locker }

func (c *Client) Connect() error {
	if c.conn != nil {
		return nil
	}
	conn, res, err := ws.DefaultDialer.Dial(c.Url.String(), nil)
	if err != nil {
		if res != nil {
			return fmt.Errorf("failed to connect: %s: %w", res.Status, err)
		}
		return err
	}

	pkg.DebugLog("Connected to pdb server", c.Url.Host)
	c.conn = conn
	return nil
}

func (c *Client) Disconnect() error {
	if c.conn == nil {
		return nil
	}
	defer func() { c.conn = nil }()

	err := c.conn.WriteMessage(ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, "Disconnect"))
	if err != nil {
		pkg.ErrorLog(err)
		c.conn.Close()
		return err
	}
	if err := c.conn.Close(); err != nil {
		pkg.ErrorLog(err)
		return err
	}

	pkg.DebugLog("Disconnected from pdb server")
	return nil
}

type Response struct {
	Status    int      `json:"status"`
	Message   string   `json:"message"`
	Data      any      `json:"data"`
	Columns   []string `json:"columns"`
	Elapsed   int64    `json:"elapsed"`
	RequestId int      `json:"__tdb_client_req_id__"`
}

// Ok reports whether the server accepted the command.
func (r Response) Ok() bool { return r.Status < 400 }

type request struct {
	Command string `json:"command"`
	Confirm bool   `json:"confirm"`
	ReqId   int    `json:"__tdb_client_req_id__"`
}

func (c *Client) send(line string, confirm bool) (Response, error) {
	var res Response
	var err error
	pkg.LockWrap(c, func() {
		if err = c.Connect(); err != nil {
			return
		}

		c.req_id++
		req := request{Command: line, Confirm: confirm, ReqId: c.req_id}
		if err = c.conn.WriteJSON(req); err != nil {
			return
		}
		if err = c.conn.ReadJSON(&res); err != nil {
			return
		}
		if res.RequestId != req.ReqId {
			err = fmt.Errorf("response for request %d, expected %d", res.RequestId, req.ReqId)
		}
	})
	return res, err
}

// Exec runs a raw command line. Destructive commands are sent unconfirmed
// and come back cancelled; use ExecConfirmed for those.
func (c *Client) Exec(line string) (Response, error) {
	return c.send(line, false)
}

func (c *Client) ExecConfirmed(line string) (Response, error) {
	return c.send(line, true)
}

type Condition struct {
	Column string
	Value  any
}

func Where(column string, value any) *Condition {
	return &Condition{Column: column, Value: value}
}

func (cond *Condition) String() string {
	return cond.Column + " = " + FormatValue(cond.Value)
}

// FormatValue renders v as a command literal. Strings are double quoted.
func FormatValue(v any) string {
	switch v := v.(type) {
	case string:
		return `"` + v + `"`
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return `""`
	default:
		return fmt.Sprint(v)
	}
}

func (c *Client) CreateTable(table string, columns ...string) (Response, error) {
	return c.Exec(fmt.Sprintf("create_table %s %s", table, strings.Join(columns, " ")))
}

func (c *Client) DropTable(table string) (Response, error) {
	return c.ExecConfirmed("drop_table " + table)
}

func (c *Client) ListTables() (Response, error) {
	return c.Exec("list_tables")
}

func (c *Client) Info(table string) (Response, error) {
	return c.Exec("info " + table)
}

func (c *Client) Insert(table string, values ...any) (Response, error) {
	return c.Exec(fmt.Sprintf("insert into %s values (%s)", table,
		strings.Join(pkg.Map2(values, FormatValue), ", ")))
}

// Select reads every row of table when where is nil.
func (c *Client) Select(table string, where *Condition) (Response, error) {
	line := "select from " + table
	if where != nil {
		line += " where " + where.String()
	}
	return c.Exec(line)
}

func (c *Client) Update(table string, set, where *Condition) (Response, error) {
	return c.Exec(fmt.Sprintf("update %s set %s where %s", table, set, where))
}

func (c *Client) Delete(table string, where *Condition) (Response, error) {
	return c.ExecConfirmed(fmt.Sprintf("delete from %s where %s", table, where))
}
