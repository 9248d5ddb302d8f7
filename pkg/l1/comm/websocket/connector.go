package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/websocket"

	"github.com/robotalks/regulator.go/pkg/l1"
	"github.com/robotalks/regulator.go/pkg/l1/comm"
)

// Connector implements l1.Connector for a single node serving a
// Registrar at a ws:// URL.
type Connector struct {
	base *url.URL
}

// NewConnector creates a Connector from a URL like ws://host:8080.
func NewConnector(registryURL string) (*Connector, error) {
	u, err := url.Parse(registryURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("unsupported websocket scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return &Connector{base: u}, nil
}

func (c *Connector) endpoint(scheme, path string) string {
	u := *c.base
	u.Scheme = scheme
	u.Path += path
	return u.String()
}

func (c *Connector) httpScheme() string {
	if c.base.Scheme == "wss" {
		return "https"
	}
	return "http"
}

// Discover implements l1.Connector.
func (c *Connector) Discover(ctx context.Context) ([]l1.ControllerInfo, error) {
	req, err := http.NewRequest(http.MethodGet, c.endpoint(c.httpScheme(), InfoPath), nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discover: %s", resp.Status)
	}
	var infoList []l1.ControllerInfo
	if err := json.NewDecoder(resp.Body).Decode(&infoList); err != nil {
		return nil, err
	}
	return infoList, nil
}

// Connect implements l1.Connector. The node behind the URL is the only
// one reachable, so ref is not checked.
func (c *Connector) Connect(ctx context.Context, ref l1.ControllerRef) (l1.ControllerConn, error) {
	ws, err := websocket.Dial(c.endpoint(c.base.Scheme, ConnPath), "", c.endpoint(c.httpScheme(), "/"))
	if err != nil {
		return nil, err
	}
	ws.PayloadType = websocket.BinaryFrame
	conn := &ControllerConn{Ref: ref}
	conn.Init(New(ws))
	return conn, nil
}

// ControllerConn is the websocket connection to a node. Add it to a loop
// to receive replies and events.
type ControllerConn struct {
	comm.ControllerConn
	Ref l1.ControllerRef
}
