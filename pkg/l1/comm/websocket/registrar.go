package websocket

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/regulator.go/pkg/framework"
	"github.com/robotalks/regulator.go/pkg/l1"
	"github.com/robotalks/regulator.go/pkg/l1/comm"
)

// Endpoint paths served by a Registrar.
const (
	InfoPath = "/info"
	ConnPath = "/l1"
)

// Registrar implements l1.Registrar by accepting websocket connections.
// Every connection is a supervisor; events go to all of them.
type Registrar struct {
	Info l1.ControllerInfo
	// Listener is used instead of listening on the address when set.
	Listener net.Listener

	addr  string
	conns map[*comm.Registrar]struct{}
	lock  sync.Mutex
}

// NewRegistrar creates a Registrar listening on addr, e.g. ":8080".
func NewRegistrar(addr string, info l1.ControllerInfo) *Registrar {
	return &Registrar{Info: info, addr: addr, conns: make(map[*comm.Registrar]struct{})}
}

// SendEvent implements l1.Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	r.lock.Lock()
	conns := make([]*comm.Registrar, 0, len(r.conns))
	for conn := range r.conns {
		conns = append(conns, conn)
	}
	r.lock.Unlock()
	var errs fx.AggregatedError
	for _, conn := range conns {
		errs.Add(conn.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(r)
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc(InfoPath, r.serveInfo)
	mux.Handle(ConnPath, websocket.Handler(func(ws *websocket.Conn) {
		r.serveConn(ctx, ws)
	}))
	server := &http.Server{Addr: r.addr, Handler: mux}
	return fx.RunWithContextCloser(ctx, server, func() error {
		ln := r.Listener
		if ln == nil {
			var err error
			if ln, err = net.Listen("tcp", r.addr); err != nil {
				return err
			}
		}
		glog.Infof("websocket registrar listening on %s", ln.Addr())
		return server.Serve(ln)
	})
}

func (r *Registrar) serveInfo(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode([]l1.ControllerInfo{r.Info}); err != nil {
		glog.Warningf("write info: %v", err)
	}
}

func (r *Registrar) serveConn(ctx context.Context, ws *websocket.Conn) {
	ws.PayloadType = websocket.BinaryFrame
	conn := &comm.Registrar{}
	conn.Init(New(ws))
	r.lock.Lock()
	r.conns[conn] = struct{}{}
	r.lock.Unlock()
	glog.Infof("supervisor connected from %s", ws.Request().RemoteAddr)

	err := fx.RunWithContextCloser(ctx, ws, func() error { return conn.Serve(ctx) })

	r.lock.Lock()
	delete(r.conns, conn)
	r.lock.Unlock()
	glog.Infof("supervisor %s disconnected: %v", ws.Request().RemoteAddr, err)
}
