// Package server runs the local live viewer: an HTTP page that draws the
// frames of one layout session pushed over a websocket and sends pointer
// events back.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/TFMV/colexgraph/ingest"
	"github.com/TFMV/colexgraph/interact"
	"github.com/TFMV/colexgraph/layout"
	"github.com/TFMV/colexgraph/models"
	"github.com/TFMV/colexgraph/render"
)

// Config for the server
type Config struct {
	Addr       string
	FPS        int
	Layout     layout.Options
	Context    interact.RenderContext
	Projection interact.Projection
	Output     *render.OutputOptions
	// Converter rasterizes PNG exports. Nil uses headless Chrome.
	Converter render.Converter
}

// Server serves the viewer of one dataset. At most one session is live at
// a time.
type Server struct {
	cfg      Config
	dataset  *ingest.Dataset
	log      *slog.Logger
	upgrader websocket.Upgrader
	live     atomic.Bool
}

// New creates a server for ds.
func New(ds *ingest.Dataset, cfg Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}
	if cfg.Context == (interact.RenderContext{}) {
		cfg.Context = interact.DefaultContext()
	}
	if cfg.Output == nil {
		cfg.Output = render.NewDefaultOptions("svg")
	}
	if cfg.Output.Projection == nil {
		cfg.Output.Projection = cfg.Projection
	}
	if cfg.Converter == nil {
		cfg.Converter = &render.ChromeConverter{}
	}
	return &Server{
		cfg:     cfg,
		dataset: ds,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1 << 16,
		},
	}
}

// Handler returns the routes of the viewer.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleSession)
	mux.HandleFunc("/api/graph", s.handleAPIGraph)
	return mux
}

// Start launches the web server and blocks until ctx is done or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("starting viewer", "addr", s.cfg.Addr, "document", s.dataset.ID)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// handleAPIGraph serves the model of the dataset as built, before layout.
func (s *Server) handleAPIGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.dataset.Model); err != nil {
		s.log.Error("encoding graph", "err", err)
	}
}

// handleSession upgrades the connection and runs a session until the page
// goes away. A second page is turned away while one is connected.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if !s.live.CompareAndSwap(false, true) {
		http.Error(w, "a viewer session is already open", http.StatusConflict)
		return
	}
	defer s.live.Store(false)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	sess, err := s.newSession(conn)
	if err != nil {
		s.log.Error("starting session", "err", err)
		conn.WriteJSON(errorMessage(err))
		return
	}
	sess.log.Info("session opened", "remote", r.RemoteAddr)
	err = sess.run(r.Context())
	sess.log.Info("session closed", "frames", sess.coord.Frames(), "err", err)
}

// session owns one layout. Only run touches the coordinator and the
// handler; the reader goroutine just decodes messages.
type session struct {
	id      string
	doc     string
	conn    *websocket.Conn
	cfg     *Config
	lookups *models.Lookups
	coord   *layout.Coordinator
	handler *interact.Handler
	log     *slog.Logger
}

func (s *Server) newSession(conn *websocket.Conn) (*session, error) {
	// Every session lays out a fresh copy; nothing carries over.
	m, err := models.BuildDocument(s.dataset.Document)
	if err != nil {
		return nil, err
	}
	id := uuid.New().String()
	log := s.log.With("session", id)

	coord := layout.New(m, s.cfg.Layout, log)
	coord.Start()
	h := interact.NewHandler(m, s.dataset.Lookups, coord, s.cfg.Projection, s.cfg.Context, log)

	return &session{
		id:      id,
		doc:     s.dataset.ID,
		conn:    conn,
		cfg:     &s.cfg,
		lookups: s.dataset.Lookups,
		coord:   coord,
		handler: h,
		log:     log,
	}, nil
}

func (s *session) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgs := make(chan clientMessage)
	readErr := make(chan error, 1)
	go s.read(ctx, msgs, readErr)

	hello := serverMessage{Type: "hello", Session: s.id, Document: s.doc}
	if err := s.send(hello); err != nil {
		return err
	}
	if err := s.sendFrame(); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		case <-ticker.C:
			if !s.coord.Primary().Running() {
				continue
			}
			s.coord.Frame()
			if err := s.sendFrame(); err != nil {
				return err
			}
		case msg := <-msgs:
			if err := s.apply(ctx, msg); err != nil {
				return err
			}
		}
	}
}

func (s *session) read(ctx context.Context, msgs chan<- clientMessage, errc chan<- error) {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			errc <- err
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Warn("dropping undecodable message", "err", err)
			continue
		}
		select {
		case msgs <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// apply handles one client message. Bad requests are reported to the page
// and do not end the session; only write failures do.
func (s *session) apply(ctx context.Context, msg clientMessage) error {
	req, err := msg.decode()
	if err != nil {
		return s.send(errorMessage(err))
	}

	switch {
	case req.event != nil:
		if err := s.handler.Handle(req.event); err != nil {
			s.log.Warn("event rejected", "type", msg.Type, "err", err)
			return s.send(errorMessage(err))
		}
	case req.action != nil:
		s.handler.Dispatch(req.action)
	default:
		return s.export(ctx, req.export)
	}
	return s.sendFrame()
}

// export renders the current frame on the session goroutine, which is the
// only writer of the model. PNG conversion runs under ctx and the export
// timeout and sees only the finished SVG.
func (s *session) export(ctx context.Context, format string) error {
	renderer, err := render.GetRenderer(format)
	if err != nil {
		return s.send(errorMessage(err))
	}

	opts := *s.cfg.Output
	opts.Format = format
	frame := render.NewFrame(s.coord, s.handler, s.lookups)

	var data []byte
	if png, ok := renderer.(*render.PNGRenderer); ok {
		png.Converter = s.cfg.Converter
		data, err = png.RenderContext(ctx, frame, &opts)
	} else {
		data, err = renderer.Render(frame, &opts)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn("export failed", "format", format, "err", err)
		return s.send(errorMessage(err))
	}
	s.log.Info("exported frame", "format", format, "bytes", len(data), "frame", frame.Index)
	return s.send(exportMessage(format, data))
}

func (s *session) sendFrame() error {
	return s.send(frameMessage(render.NewSnapshot(render.NewFrame(s.coord, s.handler, s.lookups))))
}

func (s *session) send(msg serverMessage) error {
	s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := s.conn.WriteJSON(msg); err != nil {
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return fmt.Errorf("writing %s message: %w", msg.Type, err)
	}
	return nil
}
